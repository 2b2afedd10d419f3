package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestChainWrapsOutermostFirst(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	expected := []string{"outer", "inner", "handler"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %v", len(expected), order)
	}
	for i, want := range expected {
		if order[i] != want {
			t.Fatalf("expected call %d to be %q, got %q", i, want, order[i])
		}
	}
}

func TestRequestIDMintsWhenMissing(t *testing.T) {
	t.Parallel()

	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatalf("expected a request id in the context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("expected response header %q, got %q", seen, got)
	}
}

func TestRequestIDHonorsIncoming(t *testing.T) {
	t.Parallel()

	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-chosen")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "caller-chosen" {
		t.Fatalf("expected incoming id to be kept, got %q", seen)
	}
}

func TestAccessLogSetsProcessTime(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	h := AccessLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))

	header := rec.Header().Get(processTimeHeader)
	if matched := regexp.MustCompile(`^\d+\.\d{4}s$`).MatchString(header); !matched {
		t.Fatalf("unexpected X-Process-Time value: %q", header)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("expected logged status %d, got %v", http.StatusTeapot, fields["status"])
	}
	if fields["bytes"] != int64(len("short and stout")) {
		t.Fatalf("expected logged bytes %d, got %v", len("short and stout"), fields["bytes"])
	}
	if fields["path"] != "/search" {
		t.Fatalf("expected logged path /search, got %v", fields["path"])
	}
}

func TestAccessLogImplicitOK(t *testing.T) {
	t.Parallel()

	h := AccessLog(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get(processTimeHeader) == "" {
		t.Fatalf("expected X-Process-Time on implicit 200")
	}
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	t.Parallel()

	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var e APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("expected json error body: %v", err)
	}
	if e.Error.Code != "internal_error" {
		t.Fatalf("expected code internal_error, got %q", e.Error.Code)
	}
}
