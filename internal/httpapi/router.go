package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	sh := SearchHandler{Runner: d.Runner, Logger: d.Logger, Defaults: d.Defaults}
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Form,
	}))
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SearchHTML,
	}))
	mux.HandleFunc("/api/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SearchJSON,
	}))
	mux.HandleFunc("/api/search/csv", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SearchCSV,
	}))

	hh := HealthHandler{}
	mux.HandleFunc("/healthz", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
