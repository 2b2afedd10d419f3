// Package httpapi exposes the search pipeline over HTTP: a small
// server-rendered UI plus JSON and CSV endpoints.
package httpapi

import (
	"context"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/pipeline"
)

// Runner executes one search. *pipeline.Pipeline satisfies it; tests
// substitute stubs.
type Runner interface {
	Run(ctx context.Context, req *pipeline.Request) (*pipeline.Result, error)
}

type Deps struct {
	Runner Runner
	Logger *zap.Logger

	// Defaults fill request fields a caller leaves empty.
	Defaults pipeline.Request
}
