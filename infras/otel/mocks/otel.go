package mocks

import (
	"context"
	"beautybar/infras/otel"
)

// No-op tracer for service tests; scopes are opened on every call path so
// a gomock expectation per span would drown the tests.
type otelImpl struct {
}

// NewScope implements otel.Otel.
func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func NewOtel() otel.Otel {
	return &otelImpl{}
}
