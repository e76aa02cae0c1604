package main

import (
	"context"

	"github.com/couchcryptid/hazard-normalizer/internal/adapter/postgres"
	"github.com/couchcryptid/hazard-normalizer/internal/pipeline"
)

// readinessFunc adapts a function to the CheckReadiness interface.
type readinessFunc func(ctx context.Context) error

func (f readinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// readiness is ready once the pipeline has loaded a batch and, when a store is
// configured, the database answers a ping.
func readiness(p *pipeline.Pipeline, store *postgres.Store) readinessFunc {
	return func(ctx context.Context) error {
		if err := p.CheckReadiness(ctx); err != nil {
			return err
		}
		if store != nil {
			return store.CheckReadiness(ctx)
		}
		return nil
	}
}
