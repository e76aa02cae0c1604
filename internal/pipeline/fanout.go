package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/hazard-normalizer/internal/domain"
)

// FanoutLoader writes each batch to several loaders in order, stopping at the
// first failure. Loaders must tolerate replays since the whole batch is
// retried after a partial failure.
type FanoutLoader struct {
	loaders []BatchLoader
}

// NewFanoutLoader returns a loader that writes to every non-nil loader given.
func NewFanoutLoader(loaders ...BatchLoader) *FanoutLoader {
	f := &FanoutLoader{}
	for _, l := range loaders {
		if l != nil {
			f.loaders = append(f.loaders, l)
		}
	}
	return f
}

func (f *FanoutLoader) LoadBatch(ctx context.Context, reports []domain.Report) error {
	for i, l := range f.loaders {
		if err := l.LoadBatch(ctx, reports); err != nil {
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}
	return nil
}
