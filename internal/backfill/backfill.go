// Package backfill re-normalizes stored reports whose address is still a raw
// coordinate pair, such as rows written before geocoding was enabled.
package backfill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/hazard-normalizer/internal/domain"
)

// ReportStore is the persistence the backfill pages through and writes back to.
type ReportStore interface {
	ListReportsAfter(ctx context.Context, afterID string, limit int) ([]domain.Report, error)
	UpdateLocation(ctx context.Context, id string, loc domain.Location) error
}

// Stats summarizes a backfill run.
type Stats struct {
	Scanned  int `json:"scanned"`
	Resolved int `json:"resolved"`
	Fallback int `json:"fallback"`
}

// Runner walks the store in ID order and rewrites coordinate addresses.
type Runner struct {
	store    ReportStore
	geocoder domain.Geocoder
	logger   *slog.Logger
	pageSize int
}

// New creates a Runner. pageSize values below 1 default to 100.
func New(store ReportStore, geocoder domain.Geocoder, logger *slog.Logger, pageSize int) *Runner {
	if pageSize < 1 {
		pageSize = 100
	}
	return &Runner{store: store, geocoder: geocoder, logger: logger, pageSize: pageSize}
}

// Run processes every page until the store is exhausted or ctx is cancelled.
// Stats reflect the work done so far even when an error is returned.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	afterID := ""

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		page, err := r.store.ListReportsAfter(ctx, afterID, r.pageSize)
		if err != nil {
			return stats, fmt.Errorf("list page after %q: %w", afterID, err)
		}
		if len(page) == 0 {
			break
		}
		stats.Scanned += len(page)
		afterID = page[len(page)-1].ID

		pending := make([]domain.Report, 0, len(page))
		for _, rep := range page {
			if domain.IsCoordinateAddress(rep.Location.Address) {
				pending = append(pending, rep)
			}
		}

		normalized := domain.NormalizeAddresses(ctx, pending, r.geocoder, r.logger)
		for i, rep := range normalized {
			if err := r.store.UpdateLocation(ctx, rep.ID, rep.Location); err != nil {
				return stats, err
			}
			switch domain.AddressOutcome(pending[i], rep) {
			case domain.OutcomeResolved:
				stats.Resolved++
			case domain.OutcomeFallback:
				stats.Fallback++
			}
		}

		r.logger.Info("backfill page done",
			"after_id", afterID,
			"page_size", len(page),
			"updated", len(normalized),
		)

		if len(page) < r.pageSize {
			break
		}
	}

	r.logger.Info("backfill complete",
		"scanned", stats.Scanned,
		"resolved", stats.Resolved,
		"fallback", stats.Fallback,
	)
	return stats, nil
}
