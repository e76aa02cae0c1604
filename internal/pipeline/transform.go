package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/couchcryptid/hazard-normalizer/internal/observability"
)

// ReportTransformer implements Transformer by parsing each message and
// normalizing the parsed reports' addresses in one concurrent batch.
type ReportTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates a ReportTransformer. A nil geocoder sends every
// coordinate address down the fallback path.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *ReportTransformer {
	return &ReportTransformer{
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

func (t *ReportTransformer) TransformBatch(ctx context.Context, raws []domain.RawEvent) []Result {
	results := make([]Result, len(raws))
	parsed := make([]domain.Report, 0, len(raws))
	index := make([]int, 0, len(raws))

	for i, raw := range raws {
		results[i].Raw = raw
		report, err := domain.ParseRawEvent(raw)
		if err != nil {
			results[i].Err = err
			continue
		}
		parsed = append(parsed, report)
		index = append(index, i)
	}

	normalized := domain.NormalizeAddresses(ctx, parsed, t.geocoder, t.logger)
	for j, report := range normalized {
		results[index[j]].Report = report
		t.metrics.ReportsNormalized.WithLabelValues(domain.AddressOutcome(parsed[j], report)).Inc()
	}

	return results
}
