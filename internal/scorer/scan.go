package scorer

import (
	"context"
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Instrument is one symbol with its price history.
type Instrument struct {
	Symbol string
	Bars   []types.PriceBar
}

// Scan scores every instrument concurrently and returns the signals whose
// confidence is at least minConfidence, in input order. An empty result means
// nothing met the bar. Ranking is left to the caller.
func (s *Scorer) Scan(ctx context.Context, instruments []Instrument, minConfidence float64) ([]types.Signal, error) {
	if math.IsNaN(minConfidence) || minConfidence < 0 || minConfidence > 100 {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold, "minimum confidence must be between 0 and 100, got %v", minConfidence)
	}

	signals := make([]types.Signal, len(instruments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)

	for i, instrument := range instruments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			signals[i] = s.Score(instrument.Symbol, instrument.Bars)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := make([]types.Signal, 0, len(signals))
	for _, signal := range signals {
		if signal.Confidence >= minConfidence {
			filtered = append(filtered, signal)
		}
	}

	s.logger.Debug("Scan finished",
		zap.Int("instruments", len(instruments)),
		zap.Int("signals", len(filtered)),
		zap.Float64("min_confidence", minConfidence),
	)

	return filtered, nil
}
