// Package scorer turns an indicator snapshot into a directional recommendation.
package scorer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"go.uber.org/zap"
)

// Scorer applies a fixed point rubric to an IndicatorSet. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	config Config
	logger *logger.Logger
	clock  func() time.Time
}

// NewScorer validates config and returns a Scorer. A nil logger discards output.
func NewScorer(config Config, log *logger.Logger) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Scorer{
		config: config,
		logger: log,
		clock:  time.Now,
	}, nil
}

// Tally is the evidence accumulated by the rubric.
type Tally struct {
	Bullish float64
	Bearish float64
	Reasons []string
}

// Score runs the indicator library once over bars and returns a fresh Signal.
// It never fails: missing history degrades to neutral readings.
func (s *Scorer) Score(symbol string, bars []types.PriceBar) types.Signal {
	set := indicator.Analyze(bars, s.config.Indicators)
	tally := s.Tally(set)
	action, confidence := Decide(tally.Bullish, tally.Bearish, s.config.ConfidenceCap)
	entry, stop, take, rr := s.Bracket(action, set)

	signal := types.Signal{
		Symbol:          symbol,
		Action:          action,
		Confidence:      confidence,
		Rationale:       rationale(action, confidence, tally),
		CurrentPrice:    set.Price,
		EntryPrice:      entry,
		StopLoss:        stop,
		TakeProfit:      take,
		RiskRewardRatio: rr,
		TargetPrice:     take,
		TimeHorizon:     s.config.TimeHorizon,
		RiskTier:        RiskTierFor(confidence),
		BullishScore:    tally.Bullish,
		BearishScore:    tally.Bearish,
		Indicators:      set,
		GeneratedAt:     s.clock(),
	}

	s.logger.Debug("Scored instrument",
		zap.String("symbol", symbol),
		zap.String("action", string(action)),
		zap.Float64("confidence", confidence),
		zap.Float64("bullish", tally.Bullish),
		zap.Float64("bearish", tally.Bearish),
		zap.Int("bars", set.Bars),
	)

	return signal
}

// Tally applies the rubric to every indicator variant.
//
// Price above the short average adds a bullish point with no bearish
// counterpart. This asymmetry is kept on purpose.
func (s *Scorer) Tally(set types.IndicatorSet) Tally {
	var t Tally

	for _, value := range set.Values() {
		switch v := value.(type) {
		case types.OscillatorValue:
			rsi := float64(v)
			if rsi < s.config.Oversold {
				t.bull(2, "RSI %.2f is oversold", rsi)
			} else if rsi > s.config.Overbought {
				t.bear(2, "RSI %.2f is overbought", rsi)
			}
		case types.MACDResult:
			if v.Histogram > 0 {
				t.bull(1, "MACD histogram %.4f is positive", v.Histogram)
			} else if v.Histogram < 0 {
				t.bear(1, "MACD histogram %.4f is negative", v.Histogram)
			}
		case types.BandsResult:
			if set.Price < v.Lower {
				t.bull(1, "price %.2f is below the lower band %.2f", set.Price, v.Lower)
			} else if set.Price > v.Upper {
				t.bear(1, "price %.2f is above the upper band %.2f", set.Price, v.Upper)
			}
		case types.MovingAveragesResult:
			if v.GoldenCross() {
				t.bull(1, "golden cross (medium %.2f above long %.2f)", v.Medium, v.Long)
			} else if v.DeathCross() {
				t.bear(1, "death cross (medium %.2f below long %.2f)", v.Medium, v.Long)
			}

			if set.Price > v.Short {
				t.bull(1, "price %.2f is above the short average %.2f", set.Price, v.Short)
			}
		case types.TrendResult:
			switch v.Direction {
			case types.TrendDirectionBullish:
				t.bull(2*v.Strength, "bullish trend with strength %.2f", v.Strength)
			case types.TrendDirectionBearish:
				t.bear(2*v.Strength, "bearish trend with strength %.2f", v.Strength)
			case types.TrendDirectionNeutral:
			}
		case types.VolatilityValue:
			// ATR is reported in the snapshot but does not score
		}
	}

	return t
}

func (t *Tally) bull(points float64, format string, args ...any) {
	t.Bullish += points
	t.Reasons = append(t.Reasons, fmt.Sprintf(format+" (+%.2f bullish)", append(args, points)...))
}

func (t *Tally) bear(points float64, format string, args ...any) {
	t.Bearish += points
	t.Reasons = append(t.Reasons, fmt.Sprintf(format+" (+%.2f bearish)", append(args, points)...))
}

// Decide compares the tallies. Confidence is 50 + winning/total*50 capped at
// confidenceCap, and 50 for HOLD or when there is no evidence at all.
// Confidence never falls as the winning side grows; evidence for the losing
// side dilutes it, so a SELL loses confidence as bullish points are added.
func Decide(bullish, bearish, confidenceCap float64) (types.Action, float64) {
	total := bullish + bearish

	switch {
	case bullish > bearish:
		return types.ActionBuy, confidence(bullish, total, confidenceCap)
	case bearish > bullish:
		return types.ActionSell, confidence(bearish, total, confidenceCap)
	default:
		return types.ActionHold, 50
	}
}

func confidence(winning, total, confidenceCap float64) float64 {
	if total <= 0 {
		return 50
	}

	return math.Min(50+(winning/total)*50, confidenceCap)
}

// RiskTierFor maps confidence to a qualitative tier.
func RiskTierFor(confidence float64) types.RiskTier {
	switch {
	case confidence >= 80:
		return types.RiskTierLow
	case confidence >= 65:
		return types.RiskTierMedium
	default:
		return types.RiskTierHigh
	}
}

// Bracket returns entry, stop loss, take profit and the risk/reward ratio.
// HOLD uses the BUY side levels around the unadjusted price.
func (s *Scorer) Bracket(action types.Action, set types.IndicatorSet) (float64, float64, float64, optional.Option[float64]) {
	price := set.Price

	switch action {
	case types.ActionSell:
		entry := price * s.config.ShortPremium
		stop := math.Min(set.Bands.Upper, set.Trend.Resistance)
		take := math.Max(set.Bands.Lower, set.Trend.Support)

		return entry, stop, take, ratio(entry-take, stop-entry)
	case types.ActionBuy:
		entry := price * s.config.EntryDiscount
		stop := math.Max(set.Bands.Lower, set.Trend.Support)
		take := math.Min(set.Bands.Upper, set.Trend.Resistance)

		return entry, stop, take, ratio(take-entry, entry-stop)
	default:
		stop := math.Max(set.Bands.Lower, set.Trend.Support)
		take := math.Min(set.Bands.Upper, set.Trend.Resistance)

		return price, stop, take, ratio(take-price, price-stop)
	}
}

func ratio(reward, risk float64) optional.Option[float64] {
	if risk <= 0 {
		return optional.None[float64]()
	}

	return optional.Some(reward / risk)
}

func rationale(action types.Action, confidence float64, t Tally) string {
	header := fmt.Sprintf("%s with %.1f%% confidence (bullish %.2f vs bearish %.2f)", action, confidence, t.Bullish, t.Bearish)
	if len(t.Reasons) == 0 {
		return header + ": no indicator gave a directional reading"
	}

	return header + ": " + strings.Join(t.Reasons, "; ")
}
