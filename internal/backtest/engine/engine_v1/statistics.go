package engine

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// calculateStatistics derives the performance metrics of a completed run.
// bars and curve have the same length; an empty run reports zeros with the
// final equity equal to the initial capital.
func calculateStatistics(initialCapital float64, bars []types.PriceBar, curve []types.EquityPoint, trades []types.Trade, totalFees float64, barsPerYear int) types.Statistics {
	stats := types.Statistics{
		InitialCapital: initialCapital,
		FinalEquity:    initialCapital,
		TotalFees:      totalFees,
	}

	if len(curve) == 0 || len(bars) == 0 {
		return stats
	}

	stats.FinalEquity = curve[len(curve)-1].Equity
	stats.TotalReturn = totalReturn(initialCapital, stats.FinalEquity)
	stats.AnnualizedReturn = annualizedReturn(initialCapital, stats.FinalEquity, bars[0], bars[len(bars)-1])
	stats.MaxDrawdown = maxDrawdown(initialCapital, curve)
	stats.SharpeRatio = sharpeRatio(curve, barsPerYear)

	if first := bars[0].Close; first > 0 {
		stats.BuyAndHoldReturn = bars[len(bars)-1].Close/first - 1
	}

	var grossProfit, grossLoss float64

	for _, trade := range trades {
		pnl := trade.PnL.TakeOr(0)
		stats.TotalPnL += pnl

		switch {
		case pnl > 0:
			stats.NumberOfWinningTrades++
			grossProfit += pnl
		case pnl < 0:
			stats.NumberOfLosingTrades++
			grossLoss += -pnl
		}
	}

	stats.NumberOfTrades = len(trades)

	if stats.NumberOfTrades > 0 {
		stats.WinRate = float64(stats.NumberOfWinningTrades) / float64(stats.NumberOfTrades)
	}

	switch {
	case grossLoss > 0:
		stats.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		stats.ProfitFactor = types.UnboundedProfitFactor
	}

	return stats
}

func totalReturn(initial, final float64) float64 {
	if initial <= 0 {
		return 0
	}

	return final/initial - 1
}

// annualizedReturn compounds the total return over the calendar days between
// the first and last bar. It is 0 when no time has elapsed.
func annualizedReturn(initial, final float64, first, last types.PriceBar) float64 {
	if initial <= 0 {
		return 0
	}

	days := last.Time.Sub(first.Time).Hours() / 24
	if days <= 0 {
		return 0
	}

	growth := final / initial
	if growth <= 0 {
		return -1
	}

	return math.Pow(growth, 365/days) - 1
}

// maxDrawdown is the largest fractional decline from a running peak. The
// initial capital counts as the first peak.
func maxDrawdown(initial float64, curve []types.EquityPoint) float64 {
	peak := initial
	worst := 0.0

	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}

		if peak <= 0 {
			continue
		}

		if dd := (peak - point.Equity) / peak; dd > worst {
			worst = dd
		}
	}

	return worst
}

// sharpeRatio annualizes the mean over the sample standard deviation of the
// bar to bar returns. It is 0 with fewer than two returns or no dispersion.
func sharpeRatio(curve []types.EquityPoint, barsPerYear int) float64 {
	if len(curve) < 3 || barsPerYear <= 0 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)

	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev <= 0 {
			continue
		}

		returns = append(returns, curve[i].Equity/prev-1)
	}

	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}

	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		sq += (r - mean) * (r - mean)
	}

	std := math.Sqrt(sq / float64(len(returns)-1))
	if std < 1e-12 {
		return 0
	}

	return mean / std * math.Sqrt(float64(barsPerYear))
}
