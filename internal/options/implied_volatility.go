package options

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

const (
	ivTolerance     = 1e-8
	ivMaxIterations = 200
	ivMaxVolatility = 100.0
)

// ImpliedVolatility finds the volatility at which the model price of spec
// equals marketPrice. spec.Volatility is ignored. The price must lie strictly
// inside the no-arbitrage bounds of the contract.
func ImpliedVolatility(spec types.OptionContractSpec, marketPrice float64) (float64, error) {
	spec.Volatility = 0
	if err := Validate(spec); err != nil {
		return 0, err
	}

	if math.IsNaN(marketPrice) || math.IsInf(marketPrice, 0) {
		return 0, errors.New(errors.ErrCodeInvalidOptionSpec, "market price must be a finite number")
	}

	if spec.TimeToExpiry <= 0 {
		return 0, errors.New(errors.ErrCodeImpliedVolNotFound, "expired contracts have no implied volatility")
	}

	lower, upper := priceBounds(spec)
	if marketPrice <= lower || marketPrice >= upper {
		return 0, errors.Newf(errors.ErrCodeImpliedVolNotFound, "market price %.6f outside no-arbitrage bounds (%.6f, %.6f)", marketPrice, lower, upper)
	}

	price := func(vol float64) float64 {
		spec.Volatility = vol
		// spec was validated above and vol is positive
		result, _ := Evaluate(spec)

		return result.TheoreticalPrice
	}

	lo, hi := 0.0, 1.0
	for price(hi) < marketPrice {
		hi *= 2
		if hi > ivMaxVolatility {
			return 0, errors.Newf(errors.ErrCodeImpliedVolNotFound, "no volatility below %.0f reproduces price %.6f", ivMaxVolatility, marketPrice)
		}
	}

	for i := 0; i < ivMaxIterations && hi-lo > ivTolerance; i++ {
		mid := (lo + hi) / 2
		if price(mid) < marketPrice {
			lo = mid
		} else {
			hi = mid
		}
	}

	return (lo + hi) / 2, nil
}

// Parity returns C - P - (S - K*exp(-rT)) for a call and put priced on the
// same contract terms. It is zero up to rounding for Black-Scholes prices.
func Parity(call, put types.GreeksResult, spec types.OptionContractSpec) float64 {
	t := math.Max(spec.TimeToExpiry, 0)
	forward := spec.Spot - spec.Strike*math.Exp(-spec.RiskFreeRate*t)

	return call.TheoreticalPrice - put.TheoreticalPrice - forward
}

func priceBounds(spec types.OptionContractSpec) (float64, float64) {
	discountedStrike := spec.Strike * math.Exp(-spec.RiskFreeRate*spec.TimeToExpiry)

	if spec.Kind == types.OptionKindPut {
		return math.Max(discountedStrike-spec.Spot, 0), discountedStrike
	}

	return math.Max(spec.Spot-discountedStrike, 0), spec.Spot
}
