// Package options prices European options with the Black-Scholes model.
package options

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// validate is shared so the implied volatility solver does not rebuild struct metadata per step.
var validate = validator.New()

const (
	daysPerYear = 365.0
	// minVolTime is the smallest sigma*sqrt(T) priced with the closed form.
	minVolTime = 1e-10
)

// Evaluate returns the theoretical price and Greeks of spec.
//
// An expired contract (T <= 0) or one with sigma*sqrt(T) close to zero is
// priced at intrinsic value with a boundary delta and all other Greeks zero.
// Theta is per calendar day, vega and rho are per one percentage point.
func Evaluate(spec types.OptionContractSpec) (types.GreeksResult, error) {
	if err := Validate(spec); err != nil {
		return types.GreeksResult{}, err
	}

	s, k, t, sigma, r := spec.Spot, spec.Strike, spec.TimeToExpiry, spec.Volatility, spec.RiskFreeRate
	intrinsic := intrinsicValue(spec)

	if t <= 0 || sigma*math.Sqrt(t) < minVolTime {
		return expiryBoundary(spec, intrinsic), nil
	}

	sqrtT := math.Sqrt(t)
	volTime := sigma * sqrtT
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / volTime
	d2 := d1 - volTime
	discount := math.Exp(-r * t)
	pdf := normPDF(d1)

	result := types.GreeksResult{
		Gamma:          pdf / (s * volTime),
		Vega:           s * pdf * sqrtT / 100,
		IntrinsicValue: intrinsic,
	}

	decay := -s * pdf * sigma / (2 * sqrtT)

	switch spec.Kind {
	case types.OptionKindCall:
		result.TheoreticalPrice = s*normCDF(d1) - k*discount*normCDF(d2)
		result.Delta = normCDF(d1)
		result.Theta = (decay - r*k*discount*normCDF(d2)) / daysPerYear
		result.Rho = k * t * discount * normCDF(d2) / 100
		result.ProbabilityITM = normCDF(d2)
	case types.OptionKindPut:
		result.TheoreticalPrice = k*discount*normCDF(-d2) - s*normCDF(-d1)
		result.Delta = normCDF(d1) - 1
		result.Theta = (decay + r*k*discount*normCDF(-d2)) / daysPerYear
		result.Rho = -k * t * discount * normCDF(-d2) / 100
		result.ProbabilityITM = normCDF(-d2)
	}

	result.ExtrinsicValue = result.TheoreticalPrice - intrinsic

	return result, nil
}

// Validate rejects specs that cannot be priced.
func Validate(spec types.OptionContractSpec) error {
	for name, v := range map[string]float64{
		"spot":           spec.Spot,
		"strike":         spec.Strike,
		"time_to_expiry": spec.TimeToExpiry,
		"volatility":     spec.Volatility,
		"risk_free_rate": spec.RiskFreeRate,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeInvalidOptionSpec, "%s must be a finite number", name)
		}
	}

	if err := validate.Struct(spec); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptionSpec, "invalid option contract", err)
	}

	return nil
}

// expiryBoundary prices a contract with no time value left. The call delta
// is 1 at or above the strike and the put delta is -1 below it, which keeps
// callDelta - putDelta == 1 at the strike.
func expiryBoundary(spec types.OptionContractSpec, intrinsic float64) types.GreeksResult {
	result := types.GreeksResult{
		TheoreticalPrice: intrinsic,
		IntrinsicValue:   intrinsic,
	}

	switch spec.Kind {
	case types.OptionKindCall:
		if spec.Spot >= spec.Strike {
			result.Delta = 1
		}

		if spec.Spot > spec.Strike {
			result.ProbabilityITM = 1
		}
	case types.OptionKindPut:
		if spec.Spot < spec.Strike {
			result.Delta = -1
			result.ProbabilityITM = 1
		}
	}

	return result
}

func intrinsicValue(spec types.OptionContractSpec) float64 {
	if spec.Kind == types.OptionKindPut {
		return math.Max(spec.Strike-spec.Spot, 0)
	}

	return math.Max(spec.Spot-spec.Strike, 0)
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
