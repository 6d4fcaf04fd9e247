package types

// OptionKind is either a call or a put.
type OptionKind string

const (
	OptionKindCall OptionKind = "call"
	OptionKindPut  OptionKind = "put"
)

// OptionContractSpec describes a European option contract to price.
type OptionContractSpec struct {
	Spot   float64 `json:"spot" validate:"gt=0"`
	Strike float64 `json:"strike" validate:"gt=0"`
	// TimeToExpiry is in years. Zero or negative means expired.
	TimeToExpiry float64 `json:"time_to_expiry"`
	// Volatility is the annualized implied volatility as a fraction (0.2 = 20%).
	Volatility   float64    `json:"volatility" validate:"gte=0"`
	RiskFreeRate float64    `json:"risk_free_rate"`
	Kind         OptionKind `json:"kind" validate:"required,oneof=call put"`
}

// GreeksResult is the theoretical price and sensitivities of a contract.
type GreeksResult struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	// Theta is the price change per calendar day.
	Theta float64 `json:"theta"`
	// Vega is the price change per one volatility point.
	Vega float64 `json:"vega"`
	// Rho is the price change per one rate point.
	Rho              float64 `json:"rho"`
	TheoreticalPrice float64 `json:"theoretical_price"`
	IntrinsicValue   float64 `json:"intrinsic_value"`
	ExtrinsicValue   float64 `json:"extrinsic_value"`
	ProbabilityITM   float64 `json:"probability_itm"`
}
