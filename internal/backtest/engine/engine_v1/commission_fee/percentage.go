package commission_fee

// PercentageCommissionFee charges rate times the notional of the fill.
type PercentageCommissionFee struct {
	rate float64
}

func NewPercentageCommissionFee(rate float64) CommissionFee {
	return &PercentageCommissionFee{rate: rate}
}

func (c *PercentageCommissionFee) Calculate(quantity float64, price float64) float64 {
	if quantity <= 0 || price <= 0 || c.rate <= 0 {
		return 0
	}

	return quantity * price * c.rate
}
