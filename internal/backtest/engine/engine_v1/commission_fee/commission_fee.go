package commission_fee

type CommissionFee interface {
	// Calculate the commission fee for a fill of quantity units at price and returns the fee in USD
	Calculate(quantity float64, price float64) float64
}

type Broker string

const (
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZero              Broker = "zero_commission"
	// BrokerPercentage charges a fixed fraction of the traded notional.
	BrokerPercentage Broker = "percentage"
)

var AllBrokers = []any{
	BrokerInteractiveBroker,
	BrokerZero,
	BrokerPercentage,
}

// GetCommissionFeeHandler returns the fee model for broker. rate is only used by BrokerPercentage.
func GetCommissionFeeHandler(broker Broker, rate float64) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	case BrokerPercentage:
		return NewPercentageCommissionFee(rate)
	default:
		return NewZeroCommissionFee()
	}
}
