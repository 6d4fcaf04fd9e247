package utils

import (
	"testing"

	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsTestSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestCalculateMaxQuantity() {
	tests := []struct {
		name          string
		balance       float64
		price         float64
		commissionFee commission_fee.CommissionFee
		expectedQty   float64
	}{
		{
			name:          "Simple case with no commission",
			balance:       1000.0,
			price:         100.0,
			commissionFee: commission_fee.NewZeroCommissionFee(),
			expectedQty:   10,
		},
		{
			name:          "Zero balance",
			balance:       0.0,
			price:         100.0,
			commissionFee: &commission_fee.InteractiveBrokerCommissionFee{},
			expectedQty:   0,
		},
		{
			name:          "Zero price",
			balance:       1000.0,
			price:         0.0,
			commissionFee: &commission_fee.InteractiveBrokerCommissionFee{},
			expectedQty:   0,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			qty := CalculateMaxQuantity(tc.balance, tc.price, tc.commissionFee)
			suite.InDelta(tc.expectedQty, qty, 1e-9, "Quantity mismatch")
		})
	}
}

func (suite *UtilsTestSuite) TestCalculateMaxQuantityLeavesRoomForFees() {
	fee := commission_fee.NewPercentageCommissionFee(0.01)

	qty := CalculateMaxQuantity(1000, 100, fee)

	suite.Less(qty, 10.0)
	suite.LessOrEqual(qty*100+fee.Calculate(qty, 100), 1000.0)
}

func (suite *UtilsTestSuite) TestRoundToDecimalPrecision() {
	suite.Equal(1.23, RoundToDecimalPrecision(1.2399, 2))
	suite.Equal(9.0, RoundToDecimalPrecision(9.99, 0))
	suite.Equal(0.0, RoundToDecimalPrecision(0.0004, 3))
}

func (suite *UtilsTestSuite) TestCalculateOrderQuantityByPercentage() {
	tests := []struct {
		name       string
		balance    float64
		price      float64
		fee        commission_fee.CommissionFee
		percentage float64
		precision  int
		expected   float64
	}{
		{"full balance whole shares", 1000, 100, commission_fee.NewZeroCommissionFee(), 1, 0, 10},
		{"half balance", 1000, 100, commission_fee.NewZeroCommissionFee(), 0.5, 0, 5},
		{"interactive broker minimum fee", 1000, 100, commission_fee.NewInteractiveBrokerCommissionFee(), 1, 0, 9},
		{"fractional shares", 1000, 300, commission_fee.NewZeroCommissionFee(), 1, 2, 3.33},
		{"cannot afford one share", 50, 100, commission_fee.NewZeroCommissionFee(), 1, 0, 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			qty := CalculateOrderQuantityByPercentage(tc.balance, tc.price, tc.fee, tc.percentage, tc.precision)
			suite.InDelta(tc.expected, qty, 1e-9)
			suite.LessOrEqual(qty*tc.price+tc.fee.Calculate(qty, tc.price), tc.balance*tc.percentage)
		})
	}
}
