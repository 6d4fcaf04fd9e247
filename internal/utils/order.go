package utils

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/commission_fee"
)

// CalculateMaxQuantity calculates the maximum quantity that can be bought with the given balance, fees included.
func CalculateMaxQuantity(balance float64, price float64, commissionFee commission_fee.CommissionFee) float64 {
	// Handle edge cases
	if price <= 0 || balance <= 0 {
		return 0
	}

	// Initial rough estimate (ignoring fees)
	maxQty := balance / price

	// Iteratively refine by accounting for fees
	for i := 0; i < 10; i++ { // Usually converges quickly, limit iterations
		totalCost := maxQty*price + commissionFee.Calculate(maxQty, price)
		if totalCost <= balance {
			break
		}
		// Adjust quantity down proportionally
		adjustment := balance / totalCost
		maxQty = maxQty * adjustment
	}

	return maxQty
}

// RoundToDecimalPrecision rounds the quantity down to the specified decimal precision.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}

// CalculateOrderQuantityByPercentage sizes an order from the given fraction of the balance,
// rounded down to decimalPrecision. The result plus fees never exceeds the allocated amount.
func CalculateOrderQuantityByPercentage(balance float64, price float64, commissionFee commission_fee.CommissionFee, percentage float64, decimalPrecision int) float64 {
	budget := balance * percentage

	quantity := RoundToDecimalPrecision(CalculateMaxQuantity(budget, price, commissionFee), decimalPrecision)
	for quantity > 0 && quantity*price+commissionFee.Calculate(quantity, price) > budget {
		quantity = RoundToDecimalPrecision(quantity-math.Pow10(-decimalPrecision), decimalPrecision)
	}

	if quantity < 0 {
		return 0
	}

	return quantity
}
