package store

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

func lineAmount(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

func linePrice(line models.CartLine) float64 {
	if line.Product == nil {
		return 0
	}
	return line.Product.Price
}

// CartTotal sums price times quantity over a cart snapshot. Lines whose
// product is missing count as zero.
func CartTotal(lines []models.CartLine) float64 {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(lineAmount(linePrice(line), line.Quantity))
	}
	return total.InexactFloat64()
}

func CartItemCount(lines []models.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}
