package domain

import "math"

// TotalMoney sums unit_price x quantity over non-declined lines and applies
// the VAT surcharge when enabled, rounded to the nearest money unit. The
// settlement engine recomputes totals through this same function so a bill
// can never disagree with the ticket view it was cut from.
func TotalMoney(lines []OrderLine, vatEnabled bool, vatRate float64) int64 {
	var subtotal int64
	for _, line := range lines {
		if line.Status == LineStatusDecline {
			continue
		}
		subtotal += line.UnitPrice * line.Quantity
	}
	if !vatEnabled || vatRate <= 0 {
		return subtotal
	}
	return int64(math.Round(float64(subtotal) * (1 + vatRate/100)))
}

// TotalDish counts served quantity over non-declined lines.
func TotalDish(lines []OrderLine) int64 {
	var total int64
	for _, line := range lines {
		if line.Status == LineStatusDecline {
			continue
		}
		total += line.Quantity
	}
	return total
}
