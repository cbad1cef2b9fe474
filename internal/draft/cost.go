package draft

import "github.com/shopspring/decimal"

// LineCost is the exact extended cost of one line: unit price times quantity,
// computed in decimal so repeated fractional quantities never drift.
func LineCost(line Line) decimal.Decimal {
	return line.UnitPrice.Mul(line.Quantity)
}

// Total sums every line cost. Lines still at quantity zero contribute nothing,
// so a fresh line never distorts the running total.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(LineCost(line))
	}
	return total
}
