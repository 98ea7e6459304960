package cart

import "math"

// Totals are the running amounts of an order, all in cents.
// total = subtotal - discount + tax.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// LineTotal computes the amount in cents a line contributes to the order.
func LineTotal(l *Line) (int64, error) {
	switch l.Kind {
	case LineWeighted:
		return roundCents(l.Weight * float64(l.PricePerUnit)), nil
	case LineSideBusiness:
		price := l.CustomPrice
		if price == nil {
			price = l.CatalogPrice
		}
		if price == nil {
			return 0, &PricingError{LineName: l.Name}
		}
		return *price * int64(l.Quantity), nil
	default:
		return l.UnitPrice * int64(l.Quantity), nil
	}
}

// ComputeTotals prices a set of lines under a discount and a tax rate.
// The discount must lie in [0, subtotal]; tax is rounded to whole cents.
func ComputeTotals(lines []Line, discount int64, taxRate float64) (Totals, error) {
	var subtotal int64
	for i := range lines {
		lineTotal, err := LineTotal(&lines[i])
		if err != nil {
			return Totals{}, err
		}
		subtotal += lineTotal
	}

	if discount < 0 || discount > subtotal {
		return Totals{}, &InvalidDiscountError{Discount: discount, Subtotal: subtotal}
	}

	tax := roundCents(float64(subtotal) * taxRate)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal - discount + tax,
	}, nil
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
