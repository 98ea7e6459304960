package cart

// PartialPayment reconciles a partial tender against an order total. It is
// only constructible in a valid state: strictly more than zero and strictly
// less than the total (paying the full total is the full-payment path).
type PartialPayment struct {
	Total     int64
	AmountNow int64
}

// NewPartialPayment validates and builds a partial tender, amounts in cents.
func NewPartialPayment(total, amountNow int64) (*PartialPayment, error) {
	if amountNow <= 0 || amountNow >= total {
		return nil, ErrInvalidPartialAmount
	}
	return &PartialPayment{Total: total, AmountNow: amountNow}, nil
}

// Remaining is the balance still owed after the partial tender.
func (p *PartialPayment) Remaining() int64 {
	return p.Total - p.AmountNow
}

// AmountDue is what must be tendered right now: the partial amount when a
// partial payment is in effect, otherwise the full order total.
func AmountDue(total int64, partial *PartialPayment) int64 {
	if partial != nil {
		return partial.AmountNow
	}
	return total
}

// CashChange validates a cash tender against the amount due and returns the
// change owed, both in cents.
func CashChange(amountDue, cashGiven int64) (int64, error) {
	if cashGiven < amountDue {
		return 0, ErrInsufficientCash
	}
	return cashGiven - amountDue, nil
}
