package enum

// PaymentMethod represents how a sale or refund was tendered
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCredit PaymentMethod = "credit"
)

// IsValid reports whether the payment method is one of the supported tenders
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodCredit:
		return true
	}
	return false
}

func (p PaymentMethod) String() string {
	return string(p)
}
