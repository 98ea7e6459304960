package entity

// ReceiptHeader holds the store header shown at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	Weight    *float64 `json:"weight,omitempty"`
	Total     float64  `json:"total"`
}

// Receipt is a value object handed to the rendering collaborator. It is NOT
// a database entity; it is composed from sale and payment data at commit
// time; rendering and printing happen elsewhere.
type Receipt struct {
	Header          ReceiptHeader `json:"header"`
	ReceiptNo       string        `json:"receipt_no"`
	Date            string        `json:"date"`
	Cashier         string        `json:"cashier,omitempty"`
	Customer        string        `json:"customer,omitempty"`
	PaymentMethod   string        `json:"payment_method"`
	Items           []ReceiptItem `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	Discount        float64       `json:"discount"`
	Tax             float64       `json:"tax"`
	Total           float64       `json:"total"`
	AmountTendered  float64       `json:"amount_tendered"`
	Change          float64       `json:"change"`
	PartialPayment  bool          `json:"partial_payment"`
	AmountPaidNow   *float64      `json:"amount_paid_now,omitempty"`
	RemainingAmount *float64      `json:"remaining_amount,omitempty"`
	Notes           string        `json:"notes,omitempty"`
}
