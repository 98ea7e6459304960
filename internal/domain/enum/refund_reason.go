package enum

// RefundReasons is the suggestion list shown to cashiers. A refund's reason
// is free text; this list is advisory, not enforced.
var RefundReasons = []string{
	"Damaged or defective item",
	"Wrong item sold",
	"Customer changed mind",
	"Price dispute",
	"Expired product",
	"Other",
}
