package enum

// MovementType classifies an inventory movement audit record.
// Movements are append-only; the sum of movements for a product plus its
// initial stock must always equal its current stock.
type MovementType string

const (
	MovementTypeSale       MovementType = "sale"
	MovementTypeReturn     MovementType = "return"
	MovementTypeDeletion   MovementType = "transaction_deletion"
	MovementTypeAdjustment MovementType = "manual_adjustment"
)

func (m MovementType) String() string {
	return string(m)
}
