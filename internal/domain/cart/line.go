package cart

import (
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/enum"
)

// RefKind discriminates what a cart line points at. Product ids and
// side-business item ids live in separate tables, and a quick-service item
// may not exist in the catalog yet; the tag makes each case explicit instead
// of packing them into one numeric id space.
type RefKind int

const (
	// RefProduct references a persisted catalog product
	RefProduct RefKind = iota
	// RefSideBusinessItem references a persisted side-business item
	RefSideBusinessItem
	// RefPendingItem references a quick-service item not yet persisted;
	// the commit protocol materializes it
	RefPendingItem
)

// ItemDraft describes a side-business item to be created at commit time.
type ItemDraft struct {
	Name  string
	Price *int64 // cents, nil when the cashier supplies a custom price
	Notes string
}

// CatalogRef is a tagged reference to the catalog entry backing a line.
type CatalogRef struct {
	Kind      RefKind
	ProductID uuid.UUID
	ItemID    uuid.UUID
	Draft     *ItemDraft
}

// ProductRef builds a reference to a catalog product
func ProductRef(id uuid.UUID) CatalogRef {
	return CatalogRef{Kind: RefProduct, ProductID: id}
}

// SideBusinessRef builds a reference to a persisted side-business item
func SideBusinessRef(id uuid.UUID) CatalogRef {
	return CatalogRef{Kind: RefSideBusinessItem, ItemID: id}
}

// PendingItemRef builds a reference to a not-yet-persisted quick-service item
func PendingItemRef(draft ItemDraft) CatalogRef {
	return CatalogRef{Kind: RefPendingItem, Draft: &draft}
}

// LineKind is the pricing mode of a line. Exactly one mode applies per line.
type LineKind int

const (
	// LineUnit is a fixed-price product sold by quantity
	LineUnit LineKind = iota
	// LineWeighted is priced by measured weight times a per-unit rate
	LineWeighted
	// LineSideBusiness is a side-business item, optionally custom priced
	LineSideBusiness
)

// Line is one entry in the cart. Only the fields for its Kind are set; the
// weighted price is always derived from Weight and PricePerUnit, never
// edited directly.
type Line struct {
	ID       uuid.UUID
	Kind     LineKind
	Ref      CatalogRef
	Name     string
	Quantity int

	// Unit lines
	UnitPrice int64 // cents snapshot taken at add time

	// Weighted lines
	Weight       float64
	WeightUnit   enum.WeightUnit
	PricePerUnit int64 // cents per weight unit

	// Side-business lines
	CatalogPrice *int64 // cents, nil when the item has no price
	CustomPrice  *int64 // cents, supplied at add time
}
