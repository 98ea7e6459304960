package cart

import (
	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/enum"
)

// StockCheckFunc lets the UI veto adding a product when the requested
// quantity would exceed available stock. A nil check always allows.
type StockCheckFunc func(product *entity.Product, requested int) bool

// Cart is the in-memory order being built during one checkout session.
// It is owned by a single session and is not safe for concurrent use.
// Totals are recomputed after every mutation, so reads are always
// consistent with the current lines.
type Cart struct {
	lines      []Line
	discount   int64
	taxRate    float64
	totals     Totals
	stockCheck StockCheckFunc
}

// Option configures a Cart
type Option func(*Cart)

// WithStockCheck installs a stock validation callback consulted before a
// product is added or its quantity bumped.
func WithStockCheck(fn StockCheckFunc) Option {
	return func(c *Cart) {
		c.stockCheck = fn
	}
}

// New creates an empty cart priced under the given tax rate.
func New(taxRate float64, opts ...Option) *Cart {
	c := &Cart{taxRate: taxRate}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddProduct adds one unit of a fixed-price product, merging into an
// existing non-weighted line for the same product.
func (c *Cart) AddProduct(p *entity.Product) (uuid.UUID, error) {
	for i := range c.lines {
		l := &c.lines[i]
		if l.Kind == LineUnit && l.Ref.ProductID == p.ID {
			if c.stockCheck != nil && !c.stockCheck(p, l.Quantity+1) {
				return uuid.Nil, &InsufficientStockError{Product: p.Name}
			}
			l.Quantity++
			return l.ID, c.recalculate()
		}
	}

	if c.stockCheck != nil && !c.stockCheck(p, 1) {
		return uuid.Nil, &InsufficientStockError{Product: p.Name}
	}

	line := Line{
		ID:        uuid.New(),
		Kind:      LineUnit,
		Ref:       ProductRef(p.ID),
		Name:      p.Name,
		Quantity:  1,
		UnitPrice: p.Price,
	}
	c.lines = append(c.lines, line)
	return line.ID, c.recalculate()
}

// AddWeightedProduct adds a weighted line for the given weight reading.
// Weighted lines never merge; each reading is its own line.
func (c *Cart) AddWeightedProduct(p *entity.Product, weight float64) (uuid.UUID, error) {
	if weight <= 0 {
		return uuid.Nil, ErrInvalidWeight
	}

	var perUnit int64
	if p.PricePerUnit != nil {
		perUnit = *p.PricePerUnit
	}
	unit := enum.WeightUnitKilogram
	if p.WeightUnit != nil {
		unit = *p.WeightUnit
	}

	line := Line{
		ID:           uuid.New(),
		Kind:         LineWeighted,
		Ref:          ProductRef(p.ID),
		Name:         p.Name,
		Quantity:     1,
		Weight:       weight,
		WeightUnit:   unit,
		PricePerUnit: perUnit,
	}
	c.lines = append(c.lines, line)
	return line.ID, c.recalculate()
}

// AddSideBusinessItem adds a side-business item, merging into an existing
// line for the same item and custom price. The custom price overrides the
// catalog price when both exist; when neither exists the add fails.
func (c *Cart) AddSideBusinessItem(item *entity.SideBusinessItem, customPrice *int64) (uuid.UUID, error) {
	for i := range c.lines {
		l := &c.lines[i]
		if l.Kind == LineSideBusiness && l.Ref.Kind == RefSideBusinessItem &&
			l.Ref.ItemID == item.ID && equalPrice(l.CustomPrice, customPrice) {
			l.Quantity++
			return l.ID, c.recalculate()
		}
	}

	if customPrice == nil && item.Price == nil {
		return uuid.Nil, &PricingError{LineName: item.Name}
	}

	line := Line{
		ID:           uuid.New(),
		Kind:         LineSideBusiness,
		Ref:          SideBusinessRef(item.ID),
		Name:         item.Name,
		Quantity:     1,
		CatalogPrice: item.Price,
		CustomPrice:  customPrice,
	}
	c.lines = append(c.lines, line)
	return line.ID, c.recalculate()
}

// AddQuickServiceItem adds a line for a side-business item that does not
// exist in the catalog yet; the commit protocol creates it.
func (c *Cart) AddQuickServiceItem(draft ItemDraft, customPrice *int64) (uuid.UUID, error) {
	if customPrice == nil && draft.Price == nil {
		return uuid.Nil, &PricingError{LineName: draft.Name}
	}

	line := Line{
		ID:           uuid.New(),
		Kind:         LineSideBusiness,
		Ref:          PendingItemRef(draft),
		Name:         draft.Name,
		Quantity:     1,
		CatalogPrice: draft.Price,
		CustomPrice:  customPrice,
	}
	c.lines = append(c.lines, line)
	return line.ID, c.recalculate()
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line.
func (c *Cart) UpdateQuantity(lineID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return c.Remove(lineID)
	}

	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = quantity
			return c.recalculate()
		}
	}
	return ErrLineNotFound
}

// UpdateWeight sets a new weight reading on a weighted line. A weight of
// zero or less removes the line; any other line kind is rejected.
func (c *Cart) UpdateWeight(lineID uuid.UUID, weight float64) error {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			if c.lines[i].Kind != LineWeighted {
				return ErrNotWeighted
			}
			if weight <= 0 {
				return c.Remove(lineID)
			}
			c.lines[i].Weight = weight
			return c.recalculate()
		}
	}
	return ErrLineNotFound
}

// Remove deletes a line from the cart.
func (c *Cart) Remove(lineID uuid.UUID) error {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.recalculate()
		}
	}
	return ErrLineNotFound
}

// SetDiscount applies a whole-order discount in cents.
func (c *Cart) SetDiscount(discount int64) error {
	prev := c.discount
	c.discount = discount
	if err := c.recalculate(); err != nil {
		c.discount = prev
		_ = c.recalculate()
		return err
	}
	return nil
}

// Reset empties the cart; called after commit or cancel.
func (c *Cart) Reset() {
	c.lines = nil
	c.discount = 0
	c.totals = Totals{}
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Totals returns the totals as of the last mutation.
func (c *Cart) Totals() Totals {
	return c.totals
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) recalculate() error {
	totals, err := ComputeTotals(c.lines, c.discount, c.taxRate)
	if err != nil {
		return err
	}
	c.totals = totals
	return nil
}

func equalPrice(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
