package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/pkg/pagination"
)

// In-memory repository fakes backing the service tests. They mirror the
// gorm implementations' contracts: lookups return (nil, nil) when nothing
// matches, atomic stock updates are all-or-nothing, and the guarded refund
// insert re-checks the running sum before persisting.

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) add(p *entity.Product) *entity.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.add(product)
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.StockQty <= p.StockAlert {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for id, amount := range decrements {
		p, ok := r.products[id]
		if !ok || p.StockQty < amount {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, amount := range decrements {
		r.products[id].StockQty -= amount
	}
	return nil, nil
}

func (r *fakeProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	for id, amount := range increments {
		if p, ok := r.products[id]; ok {
			p.StockQty += amount
		}
	}
	return nil
}

type fakeSaleRepo struct {
	sales map[uuid.UUID]*entity.Sale
	items []entity.SaleItem
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*entity.Sale)}
}

func (r *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) CreateItems(ctx context.Context, items []entity.SaleItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.items = append(r.items, items[i])
	}
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.sales[id], nil
}

func (r *fakeSaleRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	copied := *sale
	if len(copied.Items) == 0 {
		for i := range r.items {
			if r.items[i].SaleID == id {
				copied.Items = append(copied.Items, r.items[i])
			}
		}
	}
	return &copied, nil
}

func (r *fakeSaleRepo) GetItemByID(ctx context.Context, id uuid.UUID) (*entity.SaleItem, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i], nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) ListWithCursor(ctx context.Context, params *repository.SaleCursorFilterParams) ([]entity.Sale, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSaleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.sales, id)
	return nil
}

type fakeRefundRepo struct {
	saleRepo *fakeSaleRepo
	refunds  []entity.Refund
}

func newFakeRefundRepo(saleRepo *fakeSaleRepo) *fakeRefundRepo {
	return &fakeRefundRepo{saleRepo: saleRepo}
}

func (r *fakeRefundRepo) CreateGuarded(ctx context.Context, refund *entity.Refund) error {
	sale := r.saleRepo.sales[refund.OriginalSaleID]
	if sale == nil {
		return repository.ErrOverRefund
	}
	refunded, _ := r.SumForSale(ctx, refund.OriginalSaleID)
	if refunded+refund.RefundAmount > sale.AmountTendered {
		return repository.ErrOverRefund
	}
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	r.refunds = append(r.refunds, *refund)
	return nil
}

func (r *fakeRefundRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	for i := range r.refunds {
		if r.refunds[i].ID == id {
			return &r.refunds[i], nil
		}
	}
	return nil, nil
}

func (r *fakeRefundRepo) SumForSale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var sum int64
	for i := range r.refunds {
		if r.refunds[i].OriginalSaleID == saleID {
			sum += r.refunds[i].RefundAmount
		}
	}
	return sum, nil
}

func (r *fakeRefundRepo) ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.Refund, error) {
	var out []entity.Refund
	for i := range r.refunds {
		if r.refunds[i].OriginalSaleID == saleID {
			out = append(out, r.refunds[i])
		}
	}
	return out, nil
}

func (r *fakeRefundRepo) List(ctx context.Context, params *repository.RefundFilterParams) ([]entity.Refund, int64, error) {
	return r.refunds, int64(len(r.refunds)), nil
}

func (r *fakeRefundRepo) Stats(ctx context.Context, startDate, endDate *time.Time) (*repository.RefundStats, error) {
	stats := &repository.RefundStats{}
	for i := range r.refunds {
		stats.TotalCount++
		stats.TotalAmount += r.refunds[i].RefundAmount
	}
	return stats, nil
}

type fakeSideRepo struct {
	items map[uuid.UUID]*entity.SideBusinessItem
	sales []entity.SideBusinessSale
}

func newFakeSideRepo() *fakeSideRepo {
	return &fakeSideRepo{items: make(map[uuid.UUID]*entity.SideBusinessItem)}
}

func (r *fakeSideRepo) CreateItem(ctx context.Context, item *entity.SideBusinessItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeSideRepo) GetItemByID(ctx context.Context, id uuid.UUID) (*entity.SideBusinessItem, error) {
	return r.items[id], nil
}

func (r *fakeSideRepo) ListItems(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.SideBusinessItem, int64, error) {
	var out []entity.SideBusinessItem
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSideRepo) CreateSale(ctx context.Context, sale *entity.SideBusinessSale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.sales = append(r.sales, *sale)
	return nil
}

func (r *fakeSideRepo) GetSalesBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SideBusinessSale, error) {
	var out []entity.SideBusinessSale
	for i := range r.sales {
		if r.sales[i].SaleID == saleID {
			out = append(out, r.sales[i])
		}
	}
	return out, nil
}

func (r *fakeSideRepo) AtomicDecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	item, ok := r.items[id]
	if !ok {
		return false, nil
	}
	if !item.TracksStock() {
		return true, nil
	}
	if *item.StockQty < amount {
		return false, nil
	}
	*item.StockQty -= amount
	return true, nil
}

func (r *fakeSideRepo) AtomicIncrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	if item, ok := r.items[id]; ok && item.TracksStock() {
		*item.StockQty += amount
	}
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) GetByName(ctx context.Context, name string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) AddLoyaltyPoints(ctx context.Context, id uuid.UUID, points int) error {
	if c, ok := r.customers[id]; ok {
		c.LoyaltyPoints += points
	}
	return nil
}

type fakeInventoryRepo struct {
	movements []entity.InventoryMovement
}

func (r *fakeInventoryRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeInventoryRepo) CreateBatch(ctx context.Context, movements []entity.InventoryMovement) error {
	for i := range movements {
		if err := r.Create(ctx, &movements[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeInventoryRepo) ListByProduct(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.InventoryMovement, int64, error) {
	var out []entity.InventoryMovement
	for i := range r.movements {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeInventoryRepo) SumForProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	for i := range r.movements {
		if r.movements[i].ProductID == productID {
			sum += int64(r.movements[i].QuantityChange)
		}
	}
	return sum, nil
}

type fakeTenantRepo struct {
	tenants  map[uuid.UUID]*entity.Tenant
	branches map[uuid.UUID]*entity.Branch
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		tenants:  make(map[uuid.UUID]*entity.Tenant),
		branches: make(map[uuid.UUID]*entity.Branch),
	}
}

func (r *fakeTenantRepo) Create(ctx context.Context, tenant *entity.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	r.tenants[tenant.ID] = tenant
	return nil
}

func (r *fakeTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	return r.tenants[id], nil
}

func (r *fakeTenantRepo) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	for _, t := range r.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTenantRepo) Update(ctx context.Context, tenant *entity.Tenant) error {
	r.tenants[tenant.ID] = tenant
	return nil
}

func (r *fakeTenantRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	t, _ := r.GetBySlug(ctx, slug)
	return t != nil, nil
}

func (r *fakeTenantRepo) ListBranches(ctx context.Context, tenantID uuid.UUID) ([]entity.Branch, error) {
	var out []entity.Branch
	for _, b := range r.branches {
		if b.TenantID == tenantID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeTenantRepo) CreateBranch(ctx context.Context, branch *entity.Branch) error {
	if branch.ID == uuid.Nil {
		branch.ID = uuid.New()
	}
	r.branches[branch.ID] = branch
	return nil
}

func (r *fakeTenantRepo) GetBranchByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	return r.branches[id], nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}
