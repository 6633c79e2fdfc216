package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
	"github.com/rl1809/ecommerce-core/internal/port"
)

// MemoryStore implements every storage port against in-process maps. It
// backs the service tests and the stress tool. Aggregates are cloned through
// their Restore factories on the way in and out, so a caller mutating an
// aggregate after a failed operation never corrupts stored state.
//
// WithinTx serializes whole operations with a mutex; there is no rollback.
// The coordination service only writes after all validation has passed, so
// serialization is enough to keep the tests honest about atomicity.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	categories map[domain.CategoryID]*domain.Category
	customers  map[domain.CustomerID]*domain.Customer
	products   map[domain.ProductID]*domain.Product
	orders     map[domain.OrderID]*domain.Order

	nextCategoryID int64
	nextCustomerID int64
	nextProductID  int64
	nextOrderID    int64
	nextItemID     int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[domain.CategoryID]*domain.Category),
		customers:  make(map[domain.CustomerID]*domain.Customer),
		products:   make(map[domain.ProductID]*domain.Product),
		orders:     make(map[domain.OrderID]*domain.Order),
	}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}

func (s *MemoryStore) Categories() port.CategoryRepository { return memoryCategories{s} }
func (s *MemoryStore) Customers() port.CustomerRepository  { return memoryCustomers{s} }
func (s *MemoryStore) Products() port.ProductRepository    { return memoryProducts{s} }
func (s *MemoryStore) Orders() port.OrderRepository        { return memoryOrders{s} }

func cloneCategory(c *domain.Category) *domain.Category {
	return domain.RestoreCategory(c.ID(), c.Name(), c.Description(), c.CreatedAt(), c.UpdatedAt())
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	return domain.RestoreCustomer(c.ID(), c.FirstName(), c.LastName(), c.Email(), c.PhoneNumber(),
		c.Address(), c.City(), c.State(), c.ZipCode(), c.CreatedAt(), c.UpdatedAt())
}

func cloneProduct(p *domain.Product) *domain.Product {
	return domain.RestoreProduct(p.ID(), p.Name(), p.Description(), p.Price(), p.Stock(),
		p.CategoryID(), p.CreatedAt(), p.UpdatedAt())
}

func cloneOrder(o *domain.Order) *domain.Order {
	return domain.RestoreOrder(o.ID(), o.CustomerID(), o.Status(), o.TotalPrice(), o.Items(),
		o.CreatedAt(), o.UpdatedAt())
}

type memoryCategories struct{ s *MemoryStore }

func (r memoryCategories) FindByID(_ context.Context, id domain.CategoryID) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return cloneCategory(c), nil
}

func (r memoryCategories) FindByName(_ context.Context, name string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.Name() == name {
			return cloneCategory(c), nil
		}
	}
	return nil, nil
}

func (r memoryCategories) FindAll(_ context.Context) ([]*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, cloneCategory(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r memoryCategories) Save(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if category.ID().IsZero() {
		r.s.nextCategoryID++
		if err := category.AssignID(domain.CategoryID(r.s.nextCategoryID)); err != nil {
			return err
		}
	}
	r.s.categories[category.ID()] = cloneCategory(category)
	return nil
}

func (r memoryCategories) Delete(_ context.Context, id domain.CategoryID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	return nil
}

func (r memoryCategories) Exists(_ context.Context, id domain.CategoryID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.categories[id]
	return ok, nil
}

type memoryCustomers struct{ s *MemoryStore }

func (r memoryCustomers) FindByID(_ context.Context, id domain.CustomerID) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return cloneCustomer(c), nil
}

func (r memoryCustomers) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.Email() == email {
			return cloneCustomer(c), nil
		}
	}
	return nil, nil
}

func (r memoryCustomers) FindByPhoneNumber(_ context.Context, phoneNumber string) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.PhoneNumber() == phoneNumber {
			return cloneCustomer(c), nil
		}
	}
	return nil, nil
}

func (r memoryCustomers) FindAll(_ context.Context) ([]*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		out = append(out, cloneCustomer(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r memoryCustomers) Save(_ context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if customer.ID().IsZero() {
		r.s.nextCustomerID++
		if err := customer.AssignID(domain.CustomerID(r.s.nextCustomerID)); err != nil {
			return err
		}
	}
	r.s.customers[customer.ID()] = cloneCustomer(customer)
	return nil
}

func (r memoryCustomers) Delete(_ context.Context, id domain.CustomerID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

func (r memoryCustomers) Exists(_ context.Context, id domain.CustomerID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.customers[id]
	return ok, nil
}

type memoryProducts struct{ s *MemoryStore }

func (r memoryProducts) FindByID(_ context.Context, id domain.ProductID) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r memoryProducts) FindByName(_ context.Context, name string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.Name() == name {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r memoryProducts) FindByCategory(_ context.Context, categoryID domain.CategoryID) ([]*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Product
	for _, p := range r.s.products {
		if p.CategoryID() == categoryID {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r memoryProducts) FindAll(_ context.Context) ([]*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r memoryProducts) Save(_ context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if product.ID().IsZero() {
		r.s.nextProductID++
		if err := product.AssignID(domain.ProductID(r.s.nextProductID)); err != nil {
			return err
		}
	}
	r.s.products[product.ID()] = cloneProduct(product)
	return nil
}

func (r memoryProducts) Delete(_ context.Context, id domain.ProductID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r memoryProducts) Exists(_ context.Context, id domain.ProductID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.products[id]
	return ok, nil
}

type memoryOrders struct{ s *MemoryStore }

func (r memoryOrders) FindByID(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r memoryOrders) FindByCustomer(_ context.Context, customerID domain.CustomerID) ([]*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Order
	for _, o := range r.s.orders {
		if o.CustomerID() == customerID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r memoryOrders) FindByStatus(_ context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Order
	for _, o := range r.s.orders {
		if o.Status() == status {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r memoryOrders) FindAll(_ context.Context) ([]*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r memoryOrders) Save(_ context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order.ID().IsZero() {
		r.s.nextOrderID++
		if err := order.AssignID(domain.OrderID(r.s.nextOrderID)); err != nil {
			return err
		}
	}
	// Line items get their persistence ids on first save.
	items := order.Items()
	for i, item := range items {
		if item.ID() == 0 {
			r.s.nextItemID++
			items[i] = domain.RestoreOrderItem(r.s.nextItemID, item.ProductID(),
				item.Quantity(), item.PriceAtPurchase(), item.CreatedAt())
		}
	}
	r.s.orders[order.ID()] = domain.RestoreOrder(order.ID(), order.CustomerID(), order.Status(),
		order.TotalPrice(), items, order.CreatedAt(), order.UpdatedAt())
	return nil
}

func (r memoryOrders) Delete(_ context.Context, id domain.OrderID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orders, id)
	return nil
}

func (r memoryOrders) Exists(_ context.Context, id domain.OrderID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.orders[id]
	return ok, nil
}
