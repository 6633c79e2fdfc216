package service

import (
	"context"
	"fmt"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
	"github.com/rl1809/ecommerce-core/internal/port"
)

// OrderItemInput is one requested line of a purchase.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// OrderService is the inventory coordination service: the only component
// that mutates both Order and Product in one logical operation. Every
// mutating operation runs inside the Transactor so the multi-aggregate
// read/validate/write sequence commits atomically or not at all.
type OrderService struct {
	orders    port.OrderRepository
	products  port.ProductRepository
	customers port.CustomerRepository
	tx        port.Transactor
}

func NewOrderService(orders port.OrderRepository, products port.ProductRepository,
	customers port.CustomerRepository, tx port.Transactor) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		customers: customers,
		tx:        tx,
	}
}

// CreateOrder validates the customer and every requested line in request
// order, freezes the current product price into each item, builds a pending
// order, decrements stock, and persists products then order.
//
// Each product is loaded once and stock is applied to the in-memory
// aggregate line by line, so two lines naming the same product see the
// cumulative effect. No product is persisted until every line has passed.
func (s *OrderService) CreateOrder(ctx context.Context, customerID int64, lines []OrderItemInput) (*domain.Order, error) {
	cid, err := domain.NewCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	var created *domain.Order
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.customers.Exists(ctx, cid)
		if err != nil {
			return fmt.Errorf("check customer: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: id %d", ErrCustomerNotFound, customerID)
		}

		loaded := make(map[domain.ProductID]*domain.Product)
		var sequence []domain.ProductID
		items := make([]domain.OrderItem, 0, len(lines))

		for _, line := range lines {
			pid, err := domain.NewProductID(line.ProductID)
			if err != nil {
				return err
			}
			product, ok := loaded[pid]
			if !ok {
				product, err = s.products.FindByID(ctx, pid)
				if err != nil {
					return fmt.Errorf("find product: %w", err)
				}
				if product == nil {
					return fmt.Errorf("%w: id %d", ErrProductNotFound, line.ProductID)
				}
				loaded[pid] = product
				sequence = append(sequence, pid)
			}

			if !product.HasEnoughStock(line.Quantity) {
				return fmt.Errorf("%w: product %q has %d, requested %d",
					domain.ErrInsufficientStock, product.Name(), product.Stock(), line.Quantity)
			}

			item, err := domain.NewOrderItem(pid, line.Quantity, product.Price())
			if err != nil {
				return err
			}
			if err := product.DecreaseStock(line.Quantity); err != nil {
				return err
			}
			items = append(items, item)
		}

		order, err := domain.NewOrder(cid, items)
		if err != nil {
			return err
		}

		for _, pid := range sequence {
			if err := s.products.Save(ctx, loaded[pid]); err != nil {
				return fmt.Errorf("save product: %w", err)
			}
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	orderID, err := domain.NewOrderID(id)
	if err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, orderID)
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	cid, err := domain.NewCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	return s.orders.FindByCustomer(ctx, cid)
}

func (s *OrderService) ListByStatus(ctx context.Context, status string) ([]*domain.Order, error) {
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return s.orders.FindByStatus(ctx, parsed)
}

func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.FindAll(ctx)
}

// UpdateStatus applies a non-cancel state-machine transition and persists.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) error {
	orderID, err := domain.NewOrderID(id)
	if err != nil {
		return err
	}
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("find order: %w", err)
		}
		if order == nil {
			return fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
		}
		if err := order.UpdateStatus(next); err != nil {
			return err
		}
		return s.orders.Save(ctx, order)
	})
}

// Cancel transitions the order to cancelled and restores the stock of every
// item's product, reversing the decrement applied at creation.
func (s *OrderService) Cancel(ctx context.Context, id int64) error {
	orderID, err := domain.NewOrderID(id)
	if err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("find order: %w", err)
		}
		if order == nil {
			return fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
		}
		if err := order.Cancel(); err != nil {
			return err
		}

		for _, item := range order.Items() {
			product, err := s.products.FindByID(ctx, item.ProductID())
			if err != nil {
				return fmt.Errorf("find product: %w", err)
			}
			if product == nil {
				return fmt.Errorf("%w: id %d", ErrProductNotFound, item.ProductID().Int64())
			}
			if err := product.IncreaseStock(item.Quantity()); err != nil {
				return err
			}
			if err := s.products.Save(ctx, product); err != nil {
				return fmt.Errorf("save product: %w", err)
			}
		}

		return s.orders.Save(ctx, order)
	})
}

// Delete removes the order record. It is not a cancellation: no stock moves.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	orderID, err := domain.NewOrderID(id)
	if err != nil {
		return err
	}
	exists, err := s.orders.Exists(ctx, orderID)
	if err != nil {
		return fmt.Errorf("check order: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
	}
	return s.orders.Delete(ctx, orderID)
}
