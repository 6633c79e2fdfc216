package domain

import (
	"fmt"
	"time"
)

// OrderItem is an immutable order line. The price is frozen from the product
// at order-creation time and never re-read, so later price changes do not
// affect existing orders.
type OrderItem struct {
	id              int64 // persistence id, 0 until stored
	productID       ProductID
	quantity        int
	priceAtPurchase Money
	createdAt       time.Time
}

func NewOrderItem(productID ProductID, quantity int, priceAtPurchase Money) (OrderItem, error) {
	if productID.IsZero() {
		return OrderItem{}, fmt.Errorf("%w: order item requires a product id", ErrInvalidArgument)
	}
	if quantity <= 0 {
		return OrderItem{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	if priceAtPurchase.IsZero() {
		return OrderItem{}, fmt.Errorf("%w: item price must be greater than zero", ErrInvalidArgument)
	}
	return OrderItem{
		productID:       productID,
		quantity:        quantity,
		priceAtPurchase: priceAtPurchase,
		createdAt:       time.Now(),
	}, nil
}

func RestoreOrderItem(id int64, productID ProductID, quantity int, priceAtPurchase Money, createdAt time.Time) OrderItem {
	return OrderItem{
		id:              id,
		productID:       productID,
		quantity:        quantity,
		priceAtPurchase: priceAtPurchase,
		createdAt:       createdAt,
	}
}

func (i OrderItem) ID() int64              { return i.id }
func (i OrderItem) ProductID() ProductID   { return i.productID }
func (i OrderItem) Quantity() int          { return i.quantity }
func (i OrderItem) PriceAtPurchase() Money { return i.priceAtPurchase }
func (i OrderItem) CreatedAt() time.Time   { return i.createdAt }

func (i OrderItem) Subtotal() Money {
	return i.priceAtPurchase.MultiplyQty(i.quantity)
}

// Order is the purchase aggregate: it owns its items, a status driven by the
// state machine in status.go, and a total derived from the item subtotals.
type Order struct {
	id         OrderID
	customerID CustomerID
	status     OrderStatus
	totalPrice Money
	items      []OrderItem
	createdAt  time.Time
	updatedAt  time.Time
}

// NewOrder builds a pending order from at least one item and computes the
// total. Items are copied; the caller's slice is not retained.
func NewOrder(customerID CustomerID, items []OrderItem) (*Order, error) {
	if customerID.IsZero() {
		return nil, fmt.Errorf("%w: order requires a customer id", ErrInvalidArgument)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", ErrInvalidArgument)
	}
	now := time.Now()
	copied := make([]OrderItem, len(items))
	copy(copied, items)
	return &Order{
		customerID: customerID,
		status:     OrderStatusPending,
		totalPrice: calculateTotal(copied),
		items:      copied,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func RestoreOrder(id OrderID, customerID CustomerID, status OrderStatus, totalPrice Money, items []OrderItem, createdAt, updatedAt time.Time) *Order {
	copied := make([]OrderItem, len(items))
	copy(copied, items)
	return &Order{
		id:         id,
		customerID: customerID,
		status:     status,
		totalPrice: totalPrice,
		items:      copied,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (o *Order) ID() OrderID            { return o.id }
func (o *Order) CustomerID() CustomerID { return o.customerID }
func (o *Order) Status() OrderStatus    { return o.status }
func (o *Order) TotalPrice() Money      { return o.totalPrice }
func (o *Order) CreatedAt() time.Time   { return o.createdAt }
func (o *Order) UpdatedAt() time.Time   { return o.updatedAt }

// Items returns a defensive copy; the backing slice changes only through
// AddItem.
func (o *Order) Items() []OrderItem {
	copied := make([]OrderItem, len(o.items))
	copy(copied, o.items)
	return copied
}

func (o *Order) ItemCount() int {
	return len(o.items)
}

func (o *Order) AssignID(id OrderID) error {
	if !o.id.IsZero() {
		return fmt.Errorf("%w: order id already assigned", ErrInvalidArgument)
	}
	if id.IsZero() {
		return fmt.Errorf("%w: order id must be positive", ErrInvalidArgument)
	}
	o.id = id
	return nil
}

// AddItem appends a line to a pending order and recomputes the total.
func (o *Order) AddItem(item OrderItem) error {
	if o.status != OrderStatusPending {
		return fmt.Errorf("%w: cannot add items to a %s order", ErrInvalidStatusTransition, o.status)
	}
	o.items = append(o.items, item)
	o.totalPrice = calculateTotal(o.items)
	o.updatedAt = time.Now()
	return nil
}

// UpdateStatus applies the state machine; illegal transitions fail naming
// source and target.
func (o *Order) UpdateStatus(next OrderStatus) error {
	if !o.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatusTransition, o.status, next)
	}
	o.status = next
	o.updatedAt = time.Now()
	return nil
}

// Cancel transitions the order to cancelled. Terminal orders report
// ErrOrderFinalized; shipped orders fail the transition table.
func (o *Order) Cancel() error {
	if o.status.IsFinal() {
		return fmt.Errorf("%w: order is %s", ErrOrderFinalized, o.status)
	}
	if !o.status.CanTransitionTo(OrderStatusCancelled) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatusTransition, o.status, OrderStatusCancelled)
	}
	o.status = OrderStatusCancelled
	o.updatedAt = time.Now()
	return nil
}

func calculateTotal(items []OrderItem) Money {
	total := ZeroMoney()
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
