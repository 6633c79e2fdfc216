package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
	"github.com/rl1809/ecommerce-core/internal/port"
)

// MySQLStore implements the storage ports on database/sql. WithinTx opens a
// transaction and carries it in the context; repository calls made with that
// context run inside it, which gives the coordination service its atomic
// boundary across products and orders.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

type txKey struct{}

func (s *MySQLStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		// Nested call joins the enclosing transaction.
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *MySQLStore) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

func (s *MySQLStore) Categories() port.CategoryRepository { return mysqlCategories{s} }
func (s *MySQLStore) Customers() port.CustomerRepository  { return mysqlCustomers{s} }
func (s *MySQLStore) Products() port.ProductRepository    { return mysqlProducts{s} }
func (s *MySQLStore) Orders() port.OrderRepository        { return mysqlOrders{s} }

type rowScanner interface {
	Scan(dest ...any) error
}

type mysqlCategories struct{ s *MySQLStore }

const categoryColumns = `id, name, description, created_at, updated_at`

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		id                   int64
		name                 string
		description          sql.NullString
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &name, &description, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return domain.RestoreCategory(domain.CategoryID(id), name, description.String, createdAt, updatedAt), nil
}

func (r mysqlCategories) FindByID(ctx context.Context, id domain.CategoryID) (*domain.Category, error) {
	row := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id.Int64())
	return scanCategory(row)
}

func (r mysqlCategories) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	row := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = ?`, name)
	return scanCategory(row)
}

func (r mysqlCategories) FindAll(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.s.conn(ctx).QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r mysqlCategories) Save(ctx context.Context, category *domain.Category) error {
	if category.ID().IsZero() {
		res, err := r.s.conn(ctx).ExecContext(ctx, `
			INSERT INTO categories (name, description, created_at, updated_at)
			VALUES (?, ?, ?, ?)`,
			category.Name(), category.Description(), category.CreatedAt(), category.UpdatedAt())
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("category insert id: %w", err)
		}
		return category.AssignID(domain.CategoryID(id))
	}
	_, err := r.s.conn(ctx).ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		category.Name(), category.Description(), category.UpdatedAt(), category.ID().Int64())
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r mysqlCategories) Delete(ctx context.Context, id domain.CategoryID) error {
	_, err := r.s.conn(ctx).ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id.Int64())
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r mysqlCategories) Exists(ctx context.Context, id domain.CategoryID) (bool, error) {
	var one int
	err := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT 1 FROM categories WHERE id = ?`, id.Int64()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return true, nil
}

type mysqlCustomers struct{ s *MySQLStore }

const customerColumns = `id, first_name, last_name, email, phone_number, address, city, state, zip_code, created_at, updated_at`

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		id                          int64
		firstName, lastName         string
		email, phoneNumber          string
		address, city, state, zipCd sql.NullString
		createdAt, updatedAt        time.Time
	)
	err := row.Scan(&id, &firstName, &lastName, &email, &phoneNumber,
		&address, &city, &state, &zipCd, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	return domain.RestoreCustomer(domain.CustomerID(id), firstName, lastName, email, phoneNumber,
		address.String, city.String, state.String, zipCd.String, createdAt, updatedAt), nil
}

func (r mysqlCustomers) FindByID(ctx context.Context, id domain.CustomerID) (*domain.Customer, error) {
	row := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id.Int64())
	return scanCustomer(row)
}

func (r mysqlCustomers) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	row := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = ?`, email)
	return scanCustomer(row)
}

func (r mysqlCustomers) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Customer, error) {
	row := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE phone_number = ?`, phoneNumber)
	return scanCustomer(row)
}

func (r mysqlCustomers) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.s.conn(ctx).QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r mysqlCustomers) Save(ctx context.Context, customer *domain.Customer) error {
	if customer.ID().IsZero() {
		res, err := r.s.conn(ctx).ExecContext(ctx, `
			INSERT INTO customers (first_name, last_name, email, phone_number,
				address, city, state, zip_code, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			customer.FirstName(), customer.LastName(), customer.Email(), customer.PhoneNumber(),
			customer.Address(), customer.City(), customer.State(), customer.ZipCode(),
			customer.CreatedAt(), customer.UpdatedAt())
		if err != nil {
			return fmt.Errorf("insert customer: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("customer insert id: %w", err)
		}
		return customer.AssignID(domain.CustomerID(id))
	}
	_, err := r.s.conn(ctx).ExecContext(ctx, `
		UPDATE customers SET first_name = ?, last_name = ?, email = ?, phone_number = ?,
			address = ?, city = ?, state = ?, zip_code = ?, updated_at = ?
		WHERE id = ?`,
		customer.FirstName(), customer.LastName(), customer.Email(), customer.PhoneNumber(),
		customer.Address(), customer.City(), customer.State(), customer.ZipCode(),
		customer.UpdatedAt(), customer.ID().Int64())
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (r mysqlCustomers) Delete(ctx context.Context, id domain.CustomerID) error {
	_, err := r.s.conn(ctx).ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id.Int64())
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func (r mysqlCustomers) Exists(ctx context.Context, id domain.CustomerID) (bool, error) {
	var one int
	err := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT 1 FROM customers WHERE id = ?`, id.Int64()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check customer: %w", err)
	}
	return true, nil
}

type mysqlProducts struct{ s *MySQLStore }

const productColumns = `id, name, description, price, stock, category_id, created_at, updated_at`

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		id, categoryID       int64
		name                 string
		description          sql.NullString
		price                decimal.Decimal
		stock                int
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &name, &description, &price, &stock, &categoryID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	money, err := domain.NewMoney(price)
	if err != nil {
		return nil, fmt.Errorf("stored product price: %w", err)
	}
	return domain.RestoreProduct(domain.ProductID(id), name, description.String, money, stock,
		domain.CategoryID(categoryID), createdAt, updatedAt), nil
}

// FindByID locks the row when called inside a transaction. Transactional
// callers run check-then-decrement sequences; under REPEATABLE READ a plain
// snapshot read would let two of them validate against the same stock value
// and commit a lost update.
func (r mysqlProducts) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	if inTx(ctx) {
		query += ` FOR UPDATE`
	}
	row := r.s.conn(ctx).QueryRowContext(ctx, query, id.Int64())
	return scanProduct(row)
}

func (r mysqlProducts) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	row := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE name = ?`, name)
	return scanProduct(row)
}

func (r mysqlProducts) FindByCategory(ctx context.Context, categoryID domain.CategoryID) ([]*domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE category_id = ? ORDER BY id`, categoryID.Int64())
}

func (r mysqlProducts) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (r mysqlProducts) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r mysqlProducts) Save(ctx context.Context, product *domain.Product) error {
	if product.ID().IsZero() {
		res, err := r.s.conn(ctx).ExecContext(ctx, `
			INSERT INTO products (name, description, price, stock, category_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			product.Name(), product.Description(), product.Price().Amount(), product.Stock(),
			product.CategoryID().Int64(), product.CreatedAt(), product.UpdatedAt())
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("product insert id: %w", err)
		}
		return product.AssignID(domain.ProductID(id))
	}
	_, err := r.s.conn(ctx).ExecContext(ctx, `
		UPDATE products SET name = ?, description = ?, price = ?, stock = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		product.Name(), product.Description(), product.Price().Amount(), product.Stock(),
		product.CategoryID().Int64(), product.UpdatedAt(), product.ID().Int64())
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r mysqlProducts) Delete(ctx context.Context, id domain.ProductID) error {
	_, err := r.s.conn(ctx).ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id.Int64())
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r mysqlProducts) Exists(ctx context.Context, id domain.ProductID) (bool, error) {
	var one int
	err := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT 1 FROM products WHERE id = ?`, id.Int64()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check product: %w", err)
	}
	return true, nil
}

type mysqlOrders struct{ s *MySQLStore }

// FindByID locks the row when called inside a transaction, serializing
// concurrent status transitions against the same order.
func (r mysqlOrders) FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	var (
		orderID, customerID  int64
		status               string
		total                decimal.Decimal
		createdAt, updatedAt time.Time
	)
	query := `
		SELECT id, customer_id, status, total_price, created_at, updated_at
		FROM orders WHERE id = ?`
	if inTx(ctx) {
		query += ` FOR UPDATE`
	}
	err := r.s.conn(ctx).QueryRowContext(ctx, query, id.Int64()).
		Scan(&orderID, &customerID, &status, &total, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return r.buildOrder(ctx, orderID, customerID, status, total, createdAt, updatedAt)
}

func (r mysqlOrders) buildOrder(ctx context.Context, orderID, customerID int64, status string,
	total decimal.Decimal, createdAt, updatedAt time.Time) (*domain.Order, error) {

	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("stored order status: %w", err)
	}
	totalMoney, err := domain.NewMoney(total)
	if err != nil {
		return nil, fmt.Errorf("stored order total: %w", err)
	}
	items, err := r.loadItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return domain.RestoreOrder(domain.OrderID(orderID), domain.CustomerID(customerID), parsed,
		totalMoney, items, createdAt, updatedAt), nil
}

func (r mysqlOrders) loadItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.s.conn(ctx).QueryContext(ctx, `
		SELECT id, product_id, quantity, price_at_purchase, created_at
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			itemID, productID int64
			quantity          int
			price             decimal.Decimal
			createdAt         time.Time
		)
		if err := rows.Scan(&itemID, &productID, &quantity, &price, &createdAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		priceMoney, err := domain.NewMoney(price)
		if err != nil {
			return nil, fmt.Errorf("stored item price: %w", err)
		}
		items = append(items, domain.RestoreOrderItem(itemID, domain.ProductID(productID),
			quantity, priceMoney, createdAt))
	}
	return items, rows.Err()
}

func (r mysqlOrders) FindByCustomer(ctx context.Context, customerID domain.CustomerID) ([]*domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, customer_id, status, total_price, created_at, updated_at
		FROM orders WHERE customer_id = ? ORDER BY id`, customerID.Int64())
}

func (r mysqlOrders) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, customer_id, status, total_price, created_at, updated_at
		FROM orders WHERE status = ? ORDER BY id`, status.String())
}

func (r mysqlOrders) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, customer_id, status, total_price, created_at, updated_at
		FROM orders ORDER BY id`)
}

func (r mysqlOrders) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	type orderRow struct {
		id, customerID       int64
		status               string
		total                decimal.Decimal
		createdAt, updatedAt time.Time
	}
	var heads []orderRow
	for rows.Next() {
		var h orderRow
		if err := rows.Scan(&h.id, &h.customerID, &h.status, &h.total, &h.createdAt, &h.updatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	out := make([]*domain.Order, 0, len(heads))
	for _, h := range heads {
		order, err := r.buildOrder(ctx, h.id, h.customerID, h.status, h.total, h.createdAt, h.updatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, nil
}

// Save upserts the order row and replaces its line items wholesale. Items
// are immutable records, so rewriting them is equivalent to the cascade an
// ORM would perform.
func (r mysqlOrders) Save(ctx context.Context, order *domain.Order) error {
	conn := r.s.conn(ctx)
	if order.ID().IsZero() {
		res, err := conn.ExecContext(ctx, `
			INSERT INTO orders (customer_id, status, total_price, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			order.CustomerID().Int64(), order.Status().String(), order.TotalPrice().Amount(),
			order.CreatedAt(), order.UpdatedAt())
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("order insert id: %w", err)
		}
		if err := order.AssignID(domain.OrderID(id)); err != nil {
			return err
		}
	} else {
		_, err := conn.ExecContext(ctx, `
			UPDATE orders SET status = ?, total_price = ?, updated_at = ? WHERE id = ?`,
			order.Status().String(), order.TotalPrice().Amount(), order.UpdatedAt(), order.ID().Int64())
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if _, err := conn.ExecContext(ctx,
			`DELETE FROM order_items WHERE order_id = ?`, order.ID().Int64()); err != nil {
			return fmt.Errorf("clear order items: %w", err)
		}
	}

	for _, item := range order.Items() {
		_, err := conn.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			order.ID().Int64(), item.ProductID().Int64(), item.Quantity(),
			item.PriceAtPurchase().Amount(), item.CreatedAt())
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r mysqlOrders) Delete(ctx context.Context, id domain.OrderID) error {
	conn := r.s.conn(ctx)
	if _, err := conn.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id.Int64()); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id.Int64()); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r mysqlOrders) Exists(ctx context.Context, id domain.OrderID) (bool, error) {
	var one int
	err := r.s.conn(ctx).QueryRowContext(ctx,
		`SELECT 1 FROM orders WHERE id = ?`, id.Int64()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check order: %w", err)
	}
	return true, nil
}
