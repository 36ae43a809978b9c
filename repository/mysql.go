package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront-admin/models"
)

// MySQLStore keeps records in MySQL. The schema is created by
// database.Migrate.
type MySQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db, now: time.Now}
}

const productColumns = `id, name, description, image, price, mrp, stock, total_sold, total_revenue, category, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var (
		p   models.Product
		mrp sql.NullFloat64
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &mrp,
		&p.Stock, &p.TotalSold, &p.TotalRevenue, &p.Category, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	if mrp.Valid {
		p.MRP = &mrp.Float64
	}
	return p, nil
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func (s *MySQLStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *MySQLStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query product %s: %w", id, err)
	}
	return &p, nil
}

func (s *MySQLStore) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	p := models.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		Price:       input.Price,
		MRP:         input.MRP,
		Stock:       input.Stock,
		Category:    input.Category,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		p.ID, p.Name, p.Description, p.Image, p.Price, nullableFloat(p.MRP), p.Stock, p.Category, p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	if err := addCategory(ctx, tx, p.Category); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product: %w", err)
	}
	return &p, nil
}

func (s *MySQLStore) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := scanProduct(tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ? FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query product %s: %w", id, err)
	}
	patch.Apply(&p)

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, image = ?, price = ?, mrp = ?, stock = ?,
		    total_sold = ?, total_revenue = ?, category = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Image, p.Price, nullableFloat(p.MRP), p.Stock,
		p.TotalSold, p.TotalRevenue, p.Category, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	if err := addCategory(ctx, tx, p.Category); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product: %w", err)
	}
	return &p, nil
}

func (s *MySQLStore) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return expectAffected(result, "product", id)
}

func addCategory(ctx context.Context, tx *sql.Tx, category string) error {
	if category == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `INSERT IGNORE INTO categories (name) VALUES (?)`, category); err != nil {
		return fmt.Errorf("register category: %w", err)
	}
	return nil
}

func (s *MySQLStore) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, name)
	}
	return categories, rows.Err()
}

const orderColumns = `id, customer_name, customer_email, customer_phone, customer_address, customer_city, customer_zip,
	subtotal, tax, total, status, payment_status, payment_method, tracking_number, created_at`

func scanOrder(row rowScanner) (models.Order, error) {
	var (
		o        models.Order
		tracking sql.NullString
	)
	err := row.Scan(&o.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
		&o.Customer.City, &o.Customer.Zip, &o.Subtotal, &o.Tax, &o.Total, &o.Status, &o.PaymentStatus,
		&o.PaymentMethod, &tracking, &o.Date)
	o.TrackingNumber = tracking.String
	o.Items = []models.OrderItem{}
	return o, err
}

func (s *MySQLStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	index := make(map[string]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, quantity, price, image
		FROM order_items
		ORDER BY order_id ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID string
			item    models.OrderItem
		)
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price, &item.Image); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return orders, itemRows.Err()
}

func (s *MySQLStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.getOrder(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *MySQLStore) getOrder(ctx context.Context, q querier, id string) (*models.Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query order %s: %w", id, err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, price, image
		FROM order_items
		WHERE order_id = ?
		ORDER BY id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Price, &item.Image); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return &o, rows.Err()
}

func (s *MySQLStore) CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error) {
	o := newOrder(uuid.NewString(), input, s.now().Truncate(time.Millisecond))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address, o.Customer.City,
		o.Customer.Zip, o.Subtotal, o.Tax, o.Total, o.Status, o.PaymentStatus, o.PaymentMethod,
		sql.NullString{String: o.TrackingNumber, Valid: o.TrackingNumber != ""}, o.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, product_name, quantity, price, image) VALUES (?, ?, ?, ?, ?, ?)",
			o.ID, item.ProductID, item.ProductName, item.Quantity, item.Price, item.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	return &o, nil
}

func (s *MySQLStore) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// MySQL reports zero affected rows when the status is unchanged, so
	// existence is checked by reading the order back.
	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id); err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}
	o, err := s.getOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	return o, nil
}

func (s *MySQLStore) DeleteOrder(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		return fmt.Errorf("delete order items %s: %w", id, err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	if err := expectAffected(result, "order", id); err != nil {
		return err
	}
	return tx.Commit()
}

const userColumns = `id, name, email, role, status, is_verified, avatar, created_at`

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.IsVerified, &u.Avatar, &u.CreatedAt)
	return u, err
}

func (s *MySQLStore) ListUsers(ctx context.Context, page, limit int) ([]models.User, int, error) {
	total, err := s.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	start, end := pageBounds(page, limit, total)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`,
		end-start, start)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (s *MySQLStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query user %s: %w", id, err)
	}
	return &u, nil
}

func (s *MySQLStore) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(u)

	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, role = ?, status = ?, is_verified = ?, avatar = ? WHERE id = ?`,
		u.Name, u.Role, u.Status, u.IsVerified, u.Avatar, id)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return u, nil
}

func (s *MySQLStore) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return expectAffected(result, "user", id)
}

func (s *MySQLStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func expectAffected(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

var _ Repository = (*MySQLStore)(nil)
