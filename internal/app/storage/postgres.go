package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open connects to Postgres, bounds the connection pool and verifies the
// database is reachable. A failed ping here is a fatal startup error.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) ActiveProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, flavour, pack_size, price
		FROM products
		WHERE is_active = TRUE
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Flavour, &p.PackSize, &p.Price); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateOrder inserts the order and its items in one transaction. Line totals
// are computed from the current product price, so a cart referencing a product
// that does not exist rolls the whole order back.
func (r *OrderRepo) CreateOrder(ctx context.Context, order NewOrder, items []NewOrderItem) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_name, phone, address, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		order.CustomerName, order.Phone, order.Address, order.Note).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	for _, item := range items {
		var price int64
		err := tx.QueryRowContext(ctx,
			`SELECT price FROM products WHERE id = $1`, item.ProductID).Scan(&price)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %d", ErrProductUnknown, item.ProductID)
		} else if err != nil {
			return 0, err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, line_total)
			VALUES ($1, $2, $3, $4)`,
			orderID, item.ProductID, item.Quantity, price*int64(item.Quantity))
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return orderID, nil
}

func (r *OrderRepo) OrderByID(ctx context.Context, orderID int64) (Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_name, phone, address, note, created_at
		FROM orders
		WHERE id = $1`, orderID).
		Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address, &o.Note, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	} else if err != nil {
		return Order{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.name, p.flavour, oi.quantity, oi.line_total
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ProductName, &item.Flavour, &item.Quantity, &item.LineTotal); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, item)
	}
	return o, rows.Err()
}

func (r *OrderRepo) PendingOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.customer_name, o.phone, o.address, o.note, o.created_at,
		       p.name, p.flavour, oi.quantity, oi.line_total
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status = 'pending'
		ORDER BY o.created_at DESC, o.id, oi.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	byID := make(map[int64]int)
	for rows.Next() {
		var o Order
		var item OrderItem
		err := rows.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address, &o.Note, &o.CreatedAt,
			&item.ProductName, &item.Flavour, &item.Quantity, &item.LineTotal)
		if err != nil {
			return nil, err
		}

		idx, ok := byID[o.ID]
		if !ok {
			idx = len(orders)
			byID[o.ID] = idx
			orders = append(orders, o)
		}
		orders[idx].Items = append(orders[idx].Items, item)
	}
	return orders, rows.Err()
}

func (r *OrderRepo) CompleteOrder(ctx context.Context, orderID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = 'completed' WHERE id = $1`, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// dateFilter builds an optional WHERE clause bounding orders by creation date,
// with positional parameters numbered from $1.
func dateFilter(from *time.Time, to *time.Time) (string, []any) {
	var clauses []string
	var args []any

	if from != nil {
		args = append(args, *from)
		clauses = append(clauses, fmt.Sprintf("o.created_at::date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		clauses = append(clauses, fmt.Sprintf("o.created_at::date <= $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *OrderRepo) Analytics(ctx context.Context, from *time.Time, to *time.Time) (Analytics, error) {
	whereSQL, args := dateFilter(from, to)

	var a Analytics
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(DISTINCT o.id), COALESCE(SUM(oi.line_total), 0)
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		%s`, whereSQL), args...).
		Scan(&a.Summary.TotalOrders, &a.Summary.TotalRevenue)
	if err != nil {
		return Analytics{}, err
	}

	weekRows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT date_trunc('week', o.created_at)::date AS week_start,
		       COUNT(DISTINCT o.id),
		       COALESCE(SUM(oi.line_total), 0)
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		%s
		GROUP BY week_start
		ORDER BY week_start DESC
		LIMIT 8`, whereSQL), args...)
	if err != nil {
		return Analytics{}, err
	}
	defer weekRows.Close()

	for weekRows.Next() {
		var w WeeklyStat
		if err := weekRows.Scan(&w.WeekStart, &w.OrderCount, &w.Revenue); err != nil {
			return Analytics{}, err
		}
		a.Weekly = append(a.Weekly, w)
	}
	if err := weekRows.Err(); err != nil {
		return Analytics{}, err
	}

	productRows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT p.name, p.flavour,
		       SUM(oi.quantity) AS total_quantity,
		       SUM(oi.line_total)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		%s
		GROUP BY p.name, p.flavour
		ORDER BY total_quantity DESC
		LIMIT 10`, whereSQL), args...)
	if err != nil {
		return Analytics{}, err
	}
	defer productRows.Close()

	for productRows.Next() {
		var p ProductStat
		if err := productRows.Scan(&p.ProductName, &p.Flavour, &p.TotalQuantity, &p.TotalRevenue); err != nil {
			return Analytics{}, err
		}
		a.Products = append(a.Products, p)
	}
	return a, productRows.Err()
}
