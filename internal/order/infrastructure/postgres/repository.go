package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/warehouse-simulator/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS orders (
			order_id    TEXT PRIMARY KEY,
			order_type  TEXT NOT NULL,
			status      TEXT NOT NULL,
			placed_time TIMESTAMP NOT NULL,
			due_time    TIMESTAMP NOT NULL,
			customer_id TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS order_items (
			order_id         TEXT NOT NULL REFERENCES orders(order_id),
			line_no          INT NOT NULL,
			sku              TEXT NOT NULL,
			quantity         INT NOT NULL,
			temperature_zone TEXT NOT NULL,
			PRIMARY KEY (order_id, line_no)
		)`)
	return err
}

// Save upserts the order row and its lines in one transaction and returns
// the stored order. Line order is preserved through line_no.
func (r *Repository) Save(ctx context.Context, o domain.Order) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (order_id, order_type, status, placed_time, due_time, customer_id)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (order_id) DO UPDATE SET order_type=$2, status=$3, placed_time=$4, due_time=$5, customer_id=$6`,
		o.OrderID, o.OrderType, o.Status, o.PlacedTime, o.DueTime, o.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}

	batch := &pgx.Batch{}
	for i, item := range o.Items {
		batch.Queue(`INSERT INTO order_items (order_id, line_no, sku, quantity, temperature_zone)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (order_id, line_no) DO UPDATE SET sku=$3, quantity=$4, temperature_zone=$5`,
			o.OrderID, i, item.SKU, item.Quantity, item.TemperatureZone)
	}
	batchResult := tx.SendBatch(ctx, batch)
	if err = batchResult.Close(); err != nil {
		return domain.Order{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (domain.Order, bool, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `SELECT order_id, order_type, status, placed_time, due_time, customer_id
		FROM orders WHERE order_id=$1`, orderID).
		Scan(&o.OrderID, &o.OrderType, &o.Status, &o.PlacedTime, &o.DueTime, &o.CustomerID)
	if err == pgx.ErrNoRows {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, err
	}

	items, err := r.loadItems(ctx, orderID)
	if err != nil {
		return domain.Order{}, false, err
	}
	o.Items = items
	return o, true, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT order_id, order_type, status, placed_time, due_time, customer_id
		FROM orders ORDER BY placed_time, order_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.OrderID, &o.OrderType, &o.Status, &o.PlacedTime, &o.DueTime, &o.CustomerID); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].OrderID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT sku, quantity, temperature_zone
		FROM order_items WHERE order_id=$1 ORDER BY line_no`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.SKU, &item.Quantity, &item.TemperatureZone); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
