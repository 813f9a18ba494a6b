package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmehra2102/warehouse-simulator/internal/inventory/domain"
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
		CREATE TABLE IF NOT EXISTS inventory_items (
			sku                 TEXT PRIMARY KEY,
			name                TEXT NOT NULL,
			quantity            INT NOT NULL,
			reserved_quantity   INT NOT NULL,
			temperature_zone    TEXT NOT NULL,
			low_stock_threshold INT NOT NULL
		)`)
	return err
}

func (r *Repository) FindBySKU(ctx context.Context, sku string) (domain.InventoryItem, bool, error) {
	var item domain.InventoryItem
	err := r.pool.QueryRow(ctx, `SELECT sku, name, quantity, reserved_quantity, temperature_zone, low_stock_threshold
		FROM inventory_items WHERE sku=$1`, sku).
		Scan(&item.SKU, &item.Name, &item.Quantity, &item.ReservedQuantity, &item.TemperatureZone, &item.LowStockThreshold)
	if err == pgx.ErrNoRows {
		return domain.InventoryItem{}, false, nil
	}
	if err != nil {
		return domain.InventoryItem{}, false, err
	}
	return item, true, nil
}

func (r *Repository) Save(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO inventory_items (sku, name, quantity, reserved_quantity, temperature_zone, low_stock_threshold)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (sku) DO UPDATE SET name=$2, quantity=$3, reserved_quantity=$4, temperature_zone=$5, low_stock_threshold=$6`,
		item.SKU, item.Name, item.Quantity, item.ReservedQuantity, item.TemperatureZone, item.LowStockThreshold)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	return item, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT sku, name, quantity, reserved_quantity, temperature_zone, low_stock_threshold
		FROM inventory_items ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.SKU, &item.Name, &item.Quantity, &item.ReservedQuantity, &item.TemperatureZone, &item.LowStockThreshold); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
