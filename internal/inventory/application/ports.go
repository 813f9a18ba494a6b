package application

import (
	"context"

	"github.com/dmehra2102/warehouse-simulator/internal/inventory/domain"
)

type InventoryRepository interface {
	FindBySKU(ctx context.Context, sku string) (domain.InventoryItem, bool, error)
	Save(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	FindAll(ctx context.Context) ([]domain.InventoryItem, error)
}
