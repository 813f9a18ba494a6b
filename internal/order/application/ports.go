package application

import (
	"context"
	"time"

	invdomain "github.com/dmehra2102/warehouse-simulator/internal/inventory/domain"
	"github.com/dmehra2102/warehouse-simulator/internal/order/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, o domain.Order) (domain.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (domain.Order, bool, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
}

// InventoryReader is the workflow's synchronous view of the ledger. The
// lookup provisions unknown SKUs, so a read may write.
type InventoryReader interface {
	GetOrProvision(ctx context.Context, sku string) (invdomain.InventoryItem, error)
}

// SimClock supplies the simulated time used to stamp processed events and
// lifecycle logs.
type SimClock interface {
	Now() time.Time
}
