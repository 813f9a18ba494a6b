package domain

type Operation string

const (
	OpReserve   Operation = "RESERVE"
	OpRelease   Operation = "RELEASE"
	OpDeduct    Operation = "DEDUCT"
	OpReplenish Operation = "REPLENISH"
)

// InventoryUpdate is the payload published on the inventory.update topic.
// Messages are keyed by SKU so the bus preserves per-SKU ordering.
type InventoryUpdate struct {
	SKU                    string    `json:"sku"`
	QuantityChange         int       `json:"quantityChange"`
	ReservedQuantityChange int       `json:"reservedQuantityChange"`
	Operation              Operation `json:"operation"`
	OrderID                string    `json:"orderId,omitempty"`
}
