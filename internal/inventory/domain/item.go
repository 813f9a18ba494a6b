package domain

const (
	ZoneAmbient = "AMBIENT"
	ZoneChilled = "CHILLED"
	ZoneFrozen  = "FROZEN"
)

type InventoryItem struct {
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	ReservedQuantity  int    `json:"reservedQuantity"`
	TemperatureZone   string `json:"temperatureZone"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}

// AvailableQuantity is on-hand stock minus soft holds.
func (i InventoryItem) AvailableQuantity() int {
	return i.Quantity - i.ReservedQuantity
}
