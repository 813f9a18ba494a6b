package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmehra2102/warehouse-simulator/internal/inventory/domain"
)

// Defaults govern lazy provisioning and auto-replenishment.
type Defaults struct {
	InitialStock          int
	LowStockThreshold     int
	ReplenishmentQuantity int
}

// Service is the inventory ledger: the sole mutator of inventory items.
// Operations on the same SKU are serialized with a per-key lock so the
// read-modify-write of quantity/reservedQuantity never loses an update.
type Service struct {
	log      *slog.Logger
	repo     InventoryRepository
	defaults Defaults

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(log *slog.Logger, repo InventoryRepository, defaults Defaults) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		defaults: defaults,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *Service) skuLock(sku string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sku]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sku] = l
	}
	return l
}

// Apply executes one named operation against one SKU. Unknown operations
// are logged and skipped. Every call, applied or skipped, is followed by a
// single-shot low-stock replenishment check on raw quantity.
func (s *Service) Apply(ctx context.Context, msg domain.InventoryUpdate) error {
	l := s.skuLock(msg.SKU)
	l.Lock()
	defer l.Unlock()

	s.log.Info("inventory update received", "sku", msg.SKU, "operation", msg.Operation, "order_id", msg.OrderID)

	item, err := s.getOrProvision(ctx, msg.SKU)
	if err != nil {
		return err
	}

	switch msg.Operation {
	case domain.OpReserve:
		item, err = s.reserve(ctx, item, msg.ReservedQuantityChange)
	case domain.OpRelease:
		item, err = s.release(ctx, item, msg.ReservedQuantityChange)
	case domain.OpDeduct:
		item, err = s.deduct(ctx, item, msg.QuantityChange)
	case domain.OpReplenish:
		item, err = s.replenish(ctx, item, msg.QuantityChange)
	default:
		s.log.Warn("unknown inventory operation", "sku", msg.SKU, "operation", msg.Operation)
	}
	if err != nil {
		return err
	}

	return s.checkAndReplenish(ctx, item)
}

// GetOrProvision returns the ledger row for sku, creating and persisting it
// with default stock when unknown. The lookup may write.
func (s *Service) GetOrProvision(ctx context.Context, sku string) (domain.InventoryItem, error) {
	l := s.skuLock(sku)
	l.Lock()
	defer l.Unlock()
	return s.getOrProvision(ctx, sku)
}

func (s *Service) getOrProvision(ctx context.Context, sku string) (domain.InventoryItem, error) {
	item, found, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	if found {
		return item, nil
	}

	item = domain.InventoryItem{
		SKU:               sku,
		Name:              "Item " + sku,
		Quantity:          s.defaults.InitialStock,
		ReservedQuantity:  0,
		TemperatureZone:   domain.ZoneAmbient,
		LowStockThreshold: s.defaults.LowStockThreshold,
	}
	s.log.Info("provisioned inventory item", "sku", sku, "quantity", item.Quantity)
	return s.repo.Save(ctx, item)
}

func (s *Service) reserve(ctx context.Context, item domain.InventoryItem, qty int) (domain.InventoryItem, error) {
	if qty <= 0 {
		return item, nil
	}
	available := item.AvailableQuantity()
	if available < qty {
		// Dropped without any compensating signal; admission raced ahead.
		s.log.Warn("insufficient stock for reservation",
			"sku", item.SKU, "requested", qty, "available", available)
		return item, nil
	}
	item.ReservedQuantity += qty
	item, err := s.repo.Save(ctx, item)
	if err != nil {
		return item, err
	}
	s.log.Info("reserved stock", "sku", item.SKU, "quantity", qty, "available", item.AvailableQuantity())
	return item, nil
}

func (s *Service) release(ctx context.Context, item domain.InventoryItem, qty int) (domain.InventoryItem, error) {
	if qty <= 0 {
		return item, nil
	}
	released := min(qty, item.ReservedQuantity)
	item.ReservedQuantity -= released
	item, err := s.repo.Save(ctx, item)
	if err != nil {
		return item, err
	}
	s.log.Info("released stock", "sku", item.SKU, "quantity", released, "reserved", item.ReservedQuantity)
	return item, nil
}

func (s *Service) deduct(ctx context.Context, item domain.InventoryItem, qty int) (domain.InventoryItem, error) {
	if qty <= 0 {
		return item, nil
	}
	fromReserved := min(qty, item.ReservedQuantity)
	item.ReservedQuantity -= fromReserved
	// Uncovered remainder comes off on-hand stock and may drive it negative.
	item.Quantity -= qty - fromReserved
	item, err := s.repo.Save(ctx, item)
	if err != nil {
		return item, err
	}
	s.log.Info("deducted stock", "sku", item.SKU, "quantity", qty, "on_hand", item.Quantity, "reserved", item.ReservedQuantity)
	return item, nil
}

func (s *Service) replenish(ctx context.Context, item domain.InventoryItem, qty int) (domain.InventoryItem, error) {
	if qty <= 0 {
		qty = s.defaults.ReplenishmentQuantity
	}
	item.Quantity += qty
	item, err := s.repo.Save(ctx, item)
	if err != nil {
		return item, err
	}
	s.log.Info("replenished stock", "sku", item.SKU, "quantity", qty, "on_hand", item.Quantity)
	return item, nil
}

func (s *Service) checkAndReplenish(ctx context.Context, item domain.InventoryItem) error {
	if item.Quantity > item.LowStockThreshold {
		return nil
	}
	s.log.Warn("low stock detected",
		"sku", item.SKU, "on_hand", item.Quantity, "threshold", item.LowStockThreshold)
	_, err := s.replenish(ctx, item, s.defaults.ReplenishmentQuantity)
	return err
}

// SeedItem upserts one item from seed data. Existing rows keep their
// reserved quantity; new rows start with none.
func (s *Service) SeedItem(ctx context.Context, sku, name string, quantity int, zone string, threshold int) error {
	l := s.skuLock(sku)
	l.Lock()
	defer l.Unlock()

	if name == "" {
		name = "Item " + sku
	}
	if zone == "" {
		zone = domain.ZoneAmbient
	}

	item, found, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if found {
		item.Name = name
		item.Quantity = quantity
		item.TemperatureZone = zone
		item.LowStockThreshold = threshold
	} else {
		item = domain.InventoryItem{
			SKU:               sku,
			Name:              name,
			Quantity:          quantity,
			ReservedQuantity:  0,
			TemperatureZone:   zone,
			LowStockThreshold: threshold,
		}
	}

	if _, err := s.repo.Save(ctx, item); err != nil {
		return err
	}
	s.log.Debug("seeded inventory item", "sku", sku, "quantity", quantity, "zone", zone)
	return nil
}

// ListItems exposes the current ledger rows for the query API.
func (s *Service) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.repo.FindAll(ctx)
}
