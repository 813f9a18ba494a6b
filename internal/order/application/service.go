package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	invdomain "github.com/dmehra2102/warehouse-simulator/internal/inventory/domain"
	"github.com/dmehra2102/warehouse-simulator/internal/order/domain"
	"github.com/dmehra2102/warehouse-simulator/internal/simulation"
	"github.com/dmehra2102/warehouse-simulator/pkg/bus"
)

type Topics struct {
	InventoryUpdate string
	OrderProcessed  string
}

// Service drives the order lifecycle. It is the sole mutator of order rows;
// inventory is mutated only indirectly, through inventory.update messages.
type Service struct {
	log    *slog.Logger
	repo   OrderRepository
	inv    InventoryReader
	pub    bus.Publisher
	clock  SimClock
	topics Topics
}

func NewService(log *slog.Logger, repo OrderRepository, inv InventoryReader, pub bus.Publisher, clock SimClock, topics Topics) *Service {
	return &Service{log: log, repo: repo, inv: inv, pub: pub, clock: clock, topics: topics}
}

// HandleOrderReceived runs one order through its lifecycle. Errors are
// surfaced to the consumer boundary, which logs and moves on; whatever
// status was last persisted stands.
func (s *Service) HandleOrderReceived(ctx context.Context, msg domain.OrderReceived) error {
	now := s.clock.Now()

	s.log.Info("order received",
		"order_id", msg.OrderID,
		"order_type", msg.OrderType,
		"customer_id", msg.CustomerID,
		"items_count", len(msg.Items),
		"placed_time", msg.PlacedTime.Format(simulation.TimeLayout),
		"due_time", msg.DueTime.Format(simulation.TimeLayout),
	)

	order := domain.NewOrder(msg.OrderID, msg.OrderType, msg.CustomerID, msg.PlacedTime, msg.DueTime, msg.Items)
	order.Status = domain.StatusReceived
	order, err := s.repo.Save(ctx, order)
	if err != nil {
		return fmt.Errorf("persist received order %s: %w", msg.OrderID, err)
	}

	admitted, err := s.checkAndReserve(ctx, order)
	if err != nil {
		return err
	}

	if !admitted {
		order.Status = domain.StatusCancelled
		if _, err := s.repo.Save(ctx, order); err != nil {
			return fmt.Errorf("persist cancelled order %s: %w", order.OrderID, err)
		}
		s.publishProcessed(ctx, order.OrderID, domain.ProcessedStatusFailed, "Insufficient inventory")
		s.log.Warn("order failed",
			"order_id", order.OrderID,
			"reason", "INSUFFICIENT_INVENTORY",
			"items", itemsDetail(order.Items),
			"time", now.Format(simulation.TimeLayout),
		)
		return nil
	}

	return s.processOrder(ctx, order)
}

// checkAndReserve is the admission check. Each line is judged against the
// ledger snapshot as it stands at read time; a RESERVE message is emitted
// per approved line before the next line is checked, and approved lines are
// not rolled back when a later line comes up short.
func (s *Service) checkAndReserve(ctx context.Context, order domain.Order) (bool, error) {
	for _, item := range order.Items {
		snapshot, err := s.inv.GetOrProvision(ctx, item.SKU)
		if err != nil {
			return false, fmt.Errorf("inventory snapshot for %s: %w", item.SKU, err)
		}
		if snapshot.AvailableQuantity() < item.Quantity {
			s.log.Warn("insufficient inventory at admission",
				"order_id", order.OrderID,
				"sku", item.SKU,
				"available", snapshot.AvailableQuantity(),
				"requested", item.Quantity,
				"time", s.clock.Now().Format(simulation.TimeLayout),
			)
			return false, nil
		}

		update := invdomain.InventoryUpdate{
			SKU:                    item.SKU,
			ReservedQuantityChange: item.Quantity,
			Operation:              invdomain.OpReserve,
			OrderID:                order.OrderID,
		}
		if err := s.pub.Publish(ctx, s.topics.InventoryUpdate, item.SKU, update); err != nil {
			return false, fmt.Errorf("publish reserve for %s: %w", item.SKU, err)
		}
	}
	return true, nil
}

func (s *Service) processOrder(ctx context.Context, order domain.Order) error {
	now := s.clock.Now()

	order.Status = domain.StatusProcessing
	order, err := s.repo.Save(ctx, order)
	if err != nil {
		return fmt.Errorf("persist processing order %s: %w", order.OrderID, err)
	}
	s.log.Info("order processing", "order_id", order.OrderID, "status", order.Status, "time", now.Format(simulation.TimeLayout))

	for _, item := range order.Items {
		update := invdomain.InventoryUpdate{
			SKU:            item.SKU,
			QuantityChange: item.Quantity,
			Operation:      invdomain.OpDeduct,
			OrderID:        order.OrderID,
		}
		if err := s.pub.Publish(ctx, s.topics.InventoryUpdate, item.SKU, update); err != nil {
			return fmt.Errorf("publish deduct for %s: %w", item.SKU, err)
		}
		s.log.Debug("order inventory deduct",
			"order_id", order.OrderID, "sku", item.SKU, "quantity", item.Quantity, "zone", item.TemperatureZone)
	}

	order.Status = domain.StatusCompleted
	order, err = s.repo.Save(ctx, order)
	if err != nil {
		return fmt.Errorf("persist completed order %s: %w", order.OrderID, err)
	}

	s.publishProcessed(ctx, order.OrderID, domain.ProcessedStatusCompleted, "Order processed successfully")

	s.log.Info("order completed",
		"order_id", order.OrderID,
		"order_type", order.OrderType,
		"customer_id", order.CustomerID,
		"items", itemsDetail(order.Items),
		"status", order.Status,
		"time", now.Format(simulation.TimeLayout),
	)
	return nil
}

// publishProcessed is fire-and-forget: a failed publish is logged, never
// retried, and does not disturb the persisted order state.
func (s *Service) publishProcessed(ctx context.Context, orderID, status, message string) {
	event := domain.OrderProcessed{
		OrderID:       orderID,
		Status:        status,
		ProcessedTime: s.clock.Now(),
		Message:       message,
	}
	if err := s.pub.Publish(ctx, s.topics.OrderProcessed, orderID, event); err != nil {
		s.log.Error("order processed publish failed",
			"order_id", orderID, "status", status, "err", err,
			"time", s.clock.Now().Format(simulation.TimeLayout))
		return
	}
	s.log.Debug("order processed published", "order_id", orderID, "status", status)
}

// GetOrder returns one order by its business identifier.
func (s *Service) GetOrder(ctx context.Context, orderID string) (domain.Order, bool, error) {
	return s.repo.FindByOrderID(ctx, orderID)
}

// ListOrders returns every order seen so far.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindAll(ctx)
}

func itemsDetail(items []domain.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s:%d", item.SKU, item.Quantity))
	}
	return strings.Join(parts, ",")
}
