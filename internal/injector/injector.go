package injector

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	invdomain "github.com/dmehra2102/warehouse-simulator/internal/inventory/domain"
	"github.com/dmehra2102/warehouse-simulator/internal/order/domain"
	"github.com/dmehra2102/warehouse-simulator/internal/seed"
	"github.com/dmehra2102/warehouse-simulator/internal/simulation"
	"github.com/dmehra2102/warehouse-simulator/pkg/bus"
)

const senderID = "OrderInjector"

// TimeRange reports membership in the simulation window.
type TimeRange interface {
	InRange(t time.Time) bool
}

// Injector gates a pre-loaded backlog of orders so each is published no
// earlier than its scheduled placement time, measured in simulated time.
// The backlog is owned by the injector and guarded by its mutex.
type Injector struct {
	log   *slog.Logger
	pub   bus.Publisher
	topic string

	mu      sync.Mutex
	backlog []domain.OrderReceived
}

func New(log *slog.Logger, pub bus.Publisher, topic string) *Injector {
	return &Injector{log: log, pub: pub, topic: topic}
}

// Load groups seed rows by order id (row order preserved as line order),
// drops orders placed outside the simulation window, sorts the rest by
// placement time, and enqueues them. Malformed groups are logged and
// skipped.
func (in *Injector) Load(records []seed.OrderRecord, window TimeRange) {
	groups := make(map[string][]seed.OrderRecord)
	var orderIDs []string
	for _, rec := range records {
		if _, ok := groups[rec.OrderID]; !ok {
			orderIDs = append(orderIDs, rec.OrderID)
		}
		groups[rec.OrderID] = append(groups[rec.OrderID], rec)
	}

	var orders []domain.OrderReceived
	for _, id := range orderIDs {
		msg, err := buildOrderMessage(groups[id])
		if err != nil {
			in.log.Warn("skipping malformed order group", "order_id", id, "err", err)
			continue
		}
		if !window.InRange(msg.PlacedTime) {
			continue
		}
		orders = append(orders, msg)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].PlacedTime.Before(orders[j].PlacedTime)
	})

	in.mu.Lock()
	in.backlog = append(in.backlog, orders...)
	in.mu.Unlock()

	in.log.Info("loaded order backlog", "orders", len(orders))
}

func buildOrderMessage(group []seed.OrderRecord) (domain.OrderReceived, error) {
	first := group[0]

	placed, err := simulation.ParseSimTime(first.PlacedTime)
	if err != nil {
		return domain.OrderReceived{}, err
	}
	due, err := simulation.ParseSimTime(first.DueTime)
	if err != nil {
		return domain.OrderReceived{}, err
	}
	typ, err := parseOrderType(first.OrderType)
	if err != nil {
		return domain.OrderReceived{}, err
	}

	items := make([]domain.OrderItem, 0, len(group))
	for _, rec := range group {
		zone := rec.TemperatureZone
		if zone == "" {
			zone = invdomain.ZoneAmbient
		}
		items = append(items, domain.OrderItem{
			SKU:             rec.SKU,
			Quantity:        rec.Quantity,
			TemperatureZone: zone,
		})
	}

	return domain.OrderReceived{
		OrderID:    first.OrderID,
		OrderType:  typ,
		PlacedTime: placed,
		DueTime:    due,
		Items:      items,
		CustomerID: first.CustomerID,
		SenderID:   senderID,
	}, nil
}

func parseOrderType(s string) (domain.OrderType, error) {
	switch domain.OrderType(s) {
	case domain.TypePickup, domain.TypeDelivery:
		return domain.OrderType(s), nil
	}
	return "", &UnknownOrderTypeError{Value: s}
}

type UnknownOrderTypeError struct {
	Value string
}

func (e *UnknownOrderTypeError) Error() string {
	return "unknown order type " + e.Value
}

// Release publishes every backlog order whose placement time has arrived
// (boundary inclusive) and requeues the rest. A failed publish is logged
// and the order is not requeued.
func (in *Injector) Release(ctx context.Context, now time.Time) {
	in.mu.Lock()
	var due, pending []domain.OrderReceived
	for _, order := range in.backlog {
		if !order.PlacedTime.After(now) {
			due = append(due, order)
		} else {
			pending = append(pending, order)
		}
	}
	in.backlog = pending
	in.mu.Unlock()

	for _, order := range due {
		in.publish(ctx, order, now)
	}
}

// Inject bypasses the backlog and publishes one order immediately.
func (in *Injector) Inject(ctx context.Context, order domain.OrderReceived, now time.Time) {
	order.SenderID = senderID
	in.publish(ctx, order, now)
}

// Pending is the number of orders still waiting on their placement time.
func (in *Injector) Pending() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.backlog)
}

func (in *Injector) publish(ctx context.Context, order domain.OrderReceived, now time.Time) {
	if err := in.pub.Publish(ctx, in.topic, order.OrderID, order); err != nil {
		in.log.Error("order publish failed",
			"order_id", order.OrderID, "time", now.Format(simulation.TimeLayout), "err", err)
		return
	}
	in.log.Info("order released",
		"order_id", order.OrderID, "time", now.Format(simulation.TimeLayout))
}
