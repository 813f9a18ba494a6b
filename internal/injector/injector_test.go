package injector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dmehra2102/warehouse-simulator/internal/order/domain"
	"github.com/dmehra2102/warehouse-simulator/internal/seed"
	"github.com/dmehra2102/warehouse-simulator/internal/simulation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePublisher struct {
	mu        sync.Mutex
	published []domain.OrderReceived
	failNext  bool
}

func (p *fakePublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext {
		p.failNext = false
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, payload.(domain.OrderReceived))
	return nil
}

type window struct {
	start, end time.Time
}

func (w window) InRange(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}

func simTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := simulation.ParseSimTime(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return ts
}

func testWindow(t *testing.T) window {
	return window{
		start: simTime(t, "2024-01-13T08:00:00"),
		end:   simTime(t, "2024-01-13T18:00:00"),
	}
}

func orderRow(orderID, placed, sku string, qty int) seed.OrderRecord {
	return seed.OrderRecord{
		OrderID:    orderID,
		OrderType:  "DELIVERY",
		PlacedTime: placed,
		DueTime:    "2024-01-13T17:00:00",
		CustomerID: "CUST-1",
		SKU:        sku,
		Quantity:   qty,
	}
}

func TestLoadGroupsRowsIntoOneOrder(t *testing.T) {
	pub := &fakePublisher{}
	in := New(testLogger(), pub, "sim.order.received")

	in.Load([]seed.OrderRecord{
		orderRow("ORD-1", "2024-01-13T09:00:00", "SKU-A", 2),
		orderRow("ORD-1", "2024-01-13T09:00:00", "SKU-B", 1),
		orderRow("ORD-1", "2024-01-13T09:00:00", "SKU-C", 4),
	}, testWindow(t))

	if in.Pending() != 1 {
		t.Fatalf("expected 1 backlog order, got %d", in.Pending())
	}

	in.Release(context.Background(), simTime(t, "2024-01-13T09:00:00"))

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published order, got %d", len(pub.published))
	}
	msg := pub.published[0]
	if len(msg.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(msg.Items))
	}
	wantSKUs := []string{"SKU-A", "SKU-B", "SKU-C"}
	for i, sku := range wantSKUs {
		if msg.Items[i].SKU != sku {
			t.Errorf("item %d: expected %s, got %s (line order not preserved)", i, sku, msg.Items[i].SKU)
		}
	}
	if msg.SenderID != "OrderInjector" {
		t.Errorf("expected sender OrderInjector, got %s", msg.SenderID)
	}
}

func TestLoadDropsOrdersOutsideWindow(t *testing.T) {
	pub := &fakePublisher{}
	in := New(testLogger(), pub, "sim.order.received")

	in.Load([]seed.OrderRecord{
		orderRow("ORD-EARLY", "2024-01-13T07:59:59", "SKU-A", 1),
		orderRow("ORD-LATE", "2024-01-13T18:00:01", "SKU-A", 1),
		orderRow("ORD-OK", "2024-01-13T12:00:00", "SKU-A", 1),
	}, testWindow(t))

	if in.Pending() != 1 {
		t.Errorf("expected only the in-window order enqueued, got %d", in.Pending())
	}
}

func TestLoadSkipsMalformedGroups(t *testing.T) {
	pub := &fakePublisher{}
	in := New(testLogger(), pub, "sim.order.received")

	bad := orderRow("ORD-BAD", "not-a-time", "SKU-A", 1)
	badType := orderRow("ORD-BADTYPE", "2024-01-13T09:00:00", "SKU-A", 1)
	badType.OrderType = "TELEPORT"

	in.Load([]seed.OrderRecord{
		bad,
		badType,
		orderRow("ORD-OK", "2024-01-13T09:00:00", "SKU-A", 1),
	}, testWindow(t))

	if in.Pending() != 1 {
		t.Errorf("expected malformed groups skipped, got %d pending", in.Pending())
	}
}

func TestReleaseBoundaryInclusive(t *testing.T) {
	pub := &fakePublisher{}
	in := New(testLogger(), pub, "sim.order.received")

	in.Load([]seed.OrderRecord{
		orderRow("ORD-DUE", "2024-01-13T09:00:00", "SKU-A", 1),
		orderRow("ORD-FUTURE", "2024-01-13T09:00:01", "SKU-A", 1),
	}, testWindow(t))

	in.Release(context.Background(), simTime(t, "2024-01-13T09:00:00"))

	if len(pub.published) != 1 || pub.published[0].OrderID != "ORD-DUE" {
		t.Fatalf("expected exactly ORD-DUE released, got %+v", pub.published)
	}
	if in.Pending() != 1 {
		t.Errorf("expected ORD-FUTURE requeued, got %d pending", in.Pending())
	}
}

func TestReleasePublishesInPlacementOrder(t *testing.T) {
	pub := &fakePublisher{}
	in := New(testLogger(), pub, "sim.order.received")

	in.Load([]seed.OrderRecord{
		orderRow("ORD-3", "2024-01-13T11:00:00", "SKU-A", 1),
		orderRow("ORD-1", "2024-01-13T09:00:00", "SKU-A", 1),
		orderRow("ORD-2", "2024-01-13T10:00:00", "SKU-A", 1),
	}, testWindow(t))

	in.Release(context.Background(), simTime(t, "2024-01-13T12:00:00"))

	want := []string{"ORD-1", "ORD-2", "ORD-3"}
	if len(pub.published) != len(want) {
		t.Fatalf("expected %d orders, got %d", len(want), len(pub.published))
	}
	for i, id := range want {
		if pub.published[i].OrderID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, pub.published[i].OrderID)
		}
	}
}

func TestPublishFailureDoesNotRequeue(t *testing.T) {
	pub := &fakePublisher{failNext: true}
	in := New(testLogger(), pub, "sim.order.received")

	in.Load([]seed.OrderRecord{
		orderRow("ORD-1", "2024-01-13T09:00:00", "SKU-A", 1),
	}, testWindow(t))

	in.Release(context.Background(), simTime(t, "2024-01-13T09:00:00"))

	if len(pub.published) != 0 {
		t.Fatalf("expected failed publish, got %d published", len(pub.published))
	}
	if in.Pending() != 0 {
		t.Errorf("failed order must not be requeued, got %d pending", in.Pending())
	}

	// Next tick publishes nothing: the order is gone.
	in.Release(context.Background(), simTime(t, "2024-01-13T09:00:01"))
	if len(pub.published) != 0 {
		t.Errorf("expected no redelivery from injector, got %d", len(pub.published))
	}
}

func TestInjectBypassesBacklog(t *testing.T) {
	pub := &fakePublisher{}
	in := New(testLogger(), pub, "sim.order.received")

	in.Inject(context.Background(), domain.OrderReceived{
		OrderID:    "ORD-MANUAL",
		OrderType:  domain.TypePickup,
		PlacedTime: simTime(t, "2024-01-13T16:00:00"),
		DueTime:    simTime(t, "2024-01-13T17:00:00"),
		Items:      []domain.OrderItem{{SKU: "SKU-A", Quantity: 1, TemperatureZone: "AMBIENT"}},
		CustomerID: "CUST-9",
	}, simTime(t, "2024-01-13T08:00:00"))

	if len(pub.published) != 1 {
		t.Fatalf("expected immediate publish, got %d", len(pub.published))
	}
	if pub.published[0].SenderID != "OrderInjector" {
		t.Errorf("expected injector sender id, got %s", pub.published[0].SenderID)
	}
}
