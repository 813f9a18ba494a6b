package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/warehouse-simulator/internal/injector"
	invapp "github.com/dmehra2102/warehouse-simulator/internal/inventory/application"
	orderapp "github.com/dmehra2102/warehouse-simulator/internal/order/application"
	"github.com/dmehra2102/warehouse-simulator/internal/order/domain"
	"github.com/dmehra2102/warehouse-simulator/internal/simulation"
)

// Handler is the read-mostly operational surface of the simulator. The one
// write path besides manual injection is GET /api/inventory/{sku}, which
// provisions unknown SKUs (ledger lookup semantics).
type Handler struct {
	log      *slog.Logger
	orders   *orderapp.Service
	ledger   *invapp.Service
	injector *injector.Injector
	clock    *simulation.Clock
	tracer   trace.Tracer
}

func NewHandler(log *slog.Logger, orders *orderapp.Service, ledger *invapp.Service, inj *injector.Injector, clock *simulation.Clock) *Handler {
	return &Handler{
		log:      log,
		orders:   orders,
		ledger:   ledger,
		injector: inj,
		clock:    clock,
		tracer:   otel.Tracer("simulator-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/health", h.health)
	r.Get("/api/orders", h.listOrders)
	r.Get("/api/orders/{orderId}", h.getOrder)
	r.Post("/api/orders", h.injectOrder)
	r.Get("/api/inventory", h.listInventory)
	r.Get("/api/inventory/{sku}", h.getInventory)
	r.Post("/api/inventory/initialize", h.initializeInventory)
	r.Get("/api/simulation", h.simulationStatus)
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "UP",
		"application": "Warehouse Simulator",
		"running":     h.clock.IsRunning(),
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	order, found, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) injectOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "InjectOrder")
	defer span.End()

	var msg domain.OrderReceived
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if msg.OrderID == "" {
		msg.OrderID = uuid.NewString()
	}

	h.injector.Inject(ctx, msg, h.clock.Now())
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "injected", "order_id": msg.OrderID})
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.ListItems(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	item, err := h.ledger.GetOrProvision(r.Context(), sku)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) initializeInventory(w http.ResponseWriter, r *http.Request) {
	sku := r.URL.Query().Get("sku")
	if sku == "" {
		http.Error(w, "sku is required", http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}
	zone := r.URL.Query().Get("temperatureZone")

	item, err := h.ledger.GetOrProvision(r.Context(), sku)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.ledger.SeedItem(r.Context(), sku, item.Name, quantity, zone, item.LowStockThreshold); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "initialized", "sku": sku})
}

func (h *Handler) simulationStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"currentTime":   h.clock.Now().Format(simulation.TimeLayout),
		"running":       h.clock.IsRunning(),
		"progress":      h.clock.Progress(),
		"pendingOrders": h.injector.Pending(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
