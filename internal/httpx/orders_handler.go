package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
	"github.com/habuli/go-shop-backend.git/internal/catalog"
	kafkax "github.com/habuli/go-shop-backend.git/internal/kafka"
	"github.com/habuli/go-shop-backend.git/internal/orders"
	"github.com/habuli/go-shop-backend.git/internal/redisx"
)

type OrdersHandler struct {
	Repo     *orders.Repo
	Products *catalog.Repo
	Users    UserSource

	Created       *kafkax.Producer // order.created
	StatusChanged *kafkax.Producer // order.status.changed
	Redis         *redis.Client
	Service       string
}

func (h *OrdersHandler) Register(r chi.Router, a *Authenticator) {
	r.With(a.Authenticate).Post("/order/new", handle(h.create))
	r.With(a.Authenticate).Get("/order", handle(h.get))
	r.With(a.Authenticate).Get("/order/status/{id}", handle(h.status))
	r.With(a.Authenticate).Get("/orders", handle(h.mine))
	r.Get("/cartitems", handle(h.cartItems))

	r.With(a.Authenticate, RequireAdmin).Get("/admin/orders", handle(h.listAll))
	r.With(a.Authenticate, RequireAdmin).Put("/admin/order/{id}", handle(h.updateStatus))
	r.With(a.Authenticate, RequireAdmin).Delete("/admin/order/{id}", handle(h.deleteOrder))
}

type newOrderReq struct {
	ShippingInfo  orders.ShippingSnapshot `json:"shippingInfo"`
	OrderItems    []orders.OrderItem      `json:"orderItems"`
	PaymentInfo   orders.PaymentSnapshot  `json:"paymentInfo"`
	ItemsPrice    float64                 `json:"itemsPrice"`
	TaxPrice      float64                 `json:"taxPrice"`
	ShippingPrice float64                 `json:"shippingPrice"`
	TotalPrice    float64                 `json:"totalPrice"`
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) error {
	var req newOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid json")
	}
	if len(req.OrderItems) == 0 {
		return apperr.New(apperr.Validation, "order has no items")
	}
	for _, it := range req.OrderItems {
		if it.Quantity <= 0 {
			return apperr.Newf(apperr.Validation, "invalid quantity for product %s", it.ProductID)
		}
	}
	u := CurrentUser(r)
	order, err := h.Repo.Create(r.Context(), orders.Order{
		UserID:        u.ID,
		ShippingInfo:  req.ShippingInfo,
		Items:         req.OrderItems,
		PaymentInfo:   req.PaymentInfo,
		ItemsPrice:    req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		return err
	}

	h.cacheStatus(r, order.ID, order.Status)
	h.publish(h.Created, orders.EventOrderCreated, r, order.ID, orders.OrderCreatedPayload{
		OrderID:    order.ID,
		UserID:     u.ID,
		UserEmail:  u.Email,
		UserName:   u.Name,
		TotalPrice: order.TotalPrice,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Order created successfully.",
		"order":   order,
	})
	return nil
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) error {
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		return apperr.New(apperr.Validation, "orderId is required")
	}
	order, err := h.Repo.Get(r.Context(), orderID)
	if err != nil {
		return err
	}
	u := CurrentUser(r)
	if order.UserID != u.ID && !u.IsAdmin() {
		return apperr.Newf(apperr.Forbidden, "%s is not allowed to access this resource", u.Role)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   order,
	})
	return nil
}

// status answers from the redis cache when it can; a miss falls back to the
// repo and refills the cache. The cached value and the fallback body share
// one shape, so clients cannot tell which path served them.
func (h *OrdersHandler) status(w http.ResponseWriter, r *http.Request) error {
	orderID := chi.URLParam(r, "id")
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return nil
	}
	order, err := h.Repo.Get(r.Context(), orderID)
	if err != nil {
		return err
	}
	h.cacheStatus(r, order.ID, order.Status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(statusCacheBody(order.Status)))
	return nil
}

func (h *OrdersHandler) mine(w http.ResponseWriter, r *http.Request) error {
	list, err := h.Repo.ListByUser(r.Context(), CurrentUser(r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  list,
	})
	return nil
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) error {
	list, err := h.Repo.ListAll(r.Context())
	if err != nil {
		return err
	}
	var totalAmount float64
	for _, o := range list {
		totalAmount += o.TotalPrice
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"totalAmount": totalAmount,
		"orders":      list,
	})
	return nil
}

// updateStatus runs the fulfillment transition. Stock is adjusted exactly at
// Processing -> Shipped, inside the same transaction as the status commit.
func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid json")
	}
	target, err := orders.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	order, err := h.Repo.Transition(r.Context(), chi.URLParam(r, "id"), target)
	if err != nil {
		return err
	}

	h.cacheStatus(r, order.ID, order.Status)
	payload := orders.OrderStatusChangedPayload{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		DeliveredAt: order.DeliveredAt,
	}
	// notify the order's owner, not the admin driving the transition
	if owner, err := h.Users.ByID(r.Context(), order.UserID); err == nil {
		payload.UserEmail = owner.Email
		payload.UserName = owner.Name
	}
	h.publish(h.StatusChanged, orders.EventOrderStatusChanged, r, order.ID, payload)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order status updated",
	})
	return nil
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) error {
	if err := h.Repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order deleted successfully",
	})
	return nil
}

// cartItems prices the client cart: look up the referenced products, then
// compute the items/tax/shipping/total breakdown.
func (h *OrdersHandler) cartItems(w http.ResponseWriter, r *http.Request) error {
	raw := r.URL.Query().Get("items")
	if raw == "" {
		return apperr.New(apperr.Validation, "CartItems are required")
	}
	var items []orders.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return apperr.New(apperr.Validation, "CartItems are malformed")
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.ProductID != "" {
			ids = append(ids, it.ProductID)
		}
	}
	if len(ids) == 0 {
		return apperr.New(apperr.Validation, "Valid Product IDs are required in CartItems")
	}
	products, err := h.Products.ByIDs(r.Context(), ids)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return apperr.New(apperr.NotFound, "Products not found")
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": products,
		"prices":   orders.PriceCart(products, items),
	})
	return nil
}

func (h *OrdersHandler) cacheStatus(r *http.Request, orderID string, st orders.Status) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = h.Redis.Set(r.Context(), key, statusCacheBody(st), redisx.TTLStatusCache).Err()
}

func statusCacheBody(st orders.Status) string {
	return fmt.Sprintf(`{"status":%q}`, st)
}

func (h *OrdersHandler) publish(p *kafkax.Producer, eventType string, r *http.Request, orderID string, payload any) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
