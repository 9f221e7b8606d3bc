package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"perfectapi/internal/domain"
	"perfectapi/internal/etag"
	"perfectapi/internal/pagination"
	"perfectapi/internal/service"
)

// OrderHandler serves the /orders endpoints.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// HandleList serves GET /orders. Every order on the page is repriced against
// current product prices before rendering.
func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	filter, err := parseOrderFilter(r)
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	orders := h.orders.List(filter)
	base := requestBase(r)
	items := make([]orderDTO, 0, size)
	for _, o := range pagination.Slice(orders, page, size) {
		priced, total, err := h.orders.Price(o)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		items = append(items, toOrderDTO(o, priced, total, base))
	}
	writeJSON(w, http.StatusOK, collection[orderDTO]{
		Items:    items,
		Page:     page,
		PageSize: size,
		Total:    len(orders),
		Links:    pagination.Build(absoluteURL(r), page, size, len(orders)),
	})
}

type orderItemInput struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

type orderCreateInput struct {
	UserID        string           `json:"user_id"`
	Items         []orderItemInput `json:"items"`
	PaymentMethod string           `json:"payment_method"`
	Notes         string           `json:"notes"`
	Total         *string          `json:"total"`
}

// HandleCreate serves POST /orders. A client-supplied total is verified
// against the recomputed one; a mismatch rejects the order.
func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in orderCreateInput
	if err := readJSON(r, &in); err != nil {
		writeBodyError(w, r, err)
		return
	}
	draft, err := validateOrderDraft(in)
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := h.orders.Create(r.Context(), draft, actorFrom(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	priced, total, err := h.orders.Price(created)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dto := toOrderDTO(created, priced, total, requestBase(r))
	tag, err := etag.Compute(dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/orders/"+created.ID.String())
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusCreated, dto)
}

// HandleGet serves GET /orders/{id} with conditional request support. The
// total reflects current product prices, so the tag changes when a referenced
// product is repriced.
func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	order, err := h.orders.Get(id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	priced, total, err := h.orders.Price(order)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dto := toOrderDTO(order, priced, total, requestBase(r))
	tag, err := etag.Compute(dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("ETag", tag)
	if etag.Match(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

type orderPatchInput struct {
	Status string `json:"status"`
}

// HandlePatch serves PATCH /orders/{id}. Only the status is mutable, and any
// of the four values is accepted regardless of the current one.
func (h *OrderHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var in orderPatchInput
	if err := readJSON(r, &in); err != nil {
		writeBodyError(w, r, err)
		return
	}
	status := domain.OrderStatus(in.Status)
	if !domain.ValidOrderStatus(status) {
		writeProblem(w, r, http.StatusUnprocessableEntity, "status: must be one of new, paid, shipped, cancelled")
		return
	}

	updated, err := h.orders.UpdateStatus(r.Context(), id, status, actorFrom(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	priced, total, err := h.orders.Price(updated)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dto := toOrderDTO(updated, priced, total, requestBase(r))
	tag, err := etag.Compute(dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusOK, dto)
}

// HandleDelete serves DELETE /orders/{id}.
func (h *OrderHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if err := h.orders.Delete(r.Context(), id, actorFrom(r)); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateOrderDraft(in orderCreateInput) (service.OrderDraft, error) {
	userID, err := uuid.Parse(in.UserID)
	if err != nil {
		return service.OrderDraft{}, fmt.Errorf("user_id: must be a valid UUID")
	}
	if len(in.Items) < 1 || len(in.Items) > 50 {
		return service.OrderDraft{}, fmt.Errorf("items: must contain between 1 and 50 entries")
	}
	items := make([]domain.OrderItem, 0, len(in.Items))
	seen := make(map[int64]bool, len(in.Items))
	for _, item := range in.Items {
		if item.ProductID < 1 {
			return service.OrderDraft{}, fmt.Errorf("items.product_id: must be a positive integer")
		}
		if item.Qty < 1 || item.Qty > 100 {
			return service.OrderDraft{}, fmt.Errorf("items.qty: must be between 1 and 100")
		}
		if seen[item.ProductID] {
			return service.OrderDraft{}, fmt.Errorf("items: duplicate products are not allowed in a single order")
		}
		seen[item.ProductID] = true
		items = append(items, domain.OrderItem{ProductID: item.ProductID, Qty: item.Qty})
	}
	method := domain.PaymentMethod(in.PaymentMethod)
	if !domain.ValidPaymentMethod(method) {
		return service.OrderDraft{}, fmt.Errorf("payment_method: must be one of card, paypal")
	}
	if len(in.Notes) > 500 {
		return service.OrderDraft{}, fmt.Errorf("notes: must be at most 500 characters")
	}

	draft := service.OrderDraft{
		UserID:        userID,
		Items:         items,
		PaymentMethod: method,
		Notes:         in.Notes,
	}
	if in.Total != nil {
		total, err := decimal.NewFromString(*in.Total)
		if err != nil {
			return service.OrderDraft{}, fmt.Errorf("total: must be a decimal number")
		}
		draft.ExpectedTotal = &total
	}
	return draft, nil
}

func parseOrderFilter(r *http.Request) (service.OrderFilter, error) {
	q := r.URL.Query()
	var filter service.OrderFilter

	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return service.OrderFilter{}, fmt.Errorf("user_id: must be a valid UUID")
		}
		filter.UserID = &id
	}
	if raw := q.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return service.OrderFilter{}, fmt.Errorf("since: must be an RFC 3339 timestamp")
		}
		filter.Since = &t
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		if !domain.ValidOrderStatus(status) {
			return service.OrderFilter{}, fmt.Errorf("status: must be one of new, paid, shipped, cancelled")
		}
		filter.Status = &status
	}
	return filter, nil
}
