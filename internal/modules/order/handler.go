package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const defaultTimeout = 5 * time.Second

// Handler exposes the admin order endpoints. It is mounted behind the
// RequireAdmin middleware, so every request reaching it is an admin.
type Handler struct {
	service Service
	timeout time.Duration
}

func NewHandler(service Service, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Handler{service: service, timeout: timeout}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.listOrders)       // GET   /admin/orders?status=&search=&limit=
	r.Patch("/orders", h.updateStatus)   // PATCH /admin/orders
	r.Get("/dashboard", h.dashboard)     // GET   /admin/dashboard
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	f := Filter{Search: q.Get("search")}
	if v := q.Get("status"); v != "" {
		if _, ok := ParseStage(v); !ok {
			respond(w, http.StatusBadRequest, map[string]string{"error": "unknown status: " + v})
			return
		}
		f.Status = v
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		f.Limit = n
	}

	orders, err := h.service.ListOrders(ctx, f)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"orders": orders, "count": len(orders)})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.OrderID == "" || req.Status == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "Missing orderId or status"})
		return
	}
	stage, ok := ParseStage(req.Status)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "unknown status: " + req.Status})
		return
	}

	o, err := h.service.UpdateStatus(ctx, req.OrderID, stage)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrIllegalTransition):
			code = http.StatusBadRequest
		case errors.Is(err, ErrOrderNotFound):
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": o})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stats, err := h.service.GetStats(ctx)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	recent, err := h.service.RecentOrders(ctx, 5)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if recent == nil {
		recent = []*Order{}
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"stats":        stats,
		"recentOrders": recent,
		"success":      true,
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
