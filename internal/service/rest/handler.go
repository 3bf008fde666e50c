// Package restsvc реализует HTTP API сервиса заказов поверх chi.
package restsvc

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
	"github.com/vladislavdragonenkov/orders/internal/service/order"
)

// Handler связывает HTTP-маршруты с сервисом заказов.
type Handler struct {
	svc     *order.Service
	metrics *metrics.OrderMetrics
	logger  *log.Entry
}

// NewHandler конструирует HTTP-обработчик. metrics может быть nil.
func NewHandler(svc *order.Service, m *metrics.OrderMetrics, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "rest")
	}
	return &Handler{svc: svc, metrics: m, logger: logger}
}

// Router собирает маршруты API.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Post("/search", h.searchOrders)
		r.Get("/queue/last", h.readLastFromQueue)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getOrder)
			r.Patch("/status", h.updateStatus)
			r.Delete("/", h.deleteOrder)
		})
	})

	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, r, "malformed request body")
		return
	}

	created, err := h.svc.Create(req.UserID, req.Description)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponse(created))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	found, err := h.svc.GetByID(id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderResponse(found))
}

func (h *Handler) searchOrders(w http.ResponseWriter, r *http.Request) {
	var req searchOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, r, "malformed request body")
		return
	}

	if req.Status != nil && !domain.OrderStatus(*req.Status).IsValid() {
		h.writeDomainError(w, r, domain.NewValidationError("status", "Unknown status: "+*req.Status))
		return
	}

	orders, err := h.svc.Search(req.toFilter())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, r, "malformed request body")
		return
	}

	updated, err := h.svc.UpdateStatus(id, domain.OrderStatus(req.Status))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) readLastFromQueue(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")

	found, err := h.svc.ReadLastFromQueue(topic)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderResponse(found))
}

// orderID извлекает идентификатор заказа из пути.
func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeBadRequest(w, r, "invalid order id: "+raw)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Warn("failed to encode response")
	}
}

// writeDomainError переводит доменные ошибки в HTTP-ответы:
// ValidationError -> 400 с картой полей, ErrOrderNotFound -> 404, иначе 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		h.writeError(w, r, http.StatusBadRequest, "Validation failed", ve.Fields)
		return
	}
	if domain.IsNotFound(err) {
		h.writeError(w, r, http.StatusNotFound, err.Error(), nil)
		return
	}

	h.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	h.writeError(w, r, http.StatusInternalServerError, "internal server error", nil)
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	h.writeError(w, r, http.StatusBadRequest, message, nil)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string, fields map[string]string) {
	h.writeJSON(w, status, errorResponse{
		Timestamp:        time.Now().UTC(),
		Status:           status,
		Error:            http.StatusText(status),
		Message:          message,
		Path:             r.URL.Path,
		ValidationErrors: fields,
	})
}

// instrument записывает длительность запроса в метрики и debug-лог.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		duration := time.Since(start)

		h.metrics.RecordRequestDuration(r.Method, route, strconv.Itoa(ww.Status()), duration)
		h.logger.WithFields(log.Fields{
			"method":   r.Method,
			"route":    route,
			"status":   ww.Status(),
			"duration": duration,
		}).Debug("request handled")
	})
}
