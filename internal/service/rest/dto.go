package restsvc

import (
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// orderResponse — представление заказа в HTTP API.
type orderResponse struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
	UserID      int64     `json:"userId"`
	Description string    `json:"description"`
}

type createOrderRequest struct {
	UserID      *int64 `json:"userId"`
	Description string `json:"description"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// searchOrdersRequest — необязательные условия поиска; отсутствующее поле
// не накладывает ограничений.
type searchOrdersRequest struct {
	ID          *int64     `json:"id"`
	Status      *string    `json:"status"`
	UserID      *int64     `json:"userId"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// errorResponse — единый формат ошибок API.
type errorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

func toOrderResponse(order domain.Order) orderResponse {
	return orderResponse{
		ID:          order.ID,
		CreatedAt:   order.CreatedAt,
		Status:      string(order.Status),
		UserID:      order.UserID,
		Description: order.Description,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	return result
}

func (r searchOrdersRequest) toFilter() domain.OrderFilter {
	filter := domain.OrderFilter{
		ID:          r.ID,
		UserID:      r.UserID,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
	if r.Status != nil {
		status := domain.OrderStatus(*r.Status)
		filter.Status = &status
	}
	return filter
}
