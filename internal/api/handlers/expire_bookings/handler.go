package expire_bookings

import (
	"net/http"
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers"
)

type Handler struct {
	service BookingService
	grace   time.Duration
	logger  Logger
}

func NewHandler(service BookingService, grace time.Duration, logger Logger) *Handler {
	return &Handler{
		service: service,
		grace:   grace,
		logger:  logger,
	}
}

// ExpireResponse HTTP response model
type ExpireResponse struct {
	Cancelled int `json:"cancelled"`
}

// Handle POST /internal/bookings/expire
// Служебный эндпоинт: отменяет бронирования с истекшим окном оплаты
// Дублирует фоновый планировщик для ручного запуска
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	cancelled, err := h.service.ExpirePending(r.Context(), h.grace)
	if err != nil {
		h.logger.Error("POST /internal/bookings/expire - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/bookings/expire - Expired %d bookings", cancelled)
	handlers.RespondJSON(w, http.StatusOK, ExpireResponse{Cancelled: cancelled})
}
