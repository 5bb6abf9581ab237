package get_user_bookings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/middleware"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/bookings/models"
)

const (
	msgInvalidUserID = "invalid user ID"
	msgInvalidStatus = "invalid booking status"
	msgMissingUserID = "missing user ID"
	msgForbidden     = "access denied"
)

// validStatuses допустимые значения фильтра статуса
var validStatuses = map[domain.BookingStatus]bool{
	domain.StatusPendingPayment: true,
	domain.StatusConfirmed:      true,
	domain.StatusGuideAssigned:  true,
	domain.StatusCompleted:      true,
	domain.StatusCancelled:      true,
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	// Турист видит только собственные бронирования
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{userId}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if requesterID != userID {
		h.logger.Warn("GET /users/{userId}/bookings - Access denied: user_id=%d, requester_id=%d",
			userID, requesterID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	// Получаем status из query параметров (опционально)
	var statusPtr *domain.BookingStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.BookingStatus(raw)
		if !validStatuses[status] {
			h.logger.Warn("GET /users/{userId}/bookings - Invalid status: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		statusPtr = &status
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID, statusPtr)
	if err != nil {
		h.logger.Error("GET /users/{userId}/bookings - Failed to get bookings: user_id=%d, error=%v",
			userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{userId}/bookings - Bookings retrieved successfully: user_id=%d, count=%d",
		userID, len(bookings))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainList(bookings))
}
