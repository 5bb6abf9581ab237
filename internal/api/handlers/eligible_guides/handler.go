package eligible_guides

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/guides"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/guides/models"
)

const (
	msgInvalidBookingID   = "invalid booking ID"
	msgNotFound           = "booking not found"
	msgNotConfirmed       = "booking is not confirmed"
	msgGuideNotApplicable = "booking does not take a guide"
)

type Handler struct {
	service GuideService
	logger  Logger
}

func NewHandler(service GuideService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/eligible-guides
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/eligible-guides - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.service.Eligible(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, guides.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id}/eligible-guides - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, guides.ErrBookingNotConfirmed):
			h.logger.Warn("GET /bookings/{id}/eligible-guides - Not confirmed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, guides.ErrGuideNotApplicable):
			h.logger.Warn("GET /bookings/{id}/eligible-guides - Guide not applicable: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgGuideNotApplicable)

		default:
			h.logger.Error("GET /bookings/{id}/eligible-guides - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id}/eligible-guides - Guides retrieved: booking_id=%d, count=%d",
		bookingID, len(result))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainList(result))
}
