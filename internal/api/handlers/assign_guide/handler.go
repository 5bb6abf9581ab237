package assign_guide

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/bookings/models"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/guides"
)

const (
	msgInvalidBookingID   = "invalid booking ID"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidGuideID     = "invalid guide ID"
	msgBookingNotFound    = "booking not found"
	msgGuideNotFound      = "guide not found"
	msgNotConfirmed       = "booking is not confirmed"
	msgGuideNotApplicable = "booking does not take a guide"
	msgAlreadyAssigned    = "booking already has a guide assigned"
	msgNotEligible        = "guide is not eligible for this booking"
	msgGuideConflict      = "guide was taken by a concurrent assignment"
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

// Handle POST /api/v1/bookings/{bookingId}/assign-guide
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/assign-guide - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req AssignGuideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/assign-guide - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Assign(r.Context(), bookingID, req.GuideID)
	if err != nil {
		switch {
		case errors.Is(err, guides.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/assign-guide - Invalid guide ID: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidGuideID)

		case errors.Is(err, guides.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/assign-guide - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, guides.ErrGuideNotFound):
			h.logger.Warn("POST /bookings/{id}/assign-guide - Guide not found: guide_id=%d", req.GuideID)
			handlers.RespondNotFound(w, msgGuideNotFound)

		case errors.Is(err, guides.ErrBookingNotConfirmed):
			h.logger.Warn("POST /bookings/{id}/assign-guide - Not confirmed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, guides.ErrGuideNotApplicable):
			h.logger.Warn("POST /bookings/{id}/assign-guide - Guide not applicable: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgGuideNotApplicable)

		case errors.Is(err, guides.ErrGuideAlreadyAssigned):
			h.logger.Warn("POST /bookings/{id}/assign-guide - Already assigned: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyAssigned)

		case errors.Is(err, guides.ErrGuideNotEligible):
			h.logger.Warn("POST /bookings/{id}/assign-guide - Not eligible: booking_id=%d, guide_id=%d",
				bookingID, req.GuideID)
			handlers.RespondBadRequest(w, msgNotEligible)

		case errors.Is(err, guides.ErrGuideConflict):
			h.logger.Warn("POST /bookings/{id}/assign-guide - Guide conflict: booking_id=%d, guide_id=%d",
				bookingID, req.GuideID)
			handlers.RespondConflict(w, msgGuideConflict)

		default:
			h.logger.Error("POST /bookings/{id}/assign-guide - Failed: booking_id=%d, guide_id=%d, error=%v",
				bookingID, req.GuideID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/assign-guide - Guide assigned: booking_id=%d, guide_id=%d",
		bookingID, req.GuideID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomain(booking))
}
