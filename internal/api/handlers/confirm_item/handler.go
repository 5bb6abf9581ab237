package confirm_item

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/bookings"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/bookings/models"
)

const (
	msgInvalidItemID      = "invalid booking item ID"
	msgInvalidRequestBody = "invalid request body"
	msgItemNotFound       = "booking item not found"
	msgNotConfirmable     = "item does not require provider confirmation"
	msgAlreadyConfirmed   = "item already confirmed"
	msgBookingNotPaid     = "booking is not paid"
)

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

// Handle POST /api/v1/booking-items/{itemId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	itemID, err := strconv.ParseInt(vars["itemId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /booking-items/{id}/confirm - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	// Тело опционально: подтверждение без деталей допустимо
	var req ConfirmItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /booking-items/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.ConfirmItem(r.Context(), itemID, req.ToDetails())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrItemNotFound):
			h.logger.Warn("POST /booking-items/{id}/confirm - Item not found: item_id=%d", itemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, bookings.ErrItemNotConfirmable):
			h.logger.Warn("POST /booking-items/{id}/confirm - Not confirmable: item_id=%d", itemID)
			handlers.RespondBadRequest(w, msgNotConfirmable)

		case errors.Is(err, bookings.ErrItemAlreadyConfirmed):
			h.logger.Warn("POST /booking-items/{id}/confirm - Already confirmed: item_id=%d", itemID)
			handlers.RespondConflict(w, msgAlreadyConfirmed)

		case errors.Is(err, bookings.ErrBookingNotPaid):
			h.logger.Warn("POST /booking-items/{id}/confirm - Booking not paid: item_id=%d", itemID)
			handlers.RespondConflict(w, msgBookingNotPaid)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /booking-items/{id}/confirm - Booking not found: item_id=%d", itemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		default:
			h.logger.Error("POST /booking-items/{id}/confirm - Failed: item_id=%d, error=%v", itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-items/{id}/confirm - Item confirmed: item_id=%d, booking_id=%d, booking_status=%s",
		itemID, booking.ID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomain(booking))
}
