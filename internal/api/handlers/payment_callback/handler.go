package payment_callback

import (
	"errors"
	"net/http"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidStatus      = "status must be succeeded or failed"
	msgBookingNotFound    = "booking not found"
	msgPaymentConflict    = "payment cannot be applied to the booking"
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

// Handle POST /internal/payments/callback
// Вызывается PaymentService после завершения платежа; идемпотентен
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PaymentCallbackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/callback - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var err error
	switch req.Status {
	case statusSucceeded:
		err = h.service.HandlePaymentConfirmed(r.Context(), req.BookingID, req.PaymentID)
	case statusFailed:
		err = h.service.HandlePaymentFailed(r.Context(), req.BookingID, req.Reason)
	default:
		h.logger.Warn("POST /payments/callback - Invalid status: %q, booking_id=%d", req.Status, req.BookingID)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /payments/callback - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrPaymentConflict):
			h.logger.Warn("POST /payments/callback - Payment conflict: booking_id=%d, status=%s",
				req.BookingID, req.Status)
			handlers.RespondConflict(w, msgPaymentConflict)

		default:
			h.logger.Error("POST /payments/callback - Failed: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/callback - Processed: booking_id=%d, payment_id=%s, status=%s",
		req.BookingID, req.PaymentID, req.Status)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
