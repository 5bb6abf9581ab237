package submit_booking

import (
	"errors"
	"net/http"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/middleware"
	submitBooking "github.com/tinnohofficial/SmartTour-BookingEngine/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidDate          = "invalid date format, expected YYYY-MM-DD"
	msgMissingUserID        = "missing user ID"
	msgInvalidInput         = "invalid booking request"
	msgNoServiceSelected    = "at least one service must be selected"
	msgDestinationNotFound  = "destination not found"
	msgActivityNotFound     = "activity not found"
	msgRouteNotFound        = "transport route not found"
	msgHotelNotFound        = "hotel not found"
	msgActivityNotScheduled = "activity is not scheduled on the requested date"
	msgSlotNotDefined       = "time slot is not defined for the activity"
	msgSlotFull             = "not enough spots in the selected slot"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	touristID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат)
	useCaseReq, err := req.ToUseCaseRequest(touristID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, submitBooking.ErrNoServiceSelected):
			h.logger.Warn("POST /bookings - No service selected: user_id=%d", touristID)
			handlers.RespondBadRequest(w, msgNoServiceSelected)

		case errors.Is(err, submitBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", touristID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, submitBooking.ErrDestinationNotFound):
			h.logger.Warn("POST /bookings - Destination not found: user_id=%d", touristID)
			handlers.RespondNotFound(w, msgDestinationNotFound)

		case errors.Is(err, submitBooking.ErrActivityNotFound):
			h.logger.Warn("POST /bookings - Activity not found: user_id=%d", touristID)
			handlers.RespondNotFound(w, msgActivityNotFound)

		case errors.Is(err, submitBooking.ErrRouteNotFound):
			h.logger.Warn("POST /bookings - Route not found: user_id=%d", touristID)
			handlers.RespondNotFound(w, msgRouteNotFound)

		case errors.Is(err, submitBooking.ErrHotelNotFound):
			h.logger.Warn("POST /bookings - Hotel not found: user_id=%d", touristID)
			handlers.RespondNotFound(w, msgHotelNotFound)

		case errors.Is(err, submitBooking.ErrSlotNotDefined):
			h.logger.Warn("POST /bookings - Slot not defined: user_id=%d, error=%v", touristID, err)
			handlers.RespondBadRequest(w, msgSlotNotDefined)

		case errors.Is(err, submitBooking.ErrActivityNotScheduled):
			h.logger.Warn("POST /bookings - Activity not scheduled: user_id=%d, error=%v", touristID, err)
			handlers.RespondBadRequest(w, msgActivityNotScheduled)

		case errors.Is(err, submitBooking.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: user_id=%d, error=%v", touristID, err)
			handlers.RespondConflict(w, msgSlotFull)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", touristID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, total=%.2f",
		result.BookingID, touristID, result.TotalCost)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
