package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	getAvailability "github.com/tinnohofficial/SmartTour-BookingEngine/internal/usecase/get_availability"
)

const (
	msgInvalidActivityID    = "invalid activity ID"
	msgInvalidDate          = "invalid date format, expected YYYY-MM-DD"
	msgMissingSlotID        = "slotId query parameter is required"
	msgActivityNotFound     = "activity not found"
	msgSlotNotDefined       = "time slot is not defined for the activity"
	msgActivityNotScheduled = "activity is not scheduled on the requested date"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/activities/{activityId}/availability?date=YYYY-MM-DD&slotId=morning
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	activityID, err := strconv.ParseInt(vars["activityId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /activities/{id}/availability - Invalid activity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /activities/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	slotID := r.URL.Query().Get("slotId")
	if slotID == "" {
		h.logger.Warn("GET /activities/{id}/availability - Missing slot ID")
		handlers.RespondBadRequest(w, msgMissingSlotID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ActivityID: activityID,
		Date:       date,
		SlotID:     slotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrActivityNotFound):
			h.logger.Warn("GET /activities/{id}/availability - Activity not found: activity_id=%d", activityID)
			handlers.RespondNotFound(w, msgActivityNotFound)

		case errors.Is(err, getAvailability.ErrSlotNotDefined):
			h.logger.Warn("GET /activities/{id}/availability - Slot not defined: activity_id=%d, slot=%s",
				activityID, slotID)
			handlers.RespondBadRequest(w, msgSlotNotDefined)

		case errors.Is(err, getAvailability.ErrActivityNotScheduled):
			h.logger.Warn("GET /activities/{id}/availability - Not scheduled: activity_id=%d, date=%s",
				activityID, date.Format(domain.DateFormat))
			handlers.RespondBadRequest(w, msgActivityNotScheduled)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /activities/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidActivityID)

		default:
			h.logger.Error("GET /activities/{id}/availability - Failed: activity_id=%d, error=%v", activityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /activities/{id}/availability - Availability retrieved: activity_id=%d, date=%s, slot=%s, available=%d",
		activityID, result.Date, result.SlotID, result.AvailableSpots)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
