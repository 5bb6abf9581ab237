package update_guide_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/handlers"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/api/middleware"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/guides"
)

const (
	msgInvalidGuideID     = "invalid guide ID"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user ID"
	msgForbidden          = "access denied"
	msgGuideNotFound      = "guide not found"
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

// Handle PUT /api/v1/guides/{guideId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	guideID, err := strconv.ParseInt(vars["guideId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /guides/{id}/availability - Invalid guide ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGuideID)
		return
	}

	// Гид управляет только собственной доступностью
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /guides/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if userID != guideID {
		h.logger.Warn("PUT /guides/{id}/availability - Access denied: guide_id=%d, user_id=%d", guideID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /guides/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.SetAvailability(r.Context(), guideID, req.Available); err != nil {
		switch {
		case errors.Is(err, guides.ErrGuideNotFound):
			h.logger.Warn("PUT /guides/{id}/availability - Guide not found: guide_id=%d", guideID)
			handlers.RespondNotFound(w, msgGuideNotFound)

		case errors.Is(err, guides.ErrInvalidInput):
			h.logger.Warn("PUT /guides/{id}/availability - Invalid input: guide_id=%d", guideID)
			handlers.RespondBadRequest(w, msgInvalidGuideID)

		default:
			h.logger.Error("PUT /guides/{id}/availability - Failed: guide_id=%d, error=%v", guideID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /guides/{id}/availability - Availability updated: guide_id=%d, available=%t",
		guideID, req.Available)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
