package get_availability

import getAvailability "github.com/tinnohofficial/SmartTour-BookingEngine/internal/usecase/get_availability"

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ActivityID     int64  `json:"activityId"`
	Date           string `json:"date"`
	SlotID         string `json:"slotId"`
	TotalSpots     int    `json:"totalSpots"`
	BookedSpots    int    `json:"bookedSpots"`
	AvailableSpots int    `json:"availableSpots"`
	Available      bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		ActivityID:     resp.ActivityID,
		Date:           resp.Date,
		SlotID:         resp.SlotID,
		TotalSpots:     resp.TotalSpots,
		BookedSpots:    resp.BookedSpots,
		AvailableSpots: resp.AvailableSpots,
		Available:      resp.Available,
	}
}
