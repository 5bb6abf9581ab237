package submit_booking

import (
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	submitBooking "github.com/tinnohofficial/SmartTour-BookingEngine/internal/usecase/submit_booking"
)

// ActivityRequest одна запрошенная активность в HTTP запросе
type ActivityRequest struct {
	ActivityID   int64  `json:"activityId"`
	Date         string `json:"date"` // "2026-09-15"
	SlotID       string `json:"slotId"`
	Participants int    `json:"participants"`
}

// SubmitBookingRequest HTTP request model
type SubmitBookingRequest struct {
	DestinationID     *int64            `json:"destinationId,omitempty"`
	StartDate         string            `json:"startDate"` // "2026-09-15"
	EndDate           string            `json:"endDate"`
	IncludeTransport  bool              `json:"includeTransport"`
	TransportRouteID  *int64            `json:"transportRouteId,omitempty"`
	IncludeHotel      bool              `json:"includeHotel"`
	HotelID           *int64            `json:"hotelId,omitempty"`
	IncludeActivities bool              `json:"includeActivities"`
	Activities        []ActivityRequest `json:"activities,omitempty"`
	Notes             *string           `json:"notes,omitempty"`
}

// BreakdownEntryResponse строка детализации стоимости в HTTP ответе
type BreakdownEntryResponse struct {
	ItemType    string  `json:"itemType"`
	ReferenceID *int64  `json:"referenceId,omitempty"`
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
}

// SubmitBookingResponse HTTP response model
type SubmitBookingResponse struct {
	BookingID int64                    `json:"bookingId"`
	Status    string                   `json:"status"`
	TotalCost float64                  `json:"totalCost"`
	Breakdown []BreakdownEntryResponse `json:"breakdown"`
	CreatedAt string                   `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitBookingRequest) ToUseCaseRequest(touristID int64) (*submitBooking.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	activities := make([]submitBooking.ActivityRequest, 0, len(r.Activities))
	for _, a := range r.Activities {
		date, err := time.Parse(domain.DateFormat, a.Date)
		if err != nil {
			return nil, err
		}
		activities = append(activities, submitBooking.ActivityRequest{
			ActivityID:   a.ActivityID,
			Date:         date,
			SlotID:       a.SlotID,
			Participants: a.Participants,
		})
	}

	return &submitBooking.Request{
		TouristID:         touristID,
		DestinationID:     r.DestinationID,
		StartDate:         startDate,
		EndDate:           endDate,
		IncludeTransport:  r.IncludeTransport,
		TransportRouteID:  r.TransportRouteID,
		IncludeHotel:      r.IncludeHotel,
		HotelID:           r.HotelID,
		IncludeActivities: r.IncludeActivities,
		Activities:        activities,
		Notes:             r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitBooking.Response) *SubmitBookingResponse {
	breakdown := make([]BreakdownEntryResponse, len(resp.Breakdown))
	for i, entry := range resp.Breakdown {
		breakdown[i] = BreakdownEntryResponse{
			ItemType:    entry.ItemType,
			ReferenceID: entry.ReferenceID,
			Name:        entry.Name,
			Cost:        entry.Cost,
		}
	}

	return &SubmitBookingResponse{
		BookingID: resp.BookingID,
		Status:    resp.Status,
		TotalCost: resp.TotalCost,
		Breakdown: breakdown,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
	}
}
