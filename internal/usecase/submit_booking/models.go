package submit_booking

import (
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

// ActivityRequest одна запрошенная активность: дата, слот, участники
type ActivityRequest struct {
	ActivityID   int64
	Date         time.Time
	SlotID       string
	Participants int
}

// Request модель запроса на создание составного бронирования
// Каждая категория услуг включается независимым флагом; флаг авторитетен:
// ссылка без флага игнорируется
type Request struct {
	TouristID     int64
	DestinationID *int64
	StartDate     time.Time
	EndDate       time.Time

	IncludeTransport bool
	TransportRouteID *int64

	IncludeHotel bool
	HotelID      *int64

	IncludeActivities bool
	Activities        []ActivityRequest

	Notes *string
}

// BreakdownEntry строка детализации стоимости в ответе
type BreakdownEntry struct {
	ItemType    string
	ReferenceID *int64
	Name        string
	Cost        float64
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID int64
	Status    string
	TotalCost float64
	Breakdown []BreakdownEntry
	CreatedAt time.Time
}

// toResponseBreakdown конвертирует позиции бронирования в детализацию ответа
func toResponseBreakdown(items []*domain.BookingItem) []BreakdownEntry {
	entries := make([]BreakdownEntry, len(items))
	for i, item := range items {
		entries[i] = BreakdownEntry{
			ItemType:    string(item.ItemType),
			ReferenceID: item.ReferenceID,
			Name:        item.Name,
			Cost:        item.Cost,
		}
	}
	return entries
}
