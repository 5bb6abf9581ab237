package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusGuideAssigned  BookingStatus = "guide_assigned"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
)

// ItemType represents the kind of service a booking item refers to
type ItemType string

const (
	ItemTypeTransport   ItemType = "transport"
	ItemTypeHotel       ItemType = "hotel"
	ItemTypeActivity    ItemType = "activity"
	ItemTypeTourGuide   ItemType = "tour_guide"
	ItemTypePlaceholder ItemType = "placeholder"
)

// ProviderStatus represents the fulfillment state of a single booking item
type ProviderStatus string

const (
	ProviderPending   ProviderStatus = "pending"
	ProviderConfirmed ProviderStatus = "confirmed"
)

// transitions допустимые переходы статусов бронирования
// Статус меняется только через эту таблицу; cancelled и completed терминальные
var transitions = map[BookingStatus][]BookingStatus{
	StatusPendingPayment: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusGuideAssigned, StatusCompleted, StatusCancelled},
	StatusGuideAssigned:  {StatusCompleted, StatusCancelled},
	StatusCompleted:      {},
	StatusCancelled:      {},
}

// Booking represents a composed trip: a date range plus independently
// optional services (transport, hotel, activities), owned booking items
// and a lifecycle status
type Booking struct {
	ID            int64
	TouristID     int64
	DestinationID *int64 // nil для корзинных бронирований без единого направления
	StartDate     time.Time
	EndDate       time.Time
	Status        BookingStatus
	TotalCost     float64
	Items         []*BookingItem

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransitionTo returns true if the status change is allowed
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the booking reached a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsPaid returns true if the booking passed the payment step
func (b *Booking) IsPaid() bool {
	return b.Status == StatusConfirmed || b.Status == StatusGuideAssigned || b.Status == StatusCompleted
}

// StayDays длительность поездки в днях: ceil((end - start) / 24h), минимум 1
func (b *Booking) StayDays() int {
	return StayDays(b.StartDate, b.EndDate)
}

// GuideItem возвращает позицию tour_guide, если она есть
func (b *Booking) GuideItem() *BookingItem {
	for _, item := range b.Items {
		if item.ItemType == ItemTypeTourGuide {
			return item
		}
	}
	return nil
}

// ActivityItems возвращает все позиции типа activity
func (b *Booking) ActivityItems() []*BookingItem {
	items := make([]*BookingItem, 0)
	for _, item := range b.Items {
		if item.ItemType == ItemTypeActivity {
			items = append(items, item)
		}
	}
	return items
}

// ActivityIDs возвращает идентификаторы активностей бронирования
// Используется фильтром подбора гидов
func (b *Booking) ActivityIDs() []int64 {
	ids := make([]int64, 0)
	for _, item := range b.ActivityItems() {
		if item.ReferenceID != nil {
			ids = append(ids, *item.ReferenceID)
		}
	}
	return ids
}

// AllProvidersConfirmed возвращает true, когда каждая позиция, требующая
// подтверждения провайдера, подтверждена (placeholder не считается)
func (b *Booking) AllProvidersConfirmed() bool {
	for _, item := range b.Items {
		if item.ItemType == ItemTypePlaceholder {
			continue
		}
		if item.ProviderStatus != ProviderConfirmed {
			return false
		}
	}
	return true
}

// NeedsGuide возвращает true, если бронированию положен гид:
// поездка с направлением или хотя бы одной активностью
func (b *Booking) NeedsGuide() bool {
	return b.DestinationID != nil || len(b.ActivityItems()) > 0
}

// BookingItem represents a single service inside a booking
type BookingItem struct {
	ID             int64
	BookingID      int64
	ItemType       ItemType
	ReferenceID    *int64 // id в каталоге: маршрут / отель / активность
	Name           string
	Cost           float64
	Details        ItemDetails
	ProviderStatus ProviderStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemDetails type-specific payload of a booking item, stored as JSONB
// activity: дата, слот, участники, токен резервирования
// tour_guide: id назначенного гида
// hotel/transport: номер комнаты / билет после подтверждения провайдером
type ItemDetails struct {
	Date             *string `json:"date,omitempty"` // YYYY-MM-DD
	SlotID           *string `json:"slotId,omitempty"`
	Participants     *int    `json:"participants,omitempty"`
	ReservationToken *string `json:"reservationToken,omitempty"`
	GuideID          *int64  `json:"guideId,omitempty"`
	RoomNumber       *string `json:"roomNumber,omitempty"`
	TicketNumber     *string `json:"ticketNumber,omitempty"`
	Note             *string `json:"note,omitempty"`
}

// Value реализует driver.Valuer для записи в JSONB колонку
func (d ItemDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan реализует sql.Scanner для чтения из JSONB колонки
func (d *ItemDetails) Scan(src interface{}) error {
	if src == nil {
		*d = ItemDetails{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("domain: cannot scan item details from %T", src)
	}
}

// StayDays длительность в днях между двумя датами: ceil(hours / 24), минимум 1
func StayDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
