package pricing

import (
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

// Request запрос на расчет стоимости поездки
// Все справочные записи уже разрешены по каталогу вызывающим слоем;
// флаги Include* авторитетны: услуга без флага не тарифицируется,
// даже если ссылка на нее передана
type Request struct {
	StartDate   time.Time
	EndDate     time.Time
	Destination *domain.Destination // nil для корзинной поездки без направления

	IncludeTransport bool
	Route            *domain.TransportRoute

	IncludeHotel bool
	Hotel        *domain.Hotel

	IncludeActivities bool
	Activities        []ActivityBooking
}

// ActivityBooking одна запрошенная активность с датой, слотом и участниками
type ActivityBooking struct {
	Activity     *domain.Activity
	Date         time.Time
	SlotID       string
	Participants int
}

// BreakdownEntry одна строка детализации стоимости
// Из этих строк композер собирает позиции бронирования
type BreakdownEntry struct {
	ItemType    domain.ItemType
	ReferenceID *int64
	Name        string
	Cost        float64
	Details     domain.ItemDetails
}

// Result итог расчета: общая стоимость и детализация по позициям
type Result struct {
	Total     float64
	Breakdown []BreakdownEntry
}
