package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinParticipants        = 1
	MaxParticipants        = 50
	MaxTripDays            = 60
	MaxNotesLength         = 500
	MaxCancelReasonLength  = 500
	MaxActivitiesPerTrip   = 20
)

// PlaceholderNote текст placeholder-позиции, когда дополнительные услуги не выбраны
// Гарантирует, что список услуг бронирования никогда не бывает пустым
const PlaceholderNote = "no additional services selected"

// ActiveStatuses статусы, при которых бронирование удерживает свои ресурсы
// (места в слотах активностей и назначенного гида)
var ActiveStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusConfirmed,
	StatusGuideAssigned,
	StatusCompleted,
}
