package confirm_item

import "github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"

// ConfirmItemRequest HTTP request model
// Провайдер передает детали подтверждения своей услуги
type ConfirmItemRequest struct {
	RoomNumber   *string `json:"roomNumber,omitempty"`
	TicketNumber *string `json:"ticketNumber,omitempty"`
	Note         *string `json:"note,omitempty"`
}

// ToDetails конвертирует запрос в детали позиции
func (r *ConfirmItemRequest) ToDetails() domain.ItemDetails {
	return domain.ItemDetails{
		RoomNumber:   r.RoomNumber,
		TicketNumber: r.TicketNumber,
		Note:         r.Note,
	}
}
