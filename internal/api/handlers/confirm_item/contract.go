package confirm_item

import (
	"context"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

type BookingService interface {
	ConfirmItem(ctx context.Context, itemID int64, details domain.ItemDetails) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
