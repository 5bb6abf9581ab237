package get_booking

import (
	"context"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

type BookingService interface {
	GetByID(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
