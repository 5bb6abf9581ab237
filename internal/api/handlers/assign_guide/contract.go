package assign_guide

import (
	"context"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

type GuideService interface {
	Assign(ctx context.Context, bookingID, guideID int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
