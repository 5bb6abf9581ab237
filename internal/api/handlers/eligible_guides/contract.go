package eligible_guides

import (
	"context"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

type GuideService interface {
	Eligible(ctx context.Context, bookingID int64) ([]*domain.GuideProfile, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
