package expire_bookings

import (
	"context"
	"time"
)

type BookingService interface {
	ExpirePending(ctx context.Context, grace time.Duration) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
