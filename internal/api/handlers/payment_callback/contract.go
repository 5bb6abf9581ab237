package payment_callback

import "context"

type BookingService interface {
	HandlePaymentConfirmed(ctx context.Context, bookingID int64, paymentID string) error
	HandlePaymentFailed(ctx context.Context, bookingID int64, reason string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
