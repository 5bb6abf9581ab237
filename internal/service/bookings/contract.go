package bookings

import (
	"context"
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/integrations/paymentservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByTouristID(ctx context.Context, touristID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason string) error
	GetItemByID(ctx context.Context, itemID int64) (*domain.BookingItem, error)
	ConfirmItem(ctx context.Context, itemID int64, details domain.ItemDetails) error
}

// AvailabilityRepository интерфейс леджера вместимости слотов
type AvailabilityRepository interface {
	ReleaseByBooking(ctx context.Context, bookingID int64) error
}

// GuideRepository интерфейс репозитория профилей гидов
type GuideRepository interface {
	Release(ctx context.Context, userID int64) error
}

// PaymentServiceClient интерфейс клиента для PaymentService
type PaymentServiceClient interface {
	GetPaymentStatusWithGracefulDegradation(ctx context.Context, bookingID int64) (*paymentservice.PaymentStatus, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
