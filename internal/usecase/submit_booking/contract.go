package submit_booking

import (
	"context"
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/pricing"
)

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetDestination(ctx context.Context, id int64) (*domain.Destination, error)
	GetActivity(ctx context.Context, id int64) (*domain.Activity, error)
	GetTransportRoute(ctx context.Context, id int64) (*domain.TransportRoute, error)
	GetHotel(ctx context.Context, id int64) (*domain.Hotel, error)
}

// AvailabilityRepository интерфейс леджера вместимости слотов
type AvailabilityRepository interface {
	Reserve(ctx context.Context, activityID int64, date time.Time, slotID string, participants, maxParticipants int) (string, error)
	Release(ctx context.Context, token string) error
	AttachBooking(ctx context.Context, tokens []string, bookingID int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// PricingCalculator интерфейс калькулятора стоимости поездки
type PricingCalculator interface {
	Calculate(req *pricing.Request) (*pricing.Result, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
