package guides

import (
	"context"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	UpdateItemDetails(ctx context.Context, itemID int64, details domain.ItemDetails) error
}

// GuideRepository интерфейс репозитория профилей гидов
type GuideRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.GuideProfile, error)
	ListCandidates(ctx context.Context, destinationID *int64, activityIDs []int64) ([]*domain.GuideProfile, error)
	Acquire(ctx context.Context, userID int64) error
	Release(ctx context.Context, userID int64) error
	SetAvailability(ctx context.Context, userID int64, available bool) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
