package get_availability

import (
	"context"
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetActivity(ctx context.Context, id int64) (*domain.Activity, error)
}

// AvailabilityRepository интерфейс леджера вместимости слотов
type AvailabilityRepository interface {
	Query(ctx context.Context, activityID int64, date time.Time, slotID string) (*domain.SlotAvailability, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
