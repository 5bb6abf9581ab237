package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	availabilityRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/availability"
	catalogRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/catalog"
)

// UseCase use case для запроса доступности слота активности
type UseCase struct {
	catalogRepo      CatalogRepository
	availabilityRepo AvailabilityRepository
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(catalogRepo CatalogRepository, availabilityRepo AvailabilityRepository, logger Logger) *UseCase {
	return &UseCase{
		catalogRepo:      catalogRepo,
		availabilityRepo: availabilityRepo,
		logger:           logger,
	}
}

// Execute выполняет use case запроса доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: activity=%d, date=%s, slot=%s",
		req.ActivityID, req.Date.Format(domain.DateFormat), req.SlotID)

	// 1. Валидация входных данных
	if req.ActivityID <= 0 {
		return nil, fmt.Errorf("%w: activityId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.SlotID == "" {
		return nil, fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}

	// 2. Получаем активность из каталога
	activity, err := uc.catalogRepo.GetActivity(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrActivityNotFound) {
			uc.logger.Warn("GetAvailability: activity id=%d not found", req.ActivityID)
			return nil, fmt.Errorf("%w: id=%d", ErrActivityNotFound, req.ActivityID)
		}
		uc.logger.Error("GetAvailability: failed to get activity id=%d: %v", req.ActivityID, err)
		return nil, fmt.Errorf("%w: failed to get activity: %v", ErrInternal, err)
	}

	// 3. Проверяем, что слот определен и включен на дату
	slot, ok := activity.Slot(req.SlotID)
	if !ok {
		uc.logger.Warn("GetAvailability: activity id=%d has no slot %q", req.ActivityID, req.SlotID)
		return nil, fmt.Errorf("%w: activity id=%d has no slot %q", ErrSlotNotDefined, req.ActivityID, req.SlotID)
	}

	if !activity.SlotEnabledOn(req.Date, req.SlotID) {
		uc.logger.Warn("GetAvailability: slot %q of activity id=%d is not available on %s",
			req.SlotID, req.ActivityID, req.Date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: slot %q is not available on %s",
			ErrActivityNotScheduled, req.SlotID, req.Date.Format(domain.DateFormat))
	}

	// 4. Читаем леджер; отсутствие записи означает, что слот еще никто
	// не бронировал и все места свободны
	booked := 0
	availability, err := uc.availabilityRepo.Query(ctx, req.ActivityID, req.Date, req.SlotID)
	if err != nil && !errors.Is(err, availabilityRepo.ErrRecordNotFound) {
		uc.logger.Error("GetAvailability: failed to query ledger: %v", err)
		return nil, fmt.Errorf("%w: failed to query ledger: %v", ErrInternal, err)
	}
	if availability != nil {
		booked = availability.BookedParticipants
	}

	available := slot.MaxParticipants - booked
	if available < 0 {
		available = 0
	}

	return &Response{
		ActivityID:     req.ActivityID,
		Date:           req.Date.Format(domain.DateFormat),
		SlotID:         req.SlotID,
		TotalSpots:     slot.MaxParticipants,
		BookedSpots:    booked,
		AvailableSpots: available,
		Available:      available > 0,
	}, nil
}
