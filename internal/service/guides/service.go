package guides

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	bookingRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/booking"
	guideRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/guide"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/ptr"
)

// Service подбирает и назначает гидов на оплаченные бронирования
//
// Назначение атомарно: флаг доступности гида снимается условным UPDATE,
// поэтому из двух конкурирующих назначений одного гида выигрывает ровно
// одно, а второе получает ErrGuideConflict
type Service struct {
	bookingRepo BookingRepository
	guideRepo   GuideRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый сервис подбора гидов
func NewService(bookingRepository BookingRepository, guideRepository GuideRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepository,
		guideRepo:   guideRepository,
		txManager:   txManager,
		logger:      logger,
	}
}

// Eligible возвращает гидов, подходящих бронированию: свободных и
// совпадающих по направлению или хотя бы одной активности
// Список отсортирован по идентификатору гида
func (s *Service) Eligible(ctx context.Context, bookingID int64) ([]*domain.GuideProfile, error) {
	s.logger.Info("Eligible: booking=%d", bookingID)

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkBookingTakesGuide(booking); err != nil {
		return nil, err
	}

	candidates, err := s.guideRepo.ListCandidates(ctx, booking.DestinationID, booking.ActivityIDs())
	if err != nil {
		s.logger.Error("Eligible: failed to list candidates for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to list candidates: %v", ErrInternal, err)
	}

	s.logger.Info("Eligible: booking id=%d has %d candidate guides", bookingID, len(candidates))
	return candidates, nil
}

// Assign назначает гида на бронирование
// Гид захватывается условно; бронирование переходит в guide_assigned
func (s *Service) Assign(ctx context.Context, bookingID, guideID int64) (*domain.Booking, error) {
	s.logger.Info("Assign: booking=%d, guide=%d", bookingID, guideID)

	if guideID <= 0 {
		return nil, fmt.Errorf("%w: guideId must be positive", ErrInvalidInput)
	}

	var result *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Читаем бронирование и проверяем, что ему положен гид
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		if err := s.checkBookingTakesGuide(booking); err != nil {
			return err
		}

		guideItem := booking.GuideItem()
		if guideItem == nil {
			return fmt.Errorf("%w: booking id=%d has no guide item", ErrGuideNotApplicable, bookingID)
		}
		if guideItem.Details.GuideID != nil {
			s.logger.Warn("Assign: booking id=%d already has guide id=%d", bookingID, *guideItem.Details.GuideID)
			return fmt.Errorf("%w: guide id=%d", ErrGuideAlreadyAssigned, *guideItem.Details.GuideID)
		}

		// 2. Проверяем профиль гида на соответствие бронированию
		guide, err := s.guideRepo.GetByUserID(txCtx, guideID)
		if err != nil {
			if errors.Is(err, guideRepo.ErrGuideNotFound) {
				return fmt.Errorf("%w: id=%d", ErrGuideNotFound, guideID)
			}
			s.logger.Error("Assign: failed to get guide id=%d: %v", guideID, err)
			return fmt.Errorf("%w: failed to get guide: %v", ErrInternal, err)
		}

		if !guide.EligibleFor(booking.DestinationID, booking.ActivityIDs()) {
			s.logger.Warn("Assign: guide id=%d is not eligible for booking id=%d", guideID, bookingID)
			return fmt.Errorf("%w: guide id=%d", ErrGuideNotEligible, guideID)
		}

		// 3. Условный захват гида; проигравшее назначение получает конфликт
		if err := s.guideRepo.Acquire(txCtx, guideID); err != nil {
			if errors.Is(err, guideRepo.ErrGuideUnavailable) {
				s.logger.Warn("Assign: guide id=%d was taken concurrently", guideID)
				return fmt.Errorf("%w: guide id=%d", ErrGuideConflict, guideID)
			}
			s.logger.Error("Assign: failed to acquire guide id=%d: %v", guideID, err)
			return fmt.Errorf("%w: failed to acquire guide: %v", ErrInternal, err)
		}

		// 4. Записываем гида в позицию tour_guide
		details := guideItem.Details
		details.GuideID = ptr.Ptr(guideID)
		if err := s.bookingRepo.UpdateItemDetails(txCtx, guideItem.ID, details); err != nil {
			s.logger.Error("Assign: failed to update guide item id=%d: %v", guideItem.ID, err)
			return fmt.Errorf("%w: failed to update guide item: %v", ErrInternal, err)
		}

		// 5. Переводим бронирование в guide_assigned
		if err := s.bookingRepo.TransitionStatus(txCtx, bookingID, domain.StatusConfirmed, domain.StatusGuideAssigned); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return fmt.Errorf("%w: booking status changed concurrently", ErrGuideConflict)
			}
			s.logger.Error("Assign: failed to transition booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: failed to transition booking: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusGuideAssigned
		guideItem.Details = details
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assign: guide id=%d assigned to booking id=%d", guideID, bookingID)
	return result, nil
}

// SetAvailability выставляет флаг доступности гида
// Гид с активным назначением не может вернуть себе доступность этим путем:
// флаг возвращается только освобождением при отмене бронирования
func (s *Service) SetAvailability(ctx context.Context, guideID int64, available bool) error {
	if guideID <= 0 {
		return fmt.Errorf("%w: guideId must be positive", ErrInvalidInput)
	}

	if err := s.guideRepo.SetAvailability(ctx, guideID, available); err != nil {
		if errors.Is(err, guideRepo.ErrGuideNotFound) {
			return fmt.Errorf("%w: id=%d", ErrGuideNotFound, guideID)
		}
		s.logger.Error("SetAvailability: failed for guide id=%d: %v", guideID, err)
		return fmt.Errorf("%w: failed to set availability: %v", ErrInternal, err)
	}

	s.logger.Info("SetAvailability: guide id=%d available=%t", guideID, available)
	return nil
}

// getBooking читает бронирование, маппя ошибки репозитория на сервисные
func (s *Service) getBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrBookingNotFound, bookingID)
		}
		s.logger.Error("getBooking: failed to get booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkBookingTakesGuide проверяет, что бронирование оплачено и что ему
// вообще положен гид
func (s *Service) checkBookingTakesGuide(booking *domain.Booking) error {
	if booking.Status != domain.StatusConfirmed && booking.Status != domain.StatusGuideAssigned {
		return fmt.Errorf("%w: booking is %s", ErrBookingNotConfirmed, booking.Status)
	}
	if !booking.NeedsGuide() {
		return fmt.Errorf("%w: id=%d", ErrGuideNotApplicable, booking.ID)
	}
	return nil
}
