package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	bookingRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/booking"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/integrations/paymentservice"
)

// Service управляет жизненным циклом бронирования: платежные переходы,
// отмена с компенсацией резерваций, подтверждения провайдеров и
// автозавершение, просрочка неоплаченных бронирований
//
// Все смены статуса идут через условные UPDATE с ожидаемым текущим
// статусом, поэтому конкурирующие переходы не затирают друг друга
type Service struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	guideRepo        GuideRepository
	paymentClient    PaymentServiceClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый сервис жизненного цикла бронирований
func NewService(
	bookingRepository BookingRepository,
	availabilityRepo AvailabilityRepository,
	guideRepo GuideRepository,
	paymentClient PaymentServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:      bookingRepository,
		availabilityRepo: availabilityRepo,
		guideRepo:        guideRepo,
		paymentClient:    paymentClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// GetByID возвращает бронирование по идентификатору
// Турист видит только собственные бронирования
func (s *Service) GetByID(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.TouristID != requesterID {
		s.logger.Warn("GetByID: user id=%d requested foreign booking id=%d", requesterID, bookingID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// GetUserBookings возвращает бронирования туриста, опционально по статусу
func (s *Service) GetUserBookings(ctx context.Context, touristID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	if touristID <= 0 {
		return nil, fmt.Errorf("%w: touristID must be positive", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTouristID(ctx, touristID, status)
	if err != nil {
		s.logger.Error("GetUserBookings: failed to list bookings for user id=%d: %v", touristID, err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	return bookings, nil
}

// Cancel отменяет бронирование и компенсирует удержанные ресурсы:
// освобождает места в слотах и возвращает назначенного гида в пул
//
// Повторная отмена идемпотентна и не трогает ресурсы второй раз
func (s *Service) Cancel(ctx context.Context, bookingID, requesterID int64, reason string) error {
	s.logger.Info("Cancel: booking=%d, user=%d", bookingID, requesterID)

	if len(reason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: reason cannot exceed %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Читаем бронирование с блокировкой строки
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.TouristID != requesterID {
			s.logger.Warn("Cancel: user id=%d requested foreign booking id=%d", requesterID, bookingID)
			return ErrAccessDenied
		}

		// 2. Повторная отмена - no-op
		if booking.IsCancelled() {
			s.logger.Info("Cancel: booking id=%d already cancelled", bookingID)
			return nil
		}

		if booking.Status == domain.StatusCompleted {
			return ErrCannotCancel
		}

		// 3. Условный переход в cancelled
		if err := s.bookingRepo.Cancel(txCtx, bookingID, booking.Status, reason); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				s.logger.Warn("Cancel: concurrent status change for booking id=%d", bookingID)
				return fmt.Errorf("%w: booking status changed concurrently", ErrInternal)
			}
			s.logger.Error("Cancel: failed to cancel booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		// 4. Компенсация: возвращаем места и гида
		return s.releaseResources(txCtx, booking)
	})
}

// HandlePaymentConfirmed обрабатывает успешный платеж:
// переводит бронирование из pending_payment в confirmed
//
// Повторный колбэк по уже оплаченному бронированию идемпотентен
func (s *Service) HandlePaymentConfirmed(ctx context.Context, bookingID int64, paymentID string) error {
	s.logger.Info("HandlePaymentConfirmed: booking=%d, payment=%s", bookingID, paymentID)

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.IsPaid() {
		s.logger.Info("HandlePaymentConfirmed: booking id=%d already paid", bookingID)
		return nil
	}

	if booking.IsCancelled() {
		s.logger.Warn("HandlePaymentConfirmed: booking id=%d is cancelled", bookingID)
		return ErrPaymentConflict
	}

	// Перекрестная проверка с PaymentService; при его недоступности
	// колбэк считается достоверным
	if s.paymentClient != nil {
		status, err := s.paymentClient.GetPaymentStatusWithGracefulDegradation(ctx, bookingID)
		switch {
		case err == nil && !status.Succeeded():
			s.logger.Warn("HandlePaymentConfirmed: payment for booking id=%d is %s, ignoring callback",
				bookingID, status.Status)
			return fmt.Errorf("%w: payment is not succeeded", ErrPaymentConflict)
		case err != nil && !errors.Is(err, paymentservice.ErrServiceDegraded) && !errors.Is(err, paymentservice.ErrPaymentNotFound):
			return fmt.Errorf("%w: failed to verify payment: %v", ErrInternal, err)
		}
	}

	if err := s.bookingRepo.TransitionStatus(ctx, bookingID, domain.StatusPendingPayment, domain.StatusConfirmed); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			// Конкурирующий колбэк успел раньше: перечитываем и решаем
			current, rerr := s.getBooking(ctx, bookingID)
			if rerr != nil {
				return rerr
			}
			if current.IsPaid() {
				return nil
			}
			return ErrPaymentConflict
		}
		s.logger.Error("HandlePaymentConfirmed: failed to confirm booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
	}

	s.logger.Info("HandlePaymentConfirmed: booking id=%d confirmed", bookingID)
	return nil
}

// HandlePaymentFailed обрабатывает неуспешный платеж: отменяет
// бронирование и освобождает удержанные места
func (s *Service) HandlePaymentFailed(ctx context.Context, bookingID int64, reason string) error {
	s.logger.Info("HandlePaymentFailed: booking=%d", bookingID)

	if reason == "" {
		reason = "payment failed"
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, bookingID)
		if err != nil {
			return err
		}

		if booking.IsCancelled() {
			return nil
		}

		if booking.Status != domain.StatusPendingPayment {
			s.logger.Warn("HandlePaymentFailed: booking id=%d is %s, ignoring callback", bookingID, booking.Status)
			return ErrPaymentConflict
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, domain.StatusPendingPayment, reason); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return nil
			}
			s.logger.Error("HandlePaymentFailed: failed to cancel booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		return s.releaseResources(txCtx, booking)
	})
}

// ConfirmItem подтверждает позицию бронирования провайдером услуги
// Когда подтверждена последняя позиция, бронирование автозавершается
//
// Сериализуемая транзакция закрывает гонку двух последних подтверждений
func (s *Service) ConfirmItem(ctx context.Context, itemID int64, details domain.ItemDetails) (*domain.Booking, error) {
	s.logger.Info("ConfirmItem: item=%d", itemID)

	var result *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Читаем позицию
		item, err := s.bookingRepo.GetItemByID(txCtx, itemID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrItemNotFound) {
				return fmt.Errorf("%w: id=%d", ErrItemNotFound, itemID)
			}
			return fmt.Errorf("%w: failed to get item: %v", ErrInternal, err)
		}

		// 2. Placeholder не подтверждается провайдером; позиция гида
		// подтверждается только после назначения
		if item.ItemType == domain.ItemTypePlaceholder {
			return fmt.Errorf("%w: id=%d", ErrItemNotConfirmable, itemID)
		}
		if item.ItemType == domain.ItemTypeTourGuide && item.Details.GuideID == nil {
			return fmt.Errorf("%w: item id=%d has no assigned guide", ErrItemNotConfirmable, itemID)
		}

		if item.ProviderStatus == domain.ProviderConfirmed {
			return fmt.Errorf("%w: id=%d", ErrItemAlreadyConfirmed, itemID)
		}

		// 3. Подтверждать можно только оплаченное незавершенное бронирование
		booking, err := s.getBooking(txCtx, item.BookingID)
		if err != nil {
			return err
		}

		if booking.Status != domain.StatusConfirmed && booking.Status != domain.StatusGuideAssigned {
			s.logger.Warn("ConfirmItem: booking id=%d is %s, item id=%d cannot be confirmed",
				booking.ID, booking.Status, itemID)
			return fmt.Errorf("%w: booking is %s", ErrBookingNotPaid, booking.Status)
		}

		// 4. Сливаем детали провайдера в позицию и подтверждаем условно
		merged := mergeDetails(item.Details, details)
		if err := s.bookingRepo.ConfirmItem(txCtx, itemID, merged); err != nil {
			if errors.Is(err, bookingRepo.ErrItemAlreadyConfirmed) {
				return fmt.Errorf("%w: id=%d", ErrItemAlreadyConfirmed, itemID)
			}
			return fmt.Errorf("%w: failed to confirm item: %v", ErrInternal, err)
		}

		// 5. Перечитываем бронирование; если все позиции подтверждены,
		// автозавершаем
		booking, err = s.getBooking(txCtx, item.BookingID)
		if err != nil {
			return err
		}

		if booking.AllProvidersConfirmed() && booking.CanTransitionTo(domain.StatusCompleted) {
			if err := s.bookingRepo.TransitionStatus(txCtx, booking.ID, booking.Status, domain.StatusCompleted); err != nil {
				if !errors.Is(err, bookingRepo.ErrStatusConflict) {
					return fmt.Errorf("%w: failed to complete booking: %v", ErrInternal, err)
				}
			} else {
				booking.Status = domain.StatusCompleted
				s.logger.Info("ConfirmItem: booking id=%d completed", booking.ID)
			}
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExpirePending отменяет бронирования, не оплаченные за отведенное окно,
// и освобождает удержанные места. Возвращает число отмененных бронирований
func (s *Service) ExpirePending(ctx context.Context, grace time.Duration) (int, error) {
	cutoff := s.timeProvider.Now().Add(-grace)
	s.logger.Info("ExpirePending: cutoff=%s", cutoff.Format(time.RFC3339))

	expired, err := s.bookingRepo.ListExpiredPending(ctx, cutoff)
	if err != nil {
		s.logger.Error("ExpirePending: failed to list expired bookings: %v", err)
		return 0, fmt.Errorf("%w: failed to list expired bookings: %v", ErrInternal, err)
	}

	cancelled := 0
	for _, booking := range expired {
		expiredHere := false
		err := s.txManager.Do(ctx, func(txCtx context.Context) error {
			if err := s.bookingRepo.Cancel(txCtx, booking.ID, domain.StatusPendingPayment, "payment window expired"); err != nil {
				// Конкурирующий платеж или отмена успели раньше
				if errors.Is(err, bookingRepo.ErrStatusConflict) {
					return nil
				}
				return err
			}
			expiredHere = true
			return s.releaseResources(txCtx, booking)
		})
		if err != nil {
			// Транзакция откатилась, отмена не состоялась - не считаем
			s.logger.Error("ExpirePending: failed to expire booking id=%d: %v", booking.ID, err)
			continue
		}
		if expiredHere {
			cancelled++
		}
	}

	if cancelled > 0 {
		s.logger.Info("ExpirePending: cancelled %d expired bookings", cancelled)
	}
	return cancelled, nil
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

// releaseResources освобождает места в слотах и возвращает гида в пул
func (s *Service) releaseResources(ctx context.Context, booking *domain.Booking) error {
	if err := s.availabilityRepo.ReleaseByBooking(ctx, booking.ID); err != nil {
		s.logger.Error("releaseResources: failed to release reservations for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to release reservations: %v", ErrInternal, err)
	}

	if guideItem := booking.GuideItem(); guideItem != nil && guideItem.Details.GuideID != nil {
		if err := s.guideRepo.Release(ctx, *guideItem.Details.GuideID); err != nil {
			s.logger.Error("releaseResources: failed to release guide id=%d for booking id=%d: %v",
				*guideItem.Details.GuideID, booking.ID, err)
			return fmt.Errorf("%w: failed to release guide: %v", ErrInternal, err)
		}
		s.logger.Info("releaseResources: guide id=%d released for booking id=%d",
			*guideItem.Details.GuideID, booking.ID)
	}

	return nil
}

// mergeDetails накладывает детали провайдера поверх существующих деталей
// позиции, не теряя токен резервирования и параметры активности
func mergeDetails(current, update domain.ItemDetails) domain.ItemDetails {
	if update.RoomNumber != nil {
		current.RoomNumber = update.RoomNumber
	}
	if update.TicketNumber != nil {
		current.TicketNumber = update.TicketNumber
	}
	if update.GuideID != nil {
		current.GuideID = update.GuideID
	}
	if update.Note != nil {
		current.Note = update.Note
	}
	return current
}
