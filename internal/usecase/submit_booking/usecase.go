package submit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	availabilityRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/availability"
	catalogRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/catalog"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/service/pricing"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/ptr"
)

// UseCase use case для создания составного бронирования
//
// Места в слотах резервируются до записи бронирования: каждая резервация
// атомарна сама по себе, а при любой последующей ошибке уже взятые
// резервации компенсируются освобождением. Многоключевая транзакция
// поверх леджера вместимости не требуется
type UseCase struct {
	catalogRepo      CatalogRepository
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	pricing          PricingCalculator
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	pricingCalc PricingCalculator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:      catalogRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		pricing:          pricingCalc,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// reservedSlot одна взятая резервация, кандидат на компенсацию
type reservedSlot struct {
	token    string
	activity *domain.Activity
	request  ActivityRequest
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: tourist=%d, start=%s, end=%s, transport=%t, hotel=%t, activities=%d",
		req.TouristID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat),
		req.IncludeTransport, req.IncludeHotel, len(req.Activities))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что поездка не начинается в прошлом
	now := uc.timeProvider.Now()
	if err := validateStartDate(req.StartDate, now); err != nil {
		uc.logger.Warn("SubmitBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Разрешаем направление по каталогу
	var destination *domain.Destination
	if req.DestinationID != nil {
		var err error
		destination, err = uc.catalogRepo.GetDestination(ctx, *req.DestinationID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrDestinationNotFound) {
				uc.logger.Warn("SubmitBooking: destination id=%d not found", *req.DestinationID)
				return nil, fmt.Errorf("%w: id=%d", ErrDestinationNotFound, *req.DestinationID)
			}
			uc.logger.Error("SubmitBooking: failed to get destination id=%d: %v", *req.DestinationID, err)
			return nil, fmt.Errorf("%w: failed to get destination: %v", ErrInternal, err)
		}
	}

	// 4. Разрешаем транспортный маршрут
	var route *domain.TransportRoute
	if req.IncludeTransport {
		var err error
		route, err = uc.catalogRepo.GetTransportRoute(ctx, *req.TransportRouteID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrRouteNotFound) {
				uc.logger.Warn("SubmitBooking: route id=%d not found", *req.TransportRouteID)
				return nil, fmt.Errorf("%w: id=%d", ErrRouteNotFound, *req.TransportRouteID)
			}
			uc.logger.Error("SubmitBooking: failed to get route id=%d: %v", *req.TransportRouteID, err)
			return nil, fmt.Errorf("%w: failed to get route: %v", ErrInternal, err)
		}
	}

	// 5. Разрешаем отель
	var hotel *domain.Hotel
	if req.IncludeHotel {
		var err error
		hotel, err = uc.catalogRepo.GetHotel(ctx, *req.HotelID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrHotelNotFound) {
				uc.logger.Warn("SubmitBooking: hotel id=%d not found", *req.HotelID)
				return nil, fmt.Errorf("%w: id=%d", ErrHotelNotFound, *req.HotelID)
			}
			uc.logger.Error("SubmitBooking: failed to get hotel id=%d: %v", *req.HotelID, err)
			return nil, fmt.Errorf("%w: failed to get hotel: %v", ErrInternal, err)
		}
	}

	// 6. Разрешаем активности и проверяем их расписание
	activities := make([]*domain.Activity, 0, len(req.Activities))
	if req.IncludeActivities {
		for _, ar := range req.Activities {
			activity, err := uc.catalogRepo.GetActivity(ctx, ar.ActivityID)
			if err != nil {
				if errors.Is(err, catalogRepo.ErrActivityNotFound) {
					uc.logger.Warn("SubmitBooking: activity id=%d not found", ar.ActivityID)
					return nil, fmt.Errorf("%w: id=%d", ErrActivityNotFound, ar.ActivityID)
				}
				uc.logger.Error("SubmitBooking: failed to get activity id=%d: %v", ar.ActivityID, err)
				return nil, fmt.Errorf("%w: failed to get activity: %v", ErrInternal, err)
			}

			if req.DestinationID != nil && activity.DestinationID != *req.DestinationID {
				uc.logger.Warn("SubmitBooking: activity id=%d does not belong to destination id=%d",
					activity.ID, *req.DestinationID)
				return nil, fmt.Errorf("%w: activity id=%d does not belong to destination id=%d",
					ErrInvalidInput, activity.ID, *req.DestinationID)
			}

			if err := validateActivitySchedule(activity, ar.Date, ar.SlotID); err != nil {
				uc.logger.Warn("SubmitBooking: schedule validation failed: %v", err)
				return nil, err
			}

			activities = append(activities, activity)
		}
	}

	// 7. Резервируем места в слотах; при отказе компенсируем уже взятые
	reserved, err := uc.reserveSlots(ctx, req.Activities, activities)
	if err != nil {
		return nil, err
	}

	// 8. Считаем стоимость поездки
	result, err := uc.calculatePrice(ctx, req, destination, route, hotel, activities)
	if err != nil {
		uc.releaseReserved(ctx, reserved)
		return nil, err
	}

	// 9. Собираем бронирование из детализации стоимости
	booking := uc.buildBooking(req, result, reserved)

	// 10. Записываем бронирование и привязываем к нему резервации
	var created *domain.Booking
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = uc.bookingRepo.Create(txCtx, booking)
		if txErr != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, txErr)
		}

		tokens := make([]string, 0, len(reserved))
		for _, r := range reserved {
			tokens = append(tokens, r.token)
		}
		if len(tokens) > 0 {
			if txErr = uc.availabilityRepo.AttachBooking(txCtx, tokens, created.ID); txErr != nil {
				return fmt.Errorf("%w: failed to attach reservations: %v", ErrInternal, txErr)
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to persist booking: %v", err)
		uc.releaseReserved(ctx, reserved)
		return nil, err
	}

	uc.logger.Info("SubmitBooking: created booking id=%d, total=%.2f, items=%d",
		created.ID, created.TotalCost, len(created.Items))

	return &Response{
		BookingID: created.ID,
		Status:    string(created.Status),
		TotalCost: created.TotalCost,
		Breakdown: toResponseBreakdown(created.Items),
		CreatedAt: created.CreatedAt,
	}, nil
}

// reserveSlots берет резервацию на каждую запрошенную активность
// При нехватке мест в любом слоте все уже взятые резервации освобождаются
// и возвращается ошибка, называющая активность, дату и слот
func (uc *UseCase) reserveSlots(ctx context.Context, requests []ActivityRequest, activities []*domain.Activity) ([]reservedSlot, error) {
	reserved := make([]reservedSlot, 0, len(activities))

	for i, activity := range activities {
		ar := requests[i]
		slot, _ := activity.Slot(ar.SlotID)

		token, err := uc.availabilityRepo.Reserve(ctx, activity.ID, ar.Date, ar.SlotID, ar.Participants, slot.MaxParticipants)
		if err != nil {
			uc.releaseReserved(ctx, reserved)

			if errors.Is(err, availabilityRepo.ErrSlotFull) {
				uc.logger.Warn("SubmitBooking: slot full: activity=%d, date=%s, slot=%s, requested=%d",
					activity.ID, ar.Date.Format(domain.DateFormat), ar.SlotID, ar.Participants)
				return nil, fmt.Errorf("%w: activity id=%d, date=%s, slot=%s",
					ErrSlotFull, activity.ID, ar.Date.Format(domain.DateFormat), ar.SlotID)
			}

			uc.logger.Error("SubmitBooking: failed to reserve slot: %v", err)
			return nil, fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		reserved = append(reserved, reservedSlot{token: token, activity: activity, request: ar})
	}

	return reserved, nil
}

// releaseReserved компенсирующе освобождает взятые резервации
// Ошибки освобождения логируются и не прерывают компенсацию
func (uc *UseCase) releaseReserved(ctx context.Context, reserved []reservedSlot) {
	for _, r := range reserved {
		if err := uc.availabilityRepo.Release(ctx, r.token); err != nil {
			uc.logger.Error("SubmitBooking: failed to release reservation token=%s: %v", r.token, err)
		}
	}
}

// calculatePrice считает стоимость поездки через калькулятор
func (uc *UseCase) calculatePrice(
	_ context.Context,
	req *Request,
	destination *domain.Destination,
	route *domain.TransportRoute,
	hotel *domain.Hotel,
	activities []*domain.Activity,
) (*pricing.Result, error) {
	priceReq := &pricing.Request{
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Destination:       destination,
		IncludeTransport:  req.IncludeTransport,
		Route:             route,
		IncludeHotel:      req.IncludeHotel,
		Hotel:             hotel,
		IncludeActivities: req.IncludeActivities,
		Activities:        make([]pricing.ActivityBooking, 0, len(activities)),
	}

	for i, activity := range activities {
		ar := req.Activities[i]
		priceReq.Activities = append(priceReq.Activities, pricing.ActivityBooking{
			Activity:     activity,
			Date:         ar.Date,
			SlotID:       ar.SlotID,
			Participants: ar.Participants,
		})
	}

	result, err := uc.pricing.Calculate(priceReq)
	if err != nil {
		uc.logger.Error("SubmitBooking: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
	}
	return result, nil
}

// buildBooking собирает доменное бронирование из детализации стоимости
// Позиции активностей сразу подтверждены провайдером: места уже удержаны
// леджером. Транспорт и отель ждут подтверждения провайдера
func (uc *UseCase) buildBooking(req *Request, result *pricing.Result, reserved []reservedSlot) *domain.Booking {
	items := make([]*domain.BookingItem, 0, len(result.Breakdown)+1)
	tokenIdx := 0

	for _, entry := range result.Breakdown {
		item := &domain.BookingItem{
			ItemType:       entry.ItemType,
			ReferenceID:    entry.ReferenceID,
			Name:           entry.Name,
			Cost:           entry.Cost,
			Details:        entry.Details,
			ProviderStatus: domain.ProviderPending,
		}

		switch entry.ItemType {
		case domain.ItemTypeActivity:
			if tokenIdx < len(reserved) {
				item.Details.ReservationToken = ptr.Ptr(reserved[tokenIdx].token)
				tokenIdx++
			}
			item.ProviderStatus = domain.ProviderConfirmed
		case domain.ItemTypePlaceholder:
			item.ProviderStatus = domain.ProviderConfirmed
		}

		items = append(items, item)
	}

	booking := &domain.Booking{
		TouristID:     req.TouristID,
		DestinationID: req.DestinationID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        domain.StatusPendingPayment,
		TotalCost:     result.Total,
		Items:         items,
	}

	// Поездке с направлением или активностями положен гид; позиция
	// заполняется при назначении и подтверждается самим гидом
	if booking.NeedsGuide() {
		booking.Items = append(booking.Items, &domain.BookingItem{
			ItemType:       domain.ItemTypeTourGuide,
			Name:           "Tour guide",
			Cost:           0,
			ProviderStatus: domain.ProviderPending,
		})
	}

	if req.Notes != nil && len(booking.Items) > 0 {
		// Заметки туриста сохраняются в деталях первой позиции
		for _, item := range booking.Items {
			if item.ItemType == domain.ItemTypePlaceholder {
				continue
			}
			if item.Details.Note == nil {
				item.Details.Note = req.Notes
			}
			break
		}
	}

	return booking
}
