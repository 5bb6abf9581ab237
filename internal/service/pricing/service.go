package pricing

import (
	"fmt"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/ptr"
)

// Service калькулятор стоимости поездки
//
// Правила тарификации:
//   - дневная ставка направления масштабируется длиной поездки в днях
//     (ceil((end - start) / 24h), минимум 1)
//   - транспорт — фиксированная стоимость маршрута
//   - отель — ночи x ставка за ночь (ночи = дни поездки)
//   - активности — цена за участника x число участников
//
// Если тарифицируемых услуг нет, детализация все равно не пустая:
// добавляется placeholder-строка, чтобы список услуг бронирования
// никогда не был пустым или неоднозначным
type Service struct {
	logger Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewService создает новый калькулятор стоимости
func NewService(logger Logger) *Service {
	return &Service{logger: logger}
}

// Calculate считает общую стоимость и детализацию по позициям
func (s *Service) Calculate(req *Request) (*Result, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: start=%s end=%s",
			ErrInvalidDateRange,
			req.StartDate.Format(domain.DateFormat),
			req.EndDate.Format(domain.DateFormat))
	}

	days := domain.StayDays(req.StartDate, req.EndDate)
	breakdown := make([]BreakdownEntry, 0)
	total := 0.0

	// Базовая составляющая направления: дневная ставка x дни поездки
	// Несет ее placeholder-позиция, она же закрывает случай поездки
	// без дополнительных услуг
	stayCost := 0.0
	stayNote := domain.PlaceholderNote
	var stayRef *int64
	stayName := "Trip"

	if req.Destination != nil {
		stayCost = req.Destination.DayRate * float64(days)
		stayNote = fmt.Sprintf("%d-day stay at %s", days, req.Destination.Name)
		stayRef = ptr.Ptr(req.Destination.ID)
		stayName = req.Destination.Name
	}

	if req.IncludeTransport && req.Route != nil {
		breakdown = append(breakdown, BreakdownEntry{
			ItemType:    domain.ItemTypeTransport,
			ReferenceID: ptr.Ptr(req.Route.ID),
			Name:        req.Route.Name,
			Cost:        req.Route.Cost,
		})
		total += req.Route.Cost
	}

	if req.IncludeHotel && req.Hotel != nil {
		hotelCost := req.Hotel.NightRate * float64(days)
		breakdown = append(breakdown, BreakdownEntry{
			ItemType:    domain.ItemTypeHotel,
			ReferenceID: ptr.Ptr(req.Hotel.ID),
			Name:        req.Hotel.Name,
			Cost:        hotelCost,
		})
		total += hotelCost
	}

	if req.IncludeActivities {
		for _, ab := range req.Activities {
			if ab.Participants < domain.MinParticipants {
				return nil, fmt.Errorf("%w: activity=%d participants=%d",
					ErrInvalidParticipants, ab.Activity.ID, ab.Participants)
			}

			activityCost := ab.Activity.Price * float64(ab.Participants)
			breakdown = append(breakdown, BreakdownEntry{
				ItemType:    domain.ItemTypeActivity,
				ReferenceID: ptr.Ptr(ab.Activity.ID),
				Name:        ab.Activity.Name,
				Cost:        activityCost,
				Details: domain.ItemDetails{
					Date:         ptr.Ptr(ab.Date.Format(domain.DateFormat)),
					SlotID:       ptr.Ptr(ab.SlotID),
					Participants: ptr.Ptr(ab.Participants),
				},
			})
			total += activityCost
		}
	}

	// Placeholder добавляется, когда есть базовая составляющая направления
	// или когда какая-то из категорий услуг не выбрана
	allIncluded := req.IncludeTransport && req.IncludeHotel && req.IncludeActivities
	if req.Destination != nil || !allIncluded || len(breakdown) == 0 {
		breakdown = append(breakdown, BreakdownEntry{
			ItemType:    domain.ItemTypePlaceholder,
			ReferenceID: stayRef,
			Name:        stayName,
			Cost:        stayCost,
			Details:     domain.ItemDetails{Note: ptr.Ptr(stayNote)},
		})
		total += stayCost
	}

	s.logger.Info("Calculate: days=%d entries=%d total=%.2f", days, len(breakdown), total)

	return &Result{Total: total, Breakdown: breakdown}, nil
}
