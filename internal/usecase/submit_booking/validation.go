package submit_booking

import (
	"fmt"
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TouristID <= 0 {
		return fmt.Errorf("%w: touristID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	if req.EndDate.IsZero() {
		return fmt.Errorf("%w: endDate is required", ErrInvalidInput)
	}

	if !req.EndDate.After(req.StartDate) {
		return fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInput)
	}

	if domain.StayDays(req.StartDate, req.EndDate) > domain.MaxTripDays {
		return fmt.Errorf("%w: trip cannot be longer than %d days", ErrInvalidInput, domain.MaxTripDays)
	}

	// Флаги авторитетны: услуга без флага не бронируется; полностью пустое
	// бронирование без единой выбранной категории не принимается
	if !req.IncludeTransport && !req.IncludeHotel && !req.IncludeActivities {
		return ErrNoServiceSelected
	}

	if req.IncludeTransport && req.TransportRouteID == nil {
		return fmt.Errorf("%w: transportRouteId is required when transport is included", ErrInvalidInput)
	}

	if req.IncludeHotel && req.HotelID == nil {
		return fmt.Errorf("%w: hotelId is required when hotel is included", ErrInvalidInput)
	}

	if req.IncludeActivities {
		if len(req.Activities) == 0 {
			return fmt.Errorf("%w: at least one activity is required when activities are included", ErrInvalidInput)
		}
		if len(req.Activities) > domain.MaxActivitiesPerTrip {
			return fmt.Errorf("%w: at most %d activities per trip", ErrInvalidInput, domain.MaxActivitiesPerTrip)
		}

		for i, a := range req.Activities {
			if err := validateActivityRequest(i, a, req.StartDate, req.EndDate); err != nil {
				return err
			}
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes cannot exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateActivityRequest валидирует одну запрошенную активность
func validateActivityRequest(idx int, a ActivityRequest, start, end time.Time) error {
	if a.ActivityID <= 0 {
		return fmt.Errorf("%w: activities[%d].activityId must be positive", ErrInvalidInput, idx)
	}

	if a.Date.IsZero() {
		return fmt.Errorf("%w: activities[%d].date is required", ErrInvalidInput, idx)
	}

	if a.SlotID == "" {
		return fmt.Errorf("%w: activities[%d].slotId is required", ErrInvalidInput, idx)
	}

	if a.Participants < domain.MinParticipants || a.Participants > domain.MaxParticipants {
		return fmt.Errorf("%w: activities[%d].participants must be between %d and %d",
			ErrInvalidInput, idx, domain.MinParticipants, domain.MaxParticipants)
	}

	// Дата активности должна попадать в интервал поездки
	if dateOnly(a.Date).Before(dateOnly(start)) || dateOnly(a.Date).After(dateOnly(end)) {
		return fmt.Errorf("%w: activities[%d].date %s is outside the trip dates",
			ErrInvalidInput, idx, a.Date.Format(domain.DateFormat))
	}

	return nil
}

// validateStartDate проверяет, что поездка не начинается в прошлом
func validateStartDate(start, now time.Time) error {
	if dateOnly(start).Before(dateOnly(now)) {
		return fmt.Errorf("%w: startDate cannot be in the past", ErrInvalidInput)
	}
	return nil
}

// validateActivitySchedule проверяет, что активность проводится в запрошенную
// дату и что слот существует и включен на эту дату
func validateActivitySchedule(activity *domain.Activity, date time.Time, slotID string) error {
	if _, ok := activity.Slot(slotID); !ok {
		return fmt.Errorf("%w: activity id=%d has no slot %q", ErrSlotNotDefined, activity.ID, slotID)
	}

	if !activity.RunsOn(date) {
		return fmt.Errorf("%w: activity id=%d does not run on %s",
			ErrActivityNotScheduled, activity.ID, date.Format(domain.DateFormat))
	}

	if !activity.SlotEnabledOn(date, slotID) {
		return fmt.Errorf("%w: slot %q of activity id=%d is not available on %s",
			ErrActivityNotScheduled, slotID, activity.ID, date.Format(domain.DateFormat))
	}

	return nil
}

// dateOnly обнуляет время, чтобы сравнивать только календарные даты
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
