package domain

import (
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/types"
)

// Destination reference record: a bookable location with a per-day rate
// applied for every day of the stay
type Destination struct {
	ID      int64
	Name    string
	DayRate float64
}

// TimeSlot a bookable time window of an activity with its own capacity
// Capacity is per slot, not per day
type TimeSlot struct {
	SlotID          string
	StartTime       types.TimeString
	EndTime         types.TimeString
	MaxParticipants int
}

// ActivityDate a calendar date on which an activity runs
// AvailableSlots optionally restricts which slots are enabled that day;
// an empty list means every slot defined on the activity is enabled
type ActivityDate struct {
	Date           time.Time
	AvailableSlots []string
}

// Activity reference record: a bookable activity at a destination
// Price is per participant
type Activity struct {
	ID             int64
	DestinationID  int64
	Name           string
	Price          float64
	TimeSlots      []TimeSlot
	AvailableDates []ActivityDate
}

// Slot возвращает определение слота по его идентификатору
func (a *Activity) Slot(slotID string) (*TimeSlot, bool) {
	for i := range a.TimeSlots {
		if a.TimeSlots[i].SlotID == slotID {
			return &a.TimeSlots[i], true
		}
	}
	return nil, false
}

// RunsOn возвращает true, если активность проводится в указанную дату
func (a *Activity) RunsOn(date time.Time) bool {
	for _, d := range a.AvailableDates {
		if sameDate(d.Date, date) {
			return true
		}
	}
	return false
}

// SlotEnabledOn возвращает true, если слот включен в указанную дату
// Слот должен существовать в TimeSlots; пустой список AvailableSlots
// на дате означает, что включены все слоты активности
func (a *Activity) SlotEnabledOn(date time.Time, slotID string) bool {
	if _, ok := a.Slot(slotID); !ok {
		return false
	}

	for _, d := range a.AvailableDates {
		if !sameDate(d.Date, date) {
			continue
		}
		if len(d.AvailableSlots) == 0 {
			return true
		}
		for _, s := range d.AvailableSlots {
			if s == slotID {
				return true
			}
		}
		return false
	}
	return false
}

// TransportRoute reference record: a flat-cost transport connection
type TransportRoute struct {
	ID            int64
	DestinationID int64
	Name          string
	Origin        string
	Cost          float64
}

// Hotel reference record: per-night rate at a destination
type Hotel struct {
	ID            int64
	DestinationID int64
	Name          string
	NightRate     float64
}

// sameDate сравнивает только календарные даты, игнорируя время
func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
