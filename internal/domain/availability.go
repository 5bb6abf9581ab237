package domain

import "time"

// SlotAvailability committed seat usage for one (activity, date, slot) key
// Invariant: BookedParticipants never exceeds MaxParticipants; the ledger
// enforces it with a single conditional check-and-increment per reservation
type SlotAvailability struct {
	ActivityID         int64
	Date               time.Time
	SlotID             string
	BookedParticipants int
	MaxParticipants    int
}

// AvailableSpots возвращает число свободных мест
func (s *SlotAvailability) AvailableSpots() int {
	spots := s.MaxParticipants - s.BookedParticipants
	if spots < 0 {
		return 0
	}
	return spots
}

// IsFull returns true if the slot has no available spots
func (s *SlotAvailability) IsFull() bool {
	return s.AvailableSpots() <= 0
}

// ReservationStatus состояние резервирования мест
type ReservationStatus string

const (
	ReservationActive   ReservationStatus = "active"
	ReservationReleased ReservationStatus = "released"
)

// SlotReservation a provisional hold of seats in one activity slot
// Берется при отправке бронирования (не при оплате); освобождается при
// отмене или неуспешной оплате. Release по токену идемпотентен
type SlotReservation struct {
	Token        string
	ActivityID   int64
	Date         time.Time
	SlotID       string
	Participants int
	BookingID    *int64 // привязывается после сохранения бронирования
	Status       ReservationStatus
	CreatedAt    time.Time
	ReleasedAt   *time.Time
}
