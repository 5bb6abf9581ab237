package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	availabilityRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/availability"
	catalogRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/catalog"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeCatalog struct {
	activity *domain.Activity
}

func (f *fakeCatalog) GetActivity(_ context.Context, id int64) (*domain.Activity, error) {
	if f.activity != nil && f.activity.ID == id {
		return f.activity, nil
	}
	return nil, catalogRepo.ErrActivityNotFound
}

type fakeLedger struct {
	records map[string]*domain.SlotAvailability
}

func (f *fakeLedger) Query(_ context.Context, activityID int64, date time.Time, slotID string) (*domain.SlotAvailability, error) {
	key := date.Format(domain.DateFormat) + "|" + slotID
	if rec, ok := f.records[key]; ok {
		return rec, nil
	}
	return nil, availabilityRepo.ErrRecordNotFound
}

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func testActivity() *domain.Activity {
	return &domain.Activity{
		ID: 3, DestinationID: 1, Name: "Reef dive", Price: 60,
		TimeSlots: []domain.TimeSlot{
			{SlotID: "morning", MaxParticipants: 8},
		},
		AvailableDates: []domain.ActivityDate{{Date: day(15)}},
	}
}

func TestExecute_ReturnsLedgerCounts(t *testing.T) {
	ledger := &fakeLedger{records: map[string]*domain.SlotAvailability{
		"2026-09-15|morning": {ActivityID: 3, SlotID: "morning", BookedParticipants: 5, MaxParticipants: 8},
	}}
	uc := NewUseCase(&fakeCatalog{activity: testActivity()}, ledger, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ActivityID: 3, Date: day(15), SlotID: "morning"})
	require.NoError(t, err)

	assert.Equal(t, 8, resp.TotalSpots)
	assert.Equal(t, 5, resp.BookedSpots)
	assert.Equal(t, 3, resp.AvailableSpots)
	assert.True(t, resp.Available)
}

func TestExecute_NoLedgerRecordMeansAllFree(t *testing.T) {
	uc := NewUseCase(&fakeCatalog{activity: testActivity()}, &fakeLedger{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ActivityID: 3, Date: day(15), SlotID: "morning"})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.BookedSpots)
	assert.Equal(t, 8, resp.AvailableSpots)
	assert.True(t, resp.Available)
}

func TestExecute_FullSlotNotAvailable(t *testing.T) {
	ledger := &fakeLedger{records: map[string]*domain.SlotAvailability{
		"2026-09-15|morning": {ActivityID: 3, SlotID: "morning", BookedParticipants: 8, MaxParticipants: 8},
	}}
	uc := NewUseCase(&fakeCatalog{activity: testActivity()}, ledger, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ActivityID: 3, Date: day(15), SlotID: "morning"})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.AvailableSpots)
	assert.False(t, resp.Available)
}

func TestExecute_UnknownActivity(t *testing.T) {
	uc := NewUseCase(&fakeCatalog{}, &fakeLedger{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ActivityID: 99, Date: day(15), SlotID: "morning"})
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestExecute_SlotNotDefined(t *testing.T) {
	uc := NewUseCase(&fakeCatalog{activity: testActivity()}, &fakeLedger{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ActivityID: 3, Date: day(15), SlotID: "evening"})
	assert.ErrorIs(t, err, ErrSlotNotDefined)
}

func TestExecute_DateNotScheduled(t *testing.T) {
	uc := NewUseCase(&fakeCatalog{activity: testActivity()}, &fakeLedger{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ActivityID: 3, Date: day(20), SlotID: "morning"})
	assert.ErrorIs(t, err, ErrActivityNotScheduled)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeCatalog{activity: testActivity()}, &fakeLedger{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ActivityID: 0, Date: day(15), SlotID: "morning"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ActivityID: 3, SlotID: "morning"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ActivityID: 3, Date: day(15)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
