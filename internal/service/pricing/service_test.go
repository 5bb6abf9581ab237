package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

var (
	testDestination = &domain.Destination{ID: 1, Name: "Kilimanjaro", DayRate: 100}
	testRoute       = &domain.TransportRoute{ID: 5, DestinationID: 1, Name: "Shuttle", Origin: "Arusha", Cost: 40}
	testHotel       = &domain.Hotel{ID: 9, DestinationID: 1, Name: "Summit Lodge", NightRate: 80}
	testActivity    = &domain.Activity{ID: 3, DestinationID: 1, Name: "Day hike", Price: 25}
)

func TestCalculate_FullTrip(t *testing.T) {
	svc := NewService(nopLogger{})

	result, err := svc.Calculate(&Request{
		StartDate:         day(10),
		EndDate:           day(13), // 3 дня
		Destination:       testDestination,
		IncludeTransport:  true,
		Route:             testRoute,
		IncludeHotel:      true,
		Hotel:             testHotel,
		IncludeActivities: true,
		Activities: []ActivityBooking{
			{Activity: testActivity, Date: day(11), SlotID: "morning", Participants: 4},
		},
	})
	require.NoError(t, err)

	// транспорт 40 + отель 80*3 + активность 25*4 + направление 100*3
	assert.InDelta(t, 40+240+100+300, result.Total, 0.001)
	require.Len(t, result.Breakdown, 4)

	assert.Equal(t, domain.ItemTypeTransport, result.Breakdown[0].ItemType)
	assert.InDelta(t, 40, result.Breakdown[0].Cost, 0.001)

	assert.Equal(t, domain.ItemTypeHotel, result.Breakdown[1].ItemType)
	assert.InDelta(t, 240, result.Breakdown[1].Cost, 0.001)

	assert.Equal(t, domain.ItemTypeActivity, result.Breakdown[2].ItemType)
	assert.InDelta(t, 100, result.Breakdown[2].Cost, 0.001)
	assert.Equal(t, "2026-09-11", *result.Breakdown[2].Details.Date)
	assert.Equal(t, "morning", *result.Breakdown[2].Details.SlotID)
	assert.Equal(t, 4, *result.Breakdown[2].Details.Participants)

	assert.Equal(t, domain.ItemTypePlaceholder, result.Breakdown[3].ItemType)
	assert.InDelta(t, 300, result.Breakdown[3].Cost, 0.001)
}

func TestCalculate_DayRateScalesWithTripLength(t *testing.T) {
	svc := NewService(nopLogger{})

	// Отель исключен: его стоимость тоже растет с длиной поездки,
	// а здесь проверяется именно дневная ставка направления
	calc := func(days int) float64 {
		result, err := svc.Calculate(&Request{
			StartDate:        day(10),
			EndDate:          day(10 + days),
			Destination:      testDestination,
			IncludeTransport: true,
			Route:            testRoute,
		})
		require.NoError(t, err)
		return result.Total
	}

	fiveDay := calc(5)
	twoDay := calc(2)

	assert.InDelta(t, 3*testDestination.DayRate, fiveDay-twoDay, 0.001)
}

func TestCalculate_NoServicesYieldsPlaceholder(t *testing.T) {
	svc := NewService(nopLogger{})

	result, err := svc.Calculate(&Request{
		StartDate: day(10),
		EndDate:   day(12),
	})
	require.NoError(t, err)

	// Детализация никогда не бывает пустой
	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, domain.ItemTypePlaceholder, result.Breakdown[0].ItemType)
	assert.InDelta(t, 0, result.Total, 0.001)
	assert.Equal(t, domain.PlaceholderNote, *result.Breakdown[0].Details.Note)
}

func TestCalculate_FlagsAreAuthoritative(t *testing.T) {
	svc := NewService(nopLogger{})

	// Ссылка на маршрут без флага не тарифицируется
	result, err := svc.Calculate(&Request{
		StartDate:    day(10),
		EndDate:      day(12),
		Destination:  testDestination,
		Route:        testRoute,
		IncludeHotel: true,
		Hotel:        testHotel,
	})
	require.NoError(t, err)

	for _, entry := range result.Breakdown {
		assert.NotEqual(t, domain.ItemTypeTransport, entry.ItemType)
	}
	assert.InDelta(t, 80*2+100*2, result.Total, 0.001)
}

func TestCalculate_InvalidDateRange(t *testing.T) {
	svc := NewService(nopLogger{})

	_, err := svc.Calculate(&Request{StartDate: day(12), EndDate: day(10)})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.Calculate(&Request{StartDate: day(10), EndDate: day(10)})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCalculate_InvalidParticipants(t *testing.T) {
	svc := NewService(nopLogger{})

	_, err := svc.Calculate(&Request{
		StartDate:         day(10),
		EndDate:           day(12),
		IncludeActivities: true,
		Activities: []ActivityBooking{
			{Activity: testActivity, Date: day(11), SlotID: "morning", Participants: 0},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidParticipants)
}
