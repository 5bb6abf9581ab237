package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("06:00")
	require.NoError(t, err)
	assert.Equal(t, "06:00", ts.String())

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("6am")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	morning := TimeString("06:00")
	afternoon := TimeString("14:00")

	assert.True(t, morning.IsBefore(afternoon))
	assert.False(t, afternoon.IsBefore(morning))
	assert.True(t, afternoon.IsAfter(morning))
	assert.False(t, morning.IsBefore(morning))
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("09:30")

	shifted, err := ts.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), shifted)

	_, err = TimeString("bad").AddMinutes(10)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres возвращает "06:00:00" для колонок TIME
	require.NoError(t, ts.Scan("06:00:00"))
	assert.Equal(t, TimeString("06:00"), ts)

	require.NoError(t, ts.Scan([]byte("14:30")))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 1, 1, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(123))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("06:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "06:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("nope").Value()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}
