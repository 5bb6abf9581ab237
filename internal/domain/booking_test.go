package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPendingPayment, StatusConfirmed, true},
		{"pending to cancelled", StatusPendingPayment, StatusCancelled, true},
		{"pending to completed", StatusPendingPayment, StatusCompleted, false},
		{"pending to guide_assigned", StatusPendingPayment, StatusGuideAssigned, false},
		{"confirmed to guide_assigned", StatusConfirmed, StatusGuideAssigned, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to pending", StatusConfirmed, StatusPendingPayment, false},
		{"guide_assigned to completed", StatusGuideAssigned, StatusCompleted, true},
		{"guide_assigned to cancelled", StatusGuideAssigned, StatusCancelled, true},
		{"guide_assigned to confirmed", StatusGuideAssigned, StatusConfirmed, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, false},
		{"cancelled stays cancelled", StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.allowed, b.CanTransitionTo(tt.to))
		})
	}
}

func TestBooking_IsTerminal(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCancelled}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusPendingPayment}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusConfirmed}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusGuideAssigned}).IsTerminal())
}

func TestStayDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, 2, StayDays(day(10), day(12)))
	assert.Equal(t, 5, StayDays(day(10), day(15)))
	assert.Equal(t, 1, StayDays(day(10), day(11)))
	// Одинаковые даты и перевернутый интервал дают минимум 1
	assert.Equal(t, 1, StayDays(day(10), day(10)))
	assert.Equal(t, 1, StayDays(day(12), day(10)))
}

func TestBooking_AllProvidersConfirmed(t *testing.T) {
	booking := &Booking{
		Items: []*BookingItem{
			{ItemType: ItemTypeTransport, ProviderStatus: ProviderPending},
			{ItemType: ItemTypeActivity, ProviderStatus: ProviderConfirmed},
			{ItemType: ItemTypePlaceholder, ProviderStatus: ProviderPending},
		},
	}

	assert.False(t, booking.AllProvidersConfirmed())

	booking.Items[0].ProviderStatus = ProviderConfirmed

	// Placeholder не требует подтверждения провайдера
	assert.True(t, booking.AllProvidersConfirmed())
}

func TestBooking_NeedsGuide(t *testing.T) {
	destID := int64(7)

	withDestination := &Booking{DestinationID: &destID}
	assert.True(t, withDestination.NeedsGuide())

	refID := int64(3)
	withActivity := &Booking{
		Items: []*BookingItem{{ItemType: ItemTypeActivity, ReferenceID: &refID}},
	}
	assert.True(t, withActivity.NeedsGuide())

	transportOnly := &Booking{
		Items: []*BookingItem{{ItemType: ItemTypeTransport, ReferenceID: &refID}},
	}
	assert.False(t, transportOnly.NeedsGuide())
}

func TestBooking_ActivityIDs(t *testing.T) {
	id1, id2 := int64(11), int64(22)
	booking := &Booking{
		Items: []*BookingItem{
			{ItemType: ItemTypeActivity, ReferenceID: &id1},
			{ItemType: ItemTypeHotel, ReferenceID: &id2},
			{ItemType: ItemTypeActivity, ReferenceID: &id2},
			{ItemType: ItemTypeTourGuide},
		},
	}

	assert.Equal(t, []int64{11, 22}, booking.ActivityIDs())
}

func TestActivity_SlotEnabledOn(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	activity := &Activity{
		ID: 1,
		TimeSlots: []TimeSlot{
			{SlotID: "morning", MaxParticipants: 8},
			{SlotID: "afternoon", MaxParticipants: 10},
		},
		AvailableDates: []ActivityDate{
			{Date: date, AvailableSlots: []string{"morning"}},
			{Date: date.AddDate(0, 0, 1)}, // все слоты включены
		},
	}

	assert.True(t, activity.SlotEnabledOn(date, "morning"))
	assert.False(t, activity.SlotEnabledOn(date, "afternoon"))
	assert.True(t, activity.SlotEnabledOn(date.AddDate(0, 0, 1), "afternoon"))
	assert.False(t, activity.SlotEnabledOn(date.AddDate(0, 0, 2), "morning"))
	// Неизвестный слот не включен даже в разрешенную дату
	assert.False(t, activity.SlotEnabledOn(date, "evening"))
}

func TestItemDetails_Scan(t *testing.T) {
	var details ItemDetails
	err := details.Scan([]byte(`{"date":"2026-09-15","slotId":"morning","participants":4}`))
	assert.NoError(t, err)
	assert.Equal(t, "2026-09-15", *details.Date)
	assert.Equal(t, "morning", *details.SlotID)
	assert.Equal(t, 4, *details.Participants)

	var empty ItemDetails
	assert.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty.Date)

	assert.Error(t, details.Scan(42))
}
