package bookings

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	bookingRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/booking"
	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/integrations/paymentservice"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeBookingRepo хранит бронирования в памяти и повторяет условную
// семантику реального репозитория: переход срабатывает только из
// ожидаемого текущего статуса
type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByTouristID(_ context.Context, touristID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.TouristID != touristID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) ListExpiredPending(_ context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.Status == domain.StatusPendingPayment && b.CreatedAt.Before(cutoff) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) TransitionStatus(_ context.Context, id int64, from, to domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != from {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = to
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, from domain.BookingStatus, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != from {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	return nil
}

func (f *fakeBookingRepo) GetItemByID(_ context.Context, itemID int64) (*domain.BookingItem, error) {
	for _, b := range f.bookings {
		for _, item := range b.Items {
			if item.ID == itemID {
				return item, nil
			}
		}
	}
	return nil, bookingRepo.ErrItemNotFound
}

func (f *fakeBookingRepo) ConfirmItem(_ context.Context, itemID int64, details domain.ItemDetails) error {
	for _, b := range f.bookings {
		for _, item := range b.Items {
			if item.ID != itemID {
				continue
			}
			if item.ProviderStatus == domain.ProviderConfirmed {
				return bookingRepo.ErrItemAlreadyConfirmed
			}
			item.ProviderStatus = domain.ProviderConfirmed
			item.Details = details
			return nil
		}
	}
	return bookingRepo.ErrItemNotFound
}

type fakeAvailability struct {
	released   []int64
	releaseErr error
}

func (f *fakeAvailability) ReleaseByBooking(_ context.Context, bookingID int64) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.released = append(f.released, bookingID)
	return nil
}

type fakeGuideRepo struct {
	released []int64
}

func (f *fakeGuideRepo) Release(_ context.Context, userID int64) error {
	f.released = append(f.released, userID)
	return nil
}

type fakePaymentClient struct {
	status *paymentservice.PaymentStatus
	err    error
}

func (f *fakePaymentClient) GetPaymentStatusWithGracefulDegradation(_ context.Context, bookingID int64) (*paymentservice.PaymentStatus, error) {
	return f.status, f.err
}

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(repo *fakeBookingRepo) (*Service, *fakeAvailability, *fakeGuideRepo) {
	availability := &fakeAvailability{}
	guides := &fakeGuideRepo{}
	svc := NewService(repo, availability, guides, nil, passthroughTx{}, nopLogger{})
	svc.timeProvider = fixedTime{now: day(20)}
	return svc, availability, guides
}

func pendingBooking(id, touristID int64) *domain.Booking {
	activityID := int64(3)
	return &domain.Booking{
		ID:        id,
		TouristID: touristID,
		Status:    domain.StatusPendingPayment,
		StartDate: day(25),
		EndDate:   day(28),
		CreatedAt: day(19),
		Items: []*domain.BookingItem{
			{ID: 100, BookingID: id, ItemType: domain.ItemTypeTransport, ProviderStatus: domain.ProviderPending},
			{ID: 101, BookingID: id, ItemType: domain.ItemTypeActivity, ReferenceID: &activityID, ProviderStatus: domain.ProviderConfirmed},
		},
	}
}

func TestGetByID_OwnerOnly(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1, 7))
	svc, _, _ := newTestService(repo)

	booking, err := svc.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), booking.ID)

	_, err = svc.GetByID(context.Background(), 1, 8)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 2, 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ReleasesResources(t *testing.T) {
	booking := pendingBooking(1, 7)
	repo := newFakeBookingRepo(booking)
	svc, availability, _ := newTestService(repo)

	err := svc.Cancel(context.Background(), 1, 7, "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, booking.Status)
	assert.Equal(t, "changed my mind", *booking.CancellationReason)
	assert.Equal(t, []int64{1}, availability.released)
}

func TestCancel_ReleasesAssignedGuide(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusGuideAssigned
	guideID := int64(55)
	booking.Items = append(booking.Items, &domain.BookingItem{
		ID: 102, BookingID: 1, ItemType: domain.ItemTypeTourGuide,
		Details: domain.ItemDetails{GuideID: &guideID},
	})
	repo := newFakeBookingRepo(booking)
	svc, _, guides := newTestService(repo)

	require.NoError(t, svc.Cancel(context.Background(), 1, 7, ""))

	assert.Equal(t, []int64{55}, guides.released)
}

func TestCancel_Idempotent(t *testing.T) {
	booking := pendingBooking(1, 7)
	repo := newFakeBookingRepo(booking)
	svc, availability, _ := newTestService(repo)

	require.NoError(t, svc.Cancel(context.Background(), 1, 7, "first"))
	require.NoError(t, svc.Cancel(context.Background(), 1, 7, "second"))

	// Повторная отмена не компенсирует ресурсы второй раз
	assert.Equal(t, []int64{1}, availability.released)
	assert.Equal(t, "first", *booking.CancellationReason)
}

func TestCancel_CompletedNotCancellable(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusCompleted
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	err := svc.Cancel(context.Background(), 1, 7, "")
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_ForeignBooking(t *testing.T) {
	svc, availability, _ := newTestService(newFakeBookingRepo(pendingBooking(1, 7)))

	err := svc.Cancel(context.Background(), 1, 99, "")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, availability.released)
}

func TestHandlePaymentConfirmed_TransitionsToConfirmed(t *testing.T) {
	booking := pendingBooking(1, 7)
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	require.NoError(t, svc.HandlePaymentConfirmed(context.Background(), 1, "pay-123"))
	assert.Equal(t, domain.StatusConfirmed, booking.Status)

	// Повторный колбэк идемпотентен
	require.NoError(t, svc.HandlePaymentConfirmed(context.Background(), 1, "pay-123"))
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
}

func TestHandlePaymentConfirmed_CancelledBookingConflicts(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusCancelled
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	err := svc.HandlePaymentConfirmed(context.Background(), 1, "pay-123")
	assert.ErrorIs(t, err, ErrPaymentConflict)
}

func TestHandlePaymentConfirmed_VerifiesWithPaymentService(t *testing.T) {
	booking := pendingBooking(1, 7)
	repo := newFakeBookingRepo(booking)
	svc, _, _ := newTestService(repo)
	svc.paymentClient = &fakePaymentClient{
		status: &paymentservice.PaymentStatus{BookingID: 1, Status: "failed"},
	}

	err := svc.HandlePaymentConfirmed(context.Background(), 1, "pay-123")
	assert.ErrorIs(t, err, ErrPaymentConflict)
	assert.Equal(t, domain.StatusPendingPayment, booking.Status)
}

func TestHandlePaymentConfirmed_DegradedPaymentServiceTolerated(t *testing.T) {
	booking := pendingBooking(1, 7)
	svc, _, _ := newTestService(newFakeBookingRepo(booking))
	svc.paymentClient = &fakePaymentClient{
		err: fmt.Errorf("%w: connection refused", paymentservice.ErrServiceDegraded),
	}

	require.NoError(t, svc.HandlePaymentConfirmed(context.Background(), 1, "pay-123"))
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
}

func TestHandlePaymentFailed_CancelsAndReleases(t *testing.T) {
	booking := pendingBooking(1, 7)
	repo := newFakeBookingRepo(booking)
	svc, availability, _ := newTestService(repo)

	require.NoError(t, svc.HandlePaymentFailed(context.Background(), 1, "card declined"))

	assert.Equal(t, domain.StatusCancelled, booking.Status)
	assert.Equal(t, "card declined", *booking.CancellationReason)
	assert.Equal(t, []int64{1}, availability.released)

	// Повторный колбэк идемпотентен
	require.NoError(t, svc.HandlePaymentFailed(context.Background(), 1, "card declined"))
	assert.Equal(t, []int64{1}, availability.released)
}

func TestHandlePaymentFailed_PaidBookingConflicts(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusConfirmed
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	err := svc.HandlePaymentFailed(context.Background(), 1, "card declined")
	assert.ErrorIs(t, err, ErrPaymentConflict)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
}

func TestConfirmItem_LastConfirmationCompletesBooking(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusConfirmed
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	ticket := "TK-42"
	result, err := svc.ConfirmItem(context.Background(), 100, domain.ItemDetails{TicketNumber: &ticket})
	require.NoError(t, err)

	// Подтверждена последняя позиция - бронирование автозавершено
	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Equal(t, domain.ProviderConfirmed, booking.Items[0].ProviderStatus)
	assert.Equal(t, "TK-42", *booking.Items[0].Details.TicketNumber)
}

func TestConfirmItem_PartialConfirmationKeepsStatus(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusConfirmed
	booking.Items[1].ProviderStatus = domain.ProviderPending
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	result, err := svc.ConfirmItem(context.Background(), 100, domain.ItemDetails{})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, result.Status)
}

func TestConfirmItem_MergeKeepsReservationDetails(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusConfirmed
	booking.Items[1].ProviderStatus = domain.ProviderPending
	slot := "morning"
	participants := 4
	booking.Items[1].Details = domain.ItemDetails{SlotID: &slot, Participants: &participants}
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	note := "meet at the pier"
	_, err := svc.ConfirmItem(context.Background(), 101, domain.ItemDetails{Note: &note})
	require.NoError(t, err)

	assert.Equal(t, "morning", *booking.Items[1].Details.SlotID)
	assert.Equal(t, 4, *booking.Items[1].Details.Participants)
	assert.Equal(t, "meet at the pier", *booking.Items[1].Details.Note)
}

func TestConfirmItem_UnpaidBooking(t *testing.T) {
	booking := pendingBooking(1, 7)
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	_, err := svc.ConfirmItem(context.Background(), 100, domain.ItemDetails{})
	assert.ErrorIs(t, err, ErrBookingNotPaid)
}

func TestConfirmItem_AlreadyConfirmed(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusConfirmed
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	_, err := svc.ConfirmItem(context.Background(), 101, domain.ItemDetails{})
	assert.ErrorIs(t, err, ErrItemAlreadyConfirmed)
}

func TestConfirmItem_PlaceholderNotConfirmable(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusConfirmed
	booking.Items = append(booking.Items, &domain.BookingItem{
		ID: 103, BookingID: 1, ItemType: domain.ItemTypePlaceholder, ProviderStatus: domain.ProviderPending,
	})
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	_, err := svc.ConfirmItem(context.Background(), 103, domain.ItemDetails{})
	assert.ErrorIs(t, err, ErrItemNotConfirmable)
}

func TestConfirmItem_UnassignedGuideItemNotConfirmable(t *testing.T) {
	booking := pendingBooking(1, 7)
	booking.Status = domain.StatusConfirmed
	booking.Items = append(booking.Items, &domain.BookingItem{
		ID: 102, BookingID: 1, ItemType: domain.ItemTypeTourGuide, ProviderStatus: domain.ProviderPending,
	})
	svc, _, _ := newTestService(newFakeBookingRepo(booking))

	// Гид еще не назначен - позицию подтверждать нечем
	_, err := svc.ConfirmItem(context.Background(), 102, domain.ItemDetails{})
	assert.ErrorIs(t, err, ErrItemNotConfirmable)

	guideID := int64(55)
	booking.Items[2].Details.GuideID = &guideID
	booking.Status = domain.StatusGuideAssigned

	result, err := svc.ConfirmItem(context.Background(), 102, domain.ItemDetails{})
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderConfirmed, booking.Items[2].ProviderStatus)
	// Транспортная позиция еще не подтверждена - автозавершения нет
	assert.Equal(t, domain.StatusGuideAssigned, result.Status)
}

func TestExpirePending_CancelsOverdueOnly(t *testing.T) {
	overdue := pendingBooking(1, 7)
	overdue.CreatedAt = day(20).Add(-45 * time.Minute)

	fresh := pendingBooking(2, 7)
	fresh.Items[0].ID, fresh.Items[1].ID = 200, 201
	fresh.CreatedAt = day(20).Add(-5 * time.Minute)

	paid := pendingBooking(3, 7)
	paid.Items[0].ID, paid.Items[1].ID = 300, 301
	paid.Status = domain.StatusConfirmed
	paid.CreatedAt = day(20).Add(-2 * time.Hour)

	repo := newFakeBookingRepo(overdue, fresh, paid)
	svc, availability, _ := newTestService(repo)

	cancelled, err := svc.ExpirePending(context.Background(), 30*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, cancelled)
	assert.Equal(t, domain.StatusCancelled, overdue.Status)
	assert.Equal(t, domain.StatusPendingPayment, fresh.Status)
	assert.Equal(t, domain.StatusConfirmed, paid.Status)
	assert.Equal(t, []int64{1}, availability.released)
}

func TestExpirePending_FailedReleaseNotCounted(t *testing.T) {
	overdue := pendingBooking(1, 7)
	overdue.CreatedAt = day(20).Add(-45 * time.Minute)

	repo := newFakeBookingRepo(overdue)
	svc, availability, _ := newTestService(repo)
	availability.releaseErr = errors.New("connection reset")

	// Освобождение мест упало, транзакция откатывается: отмена не состоялась
	cancelled, err := svc.ExpirePending(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled)
}

func TestGetUserBookings_FilterByStatus(t *testing.T) {
	pending := pendingBooking(1, 7)
	confirmed := pendingBooking(2, 7)
	confirmed.Items[0].ID, confirmed.Items[1].ID = 200, 201
	confirmed.Status = domain.StatusConfirmed
	foreign := pendingBooking(3, 9)
	foreign.Items[0].ID, foreign.Items[1].ID = 300, 301

	svc, _, _ := newTestService(newFakeBookingRepo(pending, confirmed, foreign))

	all, err := svc.GetUserBookings(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := domain.StatusConfirmed
	filtered, err := svc.GetUserBookings(context.Background(), 7, &status)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].ID)
}
