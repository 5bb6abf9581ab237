package guides

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	bookingRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/booking"
	guideRepo "github.com/tinnohofficial/SmartTour-BookingEngine/internal/infra/storage/guide"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeBookingRepo повторяет условную семантику перехода статуса,
// синхронизация нужна тестам на конкурирующие назначения
type fakeBookingRepo struct {
	mu       sync.Mutex
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
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) TransitionStatus(_ context.Context, id int64, from, to domain.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
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

func (f *fakeBookingRepo) UpdateItemDetails(_ context.Context, itemID int64, details domain.ItemDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		for _, item := range b.Items {
			if item.ID == itemID {
				item.Details = details
				return nil
			}
		}
	}
	return bookingRepo.ErrItemNotFound
}

// fakeGuideRepo повторяет условный захват реального репозитория:
// Acquire срабатывает только для свободного гида
type fakeGuideRepo struct {
	mu     sync.Mutex
	guides map[int64]*domain.GuideProfile
}

func newFakeGuideRepo(guides ...*domain.GuideProfile) *fakeGuideRepo {
	repo := &fakeGuideRepo{guides: make(map[int64]*domain.GuideProfile)}
	for _, g := range guides {
		repo.guides[g.UserID] = g
	}
	return repo
}

func (f *fakeGuideRepo) GetByUserID(_ context.Context, userID int64) (*domain.GuideProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guides[userID]
	if !ok {
		return nil, guideRepo.ErrGuideNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGuideRepo) ListCandidates(_ context.Context, destinationID *int64, activityIDs []int64) ([]*domain.GuideProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.GuideProfile
	for _, g := range f.guides {
		if g.EligibleFor(destinationID, activityIDs) {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (f *fakeGuideRepo) Acquire(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guides[userID]
	if !ok {
		return guideRepo.ErrGuideNotFound
	}
	if !g.Available {
		return guideRepo.ErrGuideUnavailable
	}
	g.Available = false
	return nil
}

func (f *fakeGuideRepo) Release(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guides[userID]
	if !ok {
		return guideRepo.ErrGuideNotFound
	}
	g.Available = true
	return nil
}

func (f *fakeGuideRepo) SetAvailability(_ context.Context, userID int64, available bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guides[userID]
	if !ok {
		return guideRepo.ErrGuideNotFound
	}
	g.Available = available
	return nil
}

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func confirmedBooking(id int64, destinationID *int64, activityIDs ...int64) *domain.Booking {
	booking := &domain.Booking{
		ID:            id,
		TouristID:     7,
		DestinationID: destinationID,
		StartDate:     day(25),
		EndDate:       day(28),
		Status:        domain.StatusConfirmed,
	}
	itemID := id * 100
	for i := range activityIDs {
		booking.Items = append(booking.Items, &domain.BookingItem{
			ID: itemID + int64(i), BookingID: id,
			ItemType: domain.ItemTypeActivity, ReferenceID: &activityIDs[i],
			ProviderStatus: domain.ProviderConfirmed,
		})
	}
	booking.Items = append(booking.Items, &domain.BookingItem{
		ID: itemID + 50, BookingID: id,
		ItemType: domain.ItemTypeTourGuide, ProviderStatus: domain.ProviderPending,
	})
	return booking
}

func destID(id int64) *int64 { return &id }

func TestEligible_FiltersAndSorts(t *testing.T) {
	booking := confirmedBooking(1, destID(10), 3)
	guides := newFakeGuideRepo(
		&domain.GuideProfile{UserID: 52, DestinationID: 10, Available: true},
		&domain.GuideProfile{UserID: 51, DestinationID: 20, Expertise: []int64{3}, Available: true},
		&domain.GuideProfile{UserID: 53, DestinationID: 10, Available: false},
		&domain.GuideProfile{UserID: 54, DestinationID: 20, Expertise: []int64{9}, Available: true},
	)
	svc := NewService(newFakeBookingRepo(booking), guides, passthroughTx{}, nopLogger{})

	candidates, err := svc.Eligible(context.Background(), 1)
	require.NoError(t, err)

	// Совпадение по направлению либо по экспертизе; занятые исключены
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(51), candidates[0].UserID)
	assert.Equal(t, int64(52), candidates[1].UserID)
}

func TestEligible_UnpaidBooking(t *testing.T) {
	booking := confirmedBooking(1, destID(10), 3)
	booking.Status = domain.StatusPendingPayment
	svc := NewService(newFakeBookingRepo(booking), newFakeGuideRepo(), passthroughTx{}, nopLogger{})

	_, err := svc.Eligible(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBookingNotConfirmed)
}

func TestEligible_TransportOnlyBooking(t *testing.T) {
	routeID := int64(5)
	booking := &domain.Booking{
		ID: 1, TouristID: 7, Status: domain.StatusConfirmed,
		Items: []*domain.BookingItem{
			{ID: 100, BookingID: 1, ItemType: domain.ItemTypeTransport, ReferenceID: &routeID},
		},
	}
	svc := NewService(newFakeBookingRepo(booking), newFakeGuideRepo(), passthroughTx{}, nopLogger{})

	_, err := svc.Eligible(context.Background(), 1)
	assert.ErrorIs(t, err, ErrGuideNotApplicable)
}

func TestAssign_HappyPath(t *testing.T) {
	booking := confirmedBooking(1, destID(10), 3)
	guides := newFakeGuideRepo(&domain.GuideProfile{UserID: 51, DestinationID: 10, Available: true})
	svc := NewService(newFakeBookingRepo(booking), guides, passthroughTx{}, nopLogger{})

	result, err := svc.Assign(context.Background(), 1, 51)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusGuideAssigned, result.Status)
	require.NotNil(t, result.GuideItem().Details.GuideID)
	assert.Equal(t, int64(51), *result.GuideItem().Details.GuideID)

	// Гид снят с доступности
	g, err := guides.GetByUserID(context.Background(), 51)
	require.NoError(t, err)
	assert.False(t, g.Available)
}

func TestAssign_GuideNotEligible(t *testing.T) {
	booking := confirmedBooking(1, destID(10), 3)
	guides := newFakeGuideRepo(&domain.GuideProfile{UserID: 51, DestinationID: 99, Expertise: []int64{8}, Available: true})
	svc := NewService(newFakeBookingRepo(booking), guides, passthroughTx{}, nopLogger{})

	_, err := svc.Assign(context.Background(), 1, 51)
	assert.ErrorIs(t, err, ErrGuideNotEligible)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
}

func TestAssign_AlreadyAssigned(t *testing.T) {
	booking := confirmedBooking(1, destID(10), 3)
	booking.Status = domain.StatusGuideAssigned
	existing := int64(44)
	booking.GuideItem().Details.GuideID = &existing
	guides := newFakeGuideRepo(&domain.GuideProfile{UserID: 51, DestinationID: 10, Available: true})
	svc := NewService(newFakeBookingRepo(booking), guides, passthroughTx{}, nopLogger{})

	_, err := svc.Assign(context.Background(), 1, 51)
	assert.ErrorIs(t, err, ErrGuideAlreadyAssigned)
}

func TestAssign_UnknownGuide(t *testing.T) {
	booking := confirmedBooking(1, destID(10), 3)
	svc := NewService(newFakeBookingRepo(booking), newFakeGuideRepo(), passthroughTx{}, nopLogger{})

	_, err := svc.Assign(context.Background(), 1, 51)
	assert.ErrorIs(t, err, ErrGuideNotFound)
}

func TestAssign_ConcurrentAssignmentsExactlyOneWins(t *testing.T) {
	// Два бронирования конкурируют за одного гида
	first := confirmedBooking(1, destID(10), 3)
	second := confirmedBooking(2, destID(10), 3)
	guides := newFakeGuideRepo(&domain.GuideProfile{UserID: 51, DestinationID: 10, Available: true})
	svc := NewService(newFakeBookingRepo(first, second), guides, passthroughTx{}, nopLogger{})

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, bookingID := range []int64{1, 2} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := svc.Assign(context.Background(), id, 51)
			errs <- err
		}(bookingID)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrGuideConflict)
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
}

func TestSetAvailability(t *testing.T) {
	guides := newFakeGuideRepo(&domain.GuideProfile{UserID: 51, DestinationID: 10, Available: true})
	svc := NewService(newFakeBookingRepo(), guides, passthroughTx{}, nopLogger{})

	require.NoError(t, svc.SetAvailability(context.Background(), 51, false))
	g, err := guides.GetByUserID(context.Background(), 51)
	require.NoError(t, err)
	assert.False(t, g.Available)

	require.NoError(t, svc.SetAvailability(context.Background(), 51, true))
	g, err = guides.GetByUserID(context.Background(), 51)
	require.NoError(t, err)
	assert.True(t, g.Available)

	assert.ErrorIs(t, svc.SetAvailability(context.Background(), 99, true), ErrGuideNotFound)
	assert.ErrorIs(t, svc.SetAvailability(context.Background(), 0, true), ErrInvalidInput)
}
