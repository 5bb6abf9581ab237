package availability

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func slotDate() time.Time {
	return time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
}

func expectReserve(mock sqlmock.Sqlmock, updatedRows int64) {
	mock.ExpectExec(`INSERT INTO slot_availability`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE slot_availability SET booked_participants`).
		WillReturnResult(sqlmock.NewResult(0, updatedRows))
	if updatedRows > 0 {
		mock.ExpectExec(`INSERT INTO slot_reservations`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

func TestReserve_CapacityScenario(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	ctx := context.Background()

	// Емкость 8: 5 проходит, 4 не влезает, 3 добирает остаток
	expectReserve(mock, 1)
	token, err := repo.Reserve(ctx, 3, slotDate(), "morning", 5, 8)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	expectReserve(mock, 0)
	_, err = repo.Reserve(ctx, 3, slotDate(), "morning", 4, 8)
	assert.ErrorIs(t, err, ErrSlotFull)

	expectReserve(mock, 1)
	second, err := repo.Reserve(ctx, 3, slotDate(), "morning", 3, 8)
	require.NoError(t, err)
	assert.NotEqual(t, token, second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_FullSlotLeavesNoReservationRow(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// Условный UPDATE не сработал: строка резервирования не создается
	expectReserve(mock, 0)

	_, err := repo.Reserve(context.Background(), 3, slotDate(), "morning", 6, 4)
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_InsertFailureCompensatesCounter(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// Инкремент прошел, вставка строки резервирования упала:
	// счетчик компенсируется, места не утекают
	mock.ExpectExec(`INSERT INTO slot_availability`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE slot_availability SET booked_participants`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO slot_reservations`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectExec(`UPDATE slot_availability SET booked_participants`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Reserve(context.Background(), 3, slotDate(), "morning", 5, 8)
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_DecrementsCounterOnce(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery(`UPDATE slot_reservations SET`).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "slot_date", "slot_id", "participants"}).
			AddRow(3, slotDate(), "morning", 5))
	mock.ExpectExec(`UPDATE slot_availability SET booked_participants`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Release(context.Background(), "tok-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_DecrementFailureRestoresReservation(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// Декремент упал: строка возвращается в active, повторный Release
	// сможет довести освобождение до конца
	mock.ExpectQuery(`UPDATE slot_reservations SET`).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "slot_date", "slot_id", "participants"}).
			AddRow(3, slotDate(), "morning", 5))
	mock.ExpectExec(`UPDATE slot_availability SET booked_participants`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectExec(`UPDATE slot_reservations SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Release(context.Background(), "tok-1")
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_UnknownTokenIsNoop(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// Токен неизвестен или уже освобожден: счетчик не трогаем
	mock.ExpectQuery(`UPDATE slot_reservations SET`).
		WillReturnError(sql.ErrNoRows)

	require.NoError(t, repo.Release(context.Background(), "tok-gone"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseByBooking_ReleasesAllActiveReservations(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT token FROM slot_reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow("tok-1").AddRow("tok-2"))

	for range []string{"tok-1", "tok-2"} {
		mock.ExpectQuery(`UPDATE slot_reservations SET`).
			WillReturnRows(sqlmock.NewRows([]string{"activity_id", "slot_date", "slot_id", "participants"}).
				AddRow(3, slotDate(), "morning", 2))
		mock.ExpectExec(`UPDATE slot_availability SET booked_participants`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, repo.ReleaseByBooking(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachBooking_NoTokensIsNoop(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	require.NoError(t, repo.AttachBooking(context.Background(), nil, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_ReturnsRecord(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT activity_id, slot_date, slot_id, booked_participants, max_participants FROM slot_availability`).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "slot_date", "slot_id", "booked_participants", "max_participants"}).
			AddRow(3, slotDate(), "morning", 5, 8))

	record, err := repo.Query(context.Background(), 3, slotDate(), "morning")
	require.NoError(t, err)
	assert.Equal(t, 5, record.BookedParticipants)
	assert.Equal(t, 8, record.MaxParticipants)
}

func TestQuery_NotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT activity_id, slot_date, slot_id, booked_participants, max_participants FROM slot_availability`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Query(context.Background(), 3, slotDate(), "morning")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
