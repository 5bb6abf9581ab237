package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/dbmetrics"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/psqlbuilder"
)

// Repository леджер доступности: счетчики занятых мест по ключу
// (activity_id, date, slot_id) и строки резервирований с токенами.
//
// Гарантия at-most-capacity обеспечивается тем, что проверка и инкремент
// счетчика выполняются одним условным UPDATE: конкурентные Reserve по одному
// ключу не могут в сумме превысить max_participants независимо от
// чередования запросов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Reserve атомарно резервирует места в слоте
// Возвращает токен резервирования или ErrSlotFull, если мест не хватает
//
// Последовательность:
//  1. INSERT ... ON CONFLICT DO NOTHING — создаем счетчик при первом обращении
//  2. UPDATE ... WHERE booked + n <= max — единственная точка проверки емкости
//  3. INSERT строки резервирования с токеном
func (r *Repository) Reserve(
	ctx context.Context,
	activityID int64,
	date time.Time,
	slotID string,
	participants int,
	maxParticipants int,
) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if err := r.ensureRecord(ctx, executor, activityID, date, slotID, maxParticipants); err != nil {
		return "", err
	}

	query, args, err := psqlbuilder.Update("slot_availability").
		Set("booked_participants", squirrel.Expr("booked_participants + ?", participants)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"activity_id": activityID,
			"slot_date":   date,
			"slot_id":     slotID,
		}).
		Where(squirrel.Expr("booked_participants + ? <= max_participants", participants)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	// Условие booked + n <= max не выполнилось: мест нет
	if rowsAffected == 0 {
		return "", ErrSlotFull
	}

	token := uuid.NewString()

	query, args, err = psqlbuilder.Insert("slot_reservations").
		Columns("token", "activity_id", "slot_date", "slot_id", "participants", "status").
		Values(token, activityID, date, slotID, participants, domain.ReservationActive).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: Reserve - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		// Инкремент уже зафиксирован, а токена не будет: компенсируем
		// счетчик, иначе места утекут без пути освобождения
		if derr := r.decrement(ctx, executor, activityID, date, slotID, participants); derr != nil {
			return "", fmt.Errorf("%w: Reserve - insert reservation: %v (compensating decrement failed: %v)",
				ErrExecQuery, err, derr)
		}
		return "", fmt.Errorf("%w: Reserve - insert reservation: %v", ErrExecQuery, err)
	}

	return token, nil
}

// Release освобождает резервирование по токену
// Идемпотентен: повторный Release или неизвестный токен — no-op, счетчик
// уменьшается ровно один раз благодаря условию status = 'active'
func (r *Repository) Release(ctx context.Context, token string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_reservations").
		Set("status", domain.ReservationReleased).
		Set("released_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"token": token, "status": domain.ReservationActive}).
		Suffix("RETURNING activity_id, slot_date, slot_id, participants").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	var (
		activityID   int64
		date         time.Time
		slotID       string
		participants int
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(&activityID, &date, &slotID, &participants)
	if errors.Is(err, sql.ErrNoRows) {
		// Токен неизвестен или уже освобожден
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: Release - release reservation: %v", ErrExecQuery, err)
	}

	if err := r.decrement(ctx, executor, activityID, date, slotID, participants); err != nil {
		// Счетчик не уменьшился: возвращаем резервирование в active,
		// чтобы повторный Release довел работу до конца
		if rerr := r.restoreReservation(ctx, executor, token); rerr != nil {
			return fmt.Errorf("%w (restore reservation failed: %v)", err, rerr)
		}
		return err
	}

	return nil
}

// restoreReservation возвращает строку резервирования в active после
// неудавшегося декремента счетчика
func (r *Repository) restoreReservation(ctx context.Context, executor DBExecutor, token string) error {
	query, args, err := psqlbuilder.Update("slot_reservations").
		Set("status", domain.ReservationActive).
		Set("released_at", nil).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: restoreReservation - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: restoreReservation - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// ReleaseByBooking освобождает все активные резервирования бронирования
// Используется при отмене; идемпотентен
func (r *Repository) ReleaseByBooking(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("token").
		From("slot_reservations").
		Where(squirrel.Eq{"booking_id": bookingID, "status": domain.ReservationActive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReleaseByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	tokens := make([]string, 0)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return fmt.Errorf("%w: ReleaseByBooking - scan token: %v", ErrScanRow, err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: ReleaseByBooking - rows error: %v", ErrScanRow, err)
	}

	for _, token := range tokens {
		if err := r.Release(ctx, token); err != nil {
			return err
		}
	}

	return nil
}

// AttachBooking привязывает резервирования к сохраненному бронированию
func (r *Repository) AttachBooking(ctx context.Context, tokens []string, bookingID int64) error {
	if len(tokens) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_reservations").
		Set("booking_id", bookingID).
		Where(squirrel.Eq{"token": tokens}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AttachBooking - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Query возвращает зафиксированное состояние счетчика слота
// Читает закоммиченные данные без кеширования
func (r *Repository) Query(ctx context.Context, activityID int64, date time.Time, slotID string) (*domain.SlotAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("activity_id", "slot_date", "slot_id", "booked_participants", "max_participants").
		From("slot_availability").
		Where(squirrel.Eq{
			"activity_id": activityID,
			"slot_date":   date,
			"slot_id":     slotID,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Query - build select query: %v", ErrBuildQuery, err)
	}

	var record domain.SlotAvailability
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&record.ActivityID,
		&record.Date,
		&record.SlotID,
		&record.BookedParticipants,
		&record.MaxParticipants,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Query - scan record: %v", ErrScanRow, err)
	}

	return &record, nil
}

// ensureRecord создает запись счетчика при первом резервировании по ключу
func (r *Repository) ensureRecord(
	ctx context.Context,
	executor DBExecutor,
	activityID int64,
	date time.Time,
	slotID string,
	maxParticipants int,
) error {
	query, args, err := psqlbuilder.Insert("slot_availability").
		Columns("activity_id", "slot_date", "slot_id", "booked_participants", "max_participants").
		Values(activityID, date, slotID, 0, maxParticipants).
		Suffix("ON CONFLICT (activity_id, slot_date, slot_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ensureRecord - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ensureRecord - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// decrement уменьшает счетчик занятых мест, не опускаясь ниже нуля
func (r *Repository) decrement(
	ctx context.Context,
	executor DBExecutor,
	activityID int64,
	date time.Time,
	slotID string,
	participants int,
) error {
	query, args, err := psqlbuilder.Update("slot_availability").
		Set("booked_participants", squirrel.Expr("GREATEST(booked_participants - ?, 0)", participants)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"activity_id": activityID,
			"slot_date":   date,
			"slot_id":     slotID,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: decrement - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: decrement - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
