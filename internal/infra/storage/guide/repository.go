package guide

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/dbmetrics"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/psqlbuilder"
)

// guideColumns колонки таблицы guide_profiles в порядке сканирования
var guideColumns = []string{
	"user_id",
	"destination_id",
	"bio",
	"expertise",
	"available",
	"created_at",
	"updated_at",
}

// Repository репозиторий профилей гидов
// Назначение гида — условный UPDATE available: два конкурентных назначения
// одного гида не могут выиграть оба
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория гидов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUserID получает профиль гида по ID пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.GuideProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(guideColumns...).
		From("guide_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	var profile domain.GuideProfile
	var expertise pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&profile.UserID,
		&profile.DestinationID,
		&profile.Bio,
		&expertise,
		&profile.Available,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - scan guide: %v", ErrScanRow, err)
	}

	profile.Expertise = []int64(expertise)
	profile.CreatedAt = createdAt.Time
	profile.UpdatedAt = updatedAt.Time

	return &profile, nil
}

// ListCandidates получает свободных гидов, подходящих бронированию:
// совпадение по направлению или пересечение экспертизы с активностями.
// Сортировка по user_id фиксирует порядок — повторный запрос по тому же
// снимку данных возвращает тот же список
func (r *Repository) ListCandidates(ctx context.Context, destinationID *int64, activityIDs []int64) ([]*domain.GuideProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	match := squirrel.Or{}
	if destinationID != nil {
		match = append(match, squirrel.Eq{"destination_id": *destinationID})
	}
	if len(activityIDs) > 0 {
		match = append(match, squirrel.Expr("expertise && ?", pq.Array(activityIDs)))
	}
	if len(match) == 0 {
		return []*domain.GuideProfile{}, nil
	}

	query, args, err := psqlbuilder.Select(guideColumns...).
		From("guide_profiles").
		Where(squirrel.Eq{"available": true}).
		Where(match).
		OrderBy("user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	profiles := make([]*domain.GuideProfile, 0)
	for rows.Next() {
		var profile domain.GuideProfile
		var expertise pq.Int64Array
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&profile.UserID,
			&profile.DestinationID,
			&profile.Bio,
			&expertise,
			&profile.Available,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListCandidates - scan guide: %v", ErrScanRow, err)
		}

		profile.Expertise = []int64(expertise)
		profile.CreatedAt = createdAt.Time
		profile.UpdatedAt = updatedAt.Time
		profiles = append(profiles, &profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListCandidates - rows error: %v", ErrScanRow, err)
	}

	return profiles, nil
}

// Acquire атомарно занимает гида: available true -> false
// Ноль затронутых строк — гид уже занят (ErrGuideUnavailable)
func (r *Repository) Acquire(ctx context.Context, userID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("guide_profiles").
		Set("available", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "available": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Acquire - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Acquire - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Acquire - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrGuideUnavailable
	}

	return nil
}

// Release возвращает гида в пул свободных: available -> true
// Идемпотентен: освобождение уже свободного гида — no-op
func (r *Repository) Release(ctx context.Context, userID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("guide_profiles").
		Set("available", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "available": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// SetAvailability выставляет флаг доступности гидом (self-service)
func (r *Repository) SetAvailability(ctx context.Context, userID int64, available bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("guide_profiles").
		Set("available", available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrGuideNotFound
	}

	return nil
}
