package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/dbmetrics"
	"github.com/tinnohofficial/SmartTour-BookingEngine/pkg/psqlbuilder"
)

// bookingColumns колонки таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"tourist_id",
	"destination_id",
	"start_date",
	"end_date",
	"status",
	"total_cost",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// itemColumns колонки таблицы booking_items в порядке сканирования
var itemColumns = []string{
	"id",
	"booking_id",
	"item_type",
	"reference_id",
	"name",
	"cost",
	"item_details",
	"provider_status",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований и их позиций
// Статус бронирования меняется только условными UPDATE (сравнение с ожидаемым
// статусом), поэтому конкурентные переходы по одному бронированию не теряются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование вместе со всеми позициями
// Вызывается внутри транзакции: либо сохраняется все, либо ничего
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("tourist_id", "destination_id", "start_date", "end_date", "status", "total_cost").
		Values(
			booking.TouristID,
			booking.DestinationID,
			booking.StartDate,
			booking.EndDate,
			booking.Status,
			booking.TotalCost,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	for _, item := range booking.Items {
		item.BookingID = booking.ID
		if err := r.createItem(ctx, executor, item); err != nil {
			return nil, err
		}
	}

	return booking, nil
}

// GetByID получает бронирование со всеми позициями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: переходы статуса и проверка
	// завершенности позиций не должны гоняться между собой
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	booking.Items, err = r.getItems(ctx, executor, booking.ID)
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByTouristID получает бронирования туриста с позициями
// Опционально фильтрует по статусу; сортировка — новые первыми
func (r *Repository) GetByTouristID(ctx context.Context, touristID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"tourist_id": touristID}).
		OrderBy("created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTouristID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTouristID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}

	for _, booking := range bookings {
		booking.Items, err = r.getItems(ctx, executor, booking.ID)
		if err != nil {
			return nil, err
		}
	}

	return bookings, nil
}

// ListExpiredPending получает бронирования, зависшие в pending_payment
// дольше допустимого окна оплаты
func (r *Repository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPendingPayment}).
		Where(squirrel.Lt{"created_at": cutoff}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// TransitionStatus условный переход статуса: UPDATE срабатывает, только если
// текущий статус равен from. Ноль затронутых строк — проигранная гонка или
// недопустимый переход (ErrStatusConflict), вызывающий решает, что делать
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// Cancel переводит бронирование в cancelled с причиной
// Условие на текущий статус сохраняет идемпотентность отмены на уровне сервиса
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// GetItemByID получает позицию бронирования по ID
func (r *Repository) GetItemByID(ctx context.Context, itemID int64) (*domain.BookingItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(itemColumns...).
		From("booking_items").
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetItemByID - build select query: %v", ErrBuildQuery, err)
	}

	var item domain.BookingItem
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&item.ID,
		&item.BookingID,
		&item.ItemType,
		&item.ReferenceID,
		&item.Name,
		&item.Cost,
		&item.Details,
		&item.ProviderStatus,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetItemByID - scan item: %v", ErrScanRow, err)
	}

	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return &item, nil
}

// ConfirmItem подтверждает позицию провайдером и сохраняет детали
// Условие provider_status = 'pending' защищает от двойного подтверждения
func (r *Repository) ConfirmItem(ctx context.Context, itemID int64, details domain.ItemDetails) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_items").
		Set("provider_status", domain.ProviderConfirmed).
		Set("item_details", details).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID, "provider_status": domain.ProviderPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ConfirmItem - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ConfirmItem - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ConfirmItem - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrItemAlreadyConfirmed
	}

	return nil
}

// UpdateItemDetails обновляет детали позиции без смены provider_status
// Используется при назначении гида на позицию tour_guide
func (r *Repository) UpdateItemDetails(ctx context.Context, itemID int64, details domain.ItemDetails) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_items").
		Set("item_details", details).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateItemDetails - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateItemDetails - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateItemDetails - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// createItem сохраняет одну позицию бронирования
func (r *Repository) createItem(ctx context.Context, executor DBExecutor, item *domain.BookingItem) error {
	query, args, err := psqlbuilder.Insert("booking_items").
		Columns("booking_id", "item_type", "reference_id", "name", "cost", "item_details", "provider_status").
		Values(
			item.BookingID,
			item.ItemType,
			item.ReferenceID,
			item.Name,
			item.Cost,
			item.Details,
			item.ProviderStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: createItem - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&item.ID, &createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("%w: createItem - execute insert: %v", ErrExecQuery, err)
	}

	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return nil
}

// getItems получает позиции бронирования в порядке создания
func (r *Repository) getItems(ctx context.Context, executor DBExecutor, bookingID int64) ([]*domain.BookingItem, error) {
	query, args, err := psqlbuilder.Select(itemColumns...).
		From("booking_items").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.BookingItem, 0)
	for rows.Next() {
		var item domain.BookingItem
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.ItemType,
			&item.ReferenceID,
			&item.Name,
			&item.Cost,
			&item.Details,
			&item.ProviderStatus,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: getItems - scan item: %v", ErrScanRow, err)
		}

		item.CreatedAt = createdAt.Time
		item.UpdatedAt = updatedAt.Time
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getItems - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

// scanBooking сканирует одну строку бронирования
func (r *Repository) scanBooking(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.TouristID,
		&booking.DestinationID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.Status,
		&booking.TotalCost,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanBooking - scan booking: %v", ErrScanRow, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.TouristID,
			&booking.DestinationID,
			&booking.StartDate,
			&booking.EndDate,
			&booking.Status,
			&booking.TotalCost,
			&booking.CancellationReason,
			&booking.CancelledAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
