package catalog

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

// Repository read-only репозиторий справочных данных каталога:
// направления, активности (со слотами и датами проведения), маршруты, отели.
// Каталог наполняется внешней админкой; движок бронирования его только читает
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetDestination получает направление по ID
func (r *Repository) GetDestination(ctx context.Context, id int64) (*domain.Destination, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "day_rate").
		From("destinations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDestination - build select query: %v", ErrBuildQuery, err)
	}

	var dest domain.Destination
	err = executor.QueryRowContext(ctx, query, args...).Scan(&dest.ID, &dest.Name, &dest.DayRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDestinationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDestination - scan destination: %v", ErrScanRow, err)
	}

	return &dest, nil
}

// GetActivity получает активность со слотами и датами проведения
func (r *Repository) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "destination_id", "name", "price").
		From("activities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActivity - build select query: %v", ErrBuildQuery, err)
	}

	var activity domain.Activity
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&activity.ID,
		&activity.DestinationID,
		&activity.Name,
		&activity.Price,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActivity - scan activity: %v", ErrScanRow, err)
	}

	activity.TimeSlots, err = r.getTimeSlots(ctx, executor, id)
	if err != nil {
		return nil, err
	}

	activity.AvailableDates, err = r.getAvailableDates(ctx, executor, id)
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

// GetTransportRoute получает транспортный маршрут по ID
func (r *Repository) GetTransportRoute(ctx context.Context, id int64) (*domain.TransportRoute, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "destination_id", "name", "origin", "cost").
		From("transport_routes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTransportRoute - build select query: %v", ErrBuildQuery, err)
	}

	var route domain.TransportRoute
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&route.ID,
		&route.DestinationID,
		&route.Name,
		&route.Origin,
		&route.Cost,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTransportRoute - scan route: %v", ErrScanRow, err)
	}

	return &route, nil
}

// GetHotel получает отель по ID
func (r *Repository) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "destination_id", "name", "night_rate").
		From("hotels").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetHotel - build select query: %v", ErrBuildQuery, err)
	}

	var hotel domain.Hotel
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hotel.ID,
		&hotel.DestinationID,
		&hotel.Name,
		&hotel.NightRate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetHotel - scan hotel: %v", ErrScanRow, err)
	}

	return &hotel, nil
}

// getTimeSlots получает слоты активности в порядке их следования
func (r *Repository) getTimeSlots(ctx context.Context, executor DBExecutor, activityID int64) ([]domain.TimeSlot, error) {
	query, args, err := psqlbuilder.Select("slot_id", "start_time", "end_time", "max_participants").
		From("activity_time_slots").
		Where(squirrel.Eq{"activity_id": activityID}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getTimeSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getTimeSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.TimeSlot, 0)
	for rows.Next() {
		var slot domain.TimeSlot
		if err := rows.Scan(&slot.SlotID, &slot.StartTime, &slot.EndTime, &slot.MaxParticipants); err != nil {
			return nil, fmt.Errorf("%w: getTimeSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getTimeSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// getAvailableDates получает даты проведения активности
// available_slots хранится как text[]; пустой массив = включены все слоты
func (r *Repository) getAvailableDates(ctx context.Context, executor DBExecutor, activityID int64) ([]domain.ActivityDate, error) {
	query, args, err := psqlbuilder.Select("date", "available_slots").
		From("activity_available_dates").
		Where(squirrel.Eq{"activity_id": activityID}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getAvailableDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getAvailableDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]domain.ActivityDate, 0)
	for rows.Next() {
		var date domain.ActivityDate
		var slots pq.StringArray
		if err := rows.Scan(&date.Date, &slots); err != nil {
			return nil, fmt.Errorf("%w: getAvailableDates - scan date: %v", ErrScanRow, err)
		}
		date.AvailableSlots = []string(slots)
		dates = append(dates, date)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getAvailableDates - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}
