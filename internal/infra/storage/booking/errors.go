package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrItemNotFound возвращается, когда позиция бронирования не найдена
	ErrItemNotFound = errors.New("booking.repository: booking item not found")

	// ErrStatusConflict возвращается, когда условный переход статуса не сработал:
	// текущий статус не совпал с ожидаемым (проигрыш гонки или недопустимый переход)
	ErrStatusConflict = errors.New("booking.repository: booking status conflict")

	// ErrItemAlreadyConfirmed возвращается при повторном подтверждении позиции
	ErrItemAlreadyConfirmed = errors.New("booking.repository: item already confirmed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
