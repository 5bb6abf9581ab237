package bookings

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому туристу
	ErrAccessDenied = errors.New("bookings: access denied")

	// ErrCannotCancel возвращается при попытке отменить завершенное бронирование
	ErrCannotCancel = errors.New("bookings: completed booking cannot be cancelled")

	// ErrPaymentConflict возвращается, когда платежное событие приходит
	// для отмененного бронирования
	ErrPaymentConflict = errors.New("bookings: booking is cancelled, payment cannot be applied")

	// ErrItemNotFound возвращается, когда позиция бронирования не найдена
	ErrItemNotFound = errors.New("bookings: booking item not found")

	// ErrItemNotConfirmable возвращается для позиций, не требующих
	// подтверждения провайдера
	ErrItemNotConfirmable = errors.New("bookings: item does not require provider confirmation")

	// ErrItemAlreadyConfirmed возвращается при повторном подтверждении позиции
	ErrItemAlreadyConfirmed = errors.New("bookings: item already confirmed")

	// ErrBookingNotPaid возвращается при подтверждении позиции неоплаченного
	// или отмененного бронирования
	ErrBookingNotPaid = errors.New("bookings: booking is not paid")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
