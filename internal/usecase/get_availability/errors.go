package get_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrActivityNotFound возвращается, когда активность не найдена в каталоге
	ErrActivityNotFound = errors.New("get_availability: activity not found")

	// ErrSlotNotDefined возвращается, когда у активности нет такого слота
	ErrSlotNotDefined = errors.New("get_availability: time slot is not defined for activity")

	// ErrActivityNotScheduled возвращается, когда активность не проводится
	// в запрошенную дату или слот выключен на эту дату
	ErrActivityNotScheduled = errors.New("get_availability: activity is not scheduled")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
