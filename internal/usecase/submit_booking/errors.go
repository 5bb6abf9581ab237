package submit_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	// Сообщение называет конкретное поле
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrNoServiceSelected возвращается, когда не выбрана ни одна услуга
	// Placeholder существует для невыбранных подуслуг, а не для полностью
	// пустого бронирования
	ErrNoServiceSelected = errors.New("submit_booking: at least one service must be selected")

	// ErrDestinationNotFound возвращается, когда направление не найдено в каталоге
	ErrDestinationNotFound = errors.New("submit_booking: destination not found")

	// ErrActivityNotFound возвращается, когда активность не найдена в каталоге
	ErrActivityNotFound = errors.New("submit_booking: activity not found")

	// ErrRouteNotFound возвращается, когда транспортный маршрут не найден в каталоге
	ErrRouteNotFound = errors.New("submit_booking: transport route not found")

	// ErrHotelNotFound возвращается, когда отель не найден в каталоге
	ErrHotelNotFound = errors.New("submit_booking: hotel not found")

	// ErrActivityNotScheduled возвращается, когда активность не проводится
	// в запрошенную дату или слот выключен на эту дату; сообщение называет дату
	ErrActivityNotScheduled = errors.New("submit_booking: activity is not scheduled")

	// ErrSlotNotDefined возвращается, когда у активности нет такого слота
	ErrSlotNotDefined = errors.New("submit_booking: time slot is not defined for activity")

	// ErrSlotFull возвращается, когда в слоте не хватает мест
	// Сообщение называет активность, дату и слот, чтобы UI мог предложить замену
	ErrSlotFull = errors.New("submit_booking: not enough spots in slot")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)
