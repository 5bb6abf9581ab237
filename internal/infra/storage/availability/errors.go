package availability

import "errors"

var (
	// ErrSlotFull возвращается, когда в слоте недостаточно свободных мест
	// Это ожидаемый отказ, а не сбой: вызывающий слой показывает его
	// пользователю как "мест нет"
	ErrSlotFull = errors.New("availability.repository: not enough spots in slot")

	// ErrRecordNotFound возвращается, когда запись доступности отсутствует
	// Отсутствие записи означает, что по слоту еще не было резервирований
	ErrRecordNotFound = errors.New("availability.repository: availability record not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
