package catalog

import "errors"

var (
	// ErrDestinationNotFound возвращается, когда направление не найдено
	ErrDestinationNotFound = errors.New("catalog.repository: destination not found")

	// ErrActivityNotFound возвращается, когда активность не найдена
	ErrActivityNotFound = errors.New("catalog.repository: activity not found")

	// ErrRouteNotFound возвращается, когда транспортный маршрут не найден
	ErrRouteNotFound = errors.New("catalog.repository: transport route not found")

	// ErrHotelNotFound возвращается, когда отель не найден
	ErrHotelNotFound = errors.New("catalog.repository: hotel not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
