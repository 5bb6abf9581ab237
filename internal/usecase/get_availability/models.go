package get_availability

import "time"

// Request модель запроса доступности слота активности
type Request struct {
	ActivityID int64
	Date       time.Time
	SlotID     string
}

// Response модель ответа с текущей доступностью слота
// BookedSpots отражает только активные резервации; освобожденные места
// возвращаются в AvailableSpots
type Response struct {
	ActivityID     int64
	Date           string
	SlotID         string
	TotalSpots     int
	BookedSpots    int
	AvailableSpots int
	Available      bool
}
