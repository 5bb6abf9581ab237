package paymentservice

import "time"

// PaymentStatus статус платежа по бронированию
type PaymentStatus struct {
	PaymentID string     `json:"paymentId"`
	BookingID int64      `json:"bookingId"`
	Status    string     `json:"status"` // pending | succeeded | failed
	Amount    float64    `json:"amount"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}

// Succeeded возвращает true, если платеж прошел успешно
func (p *PaymentStatus) Succeeded() bool {
	return p.Status == "succeeded"
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
