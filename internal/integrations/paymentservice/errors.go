package paymentservice

import "errors"

var (
	// ErrPaymentNotFound платеж по бронированию не найден
	ErrPaymentNotFound = errors.New("paymentservice: payment not found")

	// ErrInvalidResponse некорректный ответ от PaymentService
	ErrInvalidResponse = errors.New("paymentservice: invalid response")

	// ErrServiceDegraded PaymentService недоступен, применяется graceful degradation
	ErrServiceDegraded = errors.New("paymentservice: service degraded")

	// ErrInternal внутренняя ошибка клиента
	ErrInternal = errors.New("paymentservice: internal error")
)
