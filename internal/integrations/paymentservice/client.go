package paymentservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с PaymentService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetPaymentStatus получает статус платежа по бронированию
func (c *Client) GetPaymentStatus(ctx context.Context, bookingID int64) (*PaymentStatus, error) {
	url := fmt.Sprintf("%s/internal/payments/bookings/%d", c.baseURL, bookingID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid booking ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrPaymentNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var status PaymentStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &status, nil
}

// GetPaymentStatusWithGracefulDegradation получает статус платежа с graceful degradation
// При недоступности PaymentService возвращает ErrServiceDegraded: колбэк платежа
// считается достоверным, и сервис продолжает без перекрестной проверки
func (c *Client) GetPaymentStatusWithGracefulDegradation(ctx context.Context, bookingID int64) (*PaymentStatus, error) {
	c.log.Info("Fetching payment status for booking id=%d", bookingID)

	status, err := c.GetPaymentStatus(ctx, bookingID)
	if err != nil {
		// Отсутствие платежа - бизнес-ошибка, пробрасываем дальше
		if errors.Is(err, ErrPaymentNotFound) {
			c.log.Info("No payment found for booking id=%d", bookingID)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("PaymentService unavailable, applying graceful degradation for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: booking id=%d, error=%v", ErrServiceDegraded, bookingID, err)
	}

	c.log.Info("Payment status for booking id=%d: %s", bookingID, status.Status)
	return status, nil
}
