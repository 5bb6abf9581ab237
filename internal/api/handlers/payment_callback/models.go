package payment_callback

// Статусы платежа в колбэке PaymentService
const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// PaymentCallbackRequest HTTP request model
type PaymentCallbackRequest struct {
	BookingID int64  `json:"bookingId"`
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"` // succeeded | failed
	Reason    string `json:"reason,omitempty"`
}
