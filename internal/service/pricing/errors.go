package pricing

import "errors"

var (
	// ErrInvalidDateRange возвращается, когда конец поездки не позже начала
	ErrInvalidDateRange = errors.New("pricing: end date must be after start date")

	// ErrInvalidParticipants возвращается при неположительном числе участников
	ErrInvalidParticipants = errors.New("pricing: participants must be positive")
)
