package update_guide_availability

// UpdateAvailabilityRequest HTTP request model
type UpdateAvailabilityRequest struct {
	Available bool `json:"available"`
}
