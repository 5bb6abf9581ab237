package assign_guide

// AssignGuideRequest HTTP request model
type AssignGuideRequest struct {
	GuideID int64 `json:"guideId"`
}
