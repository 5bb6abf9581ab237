package update_guide_availability

import "context"

type GuideService interface {
	SetAvailability(ctx context.Context, guideID int64, available bool) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
