package domain

import "time"

// GuideProfile a tour guide available for assignment to confirmed bookings
// Available означает строго "может получить новое назначение": текущие
// назначения отслеживаются через позицию tour_guide бронирования, а не
// выводятся из этого флага
type GuideProfile struct {
	UserID        int64
	DestinationID int64
	Bio           string
	Expertise     []int64 // id активностей, которые гид может сопровождать
	Available     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchesDestination возвращает true, если гид работает в указанном направлении
func (g *GuideProfile) MatchesDestination(destinationID *int64) bool {
	return destinationID != nil && g.DestinationID == *destinationID
}

// QualifiedForAny возвращает true, если экспертиза гида пересекается
// с перечисленными активностями
func (g *GuideProfile) QualifiedForAny(activityIDs []int64) bool {
	for _, id := range activityIDs {
		for _, exp := range g.Expertise {
			if exp == id {
				return true
			}
		}
	}
	return false
}

// EligibleFor возвращает true, если гид подходит бронированию:
// свободен и совпадает по направлению или хотя бы одной активности
func (g *GuideProfile) EligibleFor(destinationID *int64, activityIDs []int64) bool {
	if !g.Available {
		return false
	}
	return g.MatchesDestination(destinationID) || g.QualifiedForAny(activityIDs)
}
