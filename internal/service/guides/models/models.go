// Package models HTTP-представления профилей гидов
package models

import "github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"

// GuideResponse HTTP-представление профиля гида
type GuideResponse struct {
	UserID        int64   `json:"userId"`
	DestinationID int64   `json:"destinationId"`
	Bio           string  `json:"bio,omitempty"`
	Expertise     []int64 `json:"expertise"`
	Available     bool    `json:"available"`
}

// FromDomain конвертирует доменный профиль гида в HTTP-представление
func FromDomain(g *domain.GuideProfile) *GuideResponse {
	expertise := g.Expertise
	if expertise == nil {
		expertise = []int64{}
	}
	return &GuideResponse{
		UserID:        g.UserID,
		DestinationID: g.DestinationID,
		Bio:           g.Bio,
		Expertise:     expertise,
		Available:     g.Available,
	}
}

// FromDomainList конвертирует список профилей
func FromDomainList(guides []*domain.GuideProfile) []*GuideResponse {
	result := make([]*GuideResponse, len(guides))
	for i, g := range guides {
		result[i] = FromDomain(g)
	}
	return result
}
