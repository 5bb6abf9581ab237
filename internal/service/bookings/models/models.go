// Package models HTTP-представления бронирований, разделяемые хендлерами
package models

import (
	"time"

	"github.com/tinnohofficial/SmartTour-BookingEngine/internal/domain"
)

// BookingItemResponse HTTP-представление позиции бронирования
type BookingItemResponse struct {
	ID             int64              `json:"id"`
	ItemType       string             `json:"itemType"`
	ReferenceID    *int64             `json:"referenceId,omitempty"`
	Name           string             `json:"name"`
	Cost           float64            `json:"cost"`
	ProviderStatus string             `json:"providerStatus"`
	Details        domain.ItemDetails `json:"details"`
}

// BookingResponse HTTP-представление бронирования
type BookingResponse struct {
	ID                 int64                 `json:"id"`
	TouristID          int64                 `json:"touristId"`
	DestinationID      *int64                `json:"destinationId,omitempty"`
	StartDate          string                `json:"startDate"`
	EndDate            string                `json:"endDate"`
	Status             string                `json:"status"`
	TotalCost          float64               `json:"totalCost"`
	Items              []BookingItemResponse `json:"items"`
	CancellationReason *string               `json:"cancellationReason,omitempty"`
	CancelledAt        *string               `json:"cancelledAt,omitempty"`
	CreatedAt          string                `json:"createdAt"`
	UpdatedAt          string                `json:"updatedAt"`
}

// FromDomain конвертирует доменное бронирование в HTTP-представление
func FromDomain(b *domain.Booking) *BookingResponse {
	items := make([]BookingItemResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = BookingItemResponse{
			ID:             item.ID,
			ItemType:       string(item.ItemType),
			ReferenceID:    item.ReferenceID,
			Name:           item.Name,
			Cost:           item.Cost,
			ProviderStatus: string(item.ProviderStatus),
			Details:        item.Details,
		}
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		TouristID:          b.TouristID,
		DestinationID:      b.DestinationID,
		StartDate:          b.StartDate.Format(domain.DateFormat),
		EndDate:            b.EndDate.Format(domain.DateFormat),
		Status:             string(b.Status),
		TotalCost:          b.TotalCost,
		Items:              items,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainList конвертирует список бронирований
func FromDomainList(bookings []*domain.Booking) []*BookingResponse {
	result := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = FromDomain(b)
	}
	return result
}
