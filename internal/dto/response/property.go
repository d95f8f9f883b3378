package response

import (
	"time"

	"picnify/internal/data/entity"
	"picnify/pkg/utils"
)

type PropertyResponse struct {
	ID             string              `json:"id"`
	OwnerID        string              `json:"owner_id"`
	Title          string              `json:"title"`
	Description    *string             `json:"description,omitempty"`
	Type           entity.PropertyType `json:"property_type"`
	City           string              `json:"city"`
	Address        string              `json:"address"`
	AdultRate      int64               `json:"adult_rate"`
	ChildRate      int64               `json:"child_rate"`
	AdultRateLabel string              `json:"adult_rate_label"`
	ChildRateLabel string              `json:"child_rate_label"`
	MaxGuests      int                 `json:"max_guests"`
	Rating         float64             `json:"rating"`
	IsActive       bool                `json:"is_active"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func PropertyToResponse(p *entity.Property) PropertyResponse {
	return PropertyResponse{
		ID:             p.ID.String(),
		OwnerID:        p.OwnerID.String(),
		Title:          p.Title,
		Description:    p.Description,
		Type:           p.Type,
		City:           p.City,
		Address:        p.Address,
		AdultRate:      p.AdultRate,
		ChildRate:      p.ChildRate,
		AdultRateLabel: utils.FormatINR(p.AdultRate),
		ChildRateLabel: utils.FormatINR(p.ChildRate),
		MaxGuests:      p.MaxGuests,
		Rating:         p.Rating,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
