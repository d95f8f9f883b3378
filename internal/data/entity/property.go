package entity

import "github.com/google/uuid"

type PropertyType string

const (
	PropertyTypeDayPicnic PropertyType = "day_picnic"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeResort    PropertyType = "resort"
)

type Property struct {
	Base
	OwnerID     uuid.UUID    `db:"owner_id"`
	Title       string       `db:"title"`
	Description *string      `db:"description"`
	Type        PropertyType `db:"property_type"`
	City        string       `db:"city"`
	Address     string       `db:"address"`
	AdultRate   int64        `db:"adult_rate"` // paise
	ChildRate   int64        `db:"child_rate"` // paise
	MaxGuests   int          `db:"max_guests"`
	Rating      float64      `db:"rating"`
	IsActive    bool         `db:"is_active"`
}
