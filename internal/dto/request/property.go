package request

type CreatePropertyRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type        string  `json:"property_type" validate:"required,oneof=day_picnic villa resort"`
	City        string  `json:"city" validate:"required,max=100"`
	Address     string  `json:"address" validate:"required,max=300"`
	AdultRate   int64   `json:"adult_rate" validate:"min=0,max=1000000000"`
	ChildRate   int64   `json:"child_rate" validate:"min=0,max=1000000000"`
	MaxGuests   int     `json:"max_guests" validate:"required,min=1,max=1000"`
}

type UpdatePropertyRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type        *string `json:"property_type,omitempty" validate:"omitempty,oneof=day_picnic villa resort"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=300"`
	AdultRate   *int64  `json:"adult_rate,omitempty" validate:"omitempty,min=0,max=1000000000"`
	ChildRate   *int64  `json:"child_rate,omitempty" validate:"omitempty,min=0,max=1000000000"`
	MaxGuests   *int    `json:"max_guests,omitempty" validate:"omitempty,min=1,max=1000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type PropertyListRequest struct {
	PaginatedRequest
	City string `json:"city,omitempty"`
	Type string `json:"property_type,omitempty" validate:"omitempty,oneof=day_picnic villa resort"`
}
