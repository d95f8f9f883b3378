package request

import "picnify/pkg/utils"

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"omitempty,min=1"`
	PerPage int `json:"per_page" validate:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults and clamps out-of-range values.
func (p *PaginatedRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return defaultPerPage
	}
	if p.PerPage > maxPerPage {
		return maxPerPage
	}
	return p.PerPage
}
