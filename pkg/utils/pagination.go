package utils

import "math"

// CalculateTotalPages rounds up; an empty result set has zero pages.
func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	pages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		pages++
	}
	return int(pages)
}

// CalculateOffset turns a 1-based page into a row offset. Pages far past the
// end saturate at math.MaxInt32 so the offset stays a valid SQL OFFSET.
func CalculateOffset(page, perPage int) int {
	if page < 1 || perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt32/perPage {
		return math.MaxInt32
	}
	return (page - 1) * perPage
}
