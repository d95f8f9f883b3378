package pricing

import "fmt"

const (
	InfantMaxAge = 4
	ChildMaxAge  = 12
)

// MaxGuestRate caps a per-guest rate at ₹1,00,00,000 so party totals
// stay far from int64 overflow.
const MaxGuestRate int64 = 1_000_000_000

const MaxPartySize = 1000

// GuestRates are per-guest prices in paise.
type GuestRates struct {
	AdultRate int64
	ChildRate int64
}

type GuestBreakdown struct {
	Adults     int   `json:"adults"`
	Children   int   `json:"children"`
	Infants    int   `json:"infants"`
	AdultTotal int64 `json:"adult_total"`
	ChildTotal int64 `json:"child_total"`
	Total      int64 `json:"total"`
}

// Guests is the headcount counted against a property's capacity.
// Infants are free but still count.
func (b GuestBreakdown) Guests() int {
	return b.Adults + b.Children + b.Infants
}

// PriceGuests prices a party by age band: 0-4 free, 5-12 child rate,
// 13 and over adult rate. Children older than the child band are billed
// and counted as adults.
func PriceGuests(rates GuestRates, adults int, childAges []int) (GuestBreakdown, error) {
	if adults < 1 {
		return GuestBreakdown{}, fmt.Errorf("%w: at least one adult is required", ErrInvalidArgument)
	}
	if rates.AdultRate < 0 || rates.ChildRate < 0 {
		return GuestBreakdown{}, fmt.Errorf("%w: rates must not be negative", ErrInvalidArgument)
	}
	if rates.AdultRate > MaxGuestRate || rates.ChildRate > MaxGuestRate {
		return GuestBreakdown{}, fmt.Errorf("%w: rates must not exceed %d", ErrInvalidArgument, MaxGuestRate)
	}
	if adults+len(childAges) > MaxPartySize {
		return GuestBreakdown{}, fmt.Errorf("%w: party of %d exceeds %d guests", ErrInvalidArgument, adults+len(childAges), MaxPartySize)
	}

	b := GuestBreakdown{Adults: adults}
	for _, age := range childAges {
		switch {
		case age < 0:
			return GuestBreakdown{}, fmt.Errorf("%w: age %d is negative", ErrInvalidArgument, age)
		case age <= InfantMaxAge:
			b.Infants++
		case age <= ChildMaxAge:
			b.Children++
		default:
			b.Adults++
		}
	}

	b.AdultTotal = int64(b.Adults) * rates.AdultRate
	b.ChildTotal = int64(b.Children) * rates.ChildRate
	b.Total = b.AdultTotal + b.ChildTotal

	return b, nil
}
