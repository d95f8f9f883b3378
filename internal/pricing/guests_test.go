package pricing

import (
	"errors"
	"math"
	"testing"
)

func TestPriceGuests(t *testing.T) {
	rates := GuestRates{AdultRate: 80000, ChildRate: 40000}

	b, err := PriceGuests(rates, 2, []int{0, 4, 5, 12, 13})
	if err != nil {
		t.Fatalf("PriceGuests returned error: %v", err)
	}

	if b.Adults != 3 || b.Children != 2 || b.Infants != 2 {
		t.Fatalf("expected 3 adults, 2 children, 2 infants, got %+v", b)
	}
	if b.AdultTotal != 240000 {
		t.Fatalf("expected adult total 240000, got %d", b.AdultTotal)
	}
	if b.ChildTotal != 80000 {
		t.Fatalf("expected child total 80000, got %d", b.ChildTotal)
	}
	if b.Total != 320000 {
		t.Fatalf("expected total 320000, got %d", b.Total)
	}
	if b.Guests() != 7 {
		t.Fatalf("expected 7 guests, got %d", b.Guests())
	}
}

func TestPriceGuestsRejectsBadInput(t *testing.T) {
	rates := GuestRates{AdultRate: 100, ChildRate: 50}

	tests := []struct {
		name   string
		rates  GuestRates
		adults int
		ages   []int
	}{
		{name: "no adults", rates: rates, adults: 0},
		{name: "negative age", rates: rates, adults: 1, ages: []int{-1}},
		{name: "negative rate", rates: GuestRates{AdultRate: -1}, adults: 1},
		{name: "adult rate above cap", rates: GuestRates{AdultRate: MaxGuestRate + 1}, adults: 1},
		{name: "child rate above cap", rates: GuestRates{AdultRate: 100, ChildRate: math.MaxInt64}, adults: 1, ages: []int{8}},
		{name: "party too large", rates: rates, adults: MaxPartySize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PriceGuests(tt.rates, tt.adults, tt.ages); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestPriceGuestsAtRateCap(t *testing.T) {
	b, err := PriceGuests(GuestRates{AdultRate: MaxGuestRate, ChildRate: MaxGuestRate}, 100, []int{6, 7})
	if err != nil {
		t.Fatalf("PriceGuests returned error: %v", err)
	}
	if want := 102 * MaxGuestRate; b.Total != want {
		t.Fatalf("expected total %d, got %d", want, b.Total)
	}
}
