package services

import (
	"math"
	"time"

	"acacia-hotel-backend/models"
)

const (
	CurrencyKES = "KES"
	CurrencyUSD = "USD"
)

// eastAfricanCountries is the single authoritative whitelist. Matching is
// case-sensitive; anything not listed prices as international.
var eastAfricanCountries = map[string]struct{}{
	"Kenya":       {},
	"Uganda":      {},
	"Tanzania":    {},
	"Rwanda":      {},
	"Burundi":     {},
	"South Sudan": {},
}

// PricingService resolves nightly rates from a room type's four stored
// rate fields.
type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

func (s *PricingService) IsEastAfrican(country string) bool {
	_, ok := eastAfricanCountries[country]
	return ok
}

// ResolveRate picks one of the four stored rates. Occupancy of one adult is
// the single tier; two or more adults is the double tier. The currency is a
// consequence of the country classification, not an input.
func (s *PricingService) ResolveRate(rt models.RoomType, guestCountry string, adults int) (float64, string) {
	if s.IsEastAfrican(guestCountry) {
		if adults <= 1 {
			return rt.SingleRateEA, CurrencyKES
		}
		return rt.DoubleRateEA, CurrencyKES
	}
	if adults <= 1 {
		return rt.SingleRateIntl, CurrencyUSD
	}
	return rt.DoubleRateIntl, CurrencyUSD
}

// Nights counts billable nights for a stay; fractional days round up.
func Nights(checkIn, checkOut time.Time) int {
	if !checkOut.After(checkIn) {
		return 0
	}
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// Quote is a priced stay for one room type.
type Quote struct {
	RatePerNight float64 `json:"rate_per_night"`
	Currency     string  `json:"currency"`
	Nights       int     `json:"nights"`
	Total        float64 `json:"total"`
}

func (s *PricingService) QuoteStay(rt models.RoomType, guestCountry string, adults int, checkIn, checkOut time.Time) Quote {
	rate, currency := s.ResolveRate(rt, guestCountry, adults)
	nights := Nights(checkIn, checkOut)
	return Quote{
		RatePerNight: rate,
		Currency:     currency,
		Nights:       nights,
		Total:        rate * float64(nights),
	}
}
