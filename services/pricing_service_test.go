package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"acacia-hotel-backend/models"
	"acacia-hotel-backend/services"
)

func standardRoomType() models.RoomType {
	return models.RoomType{
		Name:           "Standard",
		SingleRateEA:   3000,
		DoubleRateEA:   3500,
		SingleRateIntl: 40,
		DoubleRateIntl: 45,
	}
}

func TestResolveRate(t *testing.T) {
	pricing := services.NewPricingService()
	rt := standardRoomType()

	tests := []struct {
		name         string
		country      string
		adults       int
		wantRate     float64
		wantCurrency string
	}{
		{
			name:         "kenyan single occupancy",
			country:      "Kenya",
			adults:       1,
			wantRate:     3000,
			wantCurrency: "KES",
		},
		{
			name:         "kenyan double occupancy",
			country:      "Kenya",
			adults:       2,
			wantRate:     3500,
			wantCurrency: "KES",
		},
		{
			name:         "ugandan guest is east african",
			country:      "Uganda",
			adults:       1,
			wantRate:     3000,
			wantCurrency: "KES",
		},
		{
			name:         "south sudan two-word match",
			country:      "South Sudan",
			adults:       2,
			wantRate:     3500,
			wantCurrency: "KES",
		},
		{
			name:         "french double occupancy",
			country:      "France",
			adults:       2,
			wantRate:     45,
			wantCurrency: "USD",
		},
		{
			name:         "three adults still bills the double tier",
			country:      "France",
			adults:       3,
			wantRate:     45,
			wantCurrency: "USD",
		},
		{
			name:         "unknown country falls back to international",
			country:      "Atlantis",
			adults:       1,
			wantRate:     40,
			wantCurrency: "USD",
		},
		{
			name:         "lowercase kenya does not match the whitelist",
			country:      "kenya",
			adults:       1,
			wantRate:     40,
			wantCurrency: "USD",
		},
		{
			name:         "empty country prices as international",
			country:      "",
			adults:       2,
			wantRate:     45,
			wantCurrency: "USD",
		},
		{
			name:         "zero adults treated as single occupancy",
			country:      "Kenya",
			adults:       0,
			wantRate:     3000,
			wantCurrency: "KES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, currency := pricing.ResolveRate(rt, tt.country, tt.adults)
			assert.Equal(t, tt.wantRate, rate)
			assert.Equal(t, tt.wantCurrency, currency)
		})
	}
}

func TestNights(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"two nights", day(10), day(12), 2},
		{"one night", day(10), day(11), 1},
		{"same day", day(10), day(10), 0},
		{"checkout before checkin", day(12), day(10), 0},
		{
			"fractional day rounds up",
			time.Date(2026, time.September, 10, 14, 0, 0, 0, time.UTC),
			time.Date(2026, time.September, 11, 10, 0, 0, 0, time.UTC),
			1,
		},
		{
			"one day plus an hour rounds up to two",
			time.Date(2026, time.September, 10, 14, 0, 0, 0, time.UTC),
			time.Date(2026, time.September, 11, 15, 0, 0, 0, time.UTC),
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestQuoteStay(t *testing.T) {
	pricing := services.NewPricingService()
	rt := standardRoomType()

	checkIn := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	t.Run("kenyan single for two nights", func(t *testing.T) {
		q := pricing.QuoteStay(rt, "Kenya", 1, checkIn, checkIn.AddDate(0, 0, 2))
		assert.Equal(t, 3000.0, q.RatePerNight)
		assert.Equal(t, "KES", q.Currency)
		assert.Equal(t, 2, q.Nights)
		assert.Equal(t, 6000.0, q.Total)
	})

	t.Run("international double for three nights", func(t *testing.T) {
		q := pricing.QuoteStay(rt, "France", 2, checkIn, checkIn.AddDate(0, 0, 3))
		assert.Equal(t, 45.0, q.RatePerNight)
		assert.Equal(t, "USD", q.Currency)
		assert.Equal(t, 3, q.Nights)
		assert.Equal(t, 135.0, q.Total)
	})

	t.Run("zero-night stay totals zero", func(t *testing.T) {
		q := pricing.QuoteStay(rt, "Kenya", 1, checkIn, checkIn)
		assert.Equal(t, 0, q.Nights)
		assert.Equal(t, 0.0, q.Total)
	})
}

func TestIsEastAfrican(t *testing.T) {
	pricing := services.NewPricingService()

	for _, c := range []string{"Kenya", "Uganda", "Tanzania", "Rwanda", "Burundi", "South Sudan"} {
		assert.True(t, pricing.IsEastAfrican(c), c)
	}
	for _, c := range []string{"Ethiopia", "Somalia", "kenya", "KENYA", "", "South  Sudan"} {
		assert.False(t, pricing.IsEastAfrican(c), c)
	}
}
