package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"acacia-hotel-backend/models"
)

var testNow = time.Date(2026, time.September, 10, 15, 30, 0, 0, time.UTC)

func TestDateOnly(t *testing.T) {
	got := DateOnly(testNow)
	assert.Equal(t, time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, got, DateOnly(got))
}

func TestValidateStayDates(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		wantErr  error
	}{
		{"future stay", day(12), day(14), nil},
		{"check-in today is allowed", day(10), day(11), nil},
		{"checkout equals checkin", day(12), day(12), ErrInvalidDates},
		{"checkout before checkin", day(14), day(12), ErrInvalidDates},
		{"check-in in the past", day(9), day(12), ErrCheckInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStayDates(tt.checkIn, tt.checkOut, testNow)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckInGuard(t *testing.T) {
	booking := func(status string, checkInDay int) *models.Booking {
		return &models.Booking{
			Status:      status,
			CheckInDate: time.Date(2026, time.September, checkInDay, 0, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name    string
		booking *models.Booking
		wantErr error
	}{
		{"confirmed on arrival day", booking(models.BookingConfirmed, 10), nil},
		{"confirmed past arrival day", booking(models.BookingConfirmed, 8), nil},
		{"confirmed but too early", booking(models.BookingConfirmed, 11), ErrCheckInTooEarly},
		{"pending cannot check in", booking(models.BookingPending, 10), ErrNotConfirmed},
		{"cancelled cannot check in", booking(models.BookingCancelled, 10), ErrNotConfirmed},
		{"checked-in cannot check in again", booking(models.BookingCheckedIn, 10), ErrNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkInGuard(tt.booking, testNow)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckOutGuard(t *testing.T) {
	t.Run("settled balance passes", func(t *testing.T) {
		b := &models.Booking{Status: models.BookingCheckedIn, TotalAmount: 6000, PaidAmount: 6000}
		assert.NoError(t, checkOutGuard(b))
	})

	t.Run("outstanding balance is rejected with the amount", func(t *testing.T) {
		b := &models.Booking{
			Status:      models.BookingCheckedIn,
			TotalAmount: 6000,
			PaidAmount:  4000,
			Currency:    "KES",
		}
		err := checkOutGuard(b)

		var obErr *OutstandingBalanceError
		assert.True(t, errors.As(err, &obErr))
		assert.Equal(t, 2000.0, obErr.Balance)
		assert.Equal(t, "KES", obErr.Currency)
		assert.Contains(t, err.Error(), "2000.00 KES")
	})

	t.Run("only checked-in bookings check out", func(t *testing.T) {
		for _, status := range []string{
			models.BookingPending,
			models.BookingConfirmed,
			models.BookingCheckedOut,
			models.BookingCancelled,
		} {
			b := &models.Booking{Status: status}
			assert.ErrorIs(t, checkOutGuard(b), ErrNotCheckedIn, status)
		}
	})
}

func TestCancelGuard(t *testing.T) {
	tests := []struct {
		status  string
		wantErr error
	}{
		{models.BookingPending, nil},
		{models.BookingConfirmed, nil},
		{models.BookingCheckedIn, ErrNotCancellable},
		{models.BookingCheckedOut, ErrNotCancellable},
		{models.BookingCancelled, ErrAlreadyCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			err := cancelGuard(&models.Booking{Status: tt.status})
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestQuoteBooking(t *testing.T) {
	rt := models.RoomType{SingleRateEA: 3000, DoubleRateEA: 3500, SingleRateIntl: 40, DoubleRateIntl: 45}
	booking := &models.Booking{
		GuestCountry: "Kenya",
		Adults:       2,
		CheckInDate:  time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC),
		Rooms: []models.BookingRoom{
			{RoomID: 1, Room: models.Room{RoomNumber: "101", RoomType: rt}},
			{RoomID: 2, Room: models.Room{RoomNumber: "102", RoomType: rt}},
		},
	}

	quote := quoteBooking(NewPricingService(), booking)

	assert.Equal(t, "KES", quote.Currency)
	assert.Equal(t, 2, quote.Nights)
	assert.Equal(t, 14000.0, quote.Total)

	// rate_per_night stays a single room's nightly rate, never a sum
	assert.Len(t, quote.Rooms, 2)
	for _, rq := range quote.Rooms {
		assert.Equal(t, 3500.0, rq.RatePerNight)
		assert.Equal(t, 7000.0, rq.Total)
	}
	assert.Equal(t, "101", quote.Rooms[0].RoomNumber)
	assert.Equal(t, "102", quote.Rooms[1].RoomNumber)
}

func TestRoomUnavailableError(t *testing.T) {
	withNumber := &RoomUnavailableError{RoomID: 7, RoomNumber: "101"}
	assert.Contains(t, withNumber.Error(), "101")

	withoutNumber := &RoomUnavailableError{RoomID: 7}
	assert.Contains(t, withoutNumber.Error(), "7")
}
