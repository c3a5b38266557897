package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"acacia-hotel-backend/models"
)

func TestValidatePaymentAmount(t *testing.T) {
	booking := func(status string, total, paid float64) *models.Booking {
		return &models.Booking{Status: status, TotalAmount: total, PaidAmount: paid, Currency: "KES"}
	}

	t.Run("partial payment on pending booking", func(t *testing.T) {
		assert.NoError(t, validatePaymentAmount(booking(models.BookingPending, 6000, 0), 4000))
	})

	t.Run("exact remaining balance is accepted", func(t *testing.T) {
		assert.NoError(t, validatePaymentAmount(booking(models.BookingPending, 6000, 4000), 2000))
	})

	t.Run("payment on checked-in booking", func(t *testing.T) {
		assert.NoError(t, validatePaymentAmount(booking(models.BookingCheckedIn, 6000, 0), 6000))
	})

	t.Run("overpayment reports the remaining balance", func(t *testing.T) {
		err := validatePaymentAmount(booking(models.BookingPending, 6000, 4000), 3000)

		var opErr *OverpaymentError
		assert.True(t, errors.As(err, &opErr))
		assert.Equal(t, 2000.0, opErr.Remaining)
		assert.Equal(t, "KES", opErr.Currency)
		assert.Contains(t, err.Error(), "2000.00 KES")
	})

	t.Run("fully paid booking accepts nothing more", func(t *testing.T) {
		err := validatePaymentAmount(booking(models.BookingConfirmed, 6000, 6000), 1)

		var opErr *OverpaymentError
		assert.True(t, errors.As(err, &opErr))
		assert.Equal(t, 0.0, opErr.Remaining)
	})

	t.Run("cancelled booking rejects payments", func(t *testing.T) {
		err := validatePaymentAmount(booking(models.BookingCancelled, 6000, 0), 1000)
		assert.ErrorIs(t, err, ErrPaymentOnCancelled)
	})

	t.Run("zero amount", func(t *testing.T) {
		err := validatePaymentAmount(booking(models.BookingPending, 6000, 0), 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("negative amount", func(t *testing.T) {
		err := validatePaymentAmount(booking(models.BookingPending, 6000, 0), -500)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestBookingBalance(t *testing.T) {
	b := models.Booking{TotalAmount: 6000, PaidAmount: 4500}
	assert.Equal(t, 1500.0, b.Balance())

	settled := models.Booking{TotalAmount: 6000, PaidAmount: 6000}
	assert.Equal(t, 0.0, settled.Balance())
}
