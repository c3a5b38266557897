package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"acacia-hotel-backend/models"
)

var (
	ErrPaymentOnCancelled = errors.New("cannot record a payment against a cancelled booking")
	ErrInvalidAmount      = errors.New("payment amount must be greater than zero")
	ErrConcurrentPayment  = errors.New("booking was modified concurrently, please retry")
)

// OverpaymentError reports the exact remaining balance that was exceeded.
type OverpaymentError struct {
	Remaining float64
	Currency  string
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds the remaining balance of %.2f %s", e.Remaining, e.Currency)
}

// validatePaymentAmount holds the paidAmount <= totalAmount invariant.
func validatePaymentAmount(booking *models.Booking, amount float64) error {
	if booking.Status == models.BookingCancelled {
		return ErrPaymentOnCancelled
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if remaining := booking.Balance(); amount > remaining {
		return &OverpaymentError{Remaining: remaining, Currency: booking.Currency}
	}
	return nil
}

type PaymentService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewPaymentService(db *gorm.DB, logg zerolog.Logger) *PaymentService {
	return &PaymentService{DB: db, Log: logg}
}

type PaymentResult struct {
	Payment          models.Payment `json:"payment"`
	Booking          models.Booking `json:"booking"`
	RemainingBalance float64        `json:"remaining_balance"`
}

// ApplyPayment appends a payment row and bumps the booking's paid amount in
// one transaction. The booking row is locked and the write is conditional on
// the version column, so two concurrent payments cannot both be credited
// against the same remaining balance. A fully paid PENDING booking is
// promoted to CONFIRMED.
func (s *PaymentService) ApplyPayment(bookingID uint, amount float64, method, transactionID string) (*PaymentResult, error) {
	var result PaymentResult

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}

		if err := validatePaymentAmount(booking, amount); err != nil {
			return err
		}

		if transactionID == "" {
			transactionID = uuid.NewString()
		}

		payment := models.Payment{
			BookingID:     booking.ID,
			Amount:        amount,
			Method:        method,
			Status:        models.PaymentCompleted,
			TransactionID: transactionID,
			ProcessedAt:   time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		newStatus := booking.Status
		if booking.Status == models.BookingPending && booking.PaidAmount+amount >= booking.TotalAmount {
			newStatus = models.BookingConfirmed
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND version = ?", booking.ID, booking.Version).
			Updates(map[string]interface{}{
				"paid_amount":    gorm.Expr("paid_amount + ?", amount),
				"payment_method": method,
				"status":         newStatus,
				"version":        gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update booking: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentPayment
		}

		result.Payment = payment
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	var booking models.Booking
	if err := s.DB.Preload("Payments").First(&booking, bookingID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}
	result.Booking = booking
	result.RemainingBalance = booking.Balance()

	s.Log.Info().
		Uint("booking_id", bookingID).
		Float64("amount", amount).
		Str("method", method).
		Float64("remaining", result.RemainingBalance).
		Msg("payment recorded")

	return &result, nil
}

// ListByBooking returns the booking's payment history, oldest first.
func (s *PaymentService) ListByBooking(bookingID uint) ([]models.Payment, error) {
	var exists int64
	if err := s.DB.Model(&models.Booking{}).Where("id = ?", bookingID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to check booking: %w", err)
	}
	if exists == 0 {
		return nil, ErrBookingNotFound
	}

	var payments []models.Payment
	if err := s.DB.Where("booking_id = ?", bookingID).Order("processed_at").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
