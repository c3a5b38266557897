package services

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"acacia-hotel-backend/models"
)

// MaintenanceService runs the scheduled sweeps. Each sweep processes its
// candidates one by one and keeps going past individual failures.
type MaintenanceService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewMaintenanceService(db *gorm.DB, logg zerolog.Logger) *MaintenanceService {
	return &MaintenanceService{DB: db, Log: logg}
}

type SweepError struct {
	BookingID uint   `json:"booking_id"`
	Reason    string `json:"reason"`
}

type SweepReport struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Errors    []SweepError `json:"errors,omitempty"`
}

// NoonCutoff is the sweep boundary: noon of the given day, local time.
func NoonCutoff(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
}

// AutoCheckout force-checks-out CHECKED_IN and CONFIRMED bookings whose
// check-out date has passed. Unlike the interactive path, this deliberately
// does not block on an unpaid balance; the outstanding amount is reported
// per item instead.
func (s *MaintenanceService) AutoCheckout(now time.Time) SweepReport {
	cutoff := NoonCutoff(now)

	var candidates []models.Booking
	if err := s.DB.
		Where("status IN ?", []string{models.BookingCheckedIn, models.BookingConfirmed}).
		Where("check_out_date <= ?", cutoff).
		Find(&candidates).Error; err != nil {
		s.Log.Error().Err(err).Msg("auto-checkout: candidate query failed")
		return SweepReport{Failed: 1, Errors: []SweepError{{Reason: "candidate query failed"}}}
	}

	report := SweepReport{}
	for _, booking := range candidates {
		balance := booking.Balance()
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			locked, err := lockBooking(tx, booking.ID)
			if err != nil {
				return err
			}
			// re-check under lock; another sweep or an interactive
			// checkout may have won
			if locked.Status != models.BookingCheckedIn && locked.Status != models.BookingConfirmed {
				return nil
			}

			if err := tx.Model(locked).Updates(map[string]interface{}{
				"status":           models.BookingCheckedOut,
				"actual_check_out": now,
			}).Error; err != nil {
				return err
			}
			return setBookingRoomsStatus(tx, locked.ID, models.RoomCleaning)
		})
		if err != nil {
			s.Log.Error().Err(err).Uint("booking_id", booking.ID).Msg("auto-checkout: item failed")
			report.Failed++
			report.Errors = append(report.Errors, SweepError{BookingID: booking.ID, Reason: err.Error()})
			continue
		}

		if balance > 0 {
			s.Log.Warn().
				Uint("booking_id", booking.ID).
				Float64("outstanding", balance).
				Msg("auto-checkout: forced past unpaid balance")
		}
		report.Succeeded++
	}

	s.Log.Info().Int("succeeded", report.Succeeded).Int("failed", report.Failed).Msg("auto-checkout sweep done")
	return report
}

// CancelExpiredPending cancels PENDING bookings whose check-in date passed
// without confirmation and releases their rooms. CONFIRMED bookings with the
// same dates are left alone.
func (s *MaintenanceService) CancelExpiredPending(now time.Time) SweepReport {
	cutoff := NoonCutoff(now)

	var candidates []models.Booking
	if err := s.DB.
		Where("status = ?", models.BookingPending).
		Where("check_in_date < ?", cutoff).
		Find(&candidates).Error; err != nil {
		s.Log.Error().Err(err).Msg("cancel-expired: candidate query failed")
		return SweepReport{Failed: 1, Errors: []SweepError{{Reason: "candidate query failed"}}}
	}

	report := SweepReport{}
	for _, booking := range candidates {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			locked, err := lockBooking(tx, booking.ID)
			if err != nil {
				return err
			}
			if locked.Status != models.BookingPending {
				return nil
			}

			if err := tx.Model(locked).Updates(map[string]interface{}{
				"status":       models.BookingCancelled,
				"cancelled_at": now,
			}).Error; err != nil {
				return err
			}
			return setBookingRoomsStatus(tx, locked.ID, models.RoomAvailable)
		})
		if err != nil {
			s.Log.Error().Err(err).Uint("booking_id", booking.ID).Msg("cancel-expired: item failed")
			report.Failed++
			report.Errors = append(report.Errors, SweepError{BookingID: booking.ID, Reason: err.Error()})
			continue
		}
		report.Succeeded++
	}

	s.Log.Info().Int("succeeded", report.Succeeded).Int("failed", report.Failed).Msg("cancel-expired sweep done")
	return report
}
