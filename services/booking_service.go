package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acacia-hotel-backend/models"
	"acacia-hotel-backend/utils"
)

// Guard failures. Each one names the precondition that failed so clients can
// correct and retry; none of them is retried automatically.
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidDates    = errors.New("check-out date must be after check-in date")
	ErrCheckInPast     = errors.New("check-in date cannot be in the past")
	ErrNoRooms         = errors.New("at least one room is required")
	ErrNotConfirmed    = errors.New("booking must be confirmed before check-in")
	ErrCheckInTooEarly = errors.New("check-in date has not arrived yet")
	ErrNotCheckedIn    = errors.New("booking must be checked in before check-out")
	ErrNotCancellable  = errors.New("checked-in or checked-out bookings cannot be cancelled")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotEditable     = errors.New("only pending or confirmed bookings can be edited")
)

// RoomUnavailableError names the room that blocked a create or date edit.
type RoomUnavailableError struct {
	RoomID     uint
	RoomNumber string
}

func (e *RoomUnavailableError) Error() string {
	if e.RoomNumber != "" {
		return fmt.Sprintf("room %s is not available for the requested dates", e.RoomNumber)
	}
	return fmt.Sprintf("room %d is not available for the requested dates", e.RoomID)
}

// OutstandingBalanceError carries the balance so the client can show the
// exact amount still owed.
type OutstandingBalanceError struct {
	Balance  float64
	Currency string
}

func (e *OutstandingBalanceError) Error() string {
	return fmt.Sprintf("outstanding balance of %.2f %s must be paid before check-out", e.Balance, e.Currency)
}

// DateOnly truncates to midnight; lifecycle guards compare dates, not times.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type BookingService struct {
	DB           *gorm.DB
	Availability *AvailabilityService
	Pricing      *PricingService
	Log          zerolog.Logger
}

func NewBookingService(db *gorm.DB, availability *AvailabilityService, pricing *PricingService, logg zerolog.Logger) *BookingService {
	return &BookingService{DB: db, Availability: availability, Pricing: pricing, Log: logg}
}

type CreateBookingInput struct {
	GuestName    string
	GuestEmail   string
	GuestPhone   string
	GuestCountry string
	GuestIDNo    string
	CheckIn      time.Time
	CheckOut     time.Time
	Adults       int
	Children     int
	RoomIDs      []uint
}

// validateStayDates applies the create-time date guards.
func validateStayDates(checkIn, checkOut, now time.Time) error {
	if !checkOut.After(checkIn) {
		return ErrInvalidDates
	}
	if checkIn.Before(DateOnly(now)) {
		return ErrCheckInPast
	}
	return nil
}

// checkInGuard: only CONFIRMED bookings check in, and only once the
// check-in date has arrived (date-only comparison).
func checkInGuard(b *models.Booking, now time.Time) error {
	if b.Status != models.BookingConfirmed {
		return ErrNotConfirmed
	}
	if DateOnly(now).Before(DateOnly(b.CheckInDate)) {
		return ErrCheckInTooEarly
	}
	return nil
}

// checkOutGuard: interactive checkout requires a settled balance.
func checkOutGuard(b *models.Booking) error {
	if b.Status != models.BookingCheckedIn {
		return ErrNotCheckedIn
	}
	if b.Balance() > 0 {
		return &OutstandingBalanceError{Balance: b.Balance(), Currency: b.Currency}
	}
	return nil
}

func cancelGuard(b *models.Booking) error {
	switch b.Status {
	case models.BookingCheckedIn, models.BookingCheckedOut:
		return ErrNotCancellable
	case models.BookingCancelled:
		return ErrAlreadyCancelled
	}
	return nil
}

// CreateBooking reserves rooms for the range and prices the stay. The new
// booking is PENDING; rooms are not touched until check-in, availability is
// enforced purely by the interval query.
func (s *BookingService) CreateBooking(in CreateBookingInput) (*models.Booking, error) {
	checkIn := DateOnly(in.CheckIn)
	checkOut := DateOnly(in.CheckOut)

	if err := validateStayDates(checkIn, checkOut, time.Now()); err != nil {
		return nil, err
	}
	if len(in.RoomIDs) == 0 {
		return nil, ErrNoRooms
	}
	adults := in.Adults
	if adults <= 0 {
		adults = 1
	}
	children := in.Children
	if children < 0 {
		children = 0
	}

	var bookingID uint
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		nights := Nights(checkIn, checkOut)
		total := 0.0
		currency := ""

		type pricedRoom struct {
			roomID uint
			rate   float64
		}
		priced := make([]pricedRoom, 0, len(in.RoomIDs))

		// lock rooms in a stable order so concurrent multi-room creates
		// cannot deadlock on each other
		roomIDs := append([]uint(nil), in.RoomIDs...)
		sort.Slice(roomIDs, func(i, j int) bool { return roomIDs[i] < roomIDs[j] })

		for _, rid := range roomIDs {
			// FOR UPDATE on the room row: concurrent creates for the same
			// room serialize here, so the conflict check below always sees
			// the winner's reservation rows.
			var room models.Room
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Preload("RoomType").
				First(&room, rid).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("validation: room %d not found", rid)
				}
				return fmt.Errorf("db error checking room %d: %w", rid, err)
			}

			conflict, err := hasConflict(tx, rid, checkIn, checkOut, 0)
			if err != nil {
				return err
			}
			if conflict {
				return &RoomUnavailableError{RoomID: room.ID, RoomNumber: room.RoomNumber}
			}

			rate, cur := s.Pricing.ResolveRate(room.RoomType, in.GuestCountry, adults)
			priced = append(priced, pricedRoom{roomID: rid, rate: rate})
			total += rate * float64(nights)
			currency = cur
		}

		booking := models.Booking{
			Status:       models.BookingPending,
			GuestName:    strings.TrimSpace(in.GuestName),
			GuestEmail:   strings.TrimSpace(in.GuestEmail),
			GuestPhone:   strings.TrimSpace(in.GuestPhone),
			GuestCountry: strings.TrimSpace(in.GuestCountry),
			GuestIDNo:    strings.TrimSpace(in.GuestIDNo),
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			Adults:       adults,
			Children:     children,
			TotalAmount:  total,
			Currency:     currency,
		}

		// retry the booking number on unique collision
		maxRetries := 5
		var createErr error
		for attempt := 0; attempt < maxRetries; attempt++ {
			number, gErr := utils.GenerateBookingNumber(time.Now())
			if gErr != nil {
				return fmt.Errorf("failed to generate booking number: %w", gErr)
			}
			booking.BookingNumber = number

			createErr = tx.Create(&booking).Error
			if createErr == nil {
				break
			}
			lc := strings.ToLower(createErr.Error())
			if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
				s.Log.Warn().Int("attempt", attempt+1).Msg("booking number collision, retrying")
				continue
			}
			return fmt.Errorf("failed to create booking: %w", createErr)
		}
		if createErr != nil {
			return fmt.Errorf("failed to create booking after retries: %w", createErr)
		}

		for _, pr := range priced {
			br := models.BookingRoom{
				BookingID:    booking.ID,
				RoomID:       pr.roomID,
				RatePerNight: pr.rate,
				Nights:       nights,
			}
			if err := tx.Create(&br).Error; err != nil {
				return fmt.Errorf("failed to create booking room for room %d: %w", pr.roomID, err)
			}
		}

		bookingID = booking.ID
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(bookingID)
}

// CheckIn moves a CONFIRMED booking to CHECKED_IN and its rooms to OCCUPIED.
// The whole transition runs in one transaction with the booking row locked.
func (s *BookingService) CheckIn(bookingID uint, actorID *uint) (*models.Booking, error) {
	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}

		if err := checkInGuard(booking, now); err != nil {
			return err
		}

		if err := tx.Model(booking).Updates(map[string]interface{}{
			"status":          models.BookingCheckedIn,
			"actual_check_in": now,
			"updated_by_id":   actorID,
		}).Error; err != nil {
			return err
		}

		return setBookingRoomsStatus(tx, booking.ID, models.RoomOccupied)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(bookingID)
}

// CheckOut requires a zero balance; the sweep path in MaintenanceService is
// the only way around that guard. Rooms go to CLEANING.
func (s *BookingService) CheckOut(bookingID uint, actorID *uint) (*models.Booking, error) {
	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}

		if err := checkOutGuard(booking); err != nil {
			return err
		}

		if err := tx.Model(booking).Updates(map[string]interface{}{
			"status":           models.BookingCheckedOut,
			"actual_check_out": now,
			"updated_by_id":    actorID,
		}).Error; err != nil {
			return err
		}

		return setBookingRoomsStatus(tx, booking.ID, models.RoomCleaning)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(bookingID)
}

// Cancel is a status change, never a delete. Terminal states cannot be
// cancelled; rooms are released back to AVAILABLE.
func (s *BookingService) Cancel(bookingID uint, actorID *uint) (*models.Booking, error) {
	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}

		if err := cancelGuard(booking); err != nil {
			return err
		}

		if err := tx.Model(booking).Updates(map[string]interface{}{
			"status":        models.BookingCancelled,
			"cancelled_at":  now,
			"updated_by_id": actorID,
		}).Error; err != nil {
			return err
		}

		return setBookingRoomsStatus(tx, booking.ID, models.RoomAvailable)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(bookingID)
}

type EditBookingInput struct {
	GuestName  *string
	GuestEmail *string
	GuestPhone *string
	GuestIDNo  *string
	CheckIn    *time.Time
	CheckOut   *time.Time
	Adults     *int
	Children   *int
}

// GuestEdit is the unauthenticated self-service edit, addressed by booking
// number plus guest email. Price is deliberately NOT recalculated here; the
// staff PriceCheck endpoint quotes a re-price without applying it.
func (s *BookingService) GuestEdit(bookingNumber, guestEmail string, in EditBookingInput) (*models.Booking, error) {
	var bookingID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("booking_number = ? AND guest_email = ?", strings.TrimSpace(bookingNumber), strings.TrimSpace(guestEmail)).
			First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		bookingID = booking.ID
		return s.applyEdit(tx, &booking, in, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(bookingID)
}

// StaffEdit is the authenticated edit path; same guards, tracked actor.
func (s *BookingService) StaffEdit(bookingID uint, in EditBookingInput, actorID *uint) (*models.Booking, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		return s.applyEdit(tx, booking, in, actorID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(bookingID)
}

func (s *BookingService) applyEdit(tx *gorm.DB, booking *models.Booking, in EditBookingInput, actorID *uint) error {
	if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
		return ErrNotEditable
	}

	updates := map[string]interface{}{}
	if in.GuestName != nil {
		updates["guest_name"] = strings.TrimSpace(*in.GuestName)
	}
	if in.GuestEmail != nil {
		updates["guest_email"] = strings.TrimSpace(*in.GuestEmail)
	}
	if in.GuestPhone != nil {
		updates["guest_phone"] = strings.TrimSpace(*in.GuestPhone)
	}
	if in.GuestIDNo != nil {
		updates["guest_id_no"] = strings.TrimSpace(*in.GuestIDNo)
	}
	if in.Adults != nil && *in.Adults > 0 {
		updates["adults"] = *in.Adults
	}
	if in.Children != nil && *in.Children >= 0 {
		updates["children"] = *in.Children
	}

	newIn := booking.CheckInDate
	newOut := booking.CheckOutDate
	datesChanged := false
	if in.CheckIn != nil {
		newIn = DateOnly(*in.CheckIn)
		datesChanged = true
	}
	if in.CheckOut != nil {
		newOut = DateOnly(*in.CheckOut)
		datesChanged = true
	}

	if datesChanged {
		if !newOut.After(newIn) {
			return ErrInvalidDates
		}

		// re-run the conflict check over the new range, excluding this
		// booking's own reservation rows
		var rooms []models.BookingRoom
		if err := tx.Where("booking_id = ?", booking.ID).Find(&rooms).Error; err != nil {
			return fmt.Errorf("failed to load booking rooms: %w", err)
		}
		roomIDs := make([]uint, 0, len(rooms))
		for _, br := range rooms {
			roomIDs = append(roomIDs, br.RoomID)
		}
		if err := lockRooms(tx, roomIDs); err != nil {
			return err
		}
		for _, br := range rooms {
			conflict, err := hasConflict(tx, br.RoomID, newIn, newOut, booking.ID)
			if err != nil {
				return err
			}
			if conflict {
				return &RoomUnavailableError{RoomID: br.RoomID}
			}
		}

		nights := Nights(newIn, newOut)
		updates["check_in_date"] = newIn
		updates["check_out_date"] = newOut
		if err := tx.Model(&models.BookingRoom{}).
			Where("booking_id = ?", booking.ID).
			Update("nights", nights).Error; err != nil {
			return fmt.Errorf("failed to update booking room nights: %w", err)
		}
	}

	if len(updates) == 0 {
		return nil
	}
	if actorID != nil {
		updates["updated_by_id"] = actorID
	}
	return tx.Model(booking).Updates(updates).Error
}

// RoomQuote is one room's share of a booking re-quote; RatePerNight is that
// single room's nightly rate, same meaning as in the availability response.
type RoomQuote struct {
	RoomID       uint    `json:"room_id"`
	RoomNumber   string  `json:"room_number"`
	RatePerNight float64 `json:"rate_per_night"`
	Total        float64 `json:"total"`
}

// BookingQuote is a full re-price of a booking at current rates, broken
// down per room.
type BookingQuote struct {
	Currency string      `json:"currency"`
	Nights   int         `json:"nights"`
	Rooms    []RoomQuote `json:"rooms"`
	Total    float64     `json:"total"`
}

// quoteBooking prices a loaded booking at current rates without writing
// anything.
func quoteBooking(pricing *PricingService, booking *models.Booking) BookingQuote {
	nights := Nights(booking.CheckInDate, booking.CheckOutDate)
	quote := BookingQuote{Nights: nights, Rooms: []RoomQuote{}}
	for _, br := range booking.Rooms {
		rate, cur := pricing.ResolveRate(br.Room.RoomType, booking.GuestCountry, booking.Adults)
		quote.Rooms = append(quote.Rooms, RoomQuote{
			RoomID:       br.RoomID,
			RoomNumber:   br.Room.RoomNumber,
			RatePerNight: rate,
			Total:        rate * float64(nights),
		})
		quote.Total += rate * float64(nights)
		quote.Currency = cur
	}
	return quote
}

// PriceCheck re-quotes the booking at current rates, so staff can offer a
// re-price after an edit.
func (s *BookingService) PriceCheck(bookingID uint) (*BookingQuote, error) {
	booking, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	quote := quoteBooking(s.Pricing, booking)
	return &quote, nil
}

// GetAllWithRelations lists bookings newest first with rooms and payments
// preloaded.
func (s *BookingService) GetAllWithRelations(status string) ([]models.Booking, error) {
	var list []models.Booking

	q := s.DB.
		Preload("Rooms").
		Preload("Rooms.Room").
		Preload("Rooms.Room.RoomType").
		Preload("Payments").
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}

	for i := range list {
		if list[i].Rooms == nil {
			list[i].Rooms = []models.BookingRoom{}
		}
	}
	return list, nil
}

func (s *BookingService) GetByID(bookingID uint) (*models.Booking, error) {
	var bk models.Booking
	if err := s.DB.
		Preload("Rooms").
		Preload("Rooms.Room").
		Preload("Rooms.Room.RoomType").
		Preload("Payments").
		First(&bk, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &bk, nil
}

// lockRooms takes FOR UPDATE locks on the room rows so concurrent
// create/edit conflict checks over the same rooms serialize.
func lockRooms(tx *gorm.DB, roomIDs []uint) error {
	if len(roomIDs) == 0 {
		return nil
	}
	var rooms []models.Room
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", roomIDs).
		Find(&rooms).Error; err != nil {
		return fmt.Errorf("failed to lock rooms: %w", err)
	}
	return nil
}

// lockBooking loads the booking under FOR UPDATE inside a transaction.
func lockBooking(tx *gorm.DB, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// setBookingRoomsStatus cascades a room status to every room on the booking.
func setBookingRoomsStatus(tx *gorm.DB, bookingID uint, status string) error {
	var rooms []models.BookingRoom
	if err := tx.Where("booking_id = ?", bookingID).Find(&rooms).Error; err != nil {
		return fmt.Errorf("failed to load booking rooms: %w", err)
	}
	for _, br := range rooms {
		if err := tx.Model(&models.Room{}).
			Where("id = ?", br.RoomID).
			Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update room %d status: %w", br.RoomID, err)
		}
	}
	return nil
}
