package services_test

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"acacia-hotel-backend/models"
	"acacia-hotel-backend/services"
)

// openTestDB connects to the MySQL instance named by TEST_DATABASE_DSN and
// resets the tables. Tests that need it are skipped when the variable is
// unset, so the pure-logic suite stays runnable anywhere.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.BookingRoom{},
		&models.Payment{},
		&models.ActivityLog{},
	))

	// child tables first
	for _, m := range []interface{}{
		&models.Payment{},
		&models.BookingRoom{},
		&models.Booking{},
		&models.Room{},
		&models.RoomType{},
		&models.ActivityLog{},
	} {
		require.NoError(t, db.Unscoped().Where("1 = 1").Delete(m).Error)
	}

	return db
}

func seedRoom(t *testing.T, db *gorm.DB, number string) models.Room {
	t.Helper()

	rt := models.RoomType{
		Name: "Standard " + number, Slug: "standard-" + number,
		SingleRateEA: 3000, DoubleRateEA: 3500, SingleRateIntl: 40, DoubleRateIntl: 45,
	}
	require.NoError(t, db.Create(&rt).Error)

	room := models.Room{RoomTypeID: &rt.ID, RoomNumber: number, Status: models.RoomAvailable}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func newTestBookingService(db *gorm.DB) *services.BookingService {
	availability := services.NewAvailabilityService(db)
	return services.NewBookingService(db, availability, services.NewPricingService(), zerolog.Nop())
}

func roomNumbers(rooms []models.Room) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.RoomNumber)
	}
	return out
}

// Booking a room removes it from availability for the overlapping range;
// cancelling the booking restores it.
func TestAvailabilityRoundTrip(t *testing.T) {
	db := openTestDB(t)
	room := seedRoom(t, db, "201")
	svc := newTestBookingService(db)

	checkIn := services.DateOnly(time.Now()).AddDate(0, 0, 7)
	checkOut := checkIn.AddDate(0, 0, 2)

	free, err := svc.Availability.FindAvailableRooms(checkIn, checkOut, nil)
	require.NoError(t, err)
	assert.Contains(t, roomNumbers(free), "201")

	booking, err := svc.CreateBooking(services.CreateBookingInput{
		GuestName: "Jane Wanjiku", GuestEmail: "jane@example.com", GuestCountry: "Kenya",
		CheckIn: checkIn, CheckOut: checkOut, Adults: 1, RoomIDs: []uint{room.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)

	free, err = svc.Availability.FindAvailableRooms(checkIn, checkOut, nil)
	require.NoError(t, err)
	assert.NotContains(t, roomNumbers(free), "201")

	// the query has no side effects: asking again gives the same answer
	again, err := svc.Availability.FindAvailableRooms(checkIn, checkOut, nil)
	require.NoError(t, err)
	assert.Equal(t, roomNumbers(free), roomNumbers(again))

	// a range that merely abuts the booking does not block the room
	free, err = svc.Availability.FindAvailableRooms(checkOut, checkOut.AddDate(0, 0, 2), nil)
	require.NoError(t, err)
	assert.Contains(t, roomNumbers(free), "201")

	_, err = svc.Cancel(booking.ID, nil)
	require.NoError(t, err)

	free, err = svc.Availability.FindAvailableRooms(checkIn, checkOut, nil)
	require.NoError(t, err)
	assert.Contains(t, roomNumbers(free), "201")
}

// Two simultaneous creates for the same room and overlapping range must
// serialize: exactly one wins, the other gets the room-unavailable error.
func TestConcurrentCreateForSameRoom(t *testing.T) {
	db := openTestDB(t)
	room := seedRoom(t, db, "202")
	svc := newTestBookingService(db)

	checkIn := services.DateOnly(time.Now()).AddDate(0, 0, 7)
	checkOut := checkIn.AddDate(0, 0, 2)

	input := services.CreateBookingInput{
		GuestName: "Jane Wanjiku", GuestEmail: "jane@example.com", GuestCountry: "Kenya",
		CheckIn: checkIn, CheckOut: checkOut, Adults: 1, RoomIDs: []uint{room.ID},
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(input)
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var roomErr *services.RoomUnavailableError
		if errors.As(err, &roomErr) {
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	var count int64
	require.NoError(t, db.Model(&models.BookingRoom{}).Where("room_id = ?", room.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// The expiry sweep cancels overdue PENDING bookings and leaves CONFIRMED
// bookings with the same dates untouched.
func TestCancelExpiredPendingSelection(t *testing.T) {
	db := openTestDB(t)
	pendingRoom := seedRoom(t, db, "203")
	confirmedRoom := seedRoom(t, db, "204")
	svc := services.NewMaintenanceService(db, zerolog.Nop())

	yesterday := services.DateOnly(time.Now()).AddDate(0, 0, -1)

	pending := models.Booking{
		BookingNumber: "BK-20260830-TAAA", Status: models.BookingPending,
		GuestEmail: "a@example.com", CheckInDate: yesterday, CheckOutDate: yesterday.AddDate(0, 0, 2),
	}
	require.NoError(t, db.Create(&pending).Error)
	require.NoError(t, db.Create(&models.BookingRoom{BookingID: pending.ID, RoomID: pendingRoom.ID}).Error)

	confirmed := models.Booking{
		BookingNumber: "BK-20260830-TBBB", Status: models.BookingConfirmed,
		GuestEmail: "b@example.com", CheckInDate: yesterday, CheckOutDate: yesterday.AddDate(0, 0, 2),
	}
	require.NoError(t, db.Create(&confirmed).Error)
	require.NoError(t, db.Create(&models.BookingRoom{BookingID: confirmed.ID, RoomID: confirmedRoom.ID}).Error)

	report := svc.CancelExpiredPending(time.Now())
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)

	var got models.Booking
	require.NoError(t, db.First(&got, pending.ID).Error)
	assert.Equal(t, models.BookingCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)

	var gotRoom models.Room
	require.NoError(t, db.First(&gotRoom, pendingRoom.ID).Error)
	assert.Equal(t, models.RoomAvailable, gotRoom.Status)

	require.NoError(t, db.First(&got, confirmed.ID).Error)
	assert.Equal(t, models.BookingConfirmed, got.Status)
}

// The auto-checkout sweep closes overdue CHECKED_IN bookings even with an
// unpaid balance, and skips bookings not yet due out.
func TestAutoCheckoutSelection(t *testing.T) {
	db := openTestDB(t)
	dueRoom := seedRoom(t, db, "205")
	stayingRoom := seedRoom(t, db, "206")
	svc := services.NewMaintenanceService(db, zerolog.Nop())

	yesterday := services.DateOnly(time.Now()).AddDate(0, 0, -1)
	nextWeek := services.DateOnly(time.Now()).AddDate(0, 0, 7)

	due := models.Booking{
		BookingNumber: "BK-20260830-TCCC", Status: models.BookingCheckedIn,
		GuestEmail: "c@example.com", CheckInDate: yesterday.AddDate(0, 0, -2), CheckOutDate: yesterday,
		TotalAmount: 6000, PaidAmount: 4000, Currency: "KES",
	}
	require.NoError(t, db.Create(&due).Error)
	require.NoError(t, db.Create(&models.BookingRoom{BookingID: due.ID, RoomID: dueRoom.ID}).Error)

	staying := models.Booking{
		BookingNumber: "BK-20260830-TDDD", Status: models.BookingCheckedIn,
		GuestEmail: "d@example.com", CheckInDate: yesterday, CheckOutDate: nextWeek,
	}
	require.NoError(t, db.Create(&staying).Error)
	require.NoError(t, db.Create(&models.BookingRoom{BookingID: staying.ID, RoomID: stayingRoom.ID}).Error)

	report := svc.AutoCheckout(time.Now())
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)

	var got models.Booking
	require.NoError(t, db.First(&got, due.ID).Error)
	assert.Equal(t, models.BookingCheckedOut, got.Status)
	assert.NotNil(t, got.ActualCheckOut)

	var gotRoom models.Room
	require.NoError(t, db.First(&gotRoom, dueRoom.ID).Error)
	assert.Equal(t, models.RoomCleaning, gotRoom.Status)

	require.NoError(t, db.First(&got, staying.ID).Error)
	assert.Equal(t, models.BookingCheckedIn, got.Status)
}
