package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"acacia-hotel-backend/models"
)

// AvailabilityService answers "which rooms are free for [checkIn, checkOut)"
// and "does this room conflict for that range".
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// Overlaps is the general half-open interval intersection test. It covers
// all four shapes, including either interval fully containing the other,
// and ranges that merely abut do not intersect.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// FindAvailableRooms returns every room without a conflicting reservation
// for the range. Either the full candidate set comes back or the query
// fails wholesale.
func (s *AvailabilityService) FindAvailableRooms(checkIn, checkOut time.Time, roomTypeID *uint) ([]models.Room, error) {
	blocked := s.DB.
		Table("booking_rooms").
		Select("booking_rooms.room_id").
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("bookings.deleted_at IS NULL AND booking_rooms.deleted_at IS NULL").
		Where("bookings.status IN ?", models.ActiveBookingStatuses).
		Where("bookings.check_in_date < ? AND bookings.check_out_date > ?", checkOut, checkIn)

	q := s.DB.
		Preload("RoomType").
		Where("rooms.status <> ?", models.RoomMaintenance).
		Where("rooms.id NOT IN (?)", blocked)
	if roomTypeID != nil {
		q = q.Where("rooms.room_type_id = ?", *roomTypeID)
	}

	var rooms []models.Room
	if err := q.Order("rooms.room_number").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to query available rooms: %w", err)
	}
	return rooms, nil
}

// HasConflict reports whether the room already has an active reservation
// intersecting the range. excludeBookingID skips the caller's own booking
// so a date edit does not collide with itself; pass 0 to exclude nothing.
func (s *AvailabilityService) HasConflict(roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	return hasConflict(s.DB, roomID, checkIn, checkOut, excludeBookingID)
}

// hasConflict is shared with BookingService so transitions can run the same
// check inside their transaction.
func hasConflict(db *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	type reservedRange struct {
		CheckInDate  time.Time
		CheckOutDate time.Time
	}

	q := db.
		Table("booking_rooms").
		Select("bookings.check_in_date, bookings.check_out_date").
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("bookings.deleted_at IS NULL AND booking_rooms.deleted_at IS NULL").
		Where("booking_rooms.room_id = ?", roomID).
		Where("bookings.status IN ?", models.ActiveBookingStatuses)
	if excludeBookingID != 0 {
		q = q.Where("bookings.id <> ?", excludeBookingID)
	}

	var reserved []reservedRange
	if err := q.Find(&reserved).Error; err != nil {
		return false, fmt.Errorf("failed to query reservations for room %d: %w", roomID, err)
	}

	for _, r := range reserved {
		if Overlaps(r.CheckInDate, r.CheckOutDate, checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}
