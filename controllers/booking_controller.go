package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"acacia-hotel-backend/middleware"
	"acacia-hotel-backend/models"
	"acacia-hotel-backend/services"
	"acacia-hotel-backend/utils"
)

type BookingController struct {
	Bookings     *services.BookingService
	Availability *services.AvailabilityService
	Pricing      *services.PricingService
	Activity     *services.ActivityService
}

func NewBookingController(
	bookings *services.BookingService,
	availability *services.AvailabilityService,
	pricing *services.PricingService,
	activity *services.ActivityService,
) *BookingController {
	return &BookingController{
		Bookings:     bookings,
		Availability: availability,
		Pricing:      pricing,
		Activity:     activity,
	}
}

// respondBookingError maps service errors onto the HTTP taxonomy:
// validation 400, not found 404, state conflict 409, everything else 500
// with detail kept server-side.
func (ctrl *BookingController) respondBookingError(c *gin.Context, err error) {
	var roomErr *services.RoomUnavailableError
	var balanceErr *services.OutstandingBalanceError

	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidDates),
		errors.Is(err, services.ErrCheckInPast),
		errors.Is(err, services.ErrNoRooms):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &roomErr),
		errors.As(err, &balanceErr),
		errors.Is(err, services.ErrNotConfirmed),
		errors.Is(err, services.ErrCheckInTooEarly),
		errors.Is(err, services.ErrNotCheckedIn),
		errors.Is(err, services.ErrNotCancellable),
		errors.Is(err, services.ErrAlreadyCancelled),
		errors.Is(err, services.ErrNotEditable):
		utils.JSONError(c, http.StatusConflict, err.Error())
	default:
		ctrl.Bookings.Log.Error().Err(err).Msg("booking operation failed")
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// availableRoomTypeGroup is one priced room-type bucket in the public
// availability response.
type availableRoomTypeGroup struct {
	RoomType models.RoomType `json:"room_type"`
	Rooms    []models.Room   `json:"rooms"`
	Quote    services.Quote  `json:"quote"`
}

// GetAvailable answers the public availability query with rooms grouped by
// type and a quote per type resolved from guest country and occupancy.
func (ctrl *BookingController) GetAvailable(c *gin.Context) {
	checkIn, err := parseDateParam(c.Query("checkIn"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkIn must be a date (YYYY-MM-DD)")
		return
	}
	checkOut, err := parseDateParam(c.Query("checkOut"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkOut must be a date (YYYY-MM-DD)")
		return
	}
	if !checkOut.After(checkIn) {
		utils.JSONError(c, http.StatusBadRequest, services.ErrInvalidDates.Error())
		return
	}

	var roomTypeID *uint
	if raw := c.Query("roomTypeId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "roomTypeId must be numeric")
			return
		}
		v := uint(id)
		roomTypeID = &v
	}

	adults := 1
	if raw := c.Query("numberOfAdults"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			adults = n
		}
	}
	guestCountry := c.Query("guestCountry")

	rooms, err := ctrl.Availability.FindAvailableRooms(checkIn, checkOut, roomTypeID)
	if err != nil {
		ctrl.Bookings.Log.Error().Err(err).Msg("availability query failed")
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	groupIndex := map[uint]int{}
	groups := []availableRoomTypeGroup{}
	for _, room := range rooms {
		if room.RoomTypeID == nil {
			continue
		}
		idx, seen := groupIndex[*room.RoomTypeID]
		if !seen {
			groups = append(groups, availableRoomTypeGroup{
				RoomType: room.RoomType,
				Quote:    ctrl.Pricing.QuoteStay(room.RoomType, guestCountry, adults, checkIn, checkOut),
			})
			idx = len(groups) - 1
			groupIndex[*room.RoomTypeID] = idx
		}
		groups[idx].Rooms = append(groups[idx].Rooms, room)
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"check_in":   checkIn.Format("2006-01-02"),
		"check_out":  checkOut.Format("2006-01-02"),
		"room_types": groups,
	})
}

type createBookingPayload struct {
	GuestName    string `json:"guest_name" binding:"required"`
	GuestEmail   string `json:"guest_email" binding:"required,email"`
	GuestPhone   string `json:"guest_phone"`
	GuestCountry string `json:"guest_country" binding:"required"`
	GuestIDNo    string `json:"guest_id_no"`
	CheckIn      string `json:"check_in" binding:"required"`
	CheckOut     string `json:"check_out" binding:"required"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
	RoomIDs      []uint `json:"room_ids" binding:"required"`
}

func (ctrl *BookingController) Create(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "guest_name, guest_email, guest_country, check_in, check_out and room_ids are required")
		return
	}

	checkIn, err := parseDateParam(payload.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "check_in must be a date (YYYY-MM-DD)")
		return
	}
	checkOut, err := parseDateParam(payload.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "check_out must be a date (YYYY-MM-DD)")
		return
	}

	booking, err := ctrl.Bookings.CreateBooking(services.CreateBookingInput{
		GuestName:    payload.GuestName,
		GuestEmail:   payload.GuestEmail,
		GuestPhone:   payload.GuestPhone,
		GuestCountry: payload.GuestCountry,
		GuestIDNo:    payload.GuestIDNo,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Adults:       payload.Adults,
		Children:     payload.Children,
		RoomIDs:      payload.RoomIDs,
	})
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	ctrl.Activity.Record(booking.GuestEmail, "booking.create", "booking", booking.ID, gin.H{
		"booking_number": booking.BookingNumber,
		"total_amount":   booking.TotalAmount,
		"currency":       booking.Currency,
	})
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

func (ctrl *BookingController) List(c *gin.Context) {
	list, err := ctrl.Bookings.GetAllWithRelations(c.Query("status"))
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *BookingController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	booking, err := ctrl.Bookings.GetByID(id)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

type editBookingPayload struct {
	GuestName  *string `json:"guest_name"`
	GuestEmail *string `json:"guest_email"`
	GuestPhone *string `json:"guest_phone"`
	GuestIDNo  *string `json:"guest_id_no"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	Adults     *int    `json:"adults"`
	Children   *int    `json:"children"`
}

func (p *editBookingPayload) toInput() (services.EditBookingInput, error) {
	in := services.EditBookingInput{
		GuestName:  p.GuestName,
		GuestEmail: p.GuestEmail,
		GuestPhone: p.GuestPhone,
		GuestIDNo:  p.GuestIDNo,
		Adults:     p.Adults,
		Children:   p.Children,
	}
	if p.CheckIn != nil {
		t, err := parseDateParam(*p.CheckIn)
		if err != nil {
			return in, err
		}
		in.CheckIn = &t
	}
	if p.CheckOut != nil {
		t, err := parseDateParam(*p.CheckOut)
		if err != nil {
			return in, err
		}
		in.CheckOut = &t
	}
	return in, nil
}

// GuestEdit is the unauthenticated self-service edit, identified by booking
// number and guest email rather than a session.
func (ctrl *BookingController) GuestEdit(c *gin.Context) {
	var payload struct {
		BookingNumber string `json:"booking_number" binding:"required"`
		GuestEmail    string `json:"guest_email" binding:"required,email"`
		editBookingPayload
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "booking_number and guest_email are required")
		return
	}

	in, err := payload.toInput()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	booking, err := ctrl.Bookings.GuestEdit(payload.BookingNumber, payload.GuestEmail, in)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	ctrl.Activity.Record(booking.GuestEmail, "booking.guestEdit", "booking", booking.ID, nil)
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) StaffEdit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload editBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	in, err := payload.toInput()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	booking, err := ctrl.Bookings.StaffEdit(id, in, &actor.ID)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	ctrl.Activity.Record(actor.Email, "booking.edit", "booking", booking.ID, nil)
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) CheckIn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor, _ := middleware.CurrentUser(c)
	booking, err := ctrl.Bookings.CheckIn(id, &actor.ID)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	ctrl.Activity.Record(actor.Email, "booking.checkIn", "booking", booking.ID, nil)
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) CheckOut(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor, _ := middleware.CurrentUser(c)
	booking, err := ctrl.Bookings.CheckOut(id, &actor.ID)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	ctrl.Activity.Record(actor.Email, "booking.checkOut", "booking", booking.ID, nil)
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor, _ := middleware.CurrentUser(c)
	booking, err := ctrl.Bookings.Cancel(id, &actor.ID)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	ctrl.Activity.Record(actor.Email, "booking.cancel", "booking", booking.ID, nil)
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// PriceCheck quotes the booking at current rates without changing it.
func (ctrl *BookingController) PriceCheck(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	quote, err := ctrl.Bookings.PriceCheck(id)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}
