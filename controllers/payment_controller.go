package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"acacia-hotel-backend/middleware"
	"acacia-hotel-backend/models"
	"acacia-hotel-backend/services"
	"acacia-hotel-backend/utils"
)

type PaymentController struct {
	Payments *services.PaymentService
	Mpesa    *services.MpesaService
	Bookings *services.BookingService
	Activity *services.ActivityService
}

func NewPaymentController(
	payments *services.PaymentService,
	mpesa *services.MpesaService,
	bookings *services.BookingService,
	activity *services.ActivityService,
) *PaymentController {
	return &PaymentController{Payments: payments, Mpesa: mpesa, Bookings: bookings, Activity: activity}
}

type createPaymentPayload struct {
	BookingID     uint    `json:"booking_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Method        string  `json:"method" binding:"required"`
	TransactionID string  `json:"transaction_id"`
}

// Create records a payment against a booking. Rejections carry the exact
// remaining balance so the client can correct the amount.
func (ctrl *PaymentController) Create(c *gin.Context) {
	var payload createPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "booking_id, amount and method are required")
		return
	}

	result, err := ctrl.Payments.ApplyPayment(payload.BookingID, payload.Amount, payload.Method, payload.TransactionID)
	if err != nil {
		var overErr *services.OverpaymentError
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvalidAmount):
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &overErr), errors.Is(err, services.ErrPaymentOnCancelled):
			utils.JSONError(c, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrConcurrentPayment):
			utils.JSONError(c, http.StatusConflict, err.Error())
		default:
			ctrl.Payments.Log.Error().Err(err).Msg("payment failed")
			utils.JSONError(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "payment.create", "payment", result.Payment.ID, gin.H{
		"booking_id": payload.BookingID,
		"amount":     payload.Amount,
		"method":     payload.Method,
	})
	utils.JSONSuccess(c, http.StatusCreated, result)
}

func (ctrl *PaymentController) ListByBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	payments, err := ctrl.Payments.ListByBooking(id)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payments)
}

type stkPushPayload struct {
	BookingID uint    `json:"booking_id" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
}

// InitiateSTKPush sends the M-Pesa prompt to the guest's phone. The payment
// itself is recorded when the guest completes the prompt and the operator
// confirms it, not here.
func (ctrl *PaymentController) InitiateSTKPush(c *gin.Context) {
	var payload stkPushPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "booking_id, phone and amount are required")
		return
	}
	if payload.Amount <= 0 {
		utils.JSONError(c, http.StatusBadRequest, services.ErrInvalidAmount.Error())
		return
	}

	booking, err := ctrl.Bookings.GetByID(payload.BookingID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking not found")
		return
	}
	if booking.Status == models.BookingCancelled {
		utils.JSONError(c, http.StatusConflict, "cannot collect payment for a cancelled booking")
		return
	}

	resp, err := ctrl.Mpesa.InitiateSTKPush(payload.Phone, payload.Amount, booking.BookingNumber, "Room booking "+booking.BookingNumber)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPhone) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		ctrl.Payments.Log.Error().Err(err).Uint("booking_id", payload.BookingID).Msg("stk push failed")
		utils.JSONError(c, http.StatusBadGateway, "payment gateway request failed")
		return
	}

	actor, _ := middleware.CurrentUser(c)
	ctrl.Activity.Record(actor.Email, "payment.stkPush", "booking", booking.ID, gin.H{
		"checkout_request_id": resp.CheckoutRequestID,
		"amount":              payload.Amount,
	})
	utils.JSONSuccess(c, http.StatusOK, resp)
}
