package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reefcrew/seabooking/internal/payment"
	"github.com/reefcrew/seabooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/create-payment-intent", h.createPaymentIntent)
	router.POST("/payment-link", h.createPaymentLink)
	router.POST("/create-group-booking", h.createGroupBooking)
	router.POST("/payments/:id/pay", h.payShare)
	router.POST("/bookings/:id/cancel", h.cancel)
}

type createIntentRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

type createLinkRequest struct {
	TripID         string `json:"tripId"`
	TripDate       string `json:"tripDate"`
	TripTime       string `json:"tripTime"`
	ActivityTitle  string `json:"activityTitle"`
	PricePerPerson int64  `json:"pricePerPerson"`
	InviterName    string `json:"inviterName"`
}

type createGroupBookingRequest struct {
	ActivityID            int64  `json:"activityId"`
	SlotID                int64  `json:"slotId"`
	SlotDate              string `json:"slotDate"`
	SlotTime              string `json:"slotTime"`
	TotalGuests           int    `json:"totalGuests"`
	PricePerPerson        int64  `json:"pricePerPerson"`
	PromoCode             string `json:"promoCode"`
	BookerName            string `json:"bookerName"`
	BookerEmail           string `json:"bookerEmail"`
	BookerWhatsapp        string `json:"bookerWhatsapp"`
	PaymentMethod         string `json:"paymentMethod"`
	BookerPaymentIntentID string `json:"bookerPaymentIntentId"`
	// BookerAmount is the client's claim of what it paid. The server
	// recomputes the booker share and verifies the intent against that,
	// so the field is accepted but never trusted.
	BookerAmount int64 `json:"bookerAmount"`
}

type groupBookingResponse struct {
	BookingID        int64  `json:"bookingId"`
	ConfirmationCode string `json:"confirmationCode"`
	TotalGuests      int    `json:"totalGuests"`
	PaidCount        int    `json:"paidCount"`
	PendingCount     int    `json:"pendingCount"`
	PaymentLinkID    string `json:"paymentLinkId,omitempty"`
	PaymentLinkURL   string `json:"paymentLinkUrl,omitempty"`
}

type payShareRequest struct {
	GuestName     string `json:"guestName"`
	GuestEmail    string `json:"guestEmail"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *BookingHandler) createPaymentIntent(c *gin.Context) {
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.service.PreparePaymentIntent(c.Request.Context(), booking.IntentInput{
		AmountCents: req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

func (h *BookingHandler) createPaymentLink(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.service.CreateShareLink(c.Request.Context(), booking.ShareLinkInput{
		TripID:              req.TripID,
		TripDate:            req.TripDate,
		TripTime:            req.TripTime,
		ActivityTitle:       req.ActivityTitle,
		PricePerPersonCents: req.PricePerPerson,
		InviterName:         req.InviterName,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paymentLinkId":  link.ID,
		"paymentLinkUrl": link.URL,
		"tripId":         req.TripID,
	})
}

func (h *BookingHandler) createGroupBooking(c *gin.Context) {
	var req createGroupBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.CreateGroupBooking(c.Request.Context(), booking.CreateGroupBookingInput{
		ActivityID:            req.ActivityID,
		SlotID:                req.SlotID,
		SlotDate:              req.SlotDate,
		SlotTime:              req.SlotTime,
		GuestCount:            req.TotalGuests,
		BookerName:            req.BookerName,
		BookerEmail:           req.BookerEmail,
		BookerWhatsapp:        req.BookerWhatsapp,
		PromoCode:             req.PromoCode,
		PaymentMethod:         req.PaymentMethod,
		BookerPaymentIntentID: req.BookerPaymentIntentID,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, groupBookingResponse{
		BookingID:        result.Booking.ID,
		ConfirmationCode: result.Booking.ConfirmationCode,
		TotalGuests:      result.Booking.TotalGuests,
		PaidCount:        result.PaidCount,
		PendingCount:     result.PendingCount,
		PaymentLinkID:    result.PaymentLinkID,
		PaymentLinkURL:   result.PaymentLinkURL,
	})
}

func (h *BookingHandler) payShare(c *gin.Context) {
	var req payShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.PayShare(c.Request.Context(), booking.PayShareInput{
		PaymentID:     c.Param("id"),
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	paidAt := ""
	if record.PaidAt != nil {
		paidAt = record.PaidAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          record.ID,
		"booking_id":  record.BookingID,
		"status":      string(record.Status),
		"guest_name":  record.GuestName,
		"guest_email": record.GuestEmail,
		"paid_at":     paidAt,
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookingId":        cancelled.ID,
		"confirmationCode": cancelled.ConfirmationCode,
		"status":           string(cancelled.Status),
	})
}

// writeBookingError maps the service error taxonomy onto HTTP statuses.
// Gateway failures are retryable; a persistence failure after a successful
// charge must tell the user to contact support with the payment reference
// rather than claim success.
func writeBookingError(c *gin.Context, err error) {
	var persistErr *booking.PersistenceError
	var gatewayErr *payment.Error

	switch {
	case errors.Is(err, booking.ErrInvalidGuestCount),
		errors.Is(err, booking.ErrInvalidContact):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrActivityNotFound),
		errors.Is(err, booking.ErrSlotNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, booking.ErrShareNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrSlotFull),
		errors.Is(err, booking.ErrShareNotPending),
		errors.Is(err, booking.ErrBookingInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrPaymentDeclined):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "retryable": true})
	case errors.As(err, &persistErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "your payment went through but the booking could not be saved; please contact support",
			"payment_reference": persistErr.IntentID,
		})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
