package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reefcrew/seabooking/internal/domain"
	"github.com/reefcrew/seabooking/internal/service/trips"
)

type TripStatusHandler struct {
	service trips.TripUseCase
}

func NewTripStatusHandler(service trips.TripUseCase) *TripStatusHandler {
	return &TripStatusHandler{service: service}
}

func (h *TripStatusHandler) Register(router *gin.RouterGroup) {
	router.GET("/trip-status", h.tripStatus)
}

type paymentRecordResponse struct {
	ID          string `json:"id"`
	GuestName   string `json:"guest_name,omitempty"`
	GuestEmail  string `json:"guest_email,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
	IsBooker    bool   `json:"is_booker"`
	PaidAt      string `json:"paid_at,omitempty"`
}

type tripStatusResponse struct {
	Booking  bookingResponse         `json:"booking"`
	Payments []paymentRecordResponse `json:"payments"`
	Summary  tripStatusSummary       `json:"summary"`
}

type bookingResponse struct {
	ID                 int64  `json:"id"`
	ConfirmationCode   string `json:"confirmation_code"`
	ActivityID         int64  `json:"activity_id"`
	SlotDate           string `json:"slot_date"`
	SlotTime           string `json:"slot_time"`
	TotalGuests        int    `json:"total_guests"`
	PricePerGuestCents int64  `json:"price_per_guest_cents"`
	BookerName         string `json:"booker_name"`
	PaymentLinkURL     string `json:"payment_link_url,omitempty"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
}

type tripStatusSummary struct {
	TotalGuests  int  `json:"totalGuests"`
	PaidCount    int  `json:"paidCount"`
	PendingCount int  `json:"pendingCount"`
	FailedCount  int  `json:"failedCount"`
	AllPaid      bool `json:"allPaid"`
}

func (h *TripStatusHandler) tripStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("booking_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking_id query parameter is required"})
		return
	}

	summary, err := h.service.GetTripStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, trips.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payments := make([]paymentRecordResponse, 0, len(summary.Payments))
	for _, p := range summary.Payments {
		payments = append(payments, toPaymentResponse(p))
	}

	c.JSON(http.StatusOK, tripStatusResponse{
		Booking:  toBookingResponse(summary.Booking),
		Payments: payments,
		Summary: tripStatusSummary{
			TotalGuests:  summary.TotalGuests,
			PaidCount:    summary.PaidCount,
			PendingCount: summary.PendingCount,
			FailedCount:  summary.FailedCount,
			AllPaid:      summary.AllPaid(),
		},
	})
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                 b.ID,
		ConfirmationCode:   b.ConfirmationCode,
		ActivityID:         b.ActivityID,
		SlotDate:           b.SlotDate,
		SlotTime:           b.SlotTime,
		TotalGuests:        b.TotalGuests,
		PricePerGuestCents: b.PricePerGuestCents,
		BookerName:         b.BookerName,
		PaymentLinkURL:     b.PaymentLinkURL,
		Status:             string(b.Status),
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
	}
}

func toPaymentResponse(p domain.PaymentRecord) paymentRecordResponse {
	out := paymentRecordResponse{
		ID:          p.ID,
		GuestName:   p.GuestName,
		GuestEmail:  p.GuestEmail,
		AmountCents: p.AmountCents,
		Status:      string(p.Status),
		IsBooker:    p.IsBooker,
	}
	if p.PaidAt != nil {
		out.PaidAt = p.PaidAt.Format(time.RFC3339)
	}
	return out
}
