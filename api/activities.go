package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reefcrew/seabooking/internal/domain"
	"github.com/reefcrew/seabooking/internal/service/trips"
	"github.com/reefcrew/seabooking/internal/slots"
)

type ActivityHandler struct {
	service trips.TripUseCase
}

func NewActivityHandler(service trips.TripUseCase) *ActivityHandler {
	return &ActivityHandler{service: service}
}

func (h *ActivityHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/slots", h.listSlots)
}

type slotResponse struct {
	ID                int64    `json:"id,omitempty"`
	ActivityID        int64    `json:"activity_id"`
	Date              string   `json:"date"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	Capacity          int      `json:"capacity"`
	MinToRun          int      `json:"min_to_run"`
	SeatsFilled       int      `json:"seats_filled"`
	Status            string   `json:"status"`
	StatusMessage     string   `json:"status_message"`
	PricePerSeatCents int64    `json:"price_per_seat_cents"`
	Badges            []string `json:"badges,omitempty"`
}

func (h *ActivityHandler) list(c *gin.Context) {
	activities, err := h.service.ListActivities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (h *ActivityHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	activity, err := h.service.GetActivity(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandler) listSlots(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))

	generated, err := h.service.ListSlots(c.Request.Context(), id, days)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	out := make([]slotResponse, 0, len(generated))
	for _, s := range generated {
		out = append(out, toSlotResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func toSlotResponse(s domain.TripSlot) slotResponse {
	return slotResponse{
		ID:                s.ID,
		ActivityID:        s.ActivityID,
		Date:              s.Date,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Capacity:          s.Capacity,
		MinToRun:          s.MinToRun,
		SeatsFilled:       s.SeatsFilled,
		Status:            string(s.Status),
		StatusMessage:     slots.StatusMessage(s.SeatsFilled, s.Capacity, s.MinToRun),
		PricePerSeatCents: s.PricePerSeatCents,
		Badges:            s.Badges,
	}
}
