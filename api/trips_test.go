package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/reefcrew/seabooking/internal/domain"
	"github.com/reefcrew/seabooking/internal/service/trips"
)

// MockTripUseCase is a mock implementation of trips.TripUseCase
type MockTripUseCase struct {
	mock.Mock
}

func (m *MockTripUseCase) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Activity), args.Error(1)
}

func (m *MockTripUseCase) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockTripUseCase) ListSlots(ctx context.Context, activityID int64, daysAhead int) ([]domain.TripSlot, error) {
	args := m.Called(ctx, activityID, daysAhead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TripSlot), args.Error(1)
}

func (m *MockTripUseCase) GetTripStatus(ctx context.Context, bookingID int64) (*trips.TripStatusSummary, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trips.TripStatusSummary), args.Error(1)
}

func TestTripStatusHandler_tripStatus(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripStatusHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/trip-status?booking_id=7", nil)

	paidAt := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	summary := &trips.TripStatusSummary{
		Booking: &domain.Booking{
			ID:               7,
			ConfirmationCode: "REEF-K7KQ2M",
			TotalGuests:      4,
			Status:           domain.BookingStatusConfirmed,
			PaymentLinkURL:   "https://buy.stripe.com/plink_1",
		},
		Payments: []domain.PaymentRecord{
			{ID: "a", IsBooker: true, Status: domain.PaymentStatusPaid, AmountCents: 10000, PaidAt: &paidAt},
			{ID: "b", Status: domain.PaymentStatusPending, AmountCents: 10000},
			{ID: "c", Status: domain.PaymentStatusPending, AmountCents: 10000},
			{ID: "d", Status: domain.PaymentStatusPending, AmountCents: 10000},
		},
		TotalGuests:  4,
		PaidCount:    1,
		PendingCount: 3,
	}
	mockService.On("GetTripStatus", c.Request.Context(), int64(7)).Return(summary, nil)

	handler.tripStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response tripStatusResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "REEF-K7KQ2M", response.Booking.ConfirmationCode)
	assert.Len(t, response.Payments, 4)
	assert.True(t, response.Payments[0].IsBooker)
	assert.Equal(t, "2026-03-10T09:30:00Z", response.Payments[0].PaidAt)
	assert.Equal(t, 4, response.Summary.TotalGuests)
	assert.Equal(t, 1, response.Summary.PaidCount)
	assert.Equal(t, 3, response.Summary.PendingCount)
	assert.Zero(t, response.Summary.FailedCount)
	assert.False(t, response.Summary.AllPaid)

	mockService.AssertExpectations(t)
}

func TestTripStatusHandler_tripStatus_missingID(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripStatusHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/trip-status", nil)

	handler.tripStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetTripStatus", mock.Anything, mock.Anything)
}

func TestTripStatusHandler_tripStatus_notFound(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewTripStatusHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/trip-status?booking_id=404", nil)

	mockService.On("GetTripStatus", c.Request.Context(), int64(404)).Return(nil, trips.ErrBookingNotFound)

	handler.tripStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActivityHandler_listSlots(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewActivityHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/activities/1/slots?days=3", nil)

	generated := []domain.TripSlot{
		{
			ActivityID:        1,
			Date:              "2026-03-10",
			StartTime:         "09:00",
			EndTime:           "10:30",
			Capacity:          6,
			MinToRun:          4,
			SeatsFilled:       3,
			Status:            domain.SlotStatusAlmostFull,
			PricePerSeatCents: 8000,
			Badges:            []string{"Reef Crew"},
		},
	}
	mockService.On("ListSlots", c.Request.Context(), int64(1), 3).Return(generated, nil)

	handler.listSlots(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []slotResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "Almost there, 3/6 filled", response[0].StatusMessage)
	assert.Equal(t, string(domain.SlotStatusAlmostFull), response[0].Status)

	mockService.AssertExpectations(t)
}

func TestActivityHandler_get_unknownActivity(t *testing.T) {
	mockService := &MockTripUseCase{}
	handler := NewActivityHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest("GET", "/activities/99", nil)

	mockService.On("GetActivity", c.Request.Context(), int64(99)).Return(nil, trips.ErrBookingNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
