package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/api"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/autocharge"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/billing"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/booking"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/court"
)

// Scheduler and Aggregator are the batch entry points driven by an external
// periodic trigger; the service owns no timers of its own.
type Scheduler interface {
	RunOnce(ctx context.Context, now time.Time) (*autocharge.RunResult, error)
	CancelAutoCharge(ctx context.Context, bookingID int) error
}

type Aggregator interface {
	RunOnce(ctx context.Context, billingDate time.Time) (*billing.RunResult, error)
}

type JobsHandler struct {
	scheduler  Scheduler
	aggregator Aggregator
}

func NewJobsHandler(scheduler Scheduler, aggregator Aggregator) *JobsHandler {
	return &JobsHandler{scheduler: scheduler, aggregator: aggregator}
}

// RunAutoCharge godoc
// @Summary      Run one auto-charge batch
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.ChargeRunResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/jobs/auto-charge [post]
func (h *JobsHandler) RunAutoCharge(c *gin.Context) {
	result, err := h.scheduler.RunOnce(c.Request.Context(), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type runBillingRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// RunBilling godoc
// @Summary      Run one monthly billing batch
// @Description  Date defaults to today; it is normalized to the first of its month.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body runBillingRequest false "Billing date"
// @Success      200 {object} api.BillingRunResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/jobs/billing [post]
func (h *JobsHandler) RunBilling(c *gin.Context) {
	billingDate := time.Now().UTC()

	var req runBillingRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Date != "" {
		parsed, err := time.Parse(court.DateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		billingDate = parsed
	}

	result, err := h.aggregator.RunOnce(c.Request.Context(), billingDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CancelAutoCharge godoc
// @Summary      Cancel a booking's pending auto-charge
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/bookings/{bookingID}/cancel-auto-charge [post]
func (h *JobsHandler) CancelAutoCharge(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid booking ID"})
		return
	}

	if err := h.scheduler.CancelAutoCharge(c.Request.Context(), bookingID); err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "auto-charge cancelled"})
}
