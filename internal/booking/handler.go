package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/account"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/api"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/court"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/token"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Create godoc
// @Summary      Request a court reservation
// @Description  Reserves the slot optimistically and notifies the front desk.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body CreateBookingRequest true "Booking request"
// @Success      201 {object} Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	b, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// Confirm godoc
// @Summary      Confirm a booking via one-click token
// @Tags         bookings
// @Produce      json
// @Param        token query string true "Signed action token"
// @Success      200 {object} Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings/confirm [get]
func (h *Handler) Confirm(c *gin.Context) {
	tok := c.Query("token")
	if tok == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "token parameter required"})
		return
	}

	b, err := h.svc.Confirm(c.Request.Context(), tok)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Decline godoc
// @Summary      Decline a booking via one-click token
// @Tags         bookings
// @Produce      json
// @Param        token query string true "Signed action token"
// @Success      200 {object} DeclineResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings/decline [get]
func (h *Handler) Decline(c *gin.Context) {
	tok := c.Query("token")
	if tok == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "token parameter required"})
		return
	}

	result, err := h.svc.Decline(c.Request.Context(), tok)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Cancel godoc
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid booking ID"})
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), bookingID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "booking cancelled"})
}

// ListByAccount godoc
// @Summary      List an account's bookings
// @Tags         bookings
// @Produce      json
// @Param        accountID path int true "Account ID"
// @Success      200 {array} Booking
// @Failure      400 {object} api.ErrorResponse
// @Router       /accounts/{accountID}/bookings [get]
func (h *Handler) ListByAccount(c *gin.Context) {
	accountID, err := strconv.Atoi(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid account ID"})
		return
	}

	bookings, err := h.svc.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func respondWorkflowError(c *gin.Context, err error) {
	var conflict *court.ConflictError

	switch {
	case errors.Is(err, token.ErrInvalidToken), errors.Is(err, token.ErrTokenExpired):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid or expired token"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "slot conflict",
			"booking_id": conflict.BookingID,
			"court_id":   conflict.CourtID,
			"date":       conflict.SlotDate.Format(court.DateLayout),
			"hour":       conflict.Hour,
		})
	case errors.Is(err, ErrBookingNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "booking not found"})
	case errors.Is(err, account.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "account not found"})
	case errors.Is(err, court.ErrCourtNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court not found"})
	case errors.Is(err, court.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "time slot not found"})
	case errors.Is(err, ErrSlotUnavailable):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "time slot is not open for booking"})
	case errors.Is(err, ErrAlreadyFinal):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "booking already finalized"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}
