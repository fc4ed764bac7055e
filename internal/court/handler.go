package court

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/api"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type CreateCourtRequest struct {
	Name            string `json:"name" validate:"required"`
	Surface         string `json:"surface" validate:"required"`
	HourlyRateCents int64  `json:"hourly_rate_cents" validate:"required,gt=0"`
}

type CreateTimeSlotRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour int    `json:"hour" validate:"gte=0,lte=23"`
}

// CreateCourt godoc
// @Summary      Create a court
// @Tags         courts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCourtRequest true "Court"
// @Success      201 {object} Court
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/courts [post]
func (h *Handler) CreateCourt(c *gin.Context) {
	var req CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	created, err := h.repo.CreateCourt(c.Request.Context(), req.Name, req.Surface, req.HourlyRateCents)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create court"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListCourts godoc
// @Summary      List courts
// @Tags         courts
// @Produce      json
// @Success      200 {array} Court
// @Router       /courts [get]
func (h *Handler) ListCourts(c *gin.Context) {
	courts, err := h.repo.ListCourts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusOK, courts)
}

// CreateTimeSlot godoc
// @Summary      Provision a bookable time slot
// @Tags         courts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        courtID path int true "Court ID"
// @Param        request body CreateTimeSlotRequest true "Slot"
// @Success      201 {object} TimeSlot
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/courts/{courtID}/slots [post]
func (h *Handler) CreateTimeSlot(c *gin.Context) {
	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid court ID"})
		return
	}

	var req CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date"})
		return
	}

	if _, err := h.repo.GetCourtByID(c.Request.Context(), courtID); err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "database error"})
		return
	}

	slot, err := h.repo.CreateTimeSlot(c.Request.Context(), courtID, date, req.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create time slot"})
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// ListTimeSlots godoc
// @Summary      List a court's upcoming slots
// @Tags         courts
// @Produce      json
// @Param        courtID path int true "Court ID"
// @Success      200 {array} TimeSlot
// @Failure      400 {object} api.ErrorResponse
// @Router       /courts/{courtID}/slots [get]
func (h *Handler) ListTimeSlots(c *gin.Context) {
	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid court ID"})
		return
	}

	from := time.Now().UTC().Truncate(24 * time.Hour)
	slots, err := h.repo.ListTimeSlots(c.Request.Context(), courtID, from)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusOK, slots)
}

// Availability godoc
// @Summary      Check whether a slot is open
// @Tags         courts
// @Produce      json
// @Param        courtID path int true "Court ID"
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Param        hour query int true "Hour (0-23)"
// @Success      200 {object} map[string]bool
// @Failure      400 {object} api.ErrorResponse
// @Router       /courts/{courtID}/availability [get]
func (h *Handler) Availability(c *gin.Context) {
	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid court ID"})
		return
	}

	date, err := time.Parse(DateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}

	hour, err := strconv.Atoi(c.Query("hour"))
	if err != nil || hour < 0 || hour > 23 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "hour must be 0-23"})
		return
	}

	available, err := h.repo.IsAvailable(c.Request.Context(), courtID, date, hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}
