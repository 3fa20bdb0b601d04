package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/middleware"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	ucbooking "github.com/jrtechsistemas/studio-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER (PAINEL / STAFF)
// ======================================================

type BookingHandler struct {
	db        *gorm.DB
	repo      domain.Repository
	update    *ucbooking.UpdateBooking
	cancel    *ucbooking.CancelBooking
	reresolve *ucbooking.ReResolveBooking
}

func NewBookingHandler(
	db *gorm.DB,
	repo domain.Repository,
	update *ucbooking.UpdateBooking,
	cancel *ucbooking.CancelBooking,
	reresolve *ucbooking.ReResolveBooking,
) *BookingHandler {
	return &BookingHandler{
		db:        db,
		repo:      repo,
		update:    update,
		cancel:    cancel,
		reresolve: reresolve,
	}
}

func (h *BookingHandler) bookingID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "ID de agendamento inválido.")
		return 0, false
	}
	return uint(id64), true
}

// ======================================================
// AGENDA DO DIA
// ======================================================
func (h *BookingHandler) ListByDate(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_business"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		dateStr = nowInBusiness(&biz).Format("2006-01-02")
	}

	day, err := parseDateInBusiness(&biz, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida (use YYYY-MM-DD).")
		return
	}

	bookings, err := h.repo.ListBookingsForDay(
		c.Request.Context(),
		businessID,
		day,
		day.Add(24*time.Hour),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Get(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.repo.GetBooking(c.Request.Context(), businessID, id)
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Agendamento não encontrado.")
		return
	}

	c.JSON(http.StatusOK, b)
}

// ======================================================
// TRANSIÇÕES DE STATUS
// ======================================================

type UpdateBookingRequest struct {
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Notes         *string `json:"notes"`
}

func (h *BookingHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	b, err := h.update.Execute(c.Request.Context(), ucbooking.UpdateBookingInput{
		BusinessID:    businessID,
		UserID:        &userID,
		BookingID:     id,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Notes:         req.Notes,
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, "confirmed")
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, "completed")
}

func (h *BookingHandler) transition(c *gin.Context, status string) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.update.Execute(c.Request.Context(), ucbooking.UpdateBookingInput{
		BusinessID: businessID,
		UserID:     &userID,
		BookingID:  id,
		Status:     status,
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), businessID, &userID, id)
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// ======================================================
// RE-RESOLUÇÃO (TROCA DE SERVIÇO / TIER)
// ======================================================

type ReResolveRequest struct {
	Selection string `json:"selection" binding:"required"`
}

func (h *BookingHandler) ReResolve(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req ReResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	b, err := h.reresolve.Execute(c.Request.Context(), ucbooking.ReResolveBookingInput{
		BusinessID: businessID,
		UserID:     &userID,
		BookingID:  id,
		Selection:  req.Selection,
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}
