package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/httpresp"
	"github.com/jrtechsistemas/studio-scheduler/internal/middleware"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

type ExpenseHandler struct {
	db *gorm.DB
}

func NewExpenseHandler(db *gorm.DB) *ExpenseHandler {
	return &ExpenseHandler{db: db}
}

type ExpenseRequest struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Date        string  `json:"date" binding:"required"` // YYYY-MM-DD
	Category    string  `json:"category"`
	Paid        bool    `json:"paid"`
}

func (h *ExpenseHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	q := h.db.Where("business_id = ?", businessID)

	if month := c.Query("month"); month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			httperr.BadRequest(c, "invalid_month", "Mês inválido (use YYYY-MM).")
			return
		}
		q = q.Where("date >= ? AND date < ?", start, start.AddDate(0, 1, 0))
	}

	var expenses []models.Expense
	if err := q.Order("date DESC").Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_expenses"})
		return
	}

	httpresp.List(c, expenses)
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida (use YYYY-MM-DD).")
		return
	}

	exp := models.Expense{
		BusinessID:  businessID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Category:    req.Category,
		Paid:        req.Paid,
	}

	if err := h.db.Create(&exp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_expense"})
		return
	}

	c.JSON(http.StatusCreated, exp)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	var exp models.Expense
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&exp).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_expense"})
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida (use YYYY-MM-DD).")
		return
	}

	exp.Description = req.Description
	exp.Amount = req.Amount
	exp.Date = date
	exp.Category = req.Category
	exp.Paid = req.Paid

	if err := h.db.Save(&exp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_expense"})
		return
	}

	c.JSON(http.StatusOK, exp)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	res := h.db.
		Where("id = ? AND business_id = ?", c.Param("id"), businessID).
		Delete(&models.Expense{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_expense"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "expense_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "expense_deleted"})
}
