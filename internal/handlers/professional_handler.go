package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/middleware"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

type ProfessionalHandler struct {
	db *gorm.DB
}

func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{db: db}
}

type CreateProfessionalRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type UpdateProfessionalRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var pros []models.User
	if err := h.db.
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&pros).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_professionals"})
		return
	}

	c.JSON(http.StatusOK, pros)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	pro := models.User{
		BusinessID:   businessID,
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "professional",
	}

	if err := h.db.Create(&pro).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_professional"})
		return
	}

	c.JSON(http.StatusCreated, pro)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	var pro models.User
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&pro).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_professional"})
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if req.Name != nil {
		pro.Name = *req.Name
	}
	if req.Phone != nil {
		pro.Phone = *req.Phone
	}

	if err := h.db.Save(&pro).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_professional"})
		return
	}

	c.JSON(http.StatusOK, pro)
}

// Delete recusa a remoção enquanto houver agenda futura ocupando horário.
func (h *ProfessionalHandler) Delete(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var pro models.User
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&pro).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_professional"})
		return
	}

	if pro.ID == userID {
		httperr.BadRequest(c, "cannot_delete_self", "Não é possível remover o próprio usuário.")
		return
	}

	var future int64
	h.db.Model(&models.Booking{}).
		Where("professional_id = ? AND end_time > ? AND status IN ?",
			pro.ID, time.Now(), []string{"pending", "confirmed"}).
		Count(&future)
	if future > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "professional_has_future_bookings",
			"message": "Profissional possui agendamentos futuros ativos.",
		})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("professional_id = ?", pro.ID).Delete(&models.WorkBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("professional_id = ?", pro.ID).Delete(&models.DayBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM service_professionals WHERE user_id = ?", pro.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&pro).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_professional"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "professional_deleted"})
}
