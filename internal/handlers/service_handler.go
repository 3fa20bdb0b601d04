package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jrtechsistemas/studio-scheduler/internal/cache"
	"github.com/jrtechsistemas/studio-scheduler/internal/domain/pricing"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/middleware"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	db    *gorm.DB
	cache *cache.Catalog
}

func NewServiceHandler(db *gorm.DB, catalogCache *cache.Catalog) *ServiceHandler {
	return &ServiceHandler{db: db, cache: catalogCache}
}

// --------- Requests ---------

type TierConfig struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name" binding:"required"`
	DaysMin     int     `json:"dias_min" binding:"min=0"`
	DaysMax     int     `json:"dias_max" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"required"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	DepositPct  int     `json:"deposit_pct" binding:"min=0,max=100"`
}

type CreateServiceRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	DurationMin     int     `json:"duration_min" binding:"required,min=1"`
	Price           float64 `json:"price" binding:"required"`
	DepositPct      int     `json:"deposit_pct" binding:"min=0,max=100"`
	CategoryID      *uint   `json:"category_id"`
	ProfessionalIDs []uint  `json:"professional_ids"`

	Tiers []TierConfig `json:"tiers"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DurationMin     *int     `json:"duration_min,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DepositPct      *int     `json:"deposit_pct,omitempty"`
	CategoryID      *uint    `json:"category_id,omitempty"`
	Active          *bool    `json:"active,omitempty"`
	ProfessionalIDs *[]uint  `json:"professional_ids,omitempty"`

	// Presente → substitui o conjunto inteiro de tiers
	Tiers *[]TierConfig `json:"tiers,omitempty"`
}

// --------- Helpers ---------

func tiersFromConfig(serviceID uint, cfgs []TierConfig) []models.MaintenanceTier {
	out := make([]models.MaintenanceTier, 0, len(cfgs))
	for _, t := range cfgs {
		out = append(out, models.MaintenanceTier{
			ServiceID:   serviceID,
			Name:        t.Name,
			DaysMin:     t.DaysMin,
			DaysMax:     t.DaysMax,
			Price:       t.Price,
			DurationMin: t.DurationMin,
			DepositPct:  t.DepositPct,
		})
	}
	return out
}

func (h *ServiceHandler) loadProfessionals(businessID uint, ids []uint) ([]models.User, bool) {
	if len(ids) == 0 {
		return nil, true
	}

	var pros []models.User
	if err := h.db.
		Where("business_id = ? AND id IN ?", businessID, ids).
		Find(&pros).Error; err != nil {
		return nil, false
	}
	// id de fora do negócio não passa batido
	return pros, len(pros) == len(ids)
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.
		Preload("Tiers").
		Preload("Category").
		Preload("Professionals").
		Where("business_id = ?", businessID)

	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// janelas de manutenção validadas ANTES de gravar
	tiers := tiersFromConfig(0, req.Tiers)
	if err := pricing.ValidateTierRanges(tiers); err != nil {
		mapBusinessError(c, err)
		return
	}

	pros, ok := h.loadProfessionals(businessID, req.ProfessionalIDs)
	if !ok {
		httperr.BadRequest(c, "invalid_professionals", "Profissional inexistente na lista.")
		return
	}

	svc := models.Service{
		BusinessID:    businessID,
		Name:          req.Name,
		Description:   req.Description,
		DurationMin:   req.DurationMin,
		Price:         req.Price,
		DepositPct:    req.DepositPct,
		CategoryID:    req.CategoryID,
		Active:        true,
		Tiers:         tiers,
		Professionals: pros,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service"})
		return
	}

	h.cache.Invalidate(c.Request.Context(), businessID)
	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	var svc models.Service
	if err := h.db.
		Preload("Tiers").
		Where("id = ? AND business_id = ?", id, businessID).
		First(&svc).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_service"})
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DepositPct != nil {
		if *req.DepositPct < 0 || *req.DepositPct > 100 {
			httperr.BadRequest(c, "invalid_deposit_pct", "Percentual de adiantamento deve ficar entre 0 e 100.")
			return
		}
		svc.DepositPct = *req.DepositPct
	}
	if req.CategoryID != nil {
		svc.CategoryID = req.CategoryID
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if req.Tiers != nil {
		newTiers := tiersFromConfig(svc.ID, *req.Tiers)
		if err := pricing.ValidateTierRanges(newTiers); err != nil {
			mapBusinessError(c, err)
			return
		}

		// substituição completa do conjunto
		if err := h.db.Where("service_id = ?", svc.ID).Delete(&models.MaintenanceTier{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_replace_tiers"})
			return
		}
		if len(newTiers) > 0 {
			if err := h.db.Create(&newTiers).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_replace_tiers"})
				return
			}
		}
		svc.Tiers = newTiers
	}

	if req.ProfessionalIDs != nil {
		pros, ok := h.loadProfessionals(businessID, *req.ProfessionalIDs)
		if !ok {
			httperr.BadRequest(c, "invalid_professionals", "Profissional inexistente na lista.")
			return
		}
		if err := h.db.Model(&svc).Association("Professionals").Replace(pros); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_link_professionals"})
			return
		}
	}

	if err := h.db.Save(&svc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_service"})
		return
	}

	h.cache.Invalidate(c.Request.Context(), businessID)
	c.JSON(http.StatusOK, svc)
}
