package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jrtechsistemas/studio-scheduler/internal/cache"
	"github.com/jrtechsistemas/studio-scheduler/internal/middleware"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

type CategoryHandler struct {
	db    *gorm.DB
	cache *cache.Catalog
}

func NewCategoryHandler(db *gorm.DB, catalogCache *cache.Catalog) *CategoryHandler {
	return &CategoryHandler{db: db, cache: catalogCache}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var categories []models.Category
	if err := h.db.
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&categories).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	cat := models.Category{
		BusinessID: businessID,
		Name:       req.Name,
	}

	if err := h.db.Create(&cat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_category"})
		return
	}

	h.cache.Invalidate(c.Request.Context(), businessID)
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	var cat models.Category
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&cat).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "category_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_category"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	cat.Name = req.Name
	if err := h.db.Save(&cat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_category"})
		return
	}

	h.cache.Invalidate(c.Request.Context(), businessID)
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	// serviços apontando para a categoria ficam sem categoria, não somem
	if err := h.db.Model(&models.Service{}).
		Where("category_id = ? AND business_id = ?", id, businessID).
		Update("category_id", nil).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_unlink_services"})
		return
	}

	res := h.db.Where("id = ? AND business_id = ?", id, businessID).Delete(&models.Category{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_category"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "category_not_found"})
		return
	}

	h.cache.Invalidate(c.Request.Context(), businessID)
	c.JSON(http.StatusOK, gin.H{"message": "category_deleted"})
}
