package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/middleware"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

type BusinessHandler struct {
	db *gorm.DB
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{db: db}
}

type UpdateBusinessConfigRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	PrimaryColor *string `json:"primary_color"`
	Timezone     *string `json:"timezone"`

	MaxAdvanceDays       *int  `json:"max_advance_days"`
	OnlinePaymentEnabled *bool `json:"online_payment_enabled"`
}

func (h *BusinessHandler) GetMeBusiness(c *gin.Context) {
	businessIDVal, _ := c.Get(middleware.ContextBusinessID)
	businessID := businessIDVal.(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "business_not_found", "Negócio não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_business", "Erro ao buscar dados do negócio.")
		return
	}

	c.JSON(http.StatusOK, biz)
}

func (h *BusinessHandler) UpdateMeBusiness(c *gin.Context) {
	businessIDVal, _ := c.Get(middleware.ContextBusinessID)
	businessID := businessIDVal.(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "business_not_found", "Negócio não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_business", "Erro ao buscar dados do negócio.")
		return
	}

	var req UpdateBusinessConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		biz.Name = *req.Name
	}
	if req.Phone != nil {
		biz.Phone = *req.Phone
	}
	if req.PrimaryColor != nil {
		biz.PrimaryColor = *req.PrimaryColor
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Timezone IANA inválido.")
			return
		}
		biz.Timezone = *req.Timezone
	}
	if req.MaxAdvanceDays != nil {
		if *req.MaxAdvanceDays < 1 || *req.MaxAdvanceDays > 365 {
			httperr.BadRequest(c, "invalid_max_advance", "Janela de antecedência deve ficar entre 1 e 365 dias.")
			return
		}
		biz.MaxAdvanceDays = *req.MaxAdvanceDays
	}
	if req.OnlinePaymentEnabled != nil {
		biz.OnlinePaymentEnabled = *req.OnlinePaymentEnabled
	}

	if err := h.db.Save(&biz).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Erro ao salvar as configurações do negócio.")
		return
	}

	c.JSON(http.StatusOK, biz)
}

// GetAPIToken devolve o token de integração (só para o painel autenticado).
func (h *BusinessHandler) GetAPIToken(c *gin.Context) {
	businessIDVal, _ := c.Get(middleware.ContextBusinessID)
	businessID := businessIDVal.(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.Internal(c, "failed_to_get_business", "Erro ao buscar dados do negócio.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_token": biz.APIToken})
}
