package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/middleware"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/usecase/availability"
	ucbooking "github.com/jrtechsistemas/studio-scheduler/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// INTEGRAÇÃO MÁQUINA-A-MÁQUINA (X-Api-Token)
////////////////////////////////////////////////////////

// IntegrationHandler espelha o fluxo público para bots e automações: o
// negócio vem do token, não do slug.
type IntegrationHandler struct {
	repo domain.Repository

	freeDays  *availability.GetFreeDays
	freeSlots *availability.GetFreeSlots
	create    *ucbooking.CreateBooking
}

func NewIntegrationHandler(
	repo domain.Repository,
	freeDays *availability.GetFreeDays,
	freeSlots *availability.GetFreeSlots,
	create *ucbooking.CreateBooking,
) *IntegrationHandler {
	return &IntegrationHandler{
		repo:      repo,
		freeDays:  freeDays,
		freeSlots: freeSlots,
		create:    create,
	}
}

func integrationBusiness(c *gin.Context) *models.Business {
	return c.MustGet(middleware.ContextIntegrationBusiness).(*models.Business)
}

func (h *IntegrationHandler) GetCatalog(c *gin.Context) {
	biz := integrationBusiness(c)

	services, err := h.repo.ListActiveServices(c.Request.Context(), biz.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_load_catalog", "Erro ao carregar o catálogo.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": gin.H{
			"id":   biz.ID,
			"name": biz.Name,
			"slug": biz.Slug,
		},
		"services": services,
	})
}

func (h *IntegrationHandler) GetFreeDays(c *gin.Context) {
	biz := integrationBusiness(c)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	proID, errP := strconv.ParseUint(c.Query("professional_id"), 10, 32)
	if errY != nil || errM != nil || errP != nil {
		httperr.BadRequest(c, "invalid_request", "Parâmetros year, month e professional_id são obrigatórios.")
		return
	}

	days, err := h.freeDays.Execute(c.Request.Context(), availability.GetFreeDaysInput{
		BusinessID:     biz.ID,
		ProfessionalID: uint(proID),
		Selection:      c.Query("selection"),
		Year:           year,
		Month:          month,
		ClientPhone:    strings.TrimSpace(c.Query("client_phone")),
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (h *IntegrationHandler) GetFreeSlots(c *gin.Context) {
	biz := integrationBusiness(c)

	proID, err := strconv.ParseUint(c.Query("professional_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Parâmetro professional_id é obrigatório.")
		return
	}

	slots, err := h.freeSlots.Execute(c.Request.Context(), availability.GetFreeSlotsInput{
		BusinessID:     biz.ID,
		ProfessionalID: uint(proID),
		Selection:      c.Query("selection"),
		Date:           c.Query("date"),
		ClientPhone:    strings.TrimSpace(c.Query("client_phone")),
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *IntegrationHandler) CreateBooking(c *gin.Context) {
	biz := integrationBusiness(c)

	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucbooking.CreateBookingInput{
		BusinessID:     biz.ID,
		ProfessionalID: req.ProfessionalID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Selection:      req.Selection,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	resp := gin.H{
		"id":             b.ID,
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
		"start_time":     b.StartTime,
		"end_time":       b.EndTime,
		"final_price":    b.FinalPrice,
		"deposit_amount": b.DepositAmount,
	}
	if b.PaymentID != nil {
		resp["payment"] = gin.H{
			"qr_code":       b.PaymentQRCode,
			"qr_code_image": b.PaymentQRCodeImage,
			"expires_at":    b.PaymentExpiresAt,
		}
	}

	c.JSON(http.StatusCreated, resp)
}
