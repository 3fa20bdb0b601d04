package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jrtechsistemas/studio-scheduler/internal/cache"
	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/domain/pricing"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/usecase/availability"
	ucbooking "github.com/jrtechsistemas/studio-scheduler/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db    *gorm.DB
	repo  domain.Repository
	cache *cache.Catalog

	freeDays  *availability.GetFreeDays
	freeSlots *availability.GetFreeSlots
	create    *ucbooking.CreateBooking
	cancel    *ucbooking.CancelBooking
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	catalogCache *cache.Catalog,
	freeDays *availability.GetFreeDays,
	freeSlots *availability.GetFreeSlots,
	create *ucbooking.CreateBooking,
	cancel *ucbooking.CancelBooking,
) *PublicHandler {
	return &PublicHandler{
		db:        db,
		repo:      repo,
		cache:     catalogCache,
		freeDays:  freeDays,
		freeSlots: freeSlots,
		create:    create,
		cancel:    cancel,
	}
}

func (h *PublicHandler) businessBySlug(c *gin.Context) (*models.Business, bool) {
	slug := c.Param("slug")

	biz, err := h.repo.GetBusinessBySlug(c.Request.Context(), slug)
	if err != nil {
		httperr.NotFound(c, "business_not_found", "Negócio não encontrado.")
		return nil, false
	}
	return biz, true
}

////////////////////////////////////////////////////////
// CATÁLOGO (cache por negócio + elegibilidade por cliente)
////////////////////////////////////////////////////////

// catalogPayload é o que vai para o Redis: o catálogo cru, sem nada que
// dependa do cliente que pergunta.
type catalogPayload struct {
	Categories []models.Category `json:"categories"`
	Services   []models.Service  `json:"services"`
}

// AnnotatedTier acrescenta a elegibilidade calculada para o cliente da
// requisição. O campo Tiers externo vence o promovido no JSON.
type AnnotatedTier struct {
	models.MaintenanceTier
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

type AnnotatedService struct {
	models.Service
	Tiers []AnnotatedTier `json:"tiers"`
}

func (h *PublicHandler) loadCatalog(c *gin.Context, biz *models.Business) (*catalogPayload, error) {
	ctx := c.Request.Context()

	var payload catalogPayload
	if h.cache.GetCatalog(ctx, biz.ID, &payload) {
		return &payload, nil
	}

	services, err := h.repo.ListActiveServices(ctx, biz.ID)
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := h.db.
		Where("business_id = ?", biz.ID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}

	payload = catalogPayload{Categories: categories, Services: services}
	h.cache.SetCatalog(ctx, biz.ID, payload)
	return &payload, nil
}

// annotate calcula, por tier, se o cliente informado está dentro da janela
// de manutenção HOJE. Sem telefone (ou cliente desconhecido) todo tier sai
// como first_time.
func (h *PublicHandler) annotate(
	c *gin.Context,
	biz *models.Business,
	services []models.Service,
	phone string,
) []AnnotatedService {

	ctx := c.Request.Context()
	now := nowInBusiness(biz)

	var client *models.Client
	if phone != "" {
		client, _ = h.repo.GetClientByPhone(ctx, biz.ID, phone)
	}

	// uma referência por categoria, resolvida sob demanda
	refs := map[uint]*pricing.Reference{}
	refFor := func(categoryID *uint) *pricing.Reference {
		if client == nil || categoryID == nil {
			return nil
		}
		if ref, ok := refs[*categoryID]; ok {
			return ref
		}
		var ref *pricing.Reference
		if rb, err := h.repo.LatestReferenceBooking(ctx, client.ID, *categoryID); err == nil && rb != nil {
			ref = &pricing.Reference{ServiceID: rb.ServiceID, Date: rb.StartTime}
		}
		refs[*categoryID] = ref
		return ref
	}

	out := make([]AnnotatedService, 0, len(services))
	for i := range services {
		svc := services[i]
		ref := refFor(svc.CategoryID)

		tiers := make([]AnnotatedTier, 0, len(svc.Tiers))
		for _, t := range svc.Tiers {
			tier := t
			el := pricing.TierEligibility(&svc, &tier, ref, now)
			tiers = append(tiers, AnnotatedTier{
				MaintenanceTier: tier,
				Eligible:        el.Eligible,
				Reason:          el.Reason,
			})
		}

		out = append(out, AnnotatedService{Service: svc, Tiers: tiers})
	}
	return out
}

func (h *PublicHandler) GetCatalog(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	payload, err := h.loadCatalog(c, biz)
	if err != nil {
		httperr.Internal(c, "failed_to_load_catalog", "Erro ao carregar o catálogo.")
		return
	}

	phone := strings.TrimSpace(c.Query("client_phone"))

	c.JSON(http.StatusOK, gin.H{
		"business": gin.H{
			"id":            biz.ID,
			"name":          biz.Name,
			"slug":          biz.Slug,
			"phone":         biz.Phone,
			"primary_color": biz.PrimaryColor,
		},
		"categories": payload.Categories,
		"services":   h.annotate(c, biz, payload.Services, phone),
	})
}

////////////////////////////////////////////////////////
// PROFISSIONAIS POR SERVIÇO
////////////////////////////////////////////////////////

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "ID de serviço inválido.")
		return
	}

	svc, err := h.repo.GetService(c.Request.Context(), biz.ID, uint(serviceID))
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	pros, err := h.repo.ListProfessionalsForService(c.Request.Context(), svc.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	// lista de vínculos vazia = qualquer profissional do negócio atende
	if len(pros) == 0 {
		if err := h.db.
			Where("business_id = ?", biz.ID).
			Order("name ASC").
			Find(&pros).Error; err != nil {
			httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
			return
		}
	}

	type publicPro struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	out := make([]publicPro, 0, len(pros))
	for _, p := range pros {
		out = append(out, publicPro{ID: p.ID, Name: p.Name})
	}

	c.JSON(http.StatusOK, out)
}

////////////////////////////////////////////////////////
// DISPONIBILIDADE
////////////////////////////////////////////////////////

func (h *PublicHandler) GetFreeDays(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

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

func (h *PublicHandler) GetFreeSlots(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

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

////////////////////////////////////////////////////////
// CRIAÇÃO DE AGENDAMENTO
////////////////////////////////////////////////////////

type PublicCreateBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`

	ProfessionalID uint   `json:"professional_id" binding:"required"`
	Selection      string `json:"selection" binding:"required"` // service_<id> | tier_<id>
	Date           string `json:"date" binding:"required"`      // YYYY-MM-DD
	Time           string `json:"time" binding:"required"`      // HH:mm
	Notes          string `json:"notes"`
}

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

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

	// dados PIX só existem no fluxo com adiantamento
	if b.PaymentID != nil {
		resp["payment"] = gin.H{
			"qr_code":       b.PaymentQRCode,
			"qr_code_image": b.PaymentQRCodeImage,
			"expires_at":    b.PaymentExpiresAt,
		}
	}

	c.JSON(http.StatusCreated, resp)
}

////////////////////////////////////////////////////////
// ÁREA DO CLIENTE (por telefone)
////////////////////////////////////////////////////////

func (h *PublicHandler) ListClientBookings(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	phone := strings.TrimSpace(c.Query("phone"))
	if phone == "" {
		httperr.BadRequest(c, "missing_phone", "Informe o telefone do cliente.")
		return
	}

	client, err := h.repo.GetClientByPhone(c.Request.Context(), biz.ID, phone)
	if err != nil || client == nil {
		// telefone desconhecido não vaza: lista vazia
		c.JSON(http.StatusOK, []models.Booking{})
		return
	}

	bookings, err := h.repo.ListBookingsForClient(c.Request.Context(), client.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

type PublicCancelRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *PublicHandler) CancelBooking(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "ID de agendamento inválido.")
		return
	}

	var req PublicCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	client, err := h.repo.GetClientByPhone(c.Request.Context(), biz.ID, strings.TrimSpace(req.Phone))
	if err != nil || client == nil {
		httperr.NotFound(c, "booking_not_found", "Agendamento não encontrado.")
		return
	}

	b, err := h.cancel.ExecuteForClient(c.Request.Context(), client.ID, uint(id64))
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     b.ID,
		"status": b.Status,
	})
}
