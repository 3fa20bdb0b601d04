package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/middleware"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

type ScheduleHandler struct {
	db *gorm.DB
}

func NewScheduleHandler(db *gorm.DB) *ScheduleHandler {
	return &ScheduleHandler{db: db}
}

type WorkBlockConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type ScheduleUpdateRequest struct {
	Blocks []WorkBlockConfig `json:"blocks" binding:"required"`
}

type DayBlockRequest struct {
	Date   string `json:"date" binding:"required"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

// professionalInBusiness garante que o :id pertence ao negócio do token.
func (h *ScheduleHandler) professionalInBusiness(c *gin.Context) (uint, bool) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_professional_id", "ID de profissional inválido.")
		return 0, false
	}

	var count int64
	h.db.Model(&models.User{}).
		Where("id = ? AND business_id = ?", id64, businessID).
		Count(&count)
	if count == 0 {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return 0, false
	}

	return uint(id64), true
}

// ======================================================
// EXPEDIENTE RECORRENTE (WORK BLOCKS)
// ======================================================

func (h *ScheduleHandler) GetWorkBlocks(c *gin.Context) {
	proID, ok := h.professionalInBusiness(c)
	if !ok {
		return
	}

	var blocks []models.WorkBlock
	if err := h.db.
		Where("professional_id = ?", proID).
		Order("weekday ASC, start_time ASC").
		Find(&blocks).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_schedule"})
		return
	}

	c.JSON(http.StatusOK, blocks)
}

// UpdateWorkBlocks substitui o expediente inteiro do profissional.
func (h *ScheduleHandler) UpdateWorkBlocks(c *gin.Context) {
	proID, ok := h.professionalInBusiness(c)
	if !ok {
		return
	}

	var req ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// valida horários e sobreposição dentro do mesmo dia antes de gravar
	byDay := map[int][]WorkBlockConfig{}
	for _, b := range req.Blocks {
		if !isValidHM(b.StartTime) || !isValidHM(b.EndTime) {
			httperr.BadRequest(c, "invalid_time_format", "Horário deve estar no formato HH:mm.")
			return
		}
		if b.StartTime >= b.EndTime {
			httperr.BadRequest(c, "invalid_time_range", "Início do bloco deve ser antes do fim.")
			return
		}
		byDay[b.Weekday] = append(byDay[b.Weekday], b)
	}
	for _, blocks := range byDay {
		sort.Slice(blocks, func(i, j int) bool { return blocks[i].StartTime < blocks[j].StartTime })
		for i := 1; i < len(blocks); i++ {
			if blocks[i].StartTime < blocks[i-1].EndTime {
				httperr.BadRequest(c, "overlapping_blocks", "Blocos de expediente se sobrepõem no mesmo dia.")
				return
			}
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("professional_id = ?", proID).Delete(&models.WorkBlock{}).Error; err != nil {
			return err
		}

		var toCreate []models.WorkBlock
		for _, b := range req.Blocks {
			toCreate = append(toCreate, models.WorkBlock{
				ProfessionalID: proID,
				Weekday:        b.Weekday,
				StartTime:      b.StartTime,
				EndTime:        b.EndTime,
			})
		}
		if len(toCreate) > 0 {
			if err := tx.Create(&toCreate).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// BLOQUEIOS DE DIA (FOLGAS / FERIADOS)
// ======================================================

func (h *ScheduleHandler) ListDayBlocks(c *gin.Context) {
	proID, ok := h.professionalInBusiness(c)
	if !ok {
		return
	}

	q := h.db.Where("professional_id = ?", proID)

	if from := c.Query("from"); from != "" {
		if _, err := time.Parse("2006-01-02", from); err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida (use YYYY-MM-DD).")
			return
		}
		q = q.Where("date >= ?", from)
	}

	var blocks []models.DayBlock
	if err := q.Order("date ASC").Find(&blocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_day_blocks"})
		return
	}

	c.JSON(http.StatusOK, blocks)
}

func (h *ScheduleHandler) CreateDayBlock(c *gin.Context) {
	proID, ok := h.professionalInBusiness(c)
	if !ok {
		return
	}

	var req DayBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida (use YYYY-MM-DD).")
		return
	}

	block := models.DayBlock{
		ProfessionalID: proID,
		Date:           date,
		Reason:         req.Reason,
	}

	if err := h.db.Create(&block).Error; err != nil {
		// índice único (professional_id, date)
		c.JSON(http.StatusConflict, gin.H{"error": "day_already_blocked"})
		return
	}

	c.JSON(http.StatusCreated, block)
}

func (h *ScheduleHandler) DeleteDayBlock(c *gin.Context) {
	proID, ok := h.professionalInBusiness(c)
	if !ok {
		return
	}

	res := h.db.
		Where("id = ? AND professional_id = ?", c.Param("blockId"), proID).
		Delete(&models.DayBlock{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_day_block"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "day_block_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "day_block_deleted"})
}
