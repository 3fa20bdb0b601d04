package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

const pgUniqueViolation = "23505"

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *BookingGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).First(&biz, id).Error; err != nil {
		return nil, err
	}
	return &biz, nil
}

func (r *BookingGormRepository) GetBusinessBySlug(
	ctx context.Context,
	slug string,
) (*models.Business, error) {

	var biz models.Business
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&biz).Error; err != nil {
		return nil, err
	}
	return &biz, nil
}

// --------------------------------------------------
// Service / Tier
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Preload("Tiers").
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *BookingGormRepository) GetTier(
	ctx context.Context,
	tierID uint,
) (*models.MaintenanceTier, error) {

	var tier models.MaintenanceTier
	if err := r.db.WithContext(ctx).First(&tier, tierID).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *BookingGormRepository) ListActiveServices(
	ctx context.Context,
	businessID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Preload("Tiers").
		Preload("Category").
		Where("business_id = ? AND active = true", businessID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *BookingGormRepository) GetProfessional(
	ctx context.Context,
	businessID uint,
	professionalID uint,
) (*models.User, error) {

	var pro models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", professionalID, businessID).
		First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

func (r *BookingGormRepository) ListProfessionalsForService(
	ctx context.Context,
	serviceID uint,
) ([]models.User, error) {

	var pros []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN service_professionals sp ON sp.user_id = users.id").
		Where("sp.service_id = ?", serviceID).
		Order("users.name ASC").
		Find(&pros).Error; err != nil {
		return nil, err
	}
	return pros, nil
}

func (r *BookingGormRepository) HasFutureBookings(
	ctx context.Context,
	professionalID uint,
	after time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"professional_id = ? AND status IN ('pending', 'confirmed') AND start_time >= ?",
			professionalID, after,
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *BookingGormRepository) GetClientByPhone(
	ctx context.Context,
	businessID uint,
	phone string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND phone = ?", businessID, phone).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *BookingGormRepository) GetOrCreateClient(
	ctx context.Context,
	businessID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND phone = ?", businessID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		// corrida na criação: outro request inseriu o mesmo telefone
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			var existing models.Client
			if err2 := r.db.WithContext(ctx).
				Where("business_id = ? AND phone = ?", businessID, phone).
				First(&existing).Error; err2 == nil {
				return &existing, nil
			}
		}
		return nil, err
	}

	return &client, nil
}

func (r *BookingGormRepository) LatestReferenceBooking(
	ctx context.Context,
	clientID uint,
	categoryID uint,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).
		Joins("JOIN services ON services.id = bookings.service_id").
		Where(
			"bookings.client_id = ? AND services.category_id = ? AND bookings.status IN ('completed', 'confirmed')",
			clientID, categoryID,
		).
		Order("bookings.start_time DESC").
		First(&b).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// --------------------------------------------------
// Agenda
// --------------------------------------------------

func (r *BookingGormRepository) ListWorkBlocks(
	ctx context.Context,
	professionalID uint,
) ([]models.WorkBlock, error) {

	var blocks []models.WorkBlock
	if err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC, start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *BookingGormRepository) HasDayBlock(
	ctx context.Context,
	professionalID uint,
	date time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DayBlock{}).
		Where("professional_id = ? AND date = ?", professionalID, date.Format("2006-01-02")).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingGormRepository) ListDayBlocksForRange(
	ctx context.Context,
	professionalID uint,
	from time.Time,
	to time.Time,
) ([]models.DayBlock, error) {

	var blocks []models.DayBlock
	if err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND date >= ? AND date < ?",
			professionalID, from.Format("2006-01-02"), to.Format("2006-01-02"),
		).
		Order("date ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *BookingGormRepository) ListOccupied(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time").
		Where(
			"professional_id = ? AND status IN ('pending', 'confirmed') AND start_time < ? AND end_time > ?",
			professionalID, end, start,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

// CreateBookingTx insere com revalidação de conflito na MESMA transação,
// travando as linhas concorrentes do profissional (SELECT ... FOR UPDATE).
func (r *BookingGormRepository) CreateBookingTx(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"professional_id = ? AND status IN ('pending', 'confirmed') AND start_time < ? AND end_time > ?",
				b.ProfessionalID,
				b.EndTime,
				b.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(b).Error
	})
}

// --------------------------------------------------
// Booking (read / state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	businessID uint,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", bookingID, businessID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForClient(
	ctx context.Context,
	bookingID uint,
	clientID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ?", bookingID, clientID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingByPaymentID(
	ctx context.Context,
	paymentID string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookingsForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("start_time DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForDay(
	ctx context.Context,
	businessID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"business_id = ? AND start_time >= ? AND start_time < ?",
			businessID, start, end,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// --------------------------------------------------
// Settlement
// --------------------------------------------------

// ApplySettlement é CAS: o WHERE garante que só agendamentos ainda em
// awaiting_payment mudam. Webhook e sweeper podem correr entre si sem
// aplicar a transição duas vezes.
func (r *BookingGormRepository) ApplySettlement(
	ctx context.Context,
	bookingID uint,
	paymentStatus domain.PaymentStatus,
	status *domain.Status,
	cancelledAt *time.Time,
) (bool, error) {

	updates := map[string]any{
		"payment_status": string(paymentStatus),
	}
	if status != nil {
		updates["status"] = string(*status)
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND payment_status = ?", bookingID, string(domain.PaymentStatusAwaiting)).
		Updates(updates)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingGormRepository) ListExpiredAwaiting(
	ctx context.Context,
	now time.Time,
) ([]models.Booking, error) {

	// expiração nula = escrita da cobrança não concluiu; entra no sweep
	// depois do prazo de tolerância para não segurar o horário para sempre
	stuckBefore := now.Add(-domain.StuckChargeGrace)

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"status = 'pending' AND payment_status = 'awaiting_payment' AND (payment_expires_at <= ? OR (payment_expires_at IS NULL AND created_at <= ?))",
			now, stuckBefore,
		).
		Order("payment_expires_at ASC NULLS LAST").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
