package booking

import (
	"context"
	"time"

	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

type Repository interface {
	// -------- Business --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	GetBusinessBySlug(
		ctx context.Context,
		slug string,
	) (*models.Business, error)

	// -------- Service / Tier --------
	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, error)

	GetTier(
		ctx context.Context,
		tierID uint,
	) (*models.MaintenanceTier, error)

	ListActiveServices(
		ctx context.Context,
		businessID uint,
	) ([]models.Service, error)

	// -------- Professional --------
	GetProfessional(
		ctx context.Context,
		businessID uint,
		professionalID uint,
	) (*models.User, error)

	ListProfessionalsForService(
		ctx context.Context,
		serviceID uint,
	) ([]models.User, error)

	HasFutureBookings(
		ctx context.Context,
		professionalID uint,
		after time.Time,
	) (bool, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		businessID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	GetClientByPhone(
		ctx context.Context,
		businessID uint,
		phone string,
	) (*models.Client, error)

	// Último agendamento concluído/confirmado do cliente em qualquer
	// serviço da categoria (base da elegibilidade de tiers)
	LatestReferenceBooking(
		ctx context.Context,
		clientID uint,
		categoryID uint,
	) (*models.Booking, error)

	// -------- Agenda --------
	ListWorkBlocks(
		ctx context.Context,
		professionalID uint,
	) ([]models.WorkBlock, error)

	HasDayBlock(
		ctx context.Context,
		professionalID uint,
		date time.Time,
	) (bool, error)

	ListDayBlocksForRange(
		ctx context.Context,
		professionalID uint,
		from time.Time,
		to time.Time,
	) ([]models.DayBlock, error)

	// Agendamentos que seguram horário (pendentes/confirmados) no período
	ListOccupied(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Booking (create / conflict) --------
	// Cria com revalidação de conflito na mesma transação (lock de linha)
	CreateBookingTx(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (read / state change) --------
	GetBooking(
		ctx context.Context,
		businessID uint,
		bookingID uint,
	) (*models.Booking, error)

	GetBookingForClient(
		ctx context.Context,
		bookingID uint,
		clientID uint,
	) (*models.Booking, error)

	GetBookingByPaymentID(
		ctx context.Context,
		paymentID string,
	) (*models.Booking, error)

	ListBookingsForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Booking, error)

	ListBookingsForDay(
		ctx context.Context,
		businessID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Settlement --------
	// CAS: aplica somente se payment_status ainda é awaiting_payment.
	// Retorna false (sem erro) quando outra via já liquidou.
	ApplySettlement(
		ctx context.Context,
		bookingID uint,
		paymentStatus PaymentStatus,
		status *Status,
		cancelledAt *time.Time,
	) (bool, error)

	ListExpiredAwaiting(
		ctx context.Context,
		now time.Time,
	) ([]models.Booking, error)
}
