package booking

import (
	"context"

	"github.com/jrtechsistemas/studio-scheduler/internal/audit"
	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/metrics"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

type CancelBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		audit: audit,
	}
}

// Execute cancela pela visão administrativa (escopo do negócio).
func (uc *CancelBooking) Execute(
	ctx context.Context,
	businessID uint,
	userID *uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, businessID, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	return uc.cancel(ctx, b, userID)
}

// ExecuteForClient cancela pela visão do próprio cliente.
func (uc *CancelBooking) ExecuteForClient(
	ctx context.Context,
	clientID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForClient(ctx, bookingID, clientID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	return uc.cancel(ctx, b, nil)
}

func (uc *CancelBooking) cancel(
	ctx context.Context,
	b *models.Booking,
	userID *uint,
) (*models.Booking, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, b.BusinessID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(biz.Timezone)
	if err := domain.Cancel(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	metrics.BookingsCancelled.Inc()
	uc.audit.Dispatch(audit.Event{
		BusinessID: b.BusinessID,
		UserID:     userID,
		Action:     "booking_cancelled",
		Entity:     "booking",
		EntityID:   &b.ID,
	})

	return b, nil
}
