package booking

import (
	"context"

	"github.com/jrtechsistemas/studio-scheduler/internal/audit"
	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// UpdateBookingInput: campos nil/vazios ficam como estão. Transições de
// status passam pela máquina de estados; payment_status manual só é aceito
// fora do fluxo de cobrança online (awaiting_payment pertence ao provedor).
//
// Entre pending, partially_paid e paid a marcação manual anda em qualquer
// direção: o painel registra pagamentos recebidos no balcão e também desfaz
// marcações erradas (paid de volta a pending é correção legítima da equipe).
type UpdateBookingInput struct {
	BusinessID uint
	UserID     *uint
	BookingID  uint

	Status        string
	PaymentStatus string
	Notes         *string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateBooking {
	return &UpdateBooking{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateBooking) Execute(
	ctx context.Context,
	in UpdateBookingInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, in.BusinessID, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	now := timezone.NowIn(biz.Timezone)

	if in.Status != "" {
		target := domain.Status(in.Status)
		if !domain.ValidStatus(target) {
			return nil, httperr.ErrBusiness("invalid_status")
		}

		switch target {
		case domain.StatusConfirmed:
			if err := domain.Confirm(b); err != nil {
				return nil, err
			}
		case domain.StatusCompleted:
			if err := domain.Complete(b, now); err != nil {
				return nil, err
			}
		case domain.StatusCancelled:
			if err := domain.Cancel(b, now); err != nil {
				return nil, err
			}
		default:
			if domain.Status(b.Status) != target {
				return nil, httperr.ErrBusiness("invalid_state")
			}
		}
	}

	if in.PaymentStatus != "" {
		current := domain.PaymentStatus(b.PaymentStatus)
		target := domain.PaymentStatus(in.PaymentStatus)

		// cobrança online em aberto é do provedor, não do painel
		if current == domain.PaymentStatusAwaiting {
			return nil, httperr.ErrBusiness("payment_owned_by_provider")
		}

		// sem ordem imposta entre os estados manuais: correção de marcação
		// errada exige voltar atrás
		switch target {
		case domain.PaymentStatusPending, domain.PaymentStatusPartiallyPaid, domain.PaymentStatusPaid:
			b.PaymentStatus = string(target)
		default:
			return nil, httperr.ErrBusiness("invalid_payment_status")
		}
	}

	if in.Notes != nil {
		b.Notes = *in.Notes
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     in.UserID,
		Action:     "booking_updated",
		Entity:     "booking",
		EntityID:   &b.ID,
		Metadata: map[string]any{
			"status":         b.Status,
			"payment_status": b.PaymentStatus,
		},
	})

	return b, nil
}
