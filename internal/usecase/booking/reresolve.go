package booking

import (
	"context"
	"time"

	"github.com/jrtechsistemas/studio-scheduler/internal/audit"
	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/domain/pricing"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/timeslot"
)

// ======================================================
// INPUT
// ======================================================

type ReResolveBookingInput struct {
	BusinessID uint
	UserID     *uint
	BookingID  uint

	// Nova seleção: "service_<id>" ou "tier_<id>"
	Selection string
}

// ======================================================
// USE CASE
// ======================================================

// ReResolveBooking é a ÚNICA via de regravação dos valores resolvidos:
// troca de serviço/tier refaz preço, duração e adiantamento contra o
// histórico do cliente na data original do agendamento.
//
// Com cobrança PIX em aberto não há re-resolução: o valor cobrado não pode
// divergir do valor resolvido.
type ReResolveBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReResolveBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ReResolveBooking {
	return &ReResolveBooking{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ReResolveBooking) Execute(
	ctx context.Context,
	in ReResolveBookingInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, in.BusinessID, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if !domain.Occupies(domain.Status(b.Status)) {
		return nil, httperr.ErrBusiness("invalid_state")
	}
	if domain.PaymentStatus(b.PaymentStatus) == domain.PaymentStatusAwaiting {
		return nil, httperr.ErrBusiness("payment_owned_by_provider")
	}

	ref, err := pricing.ParseSelectionRef(in.Selection)
	if err != nil {
		return nil, err
	}

	var svc *models.Service
	var tier *models.MaintenanceTier

	switch ref.Kind {
	case pricing.SelectTier:
		tier, err = uc.repo.GetTier(ctx, ref.ID)
		if err != nil {
			return nil, httperr.ErrBusiness("tier_not_found")
		}
		svc, err = uc.repo.GetService(ctx, in.BusinessID, tier.ServiceID)
	default:
		svc, err = uc.repo.GetService(ctx, in.BusinessID, ref.ID)
	}
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	var reference *pricing.Reference
	if svc.CategoryID != nil {
		rb, err := uc.repo.LatestReferenceBooking(ctx, b.ClientID, *svc.CategoryID)
		if err != nil {
			return nil, err
		}
		if rb != nil && rb.ID != b.ID {
			reference = &pricing.Reference{ServiceID: rb.ServiceID, Date: rb.StartTime}
		}
	}

	quote, err := pricing.ResolveQuote(svc, tier, reference, b.StartTime)
	if err != nil {
		return nil, err
	}

	// duração nova não pode invadir o agendamento seguinte
	newEnd := b.StartTime.Add(time.Duration(quote.DurationMin) * time.Minute)
	if newEnd.After(b.EndTime) && b.ProfessionalID != nil {
		occupied, err := uc.repo.ListOccupied(ctx, *b.ProfessionalID, b.StartTime, newEnd)
		if err != nil {
			return nil, err
		}
		candidate := timeslot.New(b.StartTime, newEnd)
		for _, o := range occupied {
			if o.ID == b.ID {
				continue
			}
			if candidate.Overlaps(timeslot.New(o.StartTime, o.EndTime)) {
				return nil, httperr.ErrBusiness("time_conflict")
			}
		}
	}

	b.ServiceID = svc.ID
	b.TierID = quote.TierID
	b.EndTime = newEnd
	b.FinalPrice = quote.Price
	b.FinalDurationMin = quote.DurationMin
	b.DepositPct = quote.DepositPct
	b.DepositAmount = quote.DepositAmount

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     in.UserID,
		Action:     "booking_reresolved",
		Entity:     "booking",
		EntityID:   &b.ID,
		Metadata: map[string]any{
			"service_id":  svc.ID,
			"tier_id":     quote.TierID,
			"final_price": quote.Price,
		},
	})

	return b, nil
}
