package availability

import (
	"context"
	"time"

	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/domain/pricing"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/timeslot"
)

// ======================================================
// Resolução compartilhada (slots + dias livres)
// ======================================================

// selection materializa um SelectionRef em serviço + tier (tier nil quando a
// seleção é o serviço cheio).
type selection struct {
	Service *models.Service
	Tier    *models.MaintenanceTier
}

func resolveSelection(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
	ref pricing.SelectionRef,
) (*selection, error) {

	switch ref.Kind {
	case pricing.SelectTier:
		tier, err := repo.GetTier(ctx, ref.ID)
		if err != nil {
			return nil, httperr.ErrBusiness("tier_not_found")
		}

		svc, err := repo.GetService(ctx, businessID, tier.ServiceID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}

		return &selection{Service: svc, Tier: tier}, nil

	default:
		svc, err := repo.GetService(ctx, businessID, ref.ID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}

		return &selection{Service: svc}, nil
	}
}

// loadReference busca o agendamento de referência do cliente para a categoria
// do serviço. Cliente desconhecido ou serviço sem categoria → nil.
func loadReference(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
	clientPhone string,
	svc *models.Service,
) (*pricing.Reference, error) {

	if clientPhone == "" || svc.CategoryID == nil {
		return nil, nil
	}

	client, err := repo.GetClientByPhone(ctx, businessID, clientPhone)
	if err != nil {
		// cliente novo: sem histórico, sem referência
		return nil, nil
	}

	rb, err := repo.LatestReferenceBooking(ctx, client.ID, *svc.CategoryID)
	if err != nil {
		return nil, err
	}
	if rb == nil {
		return nil, nil
	}

	return &pricing.Reference{ServiceID: rb.ServiceID, Date: rb.StartTime}, nil
}

// resolvedDuration escolhe a duração do atendimento: tier quando selecionado,
// senão a base do serviço.
func (s *selection) resolvedDuration() int {
	if s.Tier != nil {
		return s.Tier.DurationMin
	}
	return s.Service.DurationMin
}

// occupiedIntervals converte os agendamentos que seguram horário nos
// intervalos [início, fim) já com duração resolvida.
func occupiedIntervals(bookings []models.Booking) []timeslot.Interval {
	out := make([]timeslot.Interval, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, timeslot.New(b.StartTime, b.EndTime))
	}
	return out
}

// dayBounds retorna [00:00, 00:00+1d) da data no fuso dado.
func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
