package availability

import (
	"context"
	"time"

	availdomain "github.com/jrtechsistemas/studio-scheduler/internal/domain/availability"
	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/domain/pricing"
	"github.com/jrtechsistemas/studio-scheduler/internal/domain/schedule"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type GetFreeDaysInput struct {
	BusinessID     uint
	ProfessionalID uint

	Selection string

	Year  int
	Month int

	ClientPhone string
}

// ======================================================
// USE CASE
// ======================================================

// GetFreeDays responde a navegação mensal do fluxo público: os dias do mês
// com ao menos um horário livre para a seleção. Dias fora da janela
// [hoje, hoje+MaxAdvanceDays] e dias onde o tier selecionado não está
// elegível ficam de fora.
type GetFreeDays struct {
	repo domain.Repository
}

func NewGetFreeDays(repo domain.Repository) *GetFreeDays {
	return &GetFreeDays{repo: repo}
}

func (uc *GetFreeDays) Execute(
	ctx context.Context,
	in GetFreeDaysInput,
) ([]string, error) {

	if in.Month < 1 || in.Month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(biz.Timezone)

	ref, err := pricing.ParseSelectionRef(in.Selection)
	if err != nil {
		return nil, err
	}

	sel, err := resolveSelection(ctx, uc.repo, in.BusinessID, ref)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetProfessional(ctx, in.BusinessID, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	var reference *pricing.Reference
	if sel.Tier != nil {
		reference, err = loadReference(ctx, uc.repo, in.BusinessID, in.ClientPhone, sel.Service)
		if err != nil {
			return nil, err
		}
	}

	now := timezone.NowIn(biz.Timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	horizon := today.AddDate(0, 0, biz.MaxAdvanceDays)

	monthStart := time.Date(in.Year, time.Month(in.Month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	// interseção do mês com a janela de agendamento
	from := monthStart
	if from.Before(today) {
		from = today
	}
	to := monthEnd
	if to.After(horizon.AddDate(0, 0, 1)) {
		to = horizon.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return []string{}, nil
	}

	blocks, err := uc.repo.ListWorkBlocks(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	dayBlocks, err := uc.repo.ListDayBlocksForRange(ctx, in.ProfessionalID, from, to)
	if err != nil {
		return nil, err
	}
	blockedDays := make(map[string]struct{}, len(dayBlocks))
	for _, db := range dayBlocks {
		// coluna date chega como meia-noite UTC; formatar sem converter
		blockedDays[db.Date.Format("2006-01-02")] = struct{}{}
	}

	duration := sel.resolvedDuration()
	var days []string

	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")

		if _, blocked := blockedDays[key]; blocked {
			continue
		}

		// tier ineligível no dia → dia some da lista mesmo com horário livre
		if sel.Tier != nil {
			if elig := pricing.TierEligibility(sel.Service, sel.Tier, reference, day); !elig.Eligible {
				continue
			}
		}

		working := schedule.WorkingIntervals(day, blocks, false)
		if len(working) == 0 {
			continue
		}

		dayStart, dayEnd := dayBounds(day, loc)
		occupied, err := uc.repo.ListOccupied(ctx, in.ProfessionalID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}

		if availdomain.HasFreeSlot(availdomain.SlotQuery{
			Working:     working,
			Occupied:    occupiedIntervals(occupied),
			DurationMin: duration,
			Now:         now,
		}) {
			days = append(days, key)
		}
	}

	if days == nil {
		days = []string{}
	}
	return days, nil
}
