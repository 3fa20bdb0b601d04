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

type GetFreeSlotsInput struct {
	BusinessID     uint
	ProfessionalID uint

	// "service_<id>" ou "tier_<id>"
	Selection string

	// "2006-01-02" no fuso do negócio
	Date string

	// Telefone do cliente: habilita a validação de elegibilidade quando a
	// seleção é um tier
	ClientPhone string
}

// ======================================================
// USE CASE
// ======================================================

type GetFreeSlots struct {
	repo domain.Repository
}

func NewGetFreeSlots(repo domain.Repository) *GetFreeSlots {
	return &GetFreeSlots{repo: repo}
}

func (uc *GetFreeSlots) Execute(
	ctx context.Context,
	in GetFreeSlotsInput,
) ([]string, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(biz.Timezone)

	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

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

	// tier selecionado precisa estar elegível para a data consultada
	if sel.Tier != nil {
		reference, err := loadReference(ctx, uc.repo, in.BusinessID, in.ClientPhone, sel.Service)
		if err != nil {
			return nil, err
		}
		if elig := pricing.TierEligibility(sel.Service, sel.Tier, reference, date); !elig.Eligible {
			return nil, httperr.ErrBusiness("tier_not_eligible_" + elig.Reason)
		}
	}

	// janela máxima de antecedência do negócio
	now := timezone.NowIn(biz.Timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if date.Before(today) || date.After(today.AddDate(0, 0, biz.MaxAdvanceDays)) {
		return []string{}, nil
	}

	blocked, err := uc.repo.HasDayBlock(ctx, in.ProfessionalID, date)
	if err != nil {
		return nil, err
	}

	blocks, err := uc.repo.ListWorkBlocks(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	working := schedule.WorkingIntervals(date, blocks, blocked)
	if len(working) == 0 {
		return []string{}, nil
	}

	dayStart, dayEnd := dayBounds(date, loc)
	occupied, err := uc.repo.ListOccupied(ctx, in.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := availdomain.FreeSlots(availdomain.SlotQuery{
		Working:     working,
		Occupied:    occupiedIntervals(occupied),
		DurationMin: sel.resolvedDuration(),
		Now:         now,
	})

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format("15:04"))
	}
	return out, nil
}
