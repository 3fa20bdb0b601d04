package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jrtechsistemas/studio-scheduler/internal/audit"
	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/domain/pricing"
	"github.com/jrtechsistemas/studio-scheduler/internal/domain/schedule"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/metrics"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/timeslot"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	BusinessID     uint
	ProfessionalID uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	// "service_<id>" ou "tier_<id>"
	Selection string

	Date  string // "2006-01-02"
	Time  string // "15:04"
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo    domain.Repository
	gateway domain.PaymentGateway
	audit   *audit.Dispatcher
}

// NewCreateBooking: gateway nil desabilita cobrança online (tudo vira
// pagamento na hora).
func NewCreateBooking(
	repo domain.Repository,
	gateway domain.PaymentGateway,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1️⃣ Negócio
	// --------------------------------------------------
	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(biz.Timezone)

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone do negócio
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := timezone.NowIn(biz.Timezone)
	if start.Before(now) {
		return nil, httperr.ErrBusiness("time_in_past")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if start.After(today.AddDate(0, 0, biz.MaxAdvanceDays)) {
		return nil, httperr.ErrBusiness("too_far_ahead")
	}

	// --------------------------------------------------
	// 3️⃣ Seleção (serviço cheio ou tier de manutenção)
	// --------------------------------------------------
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
	if !svc.Active {
		return nil, httperr.ErrBusiness("service_inactive")
	}

	// --------------------------------------------------
	// 4️⃣ Profissional habilitado para o serviço
	// --------------------------------------------------
	if _, err := uc.repo.GetProfessional(ctx, in.BusinessID, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	pros, err := uc.repo.ListProfessionalsForService(ctx, svc.ID)
	if err != nil {
		return nil, err
	}
	enabled := len(pros) == 0 // serviço sem vínculo explícito aceita qualquer profissional
	for _, p := range pros {
		if p.ID == in.ProfessionalID {
			enabled = true
			break
		}
	}
	if !enabled {
		return nil, httperr.ErrBusiness("professional_not_enabled")
	}

	// --------------------------------------------------
	// 5️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BusinessID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Preço/duração/adiantamento resolvidos UMA vez
	// --------------------------------------------------
	var reference *pricing.Reference
	if svc.CategoryID != nil {
		rb, err := uc.repo.LatestReferenceBooking(ctx, client.ID, *svc.CategoryID)
		if err != nil {
			return nil, err
		}
		if rb != nil {
			reference = &pricing.Reference{ServiceID: rb.ServiceID, Date: rb.StartTime}
		}
	}

	quote, err := pricing.ResolveQuote(svc, tier, reference, start)
	if err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(quote.DurationMin) * time.Minute)

	// --------------------------------------------------
	// 7️⃣ Expediente + bloqueio de dia
	// --------------------------------------------------
	blocked, err := uc.repo.HasDayBlock(ctx, in.ProfessionalID, start)
	if err != nil {
		return nil, err
	}

	blocks, err := uc.repo.ListWorkBlocks(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	working := schedule.WorkingIntervals(start, blocks, blocked)
	candidate := timeslot.New(start, end)

	inside := false
	for _, w := range working {
		if !candidate.Start.Before(w.Start) && !candidate.End.After(w.End) {
			inside = true
			break
		}
	}
	if !inside {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// 8️⃣ Criação com revalidação de conflito (transacional)
	// --------------------------------------------------
	proID := in.ProfessionalID
	b := &models.Booking{
		BusinessID:       in.BusinessID,
		ClientID:         client.ID,
		ServiceID:        svc.ID,
		TierID:           quote.TierID,
		ProfessionalID:   &proID,
		StartTime:        start,
		EndTime:          end,
		Status:           string(domain.InitialStatus()),
		PaymentStatus:    string(domain.PaymentStatusPending),
		FinalPrice:       quote.Price,
		FinalDurationMin: quote.DurationMin,
		DepositPct:       quote.DepositPct,
		DepositAmount:    quote.DepositAmount,
		Notes:            in.Notes,
	}

	chargeable := biz.OnlinePaymentEnabled && quote.DepositAmount > 0 && uc.gateway != nil
	if chargeable {
		b.PaymentStatus = string(domain.PaymentStatusAwaiting)
	}

	if err := uc.repo.CreateBookingTx(ctx, b); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 9️⃣ Cobrança PIX do adiantamento
	// --------------------------------------------------
	if chargeable {
		charge, err := uc.gateway.CreateDepositCharge(ctx, domain.ChargeRequest{
			Amount:            quote.DepositAmount,
			Description:       fmt.Sprintf("Adiantamento: %s (Pedido: %d)", svc.Name, b.ID),
			ExternalReference: fmt.Sprintf("%d", b.ID),
			PayerName:         client.Name,
			PayerEmail:        client.Email,
		})
		if err != nil {
			// nunca deixamos um horário preso sem cobrança viva
			metrics.ChargeFailures.Inc()
			log.Printf("booking %d: falha na cobrança, cancelando: %v", b.ID, err)

			cancelNow := timezone.NowIn(biz.Timezone)
			b.Status = string(domain.StatusCancelled)
			b.PaymentStatus = string(domain.PaymentStatusCancelled)
			b.CancelledAt = &cancelNow
			b.Notes = appendNote(b.Notes, "cancelado: falha ao criar cobrança no provedor")

			if uerr := uc.repo.UpdateBooking(ctx, b); uerr != nil {
				log.Printf("booking %d: falha ao registrar cancelamento: %v", b.ID, uerr)
			}
			return nil, httperr.ErrBusiness("charge_creation_failed")
		}

		b.PaymentID = &charge.PaymentID
		b.PaymentQRCode = charge.QRCode
		b.PaymentQRCodeImage = charge.QRCodeBase64
		expires := charge.ExpiresAt
		b.PaymentExpiresAt = &expires

		if err := uc.repo.UpdateBooking(ctx, b); err != nil {
			return nil, err
		}

		metrics.BookingsCreated.WithLabelValues("pix_deposit").Inc()
	} else {
		metrics.BookingsCreated.WithLabelValues("pay_on_arrival").Inc()
	}

	// --------------------------------------------------
	// 🔟 Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		Action:     "booking_created",
		Entity:     "booking",
		EntityID:   &b.ID,
		Metadata: map[string]any{
			"client_id":   client.ID,
			"service_id":  svc.ID,
			"tier_id":     quote.TierID,
			"final_price": quote.Price,
		},
	})

	return b, nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + " | " + note
}
