package booking

import (
	"context"
	"log"

	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/metrics"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

// SweepExpired percorre cobranças vencidas (pending + awaiting_payment +
// expiração <= agora) e reconsulta o provedor antes de cancelar: um PIX pago
// no último segundo liquida, não cancela.
type SweepExpired struct {
	settle *SettlePayment
	repo   domain.Repository
}

func NewSweepExpired(settle *SettlePayment, repo domain.Repository) *SweepExpired {
	return &SweepExpired{settle: settle, repo: repo}
}

type SweepResult struct {
	Scanned   int
	Settled   int
	Cancelled int
	Skipped   int
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SweepExpired) Execute(ctx context.Context) (SweepResult, error) {
	metrics.SweepRuns.Inc()

	now := timezone.Now()
	expired, err := uc.repo.ListExpiredAwaiting(ctx, now)
	if err != nil {
		return SweepResult{}, err
	}

	res := SweepResult{Scanned: len(expired)}

	for _, b := range expired {
		if b.PaymentID == nil {
			// cobrança nunca chegou a existir no provedor: cancela direto
			cancelled := domain.StatusCancelled
			if _, err := uc.repo.ApplySettlement(
				ctx, b.ID, domain.PaymentStatusCancelled, &cancelled, &now,
			); err != nil {
				log.Printf("sweep: booking %d: %v", b.ID, err)
				res.Skipped++
				continue
			}
			res.Cancelled++
			continue
		}

		if uc.settle.gateway == nil {
			res.Skipped++
			continue
		}

		ps, err := uc.settle.gateway.GetPaymentStatus(ctx, *b.PaymentID)
		if err != nil {
			log.Printf("sweep: booking %d: provedor indisponível: %v", b.ID, err)
			res.Skipped++
			continue
		}

		// no vencimento, "pending" do provedor é cobrança morta
		if ps == domain.ProviderPending {
			ps = domain.ProviderExpired
		}

		outcome, err := uc.settle.apply(ctx, b.ID, b.BusinessID, b.DepositAmount, b.FinalPrice, ps)
		if err != nil {
			log.Printf("sweep: booking %d: %v", b.ID, err)
			res.Skipped++
			continue
		}

		switch outcome {
		case domain.OutcomeSettle:
			res.Settled++
		case domain.OutcomeCancel:
			res.Cancelled++
		default:
			res.Skipped++
		}
	}

	log.Printf(
		"sweep: %d vencidas, %d liquidadas, %d canceladas, %d puladas",
		res.Scanned, res.Settled, res.Cancelled, res.Skipped,
	)
	return res, nil
}
