package booking

import (
	"context"
	"log"

	"github.com/jrtechsistemas/studio-scheduler/internal/audit"
	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/metrics"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

// SettlePayment é a via única de liquidação: o webhook e o sweeper chamam o
// mesmo Execute. A aplicação em banco é CAS — um agendamento que já saiu de
// awaiting_payment vira no-op logado, nunca uma segunda transição.
type SettlePayment struct {
	repo    domain.Repository
	gateway domain.PaymentGateway
	audit   *audit.Dispatcher
}

func NewSettlePayment(
	repo domain.Repository,
	gateway domain.PaymentGateway,
	audit *audit.Dispatcher,
) *SettlePayment {
	return &SettlePayment{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute consulta o provedor e aplica a transição correspondente ao
// pagamento informado. Retorna o resultado decidido (inclusive OutcomeNone).
func (uc *SettlePayment) Execute(
	ctx context.Context,
	paymentID string,
) (domain.SettlementOutcome, error) {

	if uc.gateway == nil {
		return domain.OutcomeNone, httperr.ErrBusiness("payments_disabled")
	}

	b, err := uc.repo.GetBookingByPaymentID(ctx, paymentID)
	if err != nil {
		return domain.OutcomeNone, httperr.ErrBusiness("booking_not_found")
	}

	// fora de awaiting_payment não há o que liquidar (idempotência)
	if domain.PaymentStatus(b.PaymentStatus) != domain.PaymentStatusAwaiting {
		log.Printf("settle: booking %d já liquidado (payment_status=%s), ignorando", b.ID, b.PaymentStatus)
		metrics.SettlementNoops.Inc()
		return domain.OutcomeNone, nil
	}

	ps, err := uc.gateway.GetPaymentStatus(ctx, paymentID)
	if err != nil {
		return domain.OutcomeNone, err
	}

	return uc.apply(ctx, b.ID, b.BusinessID, b.DepositAmount, b.FinalPrice, ps)
}

// apply compartilha a transição com o sweep (que já tem o booking carregado
// e decide "pending no vencimento" por conta própria).
func (uc *SettlePayment) apply(
	ctx context.Context,
	bookingID uint,
	businessID uint,
	depositAmount float64,
	finalPrice float64,
	ps domain.ProviderStatus,
) (domain.SettlementOutcome, error) {

	outcome := domain.DecideSettlement(ps)

	switch outcome {
	case domain.OutcomeSettle:
		settled := domain.SettledPaymentStatus(depositAmount, finalPrice)
		applied, err := uc.repo.ApplySettlement(ctx, bookingID, settled, nil, nil)
		if err != nil {
			return domain.OutcomeNone, err
		}
		if !applied {
			metrics.SettlementNoops.Inc()
			return domain.OutcomeNone, nil
		}

		metrics.SettlementsApplied.WithLabelValues("settle").Inc()
		uc.audit.Dispatch(audit.Event{
			BusinessID: businessID,
			Action:     "payment_settled",
			Entity:     "booking",
			EntityID:   &bookingID,
			Metadata:   map[string]any{"payment_status": string(settled)},
		})
		return domain.OutcomeSettle, nil

	case domain.OutcomeCancel:
		now := timezone.Now()
		cancelled := domain.StatusCancelled
		applied, err := uc.repo.ApplySettlement(
			ctx, bookingID,
			domain.PaymentStatusCancelled,
			&cancelled,
			&now,
		)
		if err != nil {
			return domain.OutcomeNone, err
		}
		if !applied {
			metrics.SettlementNoops.Inc()
			return domain.OutcomeNone, nil
		}

		metrics.SettlementsApplied.WithLabelValues("cancel").Inc()
		metrics.BookingsCancelled.Inc()
		uc.audit.Dispatch(audit.Event{
			BusinessID: businessID,
			Action:     "payment_cancelled",
			Entity:     "booking",
			EntityID:   &bookingID,
			Metadata:   map[string]any{"provider_status": string(ps)},
		})
		return domain.OutcomeCancel, nil

	default:
		return domain.OutcomeNone, nil
	}
}
