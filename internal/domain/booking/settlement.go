package booking

import "time"

// ===============================
// Settlement
// ===============================

// StuckChargeGrace cobre o agendamento preso em awaiting_payment sem
// expiração gravada (a escrita que persistiria a cobrança — ou o cancelamento
// após falha no provedor — não concluiu). Depois desse prazo o sweep recolhe
// a linha mesmo com payment_expires_at nulo.
const StuckChargeGrace = 30 * time.Minute

// SettlementOutcome é a decisão derivada de um status do provedor.
// A aplicação em banco é CAS: só agendamentos em awaiting_payment mudam.
type SettlementOutcome string

const (
	// Adiantamento caiu: partially_paid ou paid conforme o valor.
	// O status do agendamento segue pendente (confirmação é manual).
	OutcomeSettle SettlementOutcome = "settle"

	// Cobrança morreu no provedor: agendamento e pagamento cancelam.
	OutcomeCancel SettlementOutcome = "cancel"

	// Nada a fazer ainda (provedor pendente/desconhecido).
	OutcomeNone SettlementOutcome = "none"
)

// DecideSettlement traduz o status do provedor na transição interna.
func DecideSettlement(ps ProviderStatus) SettlementOutcome {
	switch ps {
	case ProviderApproved:
		return OutcomeSettle
	case ProviderRejected, ProviderCancelled, ProviderExpired:
		return OutcomeCancel
	default:
		return OutcomeNone
	}
}

// SettledPaymentStatus escolhe entre pago parcial e quitado.
func SettledPaymentStatus(depositAmount, finalPrice float64) PaymentStatus {
	if depositAmount >= finalPrice {
		return PaymentStatusPaid
	}
	return PaymentStatusPartiallyPaid
}
