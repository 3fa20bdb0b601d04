package booking

import "github.com/jrtechsistemas/studio-scheduler/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ===============================
// Payment Status
// ===============================

// PaymentStatusPending é o fluxo "paga na hora": terminal, nunca transita.
// PaymentStatusAwaiting é o estado de cobrança PIX em aberto.
type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusAwaiting      PaymentStatus = "awaiting_payment"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusCancelled     PaymentStatus = "cancelled"
)

// ===============================
// Validations
// ===============================

// CanCancel: agendamentos pendentes e confirmados podem ser cancelados
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConfirm: só pendente vira confirmado
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete: pendente ou confirmado viram concluído
func CanComplete(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}

// ValidStatus reconhece os valores aceitos em atualizações administrativas.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Occupies diz se o agendamento ainda segura o horário na agenda.
// Cancelados liberam o intervalo imediatamente.
func Occupies(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}
