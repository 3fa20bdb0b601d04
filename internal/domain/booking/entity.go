package booking

import (
	"time"

	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now

	// cobrança em aberto morre junto com o agendamento
	if PaymentStatus(b.PaymentStatus) == PaymentStatusAwaiting {
		b.PaymentStatus = string(PaymentStatusCancelled)
	}
	return nil
}

func Confirm(b *models.Booking) error {
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusConfirmed)
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}
