package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

func seedBooking(repo *mockRepo, status domain.Status, payment domain.PaymentStatus) *models.Booking {
	b := &models.Booking{
		ID:            300,
		BusinessID:    1,
		ClientID:      5,
		ServiceID:     10,
		StartTime:     time.Now().AddDate(0, 0, 3),
		EndTime:       time.Now().AddDate(0, 0, 3).Add(time.Hour),
		Status:        string(status),
		PaymentStatus: string(payment),
		FinalPrice:    100,
	}
	repo.bookings[b.ID] = b
	return b
}

func TestCancelBooking_Admin(t *testing.T) {
	repo := newMockRepo()
	seedBooking(repo, domain.StatusConfirmed, domain.PaymentStatusPending)

	uc := NewCancelBooking(repo, nil)
	b, err := uc.Execute(context.Background(), 1, nil, 300)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), b.Status)
	assert.NotNil(t, b.CancelledAt)
}

func TestCancelBooking_KillsOpenCharge(t *testing.T) {
	repo := newMockRepo()
	seedBooking(repo, domain.StatusPending, domain.PaymentStatusAwaiting)

	uc := NewCancelBooking(repo, nil)
	b, err := uc.Execute(context.Background(), 1, nil, 300)
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentStatusCancelled), b.PaymentStatus)
}

func TestCancelBooking_CompletedRejected(t *testing.T) {
	repo := newMockRepo()
	seedBooking(repo, domain.StatusCompleted, domain.PaymentStatusPaid)

	uc := NewCancelBooking(repo, nil)
	_, err := uc.Execute(context.Background(), 1, nil, 300)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestCancelBooking_ClientScope(t *testing.T) {
	repo := newMockRepo()
	seedBooking(repo, domain.StatusPending, domain.PaymentStatusPending)

	uc := NewCancelBooking(repo, nil)

	// cliente dono cancela
	b, err := uc.ExecuteForClient(context.Background(), 5, 300)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), b.Status)

	// outro cliente não enxerga o agendamento
	repo2 := newMockRepo()
	seedBooking(repo2, domain.StatusPending, domain.PaymentStatusPending)
	_, err = NewCancelBooking(repo2, nil).ExecuteForClient(context.Background(), 99, 300)
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
}

func TestUpdateBooking_ConfirmThenComplete(t *testing.T) {
	repo := newMockRepo()
	seedBooking(repo, domain.StatusPending, domain.PaymentStatusPending)

	uc := NewUpdateBooking(repo, nil)

	b, err := uc.Execute(context.Background(), UpdateBookingInput{
		BusinessID: 1, BookingID: 300, Status: "confirmed",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), b.Status)

	b, err = uc.Execute(context.Background(), UpdateBookingInput{
		BusinessID: 1, BookingID: 300, Status: "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), b.Status)
	assert.NotNil(t, b.CompletedAt)
}

func TestUpdateBooking_InvalidTransition(t *testing.T) {
	repo := newMockRepo()
	seedBooking(repo, domain.StatusCancelled, domain.PaymentStatusPending)

	uc := NewUpdateBooking(repo, nil)
	_, err := uc.Execute(context.Background(), UpdateBookingInput{
		BusinessID: 1, BookingID: 300, Status: "confirmed",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestUpdateBooking_PaymentOwnedByProvider(t *testing.T) {
	// awaiting_payment só muda via liquidação, nunca pelo painel
	repo := newMockRepo()
	seedBooking(repo, domain.StatusPending, domain.PaymentStatusAwaiting)

	uc := NewUpdateBooking(repo, nil)
	_, err := uc.Execute(context.Background(), UpdateBookingInput{
		BusinessID: 1, BookingID: 300, PaymentStatus: "paid",
	})
	assert.True(t, httperr.IsBusiness(err, "payment_owned_by_provider"))
}

func TestUpdateBooking_ManualPaymentMark(t *testing.T) {
	repo := newMockRepo()
	seedBooking(repo, domain.StatusConfirmed, domain.PaymentStatusPending)

	uc := NewUpdateBooking(repo, nil)
	b, err := uc.Execute(context.Background(), UpdateBookingInput{
		BusinessID: 1, BookingID: 300, PaymentStatus: "paid",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentStatusPaid), b.PaymentStatus)
}

func TestUpdateBooking_ManualPaymentMarkUndo(t *testing.T) {
	// marcação errada de "paid" volta a "pending" pelo painel
	repo := newMockRepo()
	seedBooking(repo, domain.StatusConfirmed, domain.PaymentStatusPaid)

	uc := NewUpdateBooking(repo, nil)
	b, err := uc.Execute(context.Background(), UpdateBookingInput{
		BusinessID: 1, BookingID: 300, PaymentStatus: "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentStatusPending), b.PaymentStatus)
}

func TestReResolveBooking_SwitchToTier(t *testing.T) {
	repo := newMockRepo()
	repo.tier = &models.MaintenanceTier{
		ID: 1, ServiceID: 10, Name: "Manutenção",
		DaysMin: 5, DaysMax: 10, Price: 30, DurationMin: 30, DepositPct: 0,
	}

	b := seedBooking(repo, domain.StatusPending, domain.PaymentStatusPending)
	b.FinalDurationMin = 60

	// referência: atendimento concluído do mesmo serviço 7 dias antes do alvo
	ref := &models.Booking{
		ID: 1, BusinessID: 1, ClientID: 5, ServiceID: 10,
		StartTime: b.StartTime.AddDate(0, 0, -7),
		Status:    string(domain.StatusCompleted),
	}
	repo.bookings[ref.ID] = ref
	repo.reference = ref

	uc := NewReResolveBooking(repo, nil)
	out, err := uc.Execute(context.Background(), ReResolveBookingInput{
		BusinessID: 1, BookingID: 300, Selection: "tier_1",
	})
	require.NoError(t, err)

	assert.Equal(t, 30.0, out.FinalPrice)
	assert.Equal(t, 30, out.FinalDurationMin)
	assert.Equal(t, 0.0, out.DepositAmount)
	require.NotNil(t, out.TierID)
	assert.Equal(t, 30*time.Minute, out.EndTime.Sub(out.StartTime))
}

func TestReResolveBooking_BlockedWhileChargeOpen(t *testing.T) {
	repo := newMockRepo()
	seedBooking(repo, domain.StatusPending, domain.PaymentStatusAwaiting)

	uc := NewReResolveBooking(repo, nil)
	_, err := uc.Execute(context.Background(), ReResolveBookingInput{
		BusinessID: 1, BookingID: 300, Selection: "service_10",
	})
	assert.True(t, httperr.IsBusiness(err, "payment_owned_by_provider"))
}
