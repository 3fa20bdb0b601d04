package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

// data futura dentro da janela, sempre com expediente no mock (todos os dias)
func futureDate() string {
	return timezone.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		BusinessID:     1,
		ProfessionalID: 7,
		ClientName:     "Maria",
		ClientPhone:    "11999990000",
		Selection:      "service_10",
		Date:           futureDate(),
		Time:           "10:00",
	}
}

func TestCreateBooking_PixDeposit(t *testing.T) {
	repo := newMockRepo()
	gw := &mockGateway{
		charge: &domain.Charge{
			PaymentID:    "555",
			QRCode:       "copia-e-cola",
			QRCodeBase64: "aW1n",
			ExpiresAt:    time.Now().Add(5 * time.Minute),
		},
	}

	uc := NewCreateBooking(repo, gw, nil)
	b, err := uc.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), b.Status)
	assert.Equal(t, string(domain.PaymentStatusAwaiting), b.PaymentStatus)
	assert.Equal(t, 100.0, b.FinalPrice)
	assert.Equal(t, 60, b.FinalDurationMin)
	assert.Equal(t, 50.0, b.DepositAmount)
	require.NotNil(t, b.PaymentID)
	assert.Equal(t, "555", *b.PaymentID)
	assert.Equal(t, "copia-e-cola", b.PaymentQRCode)
	require.NotNil(t, b.PaymentExpiresAt)
	assert.Equal(t, 60*time.Minute, b.EndTime.Sub(b.StartTime))
}

func TestCreateBooking_ChargeFailureCancels(t *testing.T) {
	// falha no provedor nunca deixa um horário preso: o agendamento nasce e
	// morre cancelado na mesma chamada
	repo := newMockRepo()
	gw := &mockGateway{chargeErr: errors.New("provider down")}

	uc := NewCreateBooking(repo, gw, nil)
	_, err := uc.Execute(context.Background(), validInput())

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "charge_creation_failed"))

	require.Len(t, repo.bookings, 1)
	for _, b := range repo.bookings {
		assert.Equal(t, string(domain.StatusCancelled), b.Status)
		assert.Equal(t, string(domain.PaymentStatusCancelled), b.PaymentStatus)
		assert.NotNil(t, b.CancelledAt)
		assert.Contains(t, b.Notes, "falha ao criar cobrança")
	}
}

func TestCreateBooking_PayOnArrivalWhenDepositZero(t *testing.T) {
	repo := newMockRepo()
	repo.service.DepositPct = 0
	gw := &mockGateway{chargeErr: errors.New("não deveria ser chamado")}

	uc := NewCreateBooking(repo, gw, nil)
	b, err := uc.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentStatusPending), b.PaymentStatus)
	assert.Nil(t, b.PaymentID)
	assert.Equal(t, 0.0, b.DepositAmount)
}

func TestCreateBooking_PayOnArrivalWhenOnlinePaymentDisabled(t *testing.T) {
	repo := newMockRepo()
	repo.business.OnlinePaymentEnabled = false

	uc := NewCreateBooking(repo, &mockGateway{chargeErr: errors.New("boom")}, nil)
	b, err := uc.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentStatusPending), b.PaymentStatus)
}

func TestCreateBooking_NilGatewayFallsBackToPayOnArrival(t *testing.T) {
	repo := newMockRepo()

	uc := NewCreateBooking(repo, nil, nil)
	b, err := uc.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentStatusPending), b.PaymentStatus)
}

func TestCreateBooking_PastTimeRejected(t *testing.T) {
	repo := newMockRepo()
	uc := NewCreateBooking(repo, nil, nil)

	in := validInput()
	in.Date = timezone.Now().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "time_in_past"))
}

func TestCreateBooking_BeyondAdvanceWindowRejected(t *testing.T) {
	repo := newMockRepo()
	uc := NewCreateBooking(repo, nil, nil)

	in := validInput()
	in.Date = timezone.Now().AddDate(0, 0, 61).Format("2006-01-02")

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "too_far_ahead"))
}

func TestCreateBooking_OutsideWorkingHoursRejected(t *testing.T) {
	repo := newMockRepo()
	uc := NewCreateBooking(repo, nil, nil)

	in := validInput()
	in.Time = "21:00" // expediente do mock termina às 20:00

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
}

func TestCreateBooking_ConflictFromRepository(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = httperr.ErrBusiness("time_conflict")

	uc := NewCreateBooking(repo, nil, nil)
	_, err := uc.Execute(context.Background(), validInput())
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
}

func TestCreateBooking_InvalidSelection(t *testing.T) {
	repo := newMockRepo()
	uc := NewCreateBooking(repo, nil, nil)

	in := validInput()
	in.Selection = "combo_3"

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_selection_ref"))
}
