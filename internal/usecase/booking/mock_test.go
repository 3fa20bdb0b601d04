package booking

import (
	"context"
	"time"

	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

// mockRepo implementa só o que cada teste precisa; o embedding deixa o
// restante da interface em branco (pânico se um teste tocar algo não
// configurado, o que é o comportamento desejado).
type mockRepo struct {
	domain.Repository

	business *models.Business
	service  *models.Service
	tier     *models.MaintenanceTier
	client   *models.Client
	pro      *models.User

	bookings  map[uint]*models.Booking
	reference *models.Booking
	nextID    uint

	createErr error

	settlements []appliedSettlement
}

type appliedSettlement struct {
	bookingID     uint
	paymentStatus domain.PaymentStatus
	status        *domain.Status
}

func newMockRepo() *mockRepo {
	catID := uint(1)
	proID := uint(7)

	return &mockRepo{
		business: &models.Business{
			ID:                   1,
			Name:                 "Studio Teste",
			Slug:                 "studio-teste",
			Timezone:             "America/Sao_Paulo",
			MaxAdvanceDays:       60,
			OnlinePaymentEnabled: true,
		},
		service: &models.Service{
			ID:          10,
			BusinessID:  1,
			Name:        "Aplicação de cílios",
			Price:       100,
			DurationMin: 60,
			DepositPct:  50,
			CategoryID:  &catID,
			Active:      true,
		},
		client: &models.Client{ID: 5, BusinessID: 1, Name: "Maria", Phone: "11999990000"},
		pro:    &models.User{ID: proID, BusinessID: 1, Name: "Ana"},

		bookings: map[uint]*models.Booking{},
		nextID:   100,
	}
}

func (m *mockRepo) GetBusinessByID(ctx context.Context, id uint) (*models.Business, error) {
	return m.business, nil
}

func (m *mockRepo) GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error) {
	return m.service, nil
}

func (m *mockRepo) GetTier(ctx context.Context, tierID uint) (*models.MaintenanceTier, error) {
	return m.tier, nil
}

func (m *mockRepo) GetProfessional(ctx context.Context, businessID, professionalID uint) (*models.User, error) {
	return m.pro, nil
}

func (m *mockRepo) ListProfessionalsForService(ctx context.Context, serviceID uint) ([]models.User, error) {
	return nil, nil // sem vínculo explícito: qualquer profissional atende
}

func (m *mockRepo) GetOrCreateClient(ctx context.Context, businessID uint, name, phone, email string) (*models.Client, error) {
	return m.client, nil
}

func (m *mockRepo) LatestReferenceBooking(ctx context.Context, clientID, categoryID uint) (*models.Booking, error) {
	return m.reference, nil
}

func (m *mockRepo) HasDayBlock(ctx context.Context, professionalID uint, date time.Time) (bool, error) {
	return false, nil
}

func (m *mockRepo) ListWorkBlocks(ctx context.Context, professionalID uint) ([]models.WorkBlock, error) {
	// expediente cheio todos os dias: os testes focam no fluxo, não na agenda
	blocks := make([]models.WorkBlock, 0, 7)
	for wd := 0; wd < 7; wd++ {
		blocks = append(blocks, models.WorkBlock{
			ProfessionalID: professionalID,
			Weekday:        wd,
			StartTime:      "08:00",
			EndTime:        "20:00",
		})
	}
	return blocks, nil
}

func (m *mockRepo) ListOccupied(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (m *mockRepo) CreateBookingTx(ctx context.Context, b *models.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	b.ID = m.nextID
	m.bookings[b.ID] = b
	return nil
}

func (m *mockRepo) UpdateBooking(ctx context.Context, b *models.Booking) error {
	m.bookings[b.ID] = b
	return nil
}

func (m *mockRepo) GetBooking(ctx context.Context, businessID, bookingID uint) (*models.Booking, error) {
	b, ok := m.bookings[bookingID]
	if !ok || b.BusinessID != businessID {
		return nil, errNotFound
	}
	return b, nil
}

func (m *mockRepo) GetBookingForClient(ctx context.Context, bookingID, clientID uint) (*models.Booking, error) {
	b, ok := m.bookings[bookingID]
	if !ok || b.ClientID != clientID {
		return nil, errNotFound
	}
	return b, nil
}

func (m *mockRepo) GetBookingByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	for _, b := range m.bookings {
		if b.PaymentID != nil && *b.PaymentID == paymentID {
			return b, nil
		}
	}
	return nil, errNotFound
}

func (m *mockRepo) ApplySettlement(
	ctx context.Context,
	bookingID uint,
	paymentStatus domain.PaymentStatus,
	status *domain.Status,
	cancelledAt *time.Time,
) (bool, error) {

	b, ok := m.bookings[bookingID]
	if !ok || domain.PaymentStatus(b.PaymentStatus) != domain.PaymentStatusAwaiting {
		return false, nil
	}

	b.PaymentStatus = string(paymentStatus)
	if status != nil {
		b.Status = string(*status)
	}
	if cancelledAt != nil {
		b.CancelledAt = cancelledAt
	}

	m.settlements = append(m.settlements, appliedSettlement{
		bookingID:     bookingID,
		paymentStatus: paymentStatus,
		status:        status,
	})
	return true, nil
}

func (m *mockRepo) ListExpiredAwaiting(ctx context.Context, now time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.Status != string(domain.StatusPending) ||
			b.PaymentStatus != string(domain.PaymentStatusAwaiting) {
			continue
		}
		expired := b.PaymentExpiresAt != nil && !b.PaymentExpiresAt.After(now)
		stuck := b.PaymentExpiresAt == nil && !b.CreatedAt.After(now.Add(-domain.StuckChargeGrace))
		if expired || stuck {
			out = append(out, *b)
		}
	}
	return out, nil
}

var errNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "record not found" }

// ------------------------------------------------------
// Gateway
// ------------------------------------------------------

type mockGateway struct {
	charge    *domain.Charge
	chargeErr error

	status    domain.ProviderStatus
	statusErr error

	statusCalls int
}

func (g *mockGateway) CreateDepositCharge(ctx context.Context, req domain.ChargeRequest) (*domain.Charge, error) {
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	return g.charge, nil
}

func (g *mockGateway) GetPaymentStatus(ctx context.Context, paymentID string) (domain.ProviderStatus, error) {
	g.statusCalls++
	if g.statusErr != nil {
		return domain.ProviderUnknown, g.statusErr
	}
	return g.status, nil
}
