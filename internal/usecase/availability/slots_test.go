package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

// mockRepo cobre só as consultas de agenda; o resto da interface fica no
// embedding (pânico se tocado).
type mockRepo struct {
	domain.Repository

	business *models.Business
	service  *models.Service
	tier     *models.MaintenanceTier
	client   *models.Client

	reference *models.Booking

	blocks      []models.WorkBlock
	blockedDays map[string]bool
	occupied    []models.Booking
}

func newMockRepo() *mockRepo {
	catID := uint(1)
	return &mockRepo{
		business: &models.Business{
			ID: 1, Slug: "studio-teste",
			Timezone:       "America/Sao_Paulo",
			MaxAdvanceDays: 60,
		},
		service: &models.Service{
			ID: 10, BusinessID: 1, Name: "Aplicação",
			Price: 100, DurationMin: 60, CategoryID: &catID, Active: true,
		},
		client:      &models.Client{ID: 5, BusinessID: 1, Phone: "11999990000"},
		blockedDays: map[string]bool{},
	}
}

func (m *mockRepo) GetBusinessByID(ctx context.Context, id uint) (*models.Business, error) {
	return m.business, nil
}

func (m *mockRepo) GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error) {
	return m.service, nil
}

func (m *mockRepo) GetTier(ctx context.Context, tierID uint) (*models.MaintenanceTier, error) {
	if m.tier == nil {
		return nil, assertErr("tier not found")
	}
	return m.tier, nil
}

func (m *mockRepo) GetProfessional(ctx context.Context, businessID, professionalID uint) (*models.User, error) {
	return &models.User{ID: professionalID, BusinessID: businessID}, nil
}

func (m *mockRepo) GetClientByPhone(ctx context.Context, businessID uint, phone string) (*models.Client, error) {
	if m.client != nil && m.client.Phone == phone {
		return m.client, nil
	}
	return nil, assertErr("client not found")
}

func (m *mockRepo) LatestReferenceBooking(ctx context.Context, clientID, categoryID uint) (*models.Booking, error) {
	return m.reference, nil
}

func (m *mockRepo) ListWorkBlocks(ctx context.Context, professionalID uint) ([]models.WorkBlock, error) {
	return m.blocks, nil
}

func (m *mockRepo) HasDayBlock(ctx context.Context, professionalID uint, date time.Time) (bool, error) {
	return m.blockedDays[date.Format("2006-01-02")], nil
}

func (m *mockRepo) ListDayBlocksForRange(ctx context.Context, professionalID uint, from, to time.Time) ([]models.DayBlock, error) {
	var out []models.DayBlock
	for key := range m.blockedDays {
		d, _ := time.Parse("2006-01-02", key)
		if !d.Before(from) && d.Before(to) {
			out = append(out, models.DayBlock{ProfessionalID: professionalID, Date: d})
		}
	}
	return out, nil
}

func (m *mockRepo) ListOccupied(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.occupied {
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

// ------------------------------------------------------

// próxima ocorrência de um dia da semana dentro da janela de agendamento
func nextWeekday(wd time.Weekday) time.Time {
	d := timezone.Now().AddDate(0, 0, 2)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func allWeekBlocks(start, end string) []models.WorkBlock {
	blocks := make([]models.WorkBlock, 0, 7)
	for wd := 0; wd < 7; wd++ {
		blocks = append(blocks, models.WorkBlock{Weekday: wd, StartTime: start, EndTime: end})
	}
	return blocks
}

func TestGetFreeSlots_HappyPath(t *testing.T) {
	repo := newMockRepo()
	repo.blocks = allWeekBlocks("09:00", "12:00")

	date := nextWeekday(time.Monday)
	uc := NewGetFreeSlots(repo)

	got, err := uc.Execute(context.Background(), GetFreeSlotsInput{
		BusinessID: 1, ProfessionalID: 7,
		Selection: "service_10",
		Date:      date.Format("2006-01-02"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, got)
}

func TestGetFreeSlots_OccupiedIntervalRemoved(t *testing.T) {
	repo := newMockRepo()
	repo.blocks = allWeekBlocks("09:00", "12:00")

	date := nextWeekday(time.Monday)
	loc := timezone.Location("America/Sao_Paulo")
	at := func(h int) time.Time {
		return time.Date(date.Year(), date.Month(), date.Day(), h, 0, 0, 0, loc)
	}
	repo.occupied = []models.Booking{{StartTime: at(10), EndTime: at(11)}}

	uc := NewGetFreeSlots(repo)
	got, err := uc.Execute(context.Background(), GetFreeSlotsInput{
		BusinessID: 1, ProfessionalID: 7,
		Selection: "service_10",
		Date:      date.Format("2006-01-02"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "11:00"}, got)
}

func TestGetFreeSlots_DayBlocked(t *testing.T) {
	repo := newMockRepo()
	repo.blocks = allWeekBlocks("09:00", "12:00")

	date := nextWeekday(time.Monday)
	repo.blockedDays[date.Format("2006-01-02")] = true

	uc := NewGetFreeSlots(repo)
	got, err := uc.Execute(context.Background(), GetFreeSlotsInput{
		BusinessID: 1, ProfessionalID: 7,
		Selection: "service_10",
		Date:      date.Format("2006-01-02"),
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetFreeSlots_TierUsesOwnDuration(t *testing.T) {
	repo := newMockRepo()
	repo.blocks = allWeekBlocks("09:00", "10:00")
	repo.tier = &models.MaintenanceTier{
		ID: 1, ServiceID: 10, DaysMin: 5, DaysMax: 10,
		Price: 30, DurationMin: 30,
	}

	date := nextWeekday(time.Monday)
	repo.reference = &models.Booking{
		ID: 1, ServiceID: 10,
		StartTime: date.AddDate(0, 0, -7),
	}

	uc := NewGetFreeSlots(repo)
	got, err := uc.Execute(context.Background(), GetFreeSlotsInput{
		BusinessID: 1, ProfessionalID: 7,
		Selection:   "tier_1",
		Date:        date.Format("2006-01-02"),
		ClientPhone: "11999990000",
	})
	require.NoError(t, err)

	// 30 min de manutenção cabem duas vezes no bloco de uma hora
	assert.Equal(t, []string{"09:00", "09:30"}, got)
}

func TestGetFreeSlots_TierIneligible(t *testing.T) {
	repo := newMockRepo()
	repo.blocks = allWeekBlocks("09:00", "12:00")
	repo.tier = &models.MaintenanceTier{
		ID: 1, ServiceID: 10, DaysMin: 5, DaysMax: 10,
		Price: 30, DurationMin: 30,
	}

	date := nextWeekday(time.Monday)
	repo.reference = &models.Booking{
		ID: 1, ServiceID: 10,
		StartTime: date.AddDate(0, 0, -30), // janela vencida
	}

	uc := NewGetFreeSlots(repo)
	_, err := uc.Execute(context.Background(), GetFreeSlotsInput{
		BusinessID: 1, ProfessionalID: 7,
		Selection:   "tier_1",
		Date:        date.Format("2006-01-02"),
		ClientPhone: "11999990000",
	})
	assert.True(t, httperr.IsBusiness(err, "tier_not_eligible_expired"))
}

func TestGetFreeDays_TierWindowGatesDays(t *testing.T) {
	// referência 3 dias atrás, tier 5-10 → só os dias entre ref+5 e ref+10
	// aparecem na navegação do mês
	repo := newMockRepo()
	repo.blocks = allWeekBlocks("09:00", "12:00")
	repo.tier = &models.MaintenanceTier{
		ID: 1, ServiceID: 10, DaysMin: 5, DaysMax: 10,
		Price: 30, DurationMin: 30,
	}

	now := timezone.Now()
	repo.reference = &models.Booking{
		ID: 1, ServiceID: 10,
		StartTime: now.AddDate(0, 0, -3),
	}

	uc := NewGetFreeDays(repo)
	days, err := uc.Execute(context.Background(), GetFreeDaysInput{
		BusinessID: 1, ProfessionalID: 7,
		Selection:   "tier_1",
		Year:        now.Year(),
		Month:       int(now.Month()),
		ClientPhone: "11999990000",
	})
	require.NoError(t, err)

	for _, d := range days {
		day, perr := time.Parse("2006-01-02", d)
		require.NoError(t, perr)

		elapsed := int(day.Sub(time.Date(
			repo.reference.StartTime.Year(), repo.reference.StartTime.Month(), repo.reference.StartTime.Day(),
			0, 0, 0, 0, time.UTC,
		)).Hours() / 24)
		assert.GreaterOrEqual(t, elapsed, 5, d)
		assert.LessOrEqual(t, elapsed, 10, d)
	}
}

func TestGetFreeDays_BlockedDayExcluded(t *testing.T) {
	repo := newMockRepo()
	repo.blocks = allWeekBlocks("09:00", "12:00")

	now := timezone.Now()
	blocked := now.AddDate(0, 0, 3).Format("2006-01-02")
	repo.blockedDays[blocked] = true

	uc := NewGetFreeDays(repo)
	days, err := uc.Execute(context.Background(), GetFreeDaysInput{
		BusinessID: 1, ProfessionalID: 7,
		Selection: "service_10",
		Year:      now.AddDate(0, 0, 3).Year(),
		Month:     int(now.AddDate(0, 0, 3).Month()),
	})
	require.NoError(t, err)
	assert.NotContains(t, days, blocked)
}

func TestGetFreeDays_InvalidMonth(t *testing.T) {
	uc := NewGetFreeDays(newMockRepo())
	_, err := uc.Execute(context.Background(), GetFreeDaysInput{
		BusinessID: 1, ProfessionalID: 7,
		Selection: "service_10",
		Year:      2025, Month: 13,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_month"))
}
