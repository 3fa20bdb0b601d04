package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

var catID = uint(3)

func svcWithTiers() *models.Service {
	return &models.Service{
		ID:          10,
		Name:        "Aplicação de cílios",
		Price:       100,
		DurationMin: 90,
		DepositPct:  50,
		CategoryID:  &catID,
		Tiers: []models.MaintenanceTier{
			{ID: 1, ServiceID: 10, Name: "Manutenção 5-10", DaysMin: 5, DaysMax: 10, Price: 30, DurationMin: 30, DepositPct: 0},
			{ID: 2, ServiceID: 10, Name: "Manutenção 11-21", DaysMin: 11, DaysMax: 21, Price: 55, DurationMin: 60, DepositPct: 50},
		},
	}
}

func dateAt(daysFromRef int) (ref, target time.Time) {
	ref = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	target = ref.AddDate(0, 0, daysFromRef)
	return
}

func TestDaysElapsed_IgnoresTimeOfDay(t *testing.T) {
	ref := time.Date(2025, 3, 1, 23, 50, 0, 0, time.UTC)
	target := time.Date(2025, 3, 8, 0, 10, 0, 0, time.UTC)

	assert.Equal(t, 7, DaysElapsed(ref, target))
}

func TestDaysElapsed_ReferenceInUTCUsesBusinessCalendar(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatal(err)
	}

	// atendimento às 22h local = 01h UTC do dia seguinte; a contagem tem
	// de seguir o calendário local, não o do instante armazenado
	ref := time.Date(2025, 3, 1, 22, 0, 0, 0, loc)
	target := time.Date(2025, 3, 8, 10, 0, 0, 0, loc)

	assert.Equal(t, 7, DaysElapsed(ref, target))
	assert.Equal(t, 7, DaysElapsed(ref.UTC(), target))
}

func TestTierEligibility_InsideWindow(t *testing.T) {
	svc := svcWithTiers()
	ref, target := dateAt(7)

	got := TierEligibility(svc, &svc.Tiers[0], &Reference{ServiceID: svc.ID, Date: ref}, target)
	assert.True(t, got.Eligible)
	assert.Empty(t, got.Reason)
}

func TestTierEligibility_Reasons(t *testing.T) {
	svc := svcWithTiers()
	ref, _ := dateAt(0)

	cases := []struct {
		name   string
		ref    *Reference
		days   int
		reason string
	}{
		{"sem histórico", nil, 7, ReasonFirstTime},
		{"outro serviço da categoria", &Reference{ServiceID: 99, Date: ref}, 7, ReasonServiceSwitch},
		{"cedo demais", &Reference{ServiceID: svc.ID, Date: ref}, 3, ReasonTooEarly},
		{"janela vencida", &Reference{ServiceID: svc.ID, Date: ref}, 27, ReasonExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := ref.AddDate(0, 0, tc.days)
			got := TierEligibility(svc, &svc.Tiers[0], tc.ref, target)
			assert.False(t, got.Eligible)
			assert.Equal(t, tc.reason, got.Reason)
		})
	}
}

func TestTierEligibility_ServiceWithoutCategoryIsFirstTime(t *testing.T) {
	svc := svcWithTiers()
	svc.CategoryID = nil
	ref, target := dateAt(7)

	got := TierEligibility(svc, &svc.Tiers[0], &Reference{ServiceID: svc.ID, Date: ref}, target)
	assert.Equal(t, ReasonFirstTime, got.Reason)
}

func TestEligibleTier_AtMostOneWindowMatches(t *testing.T) {
	tiers := svcWithTiers().Tiers

	// janelas disjuntas → cada valor de dias cai em no máximo um tier
	for days := 0; days <= 30; days++ {
		matches := 0
		for i := range tiers {
			if days >= tiers[i].DaysMin && days <= tiers[i].DaysMax {
				matches++
			}
		}
		require.LessOrEqual(t, matches, 1, "days=%d", days)

		got := EligibleTier(tiers, days)
		if matches == 1 {
			require.NotNil(t, got, "days=%d", days)
		} else {
			require.Nil(t, got, "days=%d", days)
		}
	}
}

func TestResolveQuote_ServiceBaseValues(t *testing.T) {
	svc := svcWithTiers()
	_, target := dateAt(7)

	q, err := ResolveQuote(svc, nil, nil, target)
	require.NoError(t, err)

	assert.Equal(t, 100.0, q.Price)
	assert.Equal(t, 90, q.DurationMin)
	assert.Equal(t, 50, q.DepositPct)
	assert.Equal(t, 50.0, q.DepositAmount)
	assert.Nil(t, q.TierID)
}

func TestResolveQuote_EligibleTier(t *testing.T) {
	// referência há 7 dias, tier cobre 5-10 → preço resolve para o do tier
	svc := svcWithTiers()
	ref, target := dateAt(7)

	q, err := ResolveQuote(svc, &svc.Tiers[0], &Reference{ServiceID: svc.ID, Date: ref}, target)
	require.NoError(t, err)

	assert.Equal(t, 30.0, q.Price)
	assert.Equal(t, 30, q.DurationMin)
	assert.Equal(t, 0, q.DepositPct)
	assert.Equal(t, 0.0, q.DepositAmount, "percentual zero não gera adiantamento")
	require.NotNil(t, q.TierID)
	assert.Equal(t, uint(1), *q.TierID)
}

func TestResolveQuote_IneligibleTierCarriesReason(t *testing.T) {
	// alvo 20 dias à frente da janela → days_elapsed=27, tier 5-10 vencido
	svc := svcWithTiers()
	ref, target := dateAt(27)

	_, err := ResolveQuote(svc, &svc.Tiers[0], &Reference{ServiceID: svc.ID, Date: ref}, target)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "tier_not_eligible_expired"))
}

func TestResolveQuote_TierFromAnotherService(t *testing.T) {
	svc := svcWithTiers()
	foreign := &models.MaintenanceTier{ID: 7, ServiceID: 99, DaysMin: 1, DaysMax: 5}
	_, target := dateAt(7)

	_, err := ResolveQuote(svc, foreign, nil, target)
	assert.True(t, httperr.IsBusiness(err, "tier_not_in_service"))
}

func TestDepositAmount_RoundsToCents(t *testing.T) {
	assert.Equal(t, 33.0, DepositAmount(99.99, 33)) // 32.9967 → 33.00
	assert.Equal(t, 16.5, DepositAmount(49.99, 33)) // 16.4967 → 16.50
	assert.Equal(t, 0.0, DepositAmount(100, 0))
	assert.Equal(t, 50.0, DepositAmount(100, 50))
	assert.Equal(t, 0.01, DepositAmount(1, 1))
}

func TestValidateTierRanges(t *testing.T) {
	ok := []models.MaintenanceTier{
		{DaysMin: 5, DaysMax: 10},
		{DaysMin: 11, DaysMax: 21},
	}
	assert.NoError(t, ValidateTierRanges(ok))

	inverted := []models.MaintenanceTier{{DaysMin: 10, DaysMax: 5}}
	assert.True(t, httperr.IsBusiness(ValidateTierRanges(inverted), "tier_invalid_range"))

	overlapping := []models.MaintenanceTier{
		{DaysMin: 5, DaysMax: 12},
		{DaysMin: 10, DaysMax: 21},
	}
	assert.True(t, httperr.IsBusiness(ValidateTierRanges(overlapping), "tier_range_overlap"))

	touching := []models.MaintenanceTier{
		{DaysMin: 5, DaysMax: 10},
		{DaysMin: 10, DaysMax: 21}, // limite compartilhado também é sobreposição
	}
	assert.True(t, httperr.IsBusiness(ValidateTierRanges(touching), "tier_range_overlap"))
}

func TestParseSelectionRef(t *testing.T) {
	cases := []struct {
		raw  string
		want SelectionRef
		ok   bool
	}{
		{"service_10", SelectionRef{Kind: SelectService, ID: 10}, true},
		{"tier_3", SelectionRef{Kind: SelectTier, ID: 3}, true},
		{"Service_10", SelectionRef{Kind: SelectService, ID: 10}, true},
		{"service_", SelectionRef{}, false},
		{"service_0", SelectionRef{}, false},
		{"tier_abc", SelectionRef{}, false},
		{"combo_5", SelectionRef{}, false},
		{"", SelectionRef{}, false},
	}

	for _, tc := range cases {
		got, err := ParseSelectionRef(tc.raw)
		if tc.ok {
			require.NoError(t, err, tc.raw)
			assert.Equal(t, tc.want, got, tc.raw)
		} else {
			assert.True(t, httperr.IsBusiness(err, "invalid_selection_ref"), tc.raw)
		}
	}
}
