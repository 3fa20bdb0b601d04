package pricing

import (
	"math"
	"sort"
	"time"

	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

// Motivos de inelegibilidade de tier. Expostos ao cliente como texto,
// não como classes de erro.
const (
	ReasonFirstTime     = "first_time"
	ReasonServiceSwitch = "service_switch"
	ReasonTooEarly      = "too_early"
	ReasonExpired       = "expired"
)

// Reference é o último agendamento qualificado do cliente (status concluído
// ou confirmado) em qualquer serviço da mesma categoria do alvo.
type Reference struct {
	ServiceID uint
	Date      time.Time
}

type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// Quote carrega os valores resolvidos de um agendamento. Calculado UMA vez
// na criação; regravado apenas em re-resolução explícita.
type Quote struct {
	Price         float64
	DurationMin   int
	DepositPct    int
	DepositAmount float64
	TierID        *uint
}

// DaysElapsed conta dias corridos entre a referência e a data candidata
// (não "hoje": a navegação mensal valida datas futuras).
//
// Os dois instantes são lidos no calendário da data candidata (o fuso do
// negócio): a referência vem do banco em UTC, e um atendimento de 22h local
// cai no dia seguinte em UTC — sem a conversão a contagem sai um dia curta.
func DaysElapsed(reference, target time.Time) int {
	reference = reference.In(target.Location())

	r := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	c := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(c.Sub(r).Hours() / 24)
}

// RoundCurrency arredonda para centavos.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// DepositAmount calcula o valor do adiantamento; zero quando o percentual é zero.
func DepositAmount(price float64, pct int) float64 {
	if pct <= 0 {
		return 0
	}
	return RoundCurrency(price * float64(pct) / 100)
}

// TierEligibility aplica a regra única de elegibilidade, compartilhada entre
// a anotação de catálogo, o filtro de dias do mês e a validação na criação.
//
//   - sem referência, ou serviço sem categoria → cliente de primeira vez;
//   - referência em OUTRO serviço da categoria → troca de serviço;
//   - mesmo serviço: elegível sse DaysMin <= dias decorridos <= DaysMax.
func TierEligibility(svc *models.Service, tier *models.MaintenanceTier, ref *Reference, targetDate time.Time) Eligibility {
	if svc.CategoryID == nil || ref == nil {
		return Eligibility{Eligible: false, Reason: ReasonFirstTime}
	}

	if ref.ServiceID != svc.ID {
		return Eligibility{Eligible: false, Reason: ReasonServiceSwitch}
	}

	elapsed := DaysElapsed(ref.Date, targetDate)
	if elapsed < tier.DaysMin {
		return Eligibility{Eligible: false, Reason: ReasonTooEarly}
	}
	if elapsed > tier.DaysMax {
		return Eligibility{Eligible: false, Reason: ReasonExpired}
	}

	return Eligibility{Eligible: true}
}

// EligibleTier localiza o tier cuja janela contém os dias decorridos.
// As janelas são disjuntas por construção → no máximo um resultado.
func EligibleTier(tiers []models.MaintenanceTier, daysElapsed int) *models.MaintenanceTier {
	for i := range tiers {
		if daysElapsed >= tiers[i].DaysMin && daysElapsed <= tiers[i].DaysMax {
			return &tiers[i]
		}
	}
	return nil
}

// ResolveQuote fecha preço/duração/adiantamento do agendamento.
// tier == nil resolve pelos valores base do serviço; tier selecionado precisa
// estar elegível para a data, senão o erro carrega o motivo.
func ResolveQuote(svc *models.Service, tier *models.MaintenanceTier, ref *Reference, targetDate time.Time) (*Quote, error) {
	if tier == nil {
		return &Quote{
			Price:         svc.Price,
			DurationMin:   svc.DurationMin,
			DepositPct:    svc.DepositPct,
			DepositAmount: DepositAmount(svc.Price, svc.DepositPct),
		}, nil
	}

	if tier.ServiceID != svc.ID {
		return nil, httperr.ErrBusiness("tier_not_in_service")
	}

	elig := TierEligibility(svc, tier, ref, targetDate)
	if !elig.Eligible {
		return nil, httperr.ErrBusiness("tier_not_eligible_" + elig.Reason)
	}

	tierID := tier.ID
	return &Quote{
		Price:         tier.Price,
		DurationMin:   tier.DurationMin,
		DepositPct:    tier.DepositPct,
		DepositAmount: DepositAmount(tier.Price, tier.DepositPct),
		TierID:        &tierID,
	}, nil
}

// ValidateTierRanges garante, na escrita, DaysMin < DaysMax e janelas
// disjuntas entre todos os tiers de um serviço.
func ValidateTierRanges(tiers []models.MaintenanceTier) error {
	ranges := make([][2]int, 0, len(tiers))
	for _, t := range tiers {
		if t.DaysMin >= t.DaysMax {
			return httperr.ErrBusiness("tier_invalid_range")
		}
		ranges = append(ranges, [2]int{t.DaysMin, t.DaysMax})
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i][0] < ranges[j][0] })

	for i := 0; i+1 < len(ranges); i++ {
		if ranges[i][1] >= ranges[i+1][0] {
			return httperr.ErrBusiness("tier_range_overlap")
		}
	}

	return nil
}
