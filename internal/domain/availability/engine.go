package availability

import (
	"sort"
	"time"

	"github.com/jrtechsistemas/studio-scheduler/internal/timeslot"
)

// Granularidade fixa dos candidatos (mesma do fluxo original de agendamento).
const SlotGranularityMin = 30

type SlotQuery struct {
	// Intervalos de expediente do dia (já resolvidos via schedule)
	Working []timeslot.Interval

	// Intervalos ocupados por agendamentos pendentes/confirmados,
	// usando a duração RESOLVIDA de cada agendamento
	Occupied []timeslot.Interval

	// Duração exigida para o novo atendimento
	DurationMin int

	// Candidatos anteriores a Now são descartados (só tem efeito
	// quando a data consultada é hoje)
	Now time.Time
}

// FreeSlots enumera os inícios de atendimento possíveis em um dia.
//
// Um candidato é válido quando:
//   - candidato + duração cabe dentro do bloco de expediente;
//   - candidato >= Now;
//   - [candidato, candidato+duração) não conflita com nenhum ocupado.
//
// Duração não positiva ou maior que todos os blocos → lista vazia, não erro.
func FreeSlots(q SlotQuery) []time.Time {
	if q.DurationMin <= 0 {
		return nil
	}

	duration := time.Duration(q.DurationMin) * time.Minute
	step := SlotGranularityMin * time.Minute

	seen := make(map[time.Time]struct{})
	var slots []time.Time

	for _, w := range q.Working {
		for cur := w.Start; !cur.Add(duration).After(w.End); cur = cur.Add(step) {
			if cur.Before(q.Now) {
				continue
			}

			candidate := timeslot.New(cur, cur.Add(duration))
			if candidate.ConflictsWithAny(q.Occupied) {
				continue
			}

			if _, dup := seen[cur]; dup {
				continue
			}
			seen[cur] = struct{}{}
			slots = append(slots, cur)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots
}

// HasFreeSlot responde se o dia tem ao menos um candidato válido, com
// short-circuit (usado na varredura mensal).
func HasFreeSlot(q SlotQuery) bool {
	if q.DurationMin <= 0 {
		return false
	}

	duration := time.Duration(q.DurationMin) * time.Minute
	step := SlotGranularityMin * time.Minute

	for _, w := range q.Working {
		for cur := w.Start; !cur.Add(duration).After(w.End); cur = cur.Add(step) {
			if cur.Before(q.Now) {
				continue
			}
			if !timeslot.New(cur, cur.Add(duration)).ConflictsWithAny(q.Occupied) {
				return true
			}
		}
	}

	return false
}
