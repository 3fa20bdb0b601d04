package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jrtechsistemas/studio-scheduler/internal/timeslot"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func hm(h, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
}

func asHM(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format("15:04"))
	}
	return out
}

func TestFreeSlots_EmptyAgenda(t *testing.T) {
	// expediente 09:00-12:00, serviço de 60 min → último início válido 11:00
	got := FreeSlots(SlotQuery{
		Working:     []timeslot.Interval{timeslot.New(hm(9, 0), hm(12, 0))},
		DurationMin: 60,
		Now:         hm(0, 0),
	})

	assert.Equal(t,
		[]string{"09:00", "09:30", "10:00", "10:30", "11:00"},
		asHM(got),
	)
}

func TestFreeSlots_WithBookedInterval(t *testing.T) {
	// agendamento confirmado 10:00-11:00 → sobram 09:00 e 11:00
	got := FreeSlots(SlotQuery{
		Working:     []timeslot.Interval{timeslot.New(hm(9, 0), hm(12, 0))},
		Occupied:    []timeslot.Interval{timeslot.New(hm(10, 0), hm(11, 0))},
		DurationMin: 60,
		Now:         hm(0, 0),
	})

	assert.Equal(t, []string{"09:00", "11:00"}, asHM(got))
}

func TestFreeSlots_PastCandidatesDropped(t *testing.T) {
	got := FreeSlots(SlotQuery{
		Working:     []timeslot.Interval{timeslot.New(hm(9, 0), hm(12, 0))},
		DurationMin: 60,
		Now:         hm(10, 15),
	})

	assert.Equal(t, []string{"10:30", "11:00"}, asHM(got))
}

func TestFreeSlots_MultipleWorkingBlocks(t *testing.T) {
	got := FreeSlots(SlotQuery{
		Working: []timeslot.Interval{
			timeslot.New(hm(9, 0), hm(10, 0)),
			timeslot.New(hm(14, 0), hm(15, 30)),
		},
		DurationMin: 60,
		Now:         hm(0, 0),
	})

	assert.Equal(t, []string{"09:00", "14:00", "14:30"}, asHM(got))
}

func TestFreeSlots_DurationLargerThanEveryBlock(t *testing.T) {
	got := FreeSlots(SlotQuery{
		Working:     []timeslot.Interval{timeslot.New(hm(9, 0), hm(10, 0))},
		DurationMin: 90,
		Now:         hm(0, 0),
	})

	assert.Empty(t, got)
}

func TestFreeSlots_NonPositiveDuration(t *testing.T) {
	got := FreeSlots(SlotQuery{
		Working:     []timeslot.Interval{timeslot.New(hm(9, 0), hm(12, 0))},
		DurationMin: 0,
		Now:         hm(0, 0),
	})

	assert.Empty(t, got, "duração zero é resultado vazio, não erro")
}

func TestFreeSlots_UsesResolvedDurationOfBookings(t *testing.T) {
	// manutenção de 30 min ocupa menos que a duração nominal do serviço:
	// 10:00-10:30 ocupado libera o início 10:30
	got := FreeSlots(SlotQuery{
		Working:     []timeslot.Interval{timeslot.New(hm(9, 0), hm(12, 0))},
		Occupied:    []timeslot.Interval{timeslot.New(hm(10, 0), hm(10, 30))},
		DurationMin: 60,
		Now:         hm(0, 0),
	})

	assert.Equal(t, []string{"09:00", "10:30", "11:00"}, asHM(got))
}

func TestHasFreeSlot(t *testing.T) {
	working := []timeslot.Interval{timeslot.New(hm(9, 0), hm(10, 0))}

	assert.True(t, HasFreeSlot(SlotQuery{
		Working: working, DurationMin: 60, Now: hm(0, 0),
	}))

	assert.False(t, HasFreeSlot(SlotQuery{
		Working:     working,
		Occupied:    []timeslot.Interval{timeslot.New(hm(9, 0), hm(10, 0))},
		DurationMin: 60,
		Now:         hm(0, 0),
	}))
}

func TestFreeSlots_EveryResultSatisfiesContract(t *testing.T) {
	working := []timeslot.Interval{
		timeslot.New(hm(8, 0), hm(12, 0)),
		timeslot.New(hm(13, 0), hm(19, 0)),
	}
	occupied := []timeslot.Interval{
		timeslot.New(hm(9, 0), hm(9, 45)),
		timeslot.New(hm(13, 30), hm(15, 0)),
		timeslot.New(hm(17, 0), hm(18, 0)),
	}
	now := hm(8, 40)

	got := FreeSlots(SlotQuery{
		Working:     working,
		Occupied:    occupied,
		DurationMin: 45,
		Now:         now,
	})

	duration := 45 * time.Minute
	for _, s := range got {
		assert.False(t, s.Before(now), "slot no passado: %v", s)

		cand := timeslot.New(s, s.Add(duration))
		assert.False(t, cand.ConflictsWithAny(occupied), "slot conflita: %v", s)

		inside := false
		for _, w := range working {
			if !s.Before(w.Start) && !cand.End.After(w.End) {
				inside = true
			}
		}
		assert.True(t, inside, "slot fora do expediente: %v", s)
	}
}
