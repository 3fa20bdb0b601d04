package timeslot

import "time"

// Intervalo meio-aberto [Start, End). Fim encostando em início NÃO é conflito.
type Interval struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Overlaps: max(a.Start, b.Start) < min(a.End, b.End)
func (a Interval) Overlaps(b Interval) bool {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}

	end := a.End
	if b.End.Before(end) {
		end = b.End
	}

	return start.Before(end)
}

// ConflictsWithAny verifica o intervalo contra uma lista de ocupados.
func (a Interval) ConflictsWithAny(occupied []Interval) bool {
	for _, o := range occupied {
		if a.Overlaps(o) {
			return true
		}
	}
	return false
}

func (a Interval) Duration() time.Duration {
	return a.End.Sub(a.Start)
}
