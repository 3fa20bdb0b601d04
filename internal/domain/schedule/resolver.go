package schedule

import (
	"time"

	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/timeslot"
)

// ParseHM materializa um horário "HH:mm" sobre a data informada,
// no fuso da data.
func ParseHM(date time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), true
}

// WorkingIntervals resolve os intervalos de expediente de um profissional
// para uma data.
//
// Regras:
//   - dia bloqueado → nenhum intervalo, independente dos blocos semanais;
//   - caso contrário, cada WorkBlock do dia da semana vira um intervalo
//     absoluto na data (blocos já vêm ordenados por hora de início);
//   - blocos com horário malformado ou invertido são ignorados. Sobreposição
//     entre blocos é erro de configuração fora do contrato deste resolver.
func WorkingIntervals(date time.Time, blocks []models.WorkBlock, dayBlocked bool) []timeslot.Interval {
	if dayBlocked {
		return nil
	}

	weekday := int(date.Weekday())

	intervals := make([]timeslot.Interval, 0, len(blocks))
	for _, b := range blocks {
		if b.Weekday != weekday {
			continue
		}

		start, ok := ParseHM(date, b.StartTime)
		if !ok {
			continue
		}
		end, ok := ParseHM(date, b.EndTime)
		if !ok {
			continue
		}
		if !start.Before(end) {
			continue
		}

		intervals = append(intervals, timeslot.New(start, end))
	}

	return intervals
}
