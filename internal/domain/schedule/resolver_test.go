package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

// segunda-feira
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestWorkingIntervals_TwoBlocks(t *testing.T) {
	blocks := []models.WorkBlock{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		{Weekday: 1, StartTime: "14:00", EndTime: "18:00"},
		{Weekday: 2, StartTime: "09:00", EndTime: "12:00"}, // outro dia
	}

	got := WorkingIntervals(monday, blocks, false)
	require.Len(t, got, 2)

	assert.Equal(t, 9, got[0].Start.Hour())
	assert.Equal(t, 12, got[0].End.Hour())
	assert.Equal(t, 14, got[1].Start.Hour())
	assert.Equal(t, 18, got[1].End.Hour())
}

func TestWorkingIntervals_DayBlockOverrides(t *testing.T) {
	blocks := []models.WorkBlock{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
	}

	got := WorkingIntervals(monday, blocks, true)
	assert.Empty(t, got, "dia bloqueado zera a agenda mesmo com expediente cadastrado")
}

func TestWorkingIntervals_NoBlocksForWeekday(t *testing.T) {
	blocks := []models.WorkBlock{
		{Weekday: 3, StartTime: "09:00", EndTime: "12:00"},
	}

	assert.Empty(t, WorkingIntervals(monday, blocks, false))
}

func TestWorkingIntervals_SkipsMalformed(t *testing.T) {
	blocks := []models.WorkBlock{
		{Weekday: 1, StartTime: "xx:yy", EndTime: "12:00"},
		{Weekday: 1, StartTime: "15:00", EndTime: "14:00"}, // invertido
		{Weekday: 1, StartTime: "09:00", EndTime: "10:00"},
	}

	got := WorkingIntervals(monday, blocks, false)
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].Start.Hour())
}
