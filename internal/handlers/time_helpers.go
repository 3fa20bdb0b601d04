package handlers

import (
	"time"

	"github.com/jrtechsistemas/studio-scheduler/internal/models"
	"github.com/jrtechsistemas/studio-scheduler/internal/timezone"
)

// resolve o timezone oficial do negócio
func locationFromBusiness(biz *models.Business) *time.Location {
	if biz != nil {
		return timezone.Location(biz.Timezone)
	}
	return timezone.Location("")
}

func nowInBusiness(biz *models.Business) time.Time {
	return time.Now().In(locationFromBusiness(biz))
}

func parseDateInBusiness(biz *models.Business, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromBusiness(biz),
	)
}

// "HH:mm" válido no relógio de 24h
func isValidHM(hm string) bool {
	_, err := time.Parse("15:04", hm)
	return err == nil
}
