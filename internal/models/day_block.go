package models

import "time"

// Bloqueio pontual de um dia inteiro (folga, feriado, compromisso).
// Quando existe, zera a disponibilidade do profissional na data.
type DayBlock struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `gorm:"uniqueIndex:idx_day_block_date" json:"professional_id"`

	Date   time.Time `gorm:"type:date;uniqueIndex:idx_day_block_date" json:"date"`
	Reason string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
