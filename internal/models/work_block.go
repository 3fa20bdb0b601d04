package models

import "time"

// Bloco recorrente de expediente de um profissional. Um profissional pode ter
// vários blocos disjuntos no mesmo dia (manhã/tarde).
// Weekday segue time.Weekday (0 = domingo).
type WorkBlock struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `gorm:"uniqueIndex:idx_work_block_slot" json:"professional_id"`

	Weekday   int    `gorm:"uniqueIndex:idx_work_block_slot" json:"weekday"`
	StartTime string `gorm:"size:5;uniqueIndex:idx_work_block_slot" json:"start_time"` // HH:mm
	EndTime   string `gorm:"size:5" json:"end_time"`                                   // HH:mm

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
