package models

import "time"

// Tier de manutenção: retorno do mesmo serviço dentro de uma janela de dias
// [DaysMin, DaysMax] desde o último atendimento qualificado. As janelas de um
// mesmo serviço nunca se sobrepõem (validado na escrita).
type MaintenanceTier struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `json:"service_id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	DaysMin int    `json:"dias_min"`
	DaysMax int    `json:"dias_max"`

	Price       float64 `json:"price"`
	DurationMin int     `json:"duration_min"`
	DepositPct  int     `gorm:"default:0" json:"deposit_pct"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
