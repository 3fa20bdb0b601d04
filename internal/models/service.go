package models

import "time"

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `json:"business_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`

	// Percentual do preço cobrado como adiantamento (0-100)
	DepositPct int `gorm:"default:0" json:"deposit_pct"`

	CategoryID *uint     `json:"category_id"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`

	// Profissionais habilitados a executar este serviço
	Professionals []User `gorm:"many2many:service_professionals;" json:"professionals,omitempty"`

	// Tiers de manutenção (janelas de dias com preço/duração próprios)
	Tiers []MaintenanceTier `gorm:"constraint:OnDelete:CASCADE;" json:"tiers,omitempty"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
