package models

import "time"

// Negócio (tenant). Todas as outras entidades pertencem a um Business.
type Business struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	PrimaryColor string `gorm:"size:7;default:'#5CCFAC'" json:"primary_color"`
	Phone        string `gorm:"size:20" json:"phone"`
	Timezone     string `gorm:"size:50;default:'America/Sao_Paulo'" json:"timezone"`

	// Janela máxima de agendamento antecipado (em dias)
	MaxAdvanceDays int `gorm:"default:60" json:"max_advance_days"`

	// Pagamento online (adiantamento via PIX)
	OnlinePaymentEnabled bool `gorm:"default:false" json:"online_payment_enabled"`

	// Token para integrações externas (gerado na criação, nunca editável)
	APIToken string `gorm:"size:64;uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
