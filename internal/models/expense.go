package models

import "time"

// Despesa do negócio (livro-caixa simples).
type Expense struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `json:"business_id"`

	Description string    `gorm:"size:200;not null" json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `gorm:"type:date" json:"date"`
	Category    string    `gorm:"size:20" json:"category"`
	Paid        bool      `gorm:"default:false" json:"paid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
