package models

import "time"

// Categoria de serviços. A elegibilidade de manutenção considera o histórico
// do cliente dentro da mesma categoria.
type Category struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `json:"business_id"`

	Name string `gorm:"size:50;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
