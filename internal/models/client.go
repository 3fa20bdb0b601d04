package models

import "time"

// Cliente final, sem login, identificado por telefone dentro do negócio.
type Client struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"uniqueIndex:idx_client_business_phone" json:"business_id"`

	Name      string     `gorm:"size:100;not null" json:"name"`
	Phone     string     `gorm:"size:20;uniqueIndex:idx_client_business_phone" json:"phone"`
	Email     string     `gorm:"size:100" json:"email"`
	BirthDate *time.Time `json:"birth_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
