package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint     `json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`

	// Tier escolhido no momento da criação (nil = preço cheio)
	TierID *uint            `json:"tier_id"`
	Tier   *MaintenanceTier `gorm:"foreignKey:TierID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"tier,omitempty"`

	// Profissional executor. PROTECT: não se apaga profissional com agenda.
	ProfessionalID *uint `json:"professional_id"`
	Professional   *User `gorm:"foreignKey:ProfessionalID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"professional,omitempty"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status        string `gorm:"size:20;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'pending'" json:"payment_status"`

	// Valores resolvidos UMA vez na criação (tier ou serviço). Imutáveis até
	// uma re-resolução explícita por troca de serviço/tier.
	FinalPrice       float64 `json:"final_price"`
	FinalDurationMin int     `json:"final_duration_min"`
	DepositPct       int     `json:"deposit_pct"`
	DepositAmount    float64 `json:"deposit_amount"`

	// Campos do provedor de pagamento (PIX)
	PaymentID          *string    `gorm:"size:50;index" json:"payment_id"`
	PaymentQRCode      string     `gorm:"type:text" json:"payment_qr_code"`
	PaymentQRCodeImage string     `gorm:"type:text" json:"payment_qr_code_image"`
	PaymentExpiresAt   *time.Time `json:"payment_expires_at"`

	Notes       string     `gorm:"size:500" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
