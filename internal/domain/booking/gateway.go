package booking

import (
	"context"
	"time"
)

// ===============================
// Payment Gateway
// ===============================

// ProviderStatus normaliza os status do provedor para o vocabulário interno.
type ProviderStatus string

const (
	ProviderApproved  ProviderStatus = "approved"
	ProviderPending   ProviderStatus = "pending"
	ProviderRejected  ProviderStatus = "rejected"
	ProviderCancelled ProviderStatus = "cancelled"
	ProviderExpired   ProviderStatus = "expired"
	ProviderUnknown   ProviderStatus = "unknown"
)

// Charge é o resultado de uma cobrança PIX criada no provedor.
type Charge struct {
	PaymentID    string
	QRCode       string
	QRCodeBase64 string
	ExpiresAt    time.Time
}

type ChargeRequest struct {
	Amount      float64
	Description string
	// Referência externa gravada no provedor (id do agendamento)
	ExternalReference string
	PayerName         string
	PayerEmail        string
}

// PaymentGateway isola o SDK do provedor do restante do sistema.
type PaymentGateway interface {
	CreateDepositCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
	GetPaymentStatus(ctx context.Context, paymentID string) (ProviderStatus, error)
}
