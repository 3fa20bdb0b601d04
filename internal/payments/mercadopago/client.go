package mercadopago

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
)

// ===============================
// Mercado Pago Gateway
// ===============================

// Gateway implementa booking.PaymentGateway sobre o SDK oficial.
//
// A expiração do PIX é controlada LOCALMENTE (o provedor não recebe
// date_of_expiration): o sweeper cancela cobranças vencidas do nosso lado.
type Gateway struct {
	client        payment.Client
	expiryMinutes int
}

func New(accessToken string, expiryMinutes int) (*Gateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: %w", err)
	}

	return &Gateway{
		client:        payment.NewClient(cfg),
		expiryMinutes: expiryMinutes,
	}, nil
}

func (g *Gateway) CreateDepositCharge(ctx context.Context, req booking.ChargeRequest) (*booking.Charge, error) {
	if req.Amount <= 0 {
		return nil, httperr.ErrBusiness("invalid_charge_amount")
	}

	// Pagador anônimo: o cliente final não tem conta no provedor,
	// o e-mail sintético mantém a cobrança rastreável pelo pedido.
	payerEmail := req.PayerEmail
	if payerEmail == "" {
		payerEmail = fmt.Sprintf("cliente.%s@jrtech.sistemas.com", req.ExternalReference)
	}
	payerName := req.PayerName
	if payerName == "" {
		payerName = "Cliente"
	}

	res, err := g.client.Create(ctx, payment.Request{
		TransactionAmount: req.Amount,
		Description:       req.Description,
		PaymentMethodID:   "pix",
		ExternalReference: req.ExternalReference,
		Payer: &payment.PayerRequest{
			Email:     payerEmail,
			FirstName: payerName,
			LastName:  "Pedido-" + req.ExternalReference,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago create: %w", err)
	}

	var qrCode, qrCodeB64 string
	if res.PointOfInteraction.TransactionData.QRCode != "" {
		qrCode = res.PointOfInteraction.TransactionData.QRCode
		qrCodeB64 = res.PointOfInteraction.TransactionData.QRCodeBase64
	}
	if qrCode == "" || qrCodeB64 == "" {
		return nil, httperr.ErrBusiness("provider_missing_pix_data")
	}

	return &booking.Charge{
		PaymentID:    strconv.Itoa(res.ID),
		QRCode:       qrCode,
		QRCodeBase64: qrCodeB64,
		ExpiresAt:    time.Now().Add(time.Duration(g.expiryMinutes) * time.Minute),
	}, nil
}

func (g *Gateway) GetPaymentStatus(ctx context.Context, paymentID string) (booking.ProviderStatus, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return booking.ProviderUnknown, httperr.ErrBusiness("invalid_payment_id")
	}

	res, err := g.client.Get(ctx, id)
	if err != nil {
		return booking.ProviderUnknown, fmt.Errorf("mercadopago get: %w", err)
	}

	return normalizeStatus(res.Status), nil
}

// normalizeStatus reduz o vocabulário do provedor ao interno.
func normalizeStatus(s string) booking.ProviderStatus {
	switch s {
	case "approved":
		return booking.ProviderApproved
	case "pending", "in_process", "authorized":
		return booking.ProviderPending
	case "rejected":
		return booking.ProviderRejected
	case "cancelled":
		return booking.ProviderCancelled
	case "expired":
		return booking.ProviderExpired
	default:
		return booking.ProviderUnknown
	}
}
