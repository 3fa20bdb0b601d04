package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	ucbooking "github.com/jrtechsistemas/studio-scheduler/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// WEBHOOK DO PROVEDOR DE PAGAMENTO
////////////////////////////////////////////////////////

type WebhookHandler struct {
	settle *ucbooking.SettlePayment
}

func NewWebhookHandler(settle *ucbooking.SettlePayment) *WebhookHandler {
	return &WebhookHandler{settle: settle}
}

type webhookBody struct {
	Action string `json:"action"`
	Type   string `json:"type"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// MercadoPago notifica o mesmo evento por mais de um formato (query string
// antiga e corpo JSON). A liquidação é idempotente, então responder 200 para
// tudo que não conseguimos processar é seguro: o provedor reenvia.
func (h *WebhookHandler) HandlePaymentNotification(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		topic = c.Query("type")
	}

	paymentID := c.Query("data.id")
	if paymentID == "" {
		paymentID = c.Query("id")
	}

	var body webhookBody
	if err := c.ShouldBindJSON(&body); err == nil {
		if topic == "" {
			topic = body.Type
		}
		if paymentID == "" {
			paymentID = body.Data.ID
		}
	}

	if topic != "" && topic != "payment" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	if paymentID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	outcome, err := h.settle.Execute(c.Request.Context(), paymentID)
	if err != nil {
		// pagamento desconhecido ou provedor fora do ar: 200 mesmo assim
		log.Printf("webhook: pagamento %s não processado: %v", paymentID, err)
		c.JSON(http.StatusOK, gin.H{"status": "not_processed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"outcome": string(outcome),
	})
}
