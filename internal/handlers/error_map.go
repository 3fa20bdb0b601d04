package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
)

// ======================================================
// Mapeamento de erros de negócio → HTTP
// ======================================================

// mensagens por código; elegibilidade de tier carrega o motivo no sufixo
var businessMessages = map[string]string{
	"invalid_selection_ref":     "Seleção de serviço inválida.",
	"invalid_date":              "Data inválida.",
	"invalid_date_or_time":      "Data ou hora inválida.",
	"invalid_month":             "Mês inválido.",
	"time_in_past":              "Horário no passado.",
	"too_far_ahead":             "Data além da janela de agendamento.",
	"time_conflict":             "Conflito de horário.",
	"outside_working_hours":     "Fora do horário de atendimento.",
	"service_not_found":         "Serviço não encontrado.",
	"service_inactive":          "Serviço indisponível.",
	"tier_not_found":            "Opção de manutenção não encontrada.",
	"tier_not_in_service":       "Opção de manutenção não pertence ao serviço.",
	"professional_not_found":    "Profissional não encontrado.",
	"professional_not_enabled":  "Profissional não atende este serviço.",
	"booking_not_found":         "Agendamento não encontrado.",
	"invalid_state":             "Transição de status inválida.",
	"invalid_status":            "Status inválido.",
	"invalid_payment_status":    "Status de pagamento inválido.",
	"payment_owned_by_provider": "Pagamento em aberto no provedor; aguarde a liquidação.",
	"charge_creation_failed":    "Não foi possível gerar a cobrança; o horário foi liberado.",
	"payments_disabled":         "Pagamento online desabilitado.",
	"tier_invalid_range":        "Janela de dias inválida (mínimo deve ser menor que máximo).",
	"tier_range_overlap":        "Janelas de dias sobrepostas entre opções de manutenção.",
}

var tierEligibilityMessages = map[string]string{
	"first_time":     "Cliente sem histórico: manutenção indisponível.",
	"service_switch": "Último atendimento foi de outro serviço: manutenção indisponível.",
	"too_early":      "Ainda é cedo para esta manutenção.",
	"expired":        "Janela de manutenção vencida: agende o serviço completo.",
}

// mapBusinessError responde 4xx para erro de negócio conhecido e 500 para o
// resto. Retorna sempre (só usar como último passo do handler).
func mapBusinessError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	code := be.Code

	if reason, ok := strings.CutPrefix(code, "tier_not_eligible_"); ok {
		msg := tierEligibilityMessages[reason]
		if msg == "" {
			msg = "Opção de manutenção não elegível."
		}
		httperr.Write(c, 422, code, msg)
		return
	}

	msg, known := businessMessages[code]
	if !known {
		httperr.Internal(c, code, "Erro interno.")
		return
	}

	status := 400
	switch code {
	case "booking_not_found", "service_not_found", "tier_not_found", "professional_not_found":
		status = 404
	case "time_conflict":
		status = 409
	case "invalid_state", "payment_owned_by_provider":
		status = 422
	case "charge_creation_failed":
		status = 502
	}

	httperr.Write(c, status, code, msg)
}
