package pricing

import (
	"strconv"
	"strings"

	"github.com/jrtechsistemas/studio-scheduler/internal/httperr"
)

type SelectionKind int

const (
	SelectService SelectionKind = iota
	SelectTier
)

// SelectionRef identifica o alvo do agendamento: serviço cheio ou tier de
// manutenção. Substitui o despacho por prefixo de string espalhado pelo
// sistema — o parse acontece uma única vez na borda.
type SelectionRef struct {
	Kind SelectionKind
	ID   uint
}

// ParseSelectionRef aceita os formatos "service_<id>" e "tier_<id>".
func ParseSelectionRef(raw string) (SelectionRef, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))

	var kind SelectionKind
	var idPart string

	switch {
	case strings.HasPrefix(raw, "service_"):
		kind = SelectService
		idPart = strings.TrimPrefix(raw, "service_")
	case strings.HasPrefix(raw, "tier_"):
		kind = SelectTier
		idPart = strings.TrimPrefix(raw, "tier_")
	default:
		return SelectionRef{}, httperr.ErrBusiness("invalid_selection_ref")
	}

	id, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil || id == 0 {
		return SelectionRef{}, httperr.ErrBusiness("invalid_selection_ref")
	}

	return SelectionRef{Kind: kind, ID: uint(id)}, nil
}
