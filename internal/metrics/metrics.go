package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ===============================
// Métricas de negócio
// ===============================

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_bookings_created_total",
		Help: "Agendamentos criados, por modalidade de pagamento.",
	}, []string{"payment_flow"}) // pay_on_arrival | pix_deposit

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_bookings_cancelled_total",
		Help: "Agendamentos cancelados (qualquer via).",
	})

	SettlementsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_settlements_applied_total",
		Help: "Liquidações de pagamento aplicadas, por resultado.",
	}, []string{"outcome"}) // settle | cancel

	SettlementNoops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_settlement_noops_total",
		Help: "Notificações que encontraram o agendamento já liquidado.",
	})

	SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_sweep_runs_total",
		Help: "Execuções da varredura de cobranças vencidas.",
	})

	ChargeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_charge_failures_total",
		Help: "Falhas na criação de cobrança no provedor.",
	})
)
