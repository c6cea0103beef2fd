// Package metrics exposes Prometheus counters and gauges for ledger activity.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/sharedgoals/internal/ledger"
)

const namespace = "sharedgoals"

// Recorder turns ledger events and rejected operations into metrics.
type Recorder struct {
	events     *prometheus.CounterVec
	amounts    *prometheus.CounterVec
	rejections *prometheus.CounterVec
	goals      prometheus.Gauge
	pending    prometheus.Gauge
	settledSum prometheus.Counter
}

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_events_total",
			Help:      "Committed ledger changes by event type.",
		}, []string{"type"}),
		amounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_amount_total",
			Help:      "Sum of accepted transaction amounts by type.",
		}, []string{"type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_rejections_total",
			Help:      "Rejected ledger operations by operation and error kind.",
		}, []string{"op", "kind"}),
		goals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goals_active",
			Help:      "Goals currently in the ledger, pending settlement included.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "settlements_pending",
			Help:      "Goals waiting for settlement approval.",
		}),
		settledSum: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_payout_total",
			Help:      "Sum of amounts returned to members by resolved settlements.",
		}),
	}
	reg.MustRegister(r.events, r.amounts, r.rejections, r.goals, r.pending, r.settledSum)
	return r
}

// HandleEvent is a ledger.Handler.
func (r *Recorder) HandleEvent(_ context.Context, ev ledger.Event) {
	r.events.WithLabelValues(string(ev.Type)).Inc()

	switch ev.Type {
	case ledger.EventGoalCreated:
		r.goals.Inc()
	case ledger.EventContributed, ledger.EventWithdrew:
		if ev.Transaction != nil {
			r.amounts.WithLabelValues(string(ev.Transaction.Type)).Add(float64(ev.Transaction.Amount))
		}
	case ledger.EventSettlementRequested:
		r.pending.Inc()
	case ledger.EventSettlementResolved:
		r.pending.Dec()
		r.goals.Dec()
		if ev.Settlement != nil {
			r.settledSum.Add(float64(ev.Settlement.Total()))
		}
	}
}

// Rejected counts a failed operation. Nil errors are ignored.
func (r *Recorder) Rejected(op string, err error) {
	if err == nil {
		return
	}
	r.rejections.WithLabelValues(op, ledger.Kind(err)).Inc()
}
