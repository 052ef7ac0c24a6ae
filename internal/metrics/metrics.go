package metrics

import (
	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "foresight"

// Outcomes of a transition attempt
const (
	OutcomeSuccess  = "success"
	OutcomeDeclined = "declined"
	OutcomeFailed   = "failed"
)

// Recorder receives contest events worth counting
type Recorder interface {
	Transition(from, to models.Phase, outcome string)
	Verification(verified, rejected int)
	Collected(kind string, upserts int)
	PayoutsDistributed(recipients int, amount float64)
}

// Prometheus records events into a prometheus registry
type Prometheus struct {
	transitions  *prometheus.CounterVec
	verification *prometheus.CounterVec
	collected    *prometheus.CounterVec
	payouts      prometheus.Counter
	recipients   prometheus.Histogram
}

// NewPrometheus creates the collectors and registers them on reg
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_transitions_total",
			Help:      "Round phase transition attempts by outcome.",
		}, []string{"from", "to", "outcome"}),
		verification: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reveal_verifications_total",
			Help:      "Reveals checked against their commitments.",
		}, []string{"result"}),
		collected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collected_submissions_total",
			Help:      "Commitment and reveal replies ingested.",
		}, []string{"kind"}),
		payouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payouts_distributed_total",
			Help:      "Sum of all payouts computed.",
		}),
		recipients: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payout_recipients",
			Help:      "Participants paid per round.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 8),
		}),
	}

	for _, c := range []prometheus.Collector{p.transitions, p.verification, p.collected, p.payouts, p.recipients} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) Transition(from, to models.Phase, outcome string) {
	p.transitions.WithLabelValues(string(from), string(to), outcome).Inc()
}

func (p *Prometheus) Verification(verified, rejected int) {
	p.verification.WithLabelValues("verified").Add(float64(verified))
	p.verification.WithLabelValues("rejected").Add(float64(rejected))
}

func (p *Prometheus) Collected(kind string, upserts int) {
	p.collected.WithLabelValues(kind).Add(float64(upserts))
}

func (p *Prometheus) PayoutsDistributed(recipients int, amount float64) {
	p.payouts.Add(amount)
	p.recipients.Observe(float64(recipients))
}

// Noop discards everything
type Noop struct{}

func (Noop) Transition(models.Phase, models.Phase, string) {}
func (Noop) Verification(int, int)                          {}
func (Noop) Collected(string, int)                          {}
func (Noop) PayoutsDistributed(int, float64)                {}
