// Package metrics exposes prometheus counters for game operations.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

const namespace = "poneglyph"

// Challenge outcome label values.
const (
	OutcomeWon      = "won"
	OutcomeDefended = "defended"
)

// Metrics groups the collectors registered by the game.
type Metrics struct {
	registry *prometheus.Registry

	Deposits   prometheus.Counter
	Mints      prometheus.Counter
	Challenges *prometheus.CounterVec
	Victories  prometheus.Counter
	Rejected   *prometheus.CounterVec
	Staked     *prometheus.CounterVec

	// Stakes is the recorded stake per artifact, refreshed by ObserveStakes.
	Stakes *prometheus.GaugeVec

	// counters maps fully qualified names to the counter for a label value.
	counters map[string]func(label string) prometheus.Counter
}

// Sample is one counter value. Label is empty for unlabelled counters.
type Sample struct {
	Name  string
	Label string
	Value float64
}

// New registers the game collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Deposits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_total",
			Help:      "Successful stake deposits.",
		}),
		Mints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copies_minted_total",
			Help:      "Copies issued.",
		}),
		Challenges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_total",
			Help:      "Resolved challenges by outcome.",
		}, []string{"outcome"}),
		Victories: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "victories_total",
			Help:      "Victory events emitted.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_total",
			Help:      "Operations rejected before commit, by operation.",
		}, []string{"op"}),
		Staked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staked_value_total",
			Help:      "Value pulled into the game, by operation.",
		}, []string{"op"}),
		Stakes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_stake",
			Help:      "Recorded stake by artifact id.",
		}, []string{"artifact"}),
	}
	m.registry.MustRegister(m.Deposits, m.Mints, m.Challenges, m.Victories, m.Rejected, m.Staked, m.Stakes)

	plain := func(c prometheus.Counter) func(string) prometheus.Counter {
		return func(string) prometheus.Counter { return c }
	}
	labelled := func(v *prometheus.CounterVec) func(string) prometheus.Counter {
		return func(label string) prometheus.Counter { return v.WithLabelValues(label) }
	}
	m.counters = map[string]func(string) prometheus.Counter{
		prometheus.BuildFQName(namespace, "", "deposits_total"):      plain(m.Deposits),
		prometheus.BuildFQName(namespace, "", "copies_minted_total"): plain(m.Mints),
		prometheus.BuildFQName(namespace, "", "challenges_total"):    labelled(m.Challenges),
		prometheus.BuildFQName(namespace, "", "victories_total"):     plain(m.Victories),
		prometheus.BuildFQName(namespace, "", "rejected_total"):      labelled(m.Rejected),
		prometheus.BuildFQName(namespace, "", "staked_value_total"):  labelled(m.Staked),
	}
	return m
}

// Registry returns the registry holding the game collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AddStake adds amount to the staked value counter for op.
func (m *Metrics) AddStake(op string, amount decimal.Decimal) {
	f, _ := amount.Float64()
	m.Staked.WithLabelValues(op).Add(f)
}

// ObserveStakes replaces the stake gauge with entries.
func (m *Metrics) ObserveStakes(entries []types.StakeEntry) {
	m.Stakes.Reset()
	for _, e := range entries {
		f, _ := e.Amount.Float64()
		m.Stakes.WithLabelValues(e.ArtifactID.String()).Set(f)
	}
}

// Counters returns every non-zero counter value.
func (m *Metrics) Counters() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, metric := range mf.GetMetric() {
			v := metric.GetCounter().GetValue()
			if v == 0 {
				continue
			}
			var label string
			if pairs := metric.GetLabel(); len(pairs) > 0 {
				label = pairs[0].GetValue()
			}
			out = append(out, Sample{Name: mf.GetName(), Label: label, Value: v})
		}
	}
	return out, nil
}

// AddCounters adds each sample to the matching counter. Samples are usually
// totals persisted by earlier processes.
func (m *Metrics) AddCounters(samples []Sample) error {
	for _, s := range samples {
		counter, ok := m.counters[s.Name]
		if !ok {
			return fmt.Errorf("unknown counter %q", s.Name)
		}
		if s.Value < 0 {
			return fmt.Errorf("counter %q: negative value %v", s.Name, s.Value)
		}
		counter(s.Label).Add(s.Value)
	}
	return nil
}

// WriteText writes every collector in the prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
