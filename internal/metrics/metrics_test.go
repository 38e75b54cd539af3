package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

func TestMetricsCounters(t *testing.T) {
	m := New()
	m.Deposits.Inc()
	m.Challenges.WithLabelValues(OutcomeWon).Inc()
	m.Challenges.WithLabelValues(OutcomeDefended).Add(2)
	m.AddStake("deposit", decimal.RequireFromString("2.5"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deposits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Challenges.WithLabelValues(OutcomeWon)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Challenges.WithLabelValues(OutcomeDefended)))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.Staked.WithLabelValues("deposit")))
}

func TestMetricsWriteText(t *testing.T) {
	m := New()
	m.Mints.Inc()

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), "poneglyph_copies_minted_total 1")
}

func TestMetricsObserveStakes(t *testing.T) {
	m := New()
	m.ObserveStakes([]types.StakeEntry{
		{ArtifactID: 0, Amount: decimal.NewFromInt(5)},
		{ArtifactID: 4, Amount: decimal.RequireFromString("0.5")},
	})
	assert.Equal(t, 5.0, testutil.ToFloat64(m.Stakes.WithLabelValues("0")))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.Stakes.WithLabelValues("4")))

	m.ObserveStakes([]types.StakeEntry{{ArtifactID: 0, Amount: decimal.NewFromInt(7)}})
	assert.Equal(t, 1, testutil.CollectAndCount(m.Stakes))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.Stakes.WithLabelValues("0")))
}

func TestMetricsCountersCarryOver(t *testing.T) {
	first := New()
	first.Deposits.Inc()
	first.Rejected.WithLabelValues("mint").Add(3)
	first.AddStake("challenge", decimal.NewFromInt(6))

	samples, err := first.Counters()
	require.NoError(t, err)
	assert.ElementsMatch(t, []Sample{
		{Name: "poneglyph_deposits_total", Value: 1},
		{Name: "poneglyph_rejected_total", Label: "mint", Value: 3},
		{Name: "poneglyph_staked_value_total", Label: "challenge", Value: 6},
	}, samples)

	second := New()
	second.Deposits.Inc()
	require.NoError(t, second.AddCounters(samples))
	assert.Equal(t, 2.0, testutil.ToFloat64(second.Deposits))
	assert.Equal(t, 3.0, testutil.ToFloat64(second.Rejected.WithLabelValues("mint")))
	assert.Equal(t, 6.0, testutil.ToFloat64(second.Staked.WithLabelValues("challenge")))

	assert.Error(t, second.AddCounters([]Sample{{Name: "poneglyph_unknown_total", Value: 1}}))
}
