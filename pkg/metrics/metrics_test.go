package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRegistersAndCounts(t *testing.T) {
	c := New()
	reg := prometheus.NewPedanticRegistry()
	c.MustRegister(reg)

	c.Breaks.Inc()
	c.Transactions.WithLabelValues("AckActive", "ok").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var sawBreak, sawTx bool
	for _, fam := range families {
		switch fam.GetName() {
		case "sdi12_breaks_total":
			sawBreak = true
			assert.Equal(t, 1.0, fam.Metric[0].GetCounter().GetValue())
		case "sdi12_transactions_total":
			sawTx = true
			m := findMetric(fam.Metric, "AckActive", "ok")
			require.NotNil(t, m)
			assert.Equal(t, 1.0, m.GetCounter().GetValue())
		}
	}
	assert.True(t, sawBreak)
	assert.True(t, sawTx)
}

func findMetric(ms []*dto.Metric, kind, outcome string) *dto.Metric {
	for _, m := range ms {
		var gotKind, gotOutcome string
		for _, lp := range m.Label {
			switch lp.GetName() {
			case "kind":
				gotKind = lp.GetValue()
			case "outcome":
				gotOutcome = lp.GetValue()
			}
		}
		if gotKind == kind && gotOutcome == outcome {
			return m
		}
	}
	return nil
}
