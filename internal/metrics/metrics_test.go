package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Turns.WithLabelValues("http", "resolved", "pesticide").Inc()
	m.Advice.WithLabelValues("harvest").Add(2)
	m.ActiveSessions.Set(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("http", "resolved", "pesticide")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Advice.WithLabelValues("harvest")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "arecabot_turns_total")
	assert.Contains(t, names, "arecabot_active_sessions")
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
