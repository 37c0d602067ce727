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

	m, err := New(reg)
	require.NoError(t, err)

	m.StoreOperations.WithLabelValues("sqlite", "get", "ok").Inc()
	m.StoreReady.WithLabelValues("sqlite").Set(1)

	assert.InDelta(t, 1, testutil.ToFloat64(m.StoreOperations.WithLabelValues("sqlite", "get", "ok")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, "quotebook_store_operations_total")
	assert.Contains(t, names, "quotebook_store_ready")
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := New(reg)
	require.NoError(t, err)

	second, err := New(reg)
	require.NoError(t, err)

	first.ImportItems.WithLabelValues("created").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(second.ImportItems.WithLabelValues("created")), 0)
}

func TestNewNop(t *testing.T) {
	m := NewNop()

	require.NotNil(t, m)
	assert.NotPanics(t, func() { m.RateLimited.WithLabelValues("navigate").Inc() })
}
