package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveParse(t *testing.T) {
	m := New()
	m.ObserveParse(OutcomeSuccess, 2*time.Millisecond, 4096, 40)
	m.ObserveParse(OutcomeSuccess, time.Millisecond, 2048, 10)
	m.ObserveParse(OutcomeFailure, time.Millisecond, 0, 0)
	m.ObserveParse(OutcomeCached, 0, 0, 0)

	path := filepath.Join(t.TempDir(), "lexis.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `lexis_parses_total{outcome="success"} 2`)
	assert.Contains(t, text, `lexis_parses_total{outcome="failure"} 1`)
	assert.Contains(t, text, `lexis_parses_total{outcome="cached"} 1`)
	assert.Contains(t, text, "lexis_parse_duration_seconds_count 3")
	assert.Contains(t, text, "lexis_arena_bytes_count 2")
	assert.Contains(t, text, "lexis_tree_nodes_sum 50")
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveParse(OutcomeSuccess, 0, 1, 1)

	families, err := b.Registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == "lexis_parses_total" {
			assert.Empty(t, family.GetMetric())
		}
	}
}
