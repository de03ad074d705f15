package prommetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/homier/typeddict"
	"github.com/homier/typeddict/prommetrics"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := prommetrics.New(reg, "test")

	d := typeddict.NewDict(typeddict.Int64, typeddict.Int64, typeddict.WithMetrics(c))
	h := d.Construct()

	for k := range int64(5) {
		require.NoError(t, d.Set(h, typeddict.Int64.Make(k), typeddict.Int64.Make(k)))
	}

	_, err := d.Delete(h, typeddict.Int64.Make(0))
	require.NoError(t, err)
	require.NoError(t, d.Destroy(&h))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 6, count)

	families, err := reg.Gather()
	require.NoError(t, err)

	got := make(map[string]float64)
	for _, mf := range families {
		m := mf.GetMetric()[0]
		if hist := m.GetHistogram(); hist != nil {
			got[mf.GetName()] = float64(hist.GetSampleCount())
			continue
		}
		got[mf.GetName()] = m.GetCounter().GetValue()
	}

	require.Equal(t, map[string]float64{
		"test_typeddict_slot_grows_total":         2,
		"test_typeddict_reserved_cells":           2,
		"test_typeddict_index_rebuilds_total":     1,
		"test_typeddict_tombstones_dropped_total": 0,
		"test_typeddict_layouts_released_total":   1,
		"test_typeddict_pairs_released_total":     4,
	}, got)
}

func TestCollector_Unregistered(t *testing.T) {
	c := prommetrics.New(nil, "")
	c.RecordGrow(4)
	c.RecordRebuild(8, 3)
	c.RecordRelease(2)
}
