package telemetry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/signals/pkg/reactive"
)

func newRuntime(t *testing.T, obs reactive.Observer) *reactive.Runtime {
	t.Helper()
	rt := reactive.NewRuntime(
		reactive.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		reactive.WithObserver(obs),
	)
	t.Cleanup(rt.Close)
	return rt
}

func TestPrometheusRecordsPasses(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg), WithNamespace("test"))
	rt := newRuntime(t, m)

	count := reactive.NewSignal(rt.Root(), 0)
	doubled := reactive.NewMemo(rt.Root(), func() int { return count.Get() * 2 })
	_, err := reactive.NewEffect(rt.Root(), func() reactive.Cleanup {
		_ = doubled.Get()
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, count.Set(1))
	require.NoError(t, count.Set(2))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.passesTotal.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.passesTotal.WithLabelValues("aborted")))
	// One initial computation plus one per pass.
	assert.Equal(t, 3.0, testutil.ToFloat64(m.recomputesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.effectRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.liveNodes.WithLabelValues("signal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.liveNodes.WithLabelValues("memo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.liveNodes.WithLabelValues("effect")))

	n, err := testutil.GatherAndCount(reg, "test_pass_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrometheusRecordsAbortedPass(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg))
	rt := newRuntime(t, m)

	closeLoop := reactive.NewSignal(rt.Root(), false)
	var b *reactive.Memo[int]
	a := reactive.NewMemo(rt.Root(), func() int {
		if closeLoop.Get() {
			return b.Get()
		}
		return 0
	})
	b = reactive.NewMemo(rt.Root(), func() int { return a.Get() })
	_, err := reactive.NewEffect(rt.Root(), func() reactive.Cleanup {
		_ = b.Get()
		return nil
	})
	require.NoError(t, err)

	err = closeLoop.Set(true)
	require.ErrorIs(t, err, reactive.ErrCyclicDependency)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.passesTotal.WithLabelValues("aborted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.passErrors.WithLabelValues("cyclic_dependency")))
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{reactive.ErrCyclicDependency, "cyclic_dependency"},
		{fmt.Errorf("wrapped: %w", reactive.ErrUseAfterDispose), "use_after_dispose"},
		{reactive.ErrPassLimit, "pass_limit"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, categorizeError(tt.err))
		})
	}
}

func TestPrometheusSeparateRegistries(t *testing.T) {
	// Registering twice on the same registry panics; separate registries
	// must not interfere.
	require.NotPanics(t, func() {
		Prometheus(WithRegistry(prometheus.NewRegistry()))
		Prometheus(WithRegistry(prometheus.NewRegistry()))
	})
}
