package objectbuilder

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()

	mw, err := NewMetricsMiddleware(registry, "test")
	require.NoError(t, err)

	c := New(WithMiddleware(mw))
	require.NoError(t, c.Configure(typeOf(&englishGreeter{}), PerCall, As(new(Greeter))))

	for range 3 {
		_, err := Build[Greeter](c)
		require.NoError(t, err)
	}

	_, err = Build[Store](c)
	require.Error(t, err)

	builds := mw.Collector()
	assert.Equal(t, float64(3), testutil.ToFloat64(builds.WithLabelValues("objectbuilder.Greeter", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(builds.WithLabelValues("objectbuilder.Store", "not_registered")))
}

func TestMetricsMiddleware_AlreadyRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()

	first, err := NewMetricsMiddleware(registry, "test")
	require.NoError(t, err)

	second, err := NewMetricsMiddleware(registry, "test")
	require.NoError(t, err)

	assert.Same(t, first.Collector(), second.Collector())
}

func TestMetricsOutcome(t *testing.T) {
	assert.Equal(t, "success", outcome(nil))
	assert.Equal(t, "not_registered", outcome(ErrNotRegistered(Contract[Greeter]())))
	assert.Equal(t, "configuration_error", outcome(ErrConfiguration("x", "bad", nil)))
	assert.Equal(t, "circular_dependency", outcome(NewBuildError(Contract[Greeter](), ErrCircularDependency(nil))))
	assert.Equal(t, "error", outcome(errors.New("boom")))
}
