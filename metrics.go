package objectbuilder

import (
	"errors"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware counts resolutions per contract and outcome.
type MetricsMiddleware struct {
	builds *prometheus.CounterVec
}

// NewMetricsMiddleware creates the middleware and registers its collectors
// with registerer.
func NewMetricsMiddleware(registerer prometheus.Registerer, namespace string) (*MetricsMiddleware, error) {
	builds := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objectbuilder_builds_total",
			Help:      "Total number of default-instance resolutions",
		},
		[]string{"contract", "outcome"},
	)

	if err := registerer.Register(builds); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}

		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		builds = existing
	}

	return &MetricsMiddleware{builds: builds}, nil
}

// BeforeBuild implements Middleware.
func (m *MetricsMiddleware) BeforeBuild(reflect.Type) error {
	return nil
}

// AfterBuild implements Middleware.
func (m *MetricsMiddleware) AfterBuild(contract reflect.Type, _ any, err error) error {
	m.builds.WithLabelValues(contractName(contract), outcome(err)).Inc()
	return nil
}

// Collector exposes the counter, mainly for tests.
func (m *MetricsMiddleware) Collector() *prometheus.CounterVec {
	return m.builds
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotRegisteredSentinel):
		return "not_registered"
	case errors.Is(err, ErrConfigurationSentinel):
		return "configuration_error"
	case errors.Is(err, ErrCircularDependencySentinel):
		return "circular_dependency"
	default:
		return "error"
	}
}
