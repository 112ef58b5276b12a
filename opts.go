package objectbuilder

import (
	"reflect"

	"github.com/xraph/go-utils/log"
)

// Option configures a root container created by New.
type Option func(*options)

type options struct {
	logger     log.Logger
	engine     Engine
	defaults   *DefaultInstances
	injector   *PropertyInjector
	middleware []Middleware
}

// WithLogger sets the logger used by the container tree.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEngine replaces the in-memory engine. Build the engine with the same
// PropertyInjector passed to WithPropertyInjector so ConfigureProperty
// reaches it.
func WithEngine(engine Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithDefaults shares a default-instance registry between root containers.
func WithDefaults(defaults *DefaultInstances) Option {
	return func(o *options) {
		o.defaults = defaults
	}
}

// WithPropertyInjector sets the injector that records ConfigureProperty values.
func WithPropertyInjector(injector *PropertyInjector) Option {
	return func(o *options) {
		o.injector = injector
	}
}

// WithMiddleware adds build middleware.
func WithMiddleware(middleware ...Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, middleware...)
	}
}

// ConfigureOption is a configuration option for component registration.
type ConfigureOption func(*configureConfig)

type configureConfig struct {
	contracts []reflect.Type
}

// As declares the interfaces the component is registered under, given as
// pointers to interface values.
//
// Example:
//
//	c.Configure(reflect.TypeOf(&SmtpSender{}), objectbuilder.PerCall,
//	    objectbuilder.As(new(Sender), new(HealthChecker)))
func As(ifaces ...any) ConfigureOption {
	return func(c *configureConfig) {
		for _, iface := range ifaces {
			t := reflect.TypeOf(iface)
			if t != nil && t.Kind() == reflect.Ptr {
				t = t.Elem()
			}
			c.contracts = append(c.contracts, t)
		}
	}
}

// AsContracts declares contracts directly by type.
func AsContracts(contracts ...reflect.Type) ConfigureOption {
	return func(c *configureConfig) {
		c.contracts = append(c.contracts, contracts...)
	}
}

// mergeConfigureOptions applies opts in order.
func mergeConfigureOptions(opts []ConfigureOption) *configureConfig {
	cfg := &configureConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
