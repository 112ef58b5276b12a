package objectbuilder

import (
	"iter"
	"reflect"
	"sync"

	"github.com/xraph/go-utils/log"
)

// Container registers components against contracts and resolves them with
// lifecycle management. Children created by BuildChildContainer form a scope
// tree for PerUnitOfWork instances.
type Container interface {
	// Build returns the default instance for contract.
	Build(contract reflect.Type) (any, error)

	// BuildAll yields the default instance followed by every additional
	// instance in registration order. Nothing is yielded when contract has
	// no default. The sequence can be ranged over once. Middleware sees
	// only the default instance.
	BuildAll(contract reflect.Type) iter.Seq2[any, error]

	// Configure registers component under its contracts. Registering a
	// component that is already present is a no-op.
	Configure(component reflect.Type, lifecycle Lifecycle, opts ...ConfigureOption) error

	// ConfigureFunc registers a factory of the form func(deps...) T or
	// func(deps...) (T, error). T is the component; deps are resolved by
	// contract from the constructing scope.
	ConfigureFunc(factory any, lifecycle Lifecycle, opts ...ConfigureOption) error

	// ConfigureProperty records a value assigned to property on every
	// future instance of component.
	ConfigureProperty(component reflect.Type, property string, value any) error

	// RegisterSingleton binds instance as the default for contract,
	// replacing any previous default.
	RegisterSingleton(contract reflect.Type, instance any) error

	// HasComponent reports whether component is registered.
	HasComponent(component reflect.Type) bool

	// Release tears down a single instance, at most once per owning scope.
	// A released Singleton the container built is rebuilt on its next
	// resolution.
	Release(instance any) error

	// BuildChildContainer returns a new scope under this container.
	BuildChildContainer() Container

	// Dispose releases this scope's PerUnitOfWork instances and disposes
	// its children. It is idempotent.
	Dispose() error

	// Defaults returns the registry shared by the container tree.
	Defaults() *DefaultInstances

	// Use adds middleware to the container tree.
	Use(middleware Middleware)
}

// shared is the state every container in one tree points at.
type shared struct {
	defaults   *DefaultInstances
	injector   *PropertyInjector
	middleware *middlewareChain
	logger     log.Logger
	configMu   sync.Mutex // serialises default-versus-additional decisions
}

// New creates a root container.
func New(opts ...Option) Container {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}

	if o.defaults == nil {
		o.defaults = NewDefaultInstances()
	}

	if o.injector == nil {
		o.injector = NewPropertyInjector()
	}

	if o.engine == nil {
		o.engine = NewMemoryEngine(WithInjector(o.injector), WithEngineLogger(o.logger))
	}

	return newContainer(o.engine, &shared{
		defaults:   o.defaults,
		injector:   o.injector,
		middleware: newMiddlewareChain(o.middleware...),
		logger:     o.logger,
	}, nil)
}
