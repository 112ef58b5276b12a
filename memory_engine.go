package objectbuilder

import (
	"io"
	"reflect"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/xraph/go-utils/di"
	"github.com/xraph/go-utils/log"
	"go.uber.org/multierr"
)

// EngineOption configures the in-memory engine.
type EngineOption func(*memoryEngine)

// WithInjector sets the property injector applied after construction.
func WithInjector(injector *PropertyInjector) EngineOption {
	return func(e *memoryEngine) {
		e.injector = injector
	}
}

// WithEngineLogger sets the logger used for teardown failures.
func WithEngineLogger(logger log.Logger) EngineOption {
	return func(e *memoryEngine) {
		e.logger = logger
	}
}

// ownedInstance is a PerUnitOfWork instance held by a scope.
type ownedInstance struct {
	activation *activation
	instance   any
}

// memoryEngine is the reference map-based Engine.
type memoryEngine struct {
	parent   *memoryEngine
	table    *registrationTable
	injector *PropertyInjector
	logger   log.Logger
	seq      *atomic.Uint64 // shared by the whole tree to order registrations
	owned    map[*activation]any
	order    []ownedInstance
	disposed bool
	mu       sync.Mutex
}

// NewMemoryEngine creates a root engine with an empty registration table.
func NewMemoryEngine(opts ...EngineOption) Engine {
	e := &memoryEngine{
		table: newRegistrationTable(),
		seq:   new(atomic.Uint64),
		owned: make(map[*activation]any),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.injector == nil {
		e.injector = NewPropertyInjector()
	}

	if e.logger == nil {
		e.logger = log.NewNoopLogger()
	}

	return e
}

// Register binds component to contract in this scope's table.
func (e *memoryEngine) Register(contract reflect.Type, component *Component, lifecycle Lifecycle, key string) error {
	if err := lifecycle.Validate(); err != nil {
		return err
	}

	if contract == nil || component == nil || component.Type == nil {
		return ErrInvalidComponent
	}

	act := e.table.activationFor(component, lifecycle, e)
	e.table.put(&registration{
		key:        typeKey{typ: contract, key: key},
		activation: act,
		seq:        e.seq.Add(1),
	})

	return nil
}

// RegisterInstance binds instance as the default for contract.
func (e *memoryEngine) RegisterInstance(contract reflect.Type, instance any) error {
	if contract == nil || instance == nil {
		return ErrInvalidComponent
	}

	e.table.put(&registration{
		key: typeKey{typ: contract},
		activation: &activation{
			component: &Component{Type: reflect.TypeOf(instance)},
			lifecycle: Singleton,
			owner:     e,
			instance:  instance,
			built:     true,
			prebuilt:  true,
		},
		seq: e.seq.Add(1),
	})

	return nil
}

// Resolve returns the instance registered under contract and key.
func (e *memoryEngine) Resolve(contract reflect.Type, key string) (any, error) {
	return e.resolve(contract, key, resolutionChain{})
}

// ResolveAll returns every additional instance for contract.
func (e *memoryEngine) ResolveAll(contract reflect.Type) ([]any, error) {
	var regs []*registration
	for s := e; s != nil; s = s.parent {
		regs = append(regs, s.table.additional(contract)...)
	}

	sort.Slice(regs, func(i, j int) bool {
		return regs[i].seq < regs[j].seq
	})

	instances := make([]any, 0, len(regs))

	for _, reg := range regs {
		instance, err := e.activate(reg.activation, resolutionChain{}.push(contract, reg.activation))
		if err != nil {
			return instances, err
		}
		instances = append(instances, instance)
	}

	return instances, nil
}

// CreateChildScope returns a scope that reads through to e.
func (e *memoryEngine) CreateChildScope() Engine {
	return &memoryEngine{
		parent:   e,
		table:    newRegistrationTable(),
		injector: e.injector,
		logger:   e.logger,
		seq:      e.seq,
		owned:    make(map[*activation]any),
	}
}

// IsRegistered checks if contract has any entry in the scope chain.
func (e *memoryEngine) IsRegistered(contract reflect.Type) bool {
	for s := e; s != nil; s = s.parent {
		if s.table.has(contract) {
			return true
		}
	}

	return false
}

// Teardown releases instance once. The owning scope, this one or an
// ancestor, forgets it so its Dispose does not release it again. A
// constructed Singleton is dropped from its cache and built anew on the next
// resolution; instances bound by RegisterInstance stay bound.
func (e *memoryEngine) Teardown(instance any) error {
	if instance == nil {
		return nil
	}

	for s := e; s != nil; s = s.parent {
		if s.forget(instance) {
			break
		}

		if s.table.evictSingleton(instance) {
			break
		}
	}

	return release(instance)
}

// forget drops instance from the owned set and reports whether it was there.
func (e *memoryEngine) forget(instance any) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, o := range e.order {
		if sameInstance(o.instance, instance) {
			delete(e.owned, o.activation)
			e.order = append(e.order[:i], e.order[i+1:]...)
			return true
		}
	}

	return false
}

// Dispose releases owned instances in reverse creation order.
func (e *memoryEngine) Dispose() error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()

		return nil
	}

	e.disposed = true
	order := e.order
	e.order = nil
	e.owned = make(map[*activation]any)
	e.mu.Unlock()

	var err error

	for i := len(order) - 1; i >= 0; i-- {
		if releaseErr := release(order[i].instance); releaseErr != nil {
			e.logger.Warn("failed to release instance",
				log.String("component", contractName(order[i].activation.component.Type)),
				log.Error(releaseErr),
			)
			err = multierr.Append(err, releaseErr)
		}
	}

	return err
}

// resolutionChain records the contracts requested and the activations under
// construction on the current call path.
type resolutionChain struct {
	contracts   []reflect.Type
	activations []*activation
}

// push returns a copy of c extended with contract and act.
func (c resolutionChain) push(contract reflect.Type, act *activation) resolutionChain {
	next := resolutionChain{
		contracts:   make([]reflect.Type, len(c.contracts), len(c.contracts)+1),
		activations: make([]*activation, len(c.activations), len(c.activations)+1),
	}
	copy(next.contracts, c.contracts)
	copy(next.activations, c.activations)

	next.contracts = append(next.contracts, contract)
	next.activations = append(next.activations, act)

	return next
}

// cycle returns the looping path when contract or act is already on the chain.
func (c resolutionChain) cycle(contract reflect.Type, act *activation) ([]reflect.Type, bool) {
	looped := slices.Contains(c.contracts, contract)
	if !looped && act != nil {
		looped = slices.Contains(c.activations, act)
	}

	if !looped {
		return nil, false
	}

	return append(slices.Clone(c.contracts), contract), true
}

// resolve looks contract up through the scope chain and activates it.
// Reaching an activation already under construction through another contract
// of the same component is a cycle as well.
func (e *memoryEngine) resolve(contract reflect.Type, key string, chain resolutionChain) (any, error) {
	if path, ok := chain.cycle(contract, nil); ok {
		return nil, ErrCircularDependency(path)
	}

	reg, ok := e.lookup(typeKey{typ: contract, key: key})
	if !ok {
		return nil, ErrNotRegistered(contract)
	}

	if path, ok := chain.cycle(contract, reg.activation); ok {
		return nil, ErrCircularDependency(path)
	}

	return e.activate(reg.activation, chain.push(contract, reg.activation))
}

// lookup finds key in this table or the nearest ancestor's.
func (e *memoryEngine) lookup(key typeKey) (*registration, bool) {
	for s := e; s != nil; s = s.parent {
		if reg, ok := s.table.get(key); ok {
			return reg, true
		}
	}

	return nil, false
}

// activate applies the lifecycle policy of act within scope e.
func (e *memoryEngine) activate(act *activation, chain resolutionChain) (any, error) {
	switch act.lifecycle {
	case PerCall:
		return e.construct(act, chain)

	case Singleton:
		act.mu.Lock()
		defer act.mu.Unlock()

		if act.built {
			return act.instance, nil
		}

		// Singletons resolve their dependencies against the owning scope.
		instance, err := act.owner.construct(act, chain)
		if err != nil {
			return nil, err
		}

		act.instance = instance
		act.built = true

		return instance, nil

	case PerUnitOfWork:
		e.mu.Lock()
		if instance, ok := e.owned[act]; ok {
			e.mu.Unlock()

			return instance, nil
		}
		disposed := e.disposed
		e.mu.Unlock()

		instance, err := e.construct(act, chain)
		if err != nil {
			return nil, err
		}

		if disposed {
			return instance, nil
		}

		e.mu.Lock()
		if existing, ok := e.owned[act]; ok {
			e.mu.Unlock()
			_ = release(instance)

			return existing, nil
		}
		e.owned[act] = instance
		e.order = append(e.order, ownedInstance{activation: act, instance: instance})
		e.mu.Unlock()

		return instance, nil

	default:
		return nil, ErrConfiguration(act.lifecycle.String(), "unhandled lifecycle", nil)
	}
}

// construct builds a fresh instance of act's component and injects properties.
func (e *memoryEngine) construct(act *activation, chain resolutionChain) (any, error) {
	component := act.component
	r := &scopeResolver{scope: e, chain: chain}

	var instance any

	if component.Factory != nil {
		built, err := component.Factory(r)
		if err != nil {
			return nil, NewBuildError(component.Type, err)
		}
		instance = built
	} else {
		instance = newInstance(component.Type)
	}

	return e.injector.Apply(component.Type, instance, r)
}

// scopeResolver resolves factory and property dependencies from one scope,
// carrying the resolution chain for cycle detection.
type scopeResolver struct {
	scope *memoryEngine
	chain resolutionChain
}

// Resolve implements Resolver.
func (r *scopeResolver) Resolve(contract reflect.Type) (any, error) {
	return r.scope.resolve(contract, "", r.chain)
}

// newInstance constructs the zero instance of t. Pointer types get a freshly
// allocated element.
func newInstance(t reflect.Type) any {
	switch t.Kind() {
	case reflect.Ptr:
		return reflect.New(t.Elem()).Interface()
	case reflect.Interface:
		return nil
	default:
		return reflect.New(t).Elem().Interface()
	}
}

// release runs the teardown hook of instance, if it has one.
func release(instance any) error {
	switch v := instance.(type) {
	case di.Disposable:
		return v.Dispose()
	case io.Closer:
		return v.Close()
	default:
		return nil
	}
}

// sameInstance compares reference-like values by identity.
func sameInstance(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}
