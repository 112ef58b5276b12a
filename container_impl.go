package objectbuilder

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/xraph/go-utils/log"
)

// container implements Container.
type container struct {
	engine   Engine
	shared   *shared
	parent   *container
	children []*container
	disposed bool
	mu       sync.Mutex
}

// newContainer creates a container node over engine.
func newContainer(engine Engine, s *shared, parent *container) *container {
	return &container{
		engine: engine,
		shared: s,
		parent: parent,
	}
}

// Build returns the default instance for contract.
func (c *container) Build(contract reflect.Type) (any, error) {
	// Call middleware before build
	if err := c.shared.middleware.beforeBuild(contract); err != nil {
		return nil, err
	}

	instance, err := c.build(contract)

	// Call middleware after build
	if mwErr := c.shared.middleware.afterBuild(contract, instance, err); mwErr != nil {
		return nil, mwErr
	}

	return instance, err
}

// build performs the default resolution without middleware.
func (c *container) build(contract reflect.Type) (any, error) {
	if contract == nil || !c.shared.defaults.Contains(contract) {
		return nil, ErrNotRegistered(contract)
	}

	return c.engine.Resolve(contract, "")
}

// BuildAll yields the default instance, then the additional ones.
func (c *container) BuildAll(contract reflect.Type) iter.Seq2[any, error] {
	var consumed atomic.Bool

	return func(yield func(any, error) bool) {
		if consumed.Swap(true) {
			return
		}

		if contract == nil || !c.shared.defaults.Contains(contract) {
			return
		}

		instance, err := c.Build(contract)
		if !yield(instance, err) || err != nil {
			return
		}

		additional, err := c.engine.ResolveAll(contract)
		for _, instance := range additional {
			if !yield(instance, nil) {
				return
			}
		}

		if err != nil {
			yield(nil, err)
		}
	}
}

// Configure registers a concrete component type.
func (c *container) Configure(component reflect.Type, lifecycle Lifecycle, opts ...ConfigureOption) error {
	if component == nil {
		return ErrInvalidComponent
	}

	if component.Kind() == reflect.Interface {
		return ErrConfiguration(component.String(), "component must be a concrete type; use ConfigureFunc for interface results", nil)
	}

	return c.configure(&Component{Type: component}, lifecycle, opts)
}

// ConfigureFunc registers a factory-built component.
func (c *container) ConfigureFunc(factory any, lifecycle Lifecycle, opts ...ConfigureOption) error {
	info, err := analyzeFactory(factory)
	if err != nil {
		if errors.Is(err, ErrInvalidComponent) {
			return err
		}
		return ErrConfiguration(fmt.Sprintf("%T", factory), "invalid factory", err)
	}

	return c.configure(info.component(), lifecycle, opts)
}

// configure registers component under every discovered contract. The first
// registration of a contract becomes its default; later ones are additional.
func (c *container) configure(component *Component, lifecycle Lifecycle, opts []ConfigureOption) error {
	if err := lifecycle.Validate(); err != nil {
		return err
	}

	cfg := mergeConfigureOptions(opts)

	contracts, err := contractsFor(component.Type, cfg.contracts)
	if err != nil {
		return err
	}

	c.shared.configMu.Lock()
	defer c.shared.configMu.Unlock()

	if c.HasComponent(component.Type) {
		c.shared.logger.Debug("component already registered, skipping",
			log.String("component", component.Type.String()),
		)
		return nil
	}

	for _, contract := range contracts {
		// A contract marked by a scope outside this chain still gets a
		// default here, otherwise Build could never reach it.
		key := ""
		if !c.shared.defaults.claim(contract) && c.engine.IsRegistered(contract) {
			key = uuid.NewString()
		}

		if err := c.engine.Register(contract, component, lifecycle, key); err != nil {
			return err
		}

		kind := "default"
		if key != "" {
			kind = "additional"
		}

		c.shared.logger.Debug("registered component",
			log.String("contract", contract.String()),
			log.String("component", component.Type.String()),
			log.String("lifecycle", lifecycle.String()),
			log.String("registration", kind),
		)
	}

	return nil
}

// ConfigureProperty records a property value for component.
func (c *container) ConfigureProperty(component reflect.Type, property string, value any) error {
	if component == nil {
		return ErrInvalidComponent
	}

	if property == "" {
		return ErrConfiguration(component.String(), "property name cannot be empty", nil)
	}

	c.shared.injector.SetPropertyValue(component, property, value)

	return nil
}

// RegisterSingleton binds instance as the default for contract.
func (c *container) RegisterSingleton(contract reflect.Type, instance any) error {
	if contract == nil || instance == nil {
		return ErrInvalidComponent
	}

	if it := reflect.TypeOf(instance); !it.AssignableTo(contract) {
		return ErrConfiguration(contract.String(), fmt.Sprintf("instance of type %s is not assignable", it), nil)
	}

	c.shared.configMu.Lock()
	defer c.shared.configMu.Unlock()

	if err := c.engine.RegisterInstance(contract, instance); err != nil {
		return err
	}

	c.shared.defaults.Add(contract)

	c.shared.logger.Debug("registered singleton instance",
		log.String("contract", contract.String()),
		log.String("type", reflect.TypeOf(instance).String()),
	)

	return nil
}

// HasComponent checks if component is registered.
func (c *container) HasComponent(component reflect.Type) bool {
	if component == nil {
		return false
	}

	return c.shared.defaults.Contains(component) && c.engine.IsRegistered(component)
}

// Release tears down a single instance.
func (c *container) Release(instance any) error {
	return c.engine.Teardown(instance)
}

// Defaults returns the shared default-instance registry.
func (c *container) Defaults() *DefaultInstances {
	return c.shared.defaults
}

// Use adds middleware to the container tree.
// Middleware is called in the order it is added.
func (c *container) Use(middleware Middleware) {
	c.shared.middleware.add(middleware)
}

// contractsFor returns the declared contracts of component followed by the
// component itself. Reserved platform contracts are dropped.
func contractsFor(component reflect.Type, declared []reflect.Type) ([]reflect.Type, error) {
	if component == nil {
		return nil, ErrInvalidComponent
	}

	seen := make(map[reflect.Type]bool, len(declared)+1)
	contracts := make([]reflect.Type, 0, len(declared)+1)

	for _, t := range declared {
		if t == nil {
			return nil, ErrConfiguration(component.String(), "nil contract", nil)
		}

		if t != component {
			if t.Kind() != reflect.Interface {
				return nil, ErrConfiguration(component.String(), fmt.Sprintf("contract %s is not an interface", t), nil)
			}

			if !component.Implements(t) {
				return nil, ErrConfiguration(component.String(), fmt.Sprintf("does not implement %s", t), nil)
			}
		}

		if seen[t] || t == component || reservedContract(t) {
			continue
		}

		seen[t] = true
		contracts = append(contracts, t)
	}

	return append(contracts, component), nil
}

// reservedContract reports whether t belongs to the platform: predeclared
// and unnamed types, and standard library packages.
func reservedContract(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" {
		return true
	}

	first, _, _ := strings.Cut(pkg, "/")

	return first != "main" && !strings.Contains(first, ".")
}
