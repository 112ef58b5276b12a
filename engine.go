package objectbuilder

import "reflect"

// Resolver resolves default instances by contract. Factories receive one
// bound to the scope that is constructing them.
type Resolver interface {
	Resolve(contract reflect.Type) (any, error)
}

// Component describes a concrete implementation. When Factory is nil the
// engine constructs Type directly; otherwise it calls Factory.
type Component struct {
	Type    reflect.Type
	Factory func(r Resolver) (any, error)
}

// Engine is the capability set a resolution backend must provide. The
// container decides default versus additional registrations and owns the
// scope tree; the engine only stores, constructs and releases.
type Engine interface {
	// Register binds component to contract. An empty key replaces the
	// default entry; a non-empty key adds an additional entry.
	Register(contract reflect.Type, component *Component, lifecycle Lifecycle, key string) error

	// RegisterInstance binds instance as the Singleton default for contract.
	RegisterInstance(contract reflect.Type, instance any) error

	// Resolve returns the entry for contract and key. It fails with
	// ErrNotRegistered when no table in the scope chain holds one.
	Resolve(contract reflect.Type, key string) (any, error)

	// ResolveAll returns every additional entry for contract in
	// registration order. The default entry is not included.
	ResolveAll(contract reflect.Type) ([]any, error)

	// CreateChildScope returns an engine that reads through to this one.
	CreateChildScope() Engine

	// Teardown releases a single instance. Unknown instances are allowed.
	Teardown(instance any) error

	// IsRegistered reports whether any entry exists for contract.
	IsRegistered(contract reflect.Type) bool

	// Dispose releases the instances this scope owns. It is idempotent.
	Dispose() error
}
