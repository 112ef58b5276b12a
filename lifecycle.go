package objectbuilder

import "fmt"

// Lifecycle controls how many instances of a component a container hands out
// and which scope owns them.
type Lifecycle int

const (
	// PerCall builds a new instance on every resolution. Instances are not
	// retained by any container.
	PerCall Lifecycle = iota

	// Singleton builds one instance per component for the whole container
	// tree. The scope that registered the component owns it.
	Singleton

	// PerUnitOfWork builds one instance per component per scope. The scope
	// that resolved it owns it and releases it on Dispose.
	PerUnitOfWork
)

// String returns the human-readable name of the lifecycle.
func (l Lifecycle) String() string {
	switch l {
	case PerCall:
		return "per-call"
	case Singleton:
		return "singleton"
	case PerUnitOfWork:
		return "per-unit-of-work"
	default:
		return fmt.Sprintf("lifecycle(%d)", int(l))
	}
}

// Validate reports a configuration error for values outside the closed set.
func (l Lifecycle) Validate() error {
	switch l {
	case PerCall, Singleton, PerUnitOfWork:
		return nil
	default:
		return ErrConfiguration(l.String(), "unhandled lifecycle", nil)
	}
}
