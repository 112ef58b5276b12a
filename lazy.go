package objectbuilder

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy defers Build of T until first access. Resolution happens once;
// later calls return the cached value or error.
type Lazy[T any] struct {
	container Container
	once      sync.Once
	value     T
	err       error
	resolved  atomic.Bool
}

// NewLazy creates a lazy wrapper resolving T from c.
func NewLazy[T any](c Container) *Lazy[T] {
	return &Lazy[T]{container: c}
}

// Get builds T on first call and returns it.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = Build[T](l.container)
		if l.err == nil {
			l.resolved.Store(true)
		}
	})

	return l.value, l.err
}

// MustGet builds T, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", Contract[T](), err))
	}

	return value
}

// IsResolved returns true once T has been built successfully.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Provider builds T on every call. With a PerCall registration each call
// yields a fresh instance.
type Provider[T any] struct {
	container Container
}

// NewProvider creates a provider resolving T from c.
func NewProvider[T any](c Container) *Provider[T] {
	return &Provider[T]{container: c}
}

// Provide builds and returns T.
func (p *Provider[T]) Provide() (T, error) {
	return Build[T](p.container)
}

// MustProvide builds T, panicking on error.
func (p *Provider[T]) MustProvide() T {
	return MustBuild[T](p.container)
}
