package objectbuilder

import (
	"fmt"
	"reflect"
)

// Contract returns the contract identifying T. For interface types this is
// the interface itself.
//
// Example:
//
//	c.Build(objectbuilder.Contract[Sender]())
func Contract[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Build resolves the default instance of T with type safety.
func Build[T any](c Container) (T, error) {
	var zero T

	instance, err := c.Build(Contract[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s built as %T", ErrConfigurationSentinel, Contract[T](), instance)
	}

	return typed, nil
}

// MustBuild resolves or panics - use only during startup.
func MustBuild[T any](c Container) T {
	instance, err := Build[T](c)
	if err != nil {
		panic(fmt.Sprintf("failed to build %s: %v", Contract[T](), err))
	}

	return instance
}

// BuildAll collects the default and additional instances of T.
func BuildAll[T any](c Container) ([]T, error) {
	var out []T

	for instance, err := range c.BuildAll(Contract[T]()) {
		if err != nil {
			return out, err
		}

		typed, ok := instance.(T)
		if !ok {
			return out, fmt.Errorf("%w: %s built as %T", ErrConfigurationSentinel, Contract[T](), instance)
		}

		out = append(out, typed)
	}

	return out, nil
}

// ConfigureType registers the concrete type T.
//
// Example:
//
//	objectbuilder.ConfigureType[*SmtpSender](c, objectbuilder.PerCall, objectbuilder.As(new(Sender)))
func ConfigureType[T any](c Container, lifecycle Lifecycle, opts ...ConfigureOption) error {
	return c.Configure(Contract[T](), lifecycle, opts...)
}

// ConfigureFactory registers a typed factory for T.
func ConfigureFactory[T any](c Container, factory func() (T, error), lifecycle Lifecycle, opts ...ConfigureOption) error {
	if factory == nil {
		return ErrInvalidComponent
	}
	return c.ConfigureFunc(factory, lifecycle, opts...)
}

// RegisterSingletonOf binds instance as the default for T.
func RegisterSingletonOf[T any](c Container, instance T) error {
	return c.RegisterSingleton(Contract[T](), instance)
}

// HasComponentOf checks if T is registered.
func HasComponentOf[T any](c Container) bool {
	return c.HasComponent(Contract[T]())
}

// ConfigurePropertyOf records a property value for component T.
func ConfigurePropertyOf[T any](c Container, property string, value any) error {
	return c.ConfigureProperty(Contract[T](), property, value)
}
