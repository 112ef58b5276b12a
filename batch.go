package objectbuilder

import (
	"fmt"
	"reflect"
)

// Registration holds configuration for a component to be configured in a batch.
type Registration struct {
	Component reflect.Type
	Factory   any
	Lifecycle Lifecycle
	Options   []ConfigureOption
}

// ComponentOf creates a Registration for a concrete type.
//
// Example:
//
//	objectbuilder.ConfigureComponents(c,
//	    objectbuilder.ComponentOf(reflect.TypeOf(&Store{}), objectbuilder.Singleton),
//	    objectbuilder.Factory(NewHandler, objectbuilder.PerUnitOfWork, objectbuilder.As(new(Handler))),
//	)
func ComponentOf(component reflect.Type, lifecycle Lifecycle, opts ...ConfigureOption) Registration {
	return Registration{
		Component: component,
		Lifecycle: lifecycle,
		Options:   opts,
	}
}

// Factory creates a Registration for a factory function.
func Factory(factory any, lifecycle Lifecycle, opts ...ConfigureOption) Registration {
	return Registration{
		Factory:   factory,
		Lifecycle: lifecycle,
		Options:   opts,
	}
}

// ConfigureComponents configures several components in order.
// It stops at the first error.
func ConfigureComponents(c Container, registrations ...Registration) error {
	for i, reg := range registrations {
		var err error

		switch {
		case reg.Factory != nil:
			err = c.ConfigureFunc(reg.Factory, reg.Lifecycle, reg.Options...)
		case reg.Component != nil:
			err = c.Configure(reg.Component, reg.Lifecycle, reg.Options...)
		default:
			err = ErrInvalidComponent
		}

		if err != nil {
			return fmt.Errorf("registration %d: %w", i, err)
		}
	}

	return nil
}
