package objectbuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// PropertyInjector assigns configured property values, and dependencies for
// fields tagged `inject`, to freshly constructed instances.
//
// Example:
//
//	type Handler struct {
//	    Retries int
//	    Store   Store `inject:""`
//	    Tracer  Tracer `inject:"optional"`
//	}
type PropertyInjector struct {
	properties map[reflect.Type]map[string]any
	mu         sync.RWMutex
}

// NewPropertyInjector creates an injector with no configured properties.
func NewPropertyInjector() *PropertyInjector {
	return &PropertyInjector{
		properties: make(map[reflect.Type]map[string]any),
	}
}

// SetPropertyValue records value for property on every future instance of component.
func (p *PropertyInjector) SetPropertyValue(component reflect.Type, property string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	props, ok := p.properties[component]
	if !ok {
		props = make(map[string]any)
		p.properties[component] = props
	}

	props[property] = value
}

// propertiesFor returns a copy of the values configured for component
func (p *PropertyInjector) propertiesFor(component reflect.Type) map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	props := p.properties[component]
	if len(props) == 0 {
		return nil
	}

	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}

	return out
}

// Apply injects configured values and tagged dependencies into instance and
// returns it. Non-pointer structs are copied, updated and returned by value.
func (p *PropertyInjector) Apply(component reflect.Type, instance any, r Resolver) (any, error) {
	if instance == nil {
		return nil, nil
	}

	props := p.propertiesFor(component)
	v := reflect.ValueOf(instance)

	target, byValue := addressableStruct(v)
	if !target.IsValid() {
		if len(props) > 0 {
			return nil, ErrConfiguration(contractName(component), fmt.Sprintf("%s has no settable properties", v.Type()), nil)
		}
		return instance, nil
	}

	for name, value := range props {
		if err := setProperty(target, name, value); err != nil {
			return nil, ErrConfiguration(contractName(component), err.Error(), nil)
		}
	}

	if err := injectTagged(target, r); err != nil {
		return nil, err
	}

	if byValue {
		return target.Interface(), nil
	}

	return instance, nil
}

// addressableStruct returns a settable struct value for v. For a struct held
// by value the result is a copy and byValue is true.
func addressableStruct(v reflect.Value) (target reflect.Value, byValue bool) {
	switch {
	case v.Kind() == reflect.Ptr && !v.IsNil() && v.Elem().Kind() == reflect.Struct:
		return v.Elem(), false
	case v.Kind() == reflect.Struct:
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		return cp, true
	default:
		return reflect.Value{}, false
	}
}

// setProperty assigns value to the exported field name, falling back to a
// Set<Name> method on the pointer receiver.
func setProperty(target reflect.Value, name string, value any) error {
	field := target.FieldByName(name)
	if field.IsValid() && field.CanSet() {
		assigned, err := assignable(value, field.Type())
		if err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}
		field.Set(assigned)
		return nil
	}

	if target.CanAddr() {
		method := target.Addr().MethodByName("Set" + name)
		if method.IsValid() && method.Type().NumIn() == 1 {
			arg, err := assignable(value, method.Type().In(0))
			if err != nil {
				return fmt.Errorf("property %s: %w", name, err)
			}
			method.Call([]reflect.Value{arg})
			return nil
		}
	}

	return fmt.Errorf("no settable property %s on %s", name, target.Type())
}

// assignable converts value into a reflect.Value of type t.
func assignable(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot assign nil to %s", t)
		}
	}

	v := reflect.ValueOf(value)

	if v.Type().AssignableTo(t) {
		return v, nil
	}

	if sameKindClass(v.Kind(), t.Kind()) && v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("value of type %s is not assignable to %s", v.Type(), t)
}

// sameKindClass allows numeric to numeric and string to string conversions.
func sameKindClass(a, b reflect.Kind) bool {
	if a == reflect.String || b == reflect.String {
		return a == b
	}

	return numericKind(a) && numericKind(b)
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// injectTagged resolves exported fields tagged `inject` from r.
func injectTagged(target reflect.Value, r Resolver) error {
	t := target.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag, ok := field.Tag.Lookup("inject")
		if !ok || !field.IsExported() {
			continue
		}

		fv := target.Field(i)
		if !fv.IsZero() {
			continue
		}

		optional := strings.EqualFold(strings.TrimSpace(tag), "optional")

		dep, err := r.Resolve(field.Type)
		if err != nil {
			if optional && isNotRegistered(err) {
				continue
			}
			return fmt.Errorf("field %s.%s: %w", t, field.Name, err)
		}

		if dep == nil {
			continue
		}

		dv := reflect.ValueOf(dep)
		if !dv.Type().AssignableTo(field.Type) {
			return ErrConfiguration(t.String(), fmt.Sprintf("field %s cannot hold %s", field.Name, dv.Type()), nil)
		}
		fv.Set(dv)
	}

	return nil
}
