package objectbuilder

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// factoryInfo holds analyzed factory metadata
type factoryInfo struct {
	fn       reflect.Value
	fnType   reflect.Type
	params   []reflect.Type
	result   reflect.Type
	hasError bool
}

// analyzeFactory inspects a factory function of the form func(deps...) T or
// func(deps...) (T, error). Parameters are resolved by contract at build time.
func analyzeFactory(factory any) (*factoryInfo, error) {
	if factory == nil {
		return nil, ErrInvalidComponent
	}

	fnValue := reflect.ValueOf(factory)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, errors.New("factory must be a function")
	}

	if fnValue.IsNil() {
		return nil, ErrInvalidComponent
	}

	if fnType.IsVariadic() {
		return nil, errors.New("factory cannot be variadic")
	}

	info := &factoryInfo{
		fn:     fnValue,
		fnType: fnType,
	}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return nil, errors.New("second return value must be error")
		}
		info.hasError = true
	default:
		return nil, errors.New("factory must return (T) or (T, error)")
	}

	info.result = fnType.Out(0)
	if info.result == errorType {
		return nil, errors.New("factory must return a component, not an error")
	}

	for i := 0; i < fnType.NumIn(); i++ {
		info.params = append(info.params, fnType.In(i))
	}

	return info, nil
}

// component wraps the factory as a Component whose parameters are resolved
// from the constructing scope.
func (f *factoryInfo) component() *Component {
	return &Component{
		Type: f.result,
		Factory: func(r Resolver) (any, error) {
			args := make([]reflect.Value, len(f.params))

			for i, param := range f.params {
				dep, err := r.Resolve(param)
				if err != nil {
					return nil, fmt.Errorf("parameter %d (%s): %w", i, param, err)
				}

				if dep == nil {
					args[i] = reflect.Zero(param)
				} else {
					args[i] = reflect.ValueOf(dep)
				}
			}

			out := f.fn.Call(args)

			if f.hasError && !out[1].IsNil() {
				return nil, out[1].Interface().(error)
			}

			return out[0].Interface(), nil
		},
	}
}
