package objectbuilder

import (
	"reflect"
	"sync"

	"github.com/xraph/go-utils/log"
)

// Middleware provides hooks around default-instance resolution.
// Middleware can be used for logging, metrics, access checks, testing, etc.
//
// Only default resolutions are observed: Build, and the default instance
// yielded first by BuildAll. The additional instances of BuildAll and
// dependencies resolved for factories or inject fields do not pass through
// middleware.
type Middleware interface {
	// BeforeBuild is called before resolving contract.
	// Return error to abort resolution.
	BeforeBuild(contract reflect.Type) error

	// AfterBuild is called after resolving contract.
	// Called even if resolution failed (instance and err may both be set).
	AfterBuild(contract reflect.Type, instance any, err error) error
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
	mu         sync.RWMutex
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain(middleware ...Middleware) *middlewareChain {
	return &middlewareChain{
		middleware: append(make([]Middleware, 0, len(middleware)), middleware...),
	}
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.middleware = append(m.middleware, middleware)
}

func (m *middlewareChain) snapshot() []Middleware {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.middleware
}

// beforeBuild calls BeforeBuild on all middleware.
func (m *middlewareChain) beforeBuild(contract reflect.Type) error {
	for _, mw := range m.snapshot() {
		if err := mw.BeforeBuild(contract); err != nil {
			return err
		}
	}
	return nil
}

// afterBuild calls AfterBuild on all middleware.
func (m *middlewareChain) afterBuild(contract reflect.Type, instance any, err error) error {
	for _, mw := range m.snapshot() {
		if mwErr := mw.AfterBuild(contract, instance, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeBuildFunc func(contract reflect.Type) error
	AfterBuildFunc  func(contract reflect.Type, instance any, err error) error
}

// BeforeBuild implements Middleware.
func (f *FuncMiddleware) BeforeBuild(contract reflect.Type) error {
	if f.BeforeBuildFunc != nil {
		return f.BeforeBuildFunc(contract)
	}
	return nil
}

// AfterBuild implements Middleware.
func (f *FuncMiddleware) AfterBuild(contract reflect.Type, instance any, err error) error {
	if f.AfterBuildFunc != nil {
		return f.AfterBuildFunc(contract, instance, err)
	}
	return nil
}

// NewLoggingMiddleware logs every resolution at debug level and failures at warn.
func NewLoggingMiddleware(logger log.Logger) Middleware {
	return &FuncMiddleware{
		AfterBuildFunc: func(contract reflect.Type, instance any, err error) error {
			if err != nil {
				logger.Warn("build failed",
					log.String("contract", contractName(contract)),
					log.Error(err),
				)
				return nil
			}

			logger.Debug("built instance",
				log.String("contract", contractName(contract)),
				log.String("type", contractName(reflect.TypeOf(instance))),
			)
			return nil
		},
	}
}
