package objectbuilder

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDatabase struct {
	name string
}

type testLogger struct {
	prefix string
}

type testUserService struct {
	db     *testDatabase
	logger *testLogger
}

type resolverFunc func(contract reflect.Type) (any, error)

func (f resolverFunc) Resolve(contract reflect.Type) (any, error) { return f(contract) }

func newTestDatabase() *testDatabase {
	return &testDatabase{name: "primary"}
}

func newTestLogger() *testLogger {
	return &testLogger{prefix: "[test]"}
}

func newTestUserService(db *testDatabase, logger *testLogger) *testUserService {
	return &testUserService{db: db, logger: logger}
}

func newTestUserServiceWithError(db *testDatabase) (*testUserService, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	return &testUserService{db: db}, nil
}

func TestAnalyzeFactory(t *testing.T) {
	info, err := analyzeFactory(newTestUserService)
	require.NoError(t, err)

	assert.Equal(t, typeOf(&testUserService{}), info.result)
	assert.Equal(t, []reflect.Type{typeOf(&testDatabase{}), typeOf(&testLogger{})}, info.params)
	assert.False(t, info.hasError)

	info, err = analyzeFactory(newTestUserServiceWithError)
	require.NoError(t, err)
	assert.True(t, info.hasError)
	assert.Len(t, info.params, 1)
}

func TestAnalyzeFactory_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		factory any
	}{
		{"not a function", 42},
		{"no returns", func() {}},
		{"too many returns", func() (int, int, error) { return 0, 0, nil }},
		{"error not last", func() (error, int) { return nil, 0 }},
		{"only error", func() error { return nil }},
		{"variadic", func(...int) int { return 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analyzeFactory(tt.factory)
			assert.Error(t, err)
		})
	}

	var nilFactory func() *testDatabase
	_, err := analyzeFactory(nilFactory)
	assert.ErrorIs(t, err, ErrInvalidComponent)

	_, err = analyzeFactory(nil)
	assert.ErrorIs(t, err, ErrInvalidComponent)
}

func TestConfigureFunc_WithDependencies(t *testing.T) {
	c := New()

	require.NoError(t, ConfigureComponents(c,
		Factory(newTestDatabase, Singleton),
		Factory(newTestLogger, Singleton),
		Factory(newTestUserService, PerCall),
	))

	svc, err := Build[*testUserService](c)
	require.NoError(t, err)
	assert.Equal(t, "primary", svc.db.name)
	assert.Equal(t, "[test]", svc.logger.prefix)

	db, err := Build[*testDatabase](c)
	require.NoError(t, err)
	assert.Same(t, db, svc.db)
}

func TestConfigureFunc_DependencyScope(t *testing.T) {
	root := New()

	require.NoError(t, root.ConfigureFunc(newTestDatabase, PerUnitOfWork))
	require.NoError(t, root.ConfigureFunc(newTestUserServiceWithError, PerCall))

	scope := root.BuildChildContainer()

	svc, err := Build[*testUserService](scope)
	require.NoError(t, err)
	db, err := Build[*testDatabase](scope)
	require.NoError(t, err)

	// The factory's dependency comes from the resolving scope.
	assert.Same(t, db, svc.db)
}

func TestFactoryComponent_NilDependency(t *testing.T) {
	info, err := analyzeFactory(newTestUserServiceWithError)
	require.NoError(t, err)

	component := info.component()
	_, err = component.Factory(resolverFunc(func(reflect.Type) (any, error) {
		return nil, nil
	}))
	assert.EqualError(t, err, "database is required")
}
