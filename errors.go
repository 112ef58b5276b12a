package objectbuilder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeNotRegistered indicates a contract has no default registration
	CodeNotRegistered = "NOT_REGISTERED"

	// CodeConfiguration indicates a programming error in container configuration
	CodeConfiguration = "CONFIGURATION_ERROR"

	// CodeBuildFailed indicates a component could not be constructed
	CodeBuildFailed = "BUILD_FAILED"

	// CodeCircularDependency indicates a component depends on itself
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeInvalidComponent indicates a nil component, factory or instance
	CodeInvalidComponent = "INVALID_COMPONENT"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrInvalidComponent is returned when a nil component, factory or instance is supplied.
var ErrInvalidComponent = errs.NewError(CodeInvalidComponent, "component cannot be nil", nil)

// ErrNotRegisteredSentinel is a sentinel error for missing default registrations (for error checking).
var ErrNotRegisteredSentinel = errs.NewError(CodeNotRegistered, "contract not registered", nil)

// ErrConfigurationSentinel is a sentinel error for configuration errors (for error checking).
var ErrConfigurationSentinel = errs.NewError(CodeConfiguration, "configuration error", nil)

// ErrBuildFailedSentinel is a sentinel error for construction failures (for error checking).
var ErrBuildFailedSentinel = errs.NewError(CodeBuildFailed, "build failed", nil)

// ErrCircularDependencySentinel is a sentinel error for circular dependency (for error checking).
var ErrCircularDependencySentinel = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrNotRegistered creates an error for a contract without a default registration
func ErrNotRegistered(contract reflect.Type) *errs.Error {
	name := contractName(contract)

	return errs.NewError(
		CodeNotRegistered,
		fmt.Sprintf("%s is not registered in the container", name),
		nil,
	).WithContext("contract", name).(*errs.Error)
}

// ErrConfiguration creates an error for invalid configuration of subject
func ErrConfiguration(subject, reason string, cause error) *errs.Error {
	return errs.NewError(
		CodeConfiguration,
		fmt.Sprintf("invalid configuration for '%s': %s", subject, reason),
		cause,
	).WithContext("subject", subject).(*errs.Error)
}

// NewBuildError creates an error for a failed construction of contract
func NewBuildError(contract reflect.Type, cause error) *errs.Error {
	name := contractName(contract)

	return errs.NewError(
		CodeBuildFailed,
		fmt.Sprintf("failed to build %s", name),
		cause,
	).WithContext("contract", name).(*errs.Error)
}

// ErrCircularDependency creates an error for a resolution chain that loops
func ErrCircularDependency(chain []reflect.Type) *errs.Error {
	names := make([]string, len(chain))
	for i, t := range chain {
		names[i] = contractName(t)
	}

	return errs.NewError(
		CodeCircularDependency,
		"circular dependency detected: "+strings.Join(names, " -> "),
		nil,
	).WithContext("cycle", names).(*errs.Error)
}

func contractName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

func isNotRegistered(err error) bool {
	return errors.Is(err, ErrNotRegisteredSentinel)
}
