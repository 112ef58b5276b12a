package objectbuilder

import (
	"fmt"
	"reflect"
	"sync"
)

// typeKey uniquely identifies a registration by its contract and key.
// The empty key is the default entry.
type typeKey struct {
	typ reflect.Type
	key string
}

// String returns a human-readable representation of the type key
func (k typeKey) String() string {
	typeName := contractName(k.typ)
	if k.key == "" {
		return typeName
	}
	return fmt.Sprintf("%s[key=%s]", typeName, k.key)
}

// activation holds the instance cache shared by every contract a component
// was registered under.
type activation struct {
	component *Component
	lifecycle Lifecycle
	owner     *memoryEngine // scope whose table holds the component
	instance  any
	built     bool
	prebuilt  bool // bound by RegisterInstance, never constructed
	mu        sync.Mutex
}

// registration is one (contract, component, lifecycle, key) entry.
type registration struct {
	key        typeKey
	activation *activation
	seq        uint64
}

// registrationTable holds one scope's registrations. Parent tables are
// consulted by the engine, never written through.
type registrationTable struct {
	entries     map[typeKey]*registration
	keyed       map[reflect.Type][]*registration // additional entries in registration order
	activations map[*Component]*activation
	mu          sync.RWMutex
}

// newRegistrationTable creates an empty table
func newRegistrationTable() *registrationTable {
	return &registrationTable{
		entries:     make(map[typeKey]*registration),
		keyed:       make(map[reflect.Type][]*registration),
		activations: make(map[*Component]*activation),
	}
}

// activationFor returns the activation for component, creating it on first use
func (t *registrationTable) activationFor(component *Component, lifecycle Lifecycle, owner *memoryEngine) *activation {
	t.mu.Lock()
	defer t.mu.Unlock()

	if act, ok := t.activations[component]; ok {
		return act
	}

	act := &activation{
		component: component,
		lifecycle: lifecycle,
		owner:     owner,
	}
	t.activations[component] = act

	return act
}

// put stores reg, replacing an existing default for the same contract
func (t *registrationTable) put(reg *registration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[reg.key] = reg

	if reg.key.key != "" {
		t.keyed[reg.key.typ] = append(t.keyed[reg.key.typ], reg)
	}
}

// get retrieves a registration by key
func (t *registrationTable) get(key typeKey) (*registration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	reg, ok := t.entries[key]
	return reg, ok
}

// additional returns the keyed registrations for contract
func (t *registrationTable) additional(contract reflect.Type) []*registration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	regs := t.keyed[contract]
	out := make([]*registration, len(regs))
	copy(out, regs)

	return out
}

// has checks if any entry exists for contract
func (t *registrationTable) has(contract reflect.Type) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.entries[typeKey{typ: contract}]; ok {
		return true
	}

	return len(t.keyed[contract]) > 0
}

// evictSingleton resets the constructed Singleton holding instance so the
// next resolution builds a new one.
func (t *registrationTable) evictSingleton(instance any) bool {
	t.mu.RLock()
	acts := make([]*activation, 0, len(t.activations))
	for _, act := range t.activations {
		if act.lifecycle == Singleton && !act.prebuilt {
			acts = append(acts, act)
		}
	}
	t.mu.RUnlock()

	for _, act := range acts {
		act.mu.Lock()
		held := act.built && sameInstance(act.instance, instance)
		if held {
			act.instance = nil
			act.built = false
		}
		act.mu.Unlock()

		if held {
			return true
		}
	}

	return false
}
