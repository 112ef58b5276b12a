package objectbuilder

import (
	"reflect"
	"sort"
	"sync"
)

// DefaultInstances records which contracts already have a default
// registration. A root container owns one and shares it with every child;
// several roots may share one through WithDefaults.
type DefaultInstances struct {
	contracts map[reflect.Type]struct{}
	mu        sync.RWMutex
}

// NewDefaultInstances creates an empty registry.
func NewDefaultInstances() *DefaultInstances {
	return &DefaultInstances{
		contracts: make(map[reflect.Type]struct{}),
	}
}

// Contains reports whether contract has a default registration.
func (d *DefaultInstances) Contains(contract reflect.Type) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.contracts[contract]

	return ok
}

// Add marks contract as having a default registration.
func (d *DefaultInstances) Add(contract reflect.Type) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.contracts[contract] = struct{}{}
}

// claim marks contract and reports whether this call was the one that did.
func (d *DefaultInstances) claim(contract reflect.Type) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.contracts[contract]; ok {
		return false
	}

	d.contracts[contract] = struct{}{}

	return true
}

// Clear drops every default marking. Instances are not released; dispose
// containers separately.
func (d *DefaultInstances) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.contracts = make(map[reflect.Type]struct{})
}

// Len returns the number of marked contracts.
func (d *DefaultInstances) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.contracts)
}

// Contracts returns the marked contracts sorted by name.
func (d *DefaultInstances) Contracts() []reflect.Type {
	d.mu.RLock()
	out := make([]reflect.Type, 0, len(d.contracts))
	for t := range d.contracts {
		out = append(out, t)
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})

	return out
}
