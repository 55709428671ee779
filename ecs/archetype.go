package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
)

// Archetype stores every entity that has exactly one particular set of
// component types, one column per type.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}

	for idx, typ := range types {
		col := registry.newColumn(typ)
		if col == nil {
			panic("ecs: component type " + typ.String() + " not registered")
		}
		a.columns[idx] = col
	}

	return a
}

// spawn appends one entity and returns its slot index.
func (a *Archetype) spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		idx := a.columnOf(componentType(comp))
		if idx < 0 {
			continue
		}
		pos := a.columns[idx].Append(comp)
		if slot >= 0 && pos != slot {
			panic("ecs: archetype columns out of step")
		}
		slot = pos
	}
	return uint32(slot)
}

func (a *Archetype) delete(index uint32) bool {
	deleted := false
	for _, col := range a.columns {
		if col.Delete(int(index)) {
			deleted = true
		}
	}
	return deleted
}

func (a *Archetype) component(index uint32, t reflect.Type) any {
	idx := a.columnOf(t)
	if idx < 0 {
		return nil
	}
	return a.columns[idx].Get(int(index))
}

func (a *Archetype) columnOf(t reflect.Type) int {
	for i, typ := range a.types {
		if typ == t {
			return i
		}
	}
	return -1
}

func (a *Archetype) alive(index uint32) bool {
	return len(a.columns) > 0 && a.columns[0].Has(int(index))
}

// ID returns the archetype's identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the component types of this archetype, sorted by name.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// HasComponent reports whether the archetype carries component type t.
func (a *Archetype) HasComponent(t reflect.Type) bool {
	return slices.Contains(a.types, t)
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Entities yields the ids of every live entity in slot order.
func (a *Archetype) Entities() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}

func (a *Archetype) String() string {
	names := make([]string, len(a.types))
	for i, t := range a.types {
		names[i] = t.String()
	}
	return strings.Join(names, "+")
}
