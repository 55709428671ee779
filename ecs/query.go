package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// iface mirrors the runtime layout of an interface value.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// layout describes a query struct: one pointer field per required component
// and an optional EntityId field that receives the entity's id.
type layout struct {
	types    []reflect.Type
	offsets  []uintptr
	hasId    bool
	idOffset uintptr
}

var entityIdType = reflect.TypeFor[EntityId]()

func layoutOf[T any]() *layout {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("ecs: query type parameter must be a struct")
	}

	l := &layout{}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type == entityIdType {
			l.hasId = true
			l.idOffset = field.Offset
			continue
		}
		if field.Type.Kind() != reflect.Pointer {
			panic("ecs: query field " + field.Name + " must be a component pointer or EntityId")
		}
		l.types = append(l.types, field.Type.Elem())
		l.offsets = append(l.offsets, field.Offset)
	}
	return l
}

func (l *layout) matches(a *Archetype) bool {
	for _, t := range l.types {
		if !a.HasComponent(t) {
			return false
		}
	}
	return true
}

func (l *layout) columnsIn(a *Archetype) []int {
	cols := make([]int, len(l.types))
	for i, t := range l.types {
		cols[i] = a.columnOf(t)
	}
	return cols
}

// fill points every component field of the struct at ptr at the slot's
// components. It reports false if the slot is empty.
func (l *layout) fill(ptr unsafe.Pointer, a *Archetype, cols []int, index int) bool {
	for i, col := range cols {
		component := a.columns[col].Get(index)
		if component == nil {
			return false
		}
		data := (*iface)(unsafe.Pointer(&component)).data
		*(*unsafe.Pointer)(unsafe.Add(ptr, l.offsets[i])) = data
	}
	if l.hasId {
		*(*EntityId)(unsafe.Add(ptr, l.idOffset)) = NewEntityId(a.id, uint32(index))
	}
	return true
}

// Query iterates every entity whose archetype carries all the components
// named by T. T is a struct of component pointers, optionally with an
// EntityId field:
//
//	ecs.Query[struct {
//		ecs.EntityId
//		*Position
//		*Velocity
//	}]
//
// The pointers alias live storage, so writes through them mutate the
// entity. Matching archetypes are cached and refreshed when new archetypes
// appear.
type Query[T any] struct {
	storage *Storage
	layout  *layout

	matched []*Archetype
	columns [][]int
	seen    int
}

// NewQuery creates a query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to a storage. The Scheduler calls it for every Query
// field of a registered system.
func (q *Query[T]) Init(storage *Storage) {
	q.storage = storage
	q.layout = layoutOf[T]()
	q.matched = nil
	q.columns = nil
	q.seen = 0
}

func (q *Query[T]) refresh() {
	archetypes := q.storage.order
	for ; q.seen < len(archetypes); q.seen++ {
		archetype := archetypes[q.seen]
		if !q.layout.matches(archetype) {
			continue
		}
		q.matched = append(q.matched, archetype)
		q.columns = append(q.columns, q.layout.columnsIn(archetype))
	}
}

// Iter yields one populated T per matching entity.
func (q *Query[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range q.Entries() {
			if !yield(item) {
				return
			}
		}
	}
}

// Entries yields (EntityId, T) pairs for every matching entity.
func (q *Query[T]) Entries() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if q.storage == nil {
			panic("ecs: Query used before Init")
		}
		q.refresh()

		var result T
		resultPtr := unsafe.Pointer(&result)

		for i, archetype := range q.matched {
			if len(archetype.columns) == 0 {
				continue
			}
			cols := q.columns[i]
			for index := range archetype.columns[0].Iter() {
				if !q.layout.fill(resultPtr, archetype, cols, index) {
					continue
				}
				if !yield(NewEntityId(archetype.id, uint32(index)), result) {
					return
				}
			}
		}
	}
}

// Get returns the populated T for one entity, or false if the entity is dead
// or lacks a required component.
func (q *Query[T]) Get(id EntityId) (T, bool) {
	var result T
	archetype, ok := q.storage.archetypes.Get(id.ArchetypeId())
	if !ok || !q.layout.matches(archetype) {
		return result, false
	}
	cols := q.layout.columnsIn(archetype)
	if !q.layout.fill(unsafe.Pointer(&result), archetype, cols, int(id.Index())) {
		return result, false
	}
	return result, true
}

// Count returns the number of matching entities.
func (q *Query[T]) Count() int {
	q.refresh()
	n := 0
	for _, archetype := range q.matched {
		n += archetype.Len()
	}
	return n
}
