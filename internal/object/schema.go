// Package object implements the schema-driven instance/array memory model:
// handle-based references, a fixed-length 8-byte-slot instance payload, and
// typed array payloads.
package object

import (
	"sync"

	"github.com/mabhi256/jvmgo/internal/descriptor"
)

// FieldSlot is one entry of a class's computed instance field table.
type FieldSlot struct {
	Name       string
	Descriptor descriptor.Descriptor
	Offset     int // slot index; byte offset is Offset*8
}

// ClassSchema is the shared, per-class (or per-array-element-type) layout
// description every instance/array handle's record points at.
type ClassSchema struct {
	ClassName string // instance schemas only

	IsArray       bool
	ElemKind      descriptor.Kind // array schemas only
	ElemClassName string          // array schemas only, when ElemKind == KindObject

	Fields     []FieldSlot
	fieldIndex map[string]int
}

// FindField looks up a field by name, returning its slot and whether it
// exists.
func (s *ClassSchema) FindField(name string) (FieldSlot, bool) {
	i, ok := s.fieldIndex[name]
	if !ok {
		return FieldSlot{}, false
	}
	return s.Fields[i], true
}

// SlotCount is the instance payload's fixed length in 8-byte slots.
func (s *ClassSchema) SlotCount() int { return len(s.Fields) }

// FieldDecl is one non-static field a class declares directly (its own
// fields only, not inherited ones), used to build an instance schema.
type FieldDecl struct {
	Name       string
	Descriptor descriptor.Descriptor
}

// NewInstanceSchema builds className's schema as the concatenation of
// super's field table (or none, for java/lang/Object) followed by this
// class's own declared fields in order, inherited fields first.
func NewInstanceSchema(className string, super *ClassSchema, declared []FieldDecl) *ClassSchema {
	var fields []FieldSlot
	if super != nil {
		fields = append(fields, super.Fields...)
	}
	for _, d := range declared {
		fields = append(fields, FieldSlot{Name: d.Name, Descriptor: d.Descriptor, Offset: len(fields)})
	}
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}
	return &ClassSchema{ClassName: className, Fields: fields, fieldIndex: idx}
}

// arrayKey identifies an array schema's singleton slot.
type arrayKey struct {
	elemKind descriptor.Kind
	elemName string
}

// Registry is the process-wide schema table: instance schemas keyed by
// class name, array schemas singletons keyed by element type.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*ClassSchema
	arrays    map[arrayKey]*ClassSchema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{
		instances: make(map[string]*ClassSchema),
		arrays:    make(map[arrayKey]*ClassSchema),
	}
}

// Instance returns className's registered schema, if any.
func (r *Registry) Instance(className string) (*ClassSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.instances[className]
	return s, ok
}

// RegisterInstance installs a freshly built instance schema.
func (r *Registry) RegisterInstance(s *ClassSchema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[s.ClassName] = s
}

// ArraySchema returns the singleton schema for arrays of the given element
// descriptor, constructing it on first use.
func (r *Registry) ArraySchema(elem descriptor.Descriptor) *ClassSchema {
	key := arrayKey{elemKind: elem.Kind, elemName: elem.ClassName}

	r.mu.RLock()
	s, ok := r.arrays[key]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.arrays[key]; ok {
		return s
	}
	s = &ClassSchema{IsArray: true, ElemKind: elem.Kind, ElemClassName: elem.ClassName}
	r.arrays[key] = s
	return s
}
