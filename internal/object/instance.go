package object

import "fmt"

// FieldTypeMismatch is returned when a typed field write's Value.Kind
// disagrees with the field's descriptor.
type FieldTypeMismatch struct {
	Field string
	Want  string
	Got   string
}

func (e *FieldTypeMismatch) Error() string {
	return fmt.Sprintf("object: field %s: descriptor wants %s, value is %s", e.Field, e.Want, e.Got)
}

// GetFieldByOffset reads the slot at the given field-table offset (an
// index, not a byte count; Offset*8 is the conceptual byte offset).
func (h *Handle) GetFieldByOffset(offset int) Value {
	return h.rec.instance[offset]
}

// SetFieldByOffset writes v into the slot at offset, failing with
// FieldTypeMismatch if v's kind disagrees with the field's descriptor.
func (h *Handle) SetFieldByOffset(offset int, v Value) error {
	f := h.rec.schema.Fields[offset]
	if !sameKind(f.Descriptor, v) {
		return &FieldTypeMismatch{Field: f.Name, Want: f.Descriptor.String(), Got: v.Kind.String()}
	}
	h.rec.instance[offset] = v
	return nil
}

// GetField reads a field by name.
func (h *Handle) GetField(name string) (Value, bool) {
	slot, ok := h.rec.schema.FindField(name)
	if !ok {
		return Value{}, false
	}
	return h.rec.instance[slot.Offset], true
}

// SetField writes a field by name.
func (h *Handle) SetField(name string, v Value) error {
	slot, ok := h.rec.schema.FindField(name)
	if !ok {
		return fmt.Errorf("object: no such field %q on %s", name, h.rec.schema.ClassName)
	}
	return h.SetFieldByOffset(slot.Offset, v)
}
