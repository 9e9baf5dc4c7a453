package object

import (
	"fmt"

	"github.com/mabhi256/jvmgo/internal/descriptor"
)

// ArrayStoreException is raised storing a mismatched-type handle into an
// object array.
type ArrayStoreException struct{ Want, Got string }

func (e *ArrayStoreException) Error() string {
	return fmt.Sprintf("object: array store: expected %s, got %s", e.Want, e.Got)
}

// TypeMismatch is raised copying between primitive arrays of different
// element types.
type TypeMismatch struct{ Want, Got string }

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("object: array copy: element type mismatch, %s vs %s", e.Want, e.Got)
}

// Len returns an array handle's fixed length.
func (h *Handle) Len() int { return h.rec.arrLen }

// IsObjectArray reports whether this array stores handles rather than
// primitives.
func (h *Handle) IsObjectArray() bool { return h.rec.arrRef != nil }

// GetElement reads array index i.
func (h *Handle) GetElement(i int) Value {
	if h.rec.arrRef != nil {
		return RefValue(h.rec.arrRef[i])
	}
	return h.rec.arrPrim[i]
}

// SetElement writes v to array index i, failing with ArrayStoreException if
// this is an object array and v's referent's class isn't assignable to the
// array's declared element class, or TypeMismatch if this is a primitive
// array and v's kind disagrees.
//
// isAssignable decides whether a stored handle's actual class is compatible
// with the array's declared element class (its ancestor superclass/interface
// walk lives in interp, which already has the class table this needs); it
// may be nil, in which case only the Kind check below applies. It is
// consulted only when the array's element class is a plain (non-array)
// reference type, since array-to-array covariance isn't checked here.
func (h *Handle) SetElement(i int, v Value, isAssignable func(className, target string) bool) error {
	if h.rec.arrRef != nil {
		if v.Kind != descriptor.KindObject {
			return &ArrayStoreException{Want: "object", Got: v.Kind.String()}
		}
		if v.Ref != nil && isAssignable != nil && h.rec.schema.ElemClassName != "" {
			if actual := v.Ref.Schema().ClassName; actual != "" && !isAssignable(actual, h.rec.schema.ElemClassName) {
				return &ArrayStoreException{Want: h.rec.schema.ElemClassName, Got: actual}
			}
		}
		h.rec.arrRef[i] = v.Ref
		return nil
	}
	if v.Kind != h.rec.schema.ElemKind {
		return &TypeMismatch{Want: h.rec.schema.ElemKind.String(), Got: v.Kind.String()}
	}
	h.rec.arrPrim[i] = v
	return nil
}

// CopyArray copies length elements from src[srcOff:srcOff+length] to
// dst[dstOff:dstOff+length]. Both arrays must share the same element type
// (schema form). The source range is conceptually materialized before the
// store so overlapping copies within the same array behave like
// System.arraycopy.
func CopyArray(src *Handle, srcOff int, dst *Handle, dstOff int, length int) error {
	if src.rec.arrRef != nil || dst.rec.arrRef != nil {
		if src.rec.arrRef == nil || dst.rec.arrRef == nil {
			return &ArrayStoreException{Want: "matching array kind", Got: "mixed object/primitive array"}
		}
		tmp := make([]*Handle, length)
		copy(tmp, src.rec.arrRef[srcOff:srcOff+length])
		copy(dst.rec.arrRef[dstOff:dstOff+length], tmp)
		return nil
	}
	if src.rec.schema.ElemKind != dst.rec.schema.ElemKind {
		return &TypeMismatch{Want: dst.rec.schema.ElemKind.String(), Got: src.rec.schema.ElemKind.String()}
	}
	tmp := make([]Value, length)
	copy(tmp, src.rec.arrPrim[srcOff:srcOff+length])
	copy(dst.rec.arrPrim[dstOff:dstOff+length], tmp)
	return nil
}
