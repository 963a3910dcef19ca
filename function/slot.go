package function

import (
	"reflect"
	"unsafe"
)

const (
	slotCapacity = unsafe.Sizeof(uintptr(0))
	slotAlign    = unsafe.Alignof(uintptr(0))
)

// slot holds either the inline bytes of a small payload or the owning pointer
// to the heap box of a large one. Only the bound descriptor knows which.
type slot struct {
	_      [0]unsafe.Pointer
	inline [slotCapacity]byte
	heap   unsafe.Pointer
}

// box is the single heap allocation backing a large payload.
type box[T any] struct {
	value T
	freed bool
}

func smallCast[T any](s *slot) *T {
	return (*T)(unsafe.Pointer(&s.inline))
}

func bigCast[T any](s *slot) *box[T] {
	return (*box[T])(s.heap)
}

type class uint8

const (
	classEmpty class = iota
	classSmall
	classLarge
)

func (c class) String() string {
	switch c {
	case classSmall:
		return "small"
	case classLarge:
		return "large"
	default:
		return "empty"
	}
}

// classify decides once per payload type whether it lives inline.
//
// The inline bytes are not scanned by the garbage collector, so only
// pointer-free payloads qualify. Payloads with custom copy or release
// behavior always go to the heap, which keeps the inline move a plain value
// transfer that cannot fail.
func classify[T any]() class {
	var zero T
	if unsafe.Sizeof(zero) >= slotCapacity {
		return classLarge
	}
	if slotAlign%unsafe.Alignof(zero) != 0 {
		return classLarge
	}
	if hasPointers(reflect.TypeOf((*T)(nil)).Elem()) {
		return classLarge
	}
	if _, ok := any((*T)(nil)).(Cloner[T]); ok {
		return classLarge
	}
	if _, ok := any((*T)(nil)).(Releaser); ok {
		return classLarge
	}
	return classSmall
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
