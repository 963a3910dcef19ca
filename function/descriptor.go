package function

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/on-the-ground/polyfunc/internal/registry"

	"github.com/google/uuid"
)

// descriptor is the immutable operation table bound to one payload type
// under one call signature. Descriptor pointers are compared to answer
// "does this Function hold T".
type descriptor[A, R any] struct {
	id      uuid.UUID
	payload reflect.Type
	class   class
	allocs  *allocCounters
	empty   *descriptor[A, R] // empty descriptor of the same signature

	copy    func(src, dst *slot)
	move    func(src, dst *slot)
	destroy func(s *slot)
	invoke  func(s *slot, a A) (R, error)
}

func (d *descriptor[A, R]) ID() uuid.UUID { return d.id }
func (d *descriptor[A, R]) Class() string { return d.class.String() }

type allocCounters struct {
	allocs atomic.Uint64
	frees  atomic.Uint64
}

// AllocStats counts the heap boxes created and released for one payload type.
type AllocStats struct {
	Allocs uint64
	Frees  uint64
}

// Live returns the number of heap boxes not yet released.
func (s AllocStats) Live() int64 {
	return int64(s.Allocs) - int64(s.Frees)
}

func (c *allocCounters) snapshot() AllocStats {
	return AllocStats{
		Allocs: c.allocs.Load(),
		Frees:  c.frees.Load(),
	}
}

func signatureOf[A, R any]() reflect.Type {
	return reflect.TypeOf((*func(A) R)(nil)).Elem()
}

func keyOf[A, R, T any]() registry.Key {
	return registry.Key{
		Signature: signatureOf[A, R](),
		Payload:   reflect.TypeOf((*T)(nil)).Elem(),
	}
}

// emptyDescriptor returns the shared descriptor of every empty Function with
// signature func(A) R.
func emptyDescriptor[A, R any]() *descriptor[A, R] {
	sig := signatureOf[A, R]()
	e := registered(registry.Key{Signature: sig}, func() registry.Entry {
		return newEmptyDescriptor[A, R](sig)
	})
	return e.(*descriptor[A, R])
}

func newEmptyDescriptor[A, R any](sig reflect.Type) *descriptor[A, R] {
	errEmpty := fmt.Errorf("%w: %v", ErrEmptyCall, sig)
	d := &descriptor[A, R]{
		id:      uuid.New(),
		class:   classEmpty,
		allocs:  &allocCounters{},
		copy:    func(_, _ *slot) {},
		move:    func(_, _ *slot) {},
		destroy: func(_ *slot) {},
		invoke: func(_ *slot, _ A) (R, error) {
			var zero R
			return zero, errEmpty
		},
	}
	d.empty = d
	return d
}

// descriptorOf returns the descriptor for payload type T, creating it on first use.
func descriptorOf[A, R any, T Callable[A, R]]() *descriptor[A, R] {
	empty := emptyDescriptor[A, R]()
	e := registered(keyOf[A, R, T](), func() registry.Entry {
		return newDescriptor[A, R, T](empty)
	})
	return e.(*descriptor[A, R])
}

// lookupDescriptor returns T's descriptor only if one was already created.
// A Function can only hold T after T's descriptor exists.
func lookupDescriptor[A, R, T any]() (*descriptor[A, R], bool) {
	e, ok := currentRegistry().Lookup(keyOf[A, R, T]())
	if !ok {
		return nil, false
	}
	d, ok := e.(*descriptor[A, R])
	return d, ok
}

func newDescriptor[A, R any, T Callable[A, R]](empty *descriptor[A, R]) *descriptor[A, R] {
	d := &descriptor[A, R]{
		id:      uuid.New(),
		payload: reflect.TypeOf((*T)(nil)).Elem(),
		class:   classify[T](),
		allocs:  &allocCounters{},
		empty:   empty,
	}
	if d.class == classSmall {
		d.copy = func(src, dst *slot) {
			*smallCast[T](dst) = *smallCast[T](src)
		}
		d.move = func(src, dst *slot) {
			*smallCast[T](dst) = *smallCast[T](src)
			src.inline = [slotCapacity]byte{}
		}
		d.destroy = func(s *slot) {
			s.inline = [slotCapacity]byte{}
		}
		d.invoke = func(s *slot, a A) (R, error) {
			return (*smallCast[T](s)).Call(a), nil
		}
		return d
	}

	d.copy = func(src, dst *slot) {
		allocate(d, dst, copyValue(&bigCast[T](src).value))
	}
	d.move = func(src, dst *slot) {
		dst.heap = src.heap
		src.heap = nil
	}
	d.destroy = func(s *slot) {
		b := bigCast[T](s)
		if b.freed {
			panic(fmt.Errorf("%w: %v", ErrDoubleRelease, d.payload))
		}
		releaseValue(&b.value)
		var zero T
		b.value = zero
		b.freed = true
		s.heap = nil
		d.allocs.frees.Add(1)
	}
	d.invoke = func(s *slot, a A) (R, error) {
		return bigCast[T](s).value.Call(a), nil
	}
	return d
}

// place stores v into an unbound slot according to d's class.
func place[A, R any, T Callable[A, R]](d *descriptor[A, R], s *slot, v T) {
	if d.class == classSmall {
		*smallCast[T](s) = v
		return
	}
	allocate(d, s, v)
}

func allocate[A, R, T any](d *descriptor[A, R], s *slot, v T) {
	s.heap = unsafe.Pointer(&box[T]{value: v})
	d.allocs.allocs.Add(1)
}

func copyValue[T any](p *T) T {
	if c, ok := any(p).(Cloner[T]); ok {
		return c.Clone()
	}
	return *p
}

func releaseValue[T any](p *T) {
	if r, ok := any(p).(Releaser); ok {
		r.Release()
	}
}
