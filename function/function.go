package function

import (
	"reflect"
	"unsafe"

	"github.com/google/uuid"
)

// Callable is any value that can be stored in a Function with signature func(A) R.
type Callable[A, R any] interface {
	Call(A) R
}

// Cloner lets a payload define its own copy. Function.Clone and Function.CopyFrom
// use it instead of a plain Go assignment; a panicking Clone aborts the copy
// and leaves the target unchanged.
type Cloner[T any] interface {
	Clone() T
}

// Releaser is called exactly once when a stored payload is destroyed.
// It is never called on the source of a move.
type Releaser interface {
	Release()
}

// noCopy makes `go vet` flag accidental Go-level copies of a Function,
// which would alias a heap payload.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Function is a type-erased container for a callable with signature func(A) R.
//
// The zero value is an empty Function. A Function must not be copied by Go
// assignment after first use; use Clone, Take, CopyFrom or MoveFrom instead.
// A Function is not safe for concurrent mutation.
type Function[A, R any] struct {
	_    noCopy
	desc *descriptor[A, R]
	s    slot
}

// Empty returns a Function that holds nothing.
func Empty[A, R any]() *Function[A, R] {
	return &Function[A, R]{desc: emptyDescriptor[A, R]()}
}

// New returns a Function holding v.
//
// Usage:
//
//	f := function.New[int, int](adder{n: 5})
//	v, err := f.Call(3) // 8, nil
func New[A, R any, T Callable[A, R]](v T) *Function[A, R] {
	f := &Function[A, R]{}
	d := descriptorOf[A, R, T]()
	place(d, &f.s, v)
	f.desc = d
	return f
}

// Assign replaces the value held by f with v. The new value is placed before
// the old one is destroyed.
func Assign[A, R any, T Callable[A, R]](f *Function[A, R], v T) {
	d := descriptorOf[A, R, T]()
	var staged slot
	place(d, &staged, v)
	f.commit(d, &staged)
}

// Target returns a pointer to the stored value iff f holds exactly a T.
// A plain function stored with Of is found both as Func[A, R] and as func(A) R.
// The pointer stays valid until f is next mutated.
func Target[T, A, R any](f *Function[A, R]) (*T, bool) {
	if reflect.TypeOf((*T)(nil)).Elem() == signatureOf[A, R]() {
		p, ok := target[Func[A, R]](f)
		return (*T)(unsafe.Pointer(p)), ok
	}
	return target[T](f)
}

func target[T, A, R any](f *Function[A, R]) (*T, bool) {
	d, ok := lookupDescriptor[A, R, T]()
	if !ok || f.desc != d {
		return nil, false
	}
	if d.class == classSmall {
		return smallCast[T](&f.s), true
	}
	return &bigCast[T](&f.s).value, true
}

func (f *Function[A, R]) descriptor() *descriptor[A, R] {
	if f.desc == nil {
		return emptyDescriptor[A, R]()
	}
	return f.desc
}

// Valid reports whether f holds a callable.
func (f *Function[A, R]) Valid() bool {
	return f.desc != nil && f.desc.class != classEmpty
}

// Call invokes the stored callable with a. It returns an error wrapping
// ErrEmptyCall when f is empty. Panics raised by the callable propagate.
func (f *Function[A, R]) Call(a A) (R, error) {
	return f.descriptor().invoke(&f.s, a)
}

// MustCall is the panic-on-failure variant of Call.
func (f *Function[A, R]) MustCall(a A) R {
	r, err := f.Call(a)
	if err != nil {
		panic(err)
	}
	return r
}

// Func returns f.Call as a plain Go function value.
func (f *Function[A, R]) Func() func(A) (R, error) {
	return f.Call
}

// Clone returns an independent copy of f.
func (f *Function[A, R]) Clone() *Function[A, R] {
	d := f.descriptor()
	g := &Function[A, R]{}
	d.copy(&f.s, &g.s)
	g.desc = d
	return g
}

// Take moves the value out of f into a new Function. f becomes empty.
func (f *Function[A, R]) Take() *Function[A, R] {
	g := &Function[A, R]{}
	g.adopt(f)
	return g
}

// CopyFrom replaces f's value with a copy of other's.
//
// The copy is staged before f's current value is destroyed, so a panicking
// copy leaves f exactly as it was.
func (f *Function[A, R]) CopyFrom(other *Function[A, R]) {
	if f == other {
		return
	}
	d := other.descriptor()
	var staged slot
	d.copy(&other.s, &staged)
	f.commit(d, &staged)
}

// MoveFrom destroys f's value and takes over other's. other becomes empty.
func (f *Function[A, R]) MoveFrom(other *Function[A, R]) {
	if f == other {
		return
	}
	f.Destroy()
	f.adopt(other)
}

// Swap exchanges the values of f and other.
func (f *Function[A, R]) Swap(other *Function[A, R]) {
	if f == other {
		return
	}
	fd, od := f.descriptor(), other.descriptor()
	var tmp slot
	fd.move(&f.s, &tmp)
	od.move(&other.s, &f.s)
	fd.move(&tmp, &other.s)
	f.desc, other.desc = od, fd
}

// Destroy releases the stored value and leaves f empty.
func (f *Function[A, R]) Destroy() {
	d := f.descriptor()
	f.desc = d.empty
	d.destroy(&f.s)
}

// TargetType returns the dynamic type of the stored value, or nil when f is empty.
func (f *Function[A, R]) TargetType() reflect.Type {
	if f.desc == nil {
		return nil
	}
	return f.desc.payload
}

// Signature returns the call signature, e.g. "func(int) int".
func (f *Function[A, R]) Signature() string {
	return signatureOf[A, R]().String()
}

// DescriptorID identifies the operation table currently bound to f.
func (f *Function[A, R]) DescriptorID() uuid.UUID {
	return f.descriptor().id
}

// adopt moves other's value into f, which must hold nothing. other is
// rebound to empty before the move.
func (f *Function[A, R]) adopt(other *Function[A, R]) {
	d := other.descriptor()
	other.desc = d.empty
	d.move(&other.s, &f.s)
	f.desc = d
}

// commit destroys f's value and moves a staged slot bound to d into f.
func (f *Function[A, R]) commit(d *descriptor[A, R], staged *slot) {
	f.Destroy()
	d.move(staged, &f.s)
	f.desc = d
}

// IsSmall reports whether payloads of type T are stored inline.
func IsSmall[A, R any, T Callable[A, R]]() bool {
	return descriptorOf[A, R, T]().class == classSmall
}

// Stats returns the heap allocation counters of payload type T.
// Small payloads never allocate.
func Stats[A, R any, T Callable[A, R]]() AllocStats {
	return descriptorOf[A, R, T]().allocs.snapshot()
}
