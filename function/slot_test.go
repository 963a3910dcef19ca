package function

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tiny struct{ a, b uint8 }

func (tiny) Call(int) int { return 0 }

type word struct{ v uintptr }

func (word) Call(int) int { return 0 }

type pointerish struct{ p *int8 }

func (pointerish) Call(int) int { return 0 }

type cloned struct{ v uint8 }

func (cloned) Call(int) int    { return 0 }
func (c cloned) Clone() cloned { return c }

type released struct{ v uint8 }

func (released) Call(int) int { return 0 }
func (*released) Release()    {}

func TestClassify(t *testing.T) {
	assert.Equal(t, classSmall, classify[tiny]())
	assert.Equal(t, classSmall, classify[struct{}]())
	assert.Equal(t, classLarge, classify[word](), "a full word is not strictly smaller than the slot")
	assert.Equal(t, classLarge, classify[pointerish](), "pointers must stay visible to the GC")
	assert.Equal(t, classLarge, classify[cloned]())
	assert.Equal(t, classLarge, classify[released]())
	assert.Equal(t, classLarge, classify[Func[int, int]]())
}

func TestHasPointers(t *testing.T) {
	for typ, want := range map[reflect.Type]bool{
		reflect.TypeOf((*int32)(nil)).Elem():            false,
		reflect.TypeOf((*[2]uint8)(nil)).Elem():         false,
		reflect.TypeOf((*[0]*int)(nil)).Elem():          false,
		reflect.TypeOf((*struct{ x bool })(nil)).Elem(): false,
		reflect.TypeOf((*string)(nil)).Elem():           true,
		reflect.TypeOf((*[]byte)(nil)).Elem():           true,
		reflect.TypeOf((*map[int]int)(nil)).Elem():      true,
		reflect.TypeOf((*func())(nil)).Elem():           true,
		reflect.TypeOf((*any)(nil)).Elem():              true,
		reflect.TypeOf((*[1]*int)(nil)).Elem():          true,
		reflect.TypeOf((*struct {
			a int8
			b chan int
		})(nil)).Elem(): true,
	} {
		assert.Equalf(t, want, hasPointers(typ), "type %v", typ)
	}
}

func TestSlot_Layout(t *testing.T) {
	var s slot
	assert.Equal(t, slotAlign, unsafe.Alignof(s))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(s.inline)%slotAlign)
}

func TestDescriptor_SharedPerType(t *testing.T) {
	a := descriptorOf[int, int, tiny]()
	b := descriptorOf[int, int, tiny]()
	assert.Same(t, a, b)

	other := descriptorOf[int, string, Func[int, string]]()
	assert.Equal(t, "large", other.Class())
	assert.NotEqual(t, a.ID(), other.ID())

	found, ok := lookupDescriptor[int, int, tiny]()
	require.True(t, ok)
	assert.Same(t, a, found)
}

func TestDescriptor_EmptyIsShared(t *testing.T) {
	assert.Same(t, emptyDescriptor[int, int](), emptyDescriptor[int, int]())
	assert.NotEqual(t, emptyDescriptor[int, int]().ID(), emptyDescriptor[int, string]().ID())
	assert.Equal(t, "empty", emptyDescriptor[int, int]().Class())
}

func TestDescriptor_DoubleReleasePanics(t *testing.T) {
	d := descriptorOf[int, int, pointerish]()
	var s slot
	place(d, &s, pointerish{p: new(int8)})
	alias := s

	d.destroy(&s)
	assert.PanicsWithError(t, "payload released twice: function.pointerish", func() {
		d.destroy(&alias)
	})
}

func TestDescriptor_SmallMoveClearsSource(t *testing.T) {
	d := descriptorOf[int, int, tiny]()
	var src, dst slot
	place(d, &src, tiny{a: 1, b: 2})

	d.move(&src, &dst)

	assert.Equal(t, tiny{a: 1, b: 2}, *smallCast[tiny](&dst))
	assert.Equal(t, [slotCapacity]byte{}, src.inline)
}

func TestDescriptor_LargeMoveClearsSource(t *testing.T) {
	d := descriptorOf[int, int, pointerish]()
	var src, dst slot
	place(d, &src, pointerish{})
	before := d.allocs.snapshot()

	d.move(&src, &dst)

	assert.Nil(t, src.heap)
	assert.NotNil(t, dst.heap)
	assert.Equal(t, before, d.allocs.snapshot(), "move must not allocate")
	d.destroy(&dst)
}
