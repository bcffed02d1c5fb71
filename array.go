package ugen

import (
	"errors"
	"math"
	"slices"
	"sync/atomic"
)

// Number is the element constraint of an Array.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Samples is the array type backing node outputs and asset tables.
type Samples = Array[float64]

var ErrIndexOutOfRange = errors.New("ugen: array index out of range")

type store[T Number] struct {
	data  []T
	refs  atomic.Int32
	owned bool
}

func newStore[T Number](n int) *store[T] {
	s := &store[T]{data: make([]T, n), owned: true}
	s.refs.Store(1)
	return s
}

// An Array is a contiguous buffer of numbers that may share its storage with
// other Arrays.
//
// Assigning an Array value aliases it, like a slice.  Share returns a copy that is
// logically independent: the storage is only duplicated when one of the sharers
// writes to it.  Arrays made by View never own their storage and are never
// duplicated; writes go straight through to the caller's slice, which must
// outlive the view.
//
// A null-terminated Array keeps a trailing zero: Size counts it, Len does not.
type Array[T Number] struct {
	s              *store[T]
	off, n         int
	nullTerminated bool
}

// WithSize returns a zeroed Array of n elements.
func WithSize[T Number](n int) Array[T] {
	if n <= 0 {
		return Array[T]{}
	}
	return Array[T]{s: newStore[T](n), n: n}
}

// FromValues returns an Array holding a copy of values.
func FromValues[T Number](values ...T) Array[T] {
	a := WithSize[T](len(values))
	if a.s != nil {
		copy(a.s.data, values)
	}
	return a
}

// View returns an Array over data without copying or owning it.
func View[T Number](data []T) Array[T] {
	if len(data) == 0 {
		return Array[T]{}
	}
	s := &store[T]{data: data}
	s.refs.Store(1)
	return Array[T]{s: s, n: len(data)}
}

// NullTerminated returns an Array holding values followed by a zero sentinel.
func NullTerminated[T Number](values ...T) Array[T] {
	a := WithSize[T](len(values) + 1)
	copy(a.s.data, values)
	a.nullTerminated = true
	return a
}

func (a Array[T]) Size() int { return a.n }

func (a Array[T]) Len() int {
	if a.nullTerminated && a.n > 0 {
		return a.n - 1
	}
	return a.n
}

func (a Array[T]) IsNullTerminated() bool { return a.nullTerminated }
func (a Array[T]) IsView() bool           { return a.s != nil && !a.s.owned }

// Values returns the logical elements.  The slice must not be written to; use
// Data for that.
func (a Array[T]) Values() []T {
	if a.s == nil {
		return nil
	}
	return a.s.data[a.off : a.off+a.Len()]
}

// Data returns the logical elements for writing, first duplicating storage
// that is shared with another owner.
func (a *Array[T]) Data() []T {
	a.unshare()
	return a.Values()
}

func (a *Array[T]) unshare() {
	if a.s == nil || !a.s.owned || a.s.refs.Load() <= 1 {
		return
	}
	s := newStore[T](a.n)
	copy(s.data, a.s.data[a.off:a.off+a.n])
	a.s.refs.Add(-1)
	a.s, a.off = s, 0
}

// Share returns a logically independent copy of a that shares storage until
// either side writes.
func (a Array[T]) Share() Array[T] {
	if a.s != nil && a.s.owned {
		a.s.refs.Add(1)
	}
	return a
}

// Clone returns a deep copy of a that owns its storage.
func (a Array[T]) Clone() Array[T] {
	if a.s == nil {
		return Array[T]{}
	}
	b := WithSize[T](a.n)
	copy(b.s.data, a.s.data[a.off:a.off+a.n])
	b.nullTerminated = a.nullTerminated
	return b
}

// Release gives up a's claim on its storage and empties it.
func (a *Array[T]) Release() {
	if a.s != nil && a.s.owned {
		a.s.refs.Add(-1)
	}
	*a = Array[T]{}
}

// At returns the element at i, or the zero value when i is out of range.
func (a Array[T]) At(i int) T {
	if i < 0 || i >= a.n {
		var zero T
		return zero
	}
	return a.s.data[a.off+i]
}

// Get is At with range checking.
func (a Array[T]) Get(i int) (T, error) {
	if i < 0 || i >= a.n {
		var zero T
		return zero, ErrIndexOutOfRange
	}
	return a.s.data[a.off+i], nil
}

// WrapAt returns the element at i modulo the length; negative indices count
// back from the end.
func (a Array[T]) WrapAt(i int) T {
	n := a.Len()
	if n == 0 {
		var zero T
		return zero
	}
	i %= n
	if i < 0 {
		i += n
	}
	return a.s.data[a.off+i]
}

// Put sets the element at i.  Indices out of range are ignored.
func (a *Array[T]) Put(i int, v T) {
	if i < 0 || i >= a.n {
		return
	}
	a.unshare()
	a.s.data[a.off+i] = v
}

func (a *Array[T]) Zero() {
	d := a.Data()
	for i := range d {
		d[i] = 0
	}
}

// Slice returns the elements [start, end) without copying.  The bounds are
// clamped to the array; an empty range gives an empty Array.  A slice that
// reaches the end of a null-terminated array keeps the terminator.
func (a Array[T]) Slice(start, end int) Array[T] {
	n := a.Len()
	start = max(start, 0)
	end = min(end, n)
	if start >= end {
		return Array[T]{}
	}
	b := a.Share()
	b.off += start
	b.n = end - start
	b.nullTerminated = false
	if a.nullTerminated && end == n {
		b.n++
		b.nullTerminated = true
	}
	return b
}

func (a Array[T]) From(start int) Array[T] { return a.Slice(start, a.Len()) }
func (a Array[T]) To(end int) Array[T]     { return a.Slice(0, end) }

// Concat returns a new Array holding the elements of a followed by those of b.
// The result is null-terminated if either input is.
func Concat[T Number](a, b Array[T]) Array[T] {
	nt := a.nullTerminated || b.nullTerminated
	n := a.Len() + b.Len()
	if nt {
		n++
	}
	c := WithSize[T](n)
	if c.s == nil {
		return c
	}
	copy(c.s.data, a.Values())
	copy(c.s.data[a.Len():], b.Values())
	c.nullTerminated = nt
	return c
}

// Append adds v after the last element, keeping any terminator last.
func (a *Array[T]) Append(v T) {
	a.replace(append(slices.Clone(a.Values()), v))
}

// Remove deletes the element at i.  Indices out of range are ignored.
func (a *Array[T]) Remove(i int) {
	if i < 0 || i >= a.Len() {
		return
	}
	a.replace(slices.Delete(slices.Clone(a.Values()), i, i+1))
}

func (a *Array[T]) replace(values []T) {
	b := FromValues(values...)
	if a.nullTerminated {
		b = NullTerminated(values...)
	}
	a.Release()
	*a = b
}

func (a Array[T]) IndexOf(v T) int {
	for i, x := range a.Values() {
		if x == v {
			return i
		}
	}
	return -1
}

func (a Array[T]) Contains(v T) bool { return a.IndexOf(v) >= 0 }

// Equal reports whether a and b hold the same elements.
func (a Array[T]) Equal(b Array[T]) bool {
	x, y := a.Values(), b.Values()
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func (a Array[T]) Sum() T {
	var s T
	for _, x := range a.Values() {
		s += x
	}
	return s
}

// Peak returns the largest absolute value.
func (a Array[T]) Peak() T {
	var p T
	for _, x := range a.Values() {
		if x < 0 {
			x = -x
		}
		p = max(p, x)
	}
	return p
}

// binary combines a and b elementwise, cycling the shorter operand.  An empty
// operand yields a share of the other one.
func binary[T Number](a, b Array[T], f func(x, y T) T) Array[T] {
	na, nb := a.Len(), b.Len()
	if na == 0 {
		return b.Share()
	}
	if nb == 0 {
		return a.Share()
	}
	n := max(na, nb)
	nt := a.nullTerminated || b.nullTerminated
	size := n
	if nt {
		size++
	}
	c := WithSize[T](size)
	c.nullTerminated = nt
	x, y, z := a.Values(), b.Values(), c.s.data
	for i := 0; i < n; i++ {
		z[i] = f(x[i%na], y[i%nb])
	}
	return c
}

func compare[T Number](a, b Array[T], f func(x, y T) bool) []bool {
	na, nb := a.Len(), b.Len()
	if na == 0 || nb == 0 {
		return nil
	}
	x, y := a.Values(), b.Values()
	z := make([]bool, max(na, nb))
	for i := range z {
		z[i] = f(x[i%na], y[i%nb])
	}
	return z
}

func isInteger[T Number]() bool {
	one := T(1)
	return one/(one+one) == 0
}

func (a Array[T]) Add(b Array[T]) Array[T] { return binary(a, b, func(x, y T) T { return x + y }) }
func (a Array[T]) Sub(b Array[T]) Array[T] { return binary(a, b, func(x, y T) T { return x - y }) }
func (a Array[T]) Mul(b Array[T]) Array[T] { return binary(a, b, func(x, y T) T { return x * y }) }

// Div divides elementwise.  Integer division by zero gives zero.
func (a Array[T]) Div(b Array[T]) Array[T] {
	integer := isInteger[T]()
	return binary(a, b, func(x, y T) T {
		if y == 0 && integer {
			return 0
		}
		return x / y
	})
}

func (a Array[T]) Min(b Array[T]) Array[T] { return binary(a, b, func(x, y T) T { return min(x, y) }) }
func (a Array[T]) Max(b Array[T]) Array[T] { return binary(a, b, func(x, y T) T { return max(x, y) }) }

func (a Array[T]) Pow(b Array[T]) Array[T]   { return binary(a, b, float2[T](math.Pow)) }
func (a Array[T]) Hypot(b Array[T]) Array[T] { return binary(a, b, float2[T](math.Hypot)) }
func (a Array[T]) Atan2(b Array[T]) Array[T] { return binary(a, b, float2[T](math.Atan2)) }

// Clip2 clips a to ±b.
func (a Array[T]) Clip2(b Array[T]) Array[T] {
	return binary(a, b, func(x, y T) T { return max(-y, min(y, x)) })
}

func (a Array[T]) Less(b Array[T]) []bool      { return compare(a, b, func(x, y T) bool { return x < y }) }
func (a Array[T]) LessEq(b Array[T]) []bool    { return compare(a, b, func(x, y T) bool { return x <= y }) }
func (a Array[T]) Greater(b Array[T]) []bool   { return compare(a, b, func(x, y T) bool { return x > y }) }
func (a Array[T]) GreaterEq(b Array[T]) []bool { return compare(a, b, func(x, y T) bool { return x >= y }) }
func (a Array[T]) IsEqualTo(b Array[T]) []bool { return compare(a, b, func(x, y T) bool { return x == y }) }
func (a Array[T]) NotEqualTo(b Array[T]) []bool {
	return compare(a, b, func(x, y T) bool { return x != y })
}

func float2[T Number](f func(x, y float64) float64) func(x, y T) T {
	return func(x, y T) T { return T(f(float64(x), float64(y))) }
}

// Map returns a new Array with f applied to every element.
func (a Array[T]) Map(f func(T) T) Array[T] {
	c := WithSize[T](a.Size())
	if c.s == nil {
		return c
	}
	c.nullTerminated = a.nullTerminated
	for i, x := range a.Values() {
		c.s.data[i] = f(x)
	}
	return c
}

func (a Array[T]) apply(f func(float64) float64) Array[T] {
	return a.Map(func(x T) T { return T(f(float64(x))) })
}

func (a Array[T]) Neg() Array[T]        { return a.Map(func(x T) T { return -x }) }
func (a Array[T]) Abs() Array[T]        { return a.apply(math.Abs) }
func (a Array[T]) Reciprocal() Array[T] { return a.apply(func(x float64) float64 { return 1 / x }) }
func (a Array[T]) Sqrt() Array[T]       { return a.apply(math.Sqrt) }
func (a Array[T]) Sin() Array[T]        { return a.apply(math.Sin) }
func (a Array[T]) Cos() Array[T]        { return a.apply(math.Cos) }
func (a Array[T]) Exp() Array[T]        { return a.apply(math.Exp) }
func (a Array[T]) Log() Array[T]        { return a.apply(math.Log) }
func (a Array[T]) Squared() Array[T]    { return a.Map(func(x T) T { return x * x }) }
func (a Array[T]) Cubed() Array[T]      { return a.Map(func(x T) T { return x * x * x }) }
func (a Array[T]) MIDICPS() Array[T]    { return a.apply(MIDICPS) }
func (a Array[T]) CPSMIDI() Array[T]    { return a.apply(CPSMIDI) }
func (a Array[T]) AmpDB() Array[T]      { return a.apply(AmpDB) }
func (a Array[T]) DBAmp() Array[T]      { return a.apply(DBAmp) }

func MIDICPS(note float64) float64 { return 440 * math.Exp2((note-69)/12) }
func CPSMIDI(freq float64) float64 { return 69 + 12*math.Log2(freq/440) }
func AmpDB(amp float64) float64    { return 20 * math.Log10(amp) }
func DBAmp(db float64) float64     { return math.Pow(10, db/20) }
