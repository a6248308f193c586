// Package layout computes the memory shape (size, alignment, parts) of a
// VHDL type, per spec §4.5. Layouts are pure functions of a vtype.Type and
// are memoized so that two calls return bit-for-bit identical results
// (spec §8's referential-stability law).
package layout

import (
	"sync"

	"github.com/nvc-project/nvc-core/objstore"
	"github.com/nvc-project/nvc-core/vtype"
)

// PartClass classifies one contiguous region of a Layout.
type PartClass int

const (
	DATA PartClass = iota
	BOUNDS
	OFFSET
	EXTERNAL
)

func (c PartClass) String() string {
	switch c {
	case DATA:
		return "DATA"
	case BOUNDS:
		return "BOUNDS"
	case OFFSET:
		return "OFFSET"
	case EXTERNAL:
		return "EXTERNAL"
	default:
		return "?"
	}
}

// Part is one contiguous region of a Layout.
type Part struct {
	Offset int
	Size   int
	Repeat int
	Align  int
	Class  PartClass
}

// Layout is the storage shape of a value of a given type, immutable once
// produced.
type Layout struct {
	Size  int
	Align int
	Parts []Part
}

// pointerSize is the size of an EXTERNAL/OFFSET part: a native pointer on
// the target running the JIT-compiled code.
const pointerSize = 8

type cacheKey struct {
	arena  uint32
	index  uint32
	signal bool
}

var (
	mu    sync.Mutex
	cache = make(map[cacheKey]*Layout)
)

// LayoutOf returns the (memoized) data layout of t.
//
// Open Question (spec §9) resolved here: for an unconstrained array type,
// or a subtype that reduces to one, LayoutOf returns the layout of the
// array's *base* type (an EXTERNAL+BOUNDS pair) rather than materializing
// a second, distinct "unconstrained layout" value. SignalLayoutOf is kept
// as a genuinely separate computation instead, since a signal's storage
// shape differs from its value's storage shape even when both end up
// classified EXTERNAL+BOUNDS.
func LayoutOf(t vtype.Type) *Layout {
	return layoutOf(t, false)
}

// SignalLayoutOf returns the layout used to store t as a signal's current/
// pending value, per spec §4.5: homogeneous signals replace in-place data
// with an EXTERNAL pointer and add an 8-byte OFFSET part locating this
// signal's slice of a shared nexus backing store.
func SignalLayoutOf(t vtype.Type) *Layout {
	return layoutOf(t, true)
}

func layoutOf(t vtype.Type, signal bool) *Layout {
	key := cacheKey{t.H.Arena, t.H.Index, signal}

	mu.Lock()
	if l, ok := cache[key]; ok {
		mu.Unlock()
		return l
	}
	mu.Unlock()

	l := compute(t, signal)

	mu.Lock()
	cache[key] = l
	mu.Unlock()
	return l
}

func compute(t vtype.Type, signal bool) *Layout {
	base := vtype.Resolve(t)

	switch base.Kind() {
	case vtype.KindInteger, vtype.KindPhysical:
		size := bytesForRanges(base.Constraint())
		if size == 0 {
			size = 1
		}
		return scalarLayout(size, signal)

	case vtype.KindEnum:
		size := bytesForOrdinalCount(len(base.Literals()))
		return scalarLayout(size, signal)

	case vtype.KindReal:
		return scalarLayout(8, signal)

	case vtype.KindConstrainedArray:
		return constrainedArrayLayout(base, signal)

	case vtype.KindUnconstrainedArray:
		return unconstrainedArrayLayout(base)

	case vtype.KindRecord, vtype.KindProtected:
		return recordLayout(base, signal)

	case vtype.KindAccess, vtype.KindFile:
		return scalarLayout(pointerSize, false)

	default:
		// Incomplete/none/subprogram types carry no runtime storage.
		return &Layout{Size: 0, Align: 1}
	}
}

func scalarLayout(size int, signal bool) *Layout {
	if !signal {
		return &Layout{
			Size:  size,
			Align: size,
			Parts: []Part{{Offset: 0, Size: size, Repeat: 1, Align: size, Class: DATA}},
		}
	}
	return signalPointerLayout()
}

// signalPointerLayout is the EXTERNAL+OFFSET pair every homogeneous
// signal layout reduces to, regardless of the value type's own shape.
func signalPointerLayout() *Layout {
	return &Layout{
		Size:  pointerSize + 8,
		Align: pointerSize,
		Parts: []Part{
			{Offset: 0, Size: pointerSize, Repeat: 1, Align: pointerSize, Class: EXTERNAL},
			{Offset: pointerSize, Size: 8, Repeat: 1, Align: 8, Class: OFFSET},
		},
	}
}

func constrainedArrayLayout(t vtype.Type, signal bool) *Layout {
	if signal {
		return signalPointerLayout()
	}

	elemLayout := LayoutOf(t.ElemType())
	count := elementCount(t.Constraint())

	return &Layout{
		Size:  elemLayout.Size * count,
		Align: elemLayout.Align,
		Parts: []Part{{
			Offset: 0, Size: elemLayout.Size, Repeat: count,
			Align: elemLayout.Align, Class: DATA,
		}},
	}
}

func unconstrainedArrayLayout(t vtype.Type) *Layout {
	ndims := len(t.IndexConstraints())
	if ndims == 0 {
		ndims = 1
	}
	boundsSize := 2 * 8 * ndims
	return &Layout{
		Size:  pointerSize + boundsSize,
		Align: pointerSize,
		Parts: []Part{
			{Offset: 0, Size: pointerSize, Repeat: 1, Align: pointerSize, Class: EXTERNAL},
			{Offset: pointerSize, Size: 8, Repeat: 2 * ndims, Align: 8, Class: BOUNDS},
		},
	}
}

func recordLayout(t vtype.Type, signal bool) *Layout {
	if signal {
		return signalPointerLayout()
	}

	fields := t.Fields()
	parts := make([]Part, 0, len(fields))
	offset := 0

	for _, f := range fields {
		fl := LayoutOf(fieldType(t, f))
		offset = alignUp(offset, fl.Align)
		parts = append(parts, Part{
			Offset: offset, Size: fl.Size, Repeat: 1,
			Align: fl.Align, Class: DATA,
		})
		offset += fl.Size
	}

	// Per spec §4.5: overall record alignment is pointer alignment.
	align := pointerSize
	size := alignUp(offset, align)

	return &Layout{Size: size, Align: align, Parts: parts}
}

// fieldType wraps a field's raw type handle using the parent's store,
// since objstore.Parameter only carries a bare Handle.
func fieldType(parent vtype.Type, p objstore.Parameter) vtype.Type {
	return vtype.Type{S: parent.S, H: p.Type}
}

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

func elementCount(dims []objstore.Range) int {
	if len(dims) == 0 {
		return 0
	}
	count := 1
	for _, d := range dims {
		span := d.High - d.Low + 1
		if span < 0 {
			span = 0
		}
		count *= int(span)
	}
	return count
}

// bytesForRanges returns ceil(bits_for_range(lo,hi)/8) for a scalar
// type's constraint (spec §4.5).
func bytesForRanges(dims []objstore.Range) int {
	if len(dims) == 0 {
		return 0
	}
	return bytesForRange(dims[0].Low, dims[0].High)
}

func bytesForRange(lo, hi int64) int {
	bits := bitsForRange(lo, hi)
	return (bits + 7) / 8
}

// bitsForRange returns the minimum number of bits needed to represent any
// value in [lo, hi] as a two's-complement signed integer (or as an
// unsigned integer when lo >= 0).
func bitsForRange(lo, hi int64) int {
	if lo >= 0 {
		return bitLen(uint64(hi))
	}
	// Signed: need enough bits so that both -(2^(n-1)) <= lo and
	// hi <= 2^(n-1)-1 hold.
	n := 1
	for {
		min := -(int64(1) << uint(n-1))
		max := (int64(1) << uint(n-1)) - 1
		if lo >= min && hi <= max {
			return n
		}
		n++
		if n > 64 {
			return 64
		}
	}
}

func bitLen(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	if n == 0 {
		n = 1
	}
	return n
}

func bytesForOrdinalCount(n int) int {
	if n <= 1 {
		return 1
	}
	bits := bitLen(uint64(n - 1))
	return (bits + 7) / 8
}
