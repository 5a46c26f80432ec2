package pim

// vector.go implements the typed, value-semantic vector over a hardware
// address, ported from original_source/pim/vector.h. Go has neither
// destructors, move constructors, nor overridable copy constructors, so
// three explicit methods stand in for what C++ does implicitly:
//
//   - Release, for the destructor (~vector calling pim::free);
//   - Take, for the move constructor (adopting the address, marking the
//     source moved-from);
//   - Copy, for the copy constructor (plain Go struct assignment would
//     merely alias the same Address, silently breaking the copy-
//     independence invariant the reference gets for free from its copy
//     constructor -- Copy is the explicit substitute).
//
// Every arithmetic and bitwise operator method follows the reference's
// allocation pattern: it allocates one fresh, zero-filled result vector and
// issues one gate over the source's tile range and current mask.

import "math"

// Elem is the set of element types a Vector may hold: 32-bit,
// trivially bit-castable values, matching the Driver's word size.
type Elem interface {
	int32 | float32
}

// Vector is a logical, fixed-length array of T living at a hardware
// Address. The zero Vector is not valid; construct one with NewVector or
// NewVectorFromSlice, or duplicate an existing one with Copy.
type Vector[T Elem] struct {
	n        int64
	addr     Address
	currMask RangeMask
	m        *Machine
}

// NewVector allocates a vector of n elements, all initialized to fill.
func NewVector[T Elem](m *Machine, n int64, fill T) (Vector[T], error) {
	addr, err := m.alloc.Allocate(n, m.driver.WarpSize())
	if err != nil {
		return Vector[T]{}, err
	}

	v := Vector[T]{n: n, addr: addr, currMask: AllRows, m: m}
	m.driver.WriteMasked(v.tilesMask(), v.currMask, addr.Reg, bitsOf(fill))

	return v, nil
}

// NewVectorFromSlice allocates a vector sized to data and scalar-writes
// each element.
func NewVectorFromSlice[T Elem](m *Machine, data []T) (Vector[T], error) {
	addr, err := m.alloc.Allocate(int64(len(data)), m.driver.WarpSize())
	if err != nil {
		return Vector[T]{}, err
	}

	v := Vector[T]{n: int64(len(data)), addr: addr, currMask: AllRows, m: m}

	for i, x := range data {
		if err := v.Set(int64(i), x); err != nil {
			v.Release()
			return Vector[T]{}, err
		}
	}

	return v, nil
}

// Copy allocates a fresh vector of the same size and issues one bitwise
// copy gate from v into it. The result starts with the default (AllRows)
// mask, mirroring the reference: the destination's own mask governs the
// copy, not the source's.
func (v *Vector[T]) Copy() (Vector[T], error) {
	if v.addr.Empty() {
		return Vector[T]{}, &MoveError{Op: "copy"}
	}

	addr, err := v.m.alloc.Allocate(v.n, v.m.driver.WarpSize())
	if err != nil {
		return Vector[T]{}, err
	}

	res := Vector[T]{n: v.n, addr: addr, currMask: AllRows, m: v.m}
	v.m.driver.Bitwise(OpCopy, v.addr.Reg, 0, res.addr.Reg, res.tilesMask(), res.currMask)

	return res, nil
}

// Take adopts v's address into a new Vector header and marks v released,
// the Go substitute for C++'s move constructor.
func (v *Vector[T]) Take() Vector[T] {
	out := *v
	v.addr.Reg = noReg

	return out
}

// Release frees the vector's address. It is a no-op on an already-
// released (or moved-from) vector.
func (v *Vector[T]) Release() {
	v.m.alloc.Free(v.addr)
	v.addr.Reg = noReg
}

// Size returns the vector's logical length.
func (v *Vector[T]) Size() int64 { return v.n }

// Machine returns the Machine the vector was constructed from.
func (v *Vector[T]) Machine() *Machine { return v.m }

// CurrentMask returns the row mask applied to subsequent masked writes.
func (v *Vector[T]) CurrentMask() RangeMask { return v.currMask }

// SetMask replaces the row mask used by the gates of subsequent operator
// calls on v. Copy is unaffected (it uses the fresh result's AllRows mask),
// and so is element access (At, Set, WarpMove), matching the reference.
func (v *Vector[T]) SetMask(mask RangeMask) { v.currMask = mask }

// tilesMask is the inclusive tile range this vector owns, as a RangeMask
// with step 1 -- the form every Driver call expects.
func (v *Vector[T]) tilesMask() RangeMask {
	return RangeMask{Start: v.addr.StartArray, Stop: v.addr.EndArray - 1, Step: 1}
}

// warpSize queries the driver's lane count; element addressing strides by
// this value, matching original_source/pim/vector.h exactly. The allocator
// sizes every vector's tile run by this same warp size (see
// Allocator.Allocate), so a vector's addressable tile range and its
// allocated tile range always agree.
func (v *Vector[T]) warpSize() int64 { return v.m.driver.WarpSize() }

// At reads the element at logical index i.
func (v *Vector[T]) At(i int64) (T, error) {
	var zero T

	if v.addr.Empty() {
		return zero, &MoveError{Op: "at"}
	}

	if i < 0 || i >= v.n {
		return zero, &RangeError{Index: i, Size: v.n}
	}

	ws := v.warpSize()
	tile := v.addr.StartArray + i/ws
	row := i % ws
	word := v.m.driver.Read(tile, int64(v.addr.Reg), row)

	return fromBits[T](word), nil
}

// Set writes val to the element at logical index i.
func (v *Vector[T]) Set(i int64, val T) error {
	if v.addr.Empty() {
		return &MoveError{Op: "set"}
	}

	if i < 0 || i >= v.n {
		return &RangeError{Index: i, Size: v.n}
	}

	ws := v.warpSize()
	tile := v.addr.StartArray + i/ws
	row := i % ws
	v.m.driver.Write(tile, int64(v.addr.Reg), row, bitsOf(val))

	return nil
}

// SetAll bulk-initializes the vector from a host slice. It is still O(n)
// Driver calls internally -- the ABI has no batched-write macro-op beyond
// the single-word broadcast used by construction -- but it is O(1) in
// caller-side bounds checking and allocation.
func (v *Vector[T]) SetAll(data []T) error {
	if int64(len(data)) != v.n {
		return &ShapeError{Want: v.n, Got: int64(len(data))}
	}

	for i, x := range data {
		if err := v.Set(int64(i), x); err != nil {
			return err
		}
	}

	return nil
}

// WarpMove forwards to the driver's intra-warp move, affecting every tile
// the vector owns in parallel. Unlike fills and operator writes, this
// bypasses the current mask entirely. It returns no error and does not
// check whether v has been released.
func (v *Vector[T]) WarpMove(inputThread, outputThread int64) {
	v.m.driver.WarpMove(inputThread, outputThread, v.addr.Reg, v.tilesMask())
}

// bitsOf reinterprets an element's bit pattern as the Driver's 32-bit word.
func bitsOf[T Elem](v T) uint32 {
	switch x := any(v).(type) {
	case int32:
		return uint32(x)
	case float32:
		return math.Float32bits(x)
	default:
		panic("pim: unsupported element type")
	}
}

// fromBits reinterprets a 32-bit word as T.
func fromBits[T Elem](w uint32) T {
	var zero T

	switch any(zero).(type) {
	case int32:
		return any(int32(w)).(T)
	case float32:
		return any(math.Float32frombits(w)).(T)
	default:
		panic("pim: unsupported element type")
	}
}
