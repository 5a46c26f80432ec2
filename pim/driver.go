package pim

// driver.go specifies the hardware ABI: the opaque macro-instructions that
// the crossbar fabric exposes to the core. Exactly as internal/vm/devices.go
// defines a Driver interface that the CPU depends on but never implements
// itself, Driver here is implemented by an external collaborator (the
// gate-level circuit simulator in production, or pimsim.Driver in tests)
// and consumed, never implemented, by this package.

// Kind discriminates the element type a typed gate operates on. Go
// interface methods cannot themselves carry type parameters, so the ABI
// takes a runtime Kind instead of being generic; every typed gate call on a
// Vector[T] derives its Kind from T via kindOf.
type Kind int

const (
	KindInt32 Kind = iota
	KindFloat32
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	default:
		return "unknown"
	}
}

// ArithOp names a typed binary arithmetic gate.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

// UnaryOp names a typed unary gate.
type UnaryOp int

const (
	OpNegate UnaryOp = iota
	OpAbsolute
	OpSign
	OpZero
)

// BitwiseOp names an untyped (word-sized) bitwise gate. OpBitwiseNot and
// OpCopy are unary; regY is ignored by the driver for those two ops.
type BitwiseOp int

const (
	OpBitwiseNot BitwiseOp = iota
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpCopy
)

// Driver is the hardware ABI: the set of synchronous macro-instructions the
// core requires from the crossbar fabric. All operations are Cartesian
// over the supplied tile and row masks: a gate call affects every (tile,
// row) pair selected by (tiles, rows), reading operands from the same row
// in each tile.
//
// Implementations are not required to be safe for concurrent use; the core
// never issues overlapping calls (see package pim's concurrency model).
type Driver interface {
	// Read fetches the word stored at (tile, reg, row).
	Read(tile, reg, row int64) uint32

	// Write stores word at (tile, reg, row).
	Write(tile, reg, row int64, word uint32)

	// WriteMasked stores word to every (tile, row) selected by the tile
	// and row masks, at register reg.
	WriteMasked(tiles, rows RangeMask, reg int, word uint32)

	// Arith applies a typed binary arithmetic gate: regZ[t,r] =
	// regX[t,r] op regY[t,r] for every (t, r) in tiles x rows.
	Arith(op ArithOp, kind Kind, regX, regY, regZ int, tiles, rows RangeMask)

	// Unary applies a typed unary gate: regZ[t,r] = op(regX[t,r]).
	Unary(op UnaryOp, kind Kind, regX, regZ int, tiles, rows RangeMask)

	// Bitwise applies an untyped bitwise gate. regY is ignored when op is
	// OpBitwiseNot or OpCopy.
	Bitwise(op BitwiseOp, regX, regY, regZ int, tiles, rows RangeMask)

	// WarpMove performs an intra-warp copy within each selected tile:
	// every selected tile's row outputRow is overwritten with the
	// contents of its row inputRow, at register reg.
	WarpMove(inputRow, outputRow int64, reg int, tiles RangeMask)

	// WarpSize returns the number of lanes (rows addressable via
	// WarpMove) within a single tile.
	WarpSize() int64
}

// kindOf derives the driver Kind for a vector element type. T is
// constrained to Elem, so the switch is exhaustive; any other
// instantiation is a compile error, not a runtime possibility.
func kindOf[T Elem]() Kind {
	var zero T

	switch any(zero).(type) {
	case int32:
		return KindInt32
	case float32:
		return KindFloat32
	default:
		// Unreachable: Elem permits only int32 and float32.
		panic("pim: unsupported element type")
	}
}
