// Package pimsim provides an in-process reference implementation of
// pim.Driver, standing in for the gate-level circuit simulator that the
// core specifies only as a contract (see pim.Driver). It exists for tests
// and local development -- grounded on internal/vm's small, self-contained
// device stubs (Keyboard, Display) that implement an externally specified
// driver interface well enough to exercise the machine, without attempting
// to be a faithful circuit simulator.
package pimsim

import (
	"math"
	"sync"

	"github.com/oleitersdorf/CUDA-PIM/internal/log"
	"github.com/oleitersdorf/CUDA-PIM/pim"
)

// cell addresses one (tile, register, row) word in the simulated memory.
type cell struct {
	tile, reg, row int64
}

// Driver is a reference pim.Driver backed by a sparse map, rather than a
// dense [CrossbarR][NumCrossbars][CrossbarHeight]uint32 array (roughly
// 8 GiB at the default geometry): a map pays only for the cells that are
// actually written, matching internal/vm/io.go's MMIO, which keyed its device table by a
// map for the same reason (a dense 64 KiB array would work for the
// 16-bit LC-3, but nothing in this domain is that small).
type Driver struct {
	mu       sync.Mutex
	mem      map[cell]uint32
	warpSize int64
	log      *log.Logger
}

// New creates a reference driver with the default warp size
// (pim.CrossbarN). Use NewWithWarpSize to exercise a non-default geometry
// in tests.
func New() *Driver {
	return NewWithWarpSize(pim.CrossbarN)
}

// NewWithWarpSize creates a reference driver reporting the given warp
// size.
func NewWithWarpSize(warpSize int64) *Driver {
	return &Driver{
		mem:      make(map[cell]uint32),
		warpSize: warpSize,
		log:      log.DefaultLogger(),
	}
}

// WarpSize returns the configured lane count.
func (d *Driver) WarpSize() int64 { return d.warpSize }

// Read fetches the word at (tile, reg, row); an untouched cell reads as
// zero, matching the reference's zero-initialized REGISTERS-backed
// storage.
func (d *Driver) Read(tile, reg, row int64) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.mem[cell{tile, int64(reg), row}]
}

// Write stores word at (tile, reg, row).
func (d *Driver) Write(tile, reg, row int64, word uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mem[cell{tile, int64(reg), row}] = word
}

// WriteMasked stores word to every (tile, row) selected by the masks.
func (d *Driver) WriteMasked(tiles, rows pim.RangeMask, reg int, word uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	forEach(tiles, func(tile int64) {
		forEach(rows, func(row int64) {
			d.mem[cell{tile, int64(reg), row}] = word
		})
	})
}

// Arith applies a typed binary arithmetic gate across the masks.
func (d *Driver) Arith(op pim.ArithOp, kind pim.Kind, regX, regY, regZ int, tiles, rows pim.RangeMask) {
	d.mu.Lock()
	defer d.mu.Unlock()

	forEach(tiles, func(tile int64) {
		forEach(rows, func(row int64) {
			x := d.mem[cell{tile, int64(regX), row}]
			y := d.mem[cell{tile, int64(regY), row}]
			d.mem[cell{tile, int64(regZ), row}] = applyArith(op, kind, x, y)
		})
	})
}

// Unary applies a typed unary gate across the masks.
func (d *Driver) Unary(op pim.UnaryOp, kind pim.Kind, regX, regZ int, tiles, rows pim.RangeMask) {
	d.mu.Lock()
	defer d.mu.Unlock()

	forEach(tiles, func(tile int64) {
		forEach(rows, func(row int64) {
			x := d.mem[cell{tile, int64(regX), row}]
			d.mem[cell{tile, int64(regZ), row}] = applyUnary(op, kind, x)
		})
	})
}

// Bitwise applies an untyped bitwise gate across the masks. regY is
// ignored for OpBitwiseNot and OpCopy.
func (d *Driver) Bitwise(op pim.BitwiseOp, regX, regY, regZ int, tiles, rows pim.RangeMask) {
	d.mu.Lock()
	defer d.mu.Unlock()

	forEach(tiles, func(tile int64) {
		forEach(rows, func(row int64) {
			x := d.mem[cell{tile, int64(regX), row}]

			var z uint32

			switch op {
			case pim.OpBitwiseNot:
				z = ^x
			case pim.OpCopy:
				z = x
			default:
				y := d.mem[cell{tile, int64(regY), row}]

				switch op {
				case pim.OpBitwiseAnd:
					z = x & y
				case pim.OpBitwiseOr:
					z = x | y
				case pim.OpBitwiseXor:
					z = x ^ y
				}
			}

			d.mem[cell{tile, int64(regZ), row}] = z
		})
	})
}

// WarpMove copies row inputRow to row outputRow, at reg, in every
// selected tile.
func (d *Driver) WarpMove(inputRow, outputRow int64, reg int, tiles pim.RangeMask) {
	d.mu.Lock()
	defer d.mu.Unlock()

	forEach(tiles, func(tile int64) {
		d.mem[cell{tile, int64(reg), outputRow}] = d.mem[cell{tile, int64(reg), inputRow}]
	})
}

// forEach walks the inclusive sequence m.Start, m.Start+m.Step, ..., m.Stop.
func forEach(m pim.RangeMask, fn func(int64)) {
	if m.Step == 0 {
		return
	}

	if m.Step > 0 {
		for i := m.Start; i <= m.Stop; i += m.Step {
			fn(i)
		}

		return
	}

	for i := m.Start; i >= m.Stop; i += m.Step {
		fn(i)
	}
}

// applyArith evaluates a typed binary gate on raw words.
func applyArith(op pim.ArithOp, kind pim.Kind, xw, yw uint32) uint32 {
	switch kind {
	case pim.KindFloat32:
		x, y := math.Float32frombits(xw), math.Float32frombits(yw)

		var z float32

		switch op {
		case pim.OpAdd:
			z = x + y
		case pim.OpSub:
			z = x - y
		case pim.OpMul:
			z = x * y
		case pim.OpDiv:
			z = x / y
		case pim.OpMod:
			z = float32(math.Mod(float64(x), float64(y)))
		}

		return math.Float32bits(z)

	default: // pim.KindInt32
		x, y := int32(xw), int32(yw)

		var z int32

		switch op {
		case pim.OpAdd:
			z = x + y
		case pim.OpSub:
			z = x - y
		case pim.OpMul:
			z = x * y
		case pim.OpDiv:
			z = x / y
		case pim.OpMod:
			z = x % y
		}

		return uint32(z)
	}
}

// applyUnary evaluates a typed unary gate on a raw word. Sign and Zero
// always produce an int32-encoded result, regardless of kind, matching
// the reference's sign<T>/zero<T> gates.
func applyUnary(op pim.UnaryOp, kind pim.Kind, xw uint32) uint32 {
	if kind == pim.KindFloat32 {
		x := math.Float32frombits(xw)

		switch op {
		case pim.OpNegate:
			return math.Float32bits(-x)
		case pim.OpAbsolute:
			return math.Float32bits(float32(math.Abs(float64(x))))
		case pim.OpSign:
			if x < 0 {
				return ^uint32(0) // int32(-1)
			}

			return 0
		case pim.OpZero:
			if x == 0 {
				return 1
			}

			return 0
		}
	}

	x := int32(xw)

	switch op {
	case pim.OpNegate:
		return uint32(-x)
	case pim.OpAbsolute:
		if x < 0 {
			x = -x
		}

		return uint32(x)
	case pim.OpSign:
		if x < 0 {
			return ^uint32(0) // int32(-1)
		}

		return 0
	case pim.OpZero:
		if x == 0 {
			return 1
		}

		return 0
	}

	return 0
}
