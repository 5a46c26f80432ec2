package pim

// allocator.go implements the best-fit, rotating allocator over the
// (register index x crossbar) grid, ported from original_source's
// pim/memory.cpp. Grounded structurally on internal/vm/io.go's MMIO, which
// guards a shared map with a logger and exposes Load/Store rather than
// touching state directly; here the shared state is the REGISTERS bitmap
// and the rotating cursor, guarded by a mutex (the model is single-threaded
// cooperative, but guarding the bitmap costs nothing and removes a footgun
// for callers that do share a Machine across goroutines).

import (
	"sync"

	"github.com/oleitersdorf/CUDA-PIM/internal/log"
)

// Allocator maintains the free/used bitmap over the register grid and
// serves single- or multi-register contiguous-crossbar allocations. It is
// safe for concurrent use: all state is guarded by a mutex, matching the
// reference's single-threaded contract extended to Go's concurrent
// runtime.
type Allocator struct {
	mu sync.Mutex

	// used[reg][crossbar] reports whether the cell is allocated.
	used [CrossbarR][NumCrossbars]bool

	// lastCrossbar is the rotating cursor: the next search starts here,
	// to spread allocations and reduce fragmentation re-scans.
	lastCrossbar int64

	log *log.Logger
}

// NewAllocator creates an allocator with every cell free.
func NewAllocator() *Allocator {
	return &Allocator{log: log.DefaultLogger()}
}

// numTiles returns how many contiguous tiles an n-element vector requires,
// given the driver's warp size. Element addressing strides by warpSize (see
// vector.go's At/Set), so sizing a vector's tile run by anything else --
// CrossbarHeight in particular -- would let an element's computed tile run
// past the range the gate calls actually cover, reading back zero instead
// of the written value. Tile count and element stride must agree.
func numTiles(n, warpSize int64) int64 {
	return (n + warpSize - 1) / warpSize
}

// Allocate reserves one register index across ceil(n/warpSize) contiguous
// tiles, where warpSize is the driver's lane count.
func (a *Allocator) Allocate(n, warpSize int64) (Address, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tiles := numTiles(n, warpSize)

	reg, start, ok := a.findRun(tiles, 1)
	if !ok {
		return Address{}, &AllocError{Requested: n}
	}

	a.mark(reg[0], start, tiles, true)
	a.lastCrossbar = start

	a.log.Debug("allocated", log.Any("reg", reg[0]), log.Any("start", start), log.Any("tiles", tiles))

	return Address{StartArray: start, EndArray: start + tiles, Reg: reg[0]}, nil
}

// AllocateMulti reserves m distinct register indices, all covering the
// same contiguous tile range sized for n elements at the given warp size.
func (a *Allocator) AllocateMulti(n int64, m int, warpSize int64) ([]Address, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tiles := numTiles(n, warpSize)

	regs, start, ok := a.findRun(tiles, m)
	if !ok {
		return nil, &AllocError{Requested: n, Multi: m}
	}

	for _, reg := range regs {
		a.mark(reg, start, tiles, true)
	}

	a.lastCrossbar = start

	a.log.Debug("allocated multi", log.Any("regs", regs), log.Any("start", start), log.Any("tiles", tiles))

	addrs := make([]Address, len(regs))
	for i, reg := range regs {
		addrs[i] = Address{StartArray: start, EndArray: start + tiles, Reg: reg}
	}

	return addrs, nil
}

// Free releases an address. Freeing an empty address (Reg == -1) is a
// no-op, matching the reference's "ignore reg == -1" contract.
func (a *Allocator) Free(addr Address) {
	if addr.Empty() {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.mark(addr.Reg, addr.StartArray, addr.NumTiles(), false)

	a.log.Debug("freed", log.Any("reg", addr.Reg), log.Any("start", addr.StartArray))
}

// findRun scans starting at lastCrossbar, advancing modulo NumCrossbars,
// for a start position with m distinct register indices each free across
// [start, start+tiles). It uses a revolution counter rather than comparing
// the cursor to lastCrossbar-1 (mod NumCrossbars) after each increment,
// since that comparison never holds when lastCrossbar == 0: the reference
// implementation's termination test is off-by-one under wrap-around, and
// this is the deliberate fix for that wraparound bug.
func (a *Allocator) findRun(tiles int64, m int) (regs []int, start int64, ok bool) {
	regs = make([]int, 0, m)

	for tried := int64(0); tried < NumCrossbars; tried++ {
		s := (a.lastCrossbar + tried) % NumCrossbars

		// A vector occupies a literal, non-wrapping interval of tiles: skip
		// any candidate start that would run off the end of the grid.
		if s+tiles > NumCrossbars {
			continue
		}

		regs = regs[:0]

		for reg := 0; reg < CrossbarR; reg++ {
			if a.runFree(reg, s, tiles) {
				regs = append(regs, reg)
				if len(regs) == m {
					return regs, s, true
				}
			}
		}
	}

	return nil, 0, false
}

// runFree reports whether every tile in [start, start+tiles) is free at
// register reg.
func (a *Allocator) runFree(reg int, start, tiles int64) bool {
	for crossbar := start; crossbar < start+tiles; crossbar++ {
		if a.used[reg][crossbar] {
			return false
		}
	}

	return true
}

func (a *Allocator) mark(reg int, start, tiles int64, value bool) {
	for crossbar := start; crossbar < start+tiles; crossbar++ {
		a.used[reg][crossbar] = value
	}
}
