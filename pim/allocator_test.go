package pim

import (
	"errors"
	"testing"
)

func TestAllocateSingleTile(t *testing.T) {
	t.Parallel()

	a := NewAllocator()

	addr, err := a.Allocate(10, CrossbarN)
	if err != nil {
		t.Fatalf("allocate: %s", err)
	}

	if addr.NumTiles() != 1 {
		t.Errorf("tiles: want 1, got %d", addr.NumTiles())
	}

	if addr.Empty() {
		t.Errorf("address reports empty after allocation")
	}
}

func TestAllocateMultiTile(t *testing.T) {
	t.Parallel()

	a := NewAllocator()

	addr, err := a.Allocate(CrossbarN*3+1, CrossbarN)
	if err != nil {
		t.Fatalf("allocate: %s", err)
	}

	if want := int64(4); addr.NumTiles() != want {
		t.Errorf("tiles: want %d, got %d", want, addr.NumTiles())
	}
}

func TestAllocateDistinctRegisters(t *testing.T) {
	t.Parallel()

	a := NewAllocator()

	first, err := a.Allocate(1, CrossbarN)
	if err != nil {
		t.Fatalf("allocate: %s", err)
	}

	second, err := a.Allocate(1, CrossbarN)
	if err != nil {
		t.Fatalf("allocate: %s", err)
	}

	if first.Reg == second.Reg && first.StartArray == second.StartArray {
		t.Errorf("two live allocations collide: %s, %s", first, second)
	}
}

func TestFreeThenReallocate(t *testing.T) {
	t.Parallel()

	a := NewAllocator()

	addr, err := a.Allocate(1, CrossbarN)
	if err != nil {
		t.Fatalf("allocate: %s", err)
	}

	a.Free(addr)

	again, err := a.Allocate(1, CrossbarN)
	if err != nil {
		t.Fatalf("reallocate after free: %s", err)
	}

	if again.Empty() {
		t.Errorf("reallocated address reports empty")
	}
}

func TestFreeEmptyAddressIsNoOp(t *testing.T) {
	t.Parallel()

	a := NewAllocator()
	a.Free(Address{Reg: noReg})
}

func TestAllocateMultiSharesTileRange(t *testing.T) {
	t.Parallel()

	a := NewAllocator()

	addrs, err := a.AllocateMulti(CrossbarN+1, 3, CrossbarN)
	if err != nil {
		t.Fatalf("allocate multi: %s", err)
	}

	if len(addrs) != 3 {
		t.Fatalf("want 3 addresses, got %d", len(addrs))
	}

	seen := map[int]bool{}

	for _, addr := range addrs {
		if addr.StartArray != addrs[0].StartArray || addr.EndArray != addrs[0].EndArray {
			t.Errorf("tile range mismatch: %s vs %s", addr, addrs[0])
		}

		if seen[addr.Reg] {
			t.Errorf("duplicate register %d in multi-allocation", addr.Reg)
		}

		seen[addr.Reg] = true
	}
}

// TestAllocateExhaustsGridThenFails marks every crossbar used at every
// register index and expects the next single-tile request to fail with
// ErrOutOfMemory: the register grid has no free single-register run left.
func TestAllocateExhaustsGridThenFails(t *testing.T) {
	t.Parallel()

	a := NewAllocator()

	for reg := 0; reg < CrossbarR; reg++ {
		a.mark(reg, 0, NumCrossbars, true)
	}

	if _, err := a.Allocate(1, CrossbarN); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("want ErrOutOfMemory, got %v", err)
	}
}

// TestAllocateFreeLoopAroundGrid exercises 2*NUM_CROSSBARS sequential
// allocate/free cycles of a single tile: each Allocate should succeed, since
// the previous tile is always freed before the next request and is found
// free again at the rotating cursor.
func TestAllocateFreeLoopAroundGrid(t *testing.T) {
	t.Parallel()

	a := NewAllocator()

	for i := 0; i < NumCrossbars*2; i++ {
		addr, err := a.Allocate(1, CrossbarN)
		if err != nil {
			t.Fatalf("iteration %d: allocate: %s", i, err)
		}

		a.Free(addr)
	}
}

func TestAllocatorWraparoundAtCursorZero(t *testing.T) {
	t.Parallel()

	a := NewAllocator()

	// Fill every crossbar below the last one at every register and leave
	// the cursor at 0: the only free run is the final crossbar, which the
	// search reaches only if a full revolution from cursor 0 checks every
	// start through NumCrossbars-1.
	for reg := 0; reg < CrossbarR; reg++ {
		a.mark(reg, 0, NumCrossbars-1, true)
	}

	a.lastCrossbar = 0

	addr, err := a.Allocate(1, CrossbarN)
	if err != nil {
		t.Fatalf("allocate: %s", err)
	}

	if addr.Reg != 0 {
		t.Errorf("reg: want 0, got %d", addr.Reg)
	}

	if addr.StartArray != NumCrossbars-1 {
		t.Errorf("start: want %d, got %d", NumCrossbars-1, addr.StartArray)
	}
}
