package pimsim

import (
	"math"
	"testing"

	"github.com/oleitersdorf/CUDA-PIM/pim"
)

func TestReadWriteRoundTrip(t *testing.T) {
	t.Parallel()

	d := New()

	d.Write(3, 5, 7, 0xdeadbeef)

	if got := d.Read(3, 5, 7); got != 0xdeadbeef {
		t.Errorf("read: want 0xdeadbeef, got %#x", got)
	}

	if got := d.Read(3, 5, 8); got != 0 {
		t.Errorf("untouched cell: want 0, got %#x", got)
	}
}

func TestWriteMasked(t *testing.T) {
	t.Parallel()

	d := New()
	tiles := pim.RangeMask{Start: 2, Stop: 4, Step: 1}
	rows := pim.RangeMask{Start: 0, Stop: 2, Step: 1}

	d.WriteMasked(tiles, rows, 1, 42)

	for tile := int64(2); tile <= 4; tile++ {
		for row := int64(0); row <= 2; row++ {
			if got := d.Read(tile, 1, row); got != 42 {
				t.Errorf("tile %d row %d: want 42, got %d", tile, row, got)
			}
		}
	}

	if got := d.Read(5, 1, 0); got != 0 {
		t.Errorf("outside tile mask: want 0, got %d", got)
	}
}

func TestArithInt32(t *testing.T) {
	t.Parallel()

	d := New()
	one := pim.RangeMask{Start: 0, Stop: 0, Step: 1}

	d.Write(0, 0, 0, uint32(int32(7)))
	d.Write(0, 1, 0, uint32(int32(3)))

	cases := []struct {
		op   pim.ArithOp
		want int32
	}{
		{pim.OpAdd, 10},
		{pim.OpSub, 4},
		{pim.OpMul, 21},
		{pim.OpDiv, 2},
		{pim.OpMod, 1},
	}

	for _, c := range cases {
		d.Arith(c.op, pim.KindInt32, 0, 1, 2, one, one)

		if got := int32(d.Read(0, 2, 0)); got != c.want {
			t.Errorf("op %d: want %d, got %d", c.op, c.want, got)
		}
	}
}

func TestArithFloat32(t *testing.T) {
	t.Parallel()

	d := New()
	one := pim.RangeMask{Start: 0, Stop: 0, Step: 1}

	d.Write(0, 0, 0, math.Float32bits(1.5))
	d.Write(0, 1, 0, math.Float32bits(0.5))

	d.Arith(pim.OpAdd, pim.KindFloat32, 0, 1, 2, one, one)

	if got := math.Float32frombits(d.Read(0, 2, 0)); got != 2.0 {
		t.Errorf("float add: want 2.0, got %v", got)
	}
}

func TestUnarySignAndZero(t *testing.T) {
	t.Parallel()

	d := New()
	one := pim.RangeMask{Start: 0, Stop: 0, Step: 1}

	minusFive := int32(-5)
	d.Write(0, 0, 0, uint32(minusFive))
	d.Unary(pim.OpSign, pim.KindInt32, 0, 1, one, one)

	if got := int32(d.Read(0, 1, 0)); got != -1 {
		t.Errorf("sign(-5): want -1, got %d", got)
	}

	d.Write(0, 0, 0, uint32(int32(5)))
	d.Unary(pim.OpSign, pim.KindInt32, 0, 1, one, one)

	if got := int32(d.Read(0, 1, 0)); got != 0 {
		t.Errorf("sign(5): want 0, got %d", got)
	}

	d.Write(0, 0, 0, uint32(int32(0)))
	d.Unary(pim.OpZero, pim.KindInt32, 0, 1, one, one)

	if got := int32(d.Read(0, 1, 0)); got != 1 {
		t.Errorf("zero(0): want 1, got %d", got)
	}
}

func TestBitwiseNotAndCopy(t *testing.T) {
	t.Parallel()

	d := New()
	one := pim.RangeMask{Start: 0, Stop: 0, Step: 1}

	d.Write(0, 0, 0, 0x0000ffff)
	d.Bitwise(pim.OpBitwiseNot, 0, 0, 1, one, one)

	if got := d.Read(0, 1, 0); got != 0xffff0000 {
		t.Errorf("not: want 0xffff0000, got %#x", got)
	}

	d.Bitwise(pim.OpCopy, 0, 0, 2, one, one)

	if got := d.Read(0, 2, 0); got != 0x0000ffff {
		t.Errorf("copy: want 0x0000ffff, got %#x", got)
	}
}

func TestWarpMove(t *testing.T) {
	t.Parallel()

	d := New()
	tiles := pim.RangeMask{Start: 0, Stop: 1, Step: 1}

	d.Write(0, 0, 3, 99)
	d.Write(1, 0, 3, 88)

	d.WarpMove(3, 5, 0, tiles)

	if got := d.Read(0, 0, 5); got != 99 {
		t.Errorf("tile 0: want 99, got %d", got)
	}

	if got := d.Read(1, 0, 5); got != 88 {
		t.Errorf("tile 1: want 88, got %d", got)
	}
}

func TestWarpSizeDefault(t *testing.T) {
	t.Parallel()

	d := New()
	if got := d.WarpSize(); got != pim.CrossbarN {
		t.Errorf("want %d, got %d", pim.CrossbarN, got)
	}

	custom := NewWithWarpSize(8)
	if got := custom.WarpSize(); got != 8 {
		t.Errorf("want 8, got %d", got)
	}
}
