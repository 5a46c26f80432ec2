package pim

// algo.go implements the three algorithmic primitives built on top of the
// vector layer, ported line-for-line from original_source/pim/algorithm.h. All three
// are built exclusively from Vector methods and WarpMove; none issues a
// Driver call directly.

// Sum computes the reduction sum of x: a logarithmic-depth intra-warp
// reduction followed by a linear inter-warp fold performed on the host.
// The result is deterministic for a given warp size and vector size, but
// is not, in general, equal to a naive left-fold for non-associative
// element types (floats).
func Sum[T Elem](x *Vector[T]) (T, error) {
	var zero T

	z, err := x.Copy()
	if err != nil {
		return zero, err
	}
	defer z.Release()

	ws := x.warpSize()

	for j := int64(0); (int64(1) << j) < ws; j++ {
		y, err := z.Copy()
		if err != nil {
			return zero, err
		}

		half := ws >> (j + 1)
		for i := int64(0); i < half; i++ {
			y.WarpMove(i+half, i)
		}

		sum, err := z.Add(&y)
		y.Release()

		if err != nil {
			return zero, err
		}

		z.Release()
		z = sum
	}

	// Inter-warp reduction: lane 0 of every warp now holds that warp's
	// sum; fold those lanes on the host.
	output, err := z.At(0)
	if err != nil {
		return zero, err
	}

	for i := ws; i < z.Size(); i += ws {
		elem, err := z.At(i)
		if err != nil {
			return zero, err
		}

		output += elem
	}

	return output, nil
}

// WarpBroadcast allocates a copy-shaped result and broadcasts lane 0 of
// every warp to all other lanes in that warp.
func WarpBroadcast[T Elem](x *Vector[T]) (Vector[T], error) {
	out, err := x.Copy()
	if err != nil {
		return Vector[T]{}, err
	}

	ws := out.warpSize()
	for i := int64(1); i < ws; i++ {
		out.WarpMove(0, i)
	}

	return out, nil
}

// WarpShift allocates a fresh result and rotates every warp's lanes by
// distance: a positive distance shifts lanes toward higher indices, a
// negative distance toward lower indices. Lanes that rotate in from
// outside [0, warpSize) receive unspecified contents; callers that need a
// clean edge (e.g., the convolution test in pim/algo_test.go) overwrite it
// explicitly with Set, exactly as the reference's matrix convolution does.
func WarpShift[T Elem](x *Vector[T], distance int64) (Vector[T], error) {
	if distance == 0 {
		return x.Copy()
	}

	out, err := x.Copy()
	if err != nil {
		return Vector[T]{}, err
	}

	ws := out.warpSize()

	if distance > 0 {
		for i := ws - distance - 1; i >= 0; i-- {
			out.WarpMove(i, i+distance)
		}
	} else {
		for i := -distance; i < ws; i++ {
			out.WarpMove(i, i+distance)
		}
	}

	return out, nil
}
