package pim

// ops.go implements the element-wise arithmetic, bitwise, and comparison
// operator set. Each arithmetic, bitwise, Sign and Zero method allocates one
// fresh, zero-filled result vector and issues one gate over the receiver's
// tile range and current mask, exactly as original_source/pim/vector.h's
// operator overloads do. The comparisons compose a Sub gate with Sign
// and/or Zero (and, for Le and Ge, a BitwiseOr), so they issue several.

func (v *Vector[T]) newResult() (Vector[T], error) {
	return NewVector[T](v.m, v.n, 0)
}

func (v *Vector[T]) checkShape(other *Vector[T]) error {
	if v.addr.Empty() || other.addr.Empty() {
		return &MoveError{Op: "binary op"}
	}

	if v.n != other.n {
		return &ShapeError{Want: v.n, Got: other.n}
	}

	return nil
}

func (v *Vector[T]) arith(op ArithOp, other *Vector[T]) (Vector[T], error) {
	if err := v.checkShape(other); err != nil {
		return Vector[T]{}, err
	}

	res, err := v.newResult()
	if err != nil {
		return Vector[T]{}, err
	}

	v.m.driver.Arith(op, kindOf[T](), v.addr.Reg, other.addr.Reg, res.addr.Reg, v.tilesMask(), v.currMask)

	return res, nil
}

func (v *Vector[T]) unary(op UnaryOp) (Vector[T], error) {
	if v.addr.Empty() {
		return Vector[T]{}, &MoveError{Op: "unary op"}
	}

	res, err := v.newResult()
	if err != nil {
		return Vector[T]{}, err
	}

	v.m.driver.Unary(op, kindOf[T](), v.addr.Reg, res.addr.Reg, v.tilesMask(), v.currMask)

	return res, nil
}

func (v *Vector[T]) bitwiseBinary(op BitwiseOp, other *Vector[T]) (Vector[T], error) {
	if err := v.checkShape(other); err != nil {
		return Vector[T]{}, err
	}

	res, err := v.newResult()
	if err != nil {
		return Vector[T]{}, err
	}

	v.m.driver.Bitwise(op, v.addr.Reg, other.addr.Reg, res.addr.Reg, v.tilesMask(), v.currMask)

	return res, nil
}

// Add returns v + other, element-wise.
func (v *Vector[T]) Add(other *Vector[T]) (Vector[T], error) { return v.arith(OpAdd, other) }

// Sub returns v - other, element-wise.
func (v *Vector[T]) Sub(other *Vector[T]) (Vector[T], error) { return v.arith(OpSub, other) }

// Mul returns v * other, element-wise.
func (v *Vector[T]) Mul(other *Vector[T]) (Vector[T], error) { return v.arith(OpMul, other) }

// Div returns v / other, element-wise. Division semantics (including
// division by zero) are the Driver's contract and are not validated here.
func (v *Vector[T]) Div(other *Vector[T]) (Vector[T], error) { return v.arith(OpDiv, other) }

// Mod returns v % other, element-wise.
func (v *Vector[T]) Mod(other *Vector[T]) (Vector[T], error) { return v.arith(OpMod, other) }

// Negate returns -v, element-wise.
func (v *Vector[T]) Negate() (Vector[T], error) { return v.unary(OpNegate) }

// Abs returns the element-wise absolute value of v.
func (v *Vector[T]) Abs() (Vector[T], error) { return v.unary(OpAbsolute) }

// BitwiseNot returns the element-wise bitwise complement of v.
func (v *Vector[T]) BitwiseNot() (Vector[T], error) {
	if v.addr.Empty() {
		return Vector[T]{}, &MoveError{Op: "bitwise not"}
	}

	res, err := v.newResult()
	if err != nil {
		return Vector[T]{}, err
	}

	v.m.driver.Bitwise(OpBitwiseNot, v.addr.Reg, 0, res.addr.Reg, v.tilesMask(), v.currMask)

	return res, nil
}

// BitwiseAnd returns the element-wise bitwise AND of v and other.
func (v *Vector[T]) BitwiseAnd(other *Vector[T]) (Vector[T], error) {
	return v.bitwiseBinary(OpBitwiseAnd, other)
}

// BitwiseOr returns the element-wise bitwise OR of v and other.
func (v *Vector[T]) BitwiseOr(other *Vector[T]) (Vector[T], error) {
	return v.bitwiseBinary(OpBitwiseOr, other)
}

// BitwiseXor returns the element-wise bitwise XOR of v and other.
func (v *Vector[T]) BitwiseXor(other *Vector[T]) (Vector[T], error) {
	return v.bitwiseBinary(OpBitwiseXor, other)
}

// unaryInt returns a fresh Vector[int32] gated by a UnaryOp applied to v --
// the Sign and Zero gates, which change element type regardless of T.
func unaryInt[T Elem](v *Vector[T], op UnaryOp) (Vector[int32], error) {
	if v.addr.Empty() {
		return Vector[int32]{}, &MoveError{Op: "unary op"}
	}

	res, err := NewVector[int32](v.m, v.n, 0)
	if err != nil {
		return Vector[int32]{}, err
	}

	v.m.driver.Unary(op, kindOf[T](), v.addr.Reg, res.addr.Reg, v.tilesMask(), v.currMask)

	return res, nil
}

// Sign returns, per element, -1 if negative, 0 if positive, matching
// the reference's sign<T> gate.
func (v *Vector[T]) Sign() (Vector[int32], error) { return unaryInt(v, OpSign) }

// Zero returns, per element, 1 iff the element is zero, else 0.
func (v *Vector[T]) Zero() (Vector[int32], error) { return unaryInt(v, OpZero) }

// compare computes subtract(lhs, rhs) into a scratch vector, from which Lt
// et al. derive Sign/Zero. The caller supplies lhs/rhs in the order the
// reference specifies per comparison (Gt and Ge swap the operands of
// Subtract rather than negating the result).
func compare[T Elem](lhs, rhs *Vector[T]) (Vector[T], error) {
	if err := lhs.checkShape(rhs); err != nil {
		return Vector[T]{}, err
	}

	res, err := lhs.newResult()
	if err != nil {
		return Vector[T]{}, err
	}

	lhs.m.driver.Arith(OpSub, kindOf[T](), lhs.addr.Reg, rhs.addr.Reg, res.addr.Reg, lhs.tilesMask(), lhs.currMask)

	return res, nil
}

// Lt returns the element-wise sign of (v - other): -1 (truthy) where
// v < other, 0 (falsy) everywhere else -- matching the reference's reuse
// of Sign for "<".
func (v *Vector[T]) Lt(other *Vector[T]) (Vector[int32], error) {
	tmp, err := compare(v, other)
	if err != nil {
		return Vector[int32]{}, err
	}
	defer tmp.Release()

	return tmp.Sign()
}

// Le returns, per element, Sign(v-other) | Zero(v-other): nonzero iff
// v[i] <= other[i].
func (v *Vector[T]) Le(other *Vector[T]) (Vector[int32], error) {
	tmp, err := compare(v, other)
	if err != nil {
		return Vector[int32]{}, err
	}
	defer tmp.Release()

	sign, err := tmp.Sign()
	if err != nil {
		return Vector[int32]{}, err
	}
	defer sign.Release()

	zero, err := tmp.Zero()
	if err != nil {
		return Vector[int32]{}, err
	}
	defer zero.Release()

	return sign.BitwiseOr(&zero)
}

// Gt returns the element-wise sign of (other - v).
func (v *Vector[T]) Gt(other *Vector[T]) (Vector[int32], error) {
	tmp, err := compare(other, v)
	if err != nil {
		return Vector[int32]{}, err
	}
	defer tmp.Release()

	return tmp.Sign()
}

// Ge returns Sign(other-v) | Zero(other-v).
func (v *Vector[T]) Ge(other *Vector[T]) (Vector[int32], error) {
	tmp, err := compare(other, v)
	if err != nil {
		return Vector[int32]{}, err
	}
	defer tmp.Release()

	sign, err := tmp.Sign()
	if err != nil {
		return Vector[int32]{}, err
	}
	defer sign.Release()

	zero, err := tmp.Zero()
	if err != nil {
		return Vector[int32]{}, err
	}
	defer zero.Release()

	return sign.BitwiseOr(&zero)
}

// Eq returns Zero(v-other): 1 iff v[i] == other[i].
func (v *Vector[T]) Eq(other *Vector[T]) (Vector[int32], error) {
	tmp, err := compare(v, other)
	if err != nil {
		return Vector[int32]{}, err
	}
	defer tmp.Release()

	return tmp.Zero()
}
