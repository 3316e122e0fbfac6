package mathx

// FloorDiv returns floor(a/b), or 0 when b is 0. Division by zero is not a
// panic-worthy event in firmware maths; callers treat 0 as "no full chunks".
func FloorDiv[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if b == 0 {
		return 0
	}
	return a / b
}

// Clamp pins v to [lo, hi].
func Clamp[T ~int | ~int32 | ~int64 | ~float32 | ~float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
