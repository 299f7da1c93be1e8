package karma

// Compare is the three-way interval comparator the registry's binary search
// runs on. It reports where a karma value sits relative to a range:
//
//	-1 before the range (v < r.Min)
//	 0 within the range (r.Min <= v <= r.Max, closed on both ends)
//	+1 after the range
//
// Infinite bounds participate normally: every finite value is less than
// +Inf and greater than -Inf.
func Compare(v float64, r Range) int {
	switch {
	case v < r.Min:
		return -1
	case v <= r.Max:
		return 0
	default:
		return 1
	}
}
