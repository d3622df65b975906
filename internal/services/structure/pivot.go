package structure

// IsPivotHigh reports whether series[index] is a strict local maximum over
// the left bars before it and the right bars after it. An index without
// enough bars on either side is never a pivot. The comparison is strict:
// any neighbor equal to the candidate disqualifies it, so a flat series
// produces no pivots at all. Written as !(v > x) so a NaN on either side
// also disqualifies.
func IsPivotHigh(series []float64, left, right, index int) bool {
	if left < 0 || right < 0 {
		return false
	}
	if index < left || index >= len(series)-right {
		return false
	}
	v := series[index]
	for i := index - left; i < index; i++ {
		if !(v > series[i]) {
			return false
		}
	}
	for i := index + 1; i <= index+right; i++ {
		if !(v > series[i]) {
			return false
		}
	}
	return true
}

// IsPivotLow is the mirror of IsPivotHigh: the candidate must be strictly
// below every neighbor in the window.
func IsPivotLow(series []float64, left, right, index int) bool {
	if left < 0 || right < 0 {
		return false
	}
	if index < left || index >= len(series)-right {
		return false
	}
	v := series[index]
	for i := index - left; i < index; i++ {
		if !(v < series[i]) {
			return false
		}
	}
	for i := index + 1; i <= index+right; i++ {
		if !(v < series[i]) {
			return false
		}
	}
	return true
}
