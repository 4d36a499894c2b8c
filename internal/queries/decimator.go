package queries

// decimationStride returns the sampling stride needed to fit total points
// into budget. A stride of 1 means no decimation.
func decimationStride(total, budget int) int {
	if budget <= 0 || total <= budget {
		return 1
	}
	// ceil(total / budget)
	return (total + budget - 1) / budget
}

// decimateInt64 keeps every stride-th element starting from the first.
// The output is a subsequence of the input.
func decimateInt64(values []int64, stride int) []int64 {
	if stride <= 1 {
		return values
	}
	out := make([]int64, 0, (len(values)+stride-1)/stride)
	for i := 0; i < len(values); i += stride {
		out = append(out, values[i])
	}
	return out
}

// decimateFloat64 keeps every stride-th element starting from the first.
func decimateFloat64(values []float64, stride int) []float64 {
	if stride <= 1 {
		return values
	}
	out := make([]float64, 0, (len(values)+stride-1)/stride)
	for i := 0; i < len(values); i += stride {
		out = append(out, values[i])
	}
	return out
}
