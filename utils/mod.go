package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

type number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

func Sum[T number](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns 0 for an empty slice
func Mean[T number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(Sum(values)) / float64(len(values))
}
