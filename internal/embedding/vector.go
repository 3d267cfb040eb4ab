package embedding

import "math"

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// HasVector reports whether v is non-empty with a finite, non-zero norm.
func HasVector(v []float32) bool {
	n := Norm(v)
	return n > 0 && !math.IsInf(n, 0) && !math.IsNaN(n)
}

// Cosine returns the cosine similarity of a and b. Vectors of different
// length, or with zero norm, score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// Rounding can push s slightly outside the range.
	return math.Max(-1, math.Min(1, s))
}
