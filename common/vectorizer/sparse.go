package vectorizer

import "gonum.org/v1/gonum/floats"

// SparseVector is a fixed-dimension vector storing only its non-zero components.
// Indices are strictly increasing.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// NNZ returns the number of stored components
func (sv SparseVector) NNZ() int {
	return len(sv.Indices)
}

// IsZero reports whether every component is zero
func (sv SparseVector) IsZero() bool {
	for _, v := range sv.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

// At returns the component at column i
func (sv SparseVector) At(i int) float64 {
	for k, idx := range sv.Indices {
		if idx == i {
			return sv.Values[k]
		}
		if idx > i {
			break
		}
	}
	return 0
}

// Dense expands the vector into a slice of length Dim
func (sv SparseVector) Dense() []float64 {
	dense := make([]float64, sv.Dim)
	for k, idx := range sv.Indices {
		dense[idx] = sv.Values[k]
	}
	return dense
}

// L2Norm returns the euclidean norm of the vector
func (sv SparseVector) L2Norm() float64 {
	if len(sv.Values) == 0 {
		return 0
	}
	return floats.Norm(sv.Values, 2)
}
