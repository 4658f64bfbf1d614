package matching

import (
	"errors"
	"math"
)

var (
	ErrNotSquare           = errors.New("weight matrix is not square")
	ErrInvalidWeight       = errors.New("weight is NaN or infinite")
	ErrNoPerfectMatching   = errors.New("graph has no perfect matching")
	ErrOddNumberOfVertices = errors.New("odd number of vertices can not be perfectly matched")
)

// The largest scaled weight. Keeps every dual variable and slack
// comfortably inside int64.
const maxScaledWeight = float64(1 << 52)

// Blossom finds maximum weight perfect matchings on complete graphs
// given as weight matrices.
//
// The float weights are scaled to the integer range before solving
// so that the largest absolute weight maps to 2^52. Relative differences
// below that resolution are lost.
type Blossom struct{}

// Solve returns the index pairs of a maximum weight perfect matching on
// the complete graph whose edge weights are given by the square matrix.
// The diagonal is ignored. Asymmetric matrices are symmetrized by
// averaging weights[i][j] and weights[j][i].
//
// Each returned pair has the lower index first and the pairs are
// ordered by their first index.
func (Blossom) Solve(weights [][]float64) ([][2]int, error) {
	n := len(weights)
	for _, row := range weights {
		if len(row) != n {
			return nil, ErrNotSquare
		}
	}
	if n == 0 {
		return nil, nil
	}
	if n%2 != 0 {
		return nil, ErrOddNumberOfVertices
	}

	edges, err := scaledEdges(weights)
	if err != nil {
		return nil, err
	}

	mate := MaxWeightMatching(edges, true)

	pairs := make([][2]int, 0, n/2)
	for i, j := range mate {
		if j == -1 {
			return nil, ErrNoPerfectMatching
		}
		if i < j {
			pairs = append(pairs, [2]int{i, j})
		}
	}

	return pairs, nil
}

func scaledEdges(weights [][]float64) ([]Edge, error) {
	n := len(weights)

	maxAbs := 0.0
	for i := range n {
		for j := range n {
			if i == j {
				continue
			}
			w := weights[i][j]
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, ErrInvalidWeight
			}
			maxAbs = max(maxAbs, math.Abs(w))
		}
	}

	scale := 1.0
	if maxAbs > 0 {
		scale = maxScaledWeight / maxAbs
	}

	edges := make([]Edge, 0, n*(n-1)/2)
	for i := range n {
		for j := i + 1; j < n; j++ {
			w := (weights[i][j] + weights[j][i]) / 2
			edges = append(edges, Edge{U: i, V: j, Weight: int64(math.Round(w * scale))})
		}
	}

	return edges, nil
}
