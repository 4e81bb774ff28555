// Package solvertest holds the brute force oracle shared by solver tests.
package solvertest

import (
	"math"
	"math/rand"

	"github.com/lintang-b-s/ridematch/pkg/pairset"
	"github.com/lintang-b-s/ridematch/pkg/weight"
)

// BestMatchingWeight enumerates every subset of pairs that is a matching and returns the
// largest total weight. Only usable for a handful of pairs.
func BestMatchingWeight(ps *pairset.PairSet) float64 {
	best := 0.0
	var rec func(k int, usedD, usedR map[int]bool, total float64)
	rec = func(k int, usedD, usedR map[int]bool, total float64) {
		if total > best {
			best = total
		}
		for i := k; i < len(ps.Pairs); i++ {
			p := ps.Pairs[i]
			if usedD[p.DriverIdx] || usedR[p.RiderIdx] {
				continue
			}
			usedD[p.DriverIdx], usedR[p.RiderIdx] = true, true
			w := p.Weight
			if ps.Scheme == weight.Unweighted {
				w = 1
			}
			rec(i+1, usedD, usedR, total+w)
			delete(usedD, p.DriverIdx)
			delete(usedR, p.RiderIdx)
		}
	}
	rec(0, map[int]bool{}, map[int]bool{}, 0)
	return best
}

// Matrix builds a pair set from a weight matrix; NaN cells are not candidates.
func Matrix(scheme weight.Scheme, w [][]float64) *pairset.PairSet {
	ps := &pairset.PairSet{Scheme: scheme, NumDrivers: len(w)}
	for d, row := range w {
		if len(row) > ps.NumRiders {
			ps.NumRiders = len(row)
		}
		for r, x := range row {
			if math.IsNaN(x) {
				continue
			}
			ps.Pairs = append(ps.Pairs, pairset.Pair{
				DriverIdx: d, RiderIdx: r,
				DriverID: int64(d + 1), RiderID: int64(100000 + r),
				Weight: x,
			})
		}
	}
	return ps
}

// RandomMatrix is an nd x nr matrix with weights in [-2, 10). Each cell is a candidate
// with probability density.
func RandomMatrix(rng *rand.Rand, nd, nr int, density float64) *pairset.PairSet {
	w := make([][]float64, nd)
	for d := range w {
		w[d] = make([]float64, nr)
		for r := range w[d] {
			if rng.Float64() < density {
				w[d][r] = float64(rng.Intn(1200))/100 - 2
			} else {
				w[d][r] = math.NaN()
			}
		}
	}
	return Matrix(weight.DistanceSavings, w)
}
