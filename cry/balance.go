package cry

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// smoteNeighbors is the interpolation pool size, capped at class size
// minus one.
const smoteNeighbors = 5

// Oversample balances the class distribution by synthesising minority
// rows until every class matches the majority count. Each synthetic row
// interpolates between a class member and one of its nearest same-class
// neighbours. Originals are never modified; synthetic rows are appended
// after them. The same seed always yields the same rows.
func Oversample(features [][]float64, labels []int, seed int64) ([][]float64, []int, error) {
	if len(features) != len(labels) {
		return nil, nil, fmt.Errorf("feature and label counts differ: %d vs %d", len(features), len(labels))
	}
	if len(features) == 0 {
		return nil, nil, fmt.Errorf("empty dataset")
	}

	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	majority := 0
	for _, idx := range byClass {
		if len(idx) > majority {
			majority = len(idx)
		}
	}

	outX := make([][]float64, len(features), majority*len(byClass))
	copy(outX, features)
	outY := make([]int, len(labels), majority*len(byClass))
	copy(outY, labels)

	classes := make([]int, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	for _, label := range classes {
		idx := byClass[label]
		needed := majority - len(idx)
		if needed == 0 {
			continue
		}

		neighbors := nearestNeighbors(features, idx, smoteNeighbors)
		for s := 0; s < needed; s++ {
			base := idx[rng.Intn(len(idx))]
			row := make([]float64, len(features[base]))

			pool := neighbors[base]
			if len(pool) == 0 {
				// Single-member class, fall back to duplication.
				copy(row, features[base])
			} else {
				neighbor := pool[rng.Intn(len(pool))]
				gap := rng.Float64()
				for j := range row {
					row[j] = features[base][j] + gap*(features[neighbor][j]-features[base][j])
				}
			}

			outX = append(outX, row)
			outY = append(outY, label)
		}
	}

	return outX, outY, nil
}

// nearestNeighbors returns, for each index in idx, up to k same-class
// neighbours ordered by euclidean distance. Ties break on index so the
// ordering is deterministic.
func nearestNeighbors(features [][]float64, idx []int, k int) map[int][]int {
	type cand struct {
		index int
		dist  float64
	}

	out := make(map[int][]int, len(idx))
	for _, i := range idx {
		cands := make([]cand, 0, len(idx)-1)
		for _, j := range idx {
			if i == j {
				continue
			}
			cands = append(cands, cand{index: j, dist: euclideanDistance(features[i], features[j])})
		}

		sort.Slice(cands, func(a, b int) bool {
			if cands[a].dist != cands[b].dist {
				return cands[a].dist < cands[b].dist
			}
			return cands[a].index < cands[b].index
		})

		n := k
		if n > len(cands) {
			n = len(cands)
		}
		pool := make([]int, n)
		for p := 0; p < n; p++ {
			pool[p] = cands[p].index
		}
		out[i] = pool
	}

	return out
}

// euclideanDistance computes the L2 distance between two equal-length
// vectors.
func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
