package cry

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ForestParams selects one hyperparameter combination for the ensemble.
type ForestParams struct {
	Trees           int `json:"trees"`
	MaxDepth        int `json:"maxDepth"`
	MinSamplesSplit int `json:"minSamplesSplit"`
	MinSamplesLeaf  int `json:"minSamplesLeaf"`
}

// DefaultForestParams returns a reasonable combination for direct
// training without a grid search.
func DefaultForestParams() ForestParams {
	return ForestParams{
		Trees:           200,
		MaxDepth:        15,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

// Forest is an ensemble of Gini decision trees. Each tree trains on a
// bootstrap resample and splits over a random subset of sqrt(d)
// features. Sample weights are class-balanced so minority classes keep
// their influence on the splits. The same seed always grows the same
// trees.
type Forest struct {
	Params     ForestParams
	NumClasses int
	Seed       int64
	trees      []*treeNode
}

// treeNode is one decision tree node. A node with a nil left child is a
// leaf holding the majority class.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	class     int
}

// NewForest validates the hyperparameters and returns an untrained
// ensemble. MaxDepth zero or below means unbounded depth.
func NewForest(params ForestParams, numClasses int, seed int64) (*Forest, error) {
	if params.Trees <= 0 {
		return nil, fmt.Errorf("invalid tree count: %d", params.Trees)
	}
	if params.MinSamplesSplit < 2 {
		return nil, fmt.Errorf("invalid min samples split: %d", params.MinSamplesSplit)
	}
	if params.MinSamplesLeaf < 1 {
		return nil, fmt.Errorf("invalid min samples leaf: %d", params.MinSamplesLeaf)
	}
	if numClasses < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", numClasses)
	}

	return &Forest{
		Params:     params,
		NumClasses: numClasses,
		Seed:       seed,
	}, nil
}

// Fit grows the ensemble from the training rows.
func (f *Forest) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 {
		return fmt.Errorf("no training rows")
	}
	if len(features) != len(labels) {
		return fmt.Errorf("feature and label counts differ: %d vs %d", len(features), len(labels))
	}

	counts := make([]int, f.NumClasses)
	for _, label := range labels {
		if label < 0 || label >= f.NumClasses {
			return fmt.Errorf("label code %d out of range [0,%d)", label, f.NumClasses)
		}
		counts[label]++
	}

	present := 0
	for _, c := range counts {
		if c > 0 {
			present++
		}
	}

	// Balanced weighting: n / (numPresentClasses * classCount).
	weights := make([]float64, len(labels))
	for i, label := range labels {
		weights[i] = float64(len(labels)) / (float64(present) * float64(counts[label]))
	}

	f.trees = make([]*treeNode, f.Params.Trees)
	for t := 0; t < f.Params.Trees; t++ {
		rng := rand.New(rand.NewSource(f.Seed + int64(t)))

		indices := make([]int, len(features))
		for i := range indices {
			indices[i] = rng.Intn(len(features))
		}

		f.trees[t] = f.growTree(features, labels, weights, indices, 0, rng)
	}

	return nil
}

// growTree builds one decision tree recursively.
func (f *Forest) growTree(features [][]float64, labels []int, weights []float64, indices []int, depth int, rng *rand.Rand) *treeNode {
	classWeights := make([]float64, f.NumClasses)
	distinct := 0
	for _, i := range indices {
		if classWeights[labels[i]] == 0 {
			distinct++
		}
		classWeights[labels[i]] += weights[i]
	}

	if distinct <= 1 ||
		len(indices) < f.Params.MinSamplesSplit ||
		(f.Params.MaxDepth > 0 && depth >= f.Params.MaxDepth) {
		return &treeNode{class: weightedMajority(classWeights)}
	}

	feature, threshold, ok := f.bestSplit(features, labels, weights, indices, rng)
	if !ok {
		return &treeNode{class: weightedMajority(classWeights)}
	}

	var left, right []int
	for _, i := range indices {
		if features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      f.growTree(features, labels, weights, left, depth+1, rng),
		right:     f.growTree(features, labels, weights, right, depth+1, rng),
	}
}

// bestSplit scans a random sqrt(d) feature subset for the threshold with
// the lowest weighted Gini impurity. Children smaller than
// MinSamplesLeaf are rejected.
func (f *Forest) bestSplit(features [][]float64, labels []int, weights []float64, indices []int, rng *rand.Rand) (int, float64, bool) {
	dims := len(features[indices[0]])
	subset := rng.Perm(dims)
	k := int(math.Sqrt(float64(dims)))
	if k < 1 {
		k = 1
	}
	subset = subset[:k]

	type entry struct {
		value  float64
		class  int
		weight float64
	}

	totalWeights := make([]float64, f.NumClasses)
	var totalWeight float64
	for _, i := range indices {
		totalWeights[labels[i]] += weights[i]
		totalWeight += weights[i]
	}

	bestScore := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	entries := make([]entry, len(indices))
	for _, dim := range subset {
		for p, i := range indices {
			entries[p] = entry{value: features[i][dim], class: labels[i], weight: weights[i]}
		}
		sort.Slice(entries, func(a, b int) bool {
			if entries[a].value != entries[b].value {
				return entries[a].value < entries[b].value
			}
			return entries[a].class < entries[b].class
		})

		leftWeights := make([]float64, f.NumClasses)
		var leftWeight float64
		for p := 0; p < len(entries)-1; p++ {
			leftWeights[entries[p].class] += entries[p].weight
			leftWeight += entries[p].weight

			if entries[p].value == entries[p+1].value {
				continue
			}
			if p+1 < f.Params.MinSamplesLeaf || len(entries)-p-1 < f.Params.MinSamplesLeaf {
				continue
			}

			rightWeight := totalWeight - leftWeight
			giniLeft, giniRight := 1.0, 1.0
			for c := 0; c < f.NumClasses; c++ {
				if leftWeight > 0 {
					frac := leftWeights[c] / leftWeight
					giniLeft -= frac * frac
				}
				rightFrac := (totalWeights[c] - leftWeights[c]) / rightWeight
				giniRight -= rightFrac * rightFrac
			}

			score := (leftWeight*giniLeft + rightWeight*giniRight) / totalWeight
			if score < bestScore {
				bestScore = score
				bestFeature = dim
				bestThreshold = (entries[p].value + entries[p+1].value) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// Votes returns the per-class vote counts across all trees.
func (f *Forest) Votes(features []float64) ([]int, error) {
	if len(f.trees) == 0 {
		return nil, fmt.Errorf("forest not fitted")
	}

	votes := make([]int, f.NumClasses)
	for _, tree := range f.trees {
		votes[tree.predict(features)]++
	}
	return votes, nil
}

// Predict returns the majority-vote class. Ties break on the lowest
// class code.
func (f *Forest) Predict(features []float64) (int, error) {
	votes, err := f.Votes(features)
	if err != nil {
		return 0, err
	}
	return argmaxInt(votes), nil
}

// PredictWithConfidence returns the majority class and the fraction of
// trees that voted for it.
func (f *Forest) PredictWithConfidence(features []float64) (int, float64, error) {
	votes, err := f.Votes(features)
	if err != nil {
		return 0, 0, err
	}
	best := argmaxInt(votes)
	return best, float64(votes[best]) / float64(len(f.trees)), nil
}

// PredictBatch classifies every row.
func (f *Forest) PredictBatch(rows [][]float64) ([]int, error) {
	out := make([]int, len(rows))
	for i, row := range rows {
		class, err := f.Predict(row)
		if err != nil {
			return nil, err
		}
		out[i] = class
	}
	return out, nil
}

// predict walks one tree down to a leaf.
func (n *treeNode) predict(features []float64) int {
	for n.left != nil {
		if features[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.class
}

// weightedMajority returns the heaviest class, lowest code first on
// ties.
func weightedMajority(classWeights []float64) int {
	best := 0
	for c := 1; c < len(classWeights); c++ {
		if classWeights[c] > classWeights[best] {
			best = c
		}
	}
	return best
}

// argmaxInt returns the index of the largest count, lowest index first
// on ties.
func argmaxInt(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}
