package cry

import (
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sort"
	"sync"
)

// DefaultCVFolds is the cross-validation fold count for model selection.
const DefaultCVFolds = 3

// ParamGrid enumerates the hyperparameter search space.
type ParamGrid struct {
	Trees           []int
	MaxDepths       []int
	MinSamplesSplit []int
	MinSamplesLeaf  []int
}

// DefaultParamGrid returns the compiled-in search space: 81 combinations
// searched exhaustively.
func DefaultParamGrid() ParamGrid {
	return ParamGrid{
		Trees:           []int{100, 200, 300},
		MaxDepths:       []int{10, 15, 20},
		MinSamplesSplit: []int{2, 5, 10},
		MinSamplesLeaf:  []int{1, 2, 4},
	}
}

// Combinations expands the grid in declaration order. Ties during model
// selection resolve to the earliest combination.
func (g ParamGrid) Combinations() []ForestParams {
	var combos []ForestParams
	for _, trees := range g.Trees {
		for _, depth := range g.MaxDepths {
			for _, split := range g.MinSamplesSplit {
				for _, leaf := range g.MinSamplesLeaf {
					combos = append(combos, ForestParams{
						Trees:           trees,
						MaxDepth:        depth,
						MinSamplesSplit: split,
						MinSamplesLeaf:  leaf,
					})
				}
			}
		}
	}
	return combos
}

// SearchResult holds the cross-validated score of one combination.
type SearchResult struct {
	Params     ForestParams `json:"params"`
	MeanScore  float64      `json:"meanScore"`
	FoldScores []float64    `json:"foldScores"`
}

// GridSearch scores every grid combination with stratified k-fold
// cross-validation on mean accuracy and returns the winner plus all
// results in grid order. Combinations are evaluated concurrently, one
// worker per CPU.
func GridSearch(features [][]float64, labels []int, numClasses int, grid ParamGrid, folds int, seed int64) (SearchResult, []SearchResult, error) {
	if len(features) == 0 {
		return SearchResult{}, nil, fmt.Errorf("no training rows")
	}
	if folds < 2 {
		return SearchResult{}, nil, fmt.Errorf("need at least 2 folds, got %d", folds)
	}

	combos := grid.Combinations()
	if len(combos) == 0 {
		return SearchResult{}, nil, fmt.Errorf("empty parameter grid")
	}

	foldIndices := stratifiedKFold(labels, folds, seed)

	type job struct {
		index  int
		params ForestParams
	}
	type outcome struct {
		index  int
		result SearchResult
		err    error
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(combos) {
		numWorkers = len(combos)
	}

	jobs := make(chan job)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				mean, scores, err := crossValidate(features, labels, numClasses, foldIndices, j.params, seed)
				outcomes <- outcome{
					index:  j.index,
					result: SearchResult{Params: j.params, MeanScore: mean, FoldScores: scores},
					err:    err,
				}
			}
		}()
	}

	go func() {
		for i, params := range combos {
			jobs <- job{index: i, params: params}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	all := make([]SearchResult, len(combos))
	completed := 0
	var firstErr error
	for o := range outcomes {
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		all[o.index] = o.result
		completed++
		log.Printf("  [%d/%d] trees=%d depth=%d split=%d leaf=%d -> accuracy %.4f",
			completed, len(combos),
			o.result.Params.Trees, o.result.Params.MaxDepth,
			o.result.Params.MinSamplesSplit, o.result.Params.MinSamplesLeaf,
			o.result.MeanScore)
	}
	if firstErr != nil {
		return SearchResult{}, nil, firstErr
	}

	best := all[0]
	for _, res := range all[1:] {
		if res.MeanScore > best.MeanScore {
			best = res
		}
	}

	return best, all, nil
}

// crossValidate trains one combination on every fold split and returns
// the mean held-out accuracy. Empty folds are skipped.
func crossValidate(features [][]float64, labels []int, numClasses int, foldIndices [][]int, params ForestParams, seed int64) (float64, []float64, error) {
	var scores []float64

	for f, test := range foldIndices {
		if len(test) == 0 {
			continue
		}

		var trainX [][]float64
		var trainY []int
		for g, fold := range foldIndices {
			if g == f {
				continue
			}
			for _, i := range fold {
				trainX = append(trainX, features[i])
				trainY = append(trainY, labels[i])
			}
		}
		if len(trainX) == 0 {
			continue
		}

		forest, err := NewForest(params, numClasses, seed)
		if err != nil {
			return 0, nil, err
		}
		if err := forest.Fit(trainX, trainY); err != nil {
			return 0, nil, err
		}

		correct := 0
		for _, i := range test {
			class, err := forest.Predict(features[i])
			if err != nil {
				return 0, nil, err
			}
			if class == labels[i] {
				correct++
			}
		}
		scores = append(scores, float64(correct)/float64(len(test)))
	}

	if len(scores) == 0 {
		return 0, nil, fmt.Errorf("no scorable folds")
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), scores, nil
}

// stratifiedKFold deals each class round-robin into k folds after a
// seeded shuffle, so fold class ratios track the dataset.
func stratifiedKFold(labels []int, k int, seed int64) [][]int {
	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]int, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Ints(classes)

	folds := make([][]int, k)
	rng := rand.New(rand.NewSource(seed))
	for _, label := range classes {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(a, b int) {
			idx[a], idx[b] = idx[b], idx[a]
		})
		for p, i := range idx {
			folds[p%k] = append(folds[p%k], i)
		}
	}

	return folds
}
