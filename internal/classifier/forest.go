package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

type ForestConfig struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	// MaxFeatures <= 0 uses floor(sqrt(width)).
	MaxFeatures int
	Seed        int64
	// Workers bounds the number of trees fitted concurrently.
	Workers int
	// Progress, when set, is called once per fitted tree. It may be called
	// from several goroutines at once.
	Progress func()
}

// RandomForest averages the leaf probabilities of bootstrapped CART trees.
type RandomForest struct {
	NEstimators     int             `json:"n_estimators"`
	MaxDepth        int             `json:"max_depth"`
	MinSamplesSplit int             `json:"min_samples_split"`
	MaxFeatures     int             `json:"max_features"`
	Seed            int64           `json:"seed"`
	NumFeatures     int             `json:"num_features"`
	Trees           []*DecisionTree `json:"trees"`
	Importances     []float64       `json:"importances"`

	workers  int
	progress func()
}

func NewRandomForest(cfg ForestConfig) *RandomForest {
	if cfg.NEstimators <= 0 {
		cfg.NEstimators = 100
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &RandomForest{
		NEstimators:     cfg.NEstimators,
		MaxDepth:        cfg.MaxDepth,
		MinSamplesSplit: cfg.MinSamplesSplit,
		MaxFeatures:     cfg.MaxFeatures,
		Seed:            cfg.Seed,
		workers:         cfg.Workers,
		progress:        cfg.Progress,
	}
}

func (f *RandomForest) Kind() string { return KindRandomForest }

// Fit grows NEstimators trees in parallel. Each tree draws its bootstrap
// sample and feature order from its own RNG, seeded from Seed, so the result
// does not depend on scheduling.
func (f *RandomForest) Fit(rows [][]float64, labels []int) error {
	width, err := checkTrainingInput(rows, labels)
	if err != nil {
		return err
	}

	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(width)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	master := rand.New(rand.NewSource(f.Seed))
	seeds := make([]int64, f.NEstimators)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	workers := f.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]*DecisionTree, f.NEstimators)
	p := pool.New().WithErrors().WithMaxGoroutines(workers)
	for i := range trees {
		i := i
		p.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[i]))
			sample := make([]int, len(rows))
			for k := range sample {
				sample[k] = rng.Intn(len(rows))
			}

			tree := NewDecisionTree(TreeConfig{
				MaxDepth:        f.MaxDepth,
				MinSamplesSplit: f.MinSamplesSplit,
				MaxFeatures:     maxFeatures,
				Seed:            seeds[i],
			})
			if err := tree.fitSample(rows, labels, sample, rng); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
			trees[i] = tree

			if f.progress != nil {
				f.progress()
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	importances := make([]float64, width)
	for _, tree := range trees {
		for j, v := range tree.Importances {
			importances[j] += v
		}
	}
	for j := range importances {
		importances[j] /= float64(len(trees))
	}

	f.Trees = trees
	f.NumFeatures = width
	f.Importances = normalize(importances)
	return nil
}

func (f *RandomForest) PredictProba(row []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, ErrNotFitted
	}
	if len(row) != f.NumFeatures {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureWidth, len(row), f.NumFeatures)
	}
	var sum float64
	for _, tree := range f.Trees {
		p, err := tree.PredictProba(row)
		if err != nil {
			return 0, err
		}
		sum += p
	}
	return sum / float64(len(f.Trees)), nil
}

func (f *RandomForest) Predict(row []float64) (int, error) {
	return predictFromProba(f, row)
}

// FeatureImportances returns the mean decrease in impurity per feature,
// normalised to sum to one.
func (f *RandomForest) FeatureImportances() []float64 {
	return append([]float64(nil), f.Importances...)
}

func (f *RandomForest) validate() error {
	if len(f.Trees) == 0 {
		return errors.New("no trees")
	}
	for i, tree := range f.Trees {
		if tree == nil {
			return fmt.Errorf("tree %d is empty", i)
		}
		if err := tree.validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
		if tree.NumFeatures != f.NumFeatures {
			return fmt.Errorf("tree %d expects %d features, forest %d", i, tree.NumFeatures, f.NumFeatures)
		}
	}
	return nil
}
