package training

import "github.com/OldStager01/diapredict/internal/classifier"

type Config struct {
	DataPath  string
	TestRatio float64
	Seed      int64
	// CVFolds < 2 disables cross-validation.
	CVFolds    int
	GridSearch bool
	Candidates []string
	Logistic   classifier.LogisticConfig
	Forest     classifier.ForestConfig
}

func DefaultConfig() Config {
	return Config{
		DataPath:   "data/diabetes.csv",
		TestRatio:  0.2,
		Seed:       42,
		CVFolds:    5,
		Candidates: DefaultCandidates(),
		Logistic: classifier.LogisticConfig{
			C:       1.0,
			MaxIter: 1000,
		},
		Forest: classifier.ForestConfig{
			NEstimators:     100,
			MinSamplesSplit: 2,
		},
	}
}

// ProgressFunc is called before a multi-step fit with the number of steps.
// The returned tick is called once per step and done when the fit ends.
type ProgressFunc func(label string, total int) (tick func(), done func())
