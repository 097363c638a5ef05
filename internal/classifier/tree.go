package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

type TreeConfig struct {
	// MaxDepth <= 0 grows until leaves are pure.
	MaxDepth        int
	MinSamplesSplit int
	// MaxFeatures is the number of candidate features per split; <= 0
	// considers all of them.
	MaxFeatures int
	Seed        int64
}

// TreeNode is one entry of the flattened tree. Children are indices into
// DecisionTree.Nodes.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Samples   int     `json:"samples"`
	Leaf      bool    `json:"leaf"`
}

// DecisionTree is a CART classifier using gini impurity.
type DecisionTree struct {
	Nodes           []TreeNode `json:"nodes"`
	Importances     []float64  `json:"importances"`
	NumFeatures     int        `json:"num_features"`
	MaxDepth        int        `json:"max_depth"`
	MinSamplesSplit int        `json:"min_samples_split"`
	MaxFeatures     int        `json:"max_features"`
	Seed            int64      `json:"seed"`
}

func NewDecisionTree(cfg TreeConfig) *DecisionTree {
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	return &DecisionTree{
		MaxDepth:        cfg.MaxDepth,
		MinSamplesSplit: cfg.MinSamplesSplit,
		MaxFeatures:     cfg.MaxFeatures,
		Seed:            cfg.Seed,
	}
}

func (t *DecisionTree) Kind() string { return KindDecisionTree }

func (t *DecisionTree) Fit(rows [][]float64, labels []int) error {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	return t.fitSample(rows, labels, idx, rand.New(rand.NewSource(t.Seed)))
}

// fitSample grows the tree on the rows listed in sample. Duplicate indices
// act as bootstrap weights.
func (t *DecisionTree) fitSample(rows [][]float64, labels []int, sample []int, rng *rand.Rand) error {
	width, err := checkTrainingInput(rows, labels)
	if err != nil {
		return err
	}
	if len(sample) == 0 {
		return fmt.Errorf("%w: empty sample", ErrInvalidInput)
	}

	t.NumFeatures = width
	t.Nodes = t.Nodes[:0]
	importances := make([]float64, width)

	b := &treeBuilder{
		tree:        t,
		rows:        rows,
		labels:      labels,
		rng:         rng,
		importances: importances,
	}
	b.build(append([]int(nil), sample...), 0)

	t.Importances = normalize(importances)
	return nil
}

func (t *DecisionTree) PredictProba(row []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, ErrNotFitted
	}
	if len(row) != t.NumFeatures {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureWidth, len(row), t.NumFeatures)
	}
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Value, nil
		}
		if row[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		if idx <= 0 || idx >= len(t.Nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

func (t *DecisionTree) Predict(row []float64) (int, error) {
	return predictFromProba(t, row)
}

func (t *DecisionTree) FeatureImportances() []float64 {
	return append([]float64(nil), t.Importances...)
}

func (t *DecisionTree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(idx int) int
	walk = func(idx int) int {
		node := t.Nodes[idx]
		if node.Leaf {
			return 0
		}
		l, r := walk(node.Left), walk(node.Right)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return walk(0)
}

func (t *DecisionTree) validate() error {
	if len(t.Nodes) == 0 {
		return errors.New("no nodes")
	}
	if t.NumFeatures <= 0 {
		return errors.New("num_features must be positive")
	}
	for i, node := range t.Nodes {
		if node.Leaf {
			continue
		}
		if node.Feature < 0 || node.Feature >= t.NumFeatures {
			return fmt.Errorf("node %d splits on feature %d", i, node.Feature)
		}
		// children are always appended after their parent
		if node.Left <= i || node.Right <= i || node.Left >= len(t.Nodes) || node.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children", i)
		}
	}
	return nil
}

type treeBuilder struct {
	tree        *DecisionTree
	rows        [][]float64
	labels      []int
	rng         *rand.Rand
	importances []float64
}

type split struct {
	feature   int
	threshold float64
	impurity  float64 // weighted child impurity, n_left*g_left + n_right*g_right
}

func (b *treeBuilder) build(sample []int, depth int) int {
	t := b.tree
	n := len(sample)
	positives := 0
	for _, i := range sample {
		positives += b.labels[i]
	}

	nodeIdx := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{
		Feature: -1,
		Left:    -1,
		Right:   -1,
		Value:   float64(positives) / float64(n),
		Samples: n,
		Leaf:    true,
	})

	if positives == 0 || positives == n || n < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return nodeIdx
	}

	best, ok := b.bestSplit(sample)
	if !ok {
		return nodeIdx
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	for _, i := range sample {
		if b.rows[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return nodeIdx
	}

	b.importances[best.feature] += float64(n)*gini(positives, n) - best.impurity

	leftIdx := b.build(left, depth+1)
	rightIdx := b.build(right, depth+1)

	node := &t.Nodes[nodeIdx]
	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = leftIdx
	node.Right = rightIdx
	node.Leaf = false
	return nodeIdx
}

// bestSplit draws features in random order and stops once MaxFeatures
// non-constant features have been examined.
func (b *treeBuilder) bestSplit(sample []int) (split, bool) {
	width := b.tree.NumFeatures
	maxFeatures := b.tree.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > width {
		maxFeatures = width
	}

	best := split{impurity: math.Inf(1)}
	found := false
	visited := 0

	values := make([]valueLabel, len(sample))
	for _, feature := range b.rng.Perm(width) {
		if visited >= maxFeatures && found {
			break
		}

		for k, i := range sample {
			values[k] = valueLabel{value: b.rows[i][feature], label: b.labels[i]}
		}
		sort.Slice(values, func(a, c int) bool { return values[a].value < values[c].value })
		if values[0].value == values[len(values)-1].value {
			continue
		}
		visited++

		totalPos := 0
		for _, v := range values {
			totalPos += v.label
		}
		n := len(values)
		leftPos := 0
		for k := 0; k < n-1; k++ {
			leftPos += values[k].label
			if values[k].value == values[k+1].value {
				continue
			}
			nl := k + 1
			nr := n - nl
			impurity := float64(nl)*gini(leftPos, nl) + float64(nr)*gini(totalPos-leftPos, nr)
			if impurity < best.impurity {
				threshold := (values[k].value + values[k+1].value) / 2
				if threshold >= values[k+1].value {
					threshold = values[k].value
				}
				best = split{feature: feature, threshold: threshold, impurity: impurity}
				found = true
			}
		}
	}
	return best, found
}

type valueLabel struct {
	value float64
	label int
}

func gini(positives, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(positives) / float64(n)
	return 2 * p * (1 - p)
}
