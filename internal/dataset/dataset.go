// Package dataset loads the labelled patient table and partitions it for
// training and evaluation.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/OldStager01/diapredict/pkg/models"
)

var (
	ErrDataMissing   = errors.New("training data file not found")
	ErrMalformedData = errors.New("malformed training data")
)

// Dataset is an ordered set of feature rows in models.FeatureNames order
// together with their binary outcome.
type Dataset struct {
	Rows   [][]float64
	Labels []int
}

func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Subset copies the rows at idx into a new dataset.
func (d *Dataset) Subset(idx []int) *Dataset {
	out := &Dataset{
		Rows:   make([][]float64, len(idx)),
		Labels: make([]int, len(idx)),
	}
	for i, j := range idx {
		out.Rows[i] = append([]float64(nil), d.Rows[j]...)
		out.Labels[i] = d.Labels[j]
	}
	return out
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	idx := make([]int, d.Len())
	for i := range idx {
		idx[i] = i
	}
	return d.Subset(idx)
}

// Column returns a copy of column i.
func (d *Dataset) Column(i int) []float64 {
	col := make([]float64, len(d.Rows))
	for r, row := range d.Rows {
		col[r] = row[i]
	}
	return col
}

// PositiveRate is the share of rows labelled 1.
func (d *Dataset) PositiveRate() float64 {
	if len(d.Labels) == 0 {
		return 0
	}
	pos := 0
	for _, l := range d.Labels {
		pos += l
	}
	return float64(pos) / float64(len(d.Labels))
}

// Load reads the CSV at path. A missing file is reported as ErrDataMissing.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataMissing, path)
		}
		return nil, fmt.Errorf("failed to open training data: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a headered CSV. Columns may appear in any order but every
// feature column and the outcome column must be present.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedData)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	names := models.FeatureNames()
	featureCols := make([]int, len(names))
	for i, name := range names {
		pos, ok := positions[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedData, name)
		}
		featureCols[i] = pos
	}
	outcomeCol, ok := positions[models.OutcomeColumn]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrMalformedData, models.OutcomeColumn)
	}

	ds := &Dataset{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedData, line, err)
		}

		row := make([]float64, len(featureCols))
		for i, col := range featureCols {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d: invalid %s value %q", ErrMalformedData, line, names[i], record[col])
			}
			row[i] = v
		}

		label, err := strconv.Atoi(strings.TrimSpace(record[outcomeCol]))
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("%w: line %d: outcome must be 0 or 1, got %q", ErrMalformedData, line, record[outcomeCol])
		}

		ds.Rows = append(ds.Rows, row)
		ds.Labels = append(ds.Labels, label)
	}

	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformedData)
	}
	return ds, nil
}

// Split shuffles row indices with seed and holds out ceil(n*testRatio) rows.
// The same dataset and seed always produce the same partitions.
func Split(ds *Dataset, testRatio float64, seed int64) (train, test *Dataset, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio must be in (0, 1), got %v", testRatio)
	}
	n := ds.Len()
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest < 1 || nTest >= n {
		return nil, nil, fmt.Errorf("cannot split %d rows with test ratio %v", n, testRatio)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return ds.Subset(perm[nTest:]), ds.Subset(perm[:nTest]), nil
}

// Folds deals n shuffled indices into k folds of near-equal size.
func Folds(n, k int, seed int64) ([][]int, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("cannot build %d folds from %d rows", k, n)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([][]int, k)
	start := 0
	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}
		folds[i] = perm[start : start+size]
		start += size
	}
	return folds, nil
}

// TrainIndices returns every index not in fold held.
func TrainIndices(folds [][]int, held int) []int {
	var idx []int
	for i, fold := range folds {
		if i == held {
			continue
		}
		idx = append(idx, fold...)
	}
	return idx
}
