package training

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/OldStager01/diapredict/internal/dataset"
	"github.com/OldStager01/diapredict/internal/model"
	"github.com/OldStager01/diapredict/pkg/models"
)

// Accuracy is the fraction of rows of ds the pipeline classifies correctly.
func Accuracy(p *model.Pipeline, ds *dataset.Dataset) (float64, error) {
	if ds.Len() == 0 {
		return 0, fmt.Errorf("%w: empty partition", dataset.ErrMalformedData)
	}
	correct := 0
	for i, row := range ds.Rows {
		label, _, err := p.Predict(row)
		if err != nil {
			return 0, err
		}
		if label == ds.Labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(ds.Len()), nil
}

// Evaluate scores the pipeline on test and reports train accuracy as well.
func Evaluate(p *model.Pipeline, train, test *dataset.Dataset) (models.Evaluation, error) {
	var eval models.Evaluation
	if test.Len() == 0 {
		return eval, fmt.Errorf("%w: empty test partition", dataset.ErrMalformedData)
	}

	probs := make([]float64, test.Len())
	for i, row := range test.Rows {
		label, proba, err := p.Predict(row)
		if err != nil {
			return eval, err
		}
		probs[i] = proba
		eval.Confusion[test.Labels[i]][label]++
	}

	cm := eval.Confusion
	eval.Accuracy = float64(cm.TruePositives()+cm.TrueNegatives()) / float64(cm.Total())
	eval.Precision = ratio(cm.TruePositives(), cm.TruePositives()+cm.FalsePositives())
	eval.Recall = ratio(cm.TruePositives(), cm.TruePositives()+cm.FalseNegatives())
	if eval.Precision+eval.Recall > 0 {
		eval.F1 = 2 * eval.Precision * eval.Recall / (eval.Precision + eval.Recall)
	}
	eval.ROCAUC = ROCAUC(probs, test.Labels)

	trainAcc, err := Accuracy(p, train)
	if err != nil {
		return eval, err
	}
	eval.TrainAccuracy = trainAcc
	return eval, nil
}

// ROCAUC is the area under the ROC curve of scores against labels. It is 0
// when labels hold a single class.
func ROCAUC(scores []float64, labels []int) float64 {
	y := make([]float64, len(scores))
	classes := make([]bool, len(labels))
	positives := 0
	for i := range scores {
		y[i] = scores[i]
		classes[i] = labels[i] == 1
		if classes[i] {
			positives++
		}
	}
	if positives == 0 || positives == len(labels) {
		return 0
	}

	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)

	var auc float64
	for i := 1; i < len(tpr); i++ {
		auc += math.Abs(fpr[i]-fpr[i-1]) * (tpr[i] + tpr[i-1]) / 2
	}
	return auc
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
