package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/OldStager01/diapredict/internal/training"
)

func printReport(out io.Writer, r *training.Report, artifactPath string) {
	fmt.Fprintf(out, "\nTrain/test split: %d/%d rows (seed %d)\n\n", r.TrainSize, r.TestSize, r.Seed)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tACCURACY\tCV MEAN\t")
	for _, res := range r.Results {
		cv := "-"
		if res.CVMean != nil {
			cv = fmt.Sprintf("%.4f", *res.CVMean)
		}
		marker := ""
		if res.Pipeline == r.Selected.Pipeline {
			marker = "*"
		}
		fmt.Fprintf(w, "%s%s\t%.4f\t%s\t\n", res.Candidate.Label, marker, res.Accuracy, cv)
	}
	w.Flush()

	if r.TunedForest != nil {
		depth := "none"
		if r.TunedForest.MaxDepth > 0 {
			depth = fmt.Sprint(r.TunedForest.MaxDepth)
		}
		fmt.Fprintf(out, "\nGrid search: n_estimators=%d max_depth=%s min_samples_split=%d\n",
			r.TunedForest.NEstimators, depth, r.TunedForest.MinSamplesSplit)
	}

	e := r.Evaluation
	cm := e.Confusion
	fmt.Fprintf(out, "\nBest model: %s (accuracy %.4f)\n", r.Selected.Candidate.Label, r.Selected.Accuracy)
	fmt.Fprintf(out, "  precision %.4f  recall %.4f  f1 %.4f  roc_auc %.4f\n", e.Precision, e.Recall, e.F1, e.ROCAUC)
	fmt.Fprintf(out, "  train accuracy %.4f\n", e.TrainAccuracy)
	fmt.Fprintf(out, "  confusion matrix [[%d %d] [%d %d]]\n", cm[0][0], cm[0][1], cm[1][0], cm[1][1])
	fmt.Fprintf(out, "\nSaved to %s in %s\n", artifactPath, r.Duration.Round(time.Millisecond))
}
