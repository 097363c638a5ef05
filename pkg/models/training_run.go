package models

import "time"

// ConfusionMatrix is indexed [actual][predicted] for labels 0 and 1.
type ConfusionMatrix [2][2]int

func (m ConfusionMatrix) TruePositives() int  { return m[1][1] }
func (m ConfusionMatrix) FalsePositives() int { return m[0][1] }
func (m ConfusionMatrix) FalseNegatives() int { return m[1][0] }
func (m ConfusionMatrix) TrueNegatives() int  { return m[0][0] }

func (m ConfusionMatrix) Total() int {
	return m[0][0] + m[0][1] + m[1][0] + m[1][1]
}

// Evaluation summarises a classifier on a labelled partition.
type Evaluation struct {
	Accuracy      float64         `json:"accuracy"`
	Precision     float64         `json:"precision"`
	Recall        float64         `json:"recall"`
	F1            float64         `json:"f1"`
	ROCAUC        float64         `json:"roc_auc"`
	TrainAccuracy float64         `json:"train_accuracy"`
	CVMean        *float64        `json:"cv_mean,omitempty"`
	Confusion     ConfusionMatrix `json:"confusion_matrix"`
}

// CandidateScore is the held-out accuracy of one model family.
type CandidateScore struct {
	Label    string  `json:"label"`
	Kind     string  `json:"kind"`
	Accuracy float64 `json:"accuracy"`
	Selected bool    `json:"selected"`
}

// TrainingRun is one trainer invocation as recorded in the run registry.
type TrainingRun struct {
	ID           int              `json:"id"`
	ModelID      string           `json:"model_id"`
	ModelLabel   string           `json:"model_label"`
	ModelKind    string           `json:"model_kind"`
	ArtifactPath string           `json:"artifact_path"`
	TrainSize    int              `json:"train_size"`
	TestSize     int              `json:"test_size"`
	Seed         int64            `json:"seed"`
	Evaluation   Evaluation       `json:"evaluation"`
	Candidates   []CandidateScore `json:"candidates"`
	TrainedAt    time.Time        `json:"trained_at"`
}

func NewTrainingRun(modelID, label, kind, artifactPath string, eval Evaluation) *TrainingRun {
	return &TrainingRun{
		ModelID:      modelID,
		ModelLabel:   label,
		ModelKind:    kind,
		ArtifactPath: artifactPath,
		Evaluation:   eval,
		TrainedAt:    time.Now().UTC(),
	}
}
