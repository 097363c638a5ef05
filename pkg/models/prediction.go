package models

type RiskLevel string

const (
	RiskHigh RiskLevel = "High Risk"
	RiskLow  RiskLevel = "Low Risk"

	// RiskThreshold is inclusive: a probability of exactly 0.5 is high risk.
	RiskThreshold = 0.5
)

// RiskLevelFor maps a positive-class probability to a risk label.
func RiskLevelFor(probability float64) RiskLevel {
	if probability >= RiskThreshold {
		return RiskHigh
	}
	return RiskLow
}

// PredictionResult is the response body of POST /predict.
type PredictionResult struct {
	Prediction        int                `json:"prediction"`
	Probability       float64            `json:"probability"`
	RiskLevel         RiskLevel          `json:"risk_level"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
}

func (r *PredictionResult) IsHighRisk() bool {
	return r.RiskLevel == RiskHigh
}
