package models

// Feature column names in the order the classifier consumes them. Trainer
// and server both derive row vectors from this list, and the artifact
// manifest must carry exactly the same sequence.
const (
	FeaturePregnancies              = "Pregnancies"
	FeatureGlucose                  = "Glucose"
	FeatureBloodPressure            = "BloodPressure"
	FeatureSkinThickness            = "SkinThickness"
	FeatureInsulin                  = "Insulin"
	FeatureBMI                      = "BMI"
	FeatureDiabetesPedigreeFunction = "DiabetesPedigreeFunction"
	FeatureAge                      = "Age"

	// OutcomeColumn is the binary label column of the training CSV.
	OutcomeColumn = "Outcome"
)

var featureNames = []string{
	FeaturePregnancies,
	FeatureGlucose,
	FeatureBloodPressure,
	FeatureSkinThickness,
	FeatureInsulin,
	FeatureBMI,
	FeatureDiabetesPedigreeFunction,
	FeatureAge,
}

// Zero in these columns encodes a missing measurement.
var sentinelColumns = []string{
	FeatureGlucose,
	FeatureBloodPressure,
	FeatureSkinThickness,
	FeatureInsulin,
	FeatureBMI,
}

// FeatureNames returns a copy of the canonical feature order.
func FeatureNames() []string {
	return append([]string(nil), featureNames...)
}

// SentinelColumns returns the columns where zero means "missing".
func SentinelColumns() []string {
	return append([]string(nil), sentinelColumns...)
}

// FeatureCount is the width of a patient row.
func FeatureCount() int {
	return len(featureNames)
}

// FeatureIndex returns the position of name in the canonical order, or -1.
func FeatureIndex(name string) int {
	for i, n := range featureNames {
		if n == name {
			return i
		}
	}
	return -1
}

// PatientRecord holds the eight clinical measurements of one patient.
type PatientRecord struct {
	Pregnancies              int     `json:"Pregnancies"`
	Glucose                  float64 `json:"Glucose"`
	BloodPressure            float64 `json:"BloodPressure"`
	SkinThickness            float64 `json:"SkinThickness"`
	Insulin                  float64 `json:"Insulin"`
	BMI                      float64 `json:"BMI"`
	DiabetesPedigreeFunction float64 `json:"DiabetesPedigreeFunction"`
	Age                      int     `json:"Age"`
}

// Vector lays the record out in FeatureNames order.
func (p PatientRecord) Vector() []float64 {
	return []float64{
		float64(p.Pregnancies),
		p.Glucose,
		p.BloodPressure,
		p.SkinThickness,
		p.Insulin,
		p.BMI,
		p.DiabetesPedigreeFunction,
		float64(p.Age),
	}
}
