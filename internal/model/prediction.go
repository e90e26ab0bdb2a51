package model

// Prediction is the result of scoring a single URL against a trained model.
type Prediction struct {
	// Label is the predicted class (1 = phishing, 0 = legitimate).
	Label Label `json:"label"`

	// Confidence is the probability mass assigned to the predicted class,
	// expressed as a percentage. For a binary classifier this is always in
	// [50, 100] because the chosen class is the argmax of two probabilities.
	Confidence float64 `json:"confidence"`
}

// IsPhishing reports whether the prediction flags the URL as phishing.
func (p Prediction) IsPhishing() bool {
	return p.Label.IsPhishing()
}

// Safe reports whether the prediction considers the URL legitimate.
// This is the boolean the web front-end renders: safe is label 0, exactly
// mirroring the fixed label polarity.
func (p Prediction) Safe() bool {
	return p.Label == LabelLegitimate
}
