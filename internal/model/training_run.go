package model

import "time"

// ConfusionMatrix counts holdout predictions per outcome, with phishing
// (label 1) treated as the positive class.
type ConfusionMatrix struct {
	TruePositive  int `json:"true_positive"`
	TrueNegative  int `json:"true_negative"`
	FalsePositive int `json:"false_positive"`
	FalseNegative int `json:"false_negative"`
}

// Total returns the number of holdout predictions counted.
func (m ConfusionMatrix) Total() int {
	return m.TruePositive + m.TrueNegative + m.FalsePositive + m.FalseNegative
}

// Accuracy returns the fraction of correct holdout predictions.
// Returns 0 when the matrix is empty.
func (m ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.TruePositive+m.TrueNegative) / float64(total)
}

// Precision returns TP / (TP + FP). Returns 0 when undefined.
func (m ConfusionMatrix) Precision() float64 {
	denom := m.TruePositive + m.FalsePositive
	if denom == 0 {
		return 0
	}
	return float64(m.TruePositive) / float64(denom)
}

// Recall returns TP / (TP + FN). Returns 0 when undefined.
func (m ConfusionMatrix) Recall() float64 {
	denom := m.TruePositive + m.FalseNegative
	if denom == 0 {
		return 0
	}
	return float64(m.TruePositive) / float64(denom)
}

// FeatureImportance pairs a feature name with its relative contribution to
// the fitted ensemble, normalized so that all weights sum to 1.
type FeatureImportance struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// TrainingRun is the report object threaded through the training pipeline.
// Each pipeline step reads what earlier steps produced and records its own
// results here. On success the run describes exactly what was trained,
// how it was evaluated, and where the artifact was persisted.
type TrainingRun struct {
	// DatasetPath is the path of the CSV file the dataset was loaded from.
	DatasetPath string `json:"dataset_path"`

	// ClassifierKind names the ensemble strategy that was fitted
	// ("gradient-boosting" or "random-forest").
	ClassifierKind string `json:"classifier_kind"`

	// Seed is the RNG seed used for the train/test split and tree fitting.
	// Two runs with identical dataset, kind, and seed produce identical models.
	Seed int64 `json:"seed"`

	// TestFraction is the fraction of samples held out for evaluation.
	TestFraction float64 `json:"test_fraction"`

	// Dataset holds the loaded samples. Populated by the load step and
	// discarded with the run; never persisted.
	Dataset Dataset `json:"-"`

	// FeatureNames is the extractor schema in fixed order. Stored in the
	// artifact so inference can detect schema drift.
	FeatureNames []string `json:"feature_names"`

	// Vectors holds one feature vector per dataset row, in dataset order.
	Vectors [][]float64 `json:"-"`

	// Labels holds the numeric label per dataset row, aligned with Vectors.
	Labels []Label `json:"-"`

	// TrainIndices and TestIndices partition the dataset rows after the
	// split step. Indices refer to positions in Vectors/Labels.
	TrainIndices []int `json:"-"`
	TestIndices  []int `json:"-"`

	// TrainCount and TestCount are the partition sizes.
	TrainCount int `json:"train_count"`
	TestCount  int `json:"test_count"`

	// Accuracy is the holdout accuracy computed by the evaluate step.
	Accuracy float64 `json:"accuracy"`

	// Confusion is the holdout confusion matrix.
	Confusion ConfusionMatrix `json:"confusion"`

	// Importances lists per-feature contributions of the fitted ensemble,
	// sorted by weight descending.
	Importances []FeatureImportance `json:"importances,omitempty"`

	// ArtifactPath and ArtifactDigest describe the persisted model artifact.
	ArtifactPath   string `json:"artifact_path,omitempty"`
	ArtifactDigest string `json:"artifact_digest,omitempty"`

	// StartedAt and FinishedAt bound the run wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// PerformedSteps lists the pipeline steps that completed, in order.
	PerformedSteps []string `json:"performed_steps"`
}

// NewTrainingRun creates a TrainingRun for the given dataset path.
func NewTrainingRun(datasetPath string) *TrainingRun {
	return &TrainingRun{
		DatasetPath: datasetPath,
		StartedAt:   time.Now(),
	}
}
