package classifier

import (
	"context"
	"math"
)

// GradientBoosting is a boosted ensemble of shallow regression trees with
// logistic loss. Each round fits a tree to the pseudo-residuals (label
// minus predicted probability), recomputes leaf values with a Newton step,
// and adds the shrunken tree to the additive model in log-odds space.
//
// Fields are exported for artifact serialization only; mutate nothing
// after Fit.
type GradientBoosting struct {
	// InitScore is the prior log-odds of the phishing class.
	InitScore float64 `json:"init_score"`

	// LearningRate is baked into stored leaf values at fit time; it is kept
	// for artifact introspection.
	LearningRate float64 `json:"learning_rate"`

	Trees       []tree    `json:"trees"`
	Dim         int       `json:"dim"`
	Importances []float64 `json:"importances"`

	opts options
}

// newGradientBoosting creates an unfitted gradient-boosting ensemble.
func newGradientBoosting(o options) *GradientBoosting {
	return &GradientBoosting{opts: o}
}

// Kind returns KindGradientBoosting.
func (gb *GradientBoosting) Kind() Kind {
	return KindGradientBoosting
}

// Fit trains the ensemble. Boosting is sequential across rounds by nature;
// the context is checked between rounds so a fit can be cancelled.
func (gb *GradientBoosting) Fit(ctx context.Context, vectors [][]float64, labels []int) error {
	if err := validateTrainingData(vectors, labels); err != nil {
		return err
	}

	n := len(vectors)
	gb.Dim = len(vectors[0])
	gb.LearningRate = gb.opts.learningRate

	y := make([]float64, n)
	pos := 0
	for i, label := range labels {
		y[i] = float64(label)
		pos += label
	}

	// Prior log-odds; both classes are present per validateTrainingData,
	// so the ratio is finite.
	gb.InitScore = math.Log(float64(pos) / float64(n-pos))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = gb.InitScore
	}

	params := treeParams{maxDepth: gb.opts.maxDepth, minLeaf: gb.opts.minLeaf}
	residuals := make([]float64, n)
	allIndices := make([]int, n)
	for i := range allIndices {
		allIndices[i] = i
	}

	gb.Trees = make([]tree, 0, gb.opts.trees)
	gains := make([]float64, gb.Dim)

	for round := 0; round < gb.opts.trees; round++ {
		select {
		case <-ctx.Done():
			gb.Trees = nil
			return ctx.Err()
		default:
		}

		probs := make([]float64, n)
		for i, s := range scores {
			probs[i] = sigmoid(s)
			residuals[i] = y[i] - probs[i]
		}

		builder := newTreeBuilder(vectors, residuals, params, nil)
		t := builder.build(allIndices)

		// Newton leaf update: replace each leaf's mean residual with
		// sum(residual) / sum(p*(1-p)) over the samples it holds, then
		// shrink by the learning rate. Baking the rate into the stored
		// value keeps prediction a plain sum over trees.
		leafNum := make(map[int]float64)
		leafDen := make(map[int]float64)
		for i, leaf := range builder.leafOf {
			leafNum[leaf] += residuals[i]
			leafDen[leaf] += probs[i] * (1 - probs[i])
		}
		for leaf, num := range leafNum {
			den := leafDen[leaf]
			if den < 1e-12 {
				den = 1e-12
			}
			t.Nodes[leaf].Value = gb.opts.learningRate * num / den
		}

		for i := range allIndices {
			scores[i] += t.predict(vectors[i])
		}
		for i, gn := range builder.gains {
			gains[i] += gn
		}
		gb.Trees = append(gb.Trees, *t)
	}

	gb.Importances = normalizeImportances(gains)
	return nil
}

// PredictProba returns [P(legitimate), P(phishing)] for a vector.
func (gb *GradientBoosting) PredictProba(vector []float64) ([]float64, error) {
	if len(gb.Trees) == 0 {
		return nil, ErrNotFitted
	}
	if len(vector) != gb.Dim {
		return nil, ErrDimensionMismatch
	}

	score := gb.InitScore
	for i := range gb.Trees {
		score += gb.Trees[i].predict(vector)
	}
	p := sigmoid(score)
	return []float64{1 - p, p}, nil
}

// FeatureImportances returns normalized per-feature gains.
func (gb *GradientBoosting) FeatureImportances() []float64 {
	out := make([]float64, len(gb.Importances))
	copy(out, gb.Importances)
	return out
}
