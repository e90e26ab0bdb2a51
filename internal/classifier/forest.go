package classifier

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RandomForest is a bagged ensemble of classification trees. Each tree is
// fitted on a bootstrap sample with sqrt(d) features considered per split,
// and predicts the phishing frequency of its leaf; the forest probability
// is the mean over trees.
//
// Fields are exported for artifact serialization only; mutate nothing
// after Fit.
type RandomForest struct {
	Trees       []tree    `json:"trees"`
	Dim         int       `json:"dim"`
	Importances []float64 `json:"importances"`

	opts options
}

// newRandomForest creates an unfitted random forest.
func newRandomForest(o options) *RandomForest {
	return &RandomForest{opts: o}
}

// Kind returns KindRandomForest.
func (f *RandomForest) Kind() Kind {
	return KindRandomForest
}

// Fit trains the forest. Trees are fitted in parallel, bounded by the jobs
// option; determinism is preserved because each tree's RNG is derived from
// the run seed and the tree index, not from goroutine scheduling.
func (f *RandomForest) Fit(ctx context.Context, vectors [][]float64, labels []int) error {
	if err := validateTrainingData(vectors, labels); err != nil {
		return err
	}

	f.Dim = len(vectors[0])
	targets := make([]float64, len(labels))
	for i, y := range labels {
		targets[i] = float64(y)
	}

	featuresPerSplit := int(math.Ceil(math.Sqrt(float64(f.Dim))))
	params := treeParams{
		maxDepth:         f.opts.maxDepth,
		minLeaf:          f.opts.minLeaf,
		featuresPerSplit: featuresPerSplit,
	}

	f.Trees = make([]tree, f.opts.trees)
	gains := make([]float64, f.Dim)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.jobs)

	for t := range f.opts.trees {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rng := rand.New(rand.NewSource(f.opts.seed + int64(t)))

			// Bootstrap sample with replacement, same size as the input.
			indices := make([]int, len(vectors))
			for i := range indices {
				indices[i] = rng.Intn(len(vectors))
			}

			builder := newTreeBuilder(vectors, targets, params, rng)
			f.Trees[t] = *builder.build(indices)

			mu.Lock()
			for i, gn := range builder.gains {
				gains[i] += gn
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		f.Trees = nil
		return err
	}

	f.Importances = normalizeImportances(gains)
	return nil
}

// PredictProba returns [P(legitimate), P(phishing)] for a vector.
func (f *RandomForest) PredictProba(vector []float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}
	if len(vector) != f.Dim {
		return nil, ErrDimensionMismatch
	}

	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].predict(vector)
	}
	p := sum / float64(len(f.Trees))

	// Leaf values are class frequencies, so p stays in [0,1] up to float
	// rounding; clamp to be safe.
	p = math.Min(1, math.Max(0, p))
	return []float64{1 - p, p}, nil
}

// FeatureImportances returns normalized per-feature gains.
func (f *RandomForest) FeatureImportances() []float64 {
	out := make([]float64, len(f.Importances))
	copy(out, f.Importances)
	return out
}
