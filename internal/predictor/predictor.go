package predictor

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/model"
)

// DefaultCacheSize bounds the verdict cache.
const DefaultCacheSize = 4096

// Predictor scores URLs against a loaded model artifact.
//
// The artifact is loaded once; after Load succeeds, Predict is safe for
// concurrent use because the classifier state and the extractor are both
// read-only.
type Predictor struct {
	store     *artifact.Store
	extractor *feature.Extractor
	logger    *slog.Logger
	cacheSize int

	loadOnce sync.Once
	loadErr  error
	art      *artifact.Artifact
	clf      classifier.Classifier
	cache    *verdictCache
}

// PredictorOption configures a Predictor.
type PredictorOption func(*Predictor)

// WithExtractor sets a custom feature extractor. It must be configured the
// same way as the extractor used at training time, or schema-compatible
// verdicts will still be computed over different inputs.
func WithExtractor(e *feature.Extractor) PredictorOption {
	return func(p *Predictor) {
		p.extractor = e
	}
}

// WithLogger sets the predictor logger.
func WithLogger(logger *slog.Logger) PredictorOption {
	return func(p *Predictor) {
		p.logger = logger
	}
}

// WithCacheSize bounds the verdict cache. Zero disables caching.
func WithCacheSize(n int) PredictorOption {
	return func(p *Predictor) {
		p.cacheSize = n
	}
}

// New creates a Predictor over the given artifact store.
// The artifact is not read until Load (or the first Predict).
func New(store *artifact.Store, opts ...PredictorOption) *Predictor {
	p := &Predictor{
		store:     store,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = feature.NewExtractor()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Load reads the artifact, verifies its feature schema against the running
// extractor, and decodes the classifier. Load is idempotent; every call
// after the first returns the first call's result.
//
// Returns artifact.ErrModelNotFound when no artifact exists,
// artifact.ErrArtifactCorrupt when it cannot be decoded, and
// artifact.ErrSchemaMismatch when the schema drifted.
func (p *Predictor) Load() error {
	p.loadOnce.Do(func() {
		art, digest, err := p.store.LoadDigest()
		if err != nil {
			p.loadErr = err
			return
		}

		if err := art.VerifySchema(feature.SchemaNames()); err != nil {
			p.loadErr = err
			return
		}

		clf, err := art.Classifier()
		if err != nil {
			p.loadErr = err
			return
		}

		p.art = art
		p.clf = clf
		if p.cacheSize > 0 {
			p.cache = newVerdictCache(p.cacheSize)
		}

		p.logger.Info("loaded model artifact",
			"path", p.store.Path(),
			"kind", art.Kind,
			"accuracy", art.Accuracy,
			"digest", digest,
		)
	})
	return p.loadErr
}

// Artifact returns the loaded artifact metadata, or nil before Load.
func (p *Predictor) Artifact() *artifact.Artifact {
	return p.art
}

// Predict scores a single URL and returns its verdict.
//
// The verdict label is the argmax of the two class probabilities and the
// confidence is the probability mass of the chosen class as a percentage,
// so it always lies in [50, 100]. Extraction failures propagate unchanged
// (feature.ErrEmptyURL, feature.ErrInvalidURL); they are never mapped to a
// legitimate verdict.
func (p *Predictor) Predict(rawURL string) (model.Prediction, error) {
	pred, _, err := p.predict(rawURL)
	return pred, err
}

// Explain scores a single URL and additionally returns the extracted
// feature vector, for verbose display.
func (p *Predictor) Explain(rawURL string) (model.Prediction, feature.Vector, error) {
	return p.predict(rawURL)
}

func (p *Predictor) predict(rawURL string) (model.Prediction, feature.Vector, error) {
	if err := p.Load(); err != nil {
		return model.Prediction{}, nil, err
	}

	vector, err := p.extractor.Extract(rawURL)
	if err != nil {
		return model.Prediction{}, nil, err
	}

	if p.cache != nil {
		if pred, ok := p.cache.get(rawURL); ok {
			return pred, vector, nil
		}
	}

	probs, err := p.clf.PredictProba(vector)
	if err != nil {
		return model.Prediction{}, nil, fmt.Errorf("failed to score url: %w", err)
	}

	pred := model.Prediction{
		Label:      model.LabelLegitimate,
		Confidence: probs[0] * 100,
	}
	if probs[1] > probs[0] {
		pred.Label = model.LabelPhishing
		pred.Confidence = probs[1] * 100
	}

	if p.cache != nil {
		p.cache.add(rawURL, pred)
	}
	return pred, vector, nil
}
