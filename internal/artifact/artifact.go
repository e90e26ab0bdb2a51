package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/phishguard/phishguard/internal/classifier"
)

// DefaultFileName is the artifact file name used under the XDG data dir.
const DefaultFileName = "model.json"

// formatVersion identifies the artifact layout. Bump on incompatible
// changes so stale artifacts fail loudly instead of decoding garbage.
const formatVersion = 1

// Artifact is a persisted trained model: the encoded classifier state plus
// everything inference needs to use it safely, most importantly the exact
// feature schema the model was fitted on.
//
// Immutable once persisted. A loaded Artifact is shared read-only across
// all concurrent predictions and is never mutated after load.
type Artifact struct {
	// FormatVersion is the artifact layout version.
	FormatVersion int `json:"format_version"`

	// Kind names the ensemble strategy stored in Model.
	Kind classifier.Kind `json:"kind"`

	// FeatureNames is the extractor schema, in order, at training time.
	FeatureNames []string `json:"feature_names"`

	// TrainedAt is the UTC completion time of the training run.
	TrainedAt time.Time `json:"trained_at"`

	// Accuracy is the holdout accuracy recorded at training time.
	Accuracy float64 `json:"accuracy"`

	// Seed and TestFraction reproduce the training split.
	Seed         int64   `json:"seed"`
	TestFraction float64 `json:"test_fraction"`

	// Model is the serialized classifier state.
	Model json.RawMessage `json:"model"`
}

// VerifySchema checks the artifact's feature schema against the given
// names. Returns ErrSchemaMismatch (with the first difference named) when
// they are not byte-identical in content and order.
func (a *Artifact) VerifySchema(names []string) error {
	if len(a.FeatureNames) != len(names) {
		return fmt.Errorf("%w: artifact has %d features, extractor has %d",
			ErrSchemaMismatch, len(a.FeatureNames), len(names))
	}
	for i, name := range names {
		if a.FeatureNames[i] != name {
			return fmt.Errorf("%w: position %d is %q in artifact but %q in extractor",
				ErrSchemaMismatch, i, a.FeatureNames[i], name)
		}
	}
	return nil
}

// Classifier decodes the stored classifier state.
func (a *Artifact) Classifier() (classifier.Classifier, error) {
	clf, err := classifier.Decode(a.Kind, a.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactCorrupt, err)
	}
	return clf, nil
}

// Store reads and writes artifacts at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store for the given artifact path.
// An empty path selects the default location under the XDG data directory.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// DefaultPath returns the default artifact location
// (~/.local/share/phishguard/model.json on Linux).
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "phishguard", DefaultFileName)
}

// Path returns the artifact path this store operates on.
func (s *Store) Path() string {
	return s.path
}

// Save atomically writes the artifact and returns its sha256 digest.
//
// The artifact is first written to a temp file in the target directory and
// then renamed into place, so readers either see the previous artifact or
// the complete new one, never a partial write. Any failure is reported as
// ErrModelPersist and leaves the previous artifact (if any) intact.
func (s *Store) Save(a *Artifact) (string, error) {
	a.FormatVersion = formatVersion

	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrModelPersist, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("%w: %w", ErrModelPersist, err)
	}

	tmp, err := os.CreateTemp(dir, DefaultFileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrModelPersist, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()                //nolint:errcheck // Best effort cleanup
		_ = os.Remove(tmpPath)         //nolint:errcheck // Best effort cleanup
		return "", fmt.Errorf("%w: %w", ErrModelPersist, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		return "", fmt.Errorf("%w: %w", ErrModelPersist, err)
	}

	// Model artifacts are not secrets, but they decide security verdicts;
	// owner-only permissions keep them tamper-evident on shared hosts.
	if err := os.Chmod(tmpPath, 0600); err != nil {
		_ = os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		return "", fmt.Errorf("%w: %w", ErrModelPersist, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		return "", fmt.Errorf("%w: %w", ErrModelPersist, err)
	}

	return Digest(data), nil
}

// Load reads and decodes the artifact.
// Returns ErrModelNotFound when no artifact exists at the store path and
// ErrArtifactCorrupt when the file cannot be decoded.
func (s *Store) Load() (*Artifact, error) {
	a, _, err := s.LoadDigest()
	return a, err
}

// LoadDigest reads the artifact and additionally returns its sha256 digest.
func (s *Store) LoadDigest() (*Artifact, string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrModelNotFound, s.path)
		}
		return nil, "", fmt.Errorf("failed to read artifact %s: %w", s.path, err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrArtifactCorrupt, err)
	}
	if a.FormatVersion != formatVersion {
		return nil, "", fmt.Errorf("%w: unsupported format version %d", ErrArtifactCorrupt, a.FormatVersion)
	}
	if len(a.FeatureNames) == 0 || len(a.Model) == 0 {
		return nil, "", fmt.Errorf("%w: missing schema or model state", ErrArtifactCorrupt)
	}

	return &a, Digest(data), nil
}

// Digest returns the hex sha256 digest of encoded artifact bytes.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
