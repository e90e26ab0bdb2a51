package classifier

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a classifier kind string is not recognized.
var ErrUnknownKind = errors.New("unknown classifier kind")

// Kind selects the ensemble strategy.
type Kind string

const (
	// KindGradientBoosting selects gradient-boosted trees. This is the
	// default, matching the reference system.
	KindGradientBoosting Kind = "gradient-boosting"

	// KindRandomForest selects a bagged random forest.
	KindRandomForest Kind = "random-forest"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether the kind is one of the supported strategies.
func (k Kind) Valid() bool {
	return k == KindGradientBoosting || k == KindRandomForest
}

// ParseKind parses a classifier kind string. Short aliases ("gb", "rf")
// are accepted for CLI convenience.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gradient-boosting", "gradientboosting", "gb":
		return KindGradientBoosting, nil
	case "random-forest", "randomforest", "rf":
		return KindRandomForest, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
