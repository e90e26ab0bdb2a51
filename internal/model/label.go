package model

import (
	"errors"
	"strconv"
	"strings"
)

// Label errors.
var (
	// ErrInvalidLabel is returned when a label value cannot be parsed.
	ErrInvalidLabel = errors.New("invalid label value")
)

// Label is the binary classification outcome for a URL.
//
// The polarity is fixed once and for all: 1 means phishing, 0 means
// legitimate. Every layer of the system (dataset loading, training,
// artifact storage, serving) relies on this convention; it must never be
// inverted or inferred from data.
type Label int

const (
	// LabelLegitimate marks a URL considered safe.
	LabelLegitimate Label = 0
	// LabelPhishing marks a URL considered a phishing attempt.
	LabelPhishing Label = 1
)

// String returns the human-readable name of the label.
func (l Label) String() string {
	switch l {
	case LabelPhishing:
		return "phishing"
	case LabelLegitimate:
		return "legitimate"
	default:
		return "unknown"
	}
}

// IsPhishing reports whether the label denotes a phishing URL.
func (l Label) IsPhishing() bool {
	return l == LabelPhishing
}

// Valid reports whether the label is one of the two defined values.
func (l Label) Valid() bool {
	return l == LabelLegitimate || l == LabelPhishing
}

// ParseLabel parses a raw dataset label value into a Label.
// It accepts the numeric convention ("0"/"1") as well as common textual
// spellings found in public phishing datasets ("legitimate"/"phishing",
// "good"/"bad", "benign"/"malicious"). Surrounding whitespace is ignored.
// Returns ErrInvalidLabel for anything else.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "legitimate", "good", "benign", "safe":
		return LabelLegitimate, nil
	case "1", "phishing", "bad", "malicious", "phish":
		return LabelPhishing, nil
	}
	// Some datasets encode labels as arbitrary integers; anything non-zero
	// that parses cleanly is treated as phishing to match the 0/1 convention.
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if n == 0 {
			return LabelLegitimate, nil
		}
		if n == 1 {
			return LabelPhishing, nil
		}
	}
	return LabelLegitimate, ErrInvalidLabel
}
