package classifier

import (
	"encoding/json"
	"fmt"
)

// Encode serializes a fitted classifier's state to JSON for embedding in a
// model artifact. The payload round-trips the exact decision function: no
// refitting happens on load.
func Encode(c Classifier) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s classifier: %w", c.Kind(), err)
	}
	return data, nil
}

// Decode reconstructs a fitted classifier from its serialized state.
// The kind must match the kind recorded alongside the payload.
func Decode(kind Kind, data []byte) (Classifier, error) {
	switch kind {
	case KindGradientBoosting:
		var gb GradientBoosting
		if err := json.Unmarshal(data, &gb); err != nil {
			return nil, fmt.Errorf("failed to decode gradient-boosting state: %w", err)
		}
		return &gb, nil
	case KindRandomForest:
		var f RandomForest
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to decode random-forest state: %w", err)
		}
		return &f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
