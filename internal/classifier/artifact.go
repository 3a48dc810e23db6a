package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FormatVersion is the artifact layout produced by iris-train
const FormatVersion = 1

// ErrInvalidArtifact is returned when an artifact cannot be turned into a model
var ErrInvalidArtifact = errors.New("invalid model artifact")

// Metadata describes how the model was trained. TargetNames is the label
// encoding used at training time and is the only label table the server uses.
type Metadata struct {
	FeatureNames []string  `json:"feature_names"`
	TargetNames  []string  `json:"target_names"`
	Accuracy     float64   `json:"accuracy"`
	TrainedAt    time.Time `json:"trained_at"`
}

// Artifact is the serialized form of a model
type Artifact struct {
	FormatVersion int `json:"format_version"`
	Metadata
	Forest Forest `json:"forest"`
}

// Validate checks the artifact is self-consistent
func (a *Artifact) Validate() error {
	if a.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: unsupported format version %d", ErrInvalidArtifact, a.FormatVersion)
	}
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("%w: no feature names", ErrInvalidArtifact)
	}
	if len(a.TargetNames) == 0 {
		return fmt.Errorf("%w: no target names", ErrInvalidArtifact)
	}
	if len(a.Forest.Trees) == 0 {
		return fmt.Errorf("%w: forest has no trees", ErrInvalidArtifact)
	}
	for i := range a.Forest.Trees {
		if err := a.Forest.Trees[i].validate(len(a.FeatureNames), len(a.TargetNames)); err != nil {
			return fmt.Errorf("%w: tree %d: %v", ErrInvalidArtifact, i, err)
		}
	}
	return nil
}

// Decode parses and validates a JSON artifact
func Decode(data []byte) (*Model, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return New(a)
}

// Encode serializes an artifact as indented JSON
func Encode(a Artifact) ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artifact: %w", err)
	}
	return data, nil
}
