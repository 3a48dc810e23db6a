package classifier

import (
	"context"
	"errors"
	"fmt"
)

// ErrFeatureCount is returned when a feature vector has the wrong length
var ErrFeatureCount = errors.New("feature vector length mismatch")

// Source fetches serialized artifact bytes
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

// Model is an immutable classifier loaded from an artifact
type Model struct {
	meta   Metadata
	forest Forest
}

// New builds a model from an artifact, copying it so later changes to a
// do not leak into the model.
func New(a Artifact) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	trees := make([]Tree, len(a.Forest.Trees))
	for i, t := range a.Forest.Trees {
		trees[i] = Tree{Nodes: append([]Node(nil), t.Nodes...)}
	}

	return &Model{
		meta:   cloneMetadata(a.Metadata),
		forest: Forest{Trees: trees},
	}, nil
}

// Load fetches an artifact from src and decodes it
func Load(ctx context.Context, src Source) (*Model, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model from %s: %w", src.Location(), err)
	}

	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model from %s: %w", src.Location(), err)
	}

	return m, nil
}

// Classify returns the class index predicted for one feature vector
func (m *Model) Classify(features []float64) (int, error) {
	if len(features) != len(m.meta.FeatureNames) {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrFeatureCount, len(m.meta.FeatureNames), len(features))
	}
	return m.forest.vote(features, len(m.meta.TargetNames))
}

// Label maps a class index to its target name
func (m *Model) Label(idx int) (string, error) {
	if idx < 0 || idx >= len(m.meta.TargetNames) {
		return "", fmt.Errorf("label index %d out of range", idx)
	}
	return m.meta.TargetNames[idx], nil
}

// Metadata returns a copy of the training metadata
func (m *Model) Metadata() Metadata {
	return cloneMetadata(m.meta)
}

// Trees returns the number of trees in the forest
func (m *Model) Trees() int {
	return len(m.forest.Trees)
}

// Artifact returns a serializable copy of the model
func (m *Model) Artifact() Artifact {
	trees := make([]Tree, len(m.forest.Trees))
	for i, t := range m.forest.Trees {
		trees[i] = Tree{Nodes: append([]Node(nil), t.Nodes...)}
	}
	return Artifact{
		FormatVersion: FormatVersion,
		Metadata:      cloneMetadata(m.meta),
		Forest:        Forest{Trees: trees},
	}
}

// Accuracy returns the fraction of rows in x classified as y
func Accuracy(m *Model, x [][]float64, y []int) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	var correct int
	for i, row := range x {
		label, err := m.Classify(row)
		if err != nil {
			continue
		}
		if label == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}

func cloneMetadata(md Metadata) Metadata {
	md.FeatureNames = append([]string(nil), md.FeatureNames...)
	md.TargetNames = append([]string(nil), md.TargetNames...)
	return md
}
