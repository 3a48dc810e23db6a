package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func canonicalArtifact() Artifact {
	return Artifact{
		FormatVersion: FormatVersion,
		Metadata: Metadata{
			FeatureNames: []string{"sepal length (cm)", "sepal width (cm)", "petal length (cm)", "petal width (cm)"},
			TargetNames:  []string{"setosa", "versicolor", "virginica"},
			Accuracy:     0.97,
		},
		Forest: Forest{Trees: []Tree{{Nodes: []Node{
			{FeatureIdx: 2, Threshold: 2.45, LeftChild: 1, RightChild: 2},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 0, IsLeaf: true},
			{FeatureIdx: 3, Threshold: 1.75, LeftChild: 3, RightChild: 6},
			{FeatureIdx: 2, Threshold: 4.95, LeftChild: 4, RightChild: 5},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 1, IsLeaf: true},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 2, IsLeaf: true},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 2, IsLeaf: true},
		}}}},
	}
}

func leaf(label int) Node {
	return Node{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: label, IsLeaf: true}
}

type staticSource struct {
	data []byte
	err  error
}

func (s staticSource) Fetch(context.Context) ([]byte, error) { return s.data, s.err }
func (s staticSource) Location() string                      { return "static" }

func TestModel_ClassifyCanonicalExemplars(t *testing.T) {
	m, err := New(canonicalArtifact())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	testCases := []struct {
		features []float64
		want     string
	}{
		{[]float64{5.1, 3.5, 1.4, 0.2}, "setosa"},
		{[]float64{5.7, 2.8, 4.1, 1.3}, "versicolor"},
		{[]float64{6.3, 3.3, 6.0, 2.5}, "virginica"},
		{[]float64{0, 0, 0, 0}, "setosa"},
		{[]float64{-1, 100, 1e9, -5}, "virginica"},
	}

	for _, tc := range testCases {
		idx, err := m.Classify(tc.features)
		if err != nil {
			t.Fatalf("Classify(%v) error: %v", tc.features, err)
		}
		got, err := m.Label(idx)
		if err != nil {
			t.Fatalf("Label(%d) error: %v", idx, err)
		}
		if got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.features, got, tc.want)
		}
	}
}

func TestModel_ClassifyRejectsWrongLength(t *testing.T) {
	m, err := New(canonicalArtifact())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, err := m.Classify([]float64{1, 2, 3}); !errors.Is(err, ErrFeatureCount) {
		t.Fatalf("expected ErrFeatureCount, got %v", err)
	}
}

func TestForest_MajorityVote(t *testing.T) {
	a := canonicalArtifact()
	a.Forest = Forest{Trees: []Tree{
		{Nodes: []Node{leaf(2)}},
		{Nodes: []Node{leaf(1)}},
		{Nodes: []Node{leaf(2)}},
	}}
	m, err := New(a)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	idx, err := m.Classify([]float64{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if idx != 2 {
		t.Fatalf("expected majority label 2, got %d", idx)
	}

	// tie goes to the lowest label
	a.Forest.Trees = a.Forest.Trees[:2]
	m, err = New(a)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if idx, _ := m.Classify([]float64{1, 1, 1, 1}); idx != 1 {
		t.Fatalf("expected tie to resolve to 1, got %d", idx)
	}
}

func TestArtifact_Validate_Negative(t *testing.T) {
	testCases := []struct {
		name, expErr string
		mutate       func(*Artifact)
	}{
		{"version", "unsupported format version", func(a *Artifact) { a.FormatVersion = 2 }},
		{"no features", "no feature names", func(a *Artifact) { a.FeatureNames = nil }},
		{"no targets", "no target names", func(a *Artifact) { a.TargetNames = nil }},
		{"no trees", "forest has no trees", func(a *Artifact) { a.Forest.Trees = nil }},
		{"empty tree", "tree has no nodes", func(a *Artifact) { a.Forest.Trees[0].Nodes = nil }},
		{"label out of range", "class label 3", func(a *Artifact) { a.Forest.Trees[0].Nodes[1].ClassLabel = 3 }},
		{"feature out of range", "feature index 4", func(a *Artifact) { a.Forest.Trees[0].Nodes[0].FeatureIdx = 4 }},
		{"backward child", "invalid left child", func(a *Artifact) { a.Forest.Trees[0].Nodes[2].LeftChild = 0 }},
		{"child past end", "invalid right child", func(a *Artifact) { a.Forest.Trees[0].Nodes[2].RightChild = 7 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := canonicalArtifact()
			tc.mutate(&a)

			err := a.Validate()
			if !errors.Is(err, ErrInvalidArtifact) {
				t.Fatalf("expected ErrInvalidArtifact, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.expErr) {
				t.Fatalf("expected to have err %q; got %q", tc.expErr, err)
			}
		})
	}
}

func TestEncodeDecode_PreservesPredictions(t *testing.T) {
	data, err := Encode(canonicalArtifact())
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	m, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	md := m.Metadata()
	if len(md.TargetNames) != 3 || md.TargetNames[2] != "virginica" {
		t.Fatalf("unexpected target names %v", md.TargetNames)
	}
	if m.Trees() != 1 {
		t.Fatalf("expected 1 tree, got %d", m.Trees())
	}
	if !strings.Contains(string(data), `"target_names"`) {
		t.Fatalf("expected metadata to be inlined in artifact JSON")
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); !errors.Is(err, ErrInvalidArtifact) {
		t.Fatalf("expected ErrInvalidArtifact, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	data, err := Encode(canonicalArtifact())
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	if _, err := Load(context.Background(), staticSource{data: data}); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	fetchErr := errors.New("boom")
	_, err = Load(context.Background(), staticSource{err: fetchErr})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestModel_IsImmutable(t *testing.T) {
	a := canonicalArtifact()
	m, err := New(a)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	a.TargetNames[0] = "changed"
	a.Forest.Trees[0].Nodes[1].ClassLabel = 2
	md := m.Metadata()
	md.TargetNames[0] = "changed too"

	if name, _ := m.Label(0); name != "setosa" {
		t.Fatalf("model metadata changed through caller slice: %q", name)
	}
	idx, _ := m.Classify([]float64{5.1, 3.5, 1.4, 0.2})
	if idx != 0 {
		t.Fatalf("model trees changed through caller slice: %d", idx)
	}
}

func TestAccuracy(t *testing.T) {
	m, err := New(canonicalArtifact())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	x := [][]float64{{5.1, 3.5, 1.4, 0.2}, {6.3, 3.3, 6.0, 2.5}}
	if acc := Accuracy(m, x, []int{0, 2}); acc != 1 {
		t.Fatalf("expected accuracy 1, got %f", acc)
	}
	if acc := Accuracy(m, x, []int{0, 0}); acc != 0.5 {
		t.Fatalf("expected accuracy 0.5, got %f", acc)
	}
	if acc := Accuracy(m, nil, nil); acc != 0 {
		t.Fatalf("expected accuracy 0 for empty set, got %f", acc)
	}
}
