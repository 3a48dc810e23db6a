// Package classifiertest provides a small, known iris model for tests.
package classifiertest

import (
	"testing"

	"github.com/aescanero/irisd/internal/classifier"
)

// Artifact returns the textbook single-tree iris classifier: petal length
// separates setosa, petal width then separates versicolor from virginica.
func Artifact() classifier.Artifact {
	leaf := func(label int) classifier.Node {
		return classifier.Node{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: label, IsLeaf: true}
	}

	return classifier.Artifact{
		FormatVersion: classifier.FormatVersion,
		Metadata: classifier.Metadata{
			FeatureNames: []string{"sepal length (cm)", "sepal width (cm)", "petal length (cm)", "petal width (cm)"},
			TargetNames:  []string{"setosa", "versicolor", "virginica"},
			Accuracy:     0.96,
		},
		Forest: classifier.Forest{Trees: []classifier.Tree{{Nodes: []classifier.Node{
			{FeatureIdx: 2, Threshold: 2.45, LeftChild: 1, RightChild: 2},
			leaf(0),
			{FeatureIdx: 3, Threshold: 1.75, LeftChild: 3, RightChild: 4},
			leaf(1),
			leaf(2),
		}}}},
	}
}

// Model builds the model from Artifact or fails the test
func Model(t testing.TB) *classifier.Model {
	t.Helper()

	m, err := classifier.New(Artifact())
	if err != nil {
		t.Fatalf("failed to build test model: %v", err)
	}
	return m
}

// Bytes returns Artifact encoded as JSON or fails the test
func Bytes(t testing.TB) []byte {
	t.Helper()

	data, err := classifier.Encode(Artifact())
	if err != nil {
		t.Fatalf("failed to encode test artifact: %v", err)
	}
	return data
}
