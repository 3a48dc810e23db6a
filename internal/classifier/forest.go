package classifier

import (
	"errors"
	"fmt"
)

// Node is one entry of a flattened decision tree. Internal nodes route on
// features[FeatureIdx] <= Threshold; leaves carry ClassLabel.
type Node struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

// Tree is a decision tree stored in pre-order, root at index 0
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is an ensemble of trees combined by majority vote
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Predict walks the tree and returns the leaf label
func (t *Tree) Predict(features []float64) (int, error) {
	if len(t.Nodes) == 0 {
		return 0, errors.New("empty tree")
	}
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, fmt.Errorf("feature index %d out of range", node.FeatureIdx)
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

// validate checks that every node is reachable only forward (children have
// larger indexes), so prediction always terminates.
func (t *Tree) validate(featureCount, classCount int) error {
	if len(t.Nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	for i, node := range t.Nodes {
		if node.IsLeaf {
			if node.ClassLabel < 0 || node.ClassLabel >= classCount {
				return fmt.Errorf("node %d: class label %d outside %d target names", i, node.ClassLabel, classCount)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= featureCount {
			return fmt.Errorf("node %d: feature index %d outside %d features", i, node.FeatureIdx, featureCount)
		}
		if node.LeftChild <= i || node.LeftChild >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid left child %d", i, node.LeftChild)
		}
		if node.RightChild <= i || node.RightChild >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid right child %d", i, node.RightChild)
		}
	}
	return nil
}

// vote returns the label with the most tree votes. Ties go to the lowest label.
func (f *Forest) vote(features []float64, classCount int) (int, error) {
	counts := make([]int, classCount)
	for i := range f.Trees {
		label, err := f.Trees[i].Predict(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		if label < 0 || label >= classCount {
			return 0, fmt.Errorf("tree %d: label %d out of range", i, label)
		}
		counts[label]++
	}

	best := 0
	for label, count := range counts {
		if count > counts[best] {
			best = label
		}
	}
	return best, nil
}
