// Package training builds iris model artifacts offline.
//
// The canonical 150-row Iris dataset is embedded. TrainForest grows a
// random forest of CART trees (Gini impurity, bootstrap samples, a random
// feature subset per split) whose nodes use the same flattened layout the
// classifier package serves.
package training
