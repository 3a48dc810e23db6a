// Package classifier holds the serving-side iris model.
//
// A model is decoded from a JSON artifact that carries a random forest of
// decision trees together with its metadata: the ordered feature names and
// the target names that label indexes resolve to. Once built, a *Model is
// immutable and safe for concurrent use without locking.
package classifier
