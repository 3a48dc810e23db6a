package training

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/aescanero/irisd/internal/classifier"
)

// Options controls forest growth
type Options struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	// MaxFeatures is the number of features tried per split; 0 means sqrt(n)
	MaxFeatures int
	TestRatio   float64
	Seed        int64
}

// DefaultOptions mirrors a 100-tree forest with an 80/20 split and seed 42
func DefaultOptions() Options {
	return Options{
		Trees:           100,
		MaxDepth:        16,
		MinSamplesSplit: 2,
		TestRatio:       0.2,
		Seed:            42,
	}
}

// Result is a trained artifact and its held-out evaluation
type Result struct {
	Artifact  classifier.Artifact
	Accuracy  float64
	TrainSize int
	TestSize  int
}

// Train splits ds, grows a forest on the training part and scores it on the rest
func Train(ds *Dataset, opts Options) (*Result, error) {
	trainX, trainY, testX, testY := Split(ds.X, ds.Y, opts.TestRatio, opts.Seed)

	forest, err := TrainForest(trainX, trainY, len(ds.TargetNames), opts)
	if err != nil {
		return nil, err
	}

	artifact := classifier.Artifact{
		FormatVersion: classifier.FormatVersion,
		Metadata: classifier.Metadata{
			FeatureNames: ds.FeatureNames,
			TargetNames:  ds.TargetNames,
			TrainedAt:    time.Now().UTC().Truncate(time.Second),
		},
		Forest: forest,
	}

	model, err := classifier.New(artifact)
	if err != nil {
		return nil, fmt.Errorf("trained forest is invalid: %w", err)
	}
	accuracy := classifier.Accuracy(model, testX, testY)
	artifact.Accuracy = accuracy

	return &Result{
		Artifact:  artifact,
		Accuracy:  accuracy,
		TrainSize: len(trainX),
		TestSize:  len(testX),
	}, nil
}

// TrainForest grows opts.Trees trees, each on a bootstrap sample of x
func TrainForest(x [][]float64, y []int, classes int, opts Options) (classifier.Forest, error) {
	if len(x) == 0 || len(y) == 0 {
		return classifier.Forest{}, errors.New("features or labels empty")
	}
	if len(x) != len(y) {
		return classifier.Forest{}, errors.New("features and labels size mismatch")
	}
	if classes <= 0 {
		return classifier.Forest{}, errors.New("class count must be positive")
	}
	for i, label := range y {
		if label < 0 || label >= classes {
			return classifier.Forest{}, fmt.Errorf("row %d: label %d out of range", i, label)
		}
	}
	if opts.Trees <= 0 {
		opts.Trees = 1
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 16
	}
	if opts.MinSamplesSplit < 2 {
		opts.MinSamplesSplit = 2
	}

	featureCount := len(x[0])
	maxFeatures := opts.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > featureCount {
		maxFeatures = int(math.Max(1, math.Round(math.Sqrt(float64(featureCount)))))
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	trees := make([]classifier.Tree, 0, opts.Trees)
	for t := 0; t < opts.Trees; t++ {
		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.Intn(len(x))
		}

		b := &builder{
			x:           x,
			y:           y,
			classes:     classes,
			maxDepth:    opts.MaxDepth,
			minSplit:    opts.MinSamplesSplit,
			maxFeatures: maxFeatures,
			rng:         rng,
		}
		trees = append(trees, classifier.Tree{Nodes: b.build(sample, 0)})
	}

	return classifier.Forest{Trees: trees}, nil
}

type builder struct {
	x           [][]float64
	y           []int
	classes     int
	maxDepth    int
	minSplit    int
	maxFeatures int
	rng         *rand.Rand
}

// build returns the subtree for rows idx in pre-order, root first
func (b *builder) build(idx []int, depth int) []classifier.Node {
	counts := b.counts(idx)
	label := majority(counts)
	if depth >= b.maxDepth || len(idx) < b.minSplit || pure(counts) {
		return []classifier.Node{leafNode(label)}
	}

	feature, threshold, ok := b.bestSplit(idx, b.rng.Perm(len(b.x[0]))[:b.maxFeatures])
	if !ok {
		// the sampled features were constant here; try them all
		feature, threshold, ok = b.bestSplit(idx, b.rng.Perm(len(b.x[0])))
	}
	if !ok {
		return []classifier.Node{leafNode(label)}
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	leftNodes := b.build(left, depth+1)
	rightNodes := b.build(right, depth+1)

	nodes := make([]classifier.Node, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, classifier.Node{
		FeatureIdx: feature,
		Threshold:  threshold,
		LeftChild:  1,
		RightChild: 1 + len(leftNodes),
		ClassLabel: label,
	})
	nodes = append(nodes, offset(leftNodes, 1)...)
	nodes = append(nodes, offset(rightNodes, 1+len(leftNodes))...)
	return nodes
}

// bestSplit finds the threshold with the lowest weighted Gini impurity.
// Thresholds sit midway between consecutive distinct values.
func (b *builder) bestSplit(idx []int, features []int) (int, float64, bool) {
	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := math.MaxFloat64

	sorted := append([]int(nil), idx...)
	for _, f := range features {
		sort.SliceStable(sorted, func(i, j int) bool { return b.x[sorted[i]][f] < b.x[sorted[j]][f] })

		left := make([]int, b.classes)
		right := b.counts(sorted)
		for pos := 0; pos < len(sorted)-1; pos++ {
			label := b.y[sorted[pos]]
			left[label]++
			right[label]--

			cur, next := b.x[sorted[pos]][f], b.x[sorted[pos+1]][f]
			if cur == next {
				continue
			}

			nLeft := float64(pos + 1)
			nRight := float64(len(sorted) - pos - 1)
			total := nLeft + nRight
			impurity := (nLeft/total)*gini(left, nLeft) + (nRight/total)*gini(right, nRight)
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *builder) counts(idx []int) []int {
	counts := make([]int, b.classes)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func gini(counts []int, n float64) float64 {
	if n == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / n
		impurity -= p * p
	}
	return impurity
}

// majority returns the most frequent label, lowest label on ties
func majority(counts []int) int {
	best := 0
	for label, c := range counts {
		if c > counts[best] {
			best = label
		}
	}
	return best
}

func pure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func leafNode(label int) classifier.Node {
	return classifier.Node{
		FeatureIdx: -1,
		LeftChild:  -1,
		RightChild: -1,
		ClassLabel: label,
		IsLeaf:     true,
	}
}

// offset shifts child indexes of a subtree placed at position base
func offset(nodes []classifier.Node, base int) []classifier.Node {
	for i := range nodes {
		if !nodes[i].IsLeaf {
			nodes[i].LeftChild += base
			nodes[i].RightChild += base
		}
	}
	return nodes
}
