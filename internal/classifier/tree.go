package classifier

import (
	"math"
	"math/rand"
	"sort"
)

// node is a single decision-tree node in its serialized form. Interior
// nodes route on Feature/Threshold; a node with Left < 0 is a leaf and
// Value holds its output. Nodes reference children by index into the
// tree's node slice, which keeps the artifact a flat, stable JSON shape.
type node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
}

// tree is a serializable regression tree.
type tree struct {
	Nodes []node `json:"nodes"`
}

// predict routes a vector to a leaf and returns its value.
func (t *tree) predict(x []float64) float64 {
	i := 0
	for t.Nodes[i].Left >= 0 {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// treeParams bounds tree growth.
type treeParams struct {
	// maxDepth is the maximum number of split levels.
	maxDepth int

	// minLeaf is the minimum number of samples per leaf.
	minLeaf int

	// featuresPerSplit is the number of features sampled as split
	// candidates at each node. 0 means consider every feature.
	featuresPerSplit int
}

// treeBuilder grows a CART regression tree by greedy variance reduction.
// For 0/1 targets, variance reduction is equivalent to the Gini criterion
// up to a constant factor, so the same builder serves both the random
// forest (class frequencies as targets) and gradient boosting (residuals
// as targets).
type treeBuilder struct {
	vectors [][]float64
	targets []float64
	params  treeParams

	// rng drives feature subsampling; nil when all features are candidates.
	rng *rand.Rand

	nodes []node

	// leafOf maps a sample index to the leaf node it landed in. Used by
	// gradient boosting to recompute leaf values with a Newton step.
	leafOf map[int]int

	// gains accumulates the variance reduction attributed to each feature,
	// the raw material for feature importances.
	gains []float64
}

// newTreeBuilder creates a builder over the full training matrix.
func newTreeBuilder(vectors [][]float64, targets []float64, params treeParams, rng *rand.Rand) *treeBuilder {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	return &treeBuilder{
		vectors: vectors,
		targets: targets,
		params:  params,
		rng:     rng,
		leafOf:  make(map[int]int),
		gains:   make([]float64, dim),
	}
}

// build grows the tree over the given sample indices and returns it.
func (b *treeBuilder) build(indices []int) *tree {
	b.grow(indices, 0)
	return &tree{Nodes: b.nodes}
}

// grow recursively grows a subtree and returns its root node index.
func (b *treeBuilder) grow(indices []int, depth int) int {
	mean := b.meanTarget(indices)

	if depth >= b.params.maxDepth || len(indices) < 2*b.params.minLeaf || b.isPure(indices) {
		return b.addLeaf(indices, mean)
	}

	feat, threshold, gain, ok := b.bestSplit(indices)
	if !ok {
		return b.addLeaf(indices, mean)
	}

	var left, right []int
	for _, i := range indices {
		if b.vectors[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.params.minLeaf || len(right) < b.params.minLeaf {
		return b.addLeaf(indices, mean)
	}

	b.gains[feat] += gain

	// Reserve the interior node before recursing so children receive
	// higher indices and the node slice stays in pre-order.
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{Feature: feat, Threshold: threshold})

	leftID := b.grow(left, depth+1)
	rightID := b.grow(right, depth+1)
	b.nodes[id].Left = leftID
	b.nodes[id].Right = rightID
	return id
}

// addLeaf appends a leaf node and records the samples that reached it.
func (b *treeBuilder) addLeaf(indices []int, value float64) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{Left: -1, Right: -1, Value: value})
	for _, i := range indices {
		b.leafOf[i] = id
	}
	return id
}

// meanTarget returns the mean target over the given samples.
func (b *treeBuilder) meanTarget(indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range indices {
		sum += b.targets[i]
	}
	return sum / float64(len(indices))
}

// isPure reports whether all targets in the node are identical.
func (b *treeBuilder) isPure(indices []int) bool {
	if len(indices) == 0 {
		return true
	}
	first := b.targets[indices[0]]
	for _, i := range indices[1:] {
		if b.targets[i] != first {
			return false
		}
	}
	return true
}

// candidateFeatures returns the features considered at one split.
func (b *treeBuilder) candidateFeatures() []int {
	dim := len(b.gains)
	if b.params.featuresPerSplit <= 0 || b.params.featuresPerSplit >= dim || b.rng == nil {
		all := make([]int, dim)
		for i := range all {
			all[i] = i
		}
		return all
	}

	perm := b.rng.Perm(dim)
	return perm[:b.params.featuresPerSplit]
}

// bestSplit finds the (feature, threshold) pair with the largest variance
// reduction over the given samples. Returns ok=false when no split
// improves on the parent node.
func (b *treeBuilder) bestSplit(indices []int) (feature int, threshold, gain float64, ok bool) {
	n := float64(len(indices))
	totalSum, totalSq := 0.0, 0.0
	for _, i := range indices {
		t := b.targets[i]
		totalSum += t
		totalSq += t * t
	}
	parentSS := totalSq - totalSum*totalSum/n

	type pair struct {
		value, target float64
	}
	pairs := make([]pair, len(indices))

	bestGain := 0.0
	for _, feat := range b.candidateFeatures() {
		for k, i := range indices {
			pairs[k] = pair{value: b.vectors[i][feat], target: b.targets[i]}
		}
		sort.Slice(pairs, func(a, c int) bool { return pairs[a].value < pairs[c].value })

		leftSum, leftSq := 0.0, 0.0
		for k := 0; k < len(pairs)-1; k++ {
			leftSum += pairs[k].target
			leftSq += pairs[k].target * pairs[k].target

			// Only split between distinct feature values.
			if pairs[k].value == pairs[k+1].value {
				continue
			}

			nl := float64(k + 1)
			nr := n - nl
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			leftSS := leftSq - leftSum*leftSum/nl
			rightSS := rightSq - rightSum*rightSum/nr

			g := parentSS - leftSS - rightSS
			if g > bestGain && g > 1e-12 {
				bestGain = g
				feature = feat
				threshold = (pairs[k].value + pairs[k+1].value) / 2
				ok = true
			}
		}
	}

	return feature, threshold, bestGain, ok
}

// normalizeImportances scales raw per-feature gains so they sum to 1.
// Returns a zero slice when no splits were made.
func normalizeImportances(gains []float64) []float64 {
	out := make([]float64, len(gains))
	total := 0.0
	for _, g := range gains {
		total += g
	}
	if total <= 0 || math.IsNaN(total) {
		return out
	}
	for i, g := range gains {
		out[i] = g / total
	}
	return out
}

// sigmoid is the logistic function.
func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
