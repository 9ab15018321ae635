package model

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/bitmark-inc/aqi-predictor/schema"
)

const leafFeature = -1

// node of a flattened regression tree. Left and Right index into Tree.Nodes.
type node struct {
	Feature   int     `msgpack:"f"`
	Threshold float64 `msgpack:"t"`
	Left      int     `msgpack:"l"`
	Right     int     `msgpack:"r"`
	Value     float64 `msgpack:"v"`
}

type Tree struct {
	Nodes []node `msgpack:"nodes"`
}

func (t *Tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature == leafFeature {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// validate checks that every walk from the root ends at a leaf. Children are
// always stored after their parent, so a forward-only index rules out cycles.
func (t *Tree) validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: empty tree", ErrCorruptModel)
	}
	for i, n := range t.Nodes {
		if n.Feature == leafFeature {
			continue
		}
		if n.Feature < 0 || n.Feature >= schema.FeatureCount {
			return fmt.Errorf("%w: node %d splits on feature %d", ErrCorruptModel, i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("%w: node %d has children %d and %d", ErrCorruptModel, i, n.Left, n.Right)
		}
	}
	return nil
}

// Forest is an ensemble of bootstrapped regression trees; the prediction is
// the mean over trees.
type Forest struct {
	Trees []Tree `msgpack:"trees"`
}

type ForestOptions struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
}

func DefaultForestOptions() ForestOptions {
	return ForestOptions{
		Trees:           100,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

func (f *Forest) Predict(features []float64) (float64, error) {
	if err := checkFeatures(features); err != nil {
		return 0, err
	}
	if len(f.Trees) == 0 {
		return 0, ErrEmptyDataset
	}

	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].predict(features)
	}
	return sum / float64(len(f.Trees)), nil
}

func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: forest has no trees", ErrCorruptModel)
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func TrainForest(ds Dataset, opts ForestOptions) (*Forest, error) {
	if err := ds.check(); err != nil {
		return nil, err
	}
	if opts.Trees <= 0 {
		opts.Trees = DefaultForestOptions().Trees
	}
	if opts.MinSamplesSplit < 2 {
		opts.MinSamplesSplit = 2
	}

	rnd := rand.New(rand.NewSource(opts.Seed))
	n := len(ds.Y)

	f := &Forest{Trees: make([]Tree, 0, opts.Trees)}
	for t := 0; t < opts.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rnd.Intn(n)
		}

		b := treeBuilder{ds: ds, opts: opts}
		b.build(sample, 0)
		f.Trees = append(f.Trees, Tree{Nodes: b.nodes})
	}
	return f, nil
}

type treeBuilder struct {
	ds    Dataset
	opts  ForestOptions
	nodes []node
}

// build appends the subtree for the given rows and returns its index
func (b *treeBuilder) build(rows []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{Feature: leafFeature, Value: b.mean(rows)})

	if len(rows) < b.opts.MinSamplesSplit || (b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth) {
		return idx
	}

	feature, threshold, ok := b.bestSplit(rows)
	if !ok {
		return idx
	}

	var left, right []int
	for _, r := range rows {
		if b.ds.X[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[idx] = node{Feature: feature, Threshold: threshold, Left: l, Right: r}
	return idx
}

func (b *treeBuilder) mean(rows []int) float64 {
	var sum float64
	for _, r := range rows {
		sum += b.ds.Y[r]
	}
	return sum / float64(len(rows))
}

// bestSplit finds the split with the lowest summed squared error of both
// children. Thresholds are midpoints between distinct neighbouring values.
func (b *treeBuilder) bestSplit(rows []int) (int, float64, bool) {
	var total, totalSq float64
	for _, r := range rows {
		total += b.ds.Y[r]
		totalSq += b.ds.Y[r] * b.ds.Y[r]
	}
	n := float64(len(rows))
	bestErr := totalSq - total*total/n
	if bestErr <= 0 {
		return 0, 0, false
	}

	found := false
	bestFeature, bestThreshold := 0, 0.0
	sorted := make([]int, len(rows))

	for feature := 0; feature < len(b.ds.X[rows[0]]); feature++ {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.ds.X[sorted[i]][feature] < b.ds.X[sorted[j]][feature]
		})

		var leftSum, leftSq float64
		for i := 0; i < len(sorted)-1; i++ {
			y := b.ds.Y[sorted[i]]
			leftSum += y
			leftSq += y * y

			cur, next := b.ds.X[sorted[i]][feature], b.ds.X[sorted[i+1]][feature]
			if cur == next {
				continue
			}

			ln := float64(i + 1)
			rn := n - ln
			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			err := (leftSq - leftSum*leftSum/ln) + (rightSq - rightSum*rightSum/rn)
			if err < bestErr-1e-12 {
				bestErr = err
				bestFeature = feature
				bestThreshold = (cur + next) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}
