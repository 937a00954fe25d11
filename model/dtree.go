package model

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/pkg/conv"
)

// DecisionTree 是 CART 风格的分类树（gini 分裂，数值阈值 x <= t 走左子树）。
// 支持多分类；MaxFeatures > 0 时每个节点只在随机子集中找分裂（随机森林使用）。
type DecisionTree struct {
	MaxDepth        int   // 最大深度，0 表示不限制
	MinSamplesSplit int   // 尝试分裂所需的最小样本数
	MinSamplesLeaf  int   // 每个叶子的最小样本数
	MaxFeatures     int   // 每个节点候选特征数，0 表示全部
	Seed            int64 // 特征子采样的随机种子

	Root     *TreeNode
	NClasses int
}

// TreeNode 是树中的一个节点。
type TreeNode struct {
	Leaf      bool      `json:"leaf"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
	Probas    []float64 `json:"probas,omitempty"` // 叶子上的类分布
}

// NewDecisionTree 返回带默认超参数的分类树。
func NewDecisionTree(seed int64) *DecisionTree {
	return &DecisionTree{
		MaxDepth:        8,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            seed,
	}
}

func (t *DecisionTree) Family() string { return "decision_tree" }

// Fit 在 X（n x p）和类编号 y 上训练。
func (t *DecisionTree) Fit(X mat.Matrix, y []float64) error {
	n, p := X.Dims()
	if n == 0 {
		return fmt.Errorf("dtree: empty X")
	}
	if len(y) != n {
		return fmt.Errorf("dtree: X has %d rows, y has %d", n, len(y))
	}

	k := 0
	for _, v := range y {
		if int(v) >= k {
			k = int(v) + 1
		}
	}
	if k < 2 {
		return fmt.Errorf("dtree: single class in y")
	}
	t.NClasses = k

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rnd := rand.New(rand.NewSource(t.Seed))
	t.Root = t.buildNode(X, y, idx, 0, p, rnd)
	return nil
}

func (t *DecisionTree) buildNode(X mat.Matrix, y []float64, idx []int, depth, p int, rnd *rand.Rand) *TreeNode {
	counts := make([]int, t.NClasses)
	for _, i := range idx {
		counts[int(y[i])]++
	}

	leaf := func() *TreeNode {
		probas := make([]float64, t.NClasses)
		for c, cnt := range counts {
			probas[c] = float64(cnt) / float64(len(idx))
		}
		return &TreeNode{Leaf: true, Probas: probas}
	}

	if len(idx) < t.MinSamplesSplit || isPure(counts) {
		return leaf()
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return leaf()
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, p, counts, rnd)
	if !ok {
		return leaf()
	}

	var left, right []int
	for _, i := range idx {
		if X.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.MinSamplesLeaf || len(right) < t.MinSamplesLeaf {
		return leaf()
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.buildNode(X, y, left, depth+1, p, rnd),
		Right:     t.buildNode(X, y, right, depth+1, p, rnd),
	}
}

// bestSplit 在（可能子采样的）特征集中找 gini 增益最大的数值分裂点。
func (t *DecisionTree) bestSplit(X mat.Matrix, y []float64, idx []int, p int, counts []int, rnd *rand.Rand) (int, float64, bool) {
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.MaxFeatures]
		sort.Ints(features) // 子集内按列号顺序扫描，保证确定性
	}

	parent := giniFromCounts(counts, len(idx))
	bestGain := 0.0
	bestFeature, bestThreshold := -1, 0.0

	type pair struct {
		v float64
		c int
	}
	for _, j := range features {
		pairs := make([]pair, len(idx))
		for k, i := range idx {
			pairs[k] = pair{v: X.At(i, j), c: int(y[i])}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		leftCounts := make([]int, t.NClasses)
		rightCounts := make([]int, t.NClasses)
		copy(rightCounts, counts)

		for k := 0; k < len(pairs)-1; k++ {
			leftCounts[pairs[k].c]++
			rightCounts[pairs[k].c]--
			if pairs[k].v == pairs[k+1].v {
				continue
			}
			nl, nr := k+1, len(pairs)-k-1
			if nl < t.MinSamplesLeaf || nr < t.MinSamplesLeaf {
				continue
			}
			gini := (float64(nl)*giniFromCounts(leftCounts, nl) +
				float64(nr)*giniFromCounts(rightCounts, nr)) / float64(len(pairs))
			gain := parent - gini
			if gain > bestGain {
				bestGain = gain
				bestFeature = j
				bestThreshold = (pairs[k].v + pairs[k+1].v) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// predictRow 沿树下行到叶子，返回类分布。
func (t *DecisionTree) predictRow(X mat.Matrix, i int) []float64 {
	node := t.Root
	for node != nil && !node.Leaf {
		if X.At(i, node.Feature) <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return make([]float64, t.NClasses)
	}
	return node.Probas
}

// Predict 返回每行的预测类编号（分布最大值，平局取编号小的类）。
func (t *DecisionTree) Predict(X mat.Matrix) []float64 {
	n, _ := X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(argmax(t.predictRow(X, i)))
	}
	return out
}

// PredictProba 二分类返回正类概率，多分类返回预测类置信度。
func (t *DecisionTree) PredictProba(X mat.Matrix) []float64 {
	n, _ := X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		probas := t.predictRow(X, i)
		if t.NClasses == 2 {
			out[i] = probas[1]
		} else {
			out[i] = probas[argmax(probas)]
		}
	}
	return out
}

type dtreeParams struct {
	Root     *TreeNode `json:"root"`
	NClasses int       `json:"n_classes"`
}

func (t *DecisionTree) Params() ([]byte, error) {
	return json.Marshal(dtreeParams{Root: t.Root, NClasses: t.NClasses})
}

func (t *DecisionTree) SetParams(data []byte) error {
	var raw dtreeParams
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Root = raw.Root
	t.NClasses = raw.NClasses
	return nil
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func giniFromCounts(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func argmax(vals []float64) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	return best
}

func init() {
	Register("decision_tree", func(cfg map[string]any, seed int64) core.Classifier {
		t := NewDecisionTree(seed)
		if d, ok := conv.ToInt(cfg["max_depth"]); ok {
			t.MaxDepth = d
		}
		if s, ok := conv.ToInt(cfg["min_samples_split"]); ok {
			t.MinSamplesSplit = s
		}
		if l, ok := conv.ToInt(cfg["min_samples_leaf"]); ok {
			t.MinSamplesLeaf = l
		}
		return t
	})
}

var _ core.Classifier = (*DecisionTree)(nil)
