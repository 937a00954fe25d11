package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/pkg/conv"
)

// GradientBoosting 实现二分类梯度提升树（logloss 损失）。
// 每一轮在当前负梯度上拟合一棵浅回归树，叶子值取 Newton 步长，
// 训练完全确定，无随机性。仅支持二分类，多分类目标在选型阶段会被跳过。
type GradientBoosting struct {
	NEstimators  int     // 提升轮数
	LearningRate float64 // 收缩系数
	MaxDepth     int     // 单树最大深度
	MinLeaf      int     // 叶子最小样本数

	Bias  float64 // 初始 log-odds
	Trees []*regNode
}

// regNode 是回归树的节点（内部节点存分裂，叶子存输出值）。
type regNode struct {
	Leaf      bool     `json:"leaf"`
	Feature   int      `json:"feature,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
	Left      *regNode `json:"left,omitempty"`
	Right     *regNode `json:"right,omitempty"`
	Value     float64  `json:"value,omitempty"`
}

// NewGradientBoosting 返回带默认超参数的模型。
func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{
		NEstimators:  50,
		LearningRate: 0.1,
		MaxDepth:     3,
		MinLeaf:      5,
	}
}

func (g *GradientBoosting) Family() string { return "gradient_boosting" }

// Fit 训练模型。仅支持二分类（y 取值 0/1）。
func (g *GradientBoosting) Fit(X mat.Matrix, y []float64) error {
	n, _ := X.Dims()
	if n == 0 {
		return fmt.Errorf("gbdt: empty X")
	}
	if len(y) != n {
		return fmt.Errorf("gbdt: X has %d rows, y has %d", n, len(y))
	}
	pos := 0
	for _, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("gbdt: only binary targets supported")
		}
		if v == 1 {
			pos++
		}
	}
	if pos == 0 || pos == n {
		return fmt.Errorf("gbdt: single class in y")
	}

	// 初始 log-odds
	g.Bias = math.Log(float64(pos) / float64(n-pos))
	g.Trees = g.Trees[:0]

	f := make([]float64, n)
	for i := range f {
		f[i] = g.Bias
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	grad := make([]float64, n) // 负梯度 y - p
	hess := make([]float64, n) // p * (1 - p)
	for e := 0; e < g.NEstimators; e++ {
		for i := 0; i < n; i++ {
			p := sigmoid(f[i])
			grad[i] = y[i] - p
			hess[i] = p * (1 - p)
		}

		tree := g.buildRegNode(X, grad, hess, idx, 0)
		g.Trees = append(g.Trees, tree)

		for i := 0; i < n; i++ {
			f[i] += g.LearningRate * evalRegNode(tree, X, i)
		}
	}
	return nil
}

// buildRegNode 以方差缩减找分裂，叶子值为 Newton 步长 sum(g)/sum(h)。
func (g *GradientBoosting) buildRegNode(X mat.Matrix, grad, hess []float64, idx []int, depth int) *regNode {
	leaf := func() *regNode {
		sg, sh := 0.0, 0.0
		for _, i := range idx {
			sg += grad[i]
			sh += hess[i]
		}
		return &regNode{Leaf: true, Value: sg / (sh + 1e-9)}
	}

	if depth >= g.MaxDepth || len(idx) < 2*g.MinLeaf {
		return leaf()
	}

	_, p := X.Dims()
	total := 0.0
	for _, i := range idx {
		total += grad[i]
	}

	bestGain := 0.0
	bestFeature, bestThreshold := -1, 0.0
	type pair struct {
		v float64
		g float64
	}
	for j := 0; j < p; j++ {
		pairs := make([]pair, len(idx))
		for k, i := range idx {
			pairs[k] = pair{v: X.At(i, j), g: grad[i]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		leftSum := 0.0
		for k := 0; k < len(pairs)-1; k++ {
			leftSum += pairs[k].g
			if pairs[k].v == pairs[k+1].v {
				continue
			}
			nl, nr := k+1, len(pairs)-k-1
			if nl < g.MinLeaf || nr < g.MinLeaf {
				continue
			}
			rightSum := total - leftSum
			gain := leftSum*leftSum/float64(nl) + rightSum*rightSum/float64(nr) - total*total/float64(len(pairs))
			if gain > bestGain {
				bestGain = gain
				bestFeature = j
				bestThreshold = (pairs[k].v + pairs[k+1].v) / 2
			}
		}
	}

	if bestFeature < 0 {
		return leaf()
	}

	var left, right []int
	for _, i := range idx {
		if X.At(i, bestFeature) <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &regNode{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      g.buildRegNode(X, grad, hess, left, depth+1),
		Right:     g.buildRegNode(X, grad, hess, right, depth+1),
	}
}

func evalRegNode(node *regNode, X mat.Matrix, i int) float64 {
	for node != nil && !node.Leaf {
		if X.At(i, node.Feature) <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0
	}
	return node.Value
}

// PredictProba 返回每行的正类概率。
func (g *GradientBoosting) PredictProba(X mat.Matrix) []float64 {
	n, _ := X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		f := g.Bias
		for _, tree := range g.Trees {
			f += g.LearningRate * evalRegNode(tree, X, i)
		}
		out[i] = sigmoid(f)
	}
	return out
}

// Predict 按 0.5 阈值返回类编号。
func (g *GradientBoosting) Predict(X mat.Matrix) []float64 {
	proba := g.PredictProba(X)
	out := make([]float64, len(proba))
	for i, pr := range proba {
		if pr >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

type gbdtParams struct {
	Bias         float64    `json:"bias"`
	LearningRate float64    `json:"learning_rate"`
	Trees        []*regNode `json:"trees"`
}

func (g *GradientBoosting) Params() ([]byte, error) {
	return json.Marshal(gbdtParams{Bias: g.Bias, LearningRate: g.LearningRate, Trees: g.Trees})
}

func (g *GradientBoosting) SetParams(data []byte) error {
	var raw gbdtParams
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.Bias = raw.Bias
	if raw.LearningRate > 0 {
		g.LearningRate = raw.LearningRate
	}
	g.Trees = raw.Trees
	return nil
}

func init() {
	Register("gradient_boosting", func(cfg map[string]any, _ int64) core.Classifier {
		g := NewGradientBoosting()
		if n, ok := conv.ToInt(cfg["n_estimators"]); ok {
			g.NEstimators = n
		}
		g.LearningRate = conv.ConfigGetFloat64(cfg, "learning_rate", g.LearningRate)
		if d, ok := conv.ToInt(cfg["max_depth"]); ok {
			g.MaxDepth = d
		}
		return g
	})
}

var _ core.Classifier = (*GradientBoosting)(nil)
