package model

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/pkg/conv"
)

// RandomForest 对 DecisionTree 做 bootstrap 聚合（bagging）。
// 每棵树使用独立种子（Seed + 树号）做自助采样与特征子采样，
// 预测取各树类分布的平均。训练按树号顺序执行，结果可复现。
type RandomForest struct {
	NEstimators int   // 树的数量
	MaxDepth    int   // 单树最大深度
	MaxFeatures int   // 单树每个节点候选特征数，0 表示 sqrt(p)
	Bootstrap   bool  // 是否自助采样
	Seed        int64

	Trees    []*DecisionTree
	NClasses int
}

// NewRandomForest 返回带默认超参数的随机森林。
func NewRandomForest(seed int64) *RandomForest {
	return &RandomForest{
		NEstimators: 50,
		MaxDepth:    8,
		Bootstrap:   true,
		Seed:        seed,
	}
}

func (f *RandomForest) Family() string { return "random_forest" }

// Fit 训练森林。每棵树在自助采样的数据副本上独立训练。
func (f *RandomForest) Fit(X mat.Matrix, y []float64) error {
	n, p := X.Dims()
	if n == 0 {
		return fmt.Errorf("forest: empty X")
	}
	if len(y) != n {
		return fmt.Errorf("forest: X has %d rows, y has %d", n, len(y))
	}

	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(p)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	f.Trees = make([]*DecisionTree, 0, f.NEstimators)
	for e := 0; e < f.NEstimators; e++ {
		treeSeed := f.Seed + int64(e)
		rnd := rand.New(rand.NewSource(treeSeed))

		sampleX := X
		sampleY := y
		if f.Bootstrap {
			bx := mat.NewDense(n, p, nil)
			by := make([]float64, n)
			for i := 0; i < n; i++ {
				src := rnd.Intn(n)
				for j := 0; j < p; j++ {
					bx.Set(i, j, X.At(src, j))
				}
				by[i] = y[src]
			}
			sampleX = bx
			sampleY = by
		}

		tree := NewDecisionTree(treeSeed)
		tree.MaxDepth = f.MaxDepth
		tree.MaxFeatures = maxFeatures
		if err := tree.Fit(sampleX, sampleY); err != nil {
			// 自助采样可能抽出单一类别的样本，这样的树直接跳过
			continue
		}
		f.Trees = append(f.Trees, tree)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest: no tree could be trained")
	}
	f.NClasses = f.Trees[0].NClasses
	return nil
}

// avgProbas 返回每行各类的平均分布。
func (f *RandomForest) avgProbas(X mat.Matrix, i int) []float64 {
	sum := make([]float64, f.NClasses)
	for _, tree := range f.Trees {
		probas := tree.predictRow(X, i)
		for c := range sum {
			if c < len(probas) {
				sum[c] += probas[c]
			}
		}
	}
	for c := range sum {
		sum[c] /= float64(len(f.Trees))
	}
	return sum
}

// Predict 返回每行的预测类编号（平均分布投票）。
func (f *RandomForest) Predict(X mat.Matrix) []float64 {
	n, _ := X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(argmax(f.avgProbas(X, i)))
	}
	return out
}

// PredictProba 二分类返回正类概率，多分类返回预测类置信度。
func (f *RandomForest) PredictProba(X mat.Matrix) []float64 {
	n, _ := X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		probas := f.avgProbas(X, i)
		if f.NClasses == 2 {
			out[i] = probas[1]
		} else {
			out[i] = probas[argmax(probas)]
		}
	}
	return out
}

type forestParams struct {
	Trees    []*dtreeParams `json:"trees"`
	NClasses int            `json:"n_classes"`
}

func (f *RandomForest) Params() ([]byte, error) {
	raw := forestParams{NClasses: f.NClasses}
	for _, tree := range f.Trees {
		raw.Trees = append(raw.Trees, &dtreeParams{Root: tree.Root, NClasses: tree.NClasses})
	}
	return json.Marshal(raw)
}

func (f *RandomForest) SetParams(data []byte) error {
	var raw forestParams
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.NClasses = raw.NClasses
	f.Trees = f.Trees[:0]
	for _, tp := range raw.Trees {
		f.Trees = append(f.Trees, &DecisionTree{Root: tp.Root, NClasses: tp.NClasses})
	}
	return nil
}

func init() {
	Register("random_forest", func(cfg map[string]any, seed int64) core.Classifier {
		f := NewRandomForest(seed)
		if n, ok := conv.ToInt(cfg["n_estimators"]); ok {
			f.NEstimators = n
		}
		if d, ok := conv.ToInt(cfg["max_depth"]); ok {
			f.MaxDepth = d
		}
		if m, ok := conv.ToInt(cfg["max_features"]); ok {
			f.MaxFeatures = m
		}
		return f
	})
}

var _ core.Classifier = (*RandomForest)(nil)
