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

// KNN 是 K 近邻分类器：训练即存储，预测取 K 个欧氏距离最近样本的多数类。
// 距离平局时按训练样本下标排序，保证结果确定。
type KNN struct {
	K int

	XTrain   [][]float64
	YTrain   []float64
	NClasses int
}

// NewKNN 返回带默认 K 的分类器。
func NewKNN() *KNN {
	return &KNN{K: 5}
}

func (m *KNN) Family() string { return "knn" }

// Fit 存储训练数据。
func (m *KNN) Fit(X mat.Matrix, y []float64) error {
	n, p := X.Dims()
	if n == 0 {
		return fmt.Errorf("knn: empty X")
	}
	if len(y) != n {
		return fmt.Errorf("knn: X has %d rows, y has %d", n, len(y))
	}
	if m.K < 1 {
		return fmt.Errorf("knn: K must be positive, got %d", m.K)
	}

	m.XTrain = make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, p)
		for j := 0; j < p; j++ {
			row[j] = X.At(i, j)
		}
		m.XTrain[i] = row
	}
	m.YTrain = append([]float64(nil), y...)

	k := 0
	for _, v := range y {
		if int(v) >= k {
			k = int(v) + 1
		}
	}
	if k < 2 {
		return fmt.Errorf("knn: single class in y")
	}
	m.NClasses = k
	return nil
}

// neighborVotes 返回第 i 行的 K 近邻类分布。
func (m *KNN) neighborVotes(X mat.Matrix, i int) []float64 {
	type neighbor struct {
		dist float64
		idx  int
	}
	_, p := X.Dims()
	neighbors := make([]neighbor, len(m.XTrain))
	for t, row := range m.XTrain {
		d := 0.0
		for j := 0; j < p && j < len(row); j++ {
			diff := X.At(i, j) - row[j]
			d += diff * diff
		}
		neighbors[t] = neighbor{dist: math.Sqrt(d), idx: t}
	}
	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].dist != neighbors[b].dist {
			return neighbors[a].dist < neighbors[b].dist
		}
		return neighbors[a].idx < neighbors[b].idx
	})

	k := m.K
	if k > len(neighbors) {
		k = len(neighbors)
	}
	votes := make([]float64, m.NClasses)
	for _, nb := range neighbors[:k] {
		votes[int(m.YTrain[nb.idx])]++
	}
	for c := range votes {
		votes[c] /= float64(k)
	}
	return votes
}

// Predict 返回每行的多数类编号。
func (m *KNN) Predict(X mat.Matrix) []float64 {
	n, _ := X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(argmax(m.neighborVotes(X, i)))
	}
	return out
}

// PredictProba 二分类返回正类邻居占比，多分类返回多数类占比。
func (m *KNN) PredictProba(X mat.Matrix) []float64 {
	n, _ := X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		votes := m.neighborVotes(X, i)
		if m.NClasses == 2 {
			out[i] = votes[1]
		} else {
			out[i] = votes[argmax(votes)]
		}
	}
	return out
}

type knnParams struct {
	K        int         `json:"k"`
	XTrain   [][]float64 `json:"x_train"`
	YTrain   []float64   `json:"y_train"`
	NClasses int         `json:"n_classes"`
}

func (m *KNN) Params() ([]byte, error) {
	return json.Marshal(knnParams{K: m.K, XTrain: m.XTrain, YTrain: m.YTrain, NClasses: m.NClasses})
}

func (m *KNN) SetParams(data []byte) error {
	var raw knnParams
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.K > 0 {
		m.K = raw.K
	}
	m.XTrain = raw.XTrain
	m.YTrain = raw.YTrain
	m.NClasses = raw.NClasses
	return nil
}

func init() {
	Register("knn", func(cfg map[string]any, _ int64) core.Classifier {
		m := NewKNN()
		if k, ok := conv.ToInt(cfg["k"]); ok {
			m.K = k
		}
		return m
	})
}

var _ core.Classifier = (*KNN)(nil)
