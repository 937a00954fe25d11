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

// LogisticRegression 实现二分类逻辑回归。
//
// 预测原理：
//  1. 线性加权求和: z = Bias + sum(Weight_j * Feature_j)
//  2. Sigmoid 变换: P = 1 / (1 + exp(-z))
//
// 训练使用全量梯度下降（BCE 损失 + L2 正则），权重用种子随机初始化，
// 相同种子 + 相同数据训练结果一致。
type LogisticRegression struct {
	Lr     float64 // 学习率
	Epochs int     // 迭代轮数
	L2     float64 // L2 正则系数
	Seed   int64

	Weights []float64
	Bias    float64
}

// NewLogisticRegression 返回带默认超参数的模型。
func NewLogisticRegression(seed int64) *LogisticRegression {
	return &LogisticRegression{
		Lr:     0.1,
		Epochs: 200,
		L2:     1e-4,
		Seed:   seed,
	}
}

func (m *LogisticRegression) Family() string { return "logistic_regression" }

// Fit 训练模型。仅支持二分类（y 取值 0/1）。
func (m *LogisticRegression) Fit(X mat.Matrix, y []float64) error {
	n, p := X.Dims()
	if n == 0 {
		return fmt.Errorf("logistic: empty X")
	}
	if len(y) != n {
		return fmt.Errorf("logistic: X has %d rows, y has %d", n, len(y))
	}
	for _, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("logistic: only binary targets supported")
		}
	}

	// 小随机数初始化打破对称性
	rnd := rand.New(rand.NewSource(m.Seed))
	m.Weights = make([]float64, p)
	for j := range m.Weights {
		m.Weights[j] = rnd.NormFloat64() * 0.01
	}
	m.Bias = 0

	grad := make([]float64, p)
	for ep := 0; ep < m.Epochs; ep++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0

		for i := 0; i < n; i++ {
			z := m.Bias
			for j := 0; j < p; j++ {
				z += m.Weights[j] * X.At(i, j)
			}
			d := sigmoid(z) - y[i]
			for j := 0; j < p; j++ {
				grad[j] += d * X.At(i, j)
			}
			gradBias += d
		}

		scale := m.Lr / float64(n)
		for j := 0; j < p; j++ {
			m.Weights[j] -= scale*grad[j] + m.Lr*m.L2*m.Weights[j]
		}
		m.Bias -= scale * gradBias
	}
	return nil
}

// PredictProba 返回每行的正类概率。
func (m *LogisticRegression) PredictProba(X mat.Matrix) []float64 {
	n, p := X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		z := m.Bias
		for j := 0; j < p && j < len(m.Weights); j++ {
			z += m.Weights[j] * X.At(i, j)
		}
		out[i] = sigmoid(z)
	}
	return out
}

// Predict 按 0.5 阈值返回类编号。
func (m *LogisticRegression) Predict(X mat.Matrix) []float64 {
	proba := m.PredictProba(X)
	out := make([]float64, len(proba))
	for i, pr := range proba {
		if pr >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

type logisticParams struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Params 序列化训练参数。
func (m *LogisticRegression) Params() ([]byte, error) {
	return json.Marshal(logisticParams{Weights: m.Weights, Bias: m.Bias})
}

// SetParams 从序列化参数恢复。
func (m *LogisticRegression) SetParams(data []byte) error {
	var raw logisticParams
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Weights = raw.Weights
	m.Bias = raw.Bias
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func init() {
	Register("logistic_regression", func(cfg map[string]any, seed int64) core.Classifier {
		m := NewLogisticRegression(seed)
		m.Lr = conv.ConfigGetFloat64(cfg, "lr", m.Lr)
		if ep, ok := conv.ToInt(cfg["epochs"]); ok {
			m.Epochs = ep
		}
		m.L2 = conv.ConfigGetFloat64(cfg, "l2", m.L2)
		return m
	})
}

var _ core.Classifier = (*LogisticRegression)(nil)
