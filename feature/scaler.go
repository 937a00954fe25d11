package feature

import (
	"fmt"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/mlkit/core"
)

// StandardScaler 把每一列标准化为零均值、单位方差。
// 标准差为 0 的常量列输出 0，避免除零。
type StandardScaler struct {
	Mean []float64
	Std  []float64

	fitted bool
}

// Fit 学习每列的均值和标准差。
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("scaler: empty matrix")
	}

	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = X.At(i, j)
		}
		m, err := mstats.Mean(col)
		if err != nil {
			return fmt.Errorf("scaler: column %d: %w", j, err)
		}
		sd, err := mstats.StandardDeviation(col)
		if err != nil {
			return fmt.Errorf("scaler: column %d: %w", j, err)
		}
		s.Mean[j] = m
		s.Std[j] = sd
	}
	s.fitted = true
	return nil
}

// Transform 应用标准化，返回新矩阵。
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.fitted {
		return nil, fmt.Errorf("scaler: transform before fit")
	}
	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, fmt.Errorf("scaler: expected %d columns, got %d", len(s.Mean), c)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if s.Std[j] == 0 {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Std[j])
		}
	}
	return out, nil
}

// FitTransform 先 Fit 再 Transform。
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

var _ core.Transformer = (*StandardScaler)(nil)
