package feature

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/mlkit/core"
)

// VarianceThreshold 剔除方差不超过阈值的特征列。
// 阈值 0（默认）表示只剔除常量列。
type VarianceThreshold struct {
	Threshold float64

	support []int // 保留列在原矩阵中的下标
	fitted  bool
}

// Fit 计算每列方差并确定保留列。
func (v *VarianceThreshold) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("variance: empty matrix")
	}

	v.support = v.support[:0]
	for j := 0; j < c; j++ {
		mean := 0.0
		for i := 0; i < r; i++ {
			mean += X.At(i, j)
		}
		mean /= float64(r)

		variance := 0.0
		for i := 0; i < r; i++ {
			d := X.At(i, j) - mean
			variance += d * d
		}
		variance /= float64(r)

		if variance > v.Threshold {
			v.support = append(v.support, j)
		}
	}
	if len(v.support) == 0 {
		return fmt.Errorf("variance: all %d features below threshold %g", c, v.Threshold)
	}
	v.fitted = true
	return nil
}

// Transform 只保留 Fit 选中的列。
func (v *VarianceThreshold) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !v.fitted {
		return nil, fmt.Errorf("variance: transform before fit")
	}
	r, _ := X.Dims()
	out := mat.NewDense(r, len(v.support), nil)
	for i := 0; i < r; i++ {
		for k, j := range v.support {
			out.Set(i, k, X.At(i, j))
		}
	}
	return out, nil
}

// FitTransform 先 Fit 再 Transform。
func (v *VarianceThreshold) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := v.Fit(X); err != nil {
		return nil, err
	}
	return v.Transform(X)
}

// SupportNames 按保留列映射特征名。
func (v *VarianceThreshold) SupportNames(names []string) []string {
	out := make([]string, 0, len(v.support))
	for _, j := range v.support {
		out = append(out, names[j])
	}
	return out
}

var _ core.Transformer = (*VarianceThreshold)(nil)
