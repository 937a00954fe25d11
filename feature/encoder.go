package feature

import (
	"fmt"
	"sort"
)

// LabelEncoder 把目标列的原始标签编码为 0..k-1 的类编号。
// 类按字典序分配编号，保证编码结果与输入顺序无关。
type LabelEncoder struct {
	Classes []string

	index map[string]int
}

// Fit 收集去重后的标签并按字典序编号。
func (e *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("encoder: empty labels")
	}
	uniq := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		uniq[l] = struct{}{}
	}
	e.Classes = e.Classes[:0]
	for l := range uniq {
		e.Classes = append(e.Classes, l)
	}
	sort.Strings(e.Classes)
	e.index = make(map[string]int, len(e.Classes))
	for i, l := range e.Classes {
		e.index[l] = i
	}
	return nil
}

// Transform 把标签转为类编号；遇到 Fit 时未见过的标签返回错误。
func (e *LabelEncoder) Transform(labels []string) ([]float64, error) {
	if e.index == nil {
		return nil, fmt.Errorf("encoder: transform before fit")
	}
	out := make([]float64, len(labels))
	for i, l := range labels {
		idx, ok := e.index[l]
		if !ok {
			return nil, fmt.Errorf("encoder: unseen label %q", l)
		}
		out[i] = float64(idx)
	}
	return out, nil
}

// FitTransform 先 Fit 再 Transform。
func (e *LabelEncoder) FitTransform(labels []string) ([]float64, error) {
	if err := e.Fit(labels); err != nil {
		return nil, err
	}
	return e.Transform(labels)
}
