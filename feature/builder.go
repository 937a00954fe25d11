package feature

import (
	"context"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/pipeline"
)

// BuildStage 是特征工程阶段：
//   - 每个文本列拟合一个独立的 TFIDF，产出 <col>_tfidf_<term> 维度
//   - 数值列整体做 StandardScaler
//   - 两者按列拼接为 FeatureMatrix（行数与 Dataset 一致）
//   - 可选 VarianceThreshold 剪枝
//   - 目标列经 LabelEncoder 编码为 0..k-1，绝不进入特征
//
// 词表大小、n-gram、停用词均为静态配置。
type BuildStage struct {
	MaxFeatures int      // 每个文本列的 TF-IDF 词表上限，<= 0 时用 DefaultMaxFeatures
	NGramMax    int      // n-gram 上限，默认 1
	StopWords   []string // 停用词
	UseVariance bool     // 是否启用方差剪枝
	Threshold   float64  // 方差阈值（UseVariance 时生效）
}

// DefaultMaxFeatures 是单个文本列的默认词表上限。
const DefaultMaxFeatures = 100

func (s *BuildStage) Name() string        { return "feature.build" }
func (s *BuildStage) Kind() pipeline.Kind { return pipeline.KindFeature }

func (s *BuildStage) Process(_ context.Context, rctx *core.RunContext) error {
	ds := rctx.Dataset
	if ds == nil {
		return core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			"feature: dataset not loaded")
	}
	n := ds.Rows()

	names, data, err := s.assemble(ds)
	if err != nil {
		return err
	}

	// 方差剪枝（可选）
	if s.UseVariance {
		vt := &VarianceThreshold{Threshold: s.Threshold}
		pruned, err := vt.FitTransform(data)
		if err != nil {
			return core.NewDomainError(core.ModuleFeature, core.ErrorCodeData,
				fmt.Sprintf("feature: %v", err))
		}
		names = vt.SupportNames(names)
		data = pruned.(*mat.Dense)
	}

	y, classes, err := encodeTarget(ds)
	if err != nil {
		return err
	}

	fm := &core.FeatureMatrix{Names: names, Data: data}
	if fm.Rows() != n {
		return core.NewDomainError(core.ModuleFeature, core.ErrorCodeData,
			fmt.Sprintf("feature: matrix has %d rows, dataset has %d", fm.Rows(), n))
	}

	rctx.Features = fm
	rctx.Y = y
	rctx.Classes = classes
	rctx.PutLabel("features", strconv.Itoa(fm.Cols()))
	rctx.PutLabel("classes", strconv.Itoa(len(classes)))
	return nil
}

// assemble 组装标准化数值列 + TF-IDF 文本维度。
func (s *BuildStage) assemble(ds *core.Dataset) ([]string, *mat.Dense, error) {
	n := ds.Rows()
	var numericCols []*core.Column
	var textCols []*core.Column
	for _, col := range ds.FeatureColumns() {
		if col.Kind == core.ColumnNumeric {
			numericCols = append(numericCols, col)
		} else {
			textCols = append(textCols, col)
		}
	}

	var names []string
	var blocks []*mat.Dense

	if len(numericCols) > 0 {
		raw := mat.NewDense(n, len(numericCols), nil)
		for j, col := range numericCols {
			raw.SetCol(j, col.Nums)
			names = append(names, col.Name)
		}
		scaler := &StandardScaler{}
		scaled, err := scaler.FitTransform(raw)
		if err != nil {
			return nil, nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeData,
				fmt.Sprintf("feature: %v", err))
		}
		blocks = append(blocks, scaled.(*mat.Dense))
	}

	maxFeat := s.MaxFeatures
	if maxFeat <= 0 {
		maxFeat = DefaultMaxFeatures
	}
	for _, col := range textCols {
		tfidf := &TFIDF{MaxFeatures: maxFeat, NGramMax: s.NGramMax, StopWords: s.StopWords}
		rows, err := tfidf.FitTransform(col.Strs)
		if err != nil {
			return nil, nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeData,
				fmt.Sprintf("feature: column %q: %v", col.Name, err))
		}
		if len(tfidf.Terms()) == 0 {
			// 全空文本列没有词表，跳过该列
			continue
		}
		block := mat.NewDense(n, len(tfidf.Terms()), nil)
		for i, row := range rows {
			block.SetRow(i, row)
		}
		for _, term := range tfidf.Terms() {
			names = append(names, fmt.Sprintf("%s_tfidf_%s", col.Name, term))
		}
		blocks = append(blocks, block)
	}

	if len(names) == 0 {
		return nil, nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeData,
			"feature: no usable feature columns")
	}

	out := mat.NewDense(n, len(names), nil)
	offset := 0
	for _, block := range blocks {
		_, c := block.Dims()
		for j := 0; j < c; j++ {
			out.SetCol(offset+j, mat.Col(nil, j, block))
		}
		offset += c
	}
	return names, out, nil
}

// encodeTarget 把目标列编码为类编号。
func encodeTarget(ds *core.Dataset) ([]float64, []string, error) {
	target := ds.TargetColumn()
	if target == nil {
		return nil, nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeConfiguration,
			fmt.Sprintf("feature: target column %q missing", ds.Target))
	}

	labels := make([]string, target.Len())
	if target.Kind == core.ColumnNumeric {
		for i, v := range target.Nums {
			labels[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	} else {
		copy(labels, target.Strs)
	}

	enc := &LabelEncoder{}
	y, err := enc.FitTransform(labels)
	if err != nil {
		return nil, nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeData,
			fmt.Sprintf("feature: %v", err))
	}
	if len(enc.Classes) < 2 {
		return nil, nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeData,
			fmt.Sprintf("feature: target %q has a single class", ds.Target))
	}
	return y, enc.Classes, nil
}

var _ pipeline.Stage = (*BuildStage)(nil)
