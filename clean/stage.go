package clean

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/pipeline"
	"github.com/rushteam/mlkit/pkg/dsl"
)

// Stage 是清洗阶段：
//  1. 可选 CEL 行过滤（filter 表达式，见 pkg/dsl）
//  2. 可选丢弃缺失率超阈值的列（DropMissingRatio >= 1 表示关闭，保持形状不变）
//  3. 数值列按策略填充缺失值，文本列缺失填充为空串
//
// 完成后数据集不含任何缺失的数值单元格。
type Stage struct {
	Strategy         string  // mean / median / mode / constant，空值等同 mean
	Constant         float64 // Strategy == constant 时的填充值
	Filter           string  // CEL 行过滤表达式，空串表示不过滤
	DropMissingRatio float64 // 缺失率超过该值的非目标列被丢弃；>= 1 或 0 表示关闭
}

func (s *Stage) Name() string        { return "clean.impute" }
func (s *Stage) Kind() pipeline.Kind { return pipeline.KindClean }

func (s *Stage) Process(_ context.Context, rctx *core.RunContext) error {
	ds := rctx.Dataset
	if ds == nil {
		return core.NewDomainError(core.ModuleClean, core.ErrorCodeInvalidInput,
			"clean: dataset not loaded")
	}

	if s.Filter != "" {
		filtered, err := s.filterRows(ds)
		if err != nil {
			return err
		}
		ds = filtered
		rctx.Dataset = ds
	}
	if ds.Rows() == 0 {
		return core.NewDomainError(core.ModuleClean, core.ErrorCodeData,
			"clean: no rows left after filter")
	}

	if s.DropMissingRatio > 0 && s.DropMissingRatio < 1 {
		s.dropSparseColumns(rctx, ds)
	}

	for _, col := range ds.Columns {
		switch col.Kind {
		case core.ColumnNumeric:
			if err := ImputeColumn(col, s.Strategy, s.Constant); err != nil {
				return core.NewDomainError(core.ModuleClean, core.ErrorCodeData, err.Error())
			}
		case core.ColumnText:
			FillTextColumn(col)
		}
	}

	rctx.PutLabel("clean_rows", strconv.Itoa(ds.Rows()))
	return nil
}

// filterRows 对每一行求值 CEL 表达式，返回只含保留行的新 Dataset。
func (s *Stage) filterRows(ds *core.Dataset) (*core.Dataset, error) {
	filter, err := dsl.NewRowFilter(s.Filter)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleClean, core.ErrorCodeConfiguration,
			fmt.Sprintf("clean: filter %q: %v", s.Filter, err))
	}

	n := ds.Rows()
	keep := make([]bool, n)
	for i := 0; i < n; i++ {
		row := make(map[string]any, len(ds.Columns))
		var target any
		for _, col := range ds.Columns {
			var v any
			if col.Missing[i] {
				v = nil
			} else if col.Kind == core.ColumnNumeric {
				v = col.Nums[i]
			} else {
				v = col.Strs[i]
			}
			row[col.Name] = v
			if col.Name == ds.Target {
				target = v
			}
		}
		ok, err := filter.Keep(row, target)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleClean, core.ErrorCodeData,
				fmt.Sprintf("clean: filter row %d: %v", i, err))
		}
		keep[i] = ok
	}
	return ds.SelectRows(keep), nil
}

// dropSparseColumns 丢弃缺失率超阈值的非目标列。
func (s *Stage) dropSparseColumns(rctx *core.RunContext, ds *core.Dataset) {
	n := ds.Rows()
	if n == 0 {
		return
	}
	var dropped []string
	for _, col := range ds.FeatureColumns() {
		ratio := float64(col.MissingCount()) / float64(n)
		if ratio > s.DropMissingRatio {
			dropped = append(dropped, col.Name)
		}
	}
	for _, name := range dropped {
		ds.DropColumn(name)
	}
	if len(dropped) > 0 {
		rctx.PutLabel("dropped_columns", strconv.Itoa(len(dropped)))
	}
}

var _ pipeline.Stage = (*Stage)(nil)
