package clean

import (
	"fmt"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"github.com/rushteam/mlkit/core"
)

// 缺失值填充策略
const (
	StrategyMean     = "mean"     // 列均值（默认）
	StrategyMedian   = "median"   // 列中位数（偏态分布更稳健）
	StrategyMode     = "mode"     // 列众数（对应 most_frequent）
	StrategyConstant = "constant" // 固定常量
)

// ImputeColumn 用指定策略填充数值列的缺失单元格，原地修改。
// 填充完成后列的 Missing 全部复位。
func ImputeColumn(col *core.Column, strategy string, constant float64) error {
	if col.Kind != core.ColumnNumeric {
		return fmt.Errorf("impute: column %q is not numeric", col.Name)
	}

	present := make([]float64, 0, len(col.Nums))
	for i, v := range col.Nums {
		if !col.Missing[i] {
			present = append(present, v)
		}
	}

	var fill float64
	switch strategy {
	case StrategyConstant:
		fill = constant
	case "", StrategyMean, StrategyMedian, StrategyMode:
		if len(present) == 0 {
			// 全缺失的数值列没有统计量可用，退化为 0 填充
			fill = 0
		} else {
			v, err := centralTendency(present, strategy)
			if err != nil {
				return fmt.Errorf("impute: column %q: %w", col.Name, err)
			}
			fill = v
		}
	default:
		return fmt.Errorf("impute: unknown strategy %q", strategy)
	}

	for i := range col.Nums {
		if col.Missing[i] {
			col.Nums[i] = fill
			col.Missing[i] = false
		}
	}
	return nil
}

// centralTendency 计算填充用的集中趋势统计量。
func centralTendency(vals []float64, strategy string) (float64, error) {
	switch strategy {
	case StrategyMedian:
		return mstats.Median(vals)
	case StrategyMode:
		modes, err := mstats.Mode(vals)
		if err != nil {
			return 0, err
		}
		if len(modes) == 0 {
			// 无重复值时没有众数，退化为均值
			return mstats.Mean(vals)
		}
		sort.Float64s(modes)
		return modes[0], nil
	default: // "" 或 mean
		return mstats.Mean(vals)
	}
}

// FillTextColumn 把文本列的缺失单元格填充为空串，原地修改。
func FillTextColumn(col *core.Column) {
	if col.Kind != core.ColumnText {
		return
	}
	for i := range col.Strs {
		if col.Missing[i] {
			col.Strs[i] = ""
			col.Missing[i] = false
		}
	}
}
