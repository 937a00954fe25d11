package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/pipeline"
)

// IsMissing 判断原始单元格是否视为缺失。
// 与常见表格数据的约定一致：空串、NA、NaN、N/A、null。
func IsMissing(cell string) bool {
	switch cell {
	case "", "NA", "NaN", "N/A", "null":
		return true
	}
	return false
}

// Load 读取分隔符文件并构建 Dataset：
//   - 首行为表头，target 必须出现在表头中
//   - 列类型自动推断：所有非缺失单元格均可解析为 float64 => 数值列，否则文本列
//   - 全缺失的列按文本列处理
//
// 错误：
//   - 文件不存在 / 目标列缺失 => CONFIGURATION
//   - 文件为空 / 无数据行 / 行宽不一致 => DATA
func Load(path, target string, comma rune) (*core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleLoader, core.ErrorCodeConfiguration,
			fmt.Sprintf("loader: open %s: %v", path, err))
	}
	defer f.Close()

	r := csv.NewReader(f)
	if comma != 0 {
		r.Comma = comma
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleLoader, core.ErrorCodeData,
			fmt.Sprintf("loader: parse %s: %v", path, err))
	}
	if len(records) == 0 {
		return nil, core.NewDomainError(core.ModuleLoader, core.ErrorCodeData,
			fmt.Sprintf("loader: %s is empty", path))
	}

	header := records[0]
	rows := records[1:]
	if len(rows) == 0 {
		return nil, core.NewDomainError(core.ModuleLoader, core.ErrorCodeData,
			fmt.Sprintf("loader: %s has no data rows", path))
	}

	targetIdx := -1
	for i, name := range header {
		if name == target {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		return nil, core.NewDomainError(core.ModuleLoader, core.ErrorCodeConfiguration,
			fmt.Sprintf("loader: target column %q not in header", target))
	}

	ds := &core.Dataset{Target: target}
	for j, name := range header {
		col, err := buildColumn(name, rows, j)
		if err != nil {
			return nil, err
		}
		ds.Columns = append(ds.Columns, col)
	}
	return ds, nil
}

// buildColumn 抽取第 j 列并推断类型。
func buildColumn(name string, rows [][]string, j int) (*core.Column, error) {
	n := len(rows)
	cells := make([]string, n)
	missing := make([]bool, n)
	numeric := true
	seen := false // 是否存在非缺失单元格

	for i, rec := range rows {
		if j >= len(rec) {
			return nil, core.NewDomainError(core.ModuleLoader, core.ErrorCodeData,
				fmt.Sprintf("loader: row %d has %d cells, column %q at index %d out of range", i+1, len(rec), name, j))
		}
		cells[i] = rec[j]
		if IsMissing(rec[j]) {
			missing[i] = true
			continue
		}
		seen = true
		if numeric {
			if _, err := strconv.ParseFloat(rec[j], 64); err != nil {
				numeric = false
			}
		}
	}

	col := &core.Column{Name: name, Missing: missing}
	if numeric && seen {
		col.Kind = core.ColumnNumeric
		col.Nums = make([]float64, n)
		for i, cell := range cells {
			if missing[i] {
				continue
			}
			v, _ := strconv.ParseFloat(cell, 64)
			col.Nums[i] = v
		}
		return col, nil
	}

	col.Kind = core.ColumnText
	col.Strs = make([]string, n)
	for i, cell := range cells {
		if missing[i] {
			continue // 缺失文本保持 ""，清洗阶段会统一处理
		}
		col.Strs[i] = cell
	}
	return col, nil
}

// LoadStage 是加载阶段的 Stage 封装。
// Path 为空时从 RunContext.Params["dataset"] 读取（CLI 注入）。
type LoadStage struct {
	Path  string
	Comma rune // 0 表示使用默认逗号分隔
}

func (s *LoadStage) Name() string        { return "load.csv" }
func (s *LoadStage) Kind() pipeline.Kind { return pipeline.KindLoad }

func (s *LoadStage) Process(_ context.Context, rctx *core.RunContext) error {
	path := s.Path
	if path == "" {
		path, _ = rctx.Param("dataset", "").(string)
	}
	if path == "" {
		return core.NewDomainError(core.ModuleLoader, core.ErrorCodeConfiguration,
			"loader: dataset path not set")
	}

	ds, err := Load(path, rctx.Target, s.Comma)
	if err != nil {
		return err
	}
	rctx.Dataset = ds
	rctx.PutLabel("rows", strconv.Itoa(ds.Rows()))
	rctx.PutLabel("columns", strconv.Itoa(len(ds.Columns)))
	return nil
}

var _ pipeline.Stage = (*LoadStage)(nil)
