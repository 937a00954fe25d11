package clean

import (
	"context"
	"testing"

	"github.com/rushteam/mlkit/core"
)

func numericCol(name string, nums []float64, missing []bool) *core.Column {
	return &core.Column{Name: name, Kind: core.ColumnNumeric, Nums: nums, Missing: missing}
}

func TestImputeColumn(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		constant float64
		nums     []float64
		missing  []bool
		want     float64 // 缺失位置期望的填充值
	}{
		{
			name:     "mean",
			strategy: StrategyMean,
			nums:     []float64{1, 0, 3},
			missing:  []bool{false, true, false},
			want:     2,
		},
		{
			name:     "default is mean",
			strategy: "",
			nums:     []float64{2, 0, 6},
			missing:  []bool{false, true, false},
			want:     4,
		},
		{
			name:     "median",
			strategy: StrategyMedian,
			nums:     []float64{1, 2, 0, 100},
			missing:  []bool{false, false, true, false},
			want:     2,
		},
		{
			name:     "mode",
			strategy: StrategyMode,
			nums:     []float64{5, 5, 9, 0},
			missing:  []bool{false, false, false, true},
			want:     5,
		},
		{
			name:     "constant",
			strategy: StrategyConstant,
			constant: -1,
			nums:     []float64{1, 0},
			missing:  []bool{false, true},
			want:     -1,
		},
		{
			name:     "all missing falls back to zero",
			strategy: StrategyMean,
			nums:     []float64{0, 0},
			missing:  []bool{true, true},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := numericCol("x", tt.nums, tt.missing)
			if err := ImputeColumn(col, tt.strategy, tt.constant); err != nil {
				t.Fatalf("ImputeColumn: %v", err)
			}
			for i, wasMissing := range tt.missing {
				if wasMissing && col.Nums[i] != tt.want {
					t.Errorf("cell %d = %v, want %v", i, col.Nums[i], tt.want)
				}
			}
			if col.MissingCount() != 0 {
				t.Errorf("MissingCount = %d after impute, want 0", col.MissingCount())
			}
		})
	}
}

func TestImputeColumnUnknownStrategy(t *testing.T) {
	col := numericCol("x", []float64{1}, []bool{false})
	if err := ImputeColumn(col, "drop", 0); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestFillTextColumn(t *testing.T) {
	col := &core.Column{
		Name:    "note",
		Kind:    core.ColumnText,
		Strs:    []string{"a", "", "c"},
		Missing: []bool{false, true, false},
	}
	FillTextColumn(col)
	if col.Strs[1] != "" || col.MissingCount() != 0 {
		t.Errorf("fill text: strs=%v missing=%d", col.Strs, col.MissingCount())
	}
}

func sampleDataset() *core.Dataset {
	return &core.Dataset{
		Target: "label",
		Columns: []*core.Column{
			numericCol("age", []float64{10, 0, 30, 40}, []bool{false, true, false, false}),
			{
				Name:    "note",
				Kind:    core.ColumnText,
				Strs:    []string{"ok", "", "bad", "ok"},
				Missing: []bool{false, true, false, false},
			},
			{
				Name:    "label",
				Kind:    core.ColumnText,
				Strs:    []string{"a", "b", "a", "b"},
				Missing: []bool{false, false, false, false},
			},
		},
	}
}

func TestStageProcess(t *testing.T) {
	rctx := core.NewRunContext("label", 1)
	rctx.Dataset = sampleDataset()

	s := &Stage{Strategy: StrategyMean}
	if err := s.Process(context.Background(), rctx); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := rctx.Dataset.MissingNumericCells(); got != 0 {
		t.Errorf("missing numeric cells = %d, want 0", got)
	}
	age := rctx.Dataset.Column("age")
	want := (10.0 + 30 + 40) / 3
	if age.Nums[1] != want {
		t.Errorf("imputed age = %v, want %v", age.Nums[1], want)
	}
}

func TestStageFilter(t *testing.T) {
	rctx := core.NewRunContext("label", 1)
	rctx.Dataset = sampleDataset()

	s := &Stage{Filter: `row["age"] != null && row["age"] >= 30.0`}
	if err := s.Process(context.Background(), rctx); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := rctx.Dataset.Rows(); got != 2 {
		t.Errorf("rows after filter = %d, want 2", got)
	}
}

func TestStageFilterAllRowsIsDataError(t *testing.T) {
	rctx := core.NewRunContext("label", 1)
	rctx.Dataset = sampleDataset()

	s := &Stage{Filter: `row["age"] != null && row["age"] > 1000.0`}
	err := s.Process(context.Background(), rctx)
	if !core.IsData(err) {
		t.Errorf("error = %v, want DATA", err)
	}
}

func TestStageDropSparseColumns(t *testing.T) {
	rctx := core.NewRunContext("label", 1)
	rctx.Dataset = sampleDataset()
	// age 缺失率 1/4，阈值 0.2 => 被丢弃；note 缺失率 1/4 同样被丢弃
	s := &Stage{DropMissingRatio: 0.2}
	if err := s.Process(context.Background(), rctx); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if col := rctx.Dataset.Column("age"); col != nil {
		t.Error("sparse column age should be dropped")
	}
	if col := rctx.Dataset.Column("label"); col == nil {
		t.Error("target column must never be dropped")
	}
}
