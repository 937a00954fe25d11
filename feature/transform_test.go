package feature

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
		4, 5,
	})

	scaler := &StandardScaler{}
	out, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	// 第一列标准化后均值 0、方差 1
	r, _ := out.Dims()
	sum, sumSq := 0.0, 0.0
	for i := 0; i < r; i++ {
		v := out.At(i, 0)
		sum += v
		sumSq += v * v
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("column 0 mean = %v, want 0", sum/float64(r))
	}
	if math.Abs(sumSq/float64(r)-1) > 1e-9 {
		t.Errorf("column 0 variance = %v, want 1", sumSq/float64(r))
	}

	// 常量列输出全 0
	for i := 0; i < r; i++ {
		if out.At(i, 1) != 0 {
			t.Errorf("constant column cell (%d,1) = %v, want 0", i, out.At(i, 1))
		}
	}
}

func TestStandardScalerColumnMismatch(t *testing.T) {
	scaler := &StandardScaler{}
	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(2, 3, nil)); err == nil {
		t.Error("expected error for column count mismatch")
	}
}

func TestLabelEncoder(t *testing.T) {
	enc := &LabelEncoder{}
	y, err := enc.FitTransform([]string{"yes", "no", "yes", "maybe"})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	// 类按字典序编号：maybe=0, no=1, yes=2
	if want := []string{"maybe", "no", "yes"}; !reflect.DeepEqual(enc.Classes, want) {
		t.Errorf("Classes = %v, want %v", enc.Classes, want)
	}
	if want := []float64{2, 1, 2, 0}; !reflect.DeepEqual(y, want) {
		t.Errorf("y = %v, want %v", y, want)
	}

	if _, err := enc.Transform([]string{"unknown"}); err == nil {
		t.Error("expected error for unseen label")
	}
}

func TestVarianceThreshold(t *testing.T) {
	X := mat.NewDense(4, 3, []float64{
		1, 7, 0.1,
		2, 7, 0.1,
		3, 7, 0.2,
		4, 7, 0.2,
	})

	vt := &VarianceThreshold{}
	out, err := vt.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	_, c := out.Dims()
	if c != 2 {
		t.Errorf("kept %d columns, want 2 (constant column removed)", c)
	}
	if want := []string{"a", "c"}; !reflect.DeepEqual(vt.SupportNames([]string{"a", "b", "c"}), want) {
		t.Errorf("SupportNames = %v, want %v", vt.SupportNames([]string{"a", "b", "c"}), want)
	}
}

func TestVarianceThresholdAllBelow(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{3, 3})
	vt := &VarianceThreshold{}
	if err := vt.Fit(X); err == nil {
		t.Error("expected error when every feature is below threshold")
	}
}
