package train

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/mlkit/core"
)

func separableFeatures(n int, seed int64) (*core.FeatureMatrix, []float64) {
	rnd := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			X.Set(i, 0, 1+rnd.Float64())
			y[i] = 1
		} else {
			X.Set(i, 0, -1-rnd.Float64())
		}
		X.Set(i, 1, rnd.NormFloat64())
	}
	return &core.FeatureMatrix{Names: []string{"f0", "f1"}, Data: X}, y
}

func TestCrossValidate(t *testing.T) {
	X, y := separableFeatures(60, 1)

	score, err := CrossValidate("decision_tree", nil, X, y, MetricAccuracy, 5, 0, 42, 2)
	if err != nil {
		t.Fatalf("CrossValidate: %v", err)
	}
	if score < 0.8 {
		t.Errorf("cv accuracy = %v, want >= 0.8 on separable data", score)
	}

	again, err := CrossValidate("decision_tree", nil, X, y, MetricAccuracy, 5, 0, 42, 2)
	if err != nil {
		t.Fatal(err)
	}
	if score != again {
		t.Errorf("same seed gave %v then %v, want identical scores", score, again)
	}
}

func TestCrossValidateHoldout(t *testing.T) {
	X, y := separableFeatures(40, 2)
	score, err := CrossValidate("knn", nil, X, y, MetricAccuracy, 1, 0.25, 7, 2)
	if err != nil {
		t.Fatalf("CrossValidate: %v", err)
	}
	if score < 0.7 {
		t.Errorf("holdout accuracy = %v, want >= 0.7", score)
	}
}

func TestCrossValidateImbalancedAUC(t *testing.T) {
	// 40 行只有 4 个正例：分层划分（折数收缩到最小类样本数）保证
	// 每折验证集都含正例，auc 在不平衡数据上也能算出来
	rnd := rand.New(rand.NewSource(0))
	X := mat.NewDense(40, 2, nil)
	y := make([]float64, 40)
	for i := 0; i < 40; i++ {
		if i%10 == 0 {
			X.Set(i, 0, 2+rnd.Float64())
			y[i] = 1
		} else {
			X.Set(i, 0, -2-rnd.Float64())
		}
		X.Set(i, 1, rnd.NormFloat64())
	}
	fm := &core.FeatureMatrix{Names: []string{"f0", "f1"}, Data: X}

	score, err := CrossValidate("logistic_regression", nil, fm, y, MetricAUC, 5, 0, 0, 2)
	if err != nil {
		t.Fatalf("CrossValidate: %v", err)
	}
	if score < 0.9 {
		t.Errorf("cv auc = %v, want >= 0.9 on separable data", score)
	}
}

func TestCrossValidateTooManyFolds(t *testing.T) {
	X, y := separableFeatures(4, 3)
	if _, err := CrossValidate("knn", nil, X, y, MetricAccuracy, 10, 0, 1, 2); err == nil {
		t.Error("expected error when folds exceed rows")
	}
}

func TestCrossValidateUnknownFamily(t *testing.T) {
	X, y := separableFeatures(10, 4)
	if _, err := CrossValidate("no_such_family", nil, X, y, MetricAccuracy, 2, 0, 1, 2); err == nil {
		t.Error("expected error for unknown family")
	}
}
