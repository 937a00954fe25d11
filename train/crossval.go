package train

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/dataset"
	"github.com/rushteam/mlkit/model"
)

// CrossValidate 对一个模型族做 k 折分层交叉验证，返回各折验证分数的均值。
// 划分按标签分层，每折类别比例与整体一致；折数超过最小类样本数时收缩到
// 最小类样本数，保证不平衡数据下每折都含有所有类别（auc 等指标需要）。
// folds <= 1 时退化为一次 holdout 划分（holdout 为测试集比例）。
// 每一折都用相同配置和种子构建新模型，划分由种子决定，结果可复现。
func CrossValidate(family string, cfg map[string]any, X *core.FeatureMatrix, y []float64,
	metric string, folds int, holdout float64, seed int64, nClasses int) (float64, error) {

	n := X.Rows()
	var splits [][2][]int // {trainIdx, testIdx}
	if folds > 1 {
		if folds > n {
			return 0, fmt.Errorf("crossval: %d folds for %d rows", folds, n)
		}
		if mc := minClassCount(y); mc >= 2 && folds > mc {
			folds = mc
		}
		kf := dataset.StratifiedKFoldSplit(y, folds, seed)
		for f := range kf {
			var trainIdx []int
			for g := range kf {
				if g != f {
					trainIdx = append(trainIdx, kf[g]...)
				}
			}
			splits = append(splits, [2][]int{trainIdx, kf[f]})
		}
	} else {
		if holdout <= 0 || holdout >= 1 {
			holdout = 0.2
		}
		trainIdx, testIdx := dataset.TrainTestSplit(n, holdout, seed)
		splits = append(splits, [2][]int{trainIdx, testIdx})
	}

	sum := 0.0
	for _, split := range splits {
		trainX := subset(X, split[0])
		testX := subset(X, split[1])
		trainY := subsetVec(y, split[0])
		testY := subsetVec(y, split[1])

		clf, err := model.New(family, cfg, seed)
		if err != nil {
			return 0, err
		}
		if err := clf.Fit(trainX, trainY); err != nil {
			return 0, fmt.Errorf("crossval: fit %s: %w", family, err)
		}

		score, err := Score(metric, testY, clf.Predict(testX), clf.PredictProba(testX), nClasses)
		if err != nil {
			return 0, fmt.Errorf("crossval: score %s: %w", family, err)
		}
		sum += score
	}
	return sum / float64(len(splits)), nil
}

// minClassCount 返回最小类的样本数。
func minClassCount(y []float64) int {
	counts := make(map[float64]int)
	for _, v := range y {
		counts[v]++
	}
	min := len(y)
	for _, c := range counts {
		if c < min {
			min = c
		}
	}
	return min
}

// subset 按行索引抽取子矩阵。
func subset(X *core.FeatureMatrix, idx []int) *mat.Dense {
	p := X.Cols()
	out := mat.NewDense(len(idx), p, nil)
	for k, i := range idx {
		for j := 0; j < p; j++ {
			out.Set(k, j, X.At(i, j))
		}
	}
	return out
}

func subsetVec(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}
