package train

import (
	"fmt"
	"math"
	"sort"
)

// 选型指标。所有指标统一为"越大越好"，logloss 在 Score 中取负。
const (
	MetricAccuracy = "accuracy"
	MetricF1       = "f1"
	MetricAUC      = "auc"
	MetricLogLoss  = "logloss"
)

// Accuracy 返回预测类编号与真实类编号一致的比例。
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// PrecisionRecallF1 计算二分类（类编号 0/1）的精确率/召回率/F1。
func PrecisionRecallF1(yTrue, yPred []float64) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0
	for i := range yTrue {
		if yPred[i] == 1 && yTrue[i] == 1 {
			tp++
		}
		if yPred[i] == 1 && yTrue[i] == 0 {
			fp++
		}
		if yPred[i] == 0 && yTrue[i] == 1 {
			fn++
		}
	}
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}

// ROCAUC 用秩和（Mann-Whitney U）计算二分类 AUC，并列分数取平均秩。
func ROCAUC(yTrue, proba []float64) (float64, error) {
	nPos, nNeg := 0, 0
	for _, v := range yTrue {
		if v == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, fmt.Errorf("metrics: auc needs both classes present")
	}

	idx := make([]int, len(proba))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return proba[idx[a]] < proba[idx[b]] })

	// 并列分数取平均秩
	ranks := make([]float64, len(proba))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && proba[idx[j+1]] == proba[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}

	sumPos := 0.0
	for i, v := range yTrue {
		if v == 1 {
			sumPos += ranks[i]
		}
	}
	u := sumPos - float64(nPos)*(float64(nPos)+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// LogLoss 计算二分类交叉熵，概率裁剪到 [1e-15, 1-1e-15]。
func LogLoss(yTrue, proba []float64) float64 {
	const eps = 1e-15
	s := 0.0
	for i, v := range yTrue {
		p := proba[i]
		if p < eps {
			p = eps
		}
		if p > 1-eps {
			p = 1 - eps
		}
		if v == 1 {
			s -= math.Log(p)
		} else {
			s -= math.Log(1 - p)
		}
	}
	return s / float64(len(yTrue))
}

// Score 按指标名打分，返回值统一为"越大越好"：
//   - accuracy / f1 / auc 原样返回
//   - logloss 取负
//
// auc / f1 / logloss 仅支持二分类。
func Score(metric string, yTrue, yPred, proba []float64, nClasses int) (float64, error) {
	switch metric {
	case MetricAccuracy:
		return Accuracy(yTrue, yPred), nil
	case MetricF1:
		if nClasses != 2 {
			return 0, fmt.Errorf("metrics: f1 needs a binary target, got %d classes", nClasses)
		}
		_, _, f1 := PrecisionRecallF1(yTrue, yPred)
		return f1, nil
	case MetricAUC:
		if nClasses != 2 {
			return 0, fmt.Errorf("metrics: auc needs a binary target, got %d classes", nClasses)
		}
		return ROCAUC(yTrue, proba)
	case MetricLogLoss:
		if nClasses != 2 {
			return 0, fmt.Errorf("metrics: logloss needs a binary target, got %d classes", nClasses)
		}
		return -LogLoss(yTrue, proba), nil
	default:
		return 0, fmt.Errorf("metrics: unknown metric %q", metric)
	}
}
