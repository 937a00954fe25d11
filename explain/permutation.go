package explain

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/train"
)

// PermutationImportance 计算模型无关的特征归因：
// 逐列打乱特征值并测量指标下降幅度，下降越多说明模型越依赖该特征。
// 打乱使用带种子的随机源，重复 repeats 次取平均，结果可复现。
func PermutationImportance(clf core.Classifier, X *core.FeatureMatrix, y []float64,
	metric string, nClasses, repeats int, seed int64) (*core.ExplanationReport, error) {

	if repeats < 1 {
		repeats = 1
	}

	base, err := train.Score(metric, y, clf.Predict(X.Data), clf.PredictProba(X.Data), nClasses)
	if err != nil {
		return nil, fmt.Errorf("explain: base score: %w", err)
	}

	rnd := rand.New(rand.NewSource(seed))
	work := X.Clone()
	features := make([]core.FeatureImportance, X.Cols())

	for j := 0; j < X.Cols(); j++ {
		orig := X.Col(j)
		drop := 0.0
		for r := 0; r < repeats; r++ {
			shuffled := append([]float64(nil), orig...)
			rnd.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			work.SetCol(j, shuffled)

			score, err := train.Score(metric, y,
				clf.Predict(work.Data), clf.PredictProba(work.Data), nClasses)
			if err != nil {
				return nil, fmt.Errorf("explain: feature %q: %w", X.Names[j], err)
			}
			drop += base - score
		}
		work.SetCol(j, orig)
		features[j] = core.FeatureImportance{
			Name:       X.Names[j],
			Importance: drop / float64(repeats),
		}
	}

	// 贡献度降序，同分按特征名，保证输出稳定
	sort.Slice(features, func(a, b int) bool {
		if features[a].Importance != features[b].Importance {
			return features[a].Importance > features[b].Importance
		}
		return features[a].Name < features[b].Name
	})

	return &core.ExplanationReport{
		Family:    clf.Family(),
		Metric:    metric,
		BaseScore: base,
		Features:  features,
	}, nil
}
