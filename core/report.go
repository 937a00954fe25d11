package core

// FeatureImportance 是单个特征对预测的贡献度。
type FeatureImportance struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

// ExplanationReport 是解释阶段的只读产物：描述各特征对 BestModel
// 预测的贡献，按贡献度降序排列。仅供最终用户消费，后续阶段不依赖它。
type ExplanationReport struct {
	Family    string              `json:"family"`     // 被解释的模型族
	Metric    string              `json:"metric"`     // 贡献度基于的指标
	BaseScore float64             `json:"base_score"` // 未扰动时的全量分数
	Features  []FeatureImportance `json:"features"`   // 按 Importance 降序
}

// TopN 返回贡献度最高的前 n 个特征。
func (r *ExplanationReport) TopN(n int) []FeatureImportance {
	if n <= 0 || n > len(r.Features) {
		n = len(r.Features)
	}
	return r.Features[:n]
}
