package core

import uuid "github.com/satori/go.uuid"

// RunContext 承载单次流水线运行的配置与阶段产物，贯穿所有 Stage 透传。
//
// 每个 Stage 独占生产自己的产物字段并交给下一个 Stage 消费；
// Stage 之间不持有对方内部状态的引用。
type RunContext struct {
	RunID  string // 运行标识，用于 RunRecorder 的 key 前缀
	Target string // 目标列名称
	Seed   int64  // 全局随机种子；相同输入 + 相同种子 => 选型结果一致

	// 阶段产物（按流水线顺序填充）
	Dataset  *Dataset           // Loader 产出，Cleaner 原地清洗
	Features *FeatureMatrix     // Feature Builder 产出
	Y        []float64          // 标签编码后的目标（与 Features 行对齐）
	Classes  []string           // 类编号 -> 原始标签
	Best     Classifier         // Model Selector 产出的最优模型
	BestName string             // 最优模型族名称
	Score    float64            // 最优模型的验证分数
	Metric   string             // 选型使用的指标名称
	Report   *ExplanationReport // Explainer 产出的特征归因报告

	// Params 请求级参数，由各 Stage 按需读写（如 output 路径、图表路径）
	Params map[string]any

	// Labels 运行级标签，用于 explain / 观测（如 rows、features、skipped 族）
	Labels map[string]string
}

// NewRunContext 创建一个带新 RunID 的运行上下文。
func NewRunContext(target string, seed int64) *RunContext {
	return &RunContext{
		RunID:  uuid.NewV4().String(),
		Target: target,
		Seed:   seed,
		Params: make(map[string]any),
		Labels: make(map[string]string),
	}
}

// PutLabel 写入运行级标签。
func (rctx *RunContext) PutLabel(key, val string) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]string)
	}
	rctx.Labels[key] = val
}

// GetLabel 读取运行级标签。
func (rctx *RunContext) GetLabel(key string) (string, bool) {
	if rctx.Labels == nil {
		return "", false
	}
	v, ok := rctx.Labels[key]
	return v, ok
}

// Param 读取请求级参数，不存在时返回 def。
func (rctx *RunContext) Param(key string, def any) any {
	if rctx.Params == nil {
		return def
	}
	if v, ok := rctx.Params[key]; ok {
		return v
	}
	return def
}
