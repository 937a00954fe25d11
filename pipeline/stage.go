package pipeline

import (
	"context"

	"github.com/rushteam/mlkit/core"
)

// Kind 用于标记 Stage 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindLoad    Kind = "load"    // 加载阶段：读取分隔符文件，构建 Dataset
	KindClean   Kind = "clean"   // 清洗阶段：缺失值填充、行过滤
	KindFeature Kind = "feature" // 特征阶段：TF-IDF + 数值标准化，产出 FeatureMatrix
	KindTrain   Kind = "train"   // 训练阶段：逐族训练候选模型并选型
	KindExplain Kind = "explain" // 解释阶段：特征归因 + 模型产物落盘
)

// Stage 是 Pipeline 的最小可扩展单元。
// 统一采用"读写 RunContext 产物字段"的形态：每个 Stage 消费上游产物、
// 生产自己的产物，失败时返回 error 中止整条流水线。
type Stage interface {
	Name() string
	Kind() Kind

	Process(ctx context.Context, rctx *core.RunContext) error
}
