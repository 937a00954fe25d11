// Package mlkit 是一个表格数据自动化训练工具包（ML Kit）。
//
// 设计要点：
// - Pipeline-first: 训练流程通过 Stage 串联（Load → Clean → Feature → Train → Explain）
// - 确定性: 固定随机种子下，同一数据集两次运行产出相同的胜出模型与分数
// - Stage 可扩展: 自定义 Stage 即可插拔扩展（自定义清洗、特征或模型族均可）
package mlkit

import "github.com/rushteam/mlkit/pipeline"

// 轻量 facade：便于用户直接 import "mlkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Stage = pipeline.Stage
type Kind = pipeline.Kind

const (
	KindLoad    = pipeline.KindLoad
	KindClean   = pipeline.KindClean
	KindFeature = pipeline.KindFeature
	KindTrain   = pipeline.KindTrain
	KindExplain = pipeline.KindExplain
)
