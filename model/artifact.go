package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rushteam/mlkit/core"
)

// Artifact 是模型产物的落盘格式：单个 JSON 文件，包含模型族、
// 特征名、类表、选型指标与序列化参数，可独立用于后续预测。
type Artifact struct {
	Family       string          `json:"family"`
	Metric       string          `json:"metric"`
	Score        float64         `json:"score"`
	Seed         int64           `json:"seed"`
	FeatureNames []string        `json:"feature_names"`
	Classes      []string        `json:"classes"`
	CreatedAt    time.Time       `json:"created_at"`
	Params       json.RawMessage `json:"params"`
}

// NewArtifact 从训练完成的模型构建产物。
func NewArtifact(clf core.Classifier, rctx *core.RunContext) (*Artifact, error) {
	params, err := clf.Params()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeSerialization,
			fmt.Sprintf("model: marshal %s params: %v", clf.Family(), err))
	}
	return &Artifact{
		Family:       clf.Family(),
		Metric:       rctx.Metric,
		Score:        rctx.Score,
		Seed:         rctx.Seed,
		FeatureNames: rctx.Features.Names,
		Classes:      rctx.Classes,
		CreatedAt:    time.Now().UTC(),
		Params:       params,
	}, nil
}

// Save 把产物写到 path。路径不可写时返回 SERIALIZATION 错误。
func (a *Artifact) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeSerialization,
			fmt.Sprintf("model: marshal artifact: %v", err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeSerialization,
			fmt.Sprintf("model: write %s: %v", path, err))
	}
	return nil
}

// Bytes 返回产物的 JSON 字节（RunRecorder 落库使用）。
func (a *Artifact) Bytes() ([]byte, error) {
	return json.Marshal(a)
}

// LoadArtifact 从 path 读回产物并重建可预测的模型。
func LoadArtifact(path string) (*Artifact, core.Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeConfiguration,
			fmt.Sprintf("model: read %s: %v", path, err))
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeSerialization,
			fmt.Sprintf("model: parse %s: %v", path, err))
	}

	clf, err := New(art.Family, nil, art.Seed)
	if err != nil {
		return nil, nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeConfiguration,
			fmt.Sprintf("model: %v", err))
	}
	if err := clf.SetParams(art.Params); err != nil {
		return nil, nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeSerialization,
			fmt.Sprintf("model: restore %s params: %v", art.Family, err))
	}
	return &art, clf, nil
}
