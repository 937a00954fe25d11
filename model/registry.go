package model

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/mlkit/core"
)

// Builder 根据配置和随机种子构建一个未训练的候选模型。
// 各模型族在 init 中调用 Register(family, builder) 即可被选型阶段使用，
// 新增/移除模型族无需改动选型逻辑。
type Builder func(cfg map[string]any, seed int64) core.Classifier

var (
	registry   = make(map[string]Builder)
	registryMu sync.RWMutex
)

// Register 注册一个模型族的构建逻辑。
func Register(family string, builder Builder) {
	if family == "" || builder == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[family] = builder
}

// Families 返回已注册的模型族列表（排序），用于错误提示与校验。
func Families() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// New 按族名构建候选模型。
func New(family string, cfg map[string]any, seed int64) (core.Classifier, error) {
	registryMu.RLock()
	builder, ok := registry[family]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown model family %q (supported: %v)", family, Families())
	}
	return builder(cfg, seed), nil
}
