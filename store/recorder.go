package store

import (
	"context"

	"github.com/rushteam/mlkit/core"
)

// RunRecorder 把一次训练运行的候选分数榜、元数据与模型产物
// 写入 KeyValueStore，供后续查询与对比。
//
// Key 布局：
//   - run:<id>:candidates  zset，member=模型族，score=验证分数
//   - run:<id>:meta        hash，运行元数据（metric/best/rows 等）
//   - run:<id>:artifact    产物 JSON 字节
type RunRecorder struct {
	kv core.KeyValueStore
}

func NewRunRecorder(kv core.KeyValueStore) *RunRecorder {
	return &RunRecorder{kv: kv}
}

func candidatesKey(runID string) string { return "run:" + runID + ":candidates" }
func metaKey(runID string) string       { return "run:" + runID + ":meta" }
func artifactKey(runID string) string   { return "run:" + runID + ":artifact" }

// RecordScore 记录某模型族的验证分数。
func (r *RunRecorder) RecordScore(ctx context.Context, runID, family string, score float64) error {
	return r.kv.ZAdd(ctx, candidatesKey(runID), score, family)
}

// RecordMeta 记录运行元数据。
func (r *RunRecorder) RecordMeta(ctx context.Context, runID string, meta map[string]string) error {
	for field, val := range meta {
		if err := r.kv.HSet(ctx, metaKey(runID), field, []byte(val)); err != nil {
			return err
		}
	}
	return nil
}

// RecordArtifact 保存模型产物字节。
func (r *RunRecorder) RecordArtifact(ctx context.Context, runID string, data []byte) error {
	return r.kv.Set(ctx, artifactKey(runID), data)
}

// Candidate 是分数榜上的一个候选。
type Candidate struct {
	Family string
	Score  float64
}

// Scoreboard 按分数降序返回候选模型族与分数。
func (r *RunRecorder) Scoreboard(ctx context.Context, runID string) ([]Candidate, error) {
	families, err := r.kv.ZRange(ctx, candidatesKey(runID), 0, -1)
	if err != nil {
		return nil, err
	}
	result := make([]Candidate, 0, len(families))
	for _, f := range families {
		score, err := r.kv.ZScore(ctx, candidatesKey(runID), f)
		if err != nil {
			return nil, err
		}
		result = append(result, Candidate{Family: f, Score: score})
	}
	return result, nil
}

// Meta 返回运行元数据。
func (r *RunRecorder) Meta(ctx context.Context, runID string) (map[string]string, error) {
	raw, err := r.kv.HGetAll(ctx, metaKey(runID))
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(raw))
	for k, v := range raw {
		result[k] = string(v)
	}
	return result, nil
}

// Artifact 返回保存的模型产物字节。
func (r *RunRecorder) Artifact(ctx context.Context, runID string) ([]byte, error) {
	return r.kv.Get(ctx, artifactKey(runID))
}
