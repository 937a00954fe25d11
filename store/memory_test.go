package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/mlkit/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	if _, err := ms.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get missing = %v, want not-found", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after delete = %v, want not-found", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := ms.BatchSet(ctx, kvs); err != nil {
		t.Fatal(err)
	}
	got, err := ms.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	for member, score := range map[string]float64{"low": 0.2, "high": 0.9, "mid": 0.5} {
		if err := ms.ZAdd(ctx, "board", score, member); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ms.ZRange(ctx, "board", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"high", "mid", "low"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ZRange = %v, want %v", got, want)
	}

	top, err := ms.ZRange(ctx, "board", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0] != "high" {
		t.Errorf("ZRange top = %v", top)
	}

	score, err := ms.ZScore(ctx, "board", "mid")
	if err != nil || score != 0.5 {
		t.Errorf("ZScore = %v, %v", score, err)
	}
	if _, err := ms.ZScore(ctx, "board", "nope"); !core.IsStoreNotFound(err) {
		t.Errorf("ZScore missing = %v, want not-found", err)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	if err := ms.HSet(ctx, "meta", "best", []byte("random_forest")); err != nil {
		t.Fatal(err)
	}
	if err := ms.HSet(ctx, "meta", "metric", []byte("auc")); err != nil {
		t.Fatal(err)
	}

	v, err := ms.HGet(ctx, "meta", "best")
	if err != nil || string(v) != "random_forest" {
		t.Errorf("HGet = %q, %v", v, err)
	}

	all, err := ms.HGetAll(ctx, "meta")
	if err != nil || len(all) != 2 {
		t.Errorf("HGetAll = %v, %v", all, err)
	}
}

func TestRunRecorder(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	exerciseRunRecorder(t, ms, "run-1")
}

// exerciseRunRecorder 对任意 KeyValueStore 后端验证 RunRecorder 的完整行为，
// MemoryStore 和 RedisStore 的用例共用。
func exerciseRunRecorder(t *testing.T, kv core.KeyValueStore, runID string) {
	t.Helper()
	ctx := context.Background()
	rec := NewRunRecorder(kv)
	if err := rec.RecordScore(ctx, runID, "decision_tree", 0.8); err != nil {
		t.Fatal(err)
	}
	if err := rec.RecordScore(ctx, runID, "random_forest", 0.9); err != nil {
		t.Fatal(err)
	}
	if err := rec.RecordMeta(ctx, runID, map[string]string{"best": "random_forest"}); err != nil {
		t.Fatal(err)
	}
	if err := rec.RecordArtifact(ctx, runID, []byte(`{"family":"random_forest"}`)); err != nil {
		t.Fatal(err)
	}

	board, err := rec.Scoreboard(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(board) != 2 || board[0].Family != "random_forest" || board[0].Score != 0.9 {
		t.Errorf("Scoreboard = %+v", board)
	}

	meta, err := rec.Meta(ctx, runID)
	if err != nil || meta["best"] != "random_forest" {
		t.Errorf("Meta = %v, %v", meta, err)
	}

	data, err := rec.Artifact(ctx, runID)
	if err != nil || len(data) == 0 {
		t.Errorf("Artifact = %q, %v", data, err)
	}

	// 不同 runID 互不可见
	if _, err := rec.Artifact(ctx, runID+"-other"); !core.IsStoreNotFound(err) {
		t.Errorf("Artifact other run = %v, want not-found", err)
	}
}
