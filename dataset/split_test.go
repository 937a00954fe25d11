package dataset

import (
	"reflect"
	"sort"
	"testing"
)

func TestTrainTestSplit(t *testing.T) {
	train1, test1 := TrainTestSplit(100, 0.2, 7)
	train2, test2 := TrainTestSplit(100, 0.2, 7)

	if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
		t.Error("same seed should produce the same split")
	}
	if len(test1) != 20 || len(train1) != 80 {
		t.Errorf("split sizes = %d/%d, want 80/20", len(train1), len(test1))
	}

	seen := make(map[int]bool, 100)
	for _, idx := range append(append([]int{}, train1...), test1...) {
		if seen[idx] {
			t.Fatalf("index %d appears twice", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 100 {
		t.Errorf("covered %d indices, want 100", len(seen))
	}
}

func TestTrainTestSplitSmall(t *testing.T) {
	// 极小样本也要保证 train/test 均非空
	train, test := TrainTestSplit(3, 0.01, 1)
	if len(test) == 0 || len(train) == 0 {
		t.Errorf("sizes = %d/%d, both must be non-empty", len(train), len(test))
	}
}

func TestKFoldSplit(t *testing.T) {
	folds := KFoldSplit(23, 5, 42)
	if len(folds) != 5 {
		t.Fatalf("folds = %d, want 5", len(folds))
	}

	var all []int
	for _, fold := range folds {
		if len(fold) == 0 {
			t.Error("empty fold")
		}
		all = append(all, fold...)
	}
	sort.Ints(all)
	for i, idx := range all {
		if idx != i {
			t.Fatalf("folds do not partition indices: got %v", all)
		}
	}

	again := KFoldSplit(23, 5, 42)
	if !reflect.DeepEqual(folds, again) {
		t.Error("same seed should produce the same folds")
	}
}

func TestStratifiedKFoldSplit(t *testing.T) {
	// 40 行里只有 4 个正例，4 折时每折必须恰好分到 1 个
	y := make([]float64, 40)
	for i := range y {
		if i%10 == 0 {
			y[i] = 1
		}
	}

	folds := StratifiedKFoldSplit(y, 4, 0)
	if len(folds) != 4 {
		t.Fatalf("folds = %d, want 4", len(folds))
	}

	var all []int
	for f, fold := range folds {
		pos := 0
		for _, idx := range fold {
			if y[idx] == 1 {
				pos++
			}
		}
		if pos != 1 {
			t.Errorf("fold %d has %d positives, want exactly 1", f, pos)
		}
		if len(fold) != 10 {
			t.Errorf("fold %d size = %d, want 10", f, len(fold))
		}
		all = append(all, fold...)
	}
	sort.Ints(all)
	for i, idx := range all {
		if idx != i {
			t.Fatalf("folds do not partition indices: got %v", all)
		}
	}

	again := StratifiedKFoldSplit(y, 4, 0)
	if !reflect.DeepEqual(folds, again) {
		t.Error("same seed should produce the same folds")
	}
}
