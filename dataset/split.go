package dataset

import (
	"math/rand"
	"sort"
)

// TrainTestSplit 按 testRatio 把 n 行切成训练/测试索引（带种子，结果可复现）。
func TrainTestSplit(n int, testRatio float64, seed int64) (trainIdx, testIdx []int) {
	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(n)
	nTest := int(float64(n) * testRatio)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	testIdx = append(testIdx, perm[:nTest]...)
	trainIdx = append(trainIdx, perm[nTest:]...)
	return trainIdx, testIdx
}

// KFoldSplit 把 n 行打乱后分成 k 个 fold，返回每个 fold 的索引。
// 相同 (n, k, seed) 产生相同划分。
func KFoldSplit(n, k int, seed int64) [][]int {
	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(n)
	folds := make([][]int, k)
	for i, idx := range perm {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds
}

// StratifiedKFoldSplit 按标签分层划分 k 个 fold：每个类内部打乱后轮转分配，
// fold 间的类别比例与整体一致，少数类也会尽量分散到各折。
// 类别不平衡时应优先用它，普通 KFoldSplit 可能把少数类全部分到同一折。
// 相同 (y, k, seed) 产生相同划分。
func StratifiedKFoldSplit(y []float64, k int, seed int64) [][]int {
	rnd := rand.New(rand.NewSource(seed))
	byClass := make(map[float64][]int)
	var classes []float64
	for i, v := range y {
		if _, ok := byClass[v]; !ok {
			classes = append(classes, v)
		}
		byClass[v] = append(byClass[v], i)
	}
	sort.Float64s(classes)

	folds := make([][]int, k)
	slot := 0
	for _, c := range classes {
		idx := byClass[c]
		rnd.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, i := range idx {
			folds[slot%k] = append(folds[slot%k], i)
			slot++
		}
	}
	return folds
}
