// Package store 提供 core.Store / core.KeyValueStore 的具体实现，
// 以及基于它们的训练运行记录器 RunRecorder。
package store

import "github.com/rushteam/mlkit/core"

// 错误别名，方便调用方使用 store.ErrNotFound
var (
	ErrNotFound     = core.ErrStoreNotFound
	ErrNotSupported = core.ErrStoreNotSupported
)
