package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("row", cel.DynType),
		cel.Variable("target", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// RowFilter 是行过滤 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式变量：
//   - row：当前行，字段名 -> 值（数值列为 double，文本列为 string，缺失为 null）
//   - target：当前行的目标列原始值
//
// 示例：
//   - `row.age >= 18.0` → 只保留成年样本
//   - `row.comment != ""` → 剔除空文本行
//   - `target != null && target != ""` → 剔除缺失标签的行
type RowFilter struct {
	expr string
	prg  cel.Program
}

// NewRowFilter 编译行过滤表达式。表达式只编译一次，可对每一行复用。
// 空表达式表示不过滤（Keep 恒为 true）。
func NewRowFilter(expr string) (*RowFilter, error) {
	f := &RowFilter{expr: expr}
	if expr == "" {
		return f, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	// 编译表达式
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	f.prg = prg
	return f, nil
}

// Keep 对单行求值，返回该行是否保留。
// row 为字段名到值的映射；target 为目标列原始值。
func (f *RowFilter) Keep(row map[string]any, target any) (bool, error) {
	if f.prg == nil {
		return true, nil
	}

	out, _, err := f.prg.Eval(map[string]any{
		"row":    row,
		"target": target,
	})
	if err != nil {
		// 对于不存在的 key，CEL 会返回错误
		// 用户应该使用 row.key != null 来检查存在性，而不是直接访问
		return false, fmt.Errorf("eval error: %v", err)
	}

	// 转换为布尔值
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// Expr 返回原始表达式（用于日志）。
func (f *RowFilter) Expr() string { return f.expr }
