package core

import "gonum.org/v1/gonum/mat"

// Classifier 是候选模型的统一能力抽象：输入特征矩阵，输出预测。
//
// 设计原则：
//   - 定义在领域层（core），由 model 包的各模型族实现
//   - 选型逻辑只依赖此接口，新增/移除模型族无需改动选型代码
//   - 训练参数可序列化（Params/SetParams），用于模型产物落盘与加载
//
// 实现：
//   - model.LogisticRegression
//   - model.DecisionTree
//   - model.RandomForest
//   - model.GradientBoosting
//   - model.KNN
type Classifier interface {
	// Family 返回模型族名称（用于注册表/日志/产物）
	Family() string

	// Fit 在特征矩阵 X（n x p）和标签 y（n，取值为 0..k-1 的类编号）上训练
	Fit(X mat.Matrix, y []float64) error

	// Predict 返回每行的预测类编号
	Predict(X mat.Matrix) []float64

	// PredictProba 返回每行正类（类编号 1）的概率；
	// 多分类场景返回预测类的置信度
	PredictProba(X mat.Matrix) []float64

	// Params 序列化训练后的参数（JSON）
	Params() ([]byte, error)

	// SetParams 从序列化参数恢复模型（加载产物时使用）
	SetParams(data []byte) error
}

// Transformer 是预处理步骤的统一接口（先 Fit 后 Transform）。
type Transformer interface {
	// Fit 学习变换所需的统计量
	Fit(X mat.Matrix) error

	// Transform 应用变换
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform 先 Fit 再 Transform
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
