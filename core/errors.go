package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Loader 错误：CONFIGURATION（路径/目标列无效）、DATA（数据不可解析）
//   - Train 错误：TRAINING（候选模型训练失败）
//   - Explain/Serialize 错误：SERIALIZATION（产物写入失败）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "CONFIGURATION", "TRAINING"）
	Message string // 错误消息
	Module  string // 模块名称（如 "loader", "train", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误（或其链上任一错误）是否为 DomainError 类型
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 从错误链中提取 DomainError，不存在则返回 nil。
// 流水线会用 %w 包装 Stage 错误，这里必须穿透包装。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeConfiguration = "CONFIGURATION" // 配置无效（坏路径、目标列缺失）
	ErrorCodeData          = "DATA"          // 数据无效（空数据集、不可解析）
	ErrorCodeTraining      = "TRAINING"      // 候选模型训练失败
	ErrorCodeSerialization = "SERIALIZATION" // 模型产物写入失败
	ErrorCodeNotFound      = "NOT_FOUND"     // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED" // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT" // 输入无效
)

// 模块名称常量
const (
	ModuleLoader  = "loader"  // 数据加载模块
	ModuleClean   = "clean"   // 数据清洗模块
	ModuleFeature = "feature" // 特征工程模块
	ModuleTrain   = "train"   // 训练/选型模块
	ModuleExplain = "explain" // 解释/序列化模块
	ModuleModel   = "model"   // 模型实现模块
	ModuleStore   = "store"   // 存储模块
	ModuleConfig  = "config"  // 配置模块
)

// 通用错误检查函数

// IsConfiguration 检查错误是否为 CONFIGURATION
func IsConfiguration(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeConfiguration
	}
	return false
}

// IsData 检查错误是否为 DATA
func IsData(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeData
	}
	return false
}

// IsTraining 检查错误是否为 TRAINING
func IsTraining(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeTraining
	}
	return false
}

// IsSerialization 检查错误是否为 SERIALIZATION
func IsSerialization(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeSerialization
	}
	return false
}
