package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 引擎内部没有"致命错误"类别：策略失败只会降级到更弱的策略，
// 错误以 Outcome.Err / Label 的形式暴露给观测，不向调用方抛出。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "EMPTY_CATALOG"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "index", "recall"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeNotSupported = "NOT_SUPPORTED" // 操作不支持
	ErrorCodeEmptyCatalog = "EMPTY_CATALOG" // 目录为空，无法产出结果
	ErrorCodeInvalidInput = "INVALID_INPUT" // 输入无效
	ErrorCodeInternal     = "INTERNAL"      // 内部错误
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 目录模块
	ModuleIndex   = "index"   // 文本索引模块
	ModuleRecall  = "recall"  // 召回/策略模块
	ModuleQuiz    = "quiz"    // quiz 匹配模块
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsEmptyCatalog 检查错误是否为 EMPTY_CATALOG。
func IsEmptyCatalog(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeEmptyCatalog
	}
	return false
}

// ErrEmptyCatalog 表示目录为空，连热门兜底也无数据可用。
var ErrEmptyCatalog = NewDomainError(ModuleCatalog, ErrorCodeEmptyCatalog, "catalog: no movies loaded")
