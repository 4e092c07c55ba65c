package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型或在其上包装
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "NO_RESULTS"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "engine"）
}

func (e *DomainError) Error() string {
	return e.Message
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
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore        = "store"        // 存储模块
	ModuleVector       = "vector"       // 向量模块
	ModuleService      = "service"      // 外部服务模块
	ModuleCatalog      = "catalog"      // 目录模块
	ModuleEngine       = "engine"       // 推荐引擎模块
	ModuleConversation = "conversation" // 会话模块
)

// ErrStoreNotFound 是存储层的统一"未找到"错误。
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// NoResultsError 表示打分与阈值过滤之后没有任何候选。
// 这是会话层面的结果变体而非系统故障：调用方必须显式处理，
// 转换为邀请用户换一种描述的回复。
type NoResultsError struct{}

func (e *NoResultsError) Error() string {
	return "no items matched above the relevance threshold"
}

// NoResultsInBudgetError 表示预算硬约束把目录裁剪成了空集，
// 携带解析出的边界，供会话层渲染"调整预算"的提示。
// 预算矛盾（min > max）也走这里，绝不静默重释。
type NoResultsInBudgetError struct {
	Bounds BudgetBounds
}

func (e *NoResultsInBudgetError) Error() string {
	return "no items within budget " + e.Bounds.String()
}

// IsNoResults 检查错误是否为通用无结果。
func IsNoResults(err error) bool {
	var nr *NoResultsError
	return errors.As(err, &nr)
}

// IsNoResultsInBudget 检查错误是否为预算内无结果，并返回边界。
func IsNoResultsInBudget(err error) (BudgetBounds, bool) {
	var nb *NoResultsInBudgetError
	if errors.As(err, &nb) {
		return nb.Bounds, true
	}
	return BudgetBounds{}, false
}
