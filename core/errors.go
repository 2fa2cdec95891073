package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Profile 错误：INVALID_INPUT（评分数为负）
//   - Store 错误：NOT_FOUND（用户/电影不存在）
//   - Predictor 错误：UNAVAILABLE（模型服务暂不可用）
//   - Engine 错误：UNAVAILABLE（所有打分源均失败）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "profile", "predictor", "engine"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
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
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleProfile   = "profile"   // 用户画像模块
	ModuleStore     = "store"     // 存储模块
	ModuleCache     = "cache"     // 结果缓存模块
	ModulePredictor = "predictor" // 预测服务模块
	ModuleEngine    = "engine"    // 推荐引擎模块
)

// 领域哨兵错误。
// 外部协作方错误（用户不存在、预测服务不可用）由编排层恢复或透传；
// 画像校验错误属于前置条件违反，直接失败。
var (
	// ErrInvalidProfile 表示画像数据违反前置条件（如评分数为负）
	ErrInvalidProfile = NewDomainError(ModuleProfile, ErrorCodeInvalidInput, "profile: negative rating count")

	// ErrUserNotFound 表示用户不存在
	ErrUserNotFound = NewDomainError(ModuleProfile, ErrorCodeNotFound, "profile: user not found")

	// ErrMovieNotFound 表示电影不存在
	ErrMovieNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: movie not found")

	// ErrPredictorUnavailable 表示预测服务暂不可用（可恢复，触发降级）
	ErrPredictorUnavailable = NewDomainError(ModulePredictor, ErrorCodeUnavailable, "predictor: service unavailable")

	// ErrRecommendationUnavailable 表示所有打分源均失败，无法生成推荐
	ErrRecommendationUnavailable = NewDomainError(ModuleEngine, ErrorCodeUnavailable, "engine: no scoring source succeeded")

	// ErrCacheMiss 表示结果缓存未命中
	ErrCacheMiss = NewDomainError(ModuleCache, ErrorCodeNotFound, "cache: miss")
)

// isCode 检查错误（含包裹链）是否为指定模块+代码的 DomainError
func isCode(err error, module, code string) bool {
	for err != nil {
		if domainErr, ok := err.(*DomainError); ok {
			return domainErr.Module == module && domainErr.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// IsInvalidProfile 检查错误是否为画像前置条件违反
func IsInvalidProfile(err error) bool {
	return isCode(err, ModuleProfile, ErrorCodeInvalidInput)
}

// IsUserNotFound 检查错误是否为用户不存在
func IsUserNotFound(err error) bool {
	return isCode(err, ModuleProfile, ErrorCodeNotFound)
}

// IsPredictorUnavailable 检查错误是否为预测服务不可用
func IsPredictorUnavailable(err error) bool {
	return isCode(err, ModulePredictor, ErrorCodeUnavailable)
}

// IsRecommendationUnavailable 检查错误是否为推荐整体不可用
func IsRecommendationUnavailable(err error) bool {
	return isCode(err, ModuleEngine, ErrorCodeUnavailable)
}

// IsCacheMiss 检查错误是否为缓存未命中
func IsCacheMiss(err error) bool {
	return isCode(err, ModuleCache, ErrorCodeNotFound)
}
