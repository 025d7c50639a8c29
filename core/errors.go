package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），通过 errors.As 识别被 %w 包装的错误
//
// 使用场景：
//   - Catalog 错误：UNKNOWN_ITEM, MAPPING_INCONSISTENCY
//   - Similarity 错误：DEGENERATE_EMBEDDING, INVALID_INPUT
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - Provider 错误：UNAVAILABLE
type DomainError struct {
	Code    string // 错误代码（如 "UNKNOWN_ITEM"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "similarity"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
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
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 推荐核心错误代码
	ErrorCodeUnknownItem          = "UNKNOWN_ITEM"          // id/name/index 不在映射表中
	ErrorCodeDegenerateEmbedding  = "DEGENERATE_EMBEDDING"  // embedding 范数为 0 或包含 NaN/Inf
	ErrorCodeMappingInconsistency = "MAPPING_INCONSISTENCY" // 映射表之间互相矛盾
)

// 模块名称常量
const (
	ModuleStore      = "store"      // 存储模块
	ModuleCatalog    = "catalog"    // 标识映射模块
	ModuleSimilarity = "similarity" // 相似度矩阵模块
	ModuleRecall     = "recall"     // 召回（排序候选）模块
	ModuleArtifact   = "artifact"   // 离线产物加载模块
	ModuleProvider   = "provider"   // 已拥有物品提供方
	ModuleRecommend  = "recommend"  // 推荐组合
)

// NewUnknownItemError 创建 UNKNOWN_ITEM 错误，kind 为 "id" / "name" / "index"。
func NewUnknownItemError(kind string, key any) *DomainError {
	return NewDomainError(ModuleCatalog, ErrorCodeUnknownItem,
		fmt.Sprintf("catalog: unknown item %s %v", kind, key))
}

// NewDegenerateEmbeddingError 创建 DEGENERATE_EMBEDDING 错误。
func NewDegenerateEmbeddingError(index int, reason string) *DomainError {
	return NewDomainError(ModuleSimilarity, ErrorCodeDegenerateEmbedding,
		fmt.Sprintf("similarity: degenerate embedding at index %d: %s", index, reason))
}

// NewMappingInconsistencyError 创建 MAPPING_INCONSISTENCY 错误。
func NewMappingInconsistencyError(format string, args ...any) *DomainError {
	return NewDomainError(ModuleCatalog, ErrorCodeMappingInconsistency,
		"catalog: mapping inconsistency: "+fmt.Sprintf(format, args...))
}

// 通用错误检查函数

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrorCodeInvalidInput)
}

// IsUnknownItem 检查错误是否为 UNKNOWN_ITEM
func IsUnknownItem(err error) bool {
	return hasCode(err, ErrorCodeUnknownItem)
}

// IsDegenerateEmbedding 检查错误是否为 DEGENERATE_EMBEDDING
func IsDegenerateEmbedding(err error) bool {
	return hasCode(err, ErrorCodeDegenerateEmbedding)
}

// IsMappingInconsistency 检查错误是否为 MAPPING_INCONSISTENCY
func IsMappingInconsistency(err error) bool {
	return hasCode(err, ErrorCodeMappingInconsistency)
}
