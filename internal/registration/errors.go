package registration

import (
	"fmt"
	"strings"
)

// 错误分类（对应调用方的处理策略）：
// - ValidationError：输入/业务规则不满足，修正后可重试
// - ConflictError：唯一性冲突（手机号重复），同样输入重试必然失败
// - NotFoundError：引用的实体已不存在，刷新后重试
// - StoreError：存储/事务失败，可能是瞬时的，可整体重试

// ValidationError 携带全部违规项，调用方应逐条展示而不是只报第一条。
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// ConflictError 唯一性冲突。
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message == "" {
		return "conflict"
	}
	return e.Message
}

// NotFoundError 引用的实体不存在。
type NotFoundError struct {
	Entity string
	ID     uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id=%d", e.Entity, e.ID)
}

// StoreError 存储层失败。对外只暴露分类文案，原始错误仅用于日志。
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return "store error"
	}
	return "store error: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
