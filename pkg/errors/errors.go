package errors

import "errors"

// ErrUniqueViolation 唯一约束冲突（由 Repository 层从数据库错误翻译而来）
var ErrUniqueViolation = errors.New("唯一约束冲突")
