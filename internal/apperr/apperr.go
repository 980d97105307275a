package apperr

import "errors"

// 核心操作的错误分类。具体信息由各层用 fmt.Errorf("...: %w", ...) 包装附加，
// 调用方统一用 errors.Is 判断类别。存储层故障不属于任何一类，原样向上传递，
// 事务已整体回滚，调用方可安全地重试整个操作。
var (
	// 必填属性缺失或格式错误
	ErrValidation = errors.New("validation failed")
	// 引用的内容、分享或用户不存在
	ErrNotFound = errors.New("not found")
	// 非创建者尝试删除等越权操作
	ErrUnauthorized = errors.New("unauthorized")
	// 对已处理分享的再次处理
	ErrInvalidState = errors.New("invalid state")
)
