// Package xerrors 提供带类型、业务码与堆栈的增强型错误。
// 模拟引擎的所有错误均以显式返回值传播，不使用 panic。
package xerrors

import (
	"fmt"
	"runtime"
)

// ErrorType 错误的大类
type ErrorType uint

const (
	ErrUnknown ErrorType = iota
	ErrInternal
	// ErrInvalidConfig 配置类错误：非法网格、非法模型参数、非法请求形状。
	// 在任何模拟工作开始之前返回，调用方修正后重新提交即可。
	ErrInvalidConfig
	// ErrRandomSource 随机源错误：传给随机源的分布参数非法（如负的泊松强度）。
	// 属于确定性的配置问题，不重试。
	ErrRandomSource
	ErrNotFound
	ErrLimitExceeded
)

// Error 增强型错误结构
type Error struct {
	Type    ErrorType      `json:"type"`
	Code    int            `json:"code"`    // 业务自定义错误码
	Message string         `json:"message"` // 对外展示的友好消息
	Detail  string         `json:"detail"`  // 对内调试的详细信息
	Cause   error          `json:"-"`       // 原始错误
	Stack   []string       `json:"stack"`   // 堆栈追踪
	Context map[string]any `json:"context"` // 上下文数据 (模型名、参数值等)
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %d: %s (Cause: %v)", e.Type.String(), e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %d: %s", e.Type.String(), e.Code, e.Message)
}

// Unwrap 实现 Go 1.13 解包接口
func (e *Error) Unwrap() error {
	return e.Cause
}

func (t ErrorType) String() string {
	return [...]string{
		"Unknown", "Internal", "InvalidConfig", "RandomSource", "NotFound", "LimitExceeded",
	}[t]
}

// New 创建新错误并自动捕获堆栈
func New(errType ErrorType, code int, message string, detail string, cause error) *Error {
	e := &Error{
		Type:    errType,
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
		Context: make(map[string]any),
	}
	e.captureStack()
	return e
}

// captureStack 捕获当前调用栈 (深度限制 10 层)
func (e *Error) captureStack() {
	const depth = 10
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:]) // 跳过 captureStack, New 和上层构造函数
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		e.Stack = append(e.Stack, fmt.Sprintf("%s:%d (%s)", frame.File, frame.Line, frame.Function))
		if !more || len(e.Stack) >= depth {
			break
		}
	}
}

// clone 浅拷贝错误并复制上下文表。预定义错误变量被并发路径共享，
// 链式附加上下文必须写副本而不是原值。
func (e *Error) clone() *Error {
	c := *e
	c.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		c.Context[k] = v
	}
	return &c
}

// WithContext 附加上下文键值，返回携带该上下文的副本以支持链式调用。
func (e *Error) WithContext(key string, value any) *Error {
	c := e.clone()
	c.Context[key] = value
	return c
}

// WithDetail 覆盖调试详情，返回副本。
func (e *Error) WithDetail(format string, args ...any) *Error {
	c := e.clone()
	c.Detail = fmt.Sprintf(format, args...)
	return c
}

// Is 支持 errors.Is 以预定义错误变量为目标的匹配：
// 同类型且同业务码即视为同一错误。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Internal 快捷构造内部错误。
func Internal(msg string, cause error) *Error {
	return New(ErrInternal, 500, msg, "", cause)
}

// InvalidConfig 快捷构造配置错误。
func InvalidConfig(msg string) *Error {
	return New(ErrInvalidConfig, 400, msg, "", nil)
}

// Wrap 包装现有错误并捕获堆栈
func Wrap(err error, errType ErrorType, msg string) *Error {
	if err == nil {
		return nil
	}
	// 如果已经是 *Error 类型，则保持其原始类型和堆栈，仅更新 Message 和 Cause
	if e, ok := FromError(err); ok {
		c := e.clone()
		c.Cause = err
		c.Message = msg
		return c
	}
	return New(errType, int(errType), msg, "", err)
}

// IsType 判断错误是否属于给定大类。
func IsType(err error, t ErrorType) bool {
	e, ok := FromError(err)
	return ok && e.Type == t
}

// FromError 尝试转换
func FromError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	e, ok := err.(*Error)
	return e, ok
}
