// Package errorx 带错误码的error, 调用方用 errors.Is / CodeOf 判断错误类别
package errorx

import (
	"errors"
	"fmt"

	"fastCurate/infra/errorx/errCode"
)

type Error struct {
	Code errCode.ErrCode
	Msg  string
}

func New(code errCode.ErrCode, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code errCode.ErrCode, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
}

// Is 错误码相同即视为同一类错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf 沿着 wrap 链取出错误码, 非errorx返回0
func CodeOf(err error) errCode.ErrCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// 哨兵错误, 供 errors.Is 使用
var (
	ErrInvalidValue         = New(errCode.INVALID_VALUE, "invalid value")
	ErrEmptyValue           = New(errCode.EMPTY_VALUE, "empty value")
	ErrInvalidParameter     = New(errCode.INVALID_PARAMETER, "invalid parameter")
	ErrPreconditionViolated = New(errCode.PRECONDITION_VIOLATED, "precondition violated")
)
