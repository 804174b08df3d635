package errors

import (
	stderrors "errors"
	"fmt"
)

// 표준 라이브러리 함수 재노출
var (
	New = stderrors.New
	Is  = stderrors.Is
	As  = stderrors.As
)

// AppError는 코드, 사용자용 메시지, 원인 에러, 필드별 검증 메시지를 가집니다.
type AppError struct {
	code    string
	message string
	err     error
	fields  map[string][]string
}

func NewAppError(code string, message string, err error) *AppError {
	return &AppError{code: code, message: message, err: err}
}

// NewFieldError는 필드 단위 상세 정보를 가진 에러를 생성합니다.
func NewFieldError(code string, message string, err error, fields map[string][]string) *AppError {
	return &AppError{code: code, message: message, err: err, fields: fields}
}

func (e *AppError) Error() string {
	if e.err == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.err)
}

func (e *AppError) Code() string    { return e.code }
func (e *AppError) Message() string { return e.message }
func (e *AppError) Unwrap() error   { return e.err }

// Fields는 필드 단위 검증 에러를 반환합니다. 없으면 nil입니다.
func (e *AppError) Fields() map[string][]string { return e.fields }

// AsAppError는 에러 체인에서 가장 바깥쪽 AppError를 찾습니다.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Wrap은 메시지를 덧붙이되 체인 안 AppError의 코드와 필드를 유지합니다.
// AppError가 없으면 INTERNAL로 분류됩니다.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return NewFieldError(appErr.code, message, err, appErr.fields)
	}
	return NewAppError(ErrInternal, message, err)
}

// CodeOf는 에러 체인의 애플리케이션 에러 코드를 반환합니다.
func CodeOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.code
	}
	return ErrInternal
}
