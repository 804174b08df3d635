package errors

// 공통 에러 코드 정의
const (
	// 일반적인 에러 코드
	ErrInternal           = "INTERNAL"
	ErrNotFound           = "NOT_FOUND"
	ErrInvalidArgument    = "INVALID_ARGUMENT"
	ErrValidation         = "VALIDATION_FAILED"
	ErrFailedPrecondition = "FAILED_PRECONDITION"
	ErrUnauthenticated    = "UNAUTHENTICATED"
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrConflict           = "CONFLICT"
	ErrTimeout            = "TIMEOUT"
	ErrRateLimited        = "RESOURCE_EXHAUSTED"
	ErrNotImplemented     = "NOT_IMPLEMENTED"
)
