package errors

import "net/http"

// 에러 코드별 HTTP 상태 코드
var httpStatuses = map[string]int{
	ErrInternal:           http.StatusInternalServerError,
	ErrNotFound:           http.StatusNotFound,
	ErrInvalidArgument:    http.StatusBadRequest,
	ErrValidation:         http.StatusUnprocessableEntity,
	ErrFailedPrecondition: http.StatusBadRequest,
	ErrUnauthenticated:    http.StatusUnauthorized,
	ErrUnauthorized:       http.StatusForbidden,
	ErrConflict:           http.StatusConflict,
	ErrTimeout:            http.StatusGatewayTimeout,
	ErrRateLimited:        http.StatusTooManyRequests,
	ErrNotImplemented:     http.StatusNotImplemented,
}

// ToHTTPStatus는 에러 코드를 HTTP 상태 코드로 변환합니다. 알 수 없는 코드는 500입니다.
func ToHTTPStatus(code string) int {
	if status, ok := httpStatuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
