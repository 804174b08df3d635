package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorResponse는 모든 에러 응답의 JSON 본문입니다.
type ErrorResponse struct {
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// FromHTTPError는 핸들러가 돌려준 에러를 AppError로 정규화합니다.
// echo.HTTPError는 상태 코드에 맞는 에러 코드를 받고, 나머지는 INTERNAL입니다.
func FromHTTPError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = http.StatusText(echoErr.Code)
		}
		return NewAppError(httpStatusToCode(echoErr.Code), msg, nil)
	}

	return NewAppError(ErrInternal, err.Error(), err)
}

// NewHTTPErrorHandler는 모든 핸들러 에러를 ErrorResponse로 렌더링하는 Echo 에러 핸들러입니다.
// 5XX 응답에는 내부 메시지 대신 상태 텍스트만 노출합니다.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := FromHTTPError(err)
		status := ToHTTPStatus(appErr.Code())

		LogError(logger, appErr, "HTTP error",
			zap.Int("status", status),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("ip", c.RealIP()))

		body := ErrorResponse{
			Message: appErr.Message(),
			Code:    appErr.Code(),
			Errors:  appErr.Fields(),
		}
		if status >= http.StatusInternalServerError {
			body.Message = http.StatusText(status)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("Failed to send error response", zap.Error(err))
		}
	}
}

func httpStatusToCode(status int) string {
	for code, s := range httpStatuses {
		if s == status && code != ErrFailedPrecondition {
			return code
		}
	}
	if status == http.StatusMethodNotAllowed {
		return ErrNotFound
	}
	return ErrInternal
}
