package errors

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogError는 에러를 구조화된 로그로 기록합니다.
// 5XX에 해당하는 코드는 Error, 그 외에는 Warn 레벨입니다.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}

	code := CodeOf(err)
	level := zapcore.WarnLevel
	if ToHTTPStatus(code) >= http.StatusInternalServerError {
		level = zapcore.ErrorLevel
	}

	ce := logger.Check(level, msg)
	if ce == nil {
		return
	}

	all := append([]zap.Field{zap.Error(err), zap.String("error_code", code)}, fields...)
	if appErr, ok := AsAppError(err); ok && len(appErr.Fields()) > 0 {
		all = append(all, zap.Any("error_fields", appErr.Fields()))
	}
	ce.Write(all...)
}
