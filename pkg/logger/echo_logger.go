// File: pkg/logger/echo_logger.go
package logger

import (
	"io"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

// NewEchoRequestLogger는 Echo 서버를 위한 Request Logger를 생성합니다.
// 최종 상태 코드 기준으로 4XX는 Warn, 5XX는 Error, 나머지는 Info 레벨로 기록합니다.
func NewEchoRequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		// 에러를 글로벌 핸들러에 먼저 넘겨 최종 상태 코드를 기록합니다
		HandleError: true,

		LogLatency:      true,
		LogRemoteIP:     true,
		LogMethod:       true,
		LogURI:          true,
		LogRoutePath:    true,
		LogRequestID:    true,
		LogUserAgent:    true,
		LogStatus:       true,
		LogError:        true,
		LogResponseSize: true,
		LogHeaders:      []string{"Authorization"},
		LogQueryParams:  []string{"status", "page"},

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request.remote_ip", v.RemoteIP),
				zap.String("request.method", v.Method),
				zap.String("request.uri", v.URI),
				zap.String("request.route", v.RoutePath),
				zap.String("request.user_agent", v.UserAgent),
				zap.String("request.request_id", v.RequestID),
				zap.Int("response.status", v.Status),
				zap.Duration("response.latency", v.Latency),
				zap.Int64("response.response_size", v.ResponseSize),
			}

			// Authorization 헤더는 토큰 일부만 남기고 마스킹
			if values := v.Headers["Authorization"]; len(values) > 0 {
				fields = append(fields, zap.String("request.authorization", maskToken(values[0])))
			}
			if len(v.QueryParams) > 0 {
				fields = append(fields, zap.Any("request.query_params", v.QueryParams))
			}

			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}

			switch {
			case v.Status >= 500:
				logger.Error("Request failed", fields...)
			case v.Status >= 400:
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
			return nil
		},
	})
}

// maskToken은 "Bearer xxxx...xxxx" 형태로 토큰 일부만 노출합니다.
func maskToken(value string) string {
	if len(value) > 15 {
		return value[:10] + "..." + value[len(value)-5:]
	}
	return "[MASKED]"
}

// WithEchoLogger Echo 내장 Logger를 zap 기반 구현체로 교체합니다.
// 에러 응답 렌더링은 pkg/errors.NewHTTPErrorHandler가 담당합니다.
func WithEchoLogger(e *echo.Echo, logger *zap.Logger) {
	e.Logger = NewEchoZapLogger(logger)
	e.HideBanner = true
	e.HidePort = true
}

// EchoZapLogger는 echo.Logger 인터페이스를 zap SugaredLogger로 구현합니다.
// Echo 내부 메시지(시작 실패, 바인딩 경고 등)만 이 경로로 들어옵니다.
type EchoZapLogger struct {
	sugar  *zap.SugaredLogger
	prefix string
	level  log.Lvl
}

func NewEchoZapLogger(logger *zap.Logger) *EchoZapLogger {
	return &EchoZapLogger{
		sugar: logger.Named("echo").WithOptions(zap.AddCallerSkip(1)).Sugar(),
		level: log.INFO,
	}
}

// Output은 한 줄씩 Info로 기록하는 Writer를 반환합니다.
func (l *EchoZapLogger) Output() io.Writer { return zapWriter{l.sugar} }

// SetOutput은 무시합니다. 출력 대상은 zap 설정이 결정합니다.
func (l *EchoZapLogger) SetOutput(io.Writer) {}

func (l *EchoZapLogger) Level() log.Lvl { return l.level }
func (l *EchoZapLogger) SetLevel(v log.Lvl) { l.level = v }
func (l *EchoZapLogger) SetHeader(string) {}
func (l *EchoZapLogger) Prefix() string { return l.prefix }
func (l *EchoZapLogger) SetPrefix(p string) { l.prefix = p }
func (l *EchoZapLogger) Print(i ...interface{}) { l.sugar.Info(i...) }
func (l *EchoZapLogger) Printf(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}
func (l *EchoZapLogger) Printj(j log.JSON) { l.sugar.Infow("echo", jsonFields(j)...) }

func (l *EchoZapLogger) Debug(i ...interface{}) { l.sugar.Debug(i...) }
func (l *EchoZapLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}
func (l *EchoZapLogger) Debugj(j log.JSON) { l.sugar.Debugw("echo", jsonFields(j)...) }

func (l *EchoZapLogger) Info(i ...interface{}) { l.sugar.Info(i...) }
func (l *EchoZapLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}
func (l *EchoZapLogger) Infoj(j log.JSON) { l.sugar.Infow("echo", jsonFields(j)...) }

func (l *EchoZapLogger) Warn(i ...interface{}) { l.sugar.Warn(i...) }
func (l *EchoZapLogger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}
func (l *EchoZapLogger) Warnj(j log.JSON) { l.sugar.Warnw("echo", jsonFields(j)...) }

func (l *EchoZapLogger) Error(i ...interface{}) { l.sugar.Error(i...) }
func (l *EchoZapLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}
func (l *EchoZapLogger) Errorj(j log.JSON) { l.sugar.Errorw("echo", jsonFields(j)...) }

func (l *EchoZapLogger) Fatal(i ...interface{}) { l.sugar.Fatal(i...) }
func (l *EchoZapLogger) Fatalf(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}
func (l *EchoZapLogger) Fatalj(j log.JSON) { l.sugar.Fatalw("echo", jsonFields(j)...) }

func (l *EchoZapLogger) Panic(i ...interface{}) { l.sugar.Panic(i...) }
func (l *EchoZapLogger) Panicf(format string, args ...interface{}) {
	l.sugar.Panicf(format, args...)
}
func (l *EchoZapLogger) Panicj(j log.JSON) { l.sugar.Panicw("echo", jsonFields(j)...) }

// jsonFields는 log.JSON을 키 순서대로 정렬된 key/value 목록으로 펼칩니다.
func jsonFields(j log.JSON) []interface{} {
	keys := make([]string, 0, len(j))
	for k := range j {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, len(j)*2)
	for _, k := range keys {
		kv = append(kv, k, j[k])
	}
	return kv
}

type zapWriter struct {
	sugar *zap.SugaredLogger
}

func (w zapWriter) Write(p []byte) (int, error) {
	w.sugar.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
