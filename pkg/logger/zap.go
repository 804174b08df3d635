// Package logger는 zap 기반 로거와 Echo, GORM, gRPC용 어댑터를 제공합니다.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 로거 설정
type Config struct {
	// Level 로그 레벨 (debug, info, warn, error, dpanic, panic, fatal)
	Level string `mapstructure:"level"`
	// Format 로그 포맷 (json, console)
	Format string `mapstructure:"format"`
	// Output 로그 출력 대상 (stdout, stderr, file)
	Output string `mapstructure:"output"`
	// FilePath 파일로 출력할 경우 파일 경로
	FilePath string `mapstructure:"file_path"`
	// Development 개발 모드 여부. 컬러 레벨과 호출자 정보가 추가됩니다.
	Development bool `mapstructure:"development"`
}

// NewZapLogger 새로운 zap 로거를 생성합니다. 알 수 없는 레벨은 info로 처리합니다.
func NewZapLogger(config Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	sink, err := openSink(config)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(config), sink, zap.NewAtomicLevelAt(level))
	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if config.Development {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}

func newEncoder(config Config) zapcore.Encoder {
	var ec zapcore.EncoderConfig
	if config.Development {
		ec = zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		// ECS 호환 키 이름
		ec = zap.NewProductionEncoderConfig()
		ec.TimeKey = "@timestamp"
		ec.LevelKey = "log.level"
		ec.MessageKey = "message"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if config.Format == "console" {
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func openSink(config Config) (zapcore.WriteSyncer, error) {
	switch config.Output {
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "file":
		if config.FilePath == "" {
			return nil, fmt.Errorf("log.file_path가 비어 있습니다")
		}
		f, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("로그 파일 열기 실패: %w", err)
		}
		return zapcore.AddSync(f), nil
	default:
		return zapcore.Lock(os.Stdout), nil
	}
}
