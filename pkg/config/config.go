// Package config는 애플리케이션 설정을 관리하는 패키지입니다.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 인터페이스는 설정 값에 액세스하기 위한 메서드를 정의합니다.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string
	GetAll() map[string]interface{}
	// Unmarshal은 전체 설정을 mapstructure 태그가 붙은 구조체로 디코딩합니다.
	Unmarshal(out interface{}) error
	// ConfigFile은 실제로 읽은 설정 파일 경로를 반환합니다. 파일 없이 로드된 경우 빈 문자열입니다.
	ConfigFile() string
}

// Options는 Load 동작을 조정합니다.
type Options struct {
	// ServiceName은 설정 파일 이름과 환경 변수 접두사로 사용됩니다.
	ServiceName string
	// File이 지정되면 디렉토리 탐색 대신 해당 파일을 읽습니다.
	File string
	// Defaults는 점(.)으로 구분된 키의 기본값입니다.
	// 환경 변수만으로 설정할 키도 여기에 등록되어야 Unmarshal에 반영됩니다.
	Defaults map[string]interface{}
	// DotEnv는 프로세스 환경에 먼저 로드할 .env 파일 목록입니다.
	DotEnv []string
}

// viperConfig는 viper를 사용하여 Config 인터페이스를 구현합니다.
type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string { return c.v.GetString(key) }
func (c *viperConfig) GetInt(key string) int { return c.v.GetInt(key) }
func (c *viperConfig) GetBool(key string) bool { return c.v.GetBool(key) }
func (c *viperConfig) GetStringSlice(key string) []string { return c.v.GetStringSlice(key) }
func (c *viperConfig) GetAll() map[string]interface{} { return c.v.AllSettings() }
func (c *viperConfig) Unmarshal(out interface{}) error { return c.v.Unmarshal(out) }
func (c *viperConfig) ConfigFile() string { return c.v.ConfigFileUsed() }

// 설정 디렉토리 경로
const configDir = "configs"

// Load는 지정된 서비스 이름에 해당하는 설정 파일을 로드합니다.
// 탐색 순서는 CONFIG_PATH, configs/{APP_ENV}, configs/example 입니다.
// 설정 파일이 없으면 기본값과 환경 변수만으로 구성됩니다.
func Load(opts Options) (Config, error) {
	if opts.ServiceName == "" {
		return nil, errors.New("서비스 이름이 비어 있습니다")
	}

	for _, f := range opts.DotEnv {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf(".env 로드 실패(%s): %w", f, err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range opts.Defaults {
		v.SetDefault(key, value)
	}

	// 환경 변수 바인딩 설정: server.http.port -> ORDERPAY_SERVER_HTTP_PORT
	v.SetEnvPrefix(strings.ToUpper(opts.ServiceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
		return &viperConfig{v: v}, nil
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	v.SetConfigName(opts.ServiceName)
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(filepath.Join(configDir, env))
	v.AddConfigPath(filepath.Join(configDir, "example"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
	}

	return &viperConfig{v: v}, nil
}
