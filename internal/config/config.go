package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Backend names accepted by quiz.cache and quiz.user_lock.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Line     LineConfig     `yaml:"line"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// LineConfig holds the messaging platform credentials. EndpointBase is only set
// to point the client at a stub API.
type LineConfig struct {
	ChannelAccessToken string `yaml:"channel_access_token" env:"CHANNEL_ACCESS_TOKEN"`
	ChannelSecret      string `yaml:"channel_secret"       env:"CHANNEL_SECRET"`
	EndpointBase       string `yaml:"endpoint_base"        env:"LINE_ENDPOINT_BASE"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"`
}

type QuizConfig struct {
	QuestionsFile string        `yaml:"questions_file" env:"QUIZ_QUESTIONS_FILE"`
	Cache         string        `yaml:"cache"          env:"QUIZ_CACHE"          env-default:"none"`
	CacheTTL      time.Duration `yaml:"cache_ttl"      env:"QUIZ_CACHE_TTL"      env-default:"10m"`
	UserLock      string        `yaml:"user_lock"      env:"QUIZ_USER_LOCK"      env-default:"memory"`
	LockTTL       time.Duration `yaml:"lock_ttl"       env:"QUIZ_LOCK_TTL"       env-default:"30s"`
	ResultHistory int           `yaml:"result_history" env:"QUIZ_RESULT_HISTORY" env-default:"20"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load reads the YAML file at path when it exists, then applies environment
// overrides and defaults. A missing file falls back to environment only.
// Callers validate what they need with Validate or ValidateStorage.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return cfg, fmt.Errorf("config: read %s: %w", path, err)
			}
			return cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("config: read env: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	var errs []error
	if c.Line.ChannelAccessToken == "" {
		errs = append(errs, errors.New("line.channel_access_token is required"))
	}
	if c.Line.ChannelSecret == "" {
		errs = append(errs, errors.New("line.channel_secret is required"))
	}
	if !validBackend(c.Quiz.Cache) {
		errs = append(errs, fmt.Errorf("quiz.cache: unknown backend %q", c.Quiz.Cache))
	}
	if !validBackend(c.Quiz.UserLock) {
		errs = append(errs, fmt.Errorf("quiz.user_lock: unknown backend %q", c.Quiz.UserLock))
	}
	if (c.Quiz.Cache == BackendRedis || c.Quiz.UserLock == BackendRedis) && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when a redis backend is selected"))
	}
	if c.Quiz.ResultHistory < 0 {
		errs = append(errs, errors.New("quiz.result_history must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// ValidateStorage checks only what the migrate and seed commands need.
func (c Config) ValidateStorage() error {
	if c.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	return nil
}

func validBackend(name string) bool {
	switch name {
	case BackendNone, BackendMemory, BackendRedis:
		return true
	}
	return false
}
