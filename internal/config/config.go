package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Translator TranslatorConfig `mapstructure:"translator"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Lexicon    LexiconConfig    `mapstructure:"lexicon"`
	Server     ServerConfig     `mapstructure:"server"`
}

type TranslatorConfig struct {
	Provider          string        `mapstructure:"provider" validate:"oneof=google"`
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	SourceLanguage    string        `mapstructure:"source_language" validate:"required"`
	TargetLanguage    string        `mapstructure:"target_language" validate:"required"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RateLimitInterval time.Duration `mapstructure:"rate_limit_interval"`
	MaxAttempts       uint          `mapstructure:"max_attempts" validate:"min=1"`
	RetryDelayBase    time.Duration `mapstructure:"retry_delay_base"`
	BatchConcurrency  int           `mapstructure:"batch_concurrency" validate:"min=1"`
	Breaker           BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio" validate:"gte=0,lte=1"`
}

// CacheConfig configures the translation cache. An empty URL disables the cache.
type CacheConfig struct {
	URL             string        `mapstructure:"url" validate:"omitempty,cacheurl"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int           `mapstructure:"conn_max_lifetime_seconds"`
}

// LexiconConfig points at YAML files replacing the embedded lexicons.
type LexiconConfig struct {
	BrandsFile string `mapstructure:"brands_file" validate:"omitempty,file"`
	TermsFile  string `mapstructure:"terms_file" validate:"omitempty,file"`
}

type ServerConfig struct {
	Port         int        `mapstructure:"port" validate:"min=1,max=65535"`
	MaxBatchSize int        `mapstructure:"max_batch_size" validate:"min=1"`
	CORS         CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cartitle")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("translator.provider", "google")
	v.SetDefault("translator.base_url", "https://translate.googleapis.com")
	v.SetDefault("translator.source_language", "zh-CN")
	v.SetDefault("translator.target_language", "en")
	v.SetDefault("translator.request_timeout", 10*time.Second)
	// 5 requests per second
	v.SetDefault("translator.rate_limit_interval", 200*time.Millisecond)
	v.SetDefault("translator.max_attempts", 3)
	v.SetDefault("translator.retry_delay_base", time.Second)
	v.SetDefault("translator.batch_concurrency", 4)
	v.SetDefault("translator.breaker.enabled", true)
	v.SetDefault("translator.breaker.max_requests", 1)
	v.SetDefault("translator.breaker.interval", time.Minute)
	v.SetDefault("translator.breaker.timeout", 30*time.Second)
	v.SetDefault("translator.breaker.min_requests", 10)
	v.SetDefault("translator.breaker.failure_ratio", 0.8)
	v.SetDefault("cache.url", "")
	v.SetDefault("cache.query_timeout", 5*time.Second)
	v.SetDefault("cache.key_prefix", "translation_cache:")
	v.SetDefault("cache.max_open_conns", 5)
	v.SetDefault("cache.max_idle_conns", 2)
	v.SetDefault("cache.conn_max_lifetime_seconds", 300)
	v.SetDefault("lexicon.brands_file", "")
	v.SetDefault("lexicon.terms_file", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_batch_size", 100)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})

	// The cache endpoint is a secret, so it is bound to environment variables only
	// when set there. DATABASE_URL is what the hosting platform provides.
	if err := v.BindEnv("cache.url", "CARTITLE_CACHE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL environment variable: %w", err)
	}
	if err := v.BindEnv("translator.base_url", "CARTITLE_PROVIDER_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind CARTITLE_PROVIDER_URL environment variable: %w", err)
	}
	if err := v.BindEnv("server.port", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind PORT environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
