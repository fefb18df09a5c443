package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Decoder DecoderConfig
	Redis   RedisConfig
	Cache   CacheConfig
	Map     MapConfig
	Session SessionConfig
	Metrics MetricsConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins string
}

// DecoderConfig - параметры внешнего сервиса декодирования
type DecoderConfig struct {
	BaseURL        string
	RequestTimeout int // seconds
	MaxUploadBytes int
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	StatusStream string
}

type CacheConfig struct {
	DecodeCacheTTL time.Duration
}

// MapConfig - размеры карты и палитра слоёв
type MapConfig struct {
	WidthPx  int
	HeightPx int
	MaxZoom  int
	Palette  map[string]string
}

type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// .env опционален: в контейнере всё приходит через окружение
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("METRICS_ENABLED", true)

	cfg := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("API_HOST"),
			Port:         viper.GetInt("API_PORT"),
			Env:          viper.GetString("API_ENV"),
			AllowOrigins: viper.GetString("CORS_ALLOW_ORIGINS"),
		},
		Decoder: DecoderConfig{
			BaseURL:        viper.GetString("DECODER_BASE_URL"),
			RequestTimeout: viper.GetInt("DECODER_REQUEST_TIMEOUT"),
			MaxUploadBytes: viper.GetInt("DECODER_MAX_UPLOAD_BYTES"),
		},
		Redis: RedisConfig{
			Enabled:      viper.GetBool("REDIS_ENABLED"),
			Host:         viper.GetString("REDIS_HOST"),
			Port:         viper.GetInt("REDIS_PORT"),
			Password:     viper.GetString("REDIS_PASSWORD"),
			DB:           viper.GetInt("REDIS_DB"),
			StatusStream: viper.GetString("STATUS_STREAM"),
		},
		Cache: CacheConfig{
			DecodeCacheTTL: time.Duration(viper.GetInt("DECODE_CACHE_TTL")) * time.Second,
		},
		Map: MapConfig{
			WidthPx:  viper.GetInt("MAP_WIDTH_PX"),
			HeightPx: viper.GetInt("MAP_HEIGHT_PX"),
			MaxZoom:  viper.GetInt("MAP_MAX_ZOOM"),
			Palette:  ParsePalette(viper.GetString("SIGNAL_PALETTE")),
		},
		Session: SessionConfig{
			IdleTTL:       time.Duration(viper.GetInt("SESSION_IDLE_TTL")) * time.Second,
			SweepInterval: time.Duration(viper.GetInt("SESSION_SWEEP_INTERVAL")) * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults - значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Decoder.BaseURL == "" {
		c.Decoder.BaseURL = "http://localhost:5000"
	}
	if c.Decoder.RequestTimeout == 0 {
		c.Decoder.RequestTimeout = 30
	}
	if c.Decoder.MaxUploadBytes == 0 {
		c.Decoder.MaxUploadBytes = 10 * 1024 * 1024
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.StatusStream == "" {
		c.Redis.StatusStream = "stream:signal:status"
	}
	if c.Cache.DecodeCacheTTL == 0 {
		c.Cache.DecodeCacheTTL = 10 * time.Minute
	}
	if c.Map.WidthPx == 0 {
		c.Map.WidthPx = 1024
	}
	if c.Map.HeightPx == 0 {
		c.Map.HeightPx = 600
	}
	if c.Map.MaxZoom == 0 {
		c.Map.MaxZoom = 18
	}
	if len(c.Map.Palette) == 0 {
		c.Map.Palette = map[string]string{"A": "blue", "B": "red"}
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = 2 * time.Hour
	}
	if c.Session.SweepInterval == 0 {
		c.Session.SweepInterval = time.Minute
	}
}

// ParsePalette разбирает строку вида "A:blue,B:red" в таблицу цветов
func ParsePalette(s string) map[string]string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make(map[string]string, len(parts))
	for _, p := range parts {
		typ, color, ok := strings.Cut(strings.TrimSpace(p), ":")
		typ, color = strings.TrimSpace(typ), strings.TrimSpace(color)
		if !ok || typ == "" || color == "" {
			continue
		}
		result[typ] = color
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return c.Redis.Addr()
}

// Addr - адрес Redis в виде host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DecoderTimeout - таймаут одного запроса к сервису декодирования
func (c *Config) DecoderTimeout() time.Duration {
	return time.Duration(c.Decoder.RequestTimeout) * time.Second
}
