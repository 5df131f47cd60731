package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Источники данных опроса
const (
	SurveySourceFile     = "file"
	SurveySourcePostgres = "postgres"
	SurveySourceMinio    = "minio"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Overlap  OverlapConfig
	Survey   SurveyConfig
	Storage  StorageConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	BodyLimitMB  int
	AllowOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled     bool
	OverlapTTL  time.Duration
	BaselineTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	BatchSize         int
	MaxRetries        int
	// ClaimMinIdle - простой, после которого чужое неподтвержденное задание
	// забирается; должен быть больше таймаута расчета
	ClaimMinIdle time.Duration
}

type OverlapConfig struct {
	Parallelism       int
	Timeout           time.Duration
	SimplifyTolerance float64
}

type SurveyConfig struct {
	Source       string
	FilePath     string
	ObjectKey    string
	Atolls       []string
	DatasetVer   string
	BaselinePath string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
	Path      string
}

// Load читает .env из рабочей директории и переменные окружения
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom читает конфигурацию из файла path (если он есть) и окружения.
// Переменные окружения имеют приоритет над файлом.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			BodyLimitMB:  v.GetInt("API_BODY_LIMIT_MB"),
			AllowOrigins: v.GetString("API_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Enabled:     v.GetBool("CACHE_ENABLED"),
			OverlapTTL:  time.Duration(v.GetInt("CACHE_OVERLAP_TTL")) * time.Second,
			BaselineTTL: time.Duration(v.GetInt("CACHE_BASELINE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			BatchSize:         v.GetInt("WORKER_BATCH_SIZE"),
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
			ClaimMinIdle:      time.Duration(v.GetInt("WORKER_CLAIM_MIN_IDLE")) * time.Second,
		},
		Overlap: OverlapConfig{
			Parallelism:       v.GetInt("OVERLAP_PARALLELISM"),
			Timeout:           time.Duration(v.GetInt("OVERLAP_TIMEOUT")) * time.Second,
			SimplifyTolerance: v.GetFloat64("OVERLAP_SIMPLIFY_TOLERANCE"),
		},
		Survey: SurveyConfig{
			Source:       strings.ToLower(v.GetString("SURVEY_SOURCE")),
			FilePath:     v.GetString("SURVEY_FILE_PATH"),
			ObjectKey:    v.GetString("SURVEY_OBJECT_KEY"),
			Atolls:       parseList(v.GetString("SURVEY_ATOLLS")),
			DatasetVer:   v.GetString("SURVEY_DATASET_VERSION"),
			BaselinePath: v.GetString("SURVEY_BASELINE_PATH"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Region:    v.GetString("MINIO_REGION"),
		},
		Metrics: MetricsConfig{
			Enabled:   v.GetBool("METRICS_ENABLED"),
			Namespace: v.GetString("METRICS_NAMESPACE"),
			Path:      v.GetString("METRICS_PATH"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.BodyLimitMB == 0 {
		cfg.Server.BodyLimitMB = 16
	}
	if cfg.Server.AllowOrigins == "" {
		cfg.Server.AllowOrigins = "*"
	}
	if cfg.Cache.OverlapTTL == 0 {
		cfg.Cache.OverlapTTL = 24 * time.Hour
	}
	if cfg.Cache.BaselineTTL == 0 {
		cfg.Cache.BaselineTTL = 7 * 24 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "ous-overlap-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.BatchSize == 0 {
		cfg.Worker.BatchSize = 4
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Overlap.Parallelism == 0 {
		cfg.Overlap.Parallelism = 6
	}
	if cfg.Overlap.Timeout == 0 {
		cfg.Overlap.Timeout = 900 * time.Second
	}
	if cfg.Overlap.SimplifyTolerance == 0 {
		cfg.Overlap.SimplifyTolerance = 0.00005
	}
	if cfg.Worker.ClaimMinIdle == 0 {
		cfg.Worker.ClaimMinIdle = 2 * cfg.Overlap.Timeout
	}
	if cfg.Survey.Source == "" {
		cfg.Survey.Source = SurveySourceFile
	}
	if cfg.Survey.FilePath == "" {
		cfg.Survey.FilePath = "data/dist/ous_all_report_ready.json"
	}
	if cfg.Survey.ObjectKey == "" {
		cfg.Survey.ObjectKey = "ous_all_report_ready.json"
	}
	if cfg.Survey.DatasetVer == "" {
		cfg.Survey.DatasetVer = "v1"
	}
	if cfg.Survey.BaselinePath == "" {
		cfg.Survey.BaselinePath = "data/bin/ousDemographicPrecalcTotals.json"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "ous-data"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "ous"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	switch c.Survey.Source {
	case SurveySourceFile, SurveySourcePostgres:
	case SurveySourceMinio:
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for survey source %q", c.Survey.Source)
		}
	default:
		return fmt.Errorf("unknown survey source %q", c.Survey.Source)
	}
	if c.Overlap.Parallelism < 1 {
		return fmt.Errorf("OVERLAP_PARALLELISM must be positive, got %d", c.Overlap.Parallelism)
	}
	if c.Overlap.SimplifyTolerance < 0 {
		return fmt.Errorf("OVERLAP_SIMPLIFY_TOLERANCE must not be negative")
	}
	return nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// NeedsDatabase - нужна ли база данных для выбранного источника
func (c *Config) NeedsDatabase() bool {
	return c.Survey.Source == SurveySourcePostgres || c.Database.Host != ""
}
