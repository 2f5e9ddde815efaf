package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	defaultKeyPrefix   = "uploads"
	defaultPresignTTL  = 10 * time.Minute
	defaultAITimeout   = 60 * time.Second
	defaultProductName = "Britannia Bread"
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		JWTSecret string
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
		SSLMode  string
	}
	S3 struct {
		Region          string
		Endpoint        string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		PublicBaseURL   string
		KeyPrefix       string
		PresignTTL      time.Duration
		ForcePathStyle  bool
	}
	AI struct {
		Provider    string
		BaseURL     string
		APIKey      string
		Model       string
		APIVersion  string
		Temperature float64
		Timeout     time.Duration
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	Analysis struct {
		ProductName string
	}

	Config struct {
		App      APP
		DB       DB
		S3       S3
		AI       AI
		MQ       MQ
		Analysis Analysis
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func Load() Config {
	app := APP{
		Name:      getEnv("SERVICE_NAME", "expiryscanner"),
		Host:      getEnv("SERVICE_HOST", ""),
		Port:      getEnv("SERVICE_PORT", "8080"),
		Env:       getEnv("SERVICE_ENV", ""),
		JWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
	s3 := S3{
		Region:          getEnv("S3_REGION", "auto"),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", ""),
		PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		KeyPrefix:       getEnv("S3_KEY_PREFIX", defaultKeyPrefix),
		PresignTTL:      getEnvDuration("S3_PRESIGN_TTL", defaultPresignTTL),
		ForcePathStyle:  getEnvBool("S3_FORCE_PATH_STYLE", true),
	}
	// the write credential never outlives ten minutes
	if s3.PresignTTL > defaultPresignTTL {
		s3.PresignTTL = defaultPresignTTL
	}
	ai := AI{
		Provider:    getEnv("AI_PROVIDER", "azure"),
		BaseURL:     getEnv("AI_BASE_URL", ""),
		APIKey:      getEnv("AI_API_KEY", ""),
		Model:       getEnv("AI_MODEL", ""),
		APIVersion:  getEnv("AI_API_VERSION", "2024-10-21"),
		Temperature: getEnvFloat("AI_TEMPERATURE", 0),
		Timeout:     getEnvDuration("AI_TIMEOUT", defaultAITimeout),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "expiryscanner"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "expiryscanner.events"),
	}
	analysis := Analysis{
		ProductName: getEnv("ANALYSIS_PRODUCT_NAME", defaultProductName),
	}

	return Config{
		App:      app,
		DB:       db,
		S3:       s3,
		AI:       ai,
		MQ:       mq,
		Analysis: analysis,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
		c.DB.SSLMode,
	), nil
}

// MigrateDSN is DBDSN in the scheme golang-migrate registers for pgx v5.
func (c Config) MigrateDSN() (string, error) {
	dsn, err := c.DBDSN()
	if err != nil {
		return "", err
	}
	return "pgx5" + dsn[len("postgres"):], nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
