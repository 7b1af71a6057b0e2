package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
	"github.com/rs/zerolog/log"
)

const (
	defaultServicePort   = "4040"
	defaultMetricsPort   = "9090"
	defaultMongoDBURI    = "mongodb://localhost:27017"
	defaultMongoDBName   = "ecommerce"
	defaultUploadDir     = "public/uploads/imageProducts"
	defaultMaxUploadSize = "5M"
	defaultBrokerTopic   = "product-events"
	defaultSweepInterval = time.Hour
	defaultSweepGrace    = 10 * time.Minute
	defaultLogLevel      = "info"
	defaultServiceName   = "product-catalog-service"
)

type Config struct {
	ServiceName   string
	ServicePort   string
	MetricsPort   string
	LogLevel      string
	RunMigrations bool
	// CORSAllowOrigins is read from a comma separated CORS_ALLOW_ORIGINS.
	CORSAllowOrigins []string
	MongoDBConfig    MongoDBConfig
	StorageConfig    StorageConfig
	KafkaConfig      KafkaConfig
	TracingConfig    TracingConfig
}

type MongoDBConfig struct {
	URI      string
	Database string
}

type StorageConfig struct {
	UploadDir     string
	MaxUploadSize string
	SweepInterval time.Duration
	SweepGrace    time.Duration
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServiceName:      getEnv("SERVICE_NAME", defaultServiceName),
		ServicePort:      getEnv("SERVICE_PORT", defaultServicePort),
		MetricsPort:      getEnv("METRICS_PORT", defaultMetricsPort),
		LogLevel:         getEnv("LOG_LEVEL", defaultLogLevel),
		RunMigrations:    getEnvBool("RUN_MIGRATIONS", false),
		CORSAllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		MongoDBConfig: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", defaultMongoDBURI),
			Database: getEnv("MONGODB_DATABASE", defaultMongoDBName),
		},
		StorageConfig: StorageConfig{
			UploadDir:     getEnv("UPLOAD_DIR", defaultUploadDir),
			MaxUploadSize: getEnvByteSize("MAX_UPLOAD_SIZE", defaultMaxUploadSize),
			SweepInterval: getEnvDuration("IMAGE_SWEEP_INTERVAL", defaultSweepInterval),
			SweepGrace:    getEnvDuration("IMAGE_SWEEP_GRACE", defaultSweepGrace),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", defaultBrokerTopic),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	return &conf
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("invalid boolean, using default")
		return fallback
	}

	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("invalid duration, using default")
		return fallback
	}

	return d
}

// getEnvByteSize keeps sizes like "5M" as strings; echo's body limit panics on
// a value it cannot parse, so those fall back here.
func getEnvByteSize(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	if _, err := bytes.Parse(v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("invalid byte size, using default")
		return fallback
	}

	return v
}

func getEnvList(key string, fallback []string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	if len(values) == 0 {
		return fallback
	}

	return values
}
