package config

import (
	"testing"
	"time"

	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
)

func TestCreateNewConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVICE_PORT", "METRICS_PORT", "MONGODB_URI", "MONGODB_DATABASE", "UPLOAD_DIR",
		"MAX_UPLOAD_SIZE", "BROKER_ADDRESS", "BROKER_TOPIC", "COLLECTOR_HOST", "RUN_MIGRATIONS",
		"IMAGE_SWEEP_INTERVAL", "IMAGE_SWEEP_GRACE", "LOG_LEVEL", "SERVICE_NAME", "CORS_ALLOW_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	conf := CreateNewConfig()

	assert.Equal(t, "4040", conf.ServicePort)
	assert.Equal(t, "9090", conf.MetricsPort)
	assert.Equal(t, "mongodb://localhost:27017", conf.MongoDBConfig.URI)
	assert.Equal(t, "ecommerce", conf.MongoDBConfig.Database)
	assert.Equal(t, "public/uploads/imageProducts", conf.StorageConfig.UploadDir)
	assert.Equal(t, "5M", conf.StorageConfig.MaxUploadSize)
	assert.Equal(t, time.Hour, conf.StorageConfig.SweepInterval)
	assert.Equal(t, 10*time.Minute, conf.StorageConfig.SweepGrace)
	assert.Equal(t, "product-events", conf.KafkaConfig.BrokerTopic)
	assert.Empty(t, conf.KafkaConfig.BrokerAddress)
	assert.False(t, conf.RunMigrations)
	assert.Equal(t, []string{"*"}, conf.CORSAllowOrigins)
}

func TestCreateNewConfig_Overrides(t *testing.T) {
	t.Setenv("SERVICE_PORT", "8081")
	t.Setenv("MONGODB_URI", "mongodb://mongo:27017")
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("IMAGE_SWEEP_INTERVAL", "0")
	t.Setenv("IMAGE_SWEEP_GRACE", "not-a-duration")
	t.Setenv("BROKER_ADDRESS", "kafka:9092")
	t.Setenv("MAX_UPLOAD_SIZE", "10MB")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://loja.example.com, https://admin.example.com,")

	conf := CreateNewConfig()

	assert.Equal(t, "8081", conf.ServicePort)
	assert.Equal(t, "mongodb://mongo:27017", conf.MongoDBConfig.URI)
	assert.True(t, conf.RunMigrations)
	assert.Equal(t, time.Duration(0), conf.StorageConfig.SweepInterval)
	assert.Equal(t, 10*time.Minute, conf.StorageConfig.SweepGrace)
	assert.Equal(t, "kafka:9092", conf.KafkaConfig.BrokerAddress)
	assert.Equal(t, "10MB", conf.StorageConfig.MaxUploadSize)
	assert.Equal(t, []string{"https://loja.example.com", "https://admin.example.com"}, conf.CORSAllowOrigins)
}

func TestCreateNewConfig_InvalidUploadSizeFallsBack(t *testing.T) {
	for _, value := range []string{"abc", "5 parsecs"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("MAX_UPLOAD_SIZE", value)

			conf := CreateNewConfig()

			assert.Equal(t, "5M", conf.StorageConfig.MaxUploadSize)
			assert.NotPanics(t, func() { middleware.BodyLimit(conf.StorageConfig.MaxUploadSize) })
		})
	}
}
