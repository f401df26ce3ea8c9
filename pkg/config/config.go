package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	APIURL          string        `env:"PORTAL_API_URL"      envDefault:"http://localhost:8089"`
	HTTPTimeout     time.Duration `env:"PORTAL_HTTP_TIMEOUT" envDefault:"30s"`
	RetryMax        int           `env:"PORTAL_RETRY_MAX"    envDefault:"0"`
	LogLevel        string        `env:"LOG_LEVEL"           envDefault:"info"`
	SessionFile     string        `env:"SESSION_FILE"        envDefault:".portal-session.json"`
	BulkConcurrency int           `env:"BULK_CONCURRENCY"    envDefault:"8"`
	SandboxAddr     string        `env:"SANDBOX_ADDR"        envDefault:":8089"`
	Documents       DocumentsConfig
	Kafka           KafkaConfig
	Metrics         MetricsConfig

	// TLS / mTLS
	CACert      string `env:"TLS_CA_CERT"`
	ClientCert  string `env:"TLS_CLIENT_CERT"`
	ClientKey   string `env:"TLS_CLIENT_KEY"`
	MTLSEnabled bool   `env:"MTLS_ENABLED" envDefault:"false"`
}

type DocumentsConfig struct {
	OfficeViewerURL string `env:"OFFICE_VIEWER_URL" envDefault:"https://view.officeapps.live.com/op/embed.aspx?src="`
	StorageProvider string `env:"STORAGE_PROVIDER"  envDefault:"cloudinary"`
}

type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"portal.audit"`
}

type MetricsConfig struct {
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	Job            string `env:"METRICS_JOB" envDefault:"healthportal_cli"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	if c.BulkConcurrency < 1 {
		return Config{}, fmt.Errorf("BULK_CONCURRENCY must be positive, got %d", c.BulkConcurrency)
	}

	if c.RetryMax < 0 {
		return Config{}, fmt.Errorf("PORTAL_RETRY_MAX must not be negative, got %d", c.RetryMax)
	}

	if c.MTLSEnabled {
		requiredFiles := []struct {
			name string
			val  string
		}{
			{"TLS_CA_CERT", c.CACert},
			{"TLS_CLIENT_CERT", c.ClientCert},
			{"TLS_CLIENT_KEY", c.ClientKey},
		}

		for _, path := range requiredFiles {
			if path.val == "" {
				return Config{}, fmt.Errorf("%s is required when MTLS_ENABLED is set", path.name)
			}

			if _, err := os.Stat(path.val); os.IsNotExist(err) {
				return Config{}, fmt.Errorf("missing TLS file for %s: %s", path.name, path.val)
			}
		}
	}

	return c, nil
}
