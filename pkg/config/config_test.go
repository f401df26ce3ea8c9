package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/healthportal/pkg/config"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PORTAL_API_URL", "https://portal.example.com/api")

	cfg, err := config.New(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, "https://portal.example.com/api", cfg.APIURL)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 0, cfg.RetryMax)
	require.Equal(t, 8, cfg.BulkConcurrency)
	require.Equal(t, "cloudinary", cfg.Documents.StorageProvider)
	require.Equal(t, "portal.audit", cfg.Kafka.AuditTopic)
	require.Empty(t, cfg.Kafka.Brokers)
}

func TestNew_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "KAFKA_BROKERS=k1:9092,k2:9092\nBULK_CONCURRENCY=3\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("KAFKA_BROKERS")
		os.Unsetenv("BULK_CONCURRENCY")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := config.New(path)
	require.NoError(t, err)

	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, 3, cfg.BulkConcurrency)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestNew_RejectsBadConcurrency(t *testing.T) {
	t.Setenv("BULK_CONCURRENCY", "0")

	_, err := config.New(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestNew_MTLSRequiresFiles(t *testing.T) {
	t.Setenv("MTLS_ENABLED", "true")
	t.Setenv("TLS_CA_CERT", filepath.Join(t.TempDir(), "ca.pem"))
	t.Setenv("TLS_CLIENT_CERT", "")
	t.Setenv("TLS_CLIENT_KEY", "")

	_, err := config.New(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}
