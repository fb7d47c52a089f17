package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":4000", cfg.EndpointAddrHTTP)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.ChallengeTTL)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.NotEmpty(t, cfg.ServicePublicKey)
	assert.NotEmpty(t, cfg.ServiceSecretKey)
	assert.NotEmpty(t, cfg.DIDRegistryAddress)
	assert.NotEmpty(t, cfg.LedgerEndpoints)
	assert.NotEmpty(t, cfg.S3Bucket)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"main",
		"-a", ":5000",
		"-d", "postgres://localhost/test",
		"-t", "48",
		"-r", "0:abc",
		"-l", "https://one.example,https://two.example",
		"-b", "files",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":5000", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://localhost/test", cfg.DatabaseDSN)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "0:abc", cfg.DIDRegistryAddress)
	assert.Equal(t, []string{"https://one.example", "https://two.example"}, cfg.LedgerEndpoints)
	assert.Equal(t, "files", cfg.S3Bucket)
}

func TestParseFlagsIgnoresUnknown(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"main", "-x", "whatever", "-a", ":6000"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6000", cfg.EndpointAddrHTTP)
}
