package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000/api", c.ServerBaseURL)
	assert.Equal(t, "~/.docproc", c.DataDir)
	assert.Equal(t, "jwt", c.AuthFlow)
	assert.Equal(t, 5*time.Second, c.OnlineCheckInterval)
	assert.Zero(t, c.RequestTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempFile(t, "cfg.json", `{"server_base_url": "http://file/api", "auth_flow": "legacy"}`)
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag/api"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://flag/api", cfg.ServerBaseURL)
	assert.Equal(t, "legacy", cfg.AuthFlow)
	assert.Equal(t, 5*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_SubSecondFileDurationsSurvive(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempFile(t, "cfg.yaml", "online_check_interval: 500ms\nrequest_timeout: 2500ms\n")
	os.Args = []string{"testbin", "-c", path}

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, 500*time.Millisecond, cfg.OnlineCheckInterval)
	assert.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout)
}
