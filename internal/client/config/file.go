package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/docproc/internal/flagx"
	"github.com/dmitrijs2005/docproc/internal/timex"
)

// fileConfig is a DTO used exclusively for file unmarshalling. After parsing,
// set values are copied into the runtime Config.
type fileConfig struct {
	ServerBaseURL       string         `json:"server_base_url" yaml:"server_base_url"`
	DataDir             string         `json:"data_dir" yaml:"data_dir"`
	AuthFlow            string         `json:"auth_flow" yaml:"auth_flow"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`

	S3 struct {
		Region    string `json:"region" yaml:"region"`
		Endpoint  string `json:"endpoint" yaml:"endpoint"`
		AccessKey string `json:"access_key" yaml:"access_key"`
		SecretKey string `json:"secret_key" yaml:"secret_key"`
	} `json:"s3" yaml:"s3"`

	GCS struct {
		Endpoint  string `json:"endpoint" yaml:"endpoint"`
		Anonymous bool   `json:"anonymous" yaml:"anonymous"`
	} `json:"gcs" yaml:"gcs"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Nothing happens when neither flag is given. Read or decode errors
// panic, matching parseFlags.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.ServerBaseURL, fc.ServerBaseURL)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.AuthFlow, fc.AuthFlow)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.S3Region, fc.S3.Region)
	setString(&cfg.S3Endpoint, fc.S3.Endpoint)
	setString(&cfg.S3AccessKey, fc.S3.AccessKey)
	setString(&cfg.S3SecretKey, fc.S3.SecretKey)
	setString(&cfg.GCSEndpoint, fc.GCS.Endpoint)

	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.GCS.Anonymous {
		cfg.GCSAnonymous = true
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
