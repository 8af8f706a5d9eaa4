// Package config loads runtime configuration for the docproc CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file (see parseFile) selected via -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-d string   local data directory
//	-f string   auth flow: jwt or legacy
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds, 0 disables)
//	-l string   log level
//
// # File schema
//
// Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
// Intervals use timex.Duration, so values can be strings like "5s" or a
// number of seconds. Only non-empty values override the defaults:
//
//	server_base_url: http://localhost:8000/api
//	data_dir: ~/.docproc
//	auth_flow: jwt
//	online_check_interval: 5s
//	request_timeout: 30s
//	log_level: info
//	s3:
//	  region: us-east-1
//	  endpoint: http://localhost:9000
//	  access_key: minio
//	  secret_key: minio123
//	gcs:
//	  endpoint: http://localhost:4443/storage/v1/
//	  anonymous: true
//
// Note: This package does not read environment variables directly; the AWS
// and Google SDKs still pick up their own environment when keys are empty.
package config
