package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/dutybadge/internal/flagx"
	"github.com/dmitrijs2005/dutybadge/internal/timex"
)

// FileConfig is the on-disk shape of the config file. Only keys present in
// the file override the current values.
type FileConfig struct {
	EndpointAddrGRPC *string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	EndpointAddrHTTP *string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	SecretKey        *string         `json:"secret_key" yaml:"secret_key"`
	StorageType      *string         `json:"storage_type" yaml:"storage_type"`
	DataFile         *string         `json:"data_file" yaml:"data_file"`
	DatabaseDSN      *string         `json:"database_dsn" yaml:"database_dsn"`
	S3RootUser       *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword   *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket         *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region         *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3ObjectKey      *string         `json:"s3_object_key" yaml:"s3_object_key"`
	LogFormat        *string         `json:"log_format" yaml:"log_format"`
	LogLevel         *string         `json:"log_level" yaml:"log_level"`
	RecentSessions   *int            `json:"recent_sessions" yaml:"recent_sessions"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile loads the file named by -c or -config. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON. A missing flag loads
// nothing; an unreadable or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *FileConfig) apply(config *Config) {
	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.SecretKey, c.SecretKey)
	set(&config.StorageType, c.StorageType)
	set(&config.DataFile, c.DataFile)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.S3ObjectKey, c.S3ObjectKey)
	set(&config.LogFormat, c.LogFormat)
	set(&config.LogLevel, c.LogLevel)
	set(&config.RecentSessions, c.RecentSessions)
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
