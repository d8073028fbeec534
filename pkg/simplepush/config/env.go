package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the flat environment mapping read by cleanenv.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	Encoding  string `env:"PUSH_ENCODING" env-default:"utf-8"`
	JWTSecret string `env:"JWT_SECRET" env-default:""`

	DefaultResourceBackend string `env:"DEFAULT_RESOURCE_BACKEND" env-default:"memory"`

	FSBaseDir string `env:"FS_BASE_DIR" env-default:""`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	S3Bucket          string `env:"S3_BUCKET" env-default:""`
	S3Region          string `env:"S3_REGION" env-default:""`
	S3Endpoint        string `env:"S3_ENDPOINT" env-default:""`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" env-default:""`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	S3CreateBucket    bool   `env:"S3_CREATE_BUCKET_IF_NOT_EXIST" env-default:"false"`
}

// LoadServerConfig constructs a ServerConfig from process environment
// variables. The memory backend is always configured; fs, s3 and postgres
// backends are added when their key settings are present.
func LoadServerConfig() (*ServerConfig, error) {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	cfg := &ServerConfig{
		Port:                   env.Port,
		Environment:            env.Environment,
		Encoding:               env.Encoding,
		JWTSecret:              env.JWTSecret,
		DefaultResourceBackend: env.DefaultResourceBackend,
		ResourceBackends: []ResourceBackendConfig{
			{Name: "memory", Type: "memory", Config: map[string]interface{}{}},
		},
	}

	if env.FSBaseDir != "" {
		cfg.ResourceBackends = append(cfg.ResourceBackends, ResourceBackendConfig{
			Name: "fs",
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir": env.FSBaseDir,
			},
		})
	}

	if env.S3Bucket != "" {
		cfg.ResourceBackends = append(cfg.ResourceBackends, ResourceBackendConfig{
			Name: "s3",
			Type: "s3",
			Config: map[string]interface{}{
				"region":                     env.S3Region,
				"bucket":                     env.S3Bucket,
				"access_key_id":              env.S3AccessKeyID,
				"secret_access_key":          env.S3SecretAccessKey,
				"endpoint":                   env.S3Endpoint,
				"use_path_style":             env.S3UsePathStyle,
				"create_bucket_if_not_exist": env.S3CreateBucket,
			},
		})
	}

	if env.DatabaseURL != "" {
		cfg.ResourceBackends = append(cfg.ResourceBackends, ResourceBackendConfig{
			Name: "postgres",
			Type: "postgres",
			Config: map[string]interface{}{
				"database_url": env.DatabaseURL,
			},
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
