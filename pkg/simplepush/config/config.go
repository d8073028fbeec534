package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-push/pkg/simplepush"
	fsresource "github.com/tendant/simple-push/pkg/simplepush/resource/fs"
	memoryresource "github.com/tendant/simple-push/pkg/simplepush/resource/memory"
	pgresource "github.com/tendant/simple-push/pkg/simplepush/resource/postgres"
	s3resource "github.com/tendant/simple-push/pkg/simplepush/resource/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:                   "8080",
		Environment:            "development",
		Encoding:               simplepush.EncodingUTF8,
		DefaultResourceBackend: "memory",
		ResourceBackends: []ResourceBackendConfig{
			{
				Name:   "memory",
				Type:   "memory",
				Config: map[string]interface{}{},
			},
		},
	}
}

// ServerConfig represents server configuration for the simple-push service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Text encoding every buffer is built with
	Encoding string

	// Resource backend configuration
	DefaultResourceBackend string
	ResourceBackends       []ResourceBackendConfig

	// Optional HS256 secret; when set, the API requires bearer tokens
	JWTSecret string
}

// ResourceBackendConfig represents configuration for a resource backend
type ResourceBackendConfig struct {
	Name   string
	Type   string // "memory", "fs", "s3", "postgres"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if !simplepush.KnownEncoding(c.Encoding) {
		return fmt.Errorf("unknown text encoding %q", c.Encoding)
	}

	found := false
	for _, backend := range c.ResourceBackends {
		if backend.Name == c.DefaultResourceBackend {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("default resource backend '%s' not found in configured backends", c.DefaultResourceBackend)
	}

	return nil
}

// BuildStore creates the default resource backend from the configuration.
func (c *ServerConfig) BuildStore(ctx context.Context) (simplepush.ResourceStore, error) {
	for _, backend := range c.ResourceBackends {
		if backend.Name != c.DefaultResourceBackend {
			continue
		}
		return buildBackend(ctx, backend)
	}
	return nil, fmt.Errorf("default resource backend '%s' not configured", c.DefaultResourceBackend)
}

// BuildBuffer creates a Buffer wired with the configured encoding and the
// default resource backend.
func (c *ServerConfig) BuildBuffer(ctx context.Context) (*simplepush.Buffer, error) {
	store, err := c.BuildStore(ctx)
	if err != nil {
		return nil, err
	}
	return simplepush.New(
		simplepush.WithEncoding(c.Encoding),
		simplepush.WithResourceOpener(store),
	), nil
}

func buildBackend(ctx context.Context, backend ResourceBackendConfig) (simplepush.ResourceStore, error) {
	switch backend.Type {
	case "memory":
		return memoryresource.New(), nil
	case "fs":
		return fsresource.New(fsresource.Config{
			BaseDir: stringValue(backend.Config, "base_dir"),
		})
	case "s3":
		return s3resource.New(s3resource.Config{
			Region:                 stringValue(backend.Config, "region"),
			Bucket:                 stringValue(backend.Config, "bucket"),
			AccessKeyID:            stringValue(backend.Config, "access_key_id"),
			SecretAccessKey:        stringValue(backend.Config, "secret_access_key"),
			Endpoint:               stringValue(backend.Config, "endpoint"),
			UsePathStyle:           boolValue(backend.Config, "use_path_style"),
			CreateBucketIfNotExist: boolValue(backend.Config, "create_bucket_if_not_exist"),
		})
	case "postgres":
		url := stringValue(backend.Config, "database_url")
		if url == "" {
			return nil, errors.New("database_url is required for the postgres backend")
		}
		pool, err := pgxpool.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		return pgresource.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unknown resource backend type '%s'", backend.Type)
	}
}

func stringValue(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func boolValue(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}
