// Package config decodes the process-wide, immutable-after-init Config
// (spec.md §3) the way the teacher's HTTP services do: a generic
// map[string]interface{}, as loaded from TOML/JSON/env by the host
// runtime, decoded with mapstructure. Config loading's wire format is out
// of scope (spec.md §1); this package only defines the typed shape and its
// defaults.
package config

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// ObjectStore holds the object-store client's credentials and bucket.
type ObjectStore struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Config is the process-wide configuration consumed by the core (spec.md §3).
type Config struct {
	// Address is the HTTP front end's listen address.
	Address string `mapstructure:"address"`

	// MaxAssetSize bounds every HTTP body the pipeline reads (template and
	// each asset), in bytes.
	MaxAssetSize int64 `mapstructure:"max_asset_size"`

	// RedirectHopLimit caps the fetcher's redirect chain (spec.md §9 Open
	// Question, resolved at 10 per the spec's own recommendation).
	RedirectHopLimit int `mapstructure:"redirect_hop_limit"`

	// WorkerPoolSize bounds concurrent blocking operations (object-store
	// uploads, workspace tarring), mirroring the source's CpuPool::new(3).
	WorkerPoolSize int `mapstructure:"worker_pool_size"`

	// PresignTTL is how long a presigned download URL stays valid.
	PresignTTL time.Duration `mapstructure:"presign_ttl"`

	// CallbackTimeout bounds how long the callback reporter waits for the
	// caller's endpoint to respond.
	CallbackTimeout time.Duration `mapstructure:"callback_timeout"`

	// LogMode is "dev" (console) or "prod" (JSON).
	LogMode string `mapstructure:"log_mode"`

	// LogLevel is a zerolog level name ("debug", "info", "warn", "error").
	LogLevel string `mapstructure:"log_level"`

	ObjectStore ObjectStore `mapstructure:"object_store"`
}

func (c *Config) init() {
	if c.Address == "" {
		c.Address = ":9992"
	}
	if c.MaxAssetSize == 0 {
		c.MaxAssetSize = 64 << 20 // 64 MiB
	}
	if c.RedirectHopLimit == 0 {
		c.RedirectHopLimit = 10
	}
	if c.WorkerPoolSize == 0 {
		c.WorkerPoolSize = 3
	}
	if c.PresignTTL == 0 {
		c.PresignTTL = 24 * time.Hour
	}
	if c.CallbackTimeout == 0 {
		c.CallbackTimeout = 30 * time.Second
	}
	if c.LogMode == "" {
		c.LogMode = "dev"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ObjectStore.Bucket == "" {
		c.ObjectStore.Bucket = "papers"
	}
}

// New decodes conf into a Config and applies defaults, mirroring the
// New(conf map[string]interface{}, log *zerolog.Logger) idiom every
// internal/http/services constructor in the teacher uses.
func New(conf map[string]interface{}) (*Config, error) {
	c := &Config{}
	if err := mapstructure.Decode(conf, c); err != nil {
		return nil, errors.Wrap(err, "error decoding config")
	}
	c.init()
	return c, nil
}
