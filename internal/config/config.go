package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Env type for environment
type Env string

const (
	// Dev is the development environment
	Dev Env = "dev"
	// Prod is the production environment
	Prod Env = "prod"
)

// ErrMissingHost is returned when no Valkey host has been configured
var ErrMissingHost = errors.New("you should first fill the .env-example file and rename it to .env")

// ErrInvalidPort is returned when the configured port is out of range
var ErrInvalidPort = errors.New("invalid valkey port")

// ErrInvalidDB is returned when the configured database index is negative
var ErrInvalidDB = errors.New("invalid valkey database index")

// Config is the configuration for the application
type Config struct {
	Env    Env          `yaml:"env" env:"ENV" env-default:"dev"`
	Valkey ValkeyConfig `yaml:"valkey"`
	Demo   DemoConfig   `yaml:"demo"`
}

// ValkeyConfig is the configuration for the connection to the store
type ValkeyConfig struct {
	Host        string        `yaml:"host" env:"VALKEY_HOST"`
	Port        int           `yaml:"port" env:"VALKEY_PORT" env-default:"6380"`
	Password    string        `yaml:"password" env:"VALKEY_PASSWORD"`
	DB          int           `yaml:"db" env:"VALKEY_DB" env-default:"0"`
	DisableTLS  bool          `yaml:"disable_tls" env:"VALKEY_DISABLE_TLS" env-default:"false"`
	TLSInsecure bool          `yaml:"tls_insecure" env:"VALKEY_TLS_INSECURE" env-default:"false"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"VALKEY_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout time.Duration `yaml:"read_timeout" env:"VALKEY_READ_TIMEOUT" env-default:"3s"`
	// WriteTimeout bounds a single command write
	WriteTimeout time.Duration `yaml:"write_timeout" env:"VALKEY_WRITE_TIMEOUT" env-default:"3s"`
}

// DemoConfig holds the keys and values used by the walkthrough
type DemoConfig struct {
	Key             string        `yaml:"key" env:"DEMO_KEY" env-default:"stackhero-example-key"`
	Value           string        `yaml:"value" env:"DEMO_VALUE" env-default:"abcd"`
	SetKey          string        `yaml:"set_key" env:"DEMO_SET_KEY" env-default:"stackhero-example-set"`
	SetMembers      []string      `yaml:"set_members" env:"DEMO_SET_MEMBERS" env-default:"value1,value2,value3"`
	DeliveryTimeout time.Duration `yaml:"delivery_timeout" env:"DEMO_DELIVERY_TIMEOUT" env-default:"2s"`
}

// Address returns the host:port pair to dial
func (c ValkeyConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks that the configuration can be used to connect
func (c *Config) Validate() error {
	if c.Valkey.Host == "" {
		return ErrMissingHost
	}
	if c.Valkey.Port < 1 || c.Valkey.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Valkey.Port)
	}
	if c.Valkey.DB < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDB, c.Valkey.DB)
	}

	return nil
}

// Load creates a new instance of Config.
//
// Variables from envFile are added to the process environment first, without
// overriding the ones already set. When path is empty only the environment is
// read, otherwise the yaml file is read and then overridden by the environment.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
	}

	cfg := &Config{}

	if path != "" {
		// Load configuration from yaml file, then environment variables
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read env variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
