package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "ARTISAN"

	BackendContract = "contract"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	Chain   ChainConfig   `mapstructure:"chain"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Reveal  RevealConfig  `mapstructure:"reveal"`
	Status  StatusConfig  `mapstructure:"status"`
	Session SessionConfig `mapstructure:"session"`
}

type ChainConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	ContractAddress string `mapstructure:"contract_address"`
	// ChainID is used when the store backend does not talk to a chain.
	ChainID int64 `mapstructure:"chain_id"`
}

type WalletConfig struct {
	PrivateKey string `mapstructure:"private_key"`
}

type StoreConfig struct {
	Backend        string `mapstructure:"backend"`
	RedisURL       string `mapstructure:"redis_url"`
	RedisNamespace string `mapstructure:"redis_namespace"`
	WaitMined      bool   `mapstructure:"wait_mined"`
}

type ServerConfig struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type RevealConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type StatusConfig struct {
	SuccessTTL time.Duration `mapstructure:"success_ttl"`
	ErrorTTL   time.Duration `mapstructure:"error_ttl"`
}

type SessionConfig struct {
	DurationDays int `mapstructure:"duration_days"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("chain.rpc_url", "https://ethereum-sepolia-rpc.publicnode.com")
	v.SetDefault("chain.contract_address", "")
	v.SetDefault("chain.chain_id", 11155111)
	v.SetDefault("wallet.private_key", "")
	v.SetDefault("store.backend", BackendContract)
	v.SetDefault("store.redis_url", "redis://localhost:6379")
	v.SetDefault("store.redis_namespace", "artisan:")
	v.SetDefault("store.wait_mined", true)
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.request_timeout", 3*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("reveal.delay", 1500*time.Millisecond)
	v.SetDefault("status.success_ttl", 2*time.Second)
	v.SetDefault("status.error_ttl", 3*time.Second)
	v.SetDefault("session.duration_days", 30)
}

// Load reads configuration from defaults, an optional file and ARTISAN_*
// environment variables, in increasing precedence.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendContract:
		if c.Chain.RPCURL == "" {
			return errors.New("chain.rpc_url is required for the contract backend")
		}
		if c.Chain.ContractAddress == "" {
			return errors.New("chain.contract_address is required for the contract backend")
		}
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return errors.New("store.redis_url is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Session.DurationDays <= 0 {
		return errors.New("session.duration_days must be positive")
	}
	if c.Reveal.Delay < 0 {
		return errors.New("reveal.delay must not be negative")
	}
	return nil
}
