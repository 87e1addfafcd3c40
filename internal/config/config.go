package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the store.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	DB        DBConfig        `mapstructure:"db"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	Recovery  RecoveryConfig  `mapstructure:"recovery"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

type AppConfig struct {
	Port string `mapstructure:"port"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // postgres or sqlite
	DSN    string `mapstructure:"dsn"`
	Debug  bool   `mapstructure:"debug"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// RabbitMQConfig leaves URL empty to run without a broker.
type RabbitMQConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig leaves Addr empty to fall back to the in-process cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type RecoveryConfig struct {
	CodeTTL time.Duration `mapstructure:"code_ttl"`
}

// AdminConfig holds the credentials of the account created by `seed`.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type DashboardConfig struct {
	LowStockThreshold int `mapstructure:"low_stock_threshold"`
}

// Load reads config.yaml (when present) from the given paths and the
// environment. Env keys use underscores, e.g. DB_DSN overrides db.dsn.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", ":8080")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:gadgetstore.db?cache=shared")
	v.SetDefault("db.debug", false)
	v.SetDefault("jwt.secret", "change_me")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("recovery.code_ttl", 10*time.Minute)
	v.SetDefault("admin.email", "admin@gadgetstore.local")
	v.SetDefault("admin.password", "admin12345")
	v.SetDefault("dashboard.low_stock_threshold", 5)
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return errors.Errorf("unsupported db driver: %s", c.DB.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret must be provided")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	if c.Recovery.CodeTTL <= 0 {
		return errors.New("recovery code ttl must be positive")
	}
	return nil
}
