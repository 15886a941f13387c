package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultJWTSecret = "change-me"

type Config struct {
	AppPort string `mapstructure:"app_port"`

	DBDriver   string `mapstructure:"db_driver"`
	DBDSN      string `mapstructure:"db_dsn"`
	SQLitePath string `mapstructure:"sqlite_path"`

	MySQLHost string `mapstructure:"mysql_host"`
	MySQLPort string `mapstructure:"mysql_port"`
	MySQLDB   string `mapstructure:"mysql_db"`
	MySQLUser string `mapstructure:"mysql_user"`
	MySQLPass string `mapstructure:"mysql_pass"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	IdempTTLSecs int `mapstructure:"idempotency_ttl_seconds"`

	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`

	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	GormLogLevel string `mapstructure:"gorm_log_level"`

	SeedAdminName     string `mapstructure:"seed_admin_name"`
	SeedAdminEmail    string `mapstructure:"seed_admin_email"`
	SeedAdminPassword string `mapstructure:"seed_admin_password"`
	SeedUserName      string `mapstructure:"seed_user_name"`
	SeedUserEmail     string `mapstructure:"seed_user_email"`
	SeedUserPassword  string `mapstructure:"seed_user_password"`
}

var defaults = map[string]any{
	"app_port": "8080",

	"db_driver":   "mysql",
	"db_dsn":      "",
	"sqlite_path": "loanapi.db",

	"mysql_host": "mysql",
	"mysql_port": "3306",
	"mysql_db":   "loans",
	"mysql_user": "loans",
	"mysql_pass": "loans",

	"redis_addr":     "redis:6379",
	"redis_password": "",
	"redis_db":       0,

	"idempotency_ttl_seconds": 300,

	"jwt_secret":        DefaultJWTSecret,
	"token_ttl_minutes": 24 * 60,

	"log_level":      "info",
	"log_format":     "json",
	"gorm_log_level": "warn",

	"seed_admin_name":     "Admin User",
	"seed_admin_email":    "admin@loan.com",
	"seed_admin_password": "admin123",
	"seed_user_name":      "John Doe",
	"seed_user_email":     "user@loan.com",
	"seed_user_password":  "user123",
}

// NewViper returns a viper instance with every key defaulted and bound to
// its upper-case environment variable (app_port -> APP_PORT).
func NewViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	return v
}

// Read merges an optional config file into v and decodes the result. An
// empty file means ./config.yaml, which may be absent.
func Read(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	return c, nil
}

func Load() (*Config, error) { return Read(NewViper(), "") }

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.DBDSN != "" {
			break
		}
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("missing DB_DSN for postgres")
		}
	case "sqlite":
		if c.DBDSN == "" && c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (mysql, postgres, sqlite)", c.DBDriver)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN is the connection string for the configured driver. DB_DSN wins when set.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case "mysql":
		return c.MySQLDSN()
	case "sqlite":
		return c.SQLitePath
	}
	return ""
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}
