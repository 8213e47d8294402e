package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrMissingDatabase is returned when neither DATABASE_URL nor DB_NAME is configured.
var ErrMissingDatabase = errors.New("database not configured: set DATABASE_URL or DB_NAME")

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds application configuration. It is read once at startup.
type Config struct {
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	DBDriver    string `yaml:"db_driver" env:"DB_DRIVER"`
	DBHost      string `yaml:"db_host" env:"DB_HOST"`
	DBPort      string `yaml:"db_port" env:"DB_PORT"`
	DBName      string `yaml:"db_name" env:"DB_NAME"`
	DBUser      string `yaml:"db_user" env:"DB_USER"`
	DBPassword  string `yaml:"db_password" env:"DB_PASSWORD"`

	ServerPort string `yaml:"server_port" env:"SERVER_PORT"`
	RedisURL   string `yaml:"redis_url" env:"REDIS_URL"`

	LogFile  string `yaml:"log_file" env:"LOG_FILE"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	AutoMigrate   bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
	MigrationsDir string `yaml:"migrations_dir" env:"MIGRATIONS_DIR"`
}

// Load builds config from environment variables.
// If neither DATABASE_URL nor DB_NAME is set, Load tries to load .env.local and .env first.
func Load() (*Config, error) {
	if os.Getenv("DATABASE_URL") == "" && os.Getenv("DB_NAME") == "" {
		loadEnvFiles()
	}
	c := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBDriver:      os.Getenv("DB_DRIVER"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		RedisURL:      os.Getenv("REDIS_URL"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AutoMigrate:   true,
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
	}
	if s := os.Getenv("AUTO_MIGRATE"); s != "" {
		c.AutoMigrate = parseBool(s, true)
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

// finish applies defaults and checks required settings.
func (c *Config) finish() error {
	if c.DatabaseURL == "" && c.DBName == "" {
		return ErrMissingDatabase
	}
	if c.DBDriver == "" {
		c.DBDriver = DriverPostgres
	}
	c.DBDriver = strings.ToLower(c.DBDriver)
	if c.DatabaseURL != "" {
		c.DBDriver = driverFromURL(c.DatabaseURL, c.DBDriver)
	}
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverMySQL {
		return fmt.Errorf("unsupported db_driver %q (use postgres or mysql)", c.DBDriver)
	}
	if c.DBHost == "" {
		c.DBHost = "localhost"
	}
	if c.DBPort == "" {
		c.DBPort = "5432"
		if c.DBDriver == DriverMySQL {
			c.DBPort = "3306"
		}
	}
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MigrationsDir == "" {
		c.MigrationsDir = "migrations"
	}
	return nil
}

// Driver returns the configured database driver name.
func (c *Config) Driver() string {
	return c.DBDriver
}

// MigrateURL returns the database URL in the form golang-migrate expects.
func (c *Config) MigrateURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == DriverMySQL {
		return "mysql://" + c.mysqlConfig().FormatDSN()
	}
	return c.postgresURL()
}

// StoreDSN returns the DSN for the store driver. MySQL DSNs always get parseTime=true
// so tm_created scans into time.Time.
func (c *Config) StoreDSN() (string, error) {
	if c.DBDriver == DriverPostgres {
		if c.DatabaseURL != "" {
			return c.DatabaseURL, nil
		}
		return c.postgresURL(), nil
	}
	if c.DatabaseURL == "" {
		return c.mysqlConfig().FormatDSN(), nil
	}
	mc, err := mysql.ParseDSN(strings.TrimPrefix(c.DatabaseURL, "mysql://"))
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}

func (c *Config) mysqlConfig() *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	mc.DBName = c.DBName
	mc.ParseTime = true
	return mc
}

func (c *Config) postgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	if c.DBUser != "" {
		if c.DBPassword != "" {
			u.User = url.UserPassword(c.DBUser, c.DBPassword)
		} else {
			u.User = url.User(c.DBUser)
		}
	}
	return u.String()
}

func driverFromURL(raw, fallback string) string {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(raw, "mysql://"):
		return DriverMySQL
	default:
		return fallback
	}
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
