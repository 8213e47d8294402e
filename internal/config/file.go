package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	DatabaseURL   string `yaml:"database_url"`
	DBDriver      string `yaml:"db_driver"`
	DBHost        string `yaml:"db_host"`
	DBPort        string `yaml:"db_port"`
	DBName        string `yaml:"db_name"`
	DBUser        string `yaml:"db_user"`
	DBPassword    string `yaml:"db_password"`
	ServerPort    string `yaml:"server_port"`
	RedisURL      string `yaml:"redis_url"`
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	AutoMigrate   *bool  `yaml:"auto_migrate"`
	MigrationsDir string `yaml:"migrations_dir"`
}

// LoadFromFile loads config from a YAML file. database_url or db_name is required.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	c := &Config{
		DatabaseURL:   f.DatabaseURL,
		DBDriver:      f.DBDriver,
		DBHost:        f.DBHost,
		DBPort:        f.DBPort,
		DBName:        f.DBName,
		DBUser:        f.DBUser,
		DBPassword:    f.DBPassword,
		ServerPort:    f.ServerPort,
		RedisURL:      f.RedisURL,
		LogFile:       f.LogFile,
		LogLevel:      f.LogLevel,
		AutoMigrate:   true,
		MigrationsDir: f.MigrationsDir,
	}
	if f.AutoMigrate != nil {
		c.AutoMigrate = *f.AutoMigrate
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}
