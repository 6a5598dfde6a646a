package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the tool looks for its config file when no explicit
// path is given on the command line.
const DefaultPath = "/etc/backup-manager/config.yaml"

// StorageConfig contains backup storage settings
type StorageConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RetentionConfig selects the retention policy that bounds the storage
// directory. Policy and Limit must be set together; the policy factory
// rejects one without the other.
type RetentionConfig struct {
	Policy string `yaml:"policy"`
	Limit  int    `yaml:"limit"`
}

// DumpConfig contains dump utility settings
type DumpConfig struct {
	Binary  string   `yaml:"binary"`
	Options []string `yaml:"options"`
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Retention RetentionConfig `yaml:"retention"`
	Dump      DumpConfig      `yaml:"dump"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Load assembles the configuration for a run. Precedence, lowest to
// highest: built-in defaults, the YAML file at path, environment
// variables. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "/var/backups/mysql",
		},
		MySQL: MySQLConfig{
			Host: "127.0.0.1",
			Port: 3306,
			User: "root",
		},
		Dump: DumpConfig{
			Binary:  "mysqldump",
			Options: []string{"--single-transaction", "--quick"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// applyEnv overrides configuration from the environment.
func (c *Config) applyEnv() {
	c.Storage.Path = getEnvWithDefault("BACKUP_STORAGE_PATH", c.Storage.Path)

	c.MySQL.Host = getEnvWithDefault("MYSQL_HOST", c.MySQL.Host)
	c.MySQL.Port = getEnvAsIntWithDefault("MYSQL_PORT", c.MySQL.Port)
	c.MySQL.User = getEnvWithDefault("MYSQL_USER", c.MySQL.User)
	c.MySQL.Password = getEnvWithDefault("MYSQL_PASSWORD", c.MySQL.Password)
	c.MySQL.Database = getEnvWithDefault("MYSQL_DATABASE", c.MySQL.Database)

	c.Retention.Policy = getEnvWithDefault("BACKUP_RETENTION_POLICY", c.Retention.Policy)
	c.Retention.Limit = getEnvAsIntWithDefault("BACKUP_RETENTION_LIMIT", c.Retention.Limit)

	c.Dump.Binary = getEnvWithDefault("BACKUP_DUMP_BINARY", c.Dump.Binary)
	// Like the rest of the overrides, an empty BACKUP_DUMP_OPTIONS counts
	// as unset: the environment can replace configured options but cannot
	// clear them.
	if options := os.Getenv("BACKUP_DUMP_OPTIONS"); options != "" {
		c.Dump.Options = strings.Fields(options)
	}

	c.Metrics.Textfile = getEnvWithDefault("BACKUP_METRICS_TEXTFILE", c.Metrics.Textfile)
	c.Logging.Level = getEnvWithDefault("LOG_LEVEL", c.Logging.Level)
}
