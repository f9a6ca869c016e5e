package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when CONFIG_PATH is not set
const DefaultConfigPath = "configs/config.yaml"

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Host         string        `yaml:"host" env:"SERVER_HOST"`
		Port         string        `yaml:"port" env:"SERVER_PORT"`
		Mode         string        `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string        `yaml:"driver" env:"DB_DRIVER"`
		Host            string        `yaml:"host" env:"DB_HOST"`
		Port            string        `yaml:"port" env:"DB_PORT"`
		User            string        `yaml:"user" env:"DB_USER"`
		Password        string        `yaml:"password" env:"DB_PASSWORD"`
		DBName          string        `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string        `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxConns        int           `yaml:"max_conns" env:"DB_MAX_CONNS"`
		MinConns        int           `yaml:"min_conns" env:"DB_MIN_CONNS"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
		MigrationsDir   string        `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret string        `yaml:"secret" env:"JWT_SECRET"`
		Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY"`
		Issuer string        `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		// SignupRoles lists the roles open for self-signup, comma separated when set from env
		SignupRoles []string `yaml:"signup_roles" env:"AUTH_SIGNUP_ROLES"`
	} `yaml:"auth"`

	Enrollment struct {
		EnforceCapacity bool `yaml:"enforce_capacity" env:"ENROLLMENT_ENFORCE_CAPACITY"`
	} `yaml:"enrollment"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Mongo struct {
		Enabled    bool   `yaml:"enabled" env:"MONGO_ENABLED"`
		URI        string `yaml:"uri" env:"MONGO_URI"`
		Database   string `yaml:"database" env:"MONGO_DATABASE"`
		Collection string `yaml:"collection" env:"MONGO_COLLECTION"`
	} `yaml:"mongo"`

	Email struct {
		Enabled  bool   `yaml:"enabled" env:"EMAIL_ENABLED"`
		Host     string `yaml:"host" env:"EMAIL_HOST"`
		Port     int    `yaml:"port" env:"EMAIL_PORT"`
		Username string `yaml:"username" env:"EMAIL_USERNAME"`
		Password string `yaml:"password" env:"EMAIL_PASSWORD"`
		From     string `yaml:"from" env:"EMAIL_FROM"`
	} `yaml:"email"`

	Seed struct {
		Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
	} `yaml:"seed"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
	} `yaml:"logging"`
}

// knownRoles mirrors models.RoleName; config cannot import the models package.
var knownRoles = map[string]struct{}{
	"SUPER_ADMIN":       {},
	"ADMIN":             {},
	"FACULTY":           {},
	"STUDENT":           {},
	"EXAM_CELL":         {},
	"ADMISSION_OFFICER": {},
}

// Load reads the config file named by CONFIG_PATH, or the default path
func Load() (*Config, error) {
	return LoadConfig(GetEnv("CONFIG_PATH", DefaultConfigPath))
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env never overrides variables that are already exported
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Host = "0.0.0.0"
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = 15 * time.Second
	config.Server.WriteTimeout = 15 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "iams"
	config.Database.SSLMode = "disable"
	config.Database.MaxConns = 20
	config.Database.MinConns = 2
	config.Database.ConnMaxLifetime = time.Hour
	config.Database.ConnectTimeout = 5 * time.Second
	config.Database.MigrationsDir = "migrations"

	config.JWT.Expiry = 7 * 24 * time.Hour
	config.JWT.Issuer = "iams"

	config.Auth.SignupRoles = []string{"STUDENT", "FACULTY"}

	config.Redis.Addr = "localhost:6379"

	config.Mongo.URI = "mongodb://localhost:27017"
	config.Mongo.Database = "iams"
	config.Mongo.Collection = "audit_logs"

	config.Email.Port = 587
	config.Email.From = "no-reply@iams.local"

	config.Seed.Enabled = true
	config.Seed.AdminName = "System Administrator"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"

	config.Logging.Level = "info"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT expiry must be positive")
	}

	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	for _, role := range config.Auth.SignupRoles {
		if _, ok := knownRoles[role]; !ok {
			return fmt.Errorf("unknown signup role %q", role)
		}
	}

	if config.Seed.Enabled && config.Seed.AdminEmail != "" && config.Seed.AdminPassword == "" {
		return fmt.Errorf("seed admin password is required when seed admin email is set")
	}

	return nil
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}
