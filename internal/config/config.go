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

// Config is the application configuration. Values come from defaults, then the YAML file,
// then a .env file (if any), then process environment variables.
type Config struct {
	// HTTP server
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL       string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		ReadTimeout     string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
		CORSOrigins     string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	// PostgreSQL connection and pool
	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	// Access tokens
	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	// Log level and output format (json or console)
	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// Profile photo storage: local directory or Aliyun OSS
	Storage struct {
		Driver        string `yaml:"driver" env:"STORAGE_DRIVER"`
		LocalPath     string `yaml:"local_path" env:"STORAGE_LOCAL_PATH"`
		MaxPhotoBytes int64  `yaml:"max_photo_bytes" env:"STORAGE_MAX_PHOTO_BYTES"`
		PhotoFolder   string `yaml:"photo_folder" env:"STORAGE_PHOTO_FOLDER"`
		OSS           struct {
			Endpoint        string `yaml:"endpoint" env:"OSS_ENDPOINT"`
			AccessKeyID     string `yaml:"access_key_id" env:"OSS_ACCESS_KEY_ID"`
			AccessKeySecret string `yaml:"access_key_secret" env:"OSS_ACCESS_KEY_SECRET"`
			Bucket          string `yaml:"bucket" env:"OSS_BUCKET"`
			PublicBaseURL   string `yaml:"public_base_url" env:"OSS_PUBLIC_BASE_URL"`
		} `yaml:"oss"`
	} `yaml:"storage"`

	// Institution block printed on every bulletin
	School struct {
		Name          string `yaml:"name" env:"SCHOOL_NAME"`
		Contact       string `yaml:"contact" env:"SCHOOL_CONTACT"`
		District      string `yaml:"district" env:"SCHOOL_DISTRICT"`
		DistrictVill  string `yaml:"district_village" env:"SCHOOL_DISTRICT_VILLAGE"`
		Sector        string `yaml:"sector" env:"SCHOOL_SECTOR"`
		SectorVillage string `yaml:"sector_village" env:"SCHOOL_SECTOR_VILLAGE"`
	} `yaml:"school"`

	// Default HEAD account created at start-up
	Seed struct {
		HeadPhone    string `yaml:"head_phone" env:"SEED_HEAD_PHONE"`
		HeadPassword string `yaml:"head_password" env:"SEED_HEAD_PASSWORD"`
		HeadName     string `yaml:"head_name" env:"SEED_HEAD_NAME"`
		HeadEmail    string `yaml:"head_email" env:"SEED_HEAD_EMAIL"`
	} `yaml:"seed"`

	// Prometheus endpoint
	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	// Set default values
	setDefaults(config)

	// Load from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults fills every value a local run needs except the JWT secret
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "15s"
	config.Server.WriteTimeout = "30s"
	config.Server.ShutdownTimeout = "10s"
	config.Server.CORSOrigins = "http://localhost:3000,http://localhost:4200"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "academy"
	config.Database.SSLMode = "disable"
	config.Database.MinConns = 2
	config.Database.MaxConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "uruhongore.academy"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.Driver = "local"
	config.Storage.LocalPath = "uploads"
	config.Storage.MaxPhotoBytes = 10 << 20
	config.Storage.PhotoFolder = "student-profiles"

	config.School.Name = "URUHONGORE ACADEMY"
	config.School.Contact = "TEL: 0784696074/0786064017"
	config.School.District = "KICUKIRO"
	config.School.DistrictVill = "NYANZA"
	config.School.Sector = "GATENGA"
	config.School.SectorVillage = "JURU"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
}

// validateConfig rejects configurations the server cannot start with
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	// Each storage driver has its own required settings
	switch config.Storage.Driver {
	case "local":
		if config.Storage.LocalPath == "" {
			return fmt.Errorf("storage local_path is required for the local driver")
		}
	case "oss":
		if config.Storage.OSS.Endpoint == "" || config.Storage.OSS.Bucket == "" {
			return fmt.Errorf("storage oss endpoint and bucket are required for the oss driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}
	if config.Storage.MaxPhotoBytes <= 0 {
		return fmt.Errorf("storage max_photo_bytes must be positive")
	}

	return nil
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

// BaseURL is the externally reachable server address, used to build upload URLs.
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
