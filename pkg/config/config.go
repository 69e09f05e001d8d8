package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Auth       AuthConfig       `yaml:"auth"`
	Attendance AttendanceConfig `yaml:"attendance"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Env          string        `yaml:"env"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// AllowedOrigins feeds the CORS middleware; "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Type           string `yaml:"type"` // "sqlite" or "postgres"
	SQLitePath     string `yaml:"sqlite_path"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"ssl_mode"`
	MaxConnections int    `yaml:"max_connections"`
	MinConnections int    `yaml:"min_connections"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	SecretKey   string        `yaml:"secret_key"`
	TokenExpiry time.Duration `yaml:"token_expiry"`
	Issuer      string        `yaml:"issuer"`
}

// AttendanceConfig holds the organization's attendance rules.
type AttendanceConfig struct {
	// Timezone is an IANA name ("Asia/Jakarta") or "Local".
	Timezone       string  `yaml:"timezone"`
	LateCutoffHour int     `yaml:"late_cutoff_hour"`
	HalfDayHours   float64 `yaml:"half_day_hours"`
}

// Load loads configuration from defaults, an optional YAML file, an optional
// .env file and finally environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a configuration with default values
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           5000,
			Env:            "development",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Type:           "sqlite",
			SQLitePath:     "./data/attendance.db",
			Host:           "localhost",
			Port:           5432,
			User:           "attendance",
			Password:       "attendance_dev",
			Database:       "attendance",
			SSLMode:        "disable",
			MaxConnections: 20,
			MinConnections: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			SecretKey:   "your-secret-key-change-in-production",
			TokenExpiry: 30 * 24 * time.Hour,
			Issuer:      "attendance-tracker",
		},
		Attendance: AttendanceConfig{
			Timezone:       "Local",
			LateCutoffHour: 10,
			HalfDayHours:   4,
		},
	}
}

// getConfigPath returns the configuration file path
func getConfigPath() string {
	if path := os.Getenv("ATTENDANCE_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

// applyEnv overrides configuration with environment variables
func (c *Config) applyEnv() {
	// Server configuration
	if host := os.Getenv("ATTENDANCE_SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if port := os.Getenv("ATTENDANCE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if env := os.Getenv("ATTENDANCE_ENV"); env != "" {
		c.Server.Env = env
	}
	if readTimeout := os.Getenv("ATTENDANCE_SERVER_READ_TIMEOUT"); readTimeout != "" {
		if d, err := time.ParseDuration(readTimeout); err == nil {
			c.Server.ReadTimeout = d
		}
	}
	if writeTimeout := os.Getenv("ATTENDANCE_SERVER_WRITE_TIMEOUT"); writeTimeout != "" {
		if d, err := time.ParseDuration(writeTimeout); err == nil {
			c.Server.WriteTimeout = d
		}
	}
	if origins := os.Getenv("ATTENDANCE_SERVER_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	// Database configuration
	if dbType := os.Getenv("ATTENDANCE_DATABASE_TYPE"); dbType != "" {
		c.Database.Type = dbType
	}
	if path := os.Getenv("ATTENDANCE_DATABASE_SQLITE_PATH"); path != "" {
		c.Database.SQLitePath = path
	}
	if host := os.Getenv("ATTENDANCE_DATABASE_HOST"); host != "" {
		c.Database.Host = host
	}
	if port := os.Getenv("ATTENDANCE_DATABASE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Database.Port = p
		}
	}
	if user := os.Getenv("ATTENDANCE_DATABASE_USER"); user != "" {
		c.Database.User = user
	}
	if password := os.Getenv("ATTENDANCE_DATABASE_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if database := os.Getenv("ATTENDANCE_DATABASE_NAME"); database != "" {
		c.Database.Database = database
	}
	if sslMode := os.Getenv("ATTENDANCE_DATABASE_SSL_MODE"); sslMode != "" {
		c.Database.SSLMode = sslMode
	}
	if maxConns := os.Getenv("ATTENDANCE_DATABASE_MAX_CONNECTIONS"); maxConns != "" {
		if m, err := strconv.Atoi(maxConns); err == nil {
			c.Database.MaxConnections = m
		}
	}

	// Logging configuration
	if level := os.Getenv("ATTENDANCE_LOGGING_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("ATTENDANCE_LOGGING_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	// Auth configuration
	if secretKey := os.Getenv("JWT_SECRET"); secretKey != "" {
		c.Auth.SecretKey = secretKey
	}
	if tokenExpiry := os.Getenv("ATTENDANCE_AUTH_TOKEN_EXPIRY"); tokenExpiry != "" {
		if d, err := time.ParseDuration(tokenExpiry); err == nil {
			c.Auth.TokenExpiry = d
		}
	}
	if issuer := os.Getenv("ATTENDANCE_AUTH_ISSUER"); issuer != "" {
		c.Auth.Issuer = issuer
	}

	// Attendance rules
	if tz := os.Getenv("ATTENDANCE_TIMEZONE"); tz != "" {
		c.Attendance.Timezone = tz
	}
	if cutoff := os.Getenv("ATTENDANCE_LATE_CUTOFF_HOUR"); cutoff != "" {
		if h, err := strconv.Atoi(cutoff); err == nil {
			c.Attendance.LateCutoffHour = h
		}
	}
	if halfDay := os.Getenv("ATTENDANCE_HALF_DAY_HOURS"); halfDay != "" {
		if h, err := strconv.ParseFloat(halfDay, 64); err == nil {
			c.Attendance.HalfDayHours = h
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}

	switch strings.ToLower(c.Database.Type) {
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("max connections must be at least 1")
	}

	if c.Database.MinConnections < 0 {
		return fmt.Errorf("min connections cannot be negative")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("min connections cannot be greater than max connections")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}

	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	if c.Auth.SecretKey == "" {
		return fmt.Errorf("auth secret key is required")
	}

	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("token expiry must be positive")
	}

	if _, err := c.Attendance.Location(); err != nil {
		return err
	}

	if c.Attendance.LateCutoffHour < 0 || c.Attendance.LateCutoffHour > 23 {
		return fmt.Errorf("late cutoff hour must be between 0 and 23, got %d", c.Attendance.LateCutoffHour)
	}

	if c.Attendance.HalfDayHours <= 0 || c.Attendance.HalfDayHours > 24 {
		return fmt.Errorf("half day hours must be in (0, 24], got %v", c.Attendance.HalfDayHours)
	}

	return nil
}

// Location resolves the configured timezone.
func (a AttendanceConfig) Location() (*time.Location, error) {
	if a.Timezone == "" || strings.EqualFold(a.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid attendance timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s:%d (%s), Database: %s, Logging: %s/%s, Timezone: %s}",
		c.Server.Host, c.Server.Port, c.Server.Env,
		c.Database.Type,
		c.Logging.Level, c.Logging.Format,
		c.Attendance.Timezone,
	)
}

// GetDatabaseURL returns the PostgreSQL connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
