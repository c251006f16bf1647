package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/app-estudos/estudos/internal/errors"
)

const (
	// FileName is the name of the configuration file.
	FileName = "estudos.json"

	// EnvFileName is the optional file of environment overrides.
	EnvFileName = ".env"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ESTUDOS_"

	DefaultHost         = "localhost"
	DefaultPort         = 8080
	DefaultReadTimeout  = "15s"
	DefaultWriteTimeout = "15s"
	DefaultNamespace    = "estudos"
	DefaultTracerName   = "github.com/app-estudos/estudos"
)

// Module source kinds.
const (
	SourceEmbed = "embed"
	SourceDir   = "dir"
	SourceS3    = "s3"
)

// Config is the complete estudos.json configuration.
type Config struct {
	// Name is the application title shown in the page shell.
	Name string `json:"name,omitempty"`

	// BasePath is the path the application is served under.
	BasePath string `json:"basePath,omitempty"`

	Server  ServerConfig  `json:"server"`
	Log     LogConfig     `json:"log"`
	Modules ModulesConfig `json:"modules"`
	Metrics MetricsConfig `json:"metrics"`
	Tracing TracingConfig `json:"tracing"`

	configPath string
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// ReadTimeout and WriteTimeout are durations such as "15s".
	ReadTimeout  string `json:"readTimeout,omitempty"`
	WriteTimeout string `json:"writeTimeout,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// ModulesConfig selects where route views fetch their modules from.
type ModulesConfig struct {
	// Source is "embed", "dir" or "s3".
	Source string `json:"source,omitempty"`

	// Dir is the module directory for the "dir" source.
	Dir string `json:"dir,omitempty"`

	S3 S3Config `json:"s3"`
}

// S3Config configures the "s3" module source.
type S3Config struct {
	Bucket       string `json:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	Region       string `json:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`

	// Credentials are read from the environment only.
	AccessKeyID     string `json:"-"`
	SecretAccessKey string `json:"-"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// New returns a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads estudos.json from dir. A missing file yields the defaults.
// Environment overrides are not applied; see LoadWithEnv.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := LoadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		cfg = New()
		cfg.configPath = path
		return cfg, nil
	}
	return cfg, err
}

// LoadFile reads a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, errors.New("E103").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, decodeError(path, data, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

func decodeError(path string, data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.New("E100").
			WithOffset(path, data, syntaxErr.Offset).
			WithDetail(syntaxErr.Error()).
			Wrap(err)
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return errors.New("E101").
			WithOffset(path, data, typeErr.Offset).
			WithDetailf("%s must be a %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value).
			Wrap(err)
	}
	return errors.New("E100").Wrap(err)
}

// LoadWithEnv loads dir/.env into the process environment (variables
// already set win), reads estudos.json and applies ESTUDOS_* overrides.
func LoadWithEnv(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, EnvFileName)); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("E102").WithDetail("cannot read " + EnvFileName).Wrap(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	var problems []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				problems = append(problems, fmt.Errorf("%s%s=%q is not a boolean", EnvPrefix, key, v))
				return
			}
			*dst = b
		}
	}

	str("NAME", &c.Name)
	str("BASE_PATH", &c.BasePath)
	str("HOST", &c.Server.Host)
	if v, ok := lookup(EnvPrefix + "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, fmt.Errorf("%sPORT=%q is not a number", EnvPrefix, v))
		} else {
			c.Server.Port = port
		}
	}
	str("READ_TIMEOUT", &c.Server.ReadTimeout)
	str("WRITE_TIMEOUT", &c.Server.WriteTimeout)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("MODULES_SOURCE", &c.Modules.Source)
	str("MODULES_DIR", &c.Modules.Dir)
	str("S3_BUCKET", &c.Modules.S3.Bucket)
	str("S3_PREFIX", &c.Modules.S3.Prefix)
	str("S3_REGION", &c.Modules.S3.Region)
	str("S3_ENDPOINT", &c.Modules.S3.Endpoint)
	boolean("S3_USE_PATH_STYLE", &c.Modules.S3.UsePathStyle)
	str("S3_ACCESS_KEY_ID", &c.Modules.S3.AccessKeyID)
	str("S3_SECRET_ACCESS_KEY", &c.Modules.S3.SecretAccessKey)
	boolean("METRICS_ENABLED", &c.Metrics.Enabled)
	str("METRICS_NAMESPACE", &c.Metrics.Namespace)
	boolean("TRACING_ENABLED", &c.Tracing.Enabled)
	str("TRACING_TRACER_NAME", &c.Tracing.TracerName)

	if len(problems) > 0 {
		return errors.New("E102").Wrap(stderrors.Join(problems...))
	}
	c.applyDefaults()
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E103").Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E103").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.configPath }

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "Estudos"
	}
	if c.BasePath == "" {
		c.BasePath = "/"
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Modules.Source == "" {
		c.Modules.Source = SourceEmbed
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !strings.HasPrefix(c.BasePath, "/") {
		add("basePath must start with \"/\", got %q", c.BasePath)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		add("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if _, err := parseDuration(c.Server.ReadTimeout); err != nil {
		add("server.readTimeout: %v", err)
	}
	if _, err := parseDuration(c.Server.WriteTimeout); err != nil {
		add("server.writeTimeout: %v", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		add("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		add("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}

	switch c.Modules.Source {
	case SourceEmbed:
	case SourceDir:
		if c.Modules.Dir == "" {
			add("modules.dir is required for the %q source", SourceDir)
		}
	case SourceS3:
		if c.Modules.S3.Bucket == "" {
			add("modules.s3.bucket is required for the %q source", SourceS3)
		}
		if c.Modules.S3.Region == "" {
			add("modules.s3.region is required for the %q source", SourceS3)
		}
	default:
		return errors.New("E300").WithDetailf("modules.source is %q", c.Modules.Source)
	}

	if len(problems) == 0 {
		return nil
	}
	err := errors.New("E101").WithDetail(strings.Join(problems, "; "))
	if c.configPath != "" {
		err.Location = &errors.Location{File: c.configPath}
	}
	return err
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", s)
	}
	return d, nil
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ReadTimeout returns the parsed read timeout, or the default if invalid.
func (c *Config) ReadTimeout() time.Duration {
	if d, err := parseDuration(c.Server.ReadTimeout); err == nil {
		return d
	}
	d, _ := time.ParseDuration(DefaultReadTimeout)
	return d
}

// WriteTimeout returns the parsed write timeout, or the default if invalid.
func (c *Config) WriteTimeout() time.Duration {
	if d, err := parseDuration(c.Server.WriteTimeout); err == nil {
		return d
	}
	d, _ := time.ParseDuration(DefaultWriteTimeout)
	return d
}

// ModulesDir returns the module directory, resolved against the config
// file's directory when relative.
func (c *Config) ModulesDir() string {
	if filepath.IsAbs(c.Modules.Dir) || c.Dir() == "" {
		return c.Modules.Dir
	}
	return filepath.Join(c.Dir(), c.Modules.Dir)
}

// NewLogger returns a logger writing to w in the configured format and at
// the configured level.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
