package config

import (
	"encoding/json"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/starter/internal/errors"
	"github.com/vango-dev/starter/pkg/nav"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "starter.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace is the default metrics namespace and tracer name.
	DefaultNamespace = "starter"
)

// Config represents the complete starter.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	Server  ServerConfig  `json:"server"`
	Session SessionConfig `json:"session"`
	Metrics MetricsConfig `json:"metrics"`
	Tracing TracingConfig `json:"tracing"`
	Deploy  DeployConfig  `json:"deploy"`

	// Debug enables the state debug endpoint and debug logging.
	Debug bool `json:"debug,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// BasePath is the URL prefix the app is deployed under ("" or "/" for
	// the root).
	BasePath string `json:"basePath,omitempty"`

	// PublicOrigin is the scheme and host clients use to reach the app.
	// Absolute links to it are treated as in-app navigation.
	PublicOrigin string `json:"publicOrigin,omitempty"`

	// TrustForwardedPrefix honors the X-Forwarded-Prefix header set by a
	// path-rewriting reverse proxy.
	TrustForwardedPrefix bool `json:"trustForwardedPrefix,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`
}

// SessionConfig contains live session settings.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a client message.
	ReadTimeout string `json:"readTimeout,omitempty"`

	// HeartbeatInterval is the time between pings.
	HeartbeatInterval string `json:"heartbeatInterval,omitempty"`

	// MaxEventQueue is the size of a session's event buffer.
	MaxEventQueue int `json:"maxEventQueue,omitempty"`

	// SubmitDelay is how long the simulated contact submission takes.
	SubmitDelay string `json:"submitDelay,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Path      string `json:"path,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// DeployConfig contains static asset upload settings.
type DeployConfig struct {
	Bucket string `json:"bucket,omitempty"`
	Region string `json:"region,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Endpoint overrides the S3 endpoint for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// CacheControl is set on uploaded objects.
	CacheControl string `json:"cacheControl,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{Name: "starter"}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is like Load but returns defaults when the directory has no
// configuration file.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, "E100") {
		return New(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'starter init' or create " + ConfigFileName + " manually")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}

	if c.Session.ReadTimeout == "" {
		c.Session.ReadTimeout = "60s"
	}
	if c.Session.HeartbeatInterval == "" {
		c.Session.HeartbeatInterval = "30s"
	}
	if c.Session.MaxEventQueue == 0 {
		c.Session.MaxEventQueue = 64
	}
	if c.Session.SubmitDelay == "" {
		c.Session.SubmitDelay = "800ms"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}

	if c.Deploy.CacheControl == "" {
		c.Deploy.CacheControl = "public, max-age=300"
	}
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("STARTER_HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := lookup("STARTER_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E102").WithDetail("STARTER_PORT=" + v + " is not a number")
		}
		c.Server.Port = port
	}
	if v, ok := lookup("STARTER_BASE_PATH"); ok {
		c.Server.BasePath = v
	}
	if v, ok := lookup("STARTER_PUBLIC_ORIGIN"); ok {
		c.Server.PublicOrigin = v
	}
	if v, ok := lookup("STARTER_DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Newf(errors.CategoryConfig, "STARTER_DEBUG=%s is not a boolean", v)
		}
		c.Debug = debug
	}
	if v, ok := lookup("STARTER_DEPLOY_BUCKET"); ok {
		c.Deploy.Bucket = v
	}
	if v, ok := lookup("STARTER_DEPLOY_REGION"); ok {
		c.Deploy.Region = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E102").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if _, err := nav.NormalizeBase(c.Server.BasePath); err != nil {
		return errors.New("E103").
			WithDetail(strconv.Quote(c.Server.BasePath) + " is not a usable base path").
			WithSuggestion(`Use a plain prefix such as "/app"`)
	}
	if _, err := c.Origin(); err != nil {
		return err
	}
	for _, d := range []struct{ name, value string }{
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"session.readTimeout", c.Session.ReadTimeout},
		{"session.heartbeatInterval", c.Session.HeartbeatInterval},
		{"session.submitDelay", c.Session.SubmitDelay},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			return errors.New("E101").
				WithDetail(d.name + " is not a duration: " + strconv.Quote(d.value)).
				WithSuggestion(`Use Go duration syntax such as "30s"`)
		}
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// BasePath returns the normalized base path, "" at the root.
func (c *Config) BasePath() string {
	base, _ := nav.NormalizeBase(c.Server.BasePath)
	return base
}

// Origin parses PublicOrigin. It returns nil when no origin is configured.
func (c *Config) Origin() (*url.URL, error) {
	if c.Server.PublicOrigin == "" {
		return nil, nil
	}
	u, err := url.Parse(c.Server.PublicOrigin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || (u.Path != "" && u.Path != "/") {
		return nil, errors.New("E104").
			WithDetail(strconv.Quote(c.Server.PublicOrigin) + " is not an origin").
			WithSuggestion(`Use a value such as "https://example.com"`)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

// ShutdownTimeout returns the parsed shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// ReadTimeout returns the parsed session read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return parseDuration(c.Session.ReadTimeout, 60*time.Second)
}

// HeartbeatInterval returns the parsed heartbeat interval.
func (c *Config) HeartbeatInterval() time.Duration {
	return parseDuration(c.Session.HeartbeatInterval, 30*time.Second)
}

// SubmitDelay returns the parsed simulated submission delay.
func (c *Config) SubmitDelay() time.Duration {
	return parseDuration(c.Session.SubmitDelay, 800*time.Millisecond)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
