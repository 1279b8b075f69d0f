package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

const envPrefix = "DRAFTWISE"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	Log        LogConfig
	CORS       CORSConfig
	Model      ModelConfig
	Extraction ExtractionConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds settings for a single text model provider.
type ProviderConfig struct {
	Provider          string `mapstructure:"provider"`
	APIKey            string `mapstructure:"api_key"`
	DefaultModel      string `mapstructure:"default_model"`
	MaxRetries        int    `mapstructure:"max_retries"`
	TimeoutSecs       int    `mapstructure:"timeout_secs"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	BaseURL           string `mapstructure:"base_url"`
}

// ModelConfig holds text model settings. The flat fields configure a single
// provider; Primary, Secondary and Tertiary form a fallback chain.
type ModelConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
	Tertiary  ProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to the flat fields.
func (m *ModelConfig) PrimaryConfig() *ProviderConfig {
	if m.Primary.Provider != "" {
		return &m.Primary
	}
	return &ProviderConfig{
		Provider:     m.Provider,
		APIKey:       m.APIKey,
		DefaultModel: m.DefaultModel,
		MaxRetries:   m.MaxRetries,
		TimeoutSecs:  m.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (m *ModelConfig) SecondaryConfig() *ProviderConfig {
	if m.Secondary.Provider != "" {
		return &m.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (m *ModelConfig) TertiaryConfig() *ProviderConfig {
	if m.Tertiary.Provider != "" {
		return &m.Tertiary
	}
	return nil
}

// Chain returns the configured providers in fallback order.
func (m *ModelConfig) Chain() []*ProviderConfig {
	chain := []*ProviderConfig{m.PrimaryConfig()}
	if s := m.SecondaryConfig(); s != nil {
		chain = append(chain, s)
	}
	if t := m.TertiaryConfig(); t != nil {
		chain = append(chain, t)
	}
	return chain
}

// ExtractionConfig tunes extraction and entity resolution.
type ExtractionConfig struct {
	ModelTimeout  time.Duration `mapstructure:"model_timeout"`
	ClientHigh    float64       `mapstructure:"client_high"`
	ClientMedium  float64       `mapstructure:"client_medium"`
	ProductHigh   float64       `mapstructure:"product_high"`
	ProductMedium float64       `mapstructure:"product_medium"`
	TopN          int           `mapstructure:"top_n"`

	// Clarification sessions idle longer than SessionTTL are dropped.
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds database connection settings. Driver is "pgx" or "sqlite";
// Path is only used by sqlite.
type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the connection string for the configured driver.
func (d *DBConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds bearer token verification settings.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var providerSlots = []string{"primary", "secondary", "tertiary"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.environment", "development")

	v.SetDefault("db.driver", "pgx")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "draftwise")
	v.SetDefault("db.password", "draftwise_secret")
	v.SetDefault("db.name", "draftwise_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "draftwise.db")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "draftwise")

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("model.provider", "claude")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.default_model", "claude-sonnet-4-5")
	v.SetDefault("model.max_retries", 2)
	v.SetDefault("model.timeout_secs", 60)
	for _, slot := range providerSlots {
		prefix := "model." + slot + "."
		v.SetDefault(prefix+"provider", "")
		v.SetDefault(prefix+"api_key", "")
		v.SetDefault(prefix+"default_model", "")
		v.SetDefault(prefix+"max_retries", 2)
		v.SetDefault(prefix+"timeout_secs", 60)
		v.SetDefault(prefix+"requests_per_minute", 0)
		v.SetDefault(prefix+"base_url", "")
	}

	v.SetDefault("extraction.model_timeout", "60s")
	v.SetDefault("extraction.client_high", 8.0)
	v.SetDefault("extraction.client_medium", 4.0)
	v.SetDefault("extraction.product_high", 3.0)
	v.SetDefault("extraction.product_medium", 1.5)
	v.SetDefault("extraction.top_n", 3)
	v.SetDefault("extraction.session_ttl", "1h")
	v.SetDefault("extraction.sweep_interval", "5m")
}

// bindEnv binds every known key to DRAFTWISE_<SECTION>_<KEY> so nested keys
// resolve from the environment even without a config file.
func bindEnv(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env)
	}
}

// Load reads configuration from an optional YAML file named by
// DRAFTWISE_CONFIG_FILE and from environment variables with the DRAFTWISE_
// prefix. Environment variables win.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	if path := os.Getenv(envPrefix + "_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, eris.Wrapf(err, "config: read %s", path)
		}
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it unless DRAFTWISE_SERVER_PORT is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envPrefix+"_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Driver:   v.GetString("db.driver"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		Path:     v.GetString("db.path"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("cors.allowed_origins"))}

	cfg.Model = ModelConfig{
		Provider:     v.GetString("model.provider"),
		APIKey:       v.GetString("model.api_key"),
		DefaultModel: v.GetString("model.default_model"),
		MaxRetries:   v.GetInt("model.max_retries"),
		TimeoutSecs:  v.GetInt("model.timeout_secs"),
		Primary:      providerConfig(v, "model.primary"),
		Secondary:    providerConfig(v, "model.secondary"),
		Tertiary:     providerConfig(v, "model.tertiary"),
	}

	cfg.Extraction = ExtractionConfig{
		ModelTimeout:  v.GetDuration("extraction.model_timeout"),
		ClientHigh:    v.GetFloat64("extraction.client_high"),
		ClientMedium:  v.GetFloat64("extraction.client_medium"),
		ProductHigh:   v.GetFloat64("extraction.product_high"),
		ProductMedium: v.GetFloat64("extraction.product_medium"),
		TopN:          v.GetInt("extraction.top_n"),
		SessionTTL:    v.GetDuration("extraction.session_ttl"),
		SweepInterval: v.GetDuration("extraction.sweep_interval"),
	}

	if cfg.DB.Driver != "pgx" && cfg.DB.Driver != "sqlite" {
		return nil, eris.Errorf("config: unsupported db driver %q", cfg.DB.Driver)
	}
	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		Provider:          v.GetString(prefix + ".provider"),
		APIKey:            v.GetString(prefix + ".api_key"),
		DefaultModel:      v.GetString(prefix + ".default_model"),
		MaxRetries:        v.GetInt(prefix + ".max_retries"),
		TimeoutSecs:       v.GetInt(prefix + ".timeout_secs"),
		RequestsPerMinute: v.GetInt(prefix + ".requests_per_minute"),
		BaseURL:           v.GetString(prefix + ".base_url"),
	}
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
