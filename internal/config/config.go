package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		TLSCertFile        string        `yaml:"tls_cert_file"`
		TLSKeyFile         string        `yaml:"tls_key_file"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	// Directory es la base principal: tabla applications + usuarios para /health.
	Directory struct {
		DSN               string `yaml:"dsn"`
		MaxConns          int32  `yaml:"max_conns"`
		ApplicationsTable string `yaml:"applications_table"`
		UsersTable        string `yaml:"users_table"`
	} `yaml:"directory"`

	Client struct {
		// JWTSecret firma los client tokens. Vacío => falla en el primer uso.
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"client"`

	Register struct {
		// NoConfirmationEmail se mapea a email_confirm del provider.
		// Solo "true" o "false" son válidos; se valida en el primer uso.
		NoConfirmationEmail string `yaml:"no_confirmation_email"`
	} `yaml:"register"`

	Auth struct {
		// StrictProfileProvisioning: si true, un fallo al crear el perfil
		// en el primer login hace fallar el login (500).
		StrictProfileProvisioning bool `yaml:"strict_profile_provisioning"`
	} `yaml:"auth"`

	Provider struct {
		Timeout       time.Duration `yaml:"timeout"`
		ProfilesTable string        `yaml:"profiles_table"`
		MaxRetries    uint          `yaml:"max_retries"`
	} `yaml:"provider"`

	Rate struct {
		Enabled     bool          `yaml:"enabled"`
		Backend     string        `yaml:"backend"` // memory | redis
		Window      time.Duration `yaml:"window"`
		MaxRequests int           `yaml:"max_requests"`
	} `yaml:"rate"`

	Redis struct {
		Addr   string `yaml:"addr"`
		DB     int    `yaml:"db"`
		Prefix string `yaml:"prefix"`
	} `yaml:"redis"`
}

// Load lee el YAML (opcional: path vacío o inexistente se ignora),
// aplica defaults, pisa con variables de entorno y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// sin archivo: solo env
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Directory.MaxConns == 0 {
		c.Directory.MaxConns = 10
	}
	if c.Directory.ApplicationsTable == "" {
		c.Directory.ApplicationsTable = "applications"
	}
	if c.Directory.UsersTable == "" {
		c.Directory.UsersTable = "auth.users"
	}
	if c.Client.TokenTTL == 0 {
		c.Client.TokenTTL = time.Hour
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 5 * time.Second
	}
	if c.Provider.ProfilesTable == "" {
		c.Provider.ProfilesTable = "profiles"
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = 3
	}
	if c.Rate.Backend == "" {
		c.Rate.Backend = "memory"
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 60
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "relay:rl:"
	}
}

// Validate chequea formato. Los secretos ausentes NO se validan acá:
// fallan ruidosamente en el primer uso (500), sin default silencioso.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Directory.DSN) == "" {
		return errors.New("config: directory.dsn (DIRECTORY_DSN) is required")
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return errors.New("config: server.tls_cert_file and server.tls_key_file must be set together")
	}
	if c.Client.TokenTTL < 0 || c.Provider.Timeout < 0 || c.Rate.Window < 0 {
		return errors.New("config: durations must be positive")
	}
	switch c.Rate.Backend {
	case "memory":
	case "redis":
		if c.Rate.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("config: rate.backend=redis requires redis.addr (REDIS_ADDR)")
		}
	default:
		return fmt.Errorf("config: unknown rate.backend %q", c.Rate.Backend)
	}
	return nil
}

// TLSEnabled indica si el server debe servir HTTPS.
func (c *Config) TLSEnabled() bool {
	return c.Server.TLSCertFile != "" && c.Server.TLSKeyFile != ""
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvStr("SERVER_TLS_CERT_FILE"); ok {
		c.Server.TLSCertFile = v
	}
	if v, ok := getEnvStr("SERVER_TLS_KEY_FILE"); ok {
		c.Server.TLSKeyFile = v
	}

	// DIRECTORY
	if v, ok := getEnvStr("DIRECTORY_DSN"); ok {
		c.Directory.DSN = v
	}
	if v, ok := getEnvInt("DIRECTORY_MAX_CONNS"); ok {
		c.Directory.MaxConns = int32(v)
	}
	if v, ok := getEnvStr("DIRECTORY_USERS_TABLE"); ok {
		c.Directory.UsersTable = v
	}

	// CLIENT TOKENS
	if v, ok := getEnvStr("CLIENT_JWT_SECRET"); ok {
		c.Client.JWTSecret = v
	}
	if v, ok := getEnvDur("CLIENT_TOKEN_TTL"); ok {
		c.Client.TokenTTL = v
	}

	// REGISTER: se guarda crudo, la validación estricta es en el primer uso
	if v, ok := os.LookupEnv("REGISTER_NO_CONFIRMATION_EMAIL"); ok {
		c.Register.NoConfirmationEmail = v
	}

	// AUTH
	if v, ok := getEnvBool("AUTH_STRICT_PROFILE_PROVISIONING"); ok {
		c.Auth.StrictProfileProvisioning = v
	}

	// PROVIDER
	if v, ok := getEnvDur("PROVIDER_TIMEOUT"); ok {
		c.Provider.Timeout = v
	}
	if v, ok := getEnvStr("PROVIDER_PROFILES_TABLE"); ok {
		c.Provider.ProfilesTable = v
	}
	if v, ok := getEnvInt("PROVIDER_MAX_RETRIES"); ok && v > 0 {
		c.Provider.MaxRetries = uint(v)
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("RATE_BACKEND"); ok {
		c.Rate.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvDur("RATE_WINDOW"); ok {
		c.Rate.Window = v
	}
	if v, ok := getEnvInt("RATE_MAX_REQUESTS"); ok {
		c.Rate.MaxRequests = v
	}

	// REDIS
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Redis.Prefix = v
	}
}
