package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	UserService         = "user-service"
	AuthService         = "auth-service"
	NotificationService = "notification-service"
)

// DefaultSecret signs tokens when SECRET_KEY is unset. Development only.
const DefaultSecret = "change-me"

type Config struct {
	Service   string          `mapstructure:"service"`
	Server    ServerConfig    `mapstructure:"server"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	Host           string   `mapstructure:"host"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type AuthConfig struct {
	ServiceURL   string        `mapstructure:"service_url"`
	Secret       string        `mapstructure:"secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	RequireToken bool          `mapstructure:"require_token"`
	BcryptCost   int           `mapstructure:"bcrypt_cost"`
	Timeout      time.Duration `mapstructure:"timeout"`
	LoginRate    float64       `mapstructure:"login_rate"`
	LoginBurst   int           `mapstructure:"login_burst"`
}

type NotifierConfig struct {
	URL            string        `mapstructure:"url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	HealthInterval time.Duration `mapstructure:"health_interval"`
}

type WebSocketConfig struct {
	Path             string        `mapstructure:"path"`
	ReadBufferSize   int           `mapstructure:"read_buffer_size"`
	WriteBufferSize  int           `mapstructure:"write_buffer_size"`
	WriteWait        time.Duration `mapstructure:"write_wait"`
	PongWait         time.Duration `mapstructure:"pong_wait"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	MaxMessageSize   int64         `mapstructure:"max_message_size"`
	BroadcastWorkers int           `mapstructure:"broadcast_workers"`
	QueueSize        int           `mapstructure:"queue_size"`
	IngressRate      float64       `mapstructure:"ingress_rate"`
	IngressBurst     int           `mapstructure:"ingress_burst"`
	StatsInterval    time.Duration `mapstructure:"stats_interval"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var defaultPorts = map[string]int{
	UserService:         8000,
	AuthService:         8001,
	NotificationService: 8080,
}

var defaultDatabases = map[string]string{
	UserService: "users_db",
	AuthService: "auth_db",
}

// Load reads configuration for the named service from defaults, an optional
// config.yaml and the environment, in increasing order of precedence.
func Load(service string) (*Config, error) {
	return load(viper.New(), service)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(service, configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	return load(v, service)
}

func load(v *viper.Viper, service string) (*Config, error) {
	port, ok := defaultPorts[service]
	if !ok {
		return nil, fmt.Errorf("unknown service %q", service)
	}
	setDefaults(v, service, port)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/user-notification-system/")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment variable names used by the deployment manifests
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("mysql.dsn", "MYSQL_DSN")
	_ = v.BindEnv("redis.address", "REDIS_ADDRESS")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("auth.service_url", "AUTH_SERVICE_URL")
	_ = v.BindEnv("auth.secret", "SECRET_KEY")
	_ = v.BindEnv("notifier.url", "WEBSOCKET_SERVER_URL")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	// Read configuration file (optional - will use defaults/env vars if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper, service string, port int) {
	v.SetDefault("service", service)
	v.SetDefault("server.port", port)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:8000"})

	if db, ok := defaultDatabases[service]; ok {
		v.SetDefault("mysql.dsn", fmt.Sprintf("app_user:app_pass@tcp(localhost:3306)/%s?parseTime=true", db))
	}
	v.SetDefault("mysql.max_open_conns", 25)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 5*time.Minute)

	v.SetDefault("auth.service_url", "http://localhost:8001")
	v.SetDefault("auth.secret", DefaultSecret)
	v.SetDefault("auth.token_ttl", 30*time.Minute)
	v.SetDefault("auth.require_token", false)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.timeout", 5*time.Second)
	v.SetDefault("auth.login_rate", 5.0)
	v.SetDefault("auth.login_burst", 10)

	v.SetDefault("notifier.url", "http://localhost:8080")
	v.SetDefault("notifier.timeout", 5*time.Second)
	v.SetDefault("notifier.health_interval", 30*time.Second)

	v.SetDefault("websocket.path", "/ws/users")
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.write_wait", 10*time.Second)
	v.SetDefault("websocket.pong_wait", 60*time.Second)
	v.SetDefault("websocket.ping_period", 54*time.Second)
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.broadcast_workers", 32)
	v.SetDefault("websocket.queue_size", 256)
	v.SetDefault("websocket.ingress_rate", 50.0)
	v.SetDefault("websocket.ingress_burst", 100)
	v.SetDefault("websocket.stats_interval", time.Minute)

	v.SetDefault("log.level", "info")
}

// Validate checks the invariants the services rely on at startup.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	durations := []struct {
		key   string
		value time.Duration
	}{
		{"notifier.timeout", c.Notifier.Timeout},
		{"notifier.health_interval", c.Notifier.HealthInterval},
		{"websocket.write_wait", c.WebSocket.WriteWait},
		{"websocket.pong_wait", c.WebSocket.PongWait},
		{"websocket.ping_period", c.WebSocket.PingPeriod},
		{"websocket.stats_interval", c.WebSocket.StatsInterval},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.value)
		}
	}

	if c.WebSocket.PingPeriod >= c.WebSocket.PongWait {
		return fmt.Errorf("websocket.ping_period (%s) must be shorter than websocket.pong_wait (%s)",
			c.WebSocket.PingPeriod, c.WebSocket.PongWait)
	}
	if c.WebSocket.BroadcastWorkers <= 0 {
		return fmt.Errorf("websocket.broadcast_workers must be positive")
	}
	if c.WebSocket.QueueSize <= 0 {
		return fmt.Errorf("websocket.queue_size must be positive")
	}
	if c.Auth.RequireToken && c.UsesDefaultSecret() {
		return fmt.Errorf("auth.require_token is set but auth.secret is the built-in default; set SECRET_KEY")
	}
	return nil
}

// UsesDefaultSecret reports whether tokens would be signed with the built-in
// development secret.
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.Secret == "" || c.Auth.Secret == DefaultSecret
}

// Address returns the host:port the HTTP server binds to.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetConfigString returns a formatted string representation of the config
func (c *Config) GetConfigString() string {
	return fmt.Sprintf(
		"Service: %s, Server: %s:%d, Redis: %s, Notifier: %s, AuthService: %s",
		c.Service,
		c.Server.Host,
		c.Server.Port,
		c.Redis.Address,
		c.Notifier.URL,
		c.Auth.ServiceURL,
	)
}
