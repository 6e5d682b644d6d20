// Ininicializing common application configuration
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	PredictHQ PredictHQConfig `mapstructure:"predicthq"`
	App       AppConfig       `mapstructure:"app"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

type ServerConfig struct {
	AppVersion   string        `mapstructure:"app_version"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Idle_timeout time.Duration `mapstructure:"idle_timeout"`
	Env          string        `mapstructure:"environment"`
	Mode         string        `mapstructure:"mode"`
	LogLevel     string        `mapstructure:"log_level"`
}

type PredictHQConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`

	// defaults applied to the dashboard refresh
	Country  string `mapstructure:"country"`
	Category string `mapstructure:"category"`
	Limit    string `mapstructure:"limit"`
}

type AppConfig struct {
	Timezone        string        `mapstructure:"timezone"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	StoragePath     string        `mapstructure:"storage_path"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()
	setDefaults(viperInstance)

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()
	_ = viperInstance.BindEnv("predicthq.api_token", "PREDICTHQ_API_TOKEN")

	err := viperInstance.ReadInConfig()

	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetServerAddress returns host:port for the HTTP listener.
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Location resolves app.timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.log_level", "info")

	v.SetDefault("predicthq.base_url", "https://api.predicthq.com")
	v.SetDefault("predicthq.api_token", "")
	v.SetDefault("predicthq.timeout", 15*time.Second)
	v.SetDefault("predicthq.country", "IT")
	v.SetDefault("predicthq.category", "concerts")
	v.SetDefault("predicthq.limit", "10")

	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("app.session_ttl", 2*time.Hour)
	v.SetDefault("app.cleanup_interval", 5*time.Minute)
	v.SetDefault("app.storage_path", "./storage")
	v.SetDefault("app.request_timeout", 30*time.Second)
	v.SetDefault("app.max_upload_bytes", 8<<20)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9094")
	v.SetDefault("kafka.topic", "license-audit")
}
