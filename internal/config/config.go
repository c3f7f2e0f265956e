// Package config loads service settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrConfiguration = errors.New("configuration error")

type Config struct {
	Port           string `mapstructure:"port" validate:"required,numeric"`
	Environment    string `mapstructure:"environment" validate:"required"`
	UseMemoryStore bool   `mapstructure:"use_memory_store"`
	// TestUserChatID is the default target for the send diagnostic.
	TestUserChatID string `mapstructure:"test_user_chat_id"`

	Log         LogConfig         `mapstructure:"log"`
	Channel     ChannelConfig     `mapstructure:"channel"`
	DB          DBConfig          `mapstructure:"db"`
	Redis       RedisConfig       `mapstructure:"redis"`
	ChannelTalk ChannelTalkConfig `mapstructure:"channeltalk"`
	Admin       AdminConfig       `mapstructure:"admin"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

type ChannelConfig struct {
	// Debug logs raw webhook bodies and extracted fields.
	Debug bool `mapstructure:"debug"`
}

type DBConfig struct {
	URL     string `mapstructure:"url"`
	Host    string `mapstructure:"host" validate:"required_without=URL"`
	Port    int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	Name    string `mapstructure:"name" validate:"required_without=URL"`
	User    string `mapstructure:"user"`
	Pass    string `mapstructure:"pass"`
	SSLMode string `mapstructure:"sslmode"`
}

// DSN returns URL when set, otherwise a key/value DSN built from the parts.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Pass, c.Name, c.SSLMode)
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type ChannelTalkConfig struct {
	APIBase               string        `mapstructure:"api_base" validate:"required,url"`
	AccessKey             string        `mapstructure:"access_key"`
	AccessSecret          string        `mapstructure:"access_secret"`
	BotName               string        `mapstructure:"bot_name" validate:"required"`
	WebhookSecret         string        `mapstructure:"webhook_secret"`
	WebhookToken          string        `mapstructure:"webhook_token"`
	Timeout               time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RetryOnTransportError bool          `mapstructure:"retry_on_transport_error"`
	// RateLimit is requests per second for outbound calls; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=0"`
}

type AdminConfig struct {
	// Token guards the /admin routes; they are not mounted when empty.
	Token string `mapstructure:"token"`
}

// Load reads an optional .env file, then the environment, over defaults.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}
	cfg.ChannelTalk.APIBase = strings.TrimRight(cfg.ChannelTalk.APIBase, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if _, err := url.Parse(c.Redis.URL); err != nil {
		return fmt.Errorf("redis.url: %w", err)
	}
	return nil
}

// AutomaticEnv only resolves keys viper already knows, so every key gets a
// default here, even an empty one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("use_memory_store", false)
	v.SetDefault("test_user_chat_id", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("channel.debug", false)

	v.SetDefault("db.url", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "channel")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("redis.url", "")

	v.SetDefault("channeltalk.api_base", "https://api.channel.io/open/v5")
	v.SetDefault("channeltalk.access_key", "")
	v.SetDefault("channeltalk.access_secret", "")
	v.SetDefault("channeltalk.bot_name", "EventOK")
	v.SetDefault("channeltalk.webhook_secret", "")
	v.SetDefault("channeltalk.webhook_token", "")
	v.SetDefault("channeltalk.timeout", 10*time.Second)
	v.SetDefault("channeltalk.retry_on_transport_error", true)
	v.SetDefault("channeltalk.rate_limit", 5.0)
	v.SetDefault("channeltalk.rate_burst", 5)

	v.SetDefault("admin.token", "")
}
