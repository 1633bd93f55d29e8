package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/orderbot/internal/runtime"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit config file is given and it exists.
const DefaultPath = "orderbot.yaml"

// Config is the process configuration. It is read once at start and never mutated.
//
// Values come from, in increasing precedence: defaults, the YAML file, the environment
// (a .env file in the working directory is loaded first, without overriding real
// variables). Environment keys are the mapstructure tags.
type Config struct {
	TelegramToken string `yaml:"telegram_token" mapstructure:"TG_BOT_TOKEN"`

	CMSHost    string        `yaml:"cms_host" mapstructure:"CMS_HOST"`
	CMSToken   string        `yaml:"cms_api_token" mapstructure:"CMS_API_TOKEN"`
	CMSTimeout time.Duration `yaml:"cms_timeout" mapstructure:"CMS_TIMEOUT"`

	RedisAddr     string        `yaml:"redis_addr" mapstructure:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" mapstructure:"REDIS_DB"`
	RedisPrefix   string        `yaml:"redis_prefix" mapstructure:"REDIS_PREFIX"`
	SessionTTL    time.Duration `yaml:"session_ttl" mapstructure:"SESSION_TTL"`
	LockTTL       time.Duration `yaml:"lock_ttl" mapstructure:"LOCK_TTL"`

	// MaxInputSize caps free text accepted from users, in characters.
	MaxInputSize int `yaml:"max_input_size" mapstructure:"MAX_INPUT_SIZE"`

	HTTPAddr  string `yaml:"http_addr" mapstructure:"HTTP_ADDR"`
	LogLevel  string `yaml:"log_level" mapstructure:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" mapstructure:"LOG_FORMAT"`

	// Messages overrides user-facing texts. File only.
	Messages runtime.Texts `yaml:"messages" mapstructure:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		CMSTimeout:   10 * time.Second,
		RedisAddr:    "localhost:6379",
		RedisPrefix:  "orderbot:",
		LockTTL:      30 * time.Second,
		MaxInputSize: domain.MaxMessageLength,
		HTTPAddr:     ":8080",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load builds the configuration. An empty path reads DefaultPath if present;
// an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			file = DefaultPath
		}
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", file, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.Messages = cfg.Messages.Merge(runtime.DefaultTexts())
	return cfg, nil
}

// applyEnv overlays the variables that are set onto cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	values := make(map[string]interface{})
	t := reflect.TypeOf(*cfg)
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("mapstructure")
		if key == "" || key == "-" {
			continue
		}
		if v, ok := lookup(key); ok {
			values[key] = strings.TrimSpace(v)
		}
	}
	if len(values) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Requirements names the collaborators a command needs.
type Requirements struct {
	Telegram bool
	CMS      bool
	Redis    bool
}

// Validate reports every missing or invalid value for req.
func (c Config) Validate(req Requirements) error {
	var errs []error
	if req.Telegram && c.TelegramToken == "" {
		errs = append(errs, errors.New("config: TG_BOT_TOKEN is required"))
	}
	if req.CMS {
		if c.CMSHost == "" {
			errs = append(errs, errors.New("config: CMS_HOST is required"))
		}
		if c.CMSToken == "" {
			errs = append(errs, errors.New("config: CMS_API_TOKEN is required"))
		}
	}
	if req.Redis && c.RedisAddr == "" {
		errs = append(errs, errors.New("config: REDIS_ADDR is required"))
	}
	if c.CMSTimeout <= 0 {
		errs = append(errs, fmt.Errorf("config: CMS_TIMEOUT must be positive, got %s", c.CMSTimeout))
	}
	if c.SessionTTL < 0 || c.LockTTL < 0 {
		errs = append(errs, errors.New("config: SESSION_TTL and LOCK_TTL must not be negative"))
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, fmt.Errorf("config: MAX_INPUT_SIZE must be positive, got %d", c.MaxInputSize))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
