package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

type api struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type storage struct {
	Path string `mapstructure:"path"`
}

type catalog struct {
	PageSize  int           `mapstructure:"page_size"`
	StaleTime time.Duration `mapstructure:"stale_time"`
	GCTime    time.Duration `mapstructure:"gc_time"`
}

type topics struct {
	ClientEvents string `mapstructure:"client_events"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	TLS                tlsFiles `mapstructure:"tls"`
}

type Config struct {
	LogLevel slog.Level `mapstructure:"log_level"`
	LogFile  string     `mapstructure:"log_file"`
	API      api        `mapstructure:"api"`
	Storage  storage    `mapstructure:"storage"`
	Catalog  catalog    `mapstructure:"catalog"`
	Broker   broker     `mapstructure:"broker"`
}

// EventsEnabled reports whether search events are produced.
func (c Config) EventsEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0
}

func (c Config) TLSEnabled() bool {
	return c.Broker.TLS.CA != ""
}

// Load reads the config file given by the --config flag or the
// STOREFRONT_CONFIG_FILE env and exits the process on failure.
// A .env file in the working directory is loaded first.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		die(err)
	}

	cfg, err := LoadFrom(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFrom reads the config file at path over the defaults. An empty path
// means defaults and env only. Env variables override the file, e.g.
// STOREFRONT_API_BASE_URL overrides api.base_url.
func LoadFrom(path string) (Config, error) {
	const op = "config.LoadFrom"

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "storefront.log")
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("storage.path", "storefront.db")
	v.SetDefault("catalog.page_size", 12)
	v.SetDefault("catalog.stale_time", time.Duration(0))
	v.SetDefault("catalog.gc_time", 5*time.Minute)
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.client_events", "client-events")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
}

func (c Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Storage.Path == "" {
		return errors.New("storage.path is required")
	}
	if c.Catalog.PageSize <= 0 {
		return errors.New("catalog.page_size must be positive")
	}
	if c.Catalog.StaleTime < 0 || c.Catalog.GCTime < 0 {
		return errors.New("catalog durations must not be negative")
	}
	if c.EventsEnabled() {
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			return errors.New("broker.schema_registry_urls is required with seed brokers")
		}
		if c.Broker.Topics.ClientEvents == "" {
			return errors.New("broker.topics.client_events is required with seed brokers")
		}
	}
	return nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("log_level", c.LogLevel.String()),
		slog.String("log_file", c.LogFile),
		slog.Group("api",
			slog.String("base_url", c.API.BaseURL),
			slog.Duration("timeout", c.API.Timeout),
		),
		slog.String("storage_path", c.Storage.Path),
		slog.Group("catalog",
			slog.Int("page_size", c.Catalog.PageSize),
			slog.Duration("stale_time", c.Catalog.StaleTime),
			slog.Duration("gc_time", c.Catalog.GCTime),
		),
		slog.Group("broker",
			slog.Any("seed_brokers", c.Broker.SeedBrokers),
			slog.Any("schema_registry_urls", c.Broker.SchemaRegistryURLs),
			slog.String("client_events_topic", c.Broker.Topics.ClientEvents),
			slog.Bool("tls", c.TLSEnabled()),
		),
	)
}
