package config

import (
	"flag"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"derisk/app/storage/database"
	"derisk/pkg/log"
)

const (
	defaultConfigPath = "./configs/config.yaml"

	defaultRestAddr        = ":8000"
	defaultMigrationsTable = "derisk_schema_migrations"
	defaultSessionFile     = ".derisk-session.json"
	defaultConnectTimeout  = 2 * time.Second
	defaultCheckInterval   = time.Minute
	defaultNotifyCooldown  = time.Hour
)

// WalletProvider describes one wallet extension the dashboard can connect
// through.
type WalletProvider struct {
	ID             string `mapstructure:"id"`
	NodeUrl        string `mapstructure:"nodeUrl"`
	AccountAddress string `mapstructure:"accountAddress"`
}

type Wallet struct {
	Providers      []WalletProvider `mapstructure:"providers"`
	SessionFile    string           `mapstructure:"sessionFile"`
	ConnectTimeout time.Duration    `mapstructure:"connectTimeout"`
}

func (w *Wallet) Validate() error {
	if len(w.Providers) == 0 {
		return errors.New("you must provide at least one wallet provider in a config")
	}
	for _, p := range w.Providers {
		if p.ID == "" {
			return errors.New("you must provide an id for every wallet provider")
		}
		if p.NodeUrl == "" {
			return errors.Errorf("you must provide a node url for wallet provider %q", p.ID)
		}
	}
	return nil
}

type Backend struct {
	BasePath string `mapstructure:"basePath"`
	ApiKey   string `mapstructure:"apiKey"`
}

func (b *Backend) Validate() error {
	if b.BasePath == "" {
		return errors.New("you must provide a base path for the dashboard backend")
	}
	return nil
}

type Watcher struct {
	ProtocolIDs    []string      `mapstructure:"protocolIds"`
	TelegramBot    string        `mapstructure:"telegramBot"`
	HealthEndpoint string        `mapstructure:"healthEndpoint"`
	CheckInterval  time.Duration `mapstructure:"checkInterval"`
	NotifyCooldown time.Duration `mapstructure:"notifyCooldown"`
}

func (w *Watcher) Validate() error {
	if len(w.ProtocolIDs) == 0 {
		return errors.New("you must provide protocol ids in a config")
	}

	if w.TelegramBot == "" {
		return errors.New("you must provide a telegram bot name in a config")
	}

	if w.HealthEndpoint == "" {
		return errors.New("you must provide a health ratio endpoint in a config")
	}

	return nil
}

type Secrets struct {
	API   string `mapstructure:"api"`
	Token string `mapstructure:"token"`
}

func (s *Secrets) Validate() error {
	if s.API == "" || s.Token == "" {
		return errors.New("you must provide secrets in a config")
	}
	return nil
}

type Config struct {
	RestAddr string          `mapstructure:"restAddr"`
	Wallet   Wallet          `mapstructure:"wallet"`
	Backend  Backend         `mapstructure:"backend"`
	Watcher  Watcher         `mapstructure:"watcher"`
	Secrets  Secrets         `mapstructure:"secrets"`
	Database database.Config `mapstructure:"database"`
	Logging  log.Config      `mapstructure:"log"`
}

func parse(validate func(*Config) error) (*Config, error) {
	configPath := flag.String("config", defaultConfigPath, "configuration file path")
	flag.Parse()

	// set reasonable defaults
	viper.SetDefault("restAddr", defaultRestAddr)
	viper.SetDefault("database.migrationsTable", defaultMigrationsTable)
	viper.SetDefault("wallet.sessionFile", defaultSessionFile)
	viper.SetDefault("wallet.connectTimeout", defaultConnectTimeout)
	viper.SetDefault("watcher.checkInterval", defaultCheckInterval)
	viper.SetDefault("watcher.notifyCooldown", defaultNotifyCooldown)

	// read a config file
	viper.SetConfigFile(*configPath)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed to read a file")
	}

	// unmarshal to a config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal a config")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseServer reads and validates the sections the backend server needs.
func ParseServer() (*Config, error) {
	return parse(func(cfg *Config) error {
		if err := cfg.Watcher.Validate(); err != nil {
			return err
		}
		return cfg.Secrets.Validate()
	})
}

// ParseDashboard reads and validates the sections the dashboard client needs.
func ParseDashboard() (*Config, error) {
	return parse(func(cfg *Config) error {
		if err := cfg.Wallet.Validate(); err != nil {
			return err
		}
		return cfg.Backend.Validate()
	})
}
