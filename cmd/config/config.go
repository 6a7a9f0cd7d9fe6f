package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix  = "gaitbase"
	configName = "gaitbase"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

// LoadConfig reads the process wide configuration once. The file given in
// GAITBASE_CONFIG wins over the search path.
func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		opts := Options{
			File:        os.Getenv("GAITBASE_CONFIG"),
			SearchPaths: []string{"config", "/config"},
		}
		if dir, err := os.UserConfigDir(); err == nil {
			userDir := filepath.Join(dir, configName)
			opts.SearchPaths = append(opts.SearchPaths, userDir)
			opts.UserFile = filepath.Join(userDir, configName+".yaml")
		}

		cfg, err := Load(viper.GetViper(), opts)
		if err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = cfg
	})

	return configInstance
}

type Options struct {
	// File is an explicit config file; it must exist.
	File        string
	SearchPaths []string
	// UserFile receives the defaults when no config file is found.
	UserFile string
}

func Load(v *viper.Viper, opts Options) (AppConfig, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		for _, path := range opts.SearchPaths {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("reading config: %w", err)
		}
		writeUserConfig(v, opts.UserFile)
	} else {
		slog.Debug("config file loaded", slog.String("path", v.ConfigFileUsed()))
	}

	var replacements []Replacement
	if err := v.UnmarshalKey("report.replacements", &replacements); err != nil {
		return AppConfig{}, fmt.Errorf("reading report.replacements: %w", err)
	}

	return AppConfig{
		General: GeneralConfig{
			LogLevel: v.GetString("general.log_level"),
		},
		Database: DatabaseConfig{
			Driver:  v.GetString("database.driver"),
			Path:    v.GetString("database.path"),
			DSN:     v.GetString("database.dsn"),
			Timeout: v.GetDuration("database.timeout"),
		},
		HTTP: HTTPConfig{
			Addr:           v.GetString("http.addr"),
			AllowedOrigins: v.GetStringSlice("http.allowed_origins"),
		},
		Cache: CacheConfig{
			Driver:   v.GetString("cache.driver"),
			Addr:     v.GetString("cache.addr"),
			Password: v.GetString("cache.password"),
			DB:       v.GetInt("cache.db"),
			TTL:      v.GetDuration("cache.ttl"),
		},
		Catalogue: CatalogueConfig{
			Path: v.GetString("catalogue.path"),
		},
		Report: ReportConfig{
			Template:     v.GetString("report.template"),
			Replacements: replacementMap(replacements),
			Units:        v.GetBool("report.units"),
		},
		Backup: BackupConfig{
			Dir:      v.GetString("backup.dir"),
			Format:   v.GetString("backup.format"),
			Schedule: v.GetString("backup.schedule"),
		},
		OTel: OTelConfig{
			Enabled:  v.GetBool("otel.enabled"),
			Endpoint: v.GetString("otel.endpoint"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "gaitbase.db")
	v.SetDefault("database.timeout", 5*time.Second)
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("report.replacements", []map[string]string{{"from": "Ei mitattu", "to": "-"}})
	v.SetDefault("report.units", true)
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.format", "json")
	v.SetDefault("otel.endpoint", "localhost:4317")
}

// Replacement rewrites a raw value before it goes into a report. Kept as a
// list because viper lowercases map keys.
type Replacement struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

func replacementMap(list []Replacement) map[string]string {
	m := make(map[string]string, len(list))
	for _, r := range list {
		m[r.From] = r.To
	}
	return m
}

// writeUserConfig leaves a file with the defaults for the user to edit. A
// failure only costs the convenience.
func writeUserConfig(v *viper.Viper, path string) {
	if path == "" {
		return
	}
	slog.Warn("no config file, creating one", slog.String("path", path))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		slog.Warn("creating config directory", slog.Any("error", err))
		return
	}
	if err := v.SafeWriteConfigAs(path); err != nil {
		slog.Warn("writing config file", slog.Any("error", err))
	}
}

type AppConfig struct {
	General   GeneralConfig
	Database  DatabaseConfig
	HTTP      HTTPConfig
	Cache     CacheConfig
	Catalogue CatalogueConfig
	Report    ReportConfig
	Backup    BackupConfig
	OTel      OTelConfig
}

type GeneralConfig struct {
	LogLevel string
}

// DatabaseConfig selects the row store: "sqlite" (Path), "postgres" (DSN) or
// "memory".
type DatabaseConfig struct {
	Driver  string
	Path    string
	DSN     string
	Timeout time.Duration
}

type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

// CacheConfig selects where patient identities are cached: "memory",
// "redis" or "none".
type CacheConfig struct {
	Driver   string
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type CatalogueConfig struct {
	Path string
}

type ReportConfig struct {
	Template     string
	Replacements map[string]string
	Units        bool
}

// BackupConfig.Schedule is a cron expression; empty disables the worker.
type BackupConfig struct {
	Dir      string
	Format   string
	Schedule string
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
}
