package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Scorer  ScorerConfig  `yaml:"scorer" mapstructure:"scorer"`
	Planner PlannerConfig `yaml:"planner" mapstructure:"planner"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CatalogConfig locates the recipe spreadsheet.
type CatalogConfig struct {
	Path  string `yaml:"path" mapstructure:"path"`
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
}

// HistoryConfig configures the meal history backend.
type HistoryConfig struct {
	Driver         string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL    string `yaml:"database_url" mapstructure:"database_url"`
	RetentionWeeks int    `yaml:"retention_weeks" mapstructure:"retention_weeks"`
}

// ScorerConfig holds the per-dimension dissimilarity weights and the
// recency decay applied per week of distance. Weights should sum to 1.
type ScorerConfig struct {
	ProteinWeight float64 `yaml:"protein_weight" mapstructure:"protein_weight"`
	StarchWeight  float64 `yaml:"starch_weight" mapstructure:"starch_weight"`
	CuisineWeight float64 `yaml:"cuisine_weight" mapstructure:"cuisine_weight"`
	FormWeight    float64 `yaml:"form_weight" mapstructure:"form_weight"`
	RecencyDecay  float64 `yaml:"recency_decay" mapstructure:"recency_decay"`
}

// PlannerConfig holds planning defaults.
type PlannerConfig struct {
	WindowWeeks     int `yaml:"window_weeks" mapstructure:"window_weeks"`
	DefaultServings int `yaml:"default_servings" mapstructure:"default_servings"`
}

// ServerConfig configures the local HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("APPETIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.path", "Weekly menu.xlsx")
	v.SetDefault("catalog.sheet", "Recipes")
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.database_url", "appetizer.db")
	v.SetDefault("history.retention_weeks", 52)
	v.SetDefault("scorer.protein_weight", 0.40)
	v.SetDefault("scorer.starch_weight", 0.25)
	v.SetDefault("scorer.cuisine_weight", 0.25)
	v.SetDefault("scorer.form_weight", 0.10)
	v.SetDefault("scorer.recency_decay", 0.7)
	v.SetDefault("planner.window_weeks", 8)
	v.SetDefault("planner.default_servings", 0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
