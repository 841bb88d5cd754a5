package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
)

// Config holds the full application configuration.
type Config struct {
	Data           DataConfig           `yaml:"data" mapstructure:"data"`
	Classification ClassificationConfig `yaml:"classification" mapstructure:"classification"`
	Fields         FieldsConfig         `yaml:"fields" mapstructure:"fields"`
	Store          StoreConfig          `yaml:"store" mapstructure:"store"`
	Server         ServerConfig         `yaml:"server" mapstructure:"server"`
	Export         ExportConfig         `yaml:"export" mapstructure:"export"`
	Log            LogConfig            `yaml:"log" mapstructure:"log"`
}

// DataConfig selects the tract dataset.
type DataConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // geojson, shapefile or postgres; empty = by extension
	Path   string `yaml:"path" mapstructure:"path"`
	Table  string `yaml:"table" mapstructure:"table"`
}

// ClassificationConfig configures breaks and colors.
type ClassificationConfig struct {
	Policy       string    `yaml:"policy" mapstructure:"policy"`
	FixedBreaks  []float64 `yaml:"fixed_breaks" mapstructure:"fixed_breaks"`
	Palette      string    `yaml:"palette" mapstructure:"palette"`
	ColorRamp    []string  `yaml:"color_ramp" mapstructure:"color_ramp"` // overrides palette when set
	PalettesFile string    `yaml:"palettes_file" mapstructure:"palettes_file"`
}

// FieldsConfig names the feature attributes.
type FieldsConfig struct {
	Primary        string   `yaml:"primary" mapstructure:"primary"`
	Naturalized    string   `yaml:"naturalized" mapstructure:"naturalized"`
	NotNaturalized string   `yaml:"not_naturalized" mapstructure:"not_naturalized"`
	Count          string   `yaml:"count" mapstructure:"count"`
	IDCandidates   []string `yaml:"id_candidates" mapstructure:"id_candidates"`
	HeadlineLabel  string   `yaml:"headline_label" mapstructure:"headline_label"`
}

// StoreConfig configures the Postgres connection.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// ExportConfig configures classification exports.
type ExportConfig struct {
	Table string `yaml:"table" mapstructure:"table"`
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
	v.SetEnvPrefix("CHOROPLETH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	// Every key needs a default or binding, or Unmarshal never sees its env var.
	v.SetDefault("data.driver", "")
	v.SetDefault("data.path", "mapdata.geojson")
	v.SetDefault("data.table", "geo.census_tracts")
	v.SetDefault("classification.policy", string(choropleth.PolicyFixed))
	v.SetDefault("classification.fixed_breaks", choropleth.DefaultBreaks)
	v.SetDefault("classification.palette", choropleth.DefaultPalette)
	v.SetDefault("classification.palettes_file", "")
	_ = v.BindEnv("classification.color_ramp")
	v.SetDefault("fields.primary", choropleth.DefaultPrimaryField)
	v.SetDefault("fields.naturalized", choropleth.DefaultNaturalizedField)
	v.SetDefault("fields.not_naturalized", choropleth.DefaultNotNaturalizedField)
	v.SetDefault("fields.count", choropleth.DefaultCountField)
	v.SetDefault("fields.id_candidates", choropleth.DefaultIDCandidates)
	v.SetDefault("fields.headline_label", choropleth.DefaultHeadlineLabel)
	v.SetDefault("store.database_url", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("export.table", "geo.tract_classes")
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

// Validate checks the settings a command mode needs before any data is read.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "classify", "export":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch strings.ToLower(c.Data.Driver) {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for the postgres driver")
		}
	case "", "geojson", "shapefile":
		if c.Data.Path == "" {
			errs = append(errs, "data.path is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("data.driver %q is not one of geojson, shapefile, postgres", c.Data.Driver))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ChoroplethFields converts the fields section.
func (c *Config) ChoroplethFields() choropleth.Fields {
	return choropleth.Fields{
		Primary:        c.Fields.Primary,
		Naturalized:    c.Fields.Naturalized,
		NotNaturalized: c.Fields.NotNaturalized,
		Count:          c.Fields.Count,
		IDCandidates:   c.Fields.IDCandidates,
		HeadlineLabel:  c.Fields.HeadlineLabel,
	}
}

// Scheme resolves the classification section: policy, breaks and ramp.
// An explicit color_ramp wins over the named palette.
func (c *Config) Scheme() (choropleth.SchemeConfig, error) {
	cc := c.Classification

	policy, err := choropleth.ParsePolicy(cc.Policy)
	if err != nil {
		return choropleth.SchemeConfig{}, err
	}

	var ramp choropleth.Ramp
	if len(cc.ColorRamp) > 0 {
		ramp, err = choropleth.ParseRamp(cc.ColorRamp)
		if err != nil {
			return choropleth.SchemeConfig{}, err
		}
	} else {
		palettes := choropleth.BuiltinPalettes()
		if cc.PalettesFile != "" {
			palettes, err = choropleth.LoadPalettes(cc.PalettesFile)
			if err != nil {
				return choropleth.SchemeConfig{}, err
			}
		}
		name := cc.Palette
		if name == "" {
			name = choropleth.DefaultPalette
		}
		ramp, err = palettes.Get(name)
		if err != nil {
			return choropleth.SchemeConfig{}, err
		}
	}

	return choropleth.SchemeConfig{
		Policy:      policy,
		FixedBreaks: cc.FixedBreaks,
		Ramp:        ramp,
	}, nil
}

// Options builds the classification options, validating everything that
// can be checked before the dataset is loaded.
func (c *Config) Options() (choropleth.Options, error) {
	fields := c.ChoroplethFields()
	if err := fields.Validate(); err != nil {
		return choropleth.Options{}, err
	}

	scheme, err := c.Scheme()
	if err != nil {
		return choropleth.Options{}, err
	}
	if scheme.Policy == choropleth.PolicyFixed {
		breaks := scheme.FixedBreaks
		if breaks == nil {
			breaks = choropleth.DefaultBreaks
		}
		if err := choropleth.ValidateBreaks(breaks); err != nil {
			return choropleth.Options{}, err
		}
		if err := choropleth.ValidateRamp(scheme.Ramp, breaks); err != nil {
			return choropleth.Options{}, err
		}
	}

	return choropleth.Options{Fields: fields, Scheme: scheme}, nil
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
