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
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	OCR     OCRConfig     `yaml:"ocr" mapstructure:"ocr"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
	Serve   ServeConfig   `yaml:"serve" mapstructure:"serve"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// ExtractConfig holds the extraction tunables. The lat/lon bounds describe the
// regional plausibility box used to prefer one coordinate candidate over
// another; candidates outside it are still returned when nothing better exists.
type ExtractConfig struct {
	InputDir string `yaml:"input_dir" mapstructure:"input_dir"`

	LatMin float64 `yaml:"lat_min" mapstructure:"lat_min"`
	LatMax float64 `yaml:"lat_max" mapstructure:"lat_max"`
	LonMin float64 `yaml:"lon_min" mapstructure:"lon_min"`
	LonMax float64 `yaml:"lon_max" mapstructure:"lon_max"`

	// YearCutoff is the two-digit-year pivot: years below it land in the
	// 2000s, the rest in the 1900s.
	YearCutoff int    `yaml:"year_cutoff" mapstructure:"year_cutoff"`
	DateFormat string `yaml:"date_format" mapstructure:"date_format"`

	// NameFixes and AddressFixes are comma-separated typo:fix pairs applied
	// to extracted well names and addresses.
	NameFixes    string `yaml:"name_fixes" mapstructure:"name_fixes"`
	AddressFixes string `yaml:"address_fixes" mapstructure:"address_fixes"`

	NameRejectRegex string `yaml:"name_reject_regex" mapstructure:"name_reject_regex"`
	NameRejectList  string `yaml:"name_reject_list" mapstructure:"name_reject_list"`

	MinDepthFt      float64 `yaml:"min_depth_ft" mapstructure:"min_depth_ft"`
	FormationMaxLen int     `yaml:"formation_max_len" mapstructure:"formation_max_len"`

	AddressSpacingWords string `yaml:"address_spacing_words" mapstructure:"address_spacing_words"`
}

// OCRConfig configures the optional OCR fallback for documents whose layout
// extraction produced little or no text.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	Fallback      bool   `yaml:"fallback" mapstructure:"fallback"`
	MinChars      int    `yaml:"min_chars" mapstructure:"min_chars"`
	PDFDir        string `yaml:"pdf_dir" mapstructure:"pdf_dir"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ScrapeConfig configures the enrichment scraper.
type ScrapeConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	State       string `yaml:"state" mapstructure:"state"`
	DelayMS     int    `yaml:"delay_ms" mapstructure:"delay_ms"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ServeConfig configures the read-only query API.
type ServeConfig struct {
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
	v.SetEnvPrefix("WELLSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "wellscan.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("serve.port", 8080)
	v.SetDefault("extract.input_dir", "documents")
	// North Dakota bounding box, used only to prefer candidates.
	v.SetDefault("extract.lat_min", 45.934)
	v.SetDefault("extract.lat_max", 48.9982)
	v.SetDefault("extract.lon_min", -104.0501)
	v.SetDefault("extract.lon_max", -96.5671)
	v.SetDefault("extract.year_cutoff", 50)
	v.SetDefault("extract.date_format", "2006-01-02")
	v.SetDefault("extract.name_fixes",
		"Federa1:Federal,Cc lumbus:Columbus,Chalmes:Chalmers,lnnoko:Innoko,Gramma:Gamma")
	v.SetDefault("extract.address_fixes",
		"Broadwa:Broadway,Broadwayy:Broadway,P .0.:P.O.,P. 0.:P.O.,Cit:City,Cityy:City, IN 9th: W 9th")
	v.SetDefault("extract.name_reject_regex", "^[nsew]{2,6}$")
	v.SetDefault("extract.name_reject_list", "")
	v.SetDefault("extract.min_depth_ft", 0)
	v.SetDefault("extract.formation_max_len", 0)
	v.SetDefault("extract.address_spacing_words", "Fannin,Suite,Street,Ave,Blvd,Drive,Box")
	v.SetDefault("ocr.provider", "local")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.fallback", false)
	v.SetDefault("ocr.min_chars", 200)
	v.SetDefault("ocr.pdf_dir", "pdfs")
	v.SetDefault("ocr.timeout_secs", 120)
	v.SetDefault("scrape.base_url", "https://www.drillingedge.com")
	v.SetDefault("scrape.state", "north-dakota")
	v.SetDefault("scrape.delay_ms", 1000)
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.user_agent",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

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
