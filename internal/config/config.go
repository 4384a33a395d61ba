// Package config holds the processor configuration: source URLs,
// output locations, processing toggles, and presentation styling.
// Values load from an optional YAML file with environment overrides.
package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	cperrors "github.com/bricedupuy/chordshow/core/errors"
)

// Config is the full processor configuration. Defaults come from
// Default, not from struct tags: cleanenv re-applies tag defaults to
// zero-valued fields, which would turn an explicit false or 0 in the
// YAML file back into the default.
type Config struct {
	// SongBaseURL is the directory URL the songbook files download from.
	SongBaseURL string `yaml:"song_base_url" env:"CHORDSHOW_SONG_BASE_URL"`

	// MetadataURL is the URL of the metadata CSV.
	MetadataURL string `yaml:"metadata_url" env:"CHORDSHOW_METADATA_URL"`

	// EnhancedDir is where enhanced markup files are written.
	EnhancedDir string `yaml:"enhanced_dir" env:"CHORDSHOW_ENHANCED_DIR"`

	// ShowDir is where presentation documents are written.
	ShowDir string `yaml:"show_dir" env:"CHORDSHOW_SHOW_DIR"`

	// CatalogPath is the SQLite catalog of processed songs.
	CatalogPath string `yaml:"catalog_path" env:"CHORDSHOW_CATALOG_PATH"`

	// TimeoutSeconds bounds each download request.
	TimeoutSeconds int `yaml:"connection_timeout" env:"CHORDSHOW_CONNECTION_TIMEOUT"`

	// MaxRetries is the number of download attempts per resource.
	MaxRetries int `yaml:"max_retries" env:"CHORDSHOW_MAX_RETRIES"`

	// RetryDelaySeconds is the pause between download attempts.
	RetryDelaySeconds float64 `yaml:"retry_delay" env:"CHORDSHOW_RETRY_DELAY"`

	// Workers bounds the batch worker pool.
	Workers int `yaml:"workers" env:"CHORDSHOW_WORKERS"`

	// FixFrenchPunctuation toggles the punctuation normalizer.
	FixFrenchPunctuation bool `yaml:"fix_french_punctuation" env:"CHORDSHOW_FIX_FRENCH_PUNCTUATION"`

	// DeduplicateSections toggles reuse pointers in presentation output.
	DeduplicateSections bool `yaml:"deduplicate_sections" env:"CHORDSHOW_DEDUPLICATE_SECTIONS"`

	// SectionColors maps a section kind to its slide group color.
	SectionColors map[string]string `yaml:"section_colors"`

	// SlideBox is the slide geometry string, applied verbatim.
	SlideBox string `yaml:"slide_box" env:"CHORDSHOW_SLIDE_BOX"`

	// FontSize is the uniform slide font size.
	FontSize int `yaml:"font_size" env:"CHORDSHOW_FONT_SIZE"`

	// MaxLinesPerSlide splits long sections; zero keeps one slide per
	// section.
	MaxLinesPerSlide int `yaml:"max_lines_per_slide" env:"CHORDSHOW_MAX_LINES_PER_SLIDE"`
}

// defaultSectionColors is the stock kind -> color mapping. Verses and
// intro/outro stay uncolored on purpose.
func defaultSectionColors() map[string]string {
	return map[string]string{
		"chorus":     "#f525d2",
		"bridge":     "#f52598",
		"pre_chorus": "#25d2f5",
		"tag":        "#f5d225",
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SongBaseURL:          "https://jemaf.fr/ressources/chordPro/",
		MetadataURL:          "https://raw.githubusercontent.com/bricedupuy/jemaf_chordpro_enhancer/refs/heads/main/custom-metadata.csv",
		EnhancedDir:          "processedChordPro",
		ShowDir:              "processedFreeShow",
		CatalogPath:          "chordshow.db",
		TimeoutSeconds:       30,
		MaxRetries:           3,
		RetryDelaySeconds:    1,
		Workers:              1,
		FixFrenchPunctuation: true,
		DeduplicateSections:  true,
		SectionColors:        defaultSectionColors(),
		SlideBox:             "top:120px;left:50px;height:840px;width:1820px;",
		FontSize:             100,
	}
}

// Load reads configuration from a YAML file, then applies environment
// overrides. An empty path skips the file. The file is unmarshalled
// over the defaults, so an explicit false or 0 in it sticks.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, cperrors.NewParse("config", path, err.Error())
		}
		// A section_colors block in the file replaces the stock mapping
		// rather than merging into it.
		cfg.SectionColors = nil
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, cperrors.NewParse("config", path, err.Error())
		}
		if cfg.SectionColors == nil {
			cfg.SectionColors = defaultSectionColors()
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, cperrors.NewParse("config", "environment", err.Error())
	}
	return cfg, cfg.Validate()
}

// Timeout returns the per-request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the pause between attempts as a duration.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds * float64(time.Second))
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	if c.TimeoutSeconds <= 0 {
		return cperrors.Wrap(cperrors.ErrInvalidInput, "connection_timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return cperrors.Wrap(cperrors.ErrInvalidInput, "max_retries must be at least 1")
	}
	if c.RetryDelaySeconds < 0 {
		return cperrors.Wrap(cperrors.ErrInvalidInput, "retry_delay must be non-negative")
	}
	if c.Workers < 1 {
		return cperrors.Wrap(cperrors.ErrInvalidInput, "workers must be at least 1")
	}
	if c.FontSize <= 0 {
		return cperrors.Wrap(cperrors.ErrInvalidInput, "font_size must be positive")
	}
	if c.MaxLinesPerSlide < 0 {
		return cperrors.Wrap(cperrors.ErrInvalidInput, "max_lines_per_slide must be non-negative")
	}
	return nil
}

// WriteDefault writes the default configuration as YAML to path.
// Used by "chordshow init".
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return cperrors.Wrap(err, "marshal default config")
	}
	return os.WriteFile(path, data, 0644)
}
