package sheetpipe

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rcameron/sheetpipe/pkg/sheetpipe/parser"
)

// FileConfig is the optional TOML configuration mapped onto Options.
// Command-line flags override anything set here.
type FileConfig struct {
	Extract ExtractConfig `toml:"extract"`
	Batch   BatchConfig   `toml:"batch"`
}

// ExtractConfig holds per-file pipeline settings.
type ExtractConfig struct {
	SheetName       string  `toml:"sheet_name"`
	ScanWindow      int     `toml:"scan_window"`
	MinNonEmpty     int     `toml:"min_non_empty"`
	MinKeywordScore int     `toml:"min_keyword_score"`
	DailyHoursCap   float64 `toml:"daily_hours_cap"`
	ReferenceYear   int     `toml:"reference_year"`
}

// BatchConfig holds batch driver settings.
type BatchConfig struct {
	Workers        int    `toml:"workers"`
	FileTimeoutSec int    `toml:"file_timeout_sec"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
}

// LoadConfig reads a TOML config file and applies it over the defaults.
func LoadConfig(path string) (Options, FileConfig, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, FileConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg FileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return opts, FileConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg.apply(opts), cfg, nil
}

func (c FileConfig) apply(opts Options) Options {
	if c.Extract.SheetName != "" {
		opts.SheetName = c.Extract.SheetName
	}
	if c.Extract.ScanWindow > 0 {
		opts.Header.ScanWindow = c.Extract.ScanWindow
	}
	if c.Extract.MinNonEmpty > 0 {
		opts.Header.MinNonEmpty = c.Extract.MinNonEmpty
	}
	if c.Extract.MinKeywordScore > 0 {
		opts.Header.MinKeywordScore = c.Extract.MinKeywordScore
	}
	if c.Extract.DailyHoursCap > 0 {
		opts.Assemble = parser.AssembleParams{DailyCap: c.Extract.DailyHoursCap}
	}
	if c.Extract.ReferenceYear > 0 {
		opts.ReferenceYear = c.Extract.ReferenceYear
	}
	if c.Batch.Workers > 0 {
		opts.Workers = c.Batch.Workers
	}
	if c.Batch.FileTimeoutSec > 0 {
		opts.FileTimeout = time.Duration(c.Batch.FileTimeoutSec) * time.Second
	}
	return opts
}
