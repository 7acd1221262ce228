package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"

    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections improve readability and map naturally to flags.
type FileConfig struct {
    Input  string `yaml:"input" json:"input"`
    Output string `yaml:"output" json:"output"`

    Coverage float64 `yaml:"coverage" json:"coverage"`

    Filter struct {
        Prefix string `yaml:"prefix" json:"prefix"`
    } `yaml:"filter" json:"filter"`

    Tokens struct {
        Counter string `yaml:"counter" json:"counter"`
    } `yaml:"tokens" json:"tokens"`

    Limits struct {
        Concurrency  int   `yaml:"concurrency" json:"concurrency"`
        MaxFileBytes int64 `yaml:"maxFileBytes" json:"maxFileBytes"`
    } `yaml:"limits" json:"limits"`

    Report struct {
        PDF string `yaml:"pdf" json:"pdf"`
        Top int    `yaml:"top" json:"top"`
    } `yaml:"report" json:"report"`

    DryRun  bool `yaml:"dryRun" json:"dryRun"`
    Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// Flag defaults that ApplyFileConfig must recognize to tell "left at
// default" apart from "set explicitly".
const (
    CoverageDefault      = 0.95
    TopReductionsDefault = 10
    MaxFileBytesDefault  = 8 << 20
)

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// still at their defaults. Flags should already have been parsed; this lets
// file config supply defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil {
        return
    }
    if cfg.InputDir == "" && fc.Input != "" {
        cfg.InputDir = fc.Input
    }
    if cfg.OutputDir == "" && fc.Output != "" {
        cfg.OutputDir = fc.Output
    }
    if cfg.CoverageThreshold == CoverageDefault && fc.Coverage > 0 {
        cfg.CoverageThreshold = fc.Coverage
    }
    if cfg.NamePrefix == "" && fc.Filter.Prefix != "" {
        cfg.NamePrefix = fc.Filter.Prefix
    }
    if cfg.CounterSpec == "" && fc.Tokens.Counter != "" {
        cfg.CounterSpec = fc.Tokens.Counter
    }
    if cfg.Concurrency == 0 && fc.Limits.Concurrency > 0 {
        cfg.Concurrency = fc.Limits.Concurrency
    }
    if cfg.MaxFileBytes == MaxFileBytesDefault && fc.Limits.MaxFileBytes > 0 {
        cfg.MaxFileBytes = fc.Limits.MaxFileBytes
    }
    if cfg.ReportPDFPath == "" && fc.Report.PDF != "" {
        cfg.ReportPDFPath = fc.Report.PDF
    }
    if cfg.TopReductions == TopReductionsDefault && fc.Report.Top > 0 {
        cfg.TopReductions = fc.Report.Top
    }
    if !cfg.DryRun && fc.DryRun {
        cfg.DryRun = true
    }
    if !cfg.Verbose && fc.Verbose {
        cfg.Verbose = true
    }
}

// Sentinel configuration errors, so callers can match the failure with
// errors.Is instead of parsing messages.
var (
    ErrMissingInputDir  = errors.New("config: input directory is required")
    ErrMissingOutputDir = errors.New("config: output directory is required")
    ErrBadThreshold     = errors.New("config: coverage threshold must be between 0.0 and 1.0")
    ErrNegativeLimit    = errors.New("config: negative limits are not allowed")
)

// ValidateConfig performs minimal schema validation for required settings.
// For dry-run, the output directory may be omitted.
func ValidateConfig(cfg Config) error {
    if trim(cfg.InputDir) == "" {
        return ErrMissingInputDir
    }
    if !cfg.DryRun && trim(cfg.OutputDir) == "" {
        return ErrMissingOutputDir
    }
    if cfg.CoverageThreshold < 0 || cfg.CoverageThreshold > 1 {
        return ErrBadThreshold
    }
    if cfg.Concurrency < 0 || cfg.MaxFileBytes < 0 || cfg.TopReductions < 0 {
        return ErrNegativeLimit
    }
    return nil
}

func trim(s string) string {
    i := 0
    j := len(s)
    for i < j && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
        i++
    }
    for j > i && (s[j-1] == ' ' || s[j-1] == '\t' || s[j-1] == '\n' || s[j-1] == '\r') {
        j--
    }
    return s[i:j]
}
