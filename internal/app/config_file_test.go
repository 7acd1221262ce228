package app

import (
    "errors"
    "os"
    "path/filepath"
    "testing"
)

func writeConfig(t *testing.T, name, content string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), name)
    if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
        t.Fatalf("write config: %v", err)
    }
    return path
}

func TestLoadConfigFile_YAML(t *testing.T) {
    path := writeConfig(t, "fragmin.yaml", `
input: data/candidates
output: data/minimal
coverage: 0.9
filter:
  prefix: recipe_
tokens:
  counter: chars:4
limits:
  concurrency: 2
  maxFileBytes: 1048576
report:
  pdf: out/report.pdf
  top: 5
dryRun: true
`)
    fc, err := LoadConfigFile(path)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if fc.Input != "data/candidates" || fc.Output != "data/minimal" {
        t.Fatalf("unexpected paths: %+v", fc)
    }
    if fc.Coverage != 0.9 || fc.Filter.Prefix != "recipe_" || fc.Tokens.Counter != "chars:4" {
        t.Fatalf("unexpected selection settings: %+v", fc)
    }
    if fc.Limits.Concurrency != 2 || fc.Limits.MaxFileBytes != 1048576 {
        t.Fatalf("unexpected limits: %+v", fc)
    }
    if fc.Report.PDF != "out/report.pdf" || fc.Report.Top != 5 || !fc.DryRun {
        t.Fatalf("unexpected report settings: %+v", fc)
    }
}

func TestLoadConfigFile_JSON(t *testing.T) {
    path := writeConfig(t, "fragmin.json", `{"input":"in","output":"out","coverage":0.8}`)
    fc, err := LoadConfigFile(path)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if fc.Input != "in" || fc.Output != "out" || fc.Coverage != 0.8 {
        t.Fatalf("unexpected config: %+v", fc)
    }
}

func TestApplyFileConfig_FlagsBeatFile(t *testing.T) {
    cfg := Config{
        InputDir:          "flag-in",
        CoverageThreshold: 0.75, // explicitly set, not the default
        MaxFileBytes:      MaxFileBytesDefault,
        TopReductions:     TopReductionsDefault,
    }
    var fc FileConfig
    fc.Input = "file-in"
    fc.Output = "file-out"
    fc.Coverage = 0.5
    fc.Limits.MaxFileBytes = 1024
    fc.Report.Top = 3

    ApplyFileConfig(&cfg, fc)

    if cfg.InputDir != "flag-in" {
        t.Fatalf("explicit flag overridden: %q", cfg.InputDir)
    }
    if cfg.CoverageThreshold != 0.75 {
        t.Fatalf("explicit threshold overridden: %v", cfg.CoverageThreshold)
    }
    if cfg.OutputDir != "file-out" {
        t.Fatalf("file default not applied: %q", cfg.OutputDir)
    }
    if cfg.MaxFileBytes != 1024 || cfg.TopReductions != 3 {
        t.Fatalf("file defaults not applied over flag defaults: %+v", cfg)
    }
}

func TestValidateConfig(t *testing.T) {
    base := Config{InputDir: "in", OutputDir: "out", CoverageThreshold: 0.95}
    if err := ValidateConfig(base); err != nil {
        t.Fatalf("expected valid config, got %v", err)
    }

    missingInput := base
    missingInput.InputDir = " "
    if err := ValidateConfig(missingInput); !errors.Is(err, ErrMissingInputDir) {
        t.Fatalf("expected ErrMissingInputDir, got %v", err)
    }

    missingOutput := base
    missingOutput.OutputDir = ""
    if err := ValidateConfig(missingOutput); !errors.Is(err, ErrMissingOutputDir) {
        t.Fatalf("expected ErrMissingOutputDir, got %v", err)
    }
    missingOutput.DryRun = true
    if err := ValidateConfig(missingOutput); err != nil {
        t.Fatalf("dry-run should not require an output directory, got %v", err)
    }

    badThreshold := base
    badThreshold.CoverageThreshold = 1.5
    if err := ValidateConfig(badThreshold); !errors.Is(err, ErrBadThreshold) {
        t.Fatalf("expected ErrBadThreshold, got %v", err)
    }

    negative := base
    negative.Concurrency = -1
    if err := ValidateConfig(negative); !errors.Is(err, ErrNegativeLimit) {
        t.Fatalf("expected ErrNegativeLimit, got %v", err)
    }
}
