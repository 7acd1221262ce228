// Package app drives one extraction batch: enumerate input documents, run
// the subtree selector on each, mirror the minimal fragments into the
// output directory, and aggregate a manifest. Documents are independent,
// so the batch runs on a bounded worker pool; the only shared objects are
// the token counter (read-only after construction) and the manifest slice
// (guarded by a mutex).
package app

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "runtime"
    "sort"
    "strings"
    "sync"

    "github.com/rs/zerolog/log"
    "golang.org/x/sync/errgroup"

    "github.com/hyperifyio/fragmin/internal/dom"
    "github.com/hyperifyio/fragmin/internal/selector"
    "github.com/hyperifyio/fragmin/internal/tokencount"
)

type App struct {
    cfg     Config
    counter tokencount.Counter
    workers int
}

// New validates configuration and constructs the process-wide token
// counter. All failures here are infrastructure-level: nothing has been
// processed yet and the run must not start.
func New(cfg Config) (*App, error) {
    if err := ValidateConfig(cfg); err != nil {
        return nil, err
    }
    counter, err := tokencount.New(cfg.CounterSpec)
    if err != nil {
        return nil, fmt.Errorf("init token counter: %w", err)
    }
    fi, err := os.Stat(cfg.InputDir)
    if err != nil {
        return nil, fmt.Errorf("input directory: %w", err)
    }
    if !fi.IsDir() {
        return nil, fmt.Errorf("input directory: %s is not a directory", cfg.InputDir)
    }
    workers := cfg.Concurrency
    if workers <= 0 {
        workers = runtime.GOMAXPROCS(0)
    }
    return &App{cfg: cfg, counter: counter, workers: workers}, nil
}

// Run processes the batch. Per-document failures become manifest error
// records and never abort the run; only listing the input directory or
// writing the aggregate report can fail here. Cancelling ctx stops
// dispatch of new documents; in-flight documents finish and are included
// in the manifest.
func (a *App) Run(ctx context.Context) error {
    files, err := a.listInputs()
    if err != nil {
        return err
    }
    if len(files) == 0 {
        log.Warn().Str("dir", a.cfg.InputDir).Str("prefix", a.cfg.NamePrefix).Msg("no HTML files to process")
        return nil
    }
    if !a.cfg.DryRun {
        if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
            return fmt.Errorf("output directory: %w", err)
        }
    }

    log.Info().
        Int("files", len(files)).
        Float64("coverage", a.cfg.CoverageThreshold).
        Str("counter", a.counter.Name()).
        Int("workers", a.workers).
        Bool("dryRun", a.cfg.DryRun).
        Msg("starting extraction")

    var (
        mu      sync.Mutex
        records = make([]Record, 0, len(files))
    )
    g, gctx := errgroup.WithContext(ctx)
    g.SetLimit(a.workers)
    for _, name := range files {
        if gctx.Err() != nil {
            log.Warn().Err(gctx.Err()).Msg("cancelled; not dispatching further documents")
            break
        }
        name := name
        g.Go(func() error {
            a.extractOne(gctx, name, &mu, &records)
            return nil
        })
    }
    _ = g.Wait()

    sort.Slice(records, func(i, j int) bool { return records[i].FileName < records[j].FileName })
    manifest := buildManifest(records, a.cfg.CoverageThreshold, a.counter.Name())
    a.logSummary(manifest)

    if !a.cfg.DryRun {
        path := filepath.Join(a.cfg.OutputDir, ManifestFileName)
        if err := writeManifestJSON(path, manifest); err != nil {
            return fmt.Errorf("write manifest: %w", err)
        }
        log.Info().Str("path", path).Msg("manifest written")
        if a.cfg.ReportPDFPath != "" {
            if err := writeSummaryPDF(a.cfg.ReportPDFPath, manifest); err != nil {
                return fmt.Errorf("write pdf report: %w", err)
            }
            log.Info().Str("path", a.cfg.ReportPDFPath).Msg("pdf report written")
        }
    } else {
        log.Info().Msg("dry run: no files written")
    }
    return ctx.Err()
}

// listInputs enumerates *.html files in the input directory, sorted by
// name, honoring the optional name-prefix filter.
func (a *App) listInputs() ([]string, error) {
    entries, err := os.ReadDir(a.cfg.InputDir)
    if err != nil {
        return nil, fmt.Errorf("read input directory: %w", err)
    }
    names := make([]string, 0, len(entries))
    for _, e := range entries {
        if e.IsDir() {
            continue
        }
        name := e.Name()
        if !strings.HasSuffix(strings.ToLower(name), ".html") {
            continue
        }
        if a.cfg.NamePrefix != "" && !strings.HasPrefix(name, a.cfg.NamePrefix) {
            continue
        }
        names = append(names, name)
    }
    sort.Strings(names)
    return names, nil
}

// extractOne runs one dispatched document and appends its record. The
// context is re-checked here because g.Go blocks while the pool is
// saturated: a document queued at cancel time would otherwise still run
// when a slot frees. Cancelled documents are dropped without a record.
func (a *App) extractOne(ctx context.Context, name string, mu *sync.Mutex, records *[]Record) {
    if ctx.Err() != nil {
        return
    }
    rec := a.processOne(name)
    mu.Lock()
    *records = append(*records, rec)
    mu.Unlock()
}

// processOne extracts a single document and always returns a record;
// failures are folded into it rather than propagated.
func (a *App) processOne(name string) Record {
    rec := Record{FileName: name, Category: categoryOf(name), Status: StatusError}

    path := filepath.Join(a.cfg.InputDir, name)
    fi, err := os.Stat(path)
    if err != nil {
        rec.ErrorReason = fmt.Sprintf("stat: %v", err)
        return rec
    }
    if a.cfg.MaxFileBytes > 0 && fi.Size() > a.cfg.MaxFileBytes {
        rec.ErrorReason = fmt.Sprintf("oversized document: %d bytes exceeds limit %d", fi.Size(), a.cfg.MaxFileBytes)
        log.Warn().Str("file", name).Int64("bytes", fi.Size()).Msg("skipping oversized document")
        return rec
    }
    raw, err := os.ReadFile(path)
    if err != nil {
        rec.ErrorReason = fmt.Sprintf("read: %v", err)
        return rec
    }

    tree, err := dom.Parse(raw)
    if err != nil {
        rec.ErrorReason = fmt.Sprintf("parse: %v", err)
        return rec
    }
    res, err := selector.Select(tree, a.cfg.CoverageThreshold, a.counter)
    if err != nil {
        rec.ErrorReason = fmt.Sprintf("select: %v", err)
        return rec
    }

    if !a.cfg.DryRun {
        out := filepath.Join(a.cfg.OutputDir, name)
        if err := os.WriteFile(out, []byte(res.Markup), 0o644); err != nil {
            rec.ErrorReason = fmt.Sprintf("write: %v", err)
            return rec
        }
    }

    rec.Status = StatusOK
    rec.ErrorReason = ""
    rec.OriginalTokens = res.OriginalTokens
    rec.MinimalTokens = res.Tokens
    rec.ReductionPercent = res.ReductionPercent()
    rec.Coverage = res.Coverage
    rec.SelectedTag = res.Tag

    log.Debug().
        Str("file", name).
        Str("tag", res.Tag).
        Int("original", res.OriginalTokens).
        Int("minimal", res.Tokens).
        Float64("coverage", res.Coverage).
        Msg("extracted")
    return rec
}

func (a *App) logSummary(m Manifest) {
    s := m.Summary
    log.Info().
        Int("total", s.FilesTotal).
        Int("ok", s.FilesOK).
        Int("failed", s.FilesFailed).
        Int("originalTokens", s.TotalOriginalTokens).
        Int("minimalTokens", s.TotalMinimalTokens).
        Float64("avgReductionPct", s.AverageReductionPercent).
        Float64("avgCoverage", s.AverageCoverage).
        Msg("batch summary")
    for cat, cs := range s.ByCategory {
        log.Info().
            Str("category", cat).
            Int("files", cs.Count).
            Float64("reductionPct", cs.ReductionPercent).
            Float64("avgCoverage", cs.AverageCoverage).
            Msg("category summary")
    }
    for _, r := range topReductions(m.Files, a.cfg.TopReductions) {
        log.Info().
            Str("file", r.FileName).
            Float64("reductionPct", r.ReductionPercent).
            Int("original", r.OriginalTokens).
            Int("minimal", r.MinimalTokens).
            Str("tag", r.SelectedTag).
            Msg("top reduction")
    }
}
