package app

import (
    "encoding/json"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"
)

// ManifestFileName is written into the output directory next to the
// minimal fragments.
const ManifestFileName = "extraction_results.json"

// Record is one per-document manifest entry. Records are never mutated
// after creation.
type Record struct {
    FileName         string  `json:"file_name"`
    Category         string  `json:"category"`
    OriginalTokens   int     `json:"original_token_count"`
    MinimalTokens    int     `json:"minimal_token_count"`
    ReductionPercent float64 `json:"reduction_percent"`
    Coverage         float64 `json:"achieved_coverage"`
    SelectedTag      string  `json:"selected_tag"`
    Status           string  `json:"status"`
    ErrorReason      string  `json:"error_reason,omitempty"`
}

// StatusOK and StatusError are the only values Record.Status takes.
const (
    StatusOK    = "ok"
    StatusError = "error"
)

// CategoryStats aggregates records sharing a file-name category.
type CategoryStats struct {
    Count            int     `json:"count"`
    OriginalTokens   int     `json:"original_tokens"`
    MinimalTokens    int     `json:"minimal_tokens"`
    ReductionPercent float64 `json:"reduction_percent"`
    AverageCoverage  float64 `json:"average_coverage"`
}

// Summary captures whole-batch statistics.
type Summary struct {
    FilesTotal              int                      `json:"files_total"`
    FilesOK                 int                      `json:"files_ok"`
    FilesFailed             int                      `json:"files_failed"`
    MetThreshold            int                      `json:"met_threshold"`
    TotalOriginalTokens     int                      `json:"total_original_tokens"`
    TotalMinimalTokens      int                      `json:"total_minimal_tokens"`
    AverageReductionPercent float64                  `json:"average_reduction_percent"`
    AverageCoverage         float64                  `json:"average_coverage"`
    ByCategory              map[string]CategoryStats `json:"by_category,omitempty"`
}

// Manifest is the aggregate report for one batch run.
type Manifest struct {
    GeneratedAt       time.Time `json:"generated_at"`
    CoverageThreshold float64   `json:"coverage_threshold"`
    TokenCounter      string    `json:"token_counter"`
    Summary           Summary   `json:"summary"`
    Files             []Record  `json:"files"`
}

// categoryOf derives a document category from its file name: the stem up to
// the first underscore, so "recipe_0042.html" groups under "recipe".
func categoryOf(name string) string {
    stem := strings.TrimSuffix(name, filepath.Ext(name))
    if i := strings.Index(stem, "_"); i > 0 {
        return stem[:i]
    }
    return stem
}

// buildManifest assembles the aggregate report from sorted records.
func buildManifest(records []Record, threshold float64, counterName string) Manifest {
    s := Summary{FilesTotal: len(records)}
    byCat := make(map[string]CategoryStats)
    covSum := 0.0
    for _, r := range records {
        if r.Status != StatusOK {
            s.FilesFailed++
            continue
        }
        s.FilesOK++
        if r.Coverage >= threshold {
            s.MetThreshold++
        }
        s.TotalOriginalTokens += r.OriginalTokens
        s.TotalMinimalTokens += r.MinimalTokens
        covSum += r.Coverage

        cs := byCat[r.Category]
        cs.Count++
        cs.OriginalTokens += r.OriginalTokens
        cs.MinimalTokens += r.MinimalTokens
        cs.AverageCoverage += r.Coverage
        byCat[r.Category] = cs
    }
    if s.TotalOriginalTokens > 0 {
        s.AverageReductionPercent = (1 - float64(s.TotalMinimalTokens)/float64(s.TotalOriginalTokens)) * 100
    }
    if s.FilesOK > 0 {
        s.AverageCoverage = covSum / float64(s.FilesOK)
    }
    for cat, cs := range byCat {
        if cs.OriginalTokens > 0 {
            cs.ReductionPercent = (1 - float64(cs.MinimalTokens)/float64(cs.OriginalTokens)) * 100
        }
        if cs.Count > 0 {
            cs.AverageCoverage /= float64(cs.Count)
        }
        byCat[cat] = cs
    }
    if len(byCat) > 0 {
        s.ByCategory = byCat
    }
    return Manifest{
        GeneratedAt:       time.Now().UTC(),
        CoverageThreshold: threshold,
        TokenCounter:      counterName,
        Summary:           s,
        Files:             records,
    }
}

// topReductions returns up to n successful records with the highest
// reduction, ties broken by file name so the listing is stable.
func topReductions(records []Record, n int) []Record {
    ok := make([]Record, 0, len(records))
    for _, r := range records {
        if r.Status == StatusOK {
            ok = append(ok, r)
        }
    }
    sort.Slice(ok, func(i, j int) bool {
        if ok[i].ReductionPercent != ok[j].ReductionPercent {
            return ok[i].ReductionPercent > ok[j].ReductionPercent
        }
        return ok[i].FileName < ok[j].FileName
    })
    if n > 0 && len(ok) > n {
        ok = ok[:n]
    }
    return ok
}

// writeManifestJSON encodes the machine-readable manifest to path.
func writeManifestJSON(path string, m Manifest) error {
    b, err := json.MarshalIndent(m, "", "  ")
    if err != nil {
        return err
    }
    return os.WriteFile(path, b, 0o644)
}
