package app

import (
    "fmt"
    "sort"
    "time"

    "github.com/jung-kurt/gofpdf"
)

// writeSummaryPDF renders the manifest as a one-page-per-section PDF for
// sharing outside the terminal. Layout is intentionally simple: headings,
// summary lines, and one line per file.
func writeSummaryPDF(outPath string, m Manifest) error {
    pdf := gofpdf.New("P", "mm", "A4", "")
    pdf.SetFont("Helvetica", "", 11)
    pdf.AddPage()

    heading := func(text string) {
        pdf.SetFont("Helvetica", "B", 14)
        pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
        pdf.SetFont("Helvetica", "", 11)
    }
    line := func(format string, args ...any) {
        pdf.MultiCell(0, 5, fmt.Sprintf(format, args...), "", "L", false)
    }

    heading("fragmin extraction report")
    line("Generated: %s", m.GeneratedAt.Format(time.RFC3339))
    line("Coverage threshold: %.1f%%", m.CoverageThreshold*100)
    line("Token counter: %s", m.TokenCounter)
    pdf.Ln(4)

    s := m.Summary
    heading("Summary")
    line("Files: %d total, %d ok, %d failed", s.FilesTotal, s.FilesOK, s.FilesFailed)
    line("Tokens: %d original, %d minimal", s.TotalOriginalTokens, s.TotalMinimalTokens)
    line("Average reduction: %.1f%%", s.AverageReductionPercent)
    line("Average coverage: %.1f%%", s.AverageCoverage*100)
    pdf.Ln(4)

    if len(s.ByCategory) > 0 {
        heading("By category")
        cats := make([]string, 0, len(s.ByCategory))
        for cat := range s.ByCategory {
            cats = append(cats, cat)
        }
        sort.Strings(cats)
        for _, cat := range cats {
            cs := s.ByCategory[cat]
            line("%s: %d files, %.1f%% reduction, %.1f%% coverage",
                cat, cs.Count, cs.ReductionPercent, cs.AverageCoverage*100)
        }
        pdf.Ln(4)
    }

    heading("Files")
    for _, r := range m.Files {
        if r.Status != StatusOK {
            line("%s: error (%s)", r.FileName, r.ErrorReason)
            continue
        }
        line("%s: %.1f%% reduction (%d to %d tokens, tag=%s)",
            r.FileName, r.ReductionPercent, r.OriginalTokens, r.MinimalTokens, r.SelectedTag)
    }

    return pdf.OutputFileAndClose(outPath)
}
