package app

// Config holds runtime configuration for one extraction batch.
type Config struct {
	InputDir  string
	OutputDir string

	// Selection
	CoverageThreshold float64
	CounterSpec       string

	// Scope
	NamePrefix   string
	MaxFileBytes int64

	// Execution
	Concurrency int
	DryRun      bool
	Verbose     bool

	// Reporting
	TopReductions int
	ReportPDFPath string
}
