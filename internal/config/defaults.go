package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			PermanentExcludes: DefaultHistoryExcludes(),
		},
		Display: DisplayConfig{
			MaxTitle: 100,
			MaxLink:  100,
		},
		Report: ReportConfig{
			OutputDir:   "",
			OpenBrowser: true,
		},
		Templates: TemplatesConfig{},
		Queries:   QueriesConfig{},
		Snapshot: SnapshotConfig{
			TempDir:       "",
			BusyTimeoutMS: 0,
		},
		Logging: LoggingConfig{
			Level:          "info",
			MaxDiagnostics: 10,
		},
		Firefox: FirefoxConfig{
			Dir: "",
		},
		Strict: false,
	}
}
