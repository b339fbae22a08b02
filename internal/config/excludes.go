package config

// DefaultHistoryExcludes returns the url fragments that never show up in a
// history report. Tokens without a % are matched anywhere in the url; tokens
// holding a % are used as a raw LIKE pattern.
func DefaultHistoryExcludes() []string {
	return []string{
		// Search engines
		"google.com",
		"duckduckgo.com",

		// Social
		"facebook.com",
		"twitter.com",

		// Local services
		"127.0.0.1",
	}
}
