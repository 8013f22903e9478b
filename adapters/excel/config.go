package excel

// ReaderConfig controls how tabular files are read
type ReaderConfig struct {
	// Sheet names the worksheet to read; empty means the first sheet
	Sheet string `json:"sheet"`
	// AllowEmpty accepts files that only carry a header row
	AllowEmpty bool `json:"allow_empty"`
}

// DefaultReaderConfig returns sensible defaults for dataset files
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{}
}
