package config

// DefaultSplitVectorSize is the largest vector kept in the text half of a
// split scene.
const DefaultSplitVectorSize = 12

// DefaultConfig returns a Config with the conversion defaults.
func DefaultConfig() *Config {
	return &Config{
		Dso: DsoConfig{
			Path:      "",
			ProxyMode: true,
		},
		Writer: WriterConfig{
			TransientEncoding: false,
			DeltaEncoding:     true,
			SkipDefaults:      true,
			SplitVectorSize:   DefaultSplitVectorSize,
			ElemsPerLine:      0,
		},
		Reader: ReaderConfig{
			WarningsAsErrors: false,
		},
		Logging: LogConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}
