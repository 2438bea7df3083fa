package config

// Config holds the complete tool configuration.
type Config struct {
	Dso     DsoConfig    `yaml:"dso" toml:"dso"`
	Writer  WriterConfig `yaml:"writer" toml:"writer"`
	Reader  ReaderConfig `yaml:"reader" toml:"reader"`
	Logging LogConfig    `yaml:"logging" toml:"logging"`
}

// DsoConfig holds scene class library configuration.
type DsoConfig struct {
	// Path is a colon separated list of directories searched for class
	// libraries. Empty means the path is guessed from the environment.
	Path      string `yaml:"path" toml:"path"`
	ProxyMode bool   `yaml:"proxyMode" toml:"proxyMode"`
}

// WriterConfig holds the policies used when writing scenes.
type WriterConfig struct {
	TransientEncoding bool `yaml:"transientEncoding" toml:"transientEncoding"`
	DeltaEncoding     bool `yaml:"deltaEncoding" toml:"deltaEncoding"`
	SkipDefaults      bool `yaml:"skipDefaults" toml:"skipDefaults"`
	SplitVectorSize   int  `yaml:"splitVectorSize" toml:"splitVectorSize"`
	ElemsPerLine      int  `yaml:"elemsPerLine" toml:"elemsPerLine"`
}

// ReaderConfig holds the policies used when reading scenes.
type ReaderConfig struct {
	WarningsAsErrors bool `yaml:"warningsAsErrors" toml:"warningsAsErrors"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	Output string `yaml:"output" toml:"output"`
}
