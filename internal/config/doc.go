// Package config provides configuration loading for the rdl2 tools.
//
// # Overview
//
// The config package handles loading and validating tool configuration
// from YAML or TOML files and environment variables. It supports:
//
//   - YAML configuration files, or TOML when the file ends in .toml
//   - ${VAR} and ${VAR:-default} substitution before parsing
//   - Default values for all settings
//   - Configuration validation
//   - Reloading when the file changes
//
// # Configuration Structure
//
//	type Config struct {
//	    Dso     DsoConfig    // Class library search path and proxy mode
//	    Writer  WriterConfig // Scene writer policies
//	    Reader  ReaderConfig // Scene reader policies
//	    Logging LogConfig    // Logging settings
//	}
//
// # Loading Configuration
//
//	cfg, err := config.LoadConfig("/etc/rdl2/rdl2.yaml")
//	if err != nil {
//	    return err
//	}
//	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
//	    return errs[0]
//	}
//
// Or use defaults:
//
//	cfg := config.DefaultConfig()
//
// # Example Configuration
//
//	dso:
//	  path: "${RDL2_DSO_PATH:-~/rdl2/dso}"
//	  proxyMode: true
//
//	writer:
//	  deltaEncoding: true
//	  skipDefaults: true
//	  splitVectorSize: 12
//	  elemsPerLine: 0
//
//	reader:
//	  warningsAsErrors: false
//
//	logging:
//	  level: "warn"
//	  format: "text"
//	  output: "stderr"
//
// The same settings in TOML:
//
//	[writer]
//	deltaEncoding = true
//	splitVectorSize = 12
//
// # Watching
//
// ConfigWatcher reloads the file after it changes and passes the old and new
// configs to a callback. Invalid files are reported to OnError and ignored.
package config
