package main

import (
	"fmt"
	"io"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/rdl2/internal/config"
	"github.com/KilimcininKorOglu/rdl2/internal/dso"
	"github.com/KilimcininKorOglu/rdl2/internal/logging"
	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
	"github.com/KilimcininKorOglu/rdl2/internal/rdlb"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile  string
	dsoPath     string
	logLevel    string
	profileMode string

	finder  *dso.Finder
	cfg     *config.Config
	logger  logging.Logger
	profile interface{ Stop() }
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		finder: dso.NewFinder(),
		cfg:    config.DefaultConfig(),
		logger: logging.NewNop(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "rdl2",
		Short: "Inspect and convert rdl2 scene files",
		Long: `rdl2 reads and writes scene descriptions in the binary (.rdlb) and
text (.rdla) formats, prints their contents and checks class libraries.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "configuration file (.yaml or .toml)")
	pf.StringVarP(&a.dsoPath, "dso-path", "d", "", "colon separated directories searched for class libraries")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.profileMode, "profile", "", "write a cpu or mem profile to the working directory")

	root.AddCommand(
		newConvertCmd(a),
		newInfoCmd(a),
		newPrintCmd(a),
		newClassesCmd(a),
		newDsosCmd(a),
		newCompareCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads the configuration, applies the global flags and starts the
// logger and profiler.
func (a *app) setup() error {
	cfg := a.cfg
	if a.configFile != "" {
		loaded, err := config.LoadConfig(a.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := a.applyConfig(cfg); err != nil {
		return err
	}

	switch a.profileMode {
	case "":
	case "cpu":
		a.profile = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	case "mem":
		a.profile = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
	default:
		return fmt.Errorf("unknown profile mode %q, expected cpu or mem", a.profileMode)
	}
	return nil
}

// applyConfig validates cfg with the global flag overrides applied and makes
// it current. The logger is rebuilt from its logging section.
func (a *app) applyConfig(cfg *config.Config) error {
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errs[0])
	}

	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	switch cfg.Logging.Output {
	case "", "stderr":
		logCfg.Writer = a.stderr
	case "stdout":
		logCfg.Writer = a.stdout
	}
	a.logger = logging.New(logCfg).WithComponent("cli")
	a.cfg = cfg
	return nil
}

func (a *app) teardown() {
	if a.profile != nil {
		a.profile.Stop()
		a.profile = nil
	}
}

// searchPath returns the class library search path: the --dso-path flag or
// the configured path, followed by the directories found from the
// environment.
func (a *app) searchPath() string {
	chosen := a.dsoPath
	if chosen == "" {
		chosen = a.cfg.Dso.Path
	}
	found := a.finder.Find()
	if chosen != "" {
		return chosen + ":" + found
	}
	return found
}

// newContext returns a scene context configured from the global settings.
// The caller closes it.
func (a *app) newContext() *rdl2.SceneContext {
	path := a.searchPath()
	a.logger.Debug("creating scene context", "dsoPath", path, "proxy", a.cfg.Dso.ProxyMode)
	return rdl2.NewSceneContext(
		rdl2.WithDsoPath(path),
		rdl2.WithProxyMode(a.cfg.Dso.ProxyMode),
		rdl2.WithLogger(a.logger),
	)
}

// readerOptions returns the reader policies from the configuration.
func (a *app) readerOptions() []rdlb.ReaderOption {
	return []rdlb.ReaderOption{
		rdlb.WithWarningsAsErrors(a.cfg.Reader.WarningsAsErrors),
		rdlb.WithLogger(a.logger),
	}
}
