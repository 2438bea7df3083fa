package main

import (
	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/rdl2/internal/config"
	"github.com/KilimcininKorOglu/rdl2/internal/rdlb"
	"github.com/KilimcininKorOglu/rdl2/internal/sceneio"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		elements         int
		delta            bool
		skipDefaults     bool
		transient        bool
		warningsAsErrors bool
		watch            bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input file> <output file>",
		Short: "Convert scene files between text and binary formats",
		Long: `Converts scene files between the .rdla and .rdlb formats. An output path
without extension writes a split pair: small values to <output>.rdla and long
vectors to <output>.rdlb.

With --watch the conversion runs again whenever the --config file changes,
until the command is interrupted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			// Flags win over the configuration file, including reloaded
			// ones.
			override := func(cfg *config.Config) {
				w := &cfg.Writer
				if flags.Changed("elements") {
					w.ElemsPerLine = elements
				}
				if flags.Changed("delta") {
					w.DeltaEncoding = delta
				}
				if flags.Changed("skip-defaults") {
					w.SkipDefaults = skipDefaults
				}
				if flags.Changed("transient") {
					w.TransientEncoding = transient
				}
				if flags.Changed("warnings-as-errors") {
					cfg.Reader.WarningsAsErrors = warningsAsErrors
				}
			}
			override(a.cfg)
			if watch {
				return a.watchConvert(cmd.Context(), args[0], args[1], override)
			}
			return a.convert(args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.IntVarP(&elements, "elements", "e", 0, "text vector elements per line, 0 for unlimited")
	f.BoolVar(&delta, "delta", true, "write only changed objects and attributes")
	f.BoolVar(&skipDefaults, "skip-defaults", true, "omit attributes holding their default value")
	f.BoolVar(&transient, "transient", false, "identify attributes by index in binary output")
	f.BoolVar(&warningsAsErrors, "warnings-as-errors", false, "fail on unknown classes and attributes")
	f.BoolVar(&watch, "watch", false, "convert again whenever the --config file changes")
	return cmd
}

func (a *app) convert(in, out string) error {
	ctx := a.newContext()
	defer ctx.Close()

	log := a.logger.WithFields("input", in, "output", out)
	log.Info("reading scene")
	if err := sceneio.ReadSceneFromFile(ctx, in, a.readerOptions()...); err != nil {
		return err
	}

	wc := a.cfg.Writer
	log.Info("writing scene", "objects", len(ctx.Objects()), "delta", wc.DeltaEncoding, "skipDefaults", wc.SkipDefaults)

	// Transient encoding is only offered by the binary writer.
	if wc.TransientEncoding && sceneio.Extension(out) == sceneio.ExtBinary {
		w := rdlb.NewWriter(ctx)
		w.SetTransientEncoding(true)
		w.SetDeltaEncoding(wc.DeltaEncoding)
		w.SetSkipDefaults(wc.SkipDefaults)
		return w.ToFile(out)
	}
	return sceneio.WriteSceneToFile(ctx, out, sceneio.Options{
		DeltaEncoding:   wc.DeltaEncoding,
		SkipDefaults:    wc.SkipDefaults,
		ElemsPerLine:    wc.ElemsPerLine,
		SplitVectorSize: wc.SplitVectorSize,
	})
}
