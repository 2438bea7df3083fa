package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/rdl2/internal/rdlb"
	"github.com/KilimcininKorOglu/rdl2/internal/sceneio"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.rdlb>",
		Short: "Print the record manifest of a binary scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.info(args[0])
		},
	}
}

func (a *app) info(path string) error {
	if ext := sceneio.Extension(path); ext != sceneio.ExtBinary {
		return fmt.Errorf("info reads .%s files, got '%s'", sceneio.ExtBinary, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	manifest, payload, err := rdlb.SplitFrame(data)
	if err != nil {
		return err
	}
	listing, err := rdlb.ShowManifest(manifest)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "file:          %s\n", path)
	fmt.Fprintf(a.stdout, "manifest size: %d\n", len(manifest))
	fmt.Fprintf(a.stdout, "payload size:  %d\n", len(payload))
	fmt.Fprintln(a.stdout, listing)
	return nil
}
