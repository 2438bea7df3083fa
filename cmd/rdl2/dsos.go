package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/rdl2/internal/dso"
)

func newDsosCmd(a *app) *cobra.Command {
	var proxy bool

	cmd := &cobra.Command{
		Use:   "dsos <directory>",
		Short: "Check the class libraries in a directory",
		Long: `Opens every class library in the directory and reports whether it exports
the symbols a scene class needs. With --proxy, proxy libraries are checked and
only the declare entry point is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dsos(args[0], proxy)
		},
	}
	cmd.Flags().BoolVar(&proxy, "proxy", false, "check proxy libraries")
	return cmd
}

func (a *app) dsos(dir string, proxy bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	invalid := 0
	for _, e := range entries {
		if e.IsDir() || isProxyFile(e.Name()) != proxy || dso.ClassNameFromFileName(e.Name()) == "" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		status := "valid"
		if !dso.IsValidDso(path, proxy) {
			status = "invalid"
			invalid++
		}
		a.logger.Debug("checked class library", "file", path, "status", status)
		fmt.Fprintf(a.stdout, "%s\t%s\n", status, path)
	}
	if invalid > 0 {
		return fmt.Errorf("%d invalid class libraries in %s", invalid, dir)
	}
	return nil
}
