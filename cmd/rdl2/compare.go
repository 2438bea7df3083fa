package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
	"github.com/KilimcininKorOglu/rdl2/internal/sceneio"
)

// errScenesDiffer makes compare exit non-zero after printing the report.
var errScenesDiffer = errors.New("scenes differ")

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file A> <file B>",
		Short: "Compare the objects and values of two scene files",
		Long: `Reads both scene files and reports the objects found in only one of them
and the attributes whose values or bindings differ. Class libraries are opened
in proxy mode, so only their declarations are needed. Exits non-zero when the
scenes differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.compare(args[0], args[1])
		},
	}
}

func (a *app) compare(pathA, pathB string) error {
	ctxA, err := a.loadProxyScene(pathA)
	if err != nil {
		return err
	}
	defer ctxA.Close()
	ctxB, err := a.loadProxyScene(pathB)
	if err != nil {
		return err
	}
	defer ctxB.Close()

	d := rdl2.CompareScenes(ctxA, ctxB)
	if d.Same() {
		fmt.Fprintln(a.stdout, "Scenes are the same")
		return nil
	}
	printNames(a, "In A but not B:", d.OnlyInA)
	printNames(a, "In B but not A:", d.OnlyInB)
	for _, od := range d.Objects {
		fmt.Fprintln(a.stdout, od.Name)
		if od.ClassA != "" {
			fmt.Fprintf(a.stdout, "    classes differ: %s, %s\n", od.ClassA, od.ClassB)
			continue
		}
		fmt.Fprintln(a.stdout, "    attributes differ")
		fmt.Fprintf(a.stdout, "        %s\n", strings.Join(od.Attributes, " "))
	}
	return errScenesDiffer
}

func printNames(a *app, header string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintln(a.stdout, header)
	for _, name := range names {
		fmt.Fprintf(a.stdout, "    %s\n", name)
	}
}

// loadProxyScene reads path into a new context that opens class libraries
// in proxy mode.
func (a *app) loadProxyScene(path string) (*rdl2.SceneContext, error) {
	ctx := rdl2.NewSceneContext(
		rdl2.WithDsoPath(a.searchPath()),
		rdl2.WithProxyMode(true),
		rdl2.WithLogger(a.logger),
	)
	a.logger.Info("reading scene", "input", path)
	if err := sceneio.ReadSceneFromFile(ctx, path, a.readerOptions()...); err != nil {
		ctx.Close()
		return nil, err
	}
	return ctx, nil
}
