package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/rdl2/internal/dso"
	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
)

func newClassesCmd(a *app) *cobra.Command {
	var attrs bool

	cmd := &cobra.Command{
		Use:   "classes [class name]...",
		Short: "List the scene classes that can be declared",
		Long: `Without arguments, lists the built-in classes and the class libraries found
on the search path. With class names, or with --attrs, loads the classes and
prints their attributes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.classes(args, attrs)
		},
	}
	cmd.Flags().BoolVarP(&attrs, "attrs", "a", false, "print the attributes of every listed class")
	return cmd
}

// classSource maps a class name to where it comes from.
type classSource map[string]string

// discoverClasses returns the built-in classes of ctx and the libraries on
// searchPath. Earlier directories win, as they do when loading.
func discoverClasses(ctx *rdl2.SceneContext, searchPath string, proxy bool) classSource {
	found := classSource{}
	for _, name := range ctx.BuiltinNames() {
		found[name] = "builtin"
	}
	for _, dir := range strings.Split(searchPath, ":") {
		if dir == "" {
			continue
		}
		if expanded, err := homedir.Expand(dir); err == nil {
			dir = expanded
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || isProxyFile(e.Name()) != proxy {
				continue
			}
			name := dso.ClassNameFromFileName(e.Name())
			if name == "" {
				continue
			}
			if _, ok := found[name]; !ok {
				found[name] = filepath.Join(dir, e.Name())
			}
		}
	}
	return found
}

func isProxyFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), dso.ExtProxy)
}

func (a *app) classes(names []string, attrs bool) error {
	ctx := a.newContext()
	defer ctx.Close()

	found := discoverClasses(ctx, ctx.DsoPath(), ctx.IsProxyMode())
	if len(names) == 0 {
		for name := range found {
			names = append(names, name)
		}
		sort.Strings(names)
		if !attrs {
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, name := range names {
				fmt.Fprintf(tw, "%s\t%s\n", name, found[name])
			}
			return tw.Flush()
		}
	}

	for i, name := range names {
		sc, err := ctx.SceneClass(name)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		if err := a.printClass(sc); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printClass(sc *rdl2.SceneClass) error {
	fmt.Fprintf(a.stdout, "%s (%s)\n", sc.Name(), sc.DeclaredInterface())
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, attr := range sc.Attributes() {
		fmt.Fprintf(tw, "  %s\t%s\tdefault: %v", attr.Name(), attr.Type(), attr.DefaultValue())
		if attr.Flags() != rdl2.FlagsNone {
			fmt.Fprintf(tw, "\t%s", attr.Flags())
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
