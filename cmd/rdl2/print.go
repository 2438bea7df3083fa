package main

import (
	"fmt"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/rdl2/internal/rdl2"
	"github.com/KilimcininKorOglu/rdl2/internal/rdlb"
	"github.com/KilimcininKorOglu/rdl2/internal/sceneio"
)

func newPrintCmd(a *app) *cobra.Command {
	var (
		filter  string
		classes []string
		sorted  bool
	)

	cmd := &cobra.Command{
		Use:   "print <scene file>...",
		Short: "Print the objects of one or more scene files",
		Long: `Loads the given files into one scene and prints every object with its
attribute values and bindings. Pass both halves of a split scene to see it
whole. --filter matches object names with a glob where '*' stops at '/' and
'**' does not.`,
		Example: `  rdl2 print scene.rdla scene.rdlb
  rdl2 print scene.rdlb --filter '/Scene/lights/*' --sort
  rdl2 print scene.rdlb --class RenderOutput`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keep, err := objectFilter(filter, classes)
			if err != nil {
				return err
			}
			return a.print(args, keep, sorted)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&filter, "filter", "o", "", "only print objects whose name matches this glob")
	f.StringSliceVarP(&classes, "class", "c", nil, "only print objects of these classes")
	f.BoolVar(&sorted, "sort", false, "sort attributes and object lists by name")
	return cmd
}

// objectFilter combines the name glob and class list. A nil result keeps
// every object.
func objectFilter(pattern string, classes []string) (func(*rdl2.SceneObject) bool, error) {
	var g glob.Glob
	if pattern != "" {
		var err error
		if g, err = glob.Compile(pattern, '/'); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
		}
	}
	if g == nil && len(classes) == 0 {
		return nil, nil
	}
	want := make(map[string]bool, len(classes))
	for _, c := range classes {
		want[c] = true
	}
	return func(obj *rdl2.SceneObject) bool {
		if g != nil && !g.Match(obj.Name()) {
			return false
		}
		return len(want) == 0 || want[obj.Class().Name()]
	}, nil
}

func (a *app) print(paths []string, keep func(*rdl2.SceneObject) bool, sorted bool) error {
	ctx := a.newContext()
	defer ctx.Close()

	for _, path := range paths {
		if err := sceneio.ReadSceneFromFile(ctx, path, a.readerOptions()...); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.stdout, rdlb.NewWriter(ctx).ShowFiltered("", sorted, keep))
	return nil
}
