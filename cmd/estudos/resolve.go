package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/app-estudos/estudos/internal/errors"
	"github.com/app-estudos/estudos/pkg/router"
	"github.com/app-estudos/estudos/pkg/view"
)

func resolveCmd(dir *string) *cobra.Command {
	var (
		name   string
		render bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [path]",
		Short: "Show the layout chain a path resolves to",
		Long: `Resolve a path, or a route name with --name, and print the chain of
routes from the base layout to the matched view.

With --render, the chain is loaded and the composed HTML is printed.

Examples:
  estudos resolve /trabalhos/novo
  estudos resolve --name=dashboard --render`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case name == "" && len(args) != 1:
				return errors.New("E401").WithDetail("resolve needs a path or --name")
			case name != "" && len(args) != 0:
				return errors.New("E401").WithDetail("give either a path or --name, not both")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir, io.Discard)
			if err != nil {
				return err
			}

			var m *router.Match
			if name != "" {
				m, err = a.table.ResolveByName(name, nil)
			} else {
				loc, lerr := a.history.Location(args[0])
				if lerr != nil {
					return errors.New("E201").WithDetailf("%q", args[0]).Wrap(lerr)
				}
				m, err = a.table.Resolve(loc.Path)
			}
			if err != nil {
				return errors.New("E201").Wrap(err)
			}

			out := cmd.OutOrStdout()
			printChain(out, m)
			if !render {
				return nil
			}

			tree, err := a.table.Render(context.Background(), m)
			if err != nil {
				var loadErr *router.LoadError
				if stderrors.As(err, &loadErr) {
					return errors.New("E202").Wrap(err)
				}
				return errors.New("E203").Wrap(err)
			}
			html, err := view.RenderToString(tree)
			if err != nil {
				return errors.New("E203").Wrap(err)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, html)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Resolve a route by name")
	cmd.Flags().BoolVarP(&render, "render", "r", false, "Load and render the chain")

	return cmd
}

func printChain(w io.Writer, m *router.Match) {
	fmt.Fprintf(w, "%s\n", m.Path)
	for _, n := range m.Chain {
		label := n.Path()
		if n.IsDefault() {
			label = "(default)"
		}
		if n.Name() != "" {
			label += " [" + n.Name() + "]"
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", n.Depth()+1), label)
	}
}
