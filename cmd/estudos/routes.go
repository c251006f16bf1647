package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/app-estudos/estudos/internal/errors"
	"github.com/app-estudos/estudos/pkg/server"
)

func routesCmd(dir *string) *cobra.Command {
	var (
		format string
		load   bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List every route in declaration order.

With --load, every view is loaded first, so load states and counts
reflect a warm table.

Examples:
  estudos routes
  estudos routes --format=json
  estudos routes --load --format=yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir, io.Discard)
			if err != nil {
				return err
			}
			if load {
				if err := a.table.Prefetch(context.Background()); err != nil {
					return errors.New("E202").Wrap(err)
				}
			}
			routes := server.DescribeRoutes(a.table, func(p string) string { return a.history.Href(p, nil) })
			return writeRoutes(cmd.OutOrStdout(), format, routes)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&load, "load", false, "Load every view before listing")

	return cmd
}

func writeRoutes(w io.Writer, format string, routes []server.RouteInfo) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(routes)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(routes)
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ROUTE\tNAME\tHREF\tSTATE\tLOADS")
		for _, r := range routes {
			path := r.Path
			if r.Default {
				path = "(default)"
			}
			name := r.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%d\n",
				strings.Repeat("  ", r.Depth), path, name, r.Href, r.State, r.Loads)
		}
		return tw.Flush()
	default:
		return errors.New("E400").
			WithDetailf("format %q", format).
			WithSuggestion("Use --format=text, --format=json or --format=yaml")
	}
}

