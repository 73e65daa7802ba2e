package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/starter/pkg/nav"
	"github.com/vango-dev/starter/pkg/views"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the page routes in match order",
		Long: `List the page routes in the order they are tried.

The first route whose pattern matches a path wins. Routes that can never
match because an earlier route covers them are flagged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			table := views.Routes()

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tPATTERN\tPARAMS")
			for i, p := range table.Routes() {
				params := strings.Join(p.Params(), ", ")
				if params == "" {
					params = "-"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, p, params)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			shadowed := table.Shadowed()
			names := make([]string, 0, len(shadowed))
			for name := range shadowed {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				warn(out, "%s is shadowed by %s", name, shadowed[name])
			}
			return nil
		},
	}
}

func matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <path>",
		Short: "Show which route a path resolves to",
		Long: `Show which route a path resolves to and the parameters it captures.

The path is canonicalized first, as it would be during navigation.

Examples:
  starter match /greet/ada
  starter match /contact/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			path, _, _ := strings.Cut(args[0], "?")
			path, err := nav.CanonicalizePath(path)
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[0], err)
			}

			m := views.Routes().Match(path)
			if !m.Found() {
				warn(out, "%s matches no route (not found page)", path)
				return nil
			}
			success(out, "%s matches %s", path, m.Pattern)
			names := make([]string, 0, len(m.Params))
			for name := range m.Params {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				info(out, "%s = %s", name, m.Params[name])
			}
			return nil
		},
	}
}
