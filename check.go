package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	cmd2 "github.com/kastheco/hisect/cmd"
	"github.com/kastheco/hisect/internal/check"
	"github.com/kastheco/hisect/outline/treestore"
)

// errUnhealthy is returned when health < 100% to signal exit code 1 without printing a message.
var errUnhealthy = errors.New("unhealthy")

func newCheckCmd(open func() (cmd2.Deps, func(), error)) *cobra.Command {
	var verbose, fix bool
	cmd := &cobra.Command{
		Use:   "check [document...]",
		Short: "Audit the section markers of stored documents",
		Long: `Audits every node whose name carries the marker delimiter:

  1. Placement  (markers must be root items)
  2. Naming     (names must be "--- title ---"; a stored pin is stale)
  3. Ordinals   (a rebuild must number markers 0..n-1 in sibling order)

Without arguments every stored document is checked. --fix moves nested
markers to the root, rebuilds and saves. Exit code 0 if 100% healthy, exit
code 1 otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, release, err := open()
			if err != nil {
				return err
			}
			defer release()
			return runCheck(cmd.OutOrStdout(), deps.Store, args, verbose, fix)
		},
		// Health failures are not usage errors.
		SilenceUsage: true,
		// Suppress cobra's "Error: ..." line for the unhealthy sentinel.
		SilenceErrors: true,
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show every marker, not only problems")
	cmd.Flags().BoolVar(&fix, "fix", false, "repair and save documents before auditing")
	return cmd
}

func runCheck(out io.Writer, store treestore.Store, names []string, verbose, fix bool) error {
	if len(names) == 0 {
		docs, err := store.List()
		if err != nil {
			return err
		}
		for _, d := range docs {
			names = append(names, d.Name)
		}
	}

	ok, total := 0, 0
	for _, name := range names {
		tree, err := treestore.LoadTree(store, name)
		if err != nil {
			return err
		}
		if fix {
			report, moved := check.Fix(tree)
			if err := treestore.SaveTree(store, name, tree); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nfixed %s: %d renamed, %d moved to the root\n", name, len(report.Renamed), moved)
		}
		result, err := check.Audit(name, tree)
		if err != nil {
			return err
		}
		renderResult(out, result, verbose)
		o, t := result.Summary()
		ok += o
		total += t
	}

	pct := 100
	if total > 0 {
		pct = ok * 100 / total
	}
	fmt.Fprintf(out, "\nHealth: %d/%d OK (%d%%)\n", ok, total, pct)

	if pct < 100 {
		return errUnhealthy
	}
	return nil
}

func renderResult(out io.Writer, r *check.AuditResult, verbose bool) {
	fmt.Fprintf(out, "\n%s (%d nodes, %d markers):\n", r.Document, r.Nodes, len(r.Markers))
	for _, m := range r.Markers {
		if m.Status == check.StatusOK && !verbose {
			continue
		}
		mark := "✓"
		if m.Status != check.StatusOK {
			mark = "✗"
		}
		line := fmt.Sprintf("  %s #%-5d %-14s %s", mark, m.ID, m.Status, m.Name)
		if m.Detail != "" {
			line += "  → " + m.Detail
		}
		fmt.Fprintln(out, line)
	}
	if r.DenseOrdinals {
		if verbose {
			fmt.Fprintln(out, "  ✓ ordinals")
		}
	} else {
		fmt.Fprintf(out, "  ✗ ordinals: %s\n", r.OrdinalDetail)
	}
}
