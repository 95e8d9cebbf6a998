package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cmd2 "github.com/kastheco/hisect/cmd"
	"github.com/kastheco/hisect/outline/outlinefile"
	"github.com/kastheco/hisect/outline/treestore"
	"github.com/kastheco/hisect/section"
)

func executeDocsList(store treestore.Store) (string, error) {
	docs, err := store.List()
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "no documents\n", nil
	}
	var sb strings.Builder
	for _, d := range docs {
		fmt.Fprintf(&sb, "%-24s %5d nodes  %s\n", d.Name, d.Nodes, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return sb.String(), nil
}

// executeDocsImport stores the YAML outline at path. The document is named
// after name, the file's name field, or the file name, in that order.
func executeDocsImport(store treestore.Store, path, name string, force bool) (string, int, error) {
	f, err := outlinefile.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	if name == "" {
		name = f.Name
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if !force {
		if _, err := store.Get(name); err == nil {
			return "", 0, fmt.Errorf("document already exists: %s (use --force to replace it)", name)
		} else if !errors.Is(err, treestore.ErrNotFound) {
			return "", 0, err
		}
	}
	tree := f.Tree()
	if err := treestore.SaveTree(store, name, tree); err != nil {
		return "", 0, err
	}
	return name, tree.Len(), nil
}

// executeDocsExport writes name as YAML to w.
func executeDocsExport(store treestore.Store, name string, w io.Writer) error {
	tree, err := treestore.LoadTree(store, name)
	if err != nil {
		return err
	}
	return outlinefile.Encode(w, outlinefile.FromTree(name, tree))
}

func executeDocsRemove(store treestore.Store, name string, confirm section.Confirmer) error {
	if _, err := store.Get(name); err != nil {
		return err
	}
	if confirm == nil || !confirm(fmt.Sprintf("Delete document %s?", name)) {
		return section.ErrDeclined
	}
	return store.Delete(name)
}

func newDocsCmd(open func() (cmd2.Deps, func(), error)) *cobra.Command {
	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "manage stored outline documents",
	}

	// run wraps a subcommand body with store setup and teardown.
	run := func(body func(cmd *cobra.Command, args []string, store treestore.Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			deps, release, err := open()
			if err != nil {
				return err
			}
			defer release()
			return body(cmd, args, deps.Store)
		}
	}

	docsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list stored documents",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, store treestore.Store) error {
			out, err := executeDocsList(store)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}),
	})

	var nameFlag string
	var forceFlag bool
	importCmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "store a YAML outline as a document",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, store treestore.Store) error {
			name, n, err := executeDocsImport(store, args[0], nameFlag, forceFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d nodes\n", name, n)
			return nil
		}),
	}
	importCmd.Flags().StringVar(&nameFlag, "name", "", "document name (default: the file's name field)")
	importCmd.Flags().BoolVar(&forceFlag, "force", false, "replace an existing document")
	docsCmd.AddCommand(importCmd)

	docsCmd.AddCommand(&cobra.Command{
		Use:   "export <document> [file.yaml]",
		Short: "write a document as YAML (stdout without a file)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: run(func(cmd *cobra.Command, args []string, store treestore.Store) error {
			if len(args) == 1 {
				return executeDocsExport(store, args[0], cmd.OutOrStdout())
			}
			fh, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("create outline file: %w", err)
			}
			if err := executeDocsExport(store, args[0], fh); err != nil {
				fh.Close()
				return err
			}
			return fh.Close()
		}),
	})

	docsCmd.AddCommand(&cobra.Command{
		Use:   "mv <document> <new-name>",
		Short: "rename a document",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(cmd *cobra.Command, args []string, store treestore.Store) error {
			if err := store.Rename(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", args[0], args[1])
			return nil
		}),
	})

	var yesFlag bool
	rmCmd := &cobra.Command{
		Use:   "rm <document>",
		Short: "delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string, store treestore.Store) error {
			err := executeDocsRemove(store, args[0], cmd2.NewConfirmer(yesFlag))
			if errors.Is(err, section.ErrDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "kept", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		}),
	}
	rmCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "delete without asking")
	docsCmd.AddCommand(rmCmd)

	return docsCmd
}
