package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kastheco/hisect/config"
	"github.com/kastheco/hisect/config/auditlog"
	"github.com/kastheco/hisect/log"
	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/outline/treestore"
	"github.com/kastheco/hisect/section"
)

// Deps is what the marker commands need from the environment.
type Deps struct {
	Store  treestore.Store
	Audit  auditlog.Logger
	Config *config.Config
}

// markerDoc is a stored document with a section session attached.
type markerDoc struct {
	deps    Deps
	name    string
	tree    *outline.Tree
	session *section.Session
}

func openMarkerDoc(deps Deps, name string) (*markerDoc, error) {
	if name == "" {
		docs, err := deps.Store.List()
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("no documents; import one with `hisect docs import`")
		}
		name = docs[0].Name
	}
	tree, err := treestore.LoadTree(deps.Store, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	audit := deps.Audit
	if audit == nil {
		audit = auditlog.NopLogger()
	}
	s := section.NewSession(tree,
		section.WithColors(cfg.Colors),
		section.WithAutoTag(cfg.AutoTagOnRegister),
		section.WithAuditLog(audit, name),
	)
	tree.Subscribe(func() { s.OnTreeChanged() }, s.OnSelectionChanged)
	tree.Flush()
	return &markerDoc{deps: deps, name: name, tree: tree, session: s}, nil
}

func (d *markerDoc) save() error {
	d.tree.Flush()
	if err := treestore.SaveTree(d.deps.Store, d.name, d.tree); err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	return nil
}

// find resolves ref to a node: "#<id>" by identity, otherwise by exact display
// name, then by marker title.
func (d *markerDoc) find(ref string) (section.Identity, error) {
	if rest, ok := strings.CutPrefix(ref, "#"); ok {
		n, err := strconv.ParseInt(rest, 10, 64)
		if err == nil && d.tree.Resolve(section.Identity(n)) {
			return section.Identity(n), nil
		}
		return section.NoIdentity, fmt.Errorf("no node %s in %s", ref, d.name)
	}
	rows := d.tree.Flatten()
	for _, row := range rows {
		if d.tree.DisplayName(row.ID) == ref {
			return row.ID, nil
		}
	}
	for _, row := range rows {
		name := d.tree.DisplayName(row.ID)
		if section.IsMarkerName(name) && section.Canonicalize(name) == ref {
			return row.ID, nil
		}
	}
	return section.NoIdentity, fmt.Errorf("no node %q in %s", ref, d.name)
}

// findMarker resolves ref and requires a registered marker.
func (d *markerDoc) findMarker(ref string) (*section.Marker, error) {
	id, err := d.find(ref)
	if err != nil {
		return nil, err
	}
	m, ok := d.session.Registry().Get(id)
	if !ok {
		return nil, fmt.Errorf("%q is not a marker", ref)
	}
	return m, nil
}

func formatMarker(m *section.Marker) string {
	return fmt.Sprintf("%3d  #%-5d %s", m.Ordinal+1, m.ID, m.Title)
}

// executeMarkersList returns one line per marker in ordinal order.
func executeMarkersList(deps Deps, doc string) (string, error) {
	d, err := openMarkerDoc(deps, doc)
	if err != nil {
		return "", err
	}
	markers := d.session.Markers()
	if len(markers) == 0 {
		return "no markers\n", nil
	}
	var sb strings.Builder
	for _, m := range markers {
		sb.WriteString(formatMarker(m) + "\n")
	}
	return sb.String(), nil
}

// executeMarkersCreate adds a marker after the root item holding after, or at
// the end when after is empty, and optionally titles it.
func executeMarkersCreate(deps Deps, doc, after, title string) (*section.Marker, error) {
	d, err := openMarkerDoc(deps, doc)
	if err != nil {
		return nil, err
	}
	if after != "" {
		id, err := d.find(after)
		if err != nil {
			return nil, err
		}
		d.tree.SetActiveSelection([]section.Identity{id})
	}
	id := d.session.CreateMarkerAtSelection()
	d.tree.Flush()
	if title != "" {
		// The marker is selected, so the rename is canonicalized on flush.
		d.tree.SetDisplayName(id, title)
	}
	if err := d.save(); err != nil {
		return nil, err
	}
	m, ok := d.session.Registry().Get(id)
	if !ok {
		return nil, fmt.Errorf("marker %d was not registered", id)
	}
	return m, nil
}

// executeMarkersStep returns the marker delta steps away from the marker
// from, wrapping around. An empty from starts at the first or last marker.
func executeMarkersStep(deps Deps, doc, from string, delta int) (*section.Marker, error) {
	d, err := openMarkerDoc(deps, doc)
	if err != nil {
		return nil, err
	}
	if from != "" {
		m, err := d.findMarker(from)
		if err != nil {
			return nil, err
		}
		d.session.Navigator().SetCurrent(m.ID)
	}
	var ok bool
	if delta < 0 {
		ok = d.session.SelectPreviousMarker()
	} else {
		ok = d.session.SelectNextMarker()
	}
	if !ok {
		return nil, fmt.Errorf("%s has no markers", d.name)
	}
	m, _ := d.session.Current()
	return m, nil
}

// executeMarkersRenumber renumbers markers by sibling position.
func executeMarkersRenumber(deps Deps, doc string) (bool, error) {
	d, err := openMarkerDoc(deps, doc)
	if err != nil {
		return false, err
	}
	report := d.session.RefreshOrder()
	return report.Reordered, d.save()
}

// executeMarkersRebuild rescans the document for markers after confirmation.
func executeMarkersRebuild(deps Deps, doc string, confirm section.Confirmer) (section.ChangeReport, int, error) {
	d, err := openMarkerDoc(deps, doc)
	if err != nil {
		return section.ChangeReport{}, 0, err
	}
	report, err := d.session.RefreshRegistry(confirm)
	if err != nil {
		return report, 0, err
	}
	return report, d.session.Registry().Len(), d.save()
}

// executeMarkersClear deletes every marker node after confirmation.
func executeMarkersClear(deps Deps, doc string, confirm section.Confirmer) (int, error) {
	d, err := openMarkerDoc(deps, doc)
	if err != nil {
		return 0, err
	}
	n, err := d.session.RemoveAllMarkers(confirm)
	if err != nil || n == 0 {
		return n, err
	}
	return n, d.save()
}

// executeMarkersMove places nodes right below (or above) the target marker.
func executeMarkersMove(deps Deps, doc, target string, nodes []string, upper bool) error {
	d, err := openMarkerDoc(deps, doc)
	if err != nil {
		return err
	}
	m, err := d.findMarker(target)
	if err != nil {
		return err
	}
	sel := make([]section.Identity, 0, len(nodes))
	for _, ref := range nodes {
		id, err := d.find(ref)
		if err != nil {
			return err
		}
		sel = append(sel, id)
	}
	d.session.Navigator().SetCurrent(m.ID)
	d.tree.SetActiveSelection(sel)
	d.tree.Flush()

	var moved bool
	if upper {
		moved = d.session.MoveSelectionToMarkerUpper()
	} else {
		moved = d.session.MoveSelectionToMarker()
	}
	if !moved {
		return fmt.Errorf("nothing moved: markers cannot be moved next to a marker")
	}
	return d.save()
}

// executeMarkersRename gives a marker a new title.
func executeMarkersRename(deps Deps, doc, ref, title string) (*section.Marker, error) {
	d, err := openMarkerDoc(deps, doc)
	if err != nil {
		return nil, err
	}
	m, err := d.findMarker(ref)
	if err != nil {
		return nil, err
	}
	d.tree.SetActiveSelection([]section.Identity{m.ID})
	d.tree.Flush()
	if _, ok := d.session.BeginRename(); !ok {
		return nil, fmt.Errorf("cannot rename %q", ref)
	}
	d.tree.SetDisplayName(m.ID, title)
	d.session.ConfirmRename()
	if err := d.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMarkersCmd returns the `markers` command tree. open is called by each
// subcommand to reach the store; the returned func releases it.
func NewMarkersCmd(open func() (Deps, func(), error)) *cobra.Command {
	var docFlag string
	var yesFlag bool

	markersCmd := &cobra.Command{
		Use:   "markers",
		Short: "manage section markers of a stored document",
	}
	markersCmd.PersistentFlags().StringVarP(&docFlag, "doc", "d", "", "document to edit (default: first by name)")
	markersCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "accept confirmation prompts")

	// run wraps a subcommand body with dependency setup and teardown.
	run := func(body func(cmd *cobra.Command, args []string, deps Deps) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			deps, release, err := open()
			if err != nil {
				return err
			}
			defer release()
			return body(cmd, args, deps)
		}
	}
	confirmer := func(deps Deps) section.Confirmer {
		return NewConfirmer(yesFlag || (deps.Config != nil && deps.Config.AutoYes))
	}

	// hisect markers list
	markersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list markers in ordinal order",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, deps Deps) error {
			out, err := executeMarkersList(deps, docFlag)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}),
	})

	// hisect markers create
	var afterFlag, titleFlag string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "add a marker after a node, or at the end",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, deps Deps) error {
			m, err := executeMarkersCreate(deps, docFlag, afterFlag, titleFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created: %s\n", formatMarker(m))
			return nil
		}),
	}
	createCmd.Flags().StringVar(&afterFlag, "after", "", "node (name or #id) the marker follows")
	createCmd.Flags().StringVar(&titleFlag, "title", "", "marker title (default: "+section.DefaultTitle+")")
	markersCmd.AddCommand(createCmd)

	// hisect markers next / prev
	for _, step := range []struct {
		use, short string
		delta      int
	}{
		{"next [from]", "print the marker after from, wrapping around", 1},
		{"prev [from]", "print the marker before from, wrapping around", -1},
	} {
		markersCmd.AddCommand(&cobra.Command{
			Use:   step.use,
			Short: step.short,
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(cmd *cobra.Command, args []string, deps Deps) error {
				from := ""
				if len(args) == 1 {
					from = args[0]
				}
				m, err := executeMarkersStep(deps, docFlag, from, step.delta)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatMarker(m))
				return nil
			}),
		})
	}

	// hisect markers renumber
	markersCmd.AddCommand(&cobra.Command{
		Use:     "renumber",
		Aliases: []string{"refresh"},
		Short:   "renumber markers from their position",
		Args:    cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, deps Deps) error {
			reordered, err := executeMarkersRenumber(deps, docFlag)
			if err != nil {
				return err
			}
			if reordered {
				fmt.Fprintln(cmd.OutOrStdout(), "markers renumbered")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "order unchanged")
			}
			return nil
		}),
	})

	// hisect markers rebuild
	markersCmd.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "rescan every root item for markers",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, deps Deps) error {
			report, n, err := executeMarkersRebuild(deps, docFlag, confirmer(deps))
			if errors.Is(err, section.ErrDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "rebuild declined")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rebuilt: %d markers, %d renamed, %d moved to the root\n",
				n, len(report.Renamed), len(report.Reparented))
			return nil
		}),
	})

	// hisect markers clear
	markersCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "delete every marker node",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, _ []string, deps Deps) error {
			n, err := executeMarkersClear(deps, docFlag, confirmer(deps))
			if errors.Is(err, section.ErrDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "clear declined")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d markers\n", n)
			return nil
		}),
	})

	// hisect markers move
	var upperFlag bool
	moveCmd := &cobra.Command{
		Use:   "move <marker> <node>...",
		Short: "move root items right below a marker",
		Args:  cobra.MinimumNArgs(2),
		RunE: run(func(cmd *cobra.Command, args []string, deps Deps) error {
			if err := executeMarkersMove(deps, docFlag, args[0], args[1:], upperFlag); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %d nodes\n", len(args)-1)
			return nil
		}),
	}
	moveCmd.Flags().BoolVar(&upperFlag, "upper", false, "place the nodes above the marker")
	markersCmd.AddCommand(moveCmd)

	// hisect markers rename
	markersCmd.AddCommand(&cobra.Command{
		Use:   "rename <marker> <title>",
		Short: "retitle a marker",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(cmd *cobra.Command, args []string, deps Deps) error {
			m, err := executeMarkersRename(deps, docFlag, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed: %s\n", formatMarker(m))
			return nil
		}),
	})

	return markersCmd
}

// OpenDeps opens the configured document store and audit log.
func OpenDeps() (Deps, func(), error) {
	cfg := config.LoadConfig()
	store, err := treestore.NewStoreFromConfig(cfg)
	if err != nil {
		return Deps{}, nil, err
	}
	var audit auditlog.Logger = auditlog.NopLogger()
	if path, err := cfg.AuditDBPath(); err == nil {
		if l, err := auditlog.NewSQLiteLogger(path); err == nil {
			audit = l
		} else {
			log.WarningLog.Printf("audit log disabled: %v", err)
		}
	}
	release := func() {
		if err := audit.Close(); err != nil {
			log.WarningLog.Printf("close audit log: %v", err)
		}
		if err := store.Close(); err != nil {
			log.WarningLog.Printf("close store: %v", err)
		}
	}
	return Deps{Store: store, Audit: audit, Config: cfg}, release, nil
}
