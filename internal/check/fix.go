package check

import (
	"fmt"

	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/section"
)

// rebuild runs a registry rebuild on a copy of tree.
func rebuild(tree *outline.Tree) (*outline.Tree, *section.Registry, error) {
	clone, err := outline.FromRecords(tree.Records())
	if err != nil {
		return nil, nil, fmt.Errorf("copy outline: %w", err)
	}
	reg := section.NewRegistry()
	section.NewReconciler(clone, reg, false, nil).Rebuild()
	return clone, reg, nil
}

// Fix repairs tree in place: nested markers are moved to the end of the root
// and the registry is rebuilt, which rewrites every name canonically. It
// returns the rebuild report and the number of moved markers.
func Fix(tree *outline.Tree) (section.ChangeReport, int) {
	moved := 0
	for _, row := range tree.Flatten() {
		if row.Depth == 0 || !section.IsMarkerName(tree.DisplayName(row.ID)) {
			continue
		}
		tree.SetParent(row.ID, section.NoIdentity)
		moved++
	}
	report := section.NewReconciler(tree, section.NewRegistry(), false, nil).Rebuild()
	tree.Flush()
	return report, moved
}
