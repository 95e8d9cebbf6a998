package section

// ChangeKind is the coarse classification of a tree change notification.
type ChangeKind int

const (
	// ChangeUnchanged covers renames, reorders and anything else that keeps the
	// root count. A delete and an insert in the same batch also lands here.
	ChangeUnchanged ChangeKind = iota
	ChangeDeleted
	ChangeInserted
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeDeleted:
		return "deleted"
	case ChangeInserted:
		return "inserted"
	default:
		return "unchanged"
	}
}

// Classify compares the previous and current root counts.
func Classify(prev, cur int) ChangeKind {
	switch {
	case prev > cur:
		return ChangeDeleted
	case prev < cur:
		return ChangeInserted
	default:
		return ChangeUnchanged
	}
}
