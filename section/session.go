package section

import (
	"errors"
	"fmt"

	"github.com/kastheco/hisect/config"
	"github.com/kastheco/hisect/config/auditlog"
	"github.com/kastheco/hisect/log"
)

// ErrDeclined is returned when the user declines a destructive command.
var ErrDeclined = errors.New("declined")

// Confirmer asks the user to approve a destructive command.
type Confirmer func(prompt string) bool

// Prompts shown before destructive commands.
const (
	RefreshPrompt = "Rescan every root item for markers? This can take a while on large outlines."
	ClearPrompt   = "Delete all %d markers and their nodes?"
)

// Session is the per-document context: it owns the registry and everything
// built on it. Open one per document and drop it when the document closes.
// A Session is not safe for concurrent use.
type Session struct {
	host Host
	reg  *Registry
	rec  *Reconciler
	nav  *Navigator
	sel  *SelectionCache

	colors   config.Colors
	autoTag  bool
	audit    auditlog.Logger
	document string
}

// Option configures a Session.
type Option func(*Session)

// WithColors sets the palette used by RenderRow.
func WithColors(c config.Colors) Option {
	return func(s *Session) { s.colors = c }
}

// WithAutoTag tags newly registered markers with EditorOnlyTag.
func WithAutoTag(on bool) Option {
	return func(s *Session) { s.autoTag = on }
}

// WithAuditLog records reconciliation events for document.
func WithAuditLog(l auditlog.Logger, document string) Option {
	return func(s *Session) {
		if l != nil {
			s.audit = l
		}
		s.document = document
	}
}

// NewSession opens a session on host and builds the registry from the tree.
func NewSession(host Host, opts ...Option) *Session {
	s := &Session{
		colors: defaultColors(),
		audit:  auditlog.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.attach(host)
	return s
}

func (s *Session) attach(host Host) {
	s.host = host
	s.reg = NewRegistry()
	s.nav = NewNavigator(host, s.reg)
	s.rec = NewReconciler(host, s.reg, s.autoTag, s.nav.IsPinned)
	s.sel = NewSelectionCache(host, s.reg)

	report := s.rec.Rebuild()
	s.sel.Update()
	s.emit(auditlog.EventRegistryRebuilt, fmt.Sprintf("rebuilt registry with %d markers", s.reg.Len()))
	s.record(report)
}

// Switch discards all state and reopens the session on another document.
func (s *Session) Switch(host Host, document string) {
	s.nav.Reset()
	s.document = document
	s.attach(host)
}

// Registry exposes the marker registry for read access.
func (s *Session) Registry() *Registry { return s.reg }

// Navigator exposes the navigation state.
func (s *Session) Navigator() *Navigator { return s.nav }

// Markers returns the markers in ordinal order.
func (s *Session) Markers() []*Marker { return s.reg.Markers() }

// SetColors swaps the palette, e.g. after the settings file changed.
func (s *Session) SetColors(c config.Colors) { s.colors = c }

// OnTreeChanged is the host's change notification handler.
func (s *Session) OnTreeChanged() ChangeReport {
	report := s.rec.HandleChange()
	s.nav.Revalidate()
	s.record(report)
	return report
}

// OnSelectionChanged is the host's selection notification handler.
func (s *Session) OnSelectionChanged() {
	s.sel.Update()
}

// CreateMarkerAtSelection adds a default marker after the root item holding
// the current selection, or at the end of the root when nothing is selected.
func (s *Session) CreateMarkerAtSelection() Identity {
	anchor := NoIdentity
	if sel := s.host.ActiveSelection(); len(sel) > 0 {
		anchor = s.rootAncestor(sel[0])
	}
	id := s.host.CreateNode(Decorate(DefaultTitle, false))
	if anchor != NoIdentity {
		s.host.SetSiblingIndex(id, s.host.SiblingIndex(anchor)+1)
	}
	if !s.rec.Register(id) {
		log.WarningLog.Printf("new marker %d was not registered", id)
		return id
	}
	s.record(ChangeReport{Registered: []Identity{id}})
	if s.reg.Len() > 1 {
		s.record(s.rec.RecomputeOrder())
	}
	s.host.SetActiveSelection([]Identity{id})
	s.nav.SetCurrent(id)
	return id
}

func (s *Session) rootAncestor(id Identity) Identity {
	for i := 0; id != NoIdentity && s.host.Resolve(id); i++ {
		parent := s.host.Parent(id)
		if parent == NoIdentity {
			return id
		}
		id = parent
	}
	return NoIdentity
}

// MoveSelectionUp moves each selected root item one slot up.
func (s *Session) MoveSelectionUp() bool {
	return s.shiftSelection(-1)
}

// MoveSelectionDown moves each selected root item one slot down.
func (s *Session) MoveSelectionDown() bool {
	return s.shiftSelection(1)
}

func (s *Session) shiftSelection(delta int) bool {
	type item struct {
		id  Identity
		idx int
	}
	var items []item
	for _, id := range s.host.ActiveSelection() {
		if s.host.Resolve(id) && s.host.Parent(id) == NoIdentity {
			items = append(items, item{id, s.host.SiblingIndex(id)})
		}
	}
	if len(items) == 0 {
		return false
	}
	// Move the leading edge first so a block of selected items keeps its shape.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && (items[j].idx-items[j-1].idx)*delta > 0; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	last := s.host.RootCount() - 1
	moved := false
	for _, it := range items {
		to := s.host.SiblingIndex(it.id) + delta
		if to < 0 || to > last {
			// A selected item already at the edge pins the whole block.
			return moved
		}
		s.host.SetSiblingIndex(it.id, to)
		moved = true
	}
	return moved
}

// SelectNextMarker selects the following marker, wrapping around.
func (s *Session) SelectNextMarker() bool {
	return s.nav.SelectNext()
}

// SelectPreviousMarker selects the preceding marker, wrapping around.
func (s *Session) SelectPreviousMarker() bool {
	return s.nav.SelectPrevious()
}

// MoveSelectionToMarker moves the selection right below the pinned or current marker.
func (s *Session) MoveSelectionToMarker() bool {
	return s.moveToMarker(false)
}

// MoveSelectionToMarkerUpper moves the selection right above the pinned or
// current marker.
func (s *Session) MoveSelectionToMarkerUpper() bool {
	return s.moveToMarker(true)
}

func (s *Session) moveToMarker(upper bool) bool {
	target, ok := s.nav.MoveTarget()
	var moved bool
	if upper {
		moved = s.nav.MoveSelectionToMarkerUpper()
	} else {
		moved = s.nav.MoveSelectionToMarker()
	}
	if moved {
		m, _ := s.reg.Get(target)
		if ok && m != nil {
			s.emit(auditlog.EventSelectionMoved, "moved selection to marker",
				auditlog.WithNode(int64(target)), auditlog.WithTitle(m.Title))
		}
	}
	return moved
}

// RefreshOrder renumbers markers from their sibling positions.
func (s *Session) RefreshOrder() ChangeReport {
	report := s.rec.RecomputeOrder()
	s.nav.Revalidate()
	s.record(report)
	return report
}

// RefreshRegistry rebuilds the registry from scratch after confirmation.
func (s *Session) RefreshRegistry(confirm Confirmer) (ChangeReport, error) {
	if confirm == nil || !confirm(RefreshPrompt) {
		s.emit(auditlog.EventDeclined, "registry refresh declined")
		return ChangeReport{}, ErrDeclined
	}
	report := s.rec.Rebuild()
	s.nav.Revalidate()
	s.sel.Invalidate()
	s.sel.Update()
	s.emit(auditlog.EventRegistryRebuilt, fmt.Sprintf("rebuilt registry with %d markers", s.reg.Len()))
	s.record(report)
	return report, nil
}

// PinToggle pins the selected (or current) marker, or unpins it.
func (s *Session) PinToggle() bool {
	prev, changed := s.nav.PinToggle()
	if !changed {
		return false
	}
	if prev != NoIdentity {
		s.rec.Rename(prev)
	}
	if pinned, ok := s.nav.Pinned(); ok {
		s.rec.Rename(pinned)
		m, _ := s.reg.Get(pinned)
		s.emit(auditlog.EventMarkerPinned, "pinned marker",
			auditlog.WithNode(int64(pinned)), auditlog.WithTitle(m.Title), auditlog.WithOrdinal(m.Ordinal))
	} else {
		s.emit(auditlog.EventMarkerUnpinned, "unpinned marker", auditlog.WithNode(int64(prev)))
	}
	return true
}

// RemoveAllMarkers deletes every marker node after confirmation.
func (s *Session) RemoveAllMarkers(confirm Confirmer) (int, error) {
	n := s.reg.Len()
	if n == 0 {
		return 0, nil
	}
	if confirm == nil || !confirm(fmt.Sprintf(ClearPrompt, n)) {
		s.emit(auditlog.EventDeclined, "remove all markers declined")
		return 0, ErrDeclined
	}
	for _, m := range s.reg.Markers() {
		if s.host.Resolve(m.ID) {
			s.host.DeleteNode(m.ID)
		}
		s.reg.Remove(m.ID)
	}
	s.nav.Reset()
	s.emit(auditlog.EventMarkersCleared, fmt.Sprintf("removed %d markers", n))
	return n, nil
}

// BeginRename enters rename mode for the single selected marker.
func (s *Session) BeginRename() (Identity, bool) {
	if !s.nav.BeginRename() {
		return NoIdentity, false
	}
	id, _ := s.nav.Renaming()
	return id, true
}

// EndRename leaves rename mode. The host's editor has written the new name by
// now; the next change notification canonicalizes it.
func (s *Session) EndRename(ev Event) bool {
	return s.nav.EndRename(ev)
}

// ConfirmRename ends rename mode after the editor committed a name.
func (s *Session) ConfirmRename() bool {
	id, ok := s.nav.Renaming()
	if !s.nav.EndRename(RenameConfirm) {
		return false
	}
	if ok {
		log.InfoLog.Printf("%s: rename of marker %d confirmed", s.document, id)
	}
	return true
}

// CancelRename ends rename mode without a new name.
func (s *Session) CancelRename() bool {
	return s.nav.EndRename(RenameCancel)
}

// Current returns the pinned or current marker.
func (s *Session) Current() (*Marker, bool) {
	id, ok := s.nav.Current()
	if !ok {
		return nil, false
	}
	return s.reg.Get(id)
}

func (s *Session) emit(kind auditlog.EventKind, msg string, opts ...auditlog.EventOption) {
	s.audit.Emit(auditlog.NewEvent(kind, s.document, msg, opts...))
}

func (s *Session) record(report ChangeReport) {
	for _, id := range report.Registered {
		opts := []auditlog.EventOption{auditlog.WithNode(int64(id))}
		if m, ok := s.reg.Get(id); ok {
			opts = append(opts, auditlog.WithTitle(m.Title), auditlog.WithOrdinal(m.Ordinal))
		}
		s.emit(auditlog.EventMarkerRegistered, "registered marker", opts...)
	}
	for _, id := range report.Pruned {
		s.emit(auditlog.EventMarkerPruned, "pruned dead marker", auditlog.WithNode(int64(id)))
	}
	for _, id := range report.Renamed {
		m, _ := s.reg.Get(id)
		title := ""
		if m != nil {
			title = m.Title
		}
		s.emit(auditlog.EventMarkerRenamed, "canonicalized marker name",
			auditlog.WithNode(int64(id)), auditlog.WithTitle(title))
	}
	for _, id := range report.Reparented {
		s.emit(auditlog.EventMarkerReparented, "moved nested marker to root", auditlog.WithNode(int64(id)))
	}
	if report.Reordered {
		s.emit(auditlog.EventOrderRecomputed, fmt.Sprintf("renumbered %d markers", s.reg.Len()))
	}
	if !report.Empty() {
		log.InfoLog.Printf("%s: %s change: +%d -%d ~%d reordered=%v", s.document, report.Kind,
			len(report.Registered), len(report.Pruned), len(report.Renamed), report.Reordered)
	}
}
