package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kastheco/hisect/config"
	"github.com/kastheco/hisect/config/auditlog"
	"github.com/kastheco/hisect/internal/sentry"
	"github.com/kastheco/hisect/log"
	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/outline/outlinefile"
	"github.com/kastheco/hisect/outline/treestore"
	"github.com/kastheco/hisect/section"
	"github.com/kastheco/hisect/ui"
)

// defaultDocument is opened when the store is empty.
const defaultDocument = "untitled"

// recentEventLimit bounds the events shown in the event pane.
const recentEventLimit = 50

func (m *home) firstDocument() string {
	if m.store == nil {
		return defaultDocument
	}
	docs, err := m.store.List()
	if err != nil || len(docs) == 0 {
		if err != nil {
			log.WarningLog.Printf("list documents: %v", err)
		}
		return defaultDocument
	}
	return docs[0].Name
}

// documentNames lists stored documents plus the open one if it was never saved.
func (m *home) documentNames() []string {
	var names []string
	if m.store != nil {
		docs, err := m.store.List()
		if err != nil {
			log.WarningLog.Printf("list documents: %v", err)
		}
		for _, d := range docs {
			names = append(names, d.Name)
		}
	}
	if m.document != "" && !slices.Contains(names, m.document) {
		names = append(names, m.document)
		slices.Sort(names)
	}
	return names
}

// openDocument loads name from the store, or starts an empty tree when it does
// not exist yet.
func (m *home) openDocument(name string) error {
	tree := outline.New()
	if m.store != nil {
		loaded, err := treestore.LoadTree(m.store, name)
		switch {
		case err == nil:
			tree = loaded
		case errors.Is(err, treestore.ErrNotFound):
		default:
			return fmt.Errorf("open %s: %w", name, err)
		}
	}
	m.attachTree(name, tree)
	return nil
}

// attachTree makes tree the open document. The session is switched rather
// than rebuilt so options carry over.
func (m *home) attachTree(name string, tree *outline.Tree) {
	m.document = name
	m.tree = tree
	if m.session == nil {
		m.session = section.NewSession(tree,
			section.WithColors(m.appConfig.Colors),
			section.WithAutoTag(m.appConfig.AutoTagOnRegister),
			section.WithAuditLog(m.audit, name),
		)
	} else {
		m.session.Switch(tree, name)
	}
	tree.Subscribe(m.onTreeChanged, m.session.OnSelectionChanged)
	// Rebuilding may have canonicalized names; that is not a user edit.
	tree.Flush()
	m.dirty = false

	m.outlinePanel.SetSource(name, tree, m.session)
	m.auditPane.SetDocument(name)
	sentry.SetContext(name, m.session.Registry().Len())
	log.InfoLog.Printf("opened %s: %d nodes, %d markers", name, tree.Len(), m.session.Registry().Len())
}

func (m *home) onTreeChanged() {
	m.session.OnTreeChanged()
	m.dirty = true
}

// saveDocument stores the open document when it has unsaved changes.
func (m *home) saveDocument() error {
	if m.store == nil || !m.dirty {
		return nil
	}
	if err := treestore.SaveTree(m.store, m.document, m.tree); err != nil {
		return fmt.Errorf("save %s: %w", m.document, err)
	}
	m.dirty = false
	return nil
}

// cycleDocument saves the open document and opens the next one by name.
func (m *home) cycleDocument() tea.Cmd {
	names := m.documentNames()
	if len(names) < 2 {
		return m.notify("no other documents")
	}
	if err := m.saveDocument(); err != nil {
		return m.handleError(err)
	}
	next := names[(slices.Index(names, m.document)+1)%len(names)]
	if err := m.openDocument(next); err != nil {
		return m.handleError(err)
	}
	return m.notify(fmt.Sprintf("opened %s", next))
}

// createDocument opens a new document, seeded from a YAML outline when path is
// set. An existing name is simply opened.
func (m *home) createDocument(name, path string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("document name is empty")
	}
	if err := m.saveDocument(); err != nil {
		return err
	}
	if path == "" {
		return m.openDocument(name)
	}
	f, err := outlinefile.ReadFile(path)
	if err != nil {
		return err
	}
	m.attachTree(name, f.Tree())
	// Imported content is unsaved until the first save.
	m.dirty = true
	return nil
}

// applyConfig swaps in settings reloaded from disk.
func (m *home) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.appConfig = cfg
	m.session.SetColors(cfg.Colors)
	log.InfoLog.Printf("settings reloaded")
}

func (m *home) computeStatusBarData() ui.StatusBarData {
	data := ui.StatusBarData{
		Document: m.document,
		Nodes:    m.tree.Len(),
		Markers:  m.session.Registry().Len(),
		Dirty:    m.dirty,
	}
	if cur, ok := m.session.Current(); ok {
		data.Current = cur.Title
		data.Pinned = m.session.Navigator().IsPinned(cur.ID)
	}
	return data
}

func (m *home) recentEvents() []ui.AuditEventDisplay {
	events, err := m.audit.Query(auditlog.QueryFilter{Document: m.document, Limit: recentEventLimit})
	if err != nil {
		log.WarningLog.Printf("query events: %v", err)
		return nil
	}
	out := make([]ui.AuditEventDisplay, 0, len(events))
	for _, e := range events {
		icon, color := ui.EventKindIcon(string(e.Kind))
		msg := e.Message
		if e.Title != "" {
			msg += ": " + e.Title
		}
		out = append(out, ui.AuditEventDisplay{
			Time:    e.Timestamp.Local().Format("15:04"),
			Kind:    string(e.Kind),
			Icon:    icon,
			Message: msg,
			Color:   color,
			Level:   e.Level,
		})
	}
	return out
}
