package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kastheco/hisect/config"
	"github.com/kastheco/hisect/config/auditlog"
	"github.com/kastheco/hisect/log"
	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/outline/treestore"
	"github.com/kastheco/hisect/section"
	"github.com/kastheco/hisect/ui"
	"github.com/kastheco/hisect/ui/overlay"
)

// Options carries what the program needs from the command line.
type Options struct {
	Config *config.Config
	// ConfigDir is watched for settings changes; empty disables live reload.
	ConfigDir string
	Store     treestore.Store
	Audit     auditlog.Logger
	// Document is opened first. Empty opens the first stored document.
	Document string
}

// Run is the main entrypoint into the application.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h, err := newHome(ctx, opts)
	if err != nil {
		return err
	}
	if opts.ConfigDir != "" {
		changes := make(chan *config.Config, 1)
		h.configChanges = changes
		go func() {
			err := config.Watch(ctx, opts.ConfigDir, func(c *config.Config) {
				select {
				case changes <- c:
				default:
				}
			})
			if err != nil {
				log.WarningLog.Printf("settings live reload disabled: %v", err)
			}
		}()
	}

	zone.NewGlobal()
	p := tea.NewProgram(
		h,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	if saveErr := h.saveDocument(); saveErr != nil {
		log.ErrorLog.Printf("save on exit: %v", saveErr)
	}
	return err
}

type state int

const (
	stateDefault state = iota
	// stateRename is the state when a marker is being renamed.
	stateRename
	// stateConfirm is the state when a destructive command waits for an answer.
	stateConfirm
	// stateNewDocument is the state when the user is naming a new document.
	stateNewDocument
	// stateHelp is the state when the help screen is displayed.
	stateHelp
)

// auditPaneHeight is the height of the event pane when shown.
const auditPaneHeight = 8

type home struct {
	ctx context.Context

	// -- Storage and Configuration --

	appConfig *config.Config
	store     treestore.Store
	audit     auditlog.Logger
	// configChanges delivers reloaded settings from the watcher goroutine.
	configChanges <-chan *config.Config

	// -- Document --

	document string
	tree     *outline.Tree
	session  *section.Session
	// dirty is set by change notifications and cleared by a save.
	dirty bool

	// -- State --

	state state
	// keySent is used to manage underlining menu items
	keySent bool
	// pendingConfirm runs with the user's answer when stateConfirm closes.
	pendingConfirm func(ok bool) tea.Cmd

	// -- UI Components --

	menu         *ui.Menu
	statusBar    *ui.StatusBar
	outlinePanel *ui.OutlinePanel
	auditPane    *ui.AuditPane
	toastManager *overlay.ToastManager

	textInputOverlay *overlay.TextInputOverlay
	confirmOverlay   *overlay.ConfirmOverlay
	formOverlay      *overlay.FormOverlay

	termWidth     int
	termHeight    int
	contentHeight int
}

func newHome(ctx context.Context, opts Options) (*home, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	audit := opts.Audit
	if audit == nil {
		audit = auditlog.NopLogger()
	}

	h := &home{
		ctx:          ctx,
		appConfig:    cfg,
		store:        opts.Store,
		audit:        audit,
		state:        stateDefault,
		menu:         ui.NewMenu(),
		statusBar:    ui.NewStatusBar(),
		outlinePanel: ui.NewOutlinePanel(),
		auditPane:    ui.NewAuditPane(),
		toastManager: overlay.NewToastManager(),
	}

	name := opts.Document
	if name == "" {
		name = h.firstDocument()
	}
	if err := h.openDocument(name); err != nil {
		return nil, err
	}
	return h, nil
}

// updateHandleWindowSizeEvent sets the sizes of the components.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	m.termWidth = msg.Width
	m.termHeight = msg.Height

	// status bar + menu
	contentHeight := max(msg.Height-2, 1)
	if m.auditPane.Visible() && contentHeight > 2*auditPaneHeight {
		m.auditPane.SetSize(msg.Width, auditPaneHeight)
		contentHeight -= auditPaneHeight
	} else {
		m.auditPane.SetSize(msg.Width, 0)
	}
	m.contentHeight = contentHeight

	m.statusBar.SetSize(msg.Width)
	m.outlinePanel.SetSize(msg.Width, contentHeight)
	m.menu.SetSize(msg.Width, 1)
	m.toastManager.SetSize(msg.Width, msg.Height)
	if m.textInputOverlay != nil {
		m.textInputOverlay.SetSize(int(float32(msg.Width)*0.6), 0)
	}
}

func (m *home) Init() tea.Cmd {
	if m.configChanges == nil {
		return nil
	}
	return waitForConfig(m.configChanges)
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	// Notifications are delivered only after the mutating handler returned.
	m.sync()
	return model, cmd
}

func (m *home) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case keyupMsg:
		m.menu.ClearKeydown()
		return m, nil
	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, nil
	case overlay.ToastTickMsg:
		m.toastManager.Tick()
		if m.toastManager.HasActiveToasts() {
			return m, m.toastTickCmd()
		}
		return m, nil
	case configChangedMsg:
		m.applyConfig(msg.config)
		return m, waitForConfig(m.configChanges)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

// sync flushes pending tree notifications and refreshes every view.
func (m *home) sync() {
	m.tree.Flush()
	m.outlinePanel.Refresh()
	m.menu.SetMarkerCount(m.session.Registry().Len())
	m.statusBar.SetData(m.computeStatusBarData())
	if m.auditPane.Visible() {
		m.auditPane.SetEvents(m.recentEvents())
	}
}

func (m *home) handleQuit() (tea.Model, tea.Cmd) {
	if err := m.saveDocument(); err != nil {
		return m, m.handleError(err)
	}
	return m, tea.Quit
}

func (m *home) View() string {
	content := m.outlinePanel.String()
	switch {
	case m.state == stateRename && m.textInputOverlay != nil:
		content = m.placeOverlay(zone.Mark(ui.ZoneRename, m.textInputOverlay.Render()))
	case m.state == stateConfirm && m.confirmOverlay != nil:
		content = m.placeOverlay(zone.Mark(ui.ZoneConfirm, m.confirmOverlay.Render()))
	case m.state == stateNewDocument && m.formOverlay != nil:
		content = m.placeOverlay(m.formOverlay.Render())
	case m.state == stateHelp:
		content = m.placeOverlay(helpContent())
	}

	if toastView := m.toastManager.View(); toastView != "" {
		toastWidth := lipgloss.Width(toastView)
		left := lipgloss.NewStyle().Width(max(m.termWidth-toastWidth, 0)).MaxWidth(max(m.termWidth-toastWidth, 0)).Render(content)
		content = lipgloss.JoinHorizontal(lipgloss.Top, left, toastView)
	}
	content = lipgloss.NewStyle().Height(m.contentHeight).MaxHeight(m.contentHeight).Render(content)

	parts := []string{m.statusBar.String(), content}
	if m.auditPane.Visible() && m.auditPane.Height() > 0 {
		parts = append(parts, m.auditPane.String())
	}
	parts = append(parts, m.menu.String())
	result := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Process bubblezone markers before rendering is complete
	// (zone markers inflate lipgloss.Width if left in place).
	result = zone.Scan(result)
	return ui.FillHeight(result, m.termHeight)
}

func (m *home) placeOverlay(view string) string {
	return lipgloss.Place(m.termWidth, m.contentHeight, lipgloss.Center, lipgloss.Center, view)
}

// keyupMsg clears the menu highlight.
type keyupMsg struct{}

// configChangedMsg carries settings reloaded by the file watcher.
type configChangedMsg struct {
	config *config.Config
}

func waitForConfig(ch <-chan *config.Config) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return configChangedMsg{config: c}
	}
}

func (m *home) toastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return overlay.ToastTickMsg{}
	})
}
