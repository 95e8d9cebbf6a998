package overlay

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ToastType identifies the kind of toast notification.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastSuccess
	ToastError
)

// Display constants.
const (
	InfoDismissAfter    = 3 * time.Second
	SuccessDismissAfter = 3 * time.Second
	ErrorDismissAfter   = 5 * time.Second

	MinToastWidth = 24
	MaxToastWidth = 60
	MaxToasts     = 4
)

type toast struct {
	Type      ToastType
	Message   string
	ExpiresAt time.Time
	Width     int
}

// calcToastWidth computes the toast width from its message:
// icon (1) + space + message + padding (2) + border (2).
func calcToastWidth(msg string) int {
	return clampInt(1+1+runewidth.StringWidth(msg)+4, MinToastWidth, MaxToastWidth)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToastManager keeps the short status messages shown after commands, e.g.
// "saved" or "rescan declined".
type ToastManager struct {
	toasts []*toast
	now    func() time.Time
	width  int
}

// NewToastManager returns an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{now: time.Now}
}

// SetSize updates the viewport width used for positioning.
func (tm *ToastManager) SetSize(width, _ int) {
	tm.width = width
}

// Info shows an informational toast.
func (tm *ToastManager) Info(msg string) {
	tm.add(ToastInfo, msg, InfoDismissAfter)
}

// Success shows a success toast.
func (tm *ToastManager) Success(msg string) {
	tm.add(ToastSuccess, msg, SuccessDismissAfter)
}

// Error shows an error toast.
func (tm *ToastManager) Error(msg string) {
	tm.add(ToastError, msg, ErrorDismissAfter)
}

// HasActiveToasts reports whether anything is still shown.
func (tm *ToastManager) HasActiveToasts() bool {
	return len(tm.toasts) > 0
}

func (tm *ToastManager) add(typ ToastType, msg string, d time.Duration) {
	expires := tm.now().Add(d)
	// An identical visible toast gets its timer reset instead of a duplicate.
	for _, t := range tm.toasts {
		if t.Type == typ && t.Message == msg {
			t.ExpiresAt = expires
			return
		}
	}
	if len(tm.toasts) >= MaxToasts {
		tm.toasts = tm.toasts[1:]
	}
	tm.toasts = append(tm.toasts, &toast{Type: typ, Message: msg, ExpiresAt: expires, Width: calcToastWidth(msg)})
}

// ToastTickMsg is sent by the app while toasts are shown so expired ones are
// dropped.
type ToastTickMsg struct{}

// Tick removes expired toasts.
func (tm *ToastManager) Tick() {
	now := tm.now()
	alive := tm.toasts[:0]
	for _, t := range tm.toasts {
		if now.Before(t.ExpiresAt) {
			alive = append(alive, t)
		}
	}
	tm.toasts = alive
}

func toastColor(typ ToastType) lipgloss.Color {
	switch typ {
	case ToastSuccess:
		return colorFoam
	case ToastError:
		return colorLove
	default:
		return colorGold
	}
}

func toastIcon(typ ToastType) string {
	switch typ {
	case ToastSuccess:
		return "✓"
	case ToastError:
		return "✗"
	default:
		return "▸"
	}
}

func renderToast(t *toast) string {
	color := toastColor(t.Type)
	icon := lipgloss.NewStyle().Foreground(color).Render(toastIcon(t.Type))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(t.Width).
		Render(icon + " " + t.Message)
}

// View renders all toasts stacked vertically, or "" when there are none.
func (tm *ToastManager) View() string {
	if len(tm.toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(tm.toasts))
	for _, t := range tm.toasts {
		rendered = append(rendered, renderToast(t))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}
