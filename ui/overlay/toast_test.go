package overlay

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newClockedManager() (*ToastManager, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := NewToastManager()
	tm.now = func() time.Time { return now }
	return tm, &now
}

func TestToastManager_ExpiresByType(t *testing.T) {
	tm, now := newClockedManager()
	tm.Info("saved")
	tm.Error("save failed")
	assert.True(t, tm.HasActiveToasts())

	*now = now.Add(InfoDismissAfter)
	tm.Tick()
	assert.NotContains(t, tm.View(), "saved")
	assert.Contains(t, tm.View(), "save failed")

	*now = now.Add(ErrorDismissAfter)
	tm.Tick()
	assert.False(t, tm.HasActiveToasts())
	assert.Empty(t, tm.View())
}

func TestToastManager_DeduplicatesAndCaps(t *testing.T) {
	tm, _ := newClockedManager()
	tm.Success("ok")
	tm.Success("ok")
	assert.Len(t, tm.toasts, 1)

	for i := range MaxToasts + 2 {
		tm.Info(string(rune('a' + i)))
	}
	assert.Len(t, tm.toasts, MaxToasts)
	assert.Equal(t, "f", tm.toasts[MaxToasts-1].Message)
}

func TestCalcToastWidth(t *testing.T) {
	assert.Equal(t, MinToastWidth, calcToastWidth("x"))
	assert.Equal(t, MaxToastWidth, calcToastWidth(strings.Repeat("x", 200)))
}
