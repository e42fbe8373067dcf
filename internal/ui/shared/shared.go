package shared

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Viewport holds scrolling state for list-like views.
type Viewport struct {
	Offset int
	Height int
}

// EnsureVisible adjusts the viewport offset to keep the selected item visible.
func EnsureVisible(selectedIndex, listLength int, vp *Viewport) {
	if listLength == 0 || vp == nil || vp.Height <= 0 {
		return
	}
	if selectedIndex < vp.Offset {
		vp.Offset = selectedIndex
	} else if selectedIndex >= vp.Offset+vp.Height {
		vp.Offset = selectedIndex - vp.Height + 1
	}
	maxOffset := listLength - vp.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if vp.Offset > maxOffset {
		vp.Offset = maxOffset
	}
	if vp.Offset < 0 {
		vp.Offset = 0
	}
}

// GetVisibleRange returns start and end indices for the current viewport.
func GetVisibleRange(listLength int, vp Viewport) (int, int) {
	if listLength == 0 || vp.Height <= 0 {
		return 0, 0
	}
	start := vp.Offset
	end := vp.Offset + vp.Height
	if end > listLength {
		end = listLength
	}
	return start, end
}

// Truncate shortens a string to the given width with ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// Common styles shared by every screen.
var (
	TitleStyle  = lipgloss.NewStyle().Bold(true)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Underline(true)
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	InfoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// HighlightRow marks a list row as selected. Raw escape codes so the
// highlight spans the full terminal width via EL (erase-in-line).
func HighlightRow(row string) string {
	return "\x1b[48;5;51m\x1b[38;5;0m\x1b[1m" + row + "\x1b[K\x1b[0m"
}

// FormatTime renders a nullable timestamp for table cells.
func FormatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatAge renders how long ago a timestamp was, compact.
func FormatAge(t *time.Time, now time.Time) string {
	if t == nil {
		return "-"
	}
	d := now.Sub(*t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
