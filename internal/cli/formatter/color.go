package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/salesplan/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// IsTerminal reports whether stdout is an interactive terminal; callers
// may skip styled output entirely when it is not.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// LifecycleStyle returns the style used to render a lifecycle status.
func LifecycleStyle(s domain.LifecycleStatus) lipgloss.Style {
	switch s {
	case domain.LifecycleCompleted:
		return StyleGreen
	case domain.LifecycleUnderReview:
		return StyleBlue
	case domain.LifecycleExpired:
		return StyleYellow
	case domain.LifecycleRejected, domain.LifecycleFailed:
		return StyleRed
	default:
		return StyleFg
	}
}

// TrackValue renders an approval-track value with its status color, or a
// dimmed dash when the track has not started.
func TrackValue(value string) string {
	switch value {
	case "":
		return StyleDim.Render("-")
	case string(domain.ManagerApproved), string(domain.BODSuccess):
		return StyleGreen.Render(value)
	case string(domain.ManagerRejected), string(domain.BODFailed):
		return StyleRed.Render(value)
	case string(domain.ManagerEscalated):
		return StylePurple.Render(value)
	default:
		return StyleYellow.Render(value)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
