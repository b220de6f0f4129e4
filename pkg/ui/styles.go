package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/vibecheck/autofix/pkg/types"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	AddedColor = lipgloss.AdaptiveColor{
		Light: "#28A745", // Green
		Dark:  "#4CDD76",
	}

	RemovedColor = lipgloss.AdaptiveColor{
		Light: "#DC3545", // Red
		Dark:  "#FF6B7D",
	}

	HunkColor = lipgloss.AdaptiveColor{
		Light: "#17A2B8", // Cyan
		Dark:  "#4DD0E1",
	}

	HeadingColor = lipgloss.AdaptiveColor{
		Light: "#212529",
		Dark:  "#F8F9FA",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D",
		Dark:  "#ADB5BD",
	}
)

// Diff line styles
var (
	AddedStyle   = lipgloss.NewStyle().Foreground(AddedColor)
	RemovedStyle = lipgloss.NewStyle().Foreground(RemovedColor)
	HunkStyle    = lipgloss.NewStyle().Foreground(HunkColor)
	FileStyle    = lipgloss.NewStyle().Foreground(HeadingColor).Bold(true)
	ContextStyle = lipgloss.NewStyle().Foreground(MutedColor)
)

// StatusStyle returns the pterm style used for a transaction status cell
func StatusStyle(status types.TransactionStatus) *pterm.Style {
	switch status {
	case types.TransactionCommitted:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case types.TransactionRolledBack:
		return pterm.NewStyle(pterm.FgCyan)
	case types.TransactionPartial:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case types.TransactionPending:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// FixStatusStyle returns the pterm style used for a fix status cell
func FixStatusStyle(status types.FixStatus) *pterm.Style {
	switch status {
	case types.FixApplied:
		return pterm.NewStyle(pterm.FgGreen)
	case types.FixRolledBack:
		return pterm.NewStyle(pterm.FgCyan)
	case types.FixFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}
