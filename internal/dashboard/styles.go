// Package dashboard renders a periodic terminal snapshot of the monitor's
// current baseline, alert state, alert history, and per-aggregator top-N
// tables.
//
// Rendering is synchronous: Render is called once per dashboard tick from
// the monitor's own periodic loop. There is no independent event loop here
// — styling is composed with charmbracelet/lipgloss, but nothing in this
// package drives its own Update/View cycle.
package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/cdzombak/httpwatch/internal/alert"
)

var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#06B6D4")

	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")

	colorText      = lipgloss.Color("#E5E7EB")
	colorTextMuted = lipgloss.Color("#9CA3AF")
	colorTextDim   = lipgloss.Color("#6B7280")
	colorBorder    = lipgloss.Color("#374151")
)

var (
	baseStyle = lipgloss.NewStyle().
			Foreground(colorText)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorPrimary).
			Bold(true).
			Padding(0, 1)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(colorBorder).
				MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	statusLearn = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	statusNormal = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	statusAlert = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	statusDismiss = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)
)

// StateStyle returns the style used to render a RunState's banner/label.
func StateStyle(s alert.RunState) lipgloss.Style {
	switch s {
	case alert.Learn:
		return statusLearn
	case alert.Normal:
		return statusNormal
	case alert.Alert:
		return statusAlert
	case alert.Dismiss:
		return statusDismiss
	default:
		return baseStyle
	}
}

// renderKeyValue renders a label-value pair on one line.
func renderKeyValue(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		labelStyle.Render(label+":"),
		valueStyle.Render(value),
	)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%+.1f%%", p)
}
