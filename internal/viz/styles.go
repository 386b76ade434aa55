// Package viz renders solved trajectories and per-iterate costs as terminal
// plots and SVG files.
package viz

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	GraphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	HelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// PlayerColors cycles across players in trajectory views.
var PlayerColors = []string{"86", "205", "220", "49", "213", "82"}
