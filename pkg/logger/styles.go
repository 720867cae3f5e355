package logger

import (
	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

func levelStyle(label, color string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Bold(true).
		MaxWidth(5).
		Foreground(lipgloss.Color(color))
}

func getDefaultStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	styles.Levels[charmlog.DebugLevel] = levelStyle("DEBUG", "63")
	styles.Levels[charmlog.InfoLevel] = levelStyle("INFO", "86")
	styles.Levels[charmlog.WarnLevel] = levelStyle("WARN", "192")
	styles.Levels[charmlog.ErrorLevel] = levelStyle("ERROR", "204")
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	styles.Values["err"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["stream"] = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	styles.Keys["document"] = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	return styles
}
