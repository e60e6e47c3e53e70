package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type levelStyle struct {
	level log.Level
	icon  string
	color string
}

var levelStyles = []levelStyle{
	{log.ErrorLevel, "❌", "#FF6B6B"},
	{log.WarnLevel, "⚠️", "#EE6FF8"},
	{log.InfoLevel, "ℹ️", "#04B575"},
	{log.DebugLevel, "🐛", "#7E57C2"},
}

// Keys highlighted in every line. ref_number and block_number recur on
// nearly every reconciliation log.
var highlightedKeys = map[string]string{
	"error":        "#FF6B6B",
	"ref_number":   "#04B575",
	"status":       "#04B575",
	"block_number": "#7E57C2",
	"event_type":   "#7E57C2",
	"prefix":       "#7E57C2",
	"caller":       "#7E57C2",
	"time":         "#7E57C2",
}

// SetupLogger builds the process logger and installs it as slog's default.
func SetupLogger(cfg *config.Log) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text"}
	}
	styles := log.DefaultStyles()
	for _, ls := range levelStyles {
		color := lipgloss.AdaptiveColor{Light: ls.color, Dark: ls.color}
		styles.Levels[ls.level] = lipgloss.NewStyle().
			SetString(ls.icon).
			Bold(true).
			Padding(0, 1).
			Foreground(color)
	}
	for key, c := range highlightedKeys {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
		styles.Values[key] = lipgloss.NewStyle().Bold(true)
	}

	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(styles)

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
