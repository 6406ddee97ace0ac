package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/paycode/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	infoTxtColor  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warnTxtColor  = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	errorTxtColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	debugTxtColor = lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}
	quoteTxtColor = lipgloss.AdaptiveColor{Light: "#F7931A", Dark: "#F7931A"}
)

func levelStyle(icon string, color lipgloss.AdaptiveColor) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(icon).
		Bold(true).
		Padding(0, 1).
		Foreground(color)
}

func logStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[log.ErrorLevel] = levelStyle("❌", errorTxtColor)
	styles.Levels[log.InfoLevel] = levelStyle("ℹ️", infoTxtColor)
	styles.Levels[log.WarnLevel] = levelStyle("⚠️", warnTxtColor)
	styles.Levels[log.DebugLevel] = levelStyle("🐛", debugTxtColor)

	keyColors := map[string]lipgloss.AdaptiveColor{
		"error":    errorTxtColor,
		"stale":    warnTxtColor,
		"age":      warnTxtColor,
		"price":    quoteTxtColor,
		"currency": quoteTxtColor,
		"provider": quoteTxtColor,
		"method":   infoTxtColor,
		"key_id":   infoTxtColor,
		"prefix":   debugTxtColor,
		"caller":   debugTxtColor,
		"time":     debugTxtColor,
	}
	for k, c := range keyColors {
		styles.Keys[k] = lipgloss.NewStyle().Foreground(c)
		styles.Values[k] = lipgloss.NewStyle().Bold(true)
	}
	return styles
}

// NewLogger builds a charmbracelet-backed slog.Logger writing to w.
// cfg.Format selects json or text; anything else falls back to text.
func NewLogger(cfg *config.Log, w io.Writer) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text", TimeFormat: "15:04:05"}
	}
	formattersMap := map[string]log.Formatter{
		"json":   log.JSONFormatter,
		"text":   log.TextFormatter,
		"logfmt": log.LogfmtFormatter,
	}
	formatter := log.TextFormatter
	if f, ok := formattersMap[cfg.Format]; ok {
		formatter = f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(logStyles())
	return slog.New(logger)
}

func setupLogger(cfg *config.Log) *slog.Logger {
	slogger := NewLogger(cfg, os.Stdout)
	slog.SetDefault(slogger)
	return slogger
}
