package initializer

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/jeremi-ah/bankledger/config"
)

// SetupLogger builds the styled terminal logger and installs it as the
// slog default.
func SetupLogger(cfg config.LogConfig) *slog.Logger {
	styles := log.DefaultStyles()
	levelColors := map[log.Level]lipgloss.AdaptiveColor{
		log.DebugLevel: {Light: "#6C7086", Dark: "#9399B2"},
		log.InfoLevel:  {Light: "#1E66F5", Dark: "#89B4FA"},
		log.WarnLevel:  {Light: "#DF8E1D", Dark: "#F9E2AF"},
		log.ErrorLevel: {Light: "#D20F39", Dark: "#F38BA8"},
	}
	levelMarks := map[log.Level]string{
		log.DebugLevel: "DBG",
		log.InfoLevel:  "INF",
		log.WarnLevel:  "WRN",
		log.ErrorLevel: "ERR",
	}
	for level, color := range levelColors {
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(levelMarks[level]).
			Bold(true).
			Padding(0, 1).
			Foreground(color)
	}

	styles.Keys["error"] = lipgloss.NewStyle().Foreground(levelColors[log.ErrorLevel])
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)

	var formatter log.Formatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		formatter = log.TextFormatter
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(styles)

	slogger := slog.New(logger)
	slog.SetDefault(slogger)
	return slogger
}
