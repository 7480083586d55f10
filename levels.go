package srvsentry

import (
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// DefaultLogLevel is used when sentry_logging_level is unset or unknown.
const DefaultLogLevel = "warn"

var logLevels = map[string]logrus.Level{
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warn":     logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
}

// ResolveLevel maps a level name onto a logrus level, falling back to DefaultLogLevel.
func ResolveLevel(name string) logrus.Level {
	if level, ok := logLevels[name]; ok {
		return level
	}
	return logLevels[DefaultLogLevel]
}

// levelsUpTo returns every level at least as severe as threshold.
func levelsUpTo(threshold logrus.Level) []logrus.Level {
	var levels []logrus.Level
	for _, level := range logrus.AllLevels {
		if level <= threshold {
			levels = append(levels, level)
		}
	}
	return levels
}

func sentryLevel(level logrus.Level) sentry.Level {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return sentry.LevelFatal
	case logrus.ErrorLevel:
		return sentry.LevelError
	case logrus.WarnLevel:
		return sentry.LevelWarning
	case logrus.InfoLevel:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
