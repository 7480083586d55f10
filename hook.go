package srvsentry

import (
	"fmt"
	"reflect"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

const (
	breadcrumbLimit = 5
	fingerprintBase = "server"
)

// LogHook is a logrus.Hook forwarding entries to a sentry.Hub.
type LogHook struct {
	hub            *sentry.Hub
	levels         []logrus.Level
	includeContext bool
	filter         *LoggerNameFilter
}

// NewLogHook creates a LogHook forwarding entries at or above threshold.
//
// With includeContext set, events carry the entry fields, the request bound
// to the entry context and the user id. Otherwise only the message, level and
// logger name are sent.
func NewLogHook(hub *sentry.Hub, threshold logrus.Level, includeContext bool) *LogHook {
	return &LogHook{
		hub:            hub,
		levels:         levelsUpTo(threshold),
		includeContext: includeContext,
	}
}

// SetFilter attaches a logger name filter.
func (h *LogHook) SetFilter(filter *LoggerNameFilter) {
	h.filter = filter
}

// Levels implements the logrus.Hook interface.
func (h *LogHook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements the logrus.Hook interface.
func (h *LogHook) Fire(lEntry *logrus.Entry) error {
	entry := &logEntry{lEntry} // wrap for convenience functions

	loggerName := entry.LoggerName()
	if h.filter != nil && !h.filter.Allow(loggerName) {
		return nil
	}

	var hub *sentry.Hub
	if h.includeContext {
		hub = entry.RequestHub()
	}
	if hub == nil {
		hub = h.hub.Clone()
	}

	defer recoverFromLogging(hub)

	event := sentry.NewEvent()
	event.Level = sentryLevel(entry.Level)
	event.Message = entry.Message
	event.Timestamp = entry.Time

	if loggerName != "" {
		event.Logger = loggerName
	}

	if ginCtx := entry.GinContext(); ginCtx != nil && h.includeContext {
		event.Fingerprint = []string{fingerprintBase, ginCtx.Request.Method, ginCtx.FullPath(), entry.Message}
	} else if loggerName != "" {
		event.Fingerprint = []string{fingerprintBase, loggerName, entry.Message}
	}

	if h.includeContext {
		event.Extra = entry.Extra()

		if userID := entry.UserID(); userID != "" {
			event.User = sentry.User{ID: userID}
		}

		enrichEventWithError(hub, event, entry)
	}

	hub.CaptureEvent(event)
	return nil
}

// recoverFromLogging attempts to recover from a panic within the sentry logging logic.
func recoverFromLogging(hub *sentry.Hub) {
	if err := recover(); err != nil {
		event := sentry.NewEvent()
		event.Level = sentry.LevelError
		event.Message = "recovered panic within sentry error logging"
		event.Fingerprint = []string{fingerprintBase, "sentry_panic"}

		hub.Scope().AddBreadcrumb(&sentry.Breadcrumb{
			Type:     "error",
			Category: "sentry.panic",
			Message:  fmt.Sprint(err),
			Level:    sentry.LevelFatal,
		}, breadcrumbLimit)

		hub.CaptureEvent(event)
	}
}

// enrichEventWithError adds the exception and error/query breadcrumbs if an error is present on entry.
func enrichEventWithError(hub *sentry.Hub, event *sentry.Event, entry *logEntry) {
	err := entry.Error()
	if err == nil {
		return
	}

	exception := sentry.Exception{
		Type:  reflect.TypeOf(err).String(),
		Value: err.Error(),
	}
	if client := hub.Client(); client != nil && client.Options().AttachStacktrace {
		exception.Stacktrace = sentry.NewStacktrace()
	}
	event.Exception = []sentry.Exception{exception}

	if q, ok := asQueryError(err); ok {
		hub.Scope().AddBreadcrumb(&sentry.Breadcrumb{
			Type:     "query",
			Category: "db",
			Message:  "database query",
			Data: map[string]interface{}{
				"query": q.QueryBody(),
				"args":  q.QueryArgs(),
			},
			Level:     sentry.LevelInfo,
			Timestamp: entry.Time,
		}, breadcrumbLimit)
	}

	hub.Scope().AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "error",
		Category:  entry.LoggerName(),
		Message:   err.Error(),
		Level:     sentry.LevelError,
		Timestamp: entry.Time,
	}, breadcrumbLimit)
}
