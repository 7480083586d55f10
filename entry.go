package srvsentry

import (
	"context"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyGinContext
)

// Wrapper on a logrus.Entry to provide convenience functions
type logEntry struct {
	*logrus.Entry
}

// LoggerName returns the set logger name, or the empty string if not set
func (entry *logEntry) LoggerName() string {
	if name, ok := entry.Data[keyLoggerName].(string); ok {
		return name
	}
	return ""
}

// UserID returns the set user id, or the empty string if not set
func (entry *logEntry) UserID() string {
	if entry.Context != nil {
		if userID, ok := entry.Context.Value(ctxKeyUserID).(string); ok {
			return userID
		}
	}
	return ""
}

// GinContext returns the set gin request context, or nil if not set
func (entry *logEntry) GinContext() *gin.Context {
	if entry.Context != nil {
		if c, ok := entry.Context.Value(ctxKeyGinContext).(*gin.Context); ok {
			return c
		}
	}
	return nil
}

// Error returns the set error, or nil if not set
func (entry *logEntry) Error() error {
	err, _ := entry.Data[logrus.ErrorKey].(error)
	return err
}

// RequestHub returns the hub the request middleware bound to the entry context, if any.
func (entry *logEntry) RequestHub() *sentry.Hub {
	if entry.Context == nil {
		return nil
	}
	if hub := sentry.GetHubFromContext(entry.Context); hub != nil {
		return hub
	}
	if c := entry.GinContext(); c != nil {
		return sentrygin.GetHubFromContext(c)
	}
	return nil
}

// Extra returns the entry fields suitable for an event's extra data.
func (entry *logEntry) Extra() map[string]interface{} {
	extra := make(map[string]interface{}, len(entry.Data))
	for k, v := range entry.Data {
		if k == keyLoggerName {
			continue
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		extra[k] = v
	}
	return extra
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
