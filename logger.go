package srvsentry

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const keyLoggerName = "logger"

// Logger extends a logrus entry with a dotted logger name path.
type Logger struct {
	*logrus.Entry

	name []string
}

func newLogger(base *logrus.Logger, name []string) *Logger {
	return &Logger{
		Entry: base.WithField(keyLoggerName, strings.Join(name, ".")),
		name:  name,
	}
}

// Name returns the dotted logger name.
func (l *Logger) Name() string {
	return strings.Join(l.name, ".")
}

// Extend returns a child Logger, e.g. "http" extended with "router" is "http.router".
func (l *Logger) Extend(name string) *Logger {
	newName := make([]string, 0, len(l.name)+1)
	newName = append(append(newName, l.name...), name)
	return &Logger{
		Entry: l.Entry.WithField(keyLoggerName, strings.Join(newName, ".")),
		name:  newName,
	}
}

// WithUser includes the given user id in the logger context.
func (l *Logger) WithUser(userID string) *Logger {
	return l.withContext(context.WithValue(contextOrBackground(l.Entry.Context), ctxKeyUserID, userID))
}

// WithGin includes the given gin request context in the logger context.
func (l *Logger) WithGin(c *gin.Context) *Logger {
	ctx := contextOrBackground(c.Request.Context())
	return l.withContext(context.WithValue(ctx, ctxKeyGinContext, c))
}

// WithRequest binds the logger to the request context, so entries are
// reported through the hub the middleware attached to it.
func (l *Logger) WithRequest(r *http.Request) *Logger {
	return l.withContext(r.Context())
}

func (l *Logger) withContext(ctx context.Context) *Logger {
	return &Logger{
		Entry: l.Entry.WithContext(ctx),
		name:  l.name,
	}
}
