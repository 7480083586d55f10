package srvsentry

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoggerNameFilter(t *testing.T) {
	filter := NewLoggerNameFilter([]string{"werkzeug", "urllib3"})

	assert.False(t, filter.Allow("werkzeug"))
	assert.False(t, filter.Allow("urllib3"))
	assert.False(t, filter.Allow("urllib3.connectionpool"))
	assert.True(t, filter.Allow("werkzeugx"))
	assert.True(t, filter.Allow("app.werkzeug"))
	assert.True(t, filter.Allow(""))
}

func TestResolveLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ResolveLevel("debug"))
	assert.Equal(t, logrus.ErrorLevel, ResolveLevel("error"))
	assert.Equal(t, logrus.FatalLevel, ResolveLevel("critical"))
	assert.Equal(t, logrus.WarnLevel, ResolveLevel("bogus"))
	assert.Equal(t, logrus.WarnLevel, ResolveLevel(""))
}

func TestLevelsUpTo(t *testing.T) {
	assert.Equal(t,
		[]logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel},
		levelsUpTo(logrus.WarnLevel),
	)
	assert.Len(t, levelsUpTo(logrus.TraceLevel), len(logrus.AllLevels))
}
