package srvsentry

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViperSourceSection(t *testing.T) {
	path := writeFile(t, "server.conf", "[options]\nsentry_enabled = True\nsentry_logging_level = error\n")

	src, err := NewViperSource(path, "options")
	require.NoError(t, err)

	enabled, err := lookupBool(src, KeyEnabled, false)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, "error", lookupString(src, KeyLoggingLevel, DefaultLogLevel))

	_, ok := src.Get(KeyOptionsFile)
	assert.False(t, ok)
}

func TestViperSourceYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "sentry_enabled: false\nsentry_exclude_loggers: werkzeug,urllib3\n")

	src, err := NewViperSource(path, "")
	require.NoError(t, err)

	enabled, err := lookupBool(src, KeyEnabled, true)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, "werkzeug,urllib3", lookupString(src, KeyExcludeLoggers, ""))
}

func TestNewViperSourceMissingFile(t *testing.T) {
	_, err := NewViperSource("/does/not/exist.yaml", "")
	assert.Error(t, err)
}

func TestWrapViper(t *testing.T) {
	v := viper.New()
	v.Set("sentry_dsn", "https://key@example.com/1")

	value, ok := WrapViper(v, "").Get("sentry_dsn")
	assert.True(t, ok)
	assert.Equal(t, "https://key@example.com/1", value)
}
