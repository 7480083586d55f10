package srvsentry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMultiple(t *testing.T) {
	assert.Equal(t, []string{}, splitMultiple(""))
	assert.Equal(t, []string{"werkzeug", "urllib3"}, splitMultiple("werkzeug,urllib3"))
	assert.Equal(t, []string{"a", "b"}, splitMultiple(" a , ,b "))
}

func TestResolveRegistryDefaults(t *testing.T) {
	options := Options{}
	require.NoError(t, resolveRegistry(MapSource{}, Registry(), options))

	assert.Equal(t, "", options["dsn"])
	assert.Equal(t, 1.0, options["sample_rate"])
	assert.Equal(t, false, options["debug"])
	assert.Equal(t, []string{}, options["ignore_exceptions"])
	assert.IsType(t, &sentry.HTTPTransport{}, options["transport"])
}

func TestResolveRegistryOverrides(t *testing.T) {
	src := MapSource{
		"sentry_dsn":               "  https://key@example.com/1  ",
		"sentry_environment":       "staging",
		"sentry_transport":         "sync",
		"sentry_sample_rate":       "0.25",
		"sentry_auto_log_stacks":   "true",
		"sentry_max_breadcrumbs":   "10",
		"sentry_ignore_exceptions": "UserError, AccessDenied",
	}
	options := Options{"environment": "from-file", "release": "abc"}
	require.NoError(t, resolveRegistry(src, Registry(), options))

	assert.Equal(t, "https://key@example.com/1", options["dsn"])
	assert.Equal(t, "staging", options["environment"])
	assert.Equal(t, "abc", options["release"])
	assert.IsType(t, &sentry.HTTPSyncTransport{}, options["transport"])
	assert.Equal(t, 0.25, options["sample_rate"])
	assert.Equal(t, true, options["auto_log_stacks"])
	assert.Equal(t, 10, options["max_breadcrumbs"])
	assert.Equal(t, []string{"UserError", "AccessDenied"}, options["ignore_exceptions"])
}

func TestResolveRegistryOverridesLowerLayers(t *testing.T) {
	registry := []Option{{Key: "tags", Default: map[string]string{"only": "registry"}}}
	options := Options{"tags": map[string]string{"team": "x"}}

	require.NoError(t, resolveRegistry(MapSource{}, registry, options))
	assert.Equal(t, map[string]string{"only": "registry"}, options.Tags())
}

func TestResolveRegistryParseError(t *testing.T) {
	err := resolveRegistry(MapSource{"sentry_sample_rate": "often"}, Registry(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample_rate")

	err = resolveRegistry(MapSource{"sentry_transport": "carrier-pigeon"}, Registry(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport")
}

func TestOptionsClientOptions(t *testing.T) {
	transport := &recordingTransport{}
	options := Options{
		"dsn":               "https://key@example.com/1",
		"release":           "1.2.3",
		"environment":       "prod",
		"machine":           "web-1",
		"sample_rate":       "0.5",
		"debug":             "true",
		"ignore_exceptions": "UserError,AccessDenied",
		"max_error_depth":   "4",
		"transport":         transport,
		"tags":              map[string]string{"odoo": "1.2.3"},
		"unknown":           "ignored",
	}

	got, err := options.ClientOptions()
	require.NoError(t, err)

	assert.Equal(t, "https://key@example.com/1", got.Dsn)
	assert.Equal(t, "1.2.3", got.Release)
	assert.Equal(t, "prod", got.Environment)
	assert.Equal(t, "web-1", got.ServerName)
	assert.Equal(t, 0.5, got.SampleRate)
	assert.True(t, got.Debug)
	assert.Equal(t, []string{"UserError", "AccessDenied"}, got.IgnoreErrors)
	assert.Equal(t, 4, got.MaxErrorDepth)
	assert.Same(t, transport, got.Transport)
}

func TestOptionsTags(t *testing.T) {
	assert.Equal(t, map[string]string{}, Options{}.Tags())
	assert.Equal(t,
		map[string]string{"team": "x", "shard": "2"},
		Options{"tags": map[string]interface{}{"team": "x", "shard": 2}}.Tags(),
	)
}
