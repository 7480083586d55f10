package srvsentry

import (
	"fmt"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

const (
	defaultTransport = "threaded"
	listDelimiter    = ","
)

// Options is the merged set of client options, keyed like the options file.
type Options map[string]interface{}

// Option is one entry of the recognized option registry.
// Its value is read from the sentry_<Key> configuration key.
type Option struct {
	Key     string
	Default interface{}
	// Parse converts the raw configuration value. Nil keeps the value as is.
	Parse func(interface{}) (interface{}, error)
}

// Registry returns the recognized options in resolution order.
func Registry() []Option {
	hostname, _ := os.Hostname()

	return []Option{
		{Key: "dsn", Default: "", Parse: parseTrimmed},
		{Key: "transport", Default: defaultTransport, Parse: parseTransport},
		{Key: "machine", Default: hostname, Parse: parseString},
		{Key: "auto_log_stacks", Default: false, Parse: parseBool},
		{Key: "ignore_exceptions", Default: "", Parse: parseList},
		{Key: "environment", Default: "", Parse: parseString},
		{Key: "debug", Default: false, Parse: parseBool},
		{Key: "sample_rate", Default: 1.0, Parse: parseFloat},
		{Key: "traces_sample_rate", Default: 0.0, Parse: parseFloat},
		{Key: "max_breadcrumbs", Default: 0, Parse: parseInt},
		{Key: "max_error_depth", Default: 0, Parse: parseInt},
		{Key: "dist", Default: "", Parse: parseString},
		{Key: "send_default_pii", Default: false, Parse: parseBool},
		{Key: "http_proxy", Default: "", Parse: parseString},
		{Key: "https_proxy", Default: "", Parse: parseString},
	}
}

// resolveRegistry stores every registry entry into options, overriding
// whatever the lower layers put under the same key.
func resolveRegistry(src Source, registry []Option, options Options) error {
	for _, opt := range registry {
		value := lookup(src, keyPrefix+opt.Key, opt.Default)
		if opt.Parse != nil {
			parsed, err := opt.Parse(value)
			if err != nil {
				return fmt.Errorf("option %s: %w", opt.Key, err)
			}
			value = parsed
		}
		options[opt.Key] = value
	}
	return nil
}

func parseString(v interface{}) (interface{}, error) {
	return cast.ToStringE(v)
}

func parseTrimmed(v interface{}) (interface{}, error) {
	s, err := cast.ToStringE(v)
	return strings.TrimSpace(s), err
}

func parseBool(v interface{}) (interface{}, error) {
	return cast.ToBoolE(v)
}

func parseFloat(v interface{}) (interface{}, error) {
	return cast.ToFloat64E(v)
}

func parseInt(v interface{}) (interface{}, error) {
	return cast.ToIntE(v)
}

func parseList(v interface{}) (interface{}, error) {
	if s, ok := v.(string); ok {
		return splitMultiple(s), nil
	}
	return cast.ToStringSliceE(v)
}

// splitMultiple splits a delimited string into trimmed, non-empty chunks.
func splitMultiple(s string) []string {
	out := []string{}
	for _, chunk := range strings.Split(s, listDelimiter) {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

func parseTransport(v interface{}) (interface{}, error) {
	if t, ok := v.(sentry.Transport); ok {
		return t, nil
	}

	name, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sync", "synchronous", "requests_synchronous":
		return sentry.NewHTTPSyncTransport(), nil
	case "", "threaded", "requests_threaded":
		return sentry.NewHTTPTransport(), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", name)
	}
}

// clientSettings maps Options keys onto sentry.ClientOptions fields.
type clientSettings struct {
	DSN              string            `mapstructure:"dsn"`
	Release          string            `mapstructure:"release"`
	Environment      string            `mapstructure:"environment"`
	Dist             string            `mapstructure:"dist"`
	ServerName       string            `mapstructure:"machine"`
	Debug            bool              `mapstructure:"debug"`
	AttachStacktrace bool              `mapstructure:"auto_log_stacks"`
	SendDefaultPII   bool              `mapstructure:"send_default_pii"`
	SampleRate       float64           `mapstructure:"sample_rate"`
	TracesSampleRate float64           `mapstructure:"traces_sample_rate"`
	MaxBreadcrumbs   int               `mapstructure:"max_breadcrumbs"`
	MaxErrorDepth    int               `mapstructure:"max_error_depth"`
	IgnoreErrors     []string          `mapstructure:"ignore_exceptions"`
	HTTPProxy        string            `mapstructure:"http_proxy"`
	HTTPSProxy       string            `mapstructure:"https_proxy"`
	Transport        sentry.Transport  `mapstructure:"transport"`
	Tags             map[string]string `mapstructure:"tags"`
}

// ClientOptions decodes the merged options into sentry.ClientOptions.
// Keys with no matching field are ignored.
func (o Options) ClientOptions() (sentry.ClientOptions, error) {
	settings, err := o.decode()
	if err != nil {
		return sentry.ClientOptions{}, err
	}

	return sentry.ClientOptions{
		Dsn:              settings.DSN,
		Release:          settings.Release,
		Environment:      settings.Environment,
		Dist:             settings.Dist,
		ServerName:       settings.ServerName,
		Debug:            settings.Debug,
		AttachStacktrace: settings.AttachStacktrace,
		SendDefaultPII:   settings.SendDefaultPII,
		SampleRate:       settings.SampleRate,
		TracesSampleRate: settings.TracesSampleRate,
		MaxBreadcrumbs:   settings.MaxBreadcrumbs,
		MaxErrorDepth:    settings.MaxErrorDepth,
		IgnoreErrors:     settings.IgnoreErrors,
		HTTPProxy:        settings.HTTPProxy,
		HTTPSProxy:       settings.HTTPSProxy,
		Transport:        settings.Transport,
	}, nil
}

// Tags returns the merged tag mapping.
func (o Options) Tags() map[string]string {
	tags := map[string]string{}
	switch t := o["tags"].(type) {
	case map[string]string:
		for k, v := range t {
			tags[k] = v
		}
	case map[string]interface{}:
		for k, v := range t {
			tags[k] = cast.ToString(v)
		}
	}
	return tags
}

func (o Options) decode() (*clientSettings, error) {
	var settings clientSettings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(listDelimiter),
		WeaklyTypedInput: true,
		Result:           &settings,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(o)); err != nil {
		return nil, fmt.Errorf("decode client options: %w", err)
	}
	return &settings, nil
}
