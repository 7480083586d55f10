package srvsentry

import "github.com/spf13/cast"

// Process configuration keys read by Init.
const (
	keyPrefix = "sentry_"

	KeyEnabled        = keyPrefix + "enabled"
	KeyOdooDir        = keyPrefix + "odoo_dir"
	KeyOptionsFile    = keyPrefix + "options_file"
	KeyIncludeContext = keyPrefix + "include_context"
	KeyLoggingLevel   = keyPrefix + "logging_level"
	KeyExcludeLoggers = keyPrefix + "exclude_loggers"
)

// Source is the read-only process configuration Init resolves options from.
type Source interface {
	// Get returns the raw value stored under key and whether it was set.
	Get(key string) (interface{}, bool)
}

// MapSource is a Source over a plain map.
type MapSource map[string]interface{}

// Get implements Source.
func (m MapSource) Get(key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

func lookup(src Source, key string, def interface{}) interface{} {
	if v, ok := src.Get(key); ok && v != nil {
		return v
	}
	return def
}

func lookupString(src Source, key, def string) string {
	return cast.ToString(lookup(src, key, def))
}

func lookupBool(src Source, key string, def bool) (bool, error) {
	return cast.ToBoolE(lookup(src, key, def))
}
