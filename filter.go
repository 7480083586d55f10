package srvsentry

import "strings"

// LoggerNameFilter rejects entries from excluded loggers and their children.
// A logger "app.db" is a child of "app".
type LoggerNameFilter struct {
	excluded map[string]struct{}
}

// NewLoggerNameFilter builds a filter excluding the given logger names.
func NewLoggerNameFilter(names []string) *LoggerNameFilter {
	excluded := make(map[string]struct{}, len(names))
	for _, name := range names {
		excluded[name] = struct{}{}
	}
	return &LoggerNameFilter{excluded: excluded}
}

// Allow reports whether entries from the named logger may be forwarded.
func (f *LoggerNameFilter) Allow(name string) bool {
	for {
		if _, ok := f.excluded[name]; ok {
			return false
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			return true
		}
		name = name[:i]
	}
}
