package srvsentry

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cast"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// ReadOptionsFile reads key/value pairs from an INI-style file without a
// section header. A "tags" entry is parsed as a literal mapping such as
// {'team': 'backend'}; when absent tags default to an empty mapping.
// Values are never cut at '#' or ';'.
func ReadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:                true,
		AllowPythonMultilineValues: true,
		IgnoreInlineComment:        true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("parse options file %s: %w", path, err)
	}

	options := Options{}
	for _, key := range file.Section(ini.DefaultSection).Keys() {
		options[key.Name()] = key.Value()
	}

	tags := map[string]string{}
	if raw, ok := options["tags"].(string); ok {
		tags, err = parseTags(raw)
		if err != nil {
			return nil, fmt.Errorf("parse tags in %s: %w", path, err)
		}
	}
	options["tags"] = tags

	return options, nil
}

// unicodePrefix matches a u'' or u"" literal prefix at the start of a key or value.
var unicodePrefix = regexp.MustCompile(`([{,:]\s*)[uU](['"])`)

// parseTags evaluates a literal mapping without executing anything.
// Flow-style YAML accepts the quoted dict literal syntax used in options
// files once u'' prefixes are dropped.
func parseTags(raw string) (map[string]string, error) {
	raw = unicodePrefix.ReplaceAllString(raw, "$1$2")

	var parsed map[string]interface{}
	if err := yaml.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}

	tags := make(map[string]string, len(parsed))
	for k, v := range parsed {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("tag %s: %w", k, err)
		}
		tags[k] = s
	}
	return tags, nil
}
