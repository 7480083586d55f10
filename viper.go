package srvsentry

import (
	"path"

	"github.com/spf13/viper"
)

// ViperSource is a Source backed by github.com/spf13/viper.
type ViperSource struct {
	v       *viper.Viper
	section string
}

// NewViperSource loads the configuration file at pathFile.
//
// The file type is inferred from the extension. When section is non-empty,
// keys are looked up under it, e.g. the "options" section of a server .conf/.ini file.
func NewViperSource(pathFile, section string) (*ViperSource, error) {
	v := viper.New()
	v.SetConfigFile(pathFile)
	if ext := path.Ext(pathFile); ext == ".conf" || ext == ".cfg" {
		v.SetConfigType("ini")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return WrapViper(v, section), nil
}

// WrapViper returns a Source reading from an already configured viper instance.
func WrapViper(v *viper.Viper, section string) *ViperSource {
	return &ViperSource{v: v, section: section}
}

// Get implements Source.
func (s *ViperSource) Get(key string) (interface{}, bool) {
	if s.section != "" {
		key = s.section + "." + key
	}
	if !s.v.IsSet(key) {
		return nil, false
	}
	return s.v.Get(key), true
}
