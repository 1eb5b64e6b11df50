package config

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type normalisable interface {
	~string
}

var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		NormalisedStringHook(),
	)),
}

// NormalisedStringHook normalises strings decoded into named string types (enums such as
// the selection strategy), so that "User-Defined" in a config file matches "user_defined".
// Plain strings, e.g. partition names, are left untouched.
func NormalisedStringHook() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		// check that src and target types are valid
		if f.Kind() != reflect.String || t.Kind() != reflect.String || t == reflect.TypeOf("") {
			return data, nil
		}
		return Normalise(data.(string)), nil
	}
}

// Normalise lower-cases s, trims surrounding space and maps '-' and ' ' to '_'.
func Normalise[T normalisable](s T) T {
	out := strings.ToLower(strings.TrimSpace(string(s)))
	out = strings.NewReplacer("-", "_", " ", "_").Replace(out)
	return T(out)
}
