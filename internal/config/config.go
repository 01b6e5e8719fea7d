// Package config loads settings for the flexjson command: built-in defaults,
// then an optional yaml/json/toml file, then command line flags.
package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	flexjson "github.com/reoring/flexjson"
)

const delimiter = "."

// Config holds the parse settings and output options.
type Config struct {
	MaxDepth      int                 `koanf:"max_depth"`
	MaxBytes      int64               `koanf:"max_bytes"`
	DuplicateKeys flexjson.Severity   `koanf:"duplicate_keys"`
	NumberMode    flexjson.NumberMode `koanf:"number_mode"`
	Indent        string              `koanf:"indent"`
	Verbose       bool                `koanf:"verbose"`
	Report        bool                `koanf:"report"`
}

// Defaults are loaded before any file or flag.
func Defaults() map[string]any {
	return map[string]any{
		"max_depth":      0,
		"max_bytes":      0,
		"duplicate_keys": "ignore",
		"number_mode":    "json_number",
		"indent":         "",
		"verbose":        false,
		"report":         false,
	}
}

// Load merges defaults, the file at path (skipped when empty) and the changed
// flags of fs (skipped when nil). Flag names use dashes; they map onto the
// underscored keys.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(delimiter)
	if err := k.Load(confmap.Provider(Defaults(), delimiter), nil); err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryOperation, "failed to load default values").
			WithTextCode("DEFAULT_VALUES_LOAD_FAILED")
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Config{}, errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from file").
				WithTextCode("FILE_LOAD_FAILED").
				WithMetadata(map[string]any{"filepath": path})
		}
	}

	if fs != nil {
		prv := posflag.ProviderWithFlag(fs, delimiter, k, func(f *pflag.Flag) (string, any) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
		})
		if err := k.Load(prv, nil); err != nil {
			return Config{}, errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from posix flags").
				WithTextCode("FLAGS_LOAD_FAILED")
		}
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "koanf",
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			SeverityHook(),
			NumberModeHook(),
		),
	})
	if err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryOperation, "failed to build config decoder")
	}
	if err := dec.Decode(k.Raw()); err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryValidation, "failed to unmarshal configuration data").
			WithTextCode("CONFIG_UNMARSHAL_FAILED")
	}
	return cfg, nil
}

// ParseOpt turns the settings into document parse options.
func (c Config) ParseOpt() flexjson.ParseOpt {
	return flexjson.ParseOpt{
		Strictness: flexjson.Strictness{OnDuplicateKey: c.DuplicateKeys},
		MaxDepth:   c.MaxDepth,
		MaxBytes:   c.MaxBytes,
	}
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, errors.New("invalid config file type", errors.CategoryValidation).
			WithTextCode("INVALID_FILE_TYPE").
			WithMetadata(map[string]any{
				"filepath":    path,
				"valid_types": []string{"yaml", "json", "toml"},
			})
	}
}

// SeverityHook decodes "ignore", "warn" and "error" into flexjson.Severity.
func SeverityHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeFor[flexjson.Severity]() {
			return data, nil
		}
		switch strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())) {
		case "", "ignore":
			return flexjson.Ignore, nil
		case "warn":
			return flexjson.Warn, nil
		case "error":
			return flexjson.Error, nil
		}
		return nil, fmt.Errorf("invalid severity %q (want ignore, warn or error)", data)
	}
}

// NumberModeHook decodes "json_number" and "float64" into flexjson.NumberMode.
func NumberModeHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeFor[flexjson.NumberMode]() {
			return data, nil
		}
		switch strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())) {
		case "", "json_number":
			return flexjson.NumberJSONNumber, nil
		case "float64":
			return flexjson.NumberFloat64, nil
		}
		return nil, fmt.Errorf("invalid number mode %q (want json_number or float64)", data)
	}
}
