package describe

import (
	"reflect"
	"time"

	"github.com/mitchellh/copystructure"
	flexjson "github.com/reoring/flexjson"
)

var defaultCopier copystructure.Config

func init() {
	defaultCopier = copystructure.Config{
		Copiers: map[reflect.Type]copystructure.CopierFunc{
			reflect.TypeFor[flexjson.Object](): copyObject,
			reflect.TypeFor[time.Time]():       func(v any) (any, error) { return v, nil },
		},
	}
}

// fieldDefault returns a fresh deep copy of def per call. Scalars come back
// unchanged.
func fieldDefault(def any) func() any {
	switch def.(type) {
	case []any, map[string]any, flexjson.Object:
		return func() any { return copystructure.Must(defaultCopier.Copy(def)) }
	default:
		return func() any { return def }
	}
}

// copyObject keeps the key order that a plain struct walk would lose.
func copyObject(v any) (any, error) {
	src := v.(flexjson.Object)
	var out flexjson.Object
	for _, k := range src.Keys() {
		val, _ := src.Get(k)
		if val == nil {
			out.Set(k, nil)
			continue
		}
		cp, err := defaultCopier.Copy(val)
		if err != nil {
			return nil, err
		}
		out.Set(k, cp)
	}
	return out, nil
}
