package flexjson

import (
	"sort"
	"strings"
)

// Presence is the bit flag collected by WithMeta APIs.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
	PresenceInvalid                             // Field was present but its value could not be used.
)

// String renders the set flags, e.g. "seen|default".
func (p Presence) String() string {
	if p == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		bit  Presence
		name string
	}{
		{PresenceSeen, "seen"},
		{PresenceWasNull, "null"},
		{PresenceDefaultApplied, "default"},
		{PresenceInvalid, "invalid"},
	} {
		if p&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Defaulted returns the pointers whose value came from the Default Registry,
// in ascending order.
func (pm PresenceMap) Defaulted() []string {
	var out []string
	for k, v := range pm {
		if v&PresenceDefaultApplied != 0 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// merge ORs the flags of src into pm.
func (pm PresenceMap) merge(src PresenceMap) {
	for k, v := range src {
		pm[k] |= v
	}
}

// Decoded carries the decoded value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

// fieldPresence derives the flags for one field from the lookup outcome.
func fieldPresence(raw any, found, ok bool) Presence {
	if !found {
		return PresenceDefaultApplied
	}
	p := PresenceSeen
	if raw == nil {
		p |= PresenceWasNull
	}
	if !ok {
		p |= PresenceDefaultApplied
		if raw != nil {
			p |= PresenceInvalid
		}
	}
	return p
}

func applyPresenceOptions(pm PresenceMap, popt PresenceOpt) PresenceMap {
	if pm == nil {
		return nil
	}
	if !popt.Collect && len(popt.Include) == 0 && len(popt.Exclude) == 0 {
		return pm
	}
	filtered := make(PresenceMap, len(pm))
	for k, v := range pm {
		if shouldInclude(k, popt.Include, popt.Exclude) {
			filtered[k] = v
		}
	}
	return filtered
}

func shouldInclude(path string, includes, excludes []string) bool {
	if len(includes) > 0 {
		ok := false
		for _, p := range includes {
			if strings.HasPrefix(path, p) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, p := range excludes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}
