package env

import (
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
)

const keyValueParts = 2 // Number of parts in a key=value pair.

// GetMap returns the current process environment as a map.
func GetMap() map[string]string {
	return ToMap(os.Environ())
}

// ToMap converts a list of key=value assignments into a map. Entries
// without an "=" are dropped.
func ToMap(assignments []string) map[string]string {
	return lo.FromPairs(lo.FilterMap(assignments, func(item string, _ int) (lo.Entry[string, string], bool) {
		parts := strings.SplitN(item, "=", keyValueParts)
		if len(parts) != keyValueParts {
			return lo.Entry[string, string]{}, false
		}

		return lo.Entry[string, string]{Key: parts[0], Value: parts[1]}, true
	}))
}

// ToAssignments converts a map back into key=value assignments.
func ToAssignments(envMap map[string]string) []string {
	return lo.MapToSlice(envMap, func(k, v string) string {
		return k + "=" + v
	})
}

// FilterKeys returns the entries of envMap whose key contains any of the
// given substrings, compared case-insensitively. Keys come back sorted so
// callers get deterministic output.
func FilterKeys(envMap map[string]string, substrings ...string) []lo.Entry[string, string] {
	entries := lo.FilterMap(lo.Keys(envMap), func(k string, _ int) (lo.Entry[string, string], bool) {
		upper := strings.ToUpper(k)
		for _, sub := range substrings {
			if sub == "" {
				continue
			}
			if strings.Contains(upper, strings.ToUpper(sub)) {
				return lo.Entry[string, string]{Key: k, Value: envMap[k]}, true
			}
		}
		return lo.Entry[string, string]{}, false
	})

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// SearchPath returns the raw value of the process's PATH variable.
func SearchPath() string {
	return os.Getenv("PATH")
}
