package j18n

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var errMalformedText = errors.New("text is not valid JSON")

// ResolvePaths returns the value found at each requested path ("a.b[0].c",
// root "") of text. Paths are looked up in the raw text with gjson, so only
// the requested values are parsed, and a path nested inside another
// requested path is found as well. Paths that do not resolve are absent from
// the map. A property path yields the property's value; where an object
// repeats a key, the first occurrence wins.
//
// The text is validated only when some path is missing: a damaged document
// whose requested values all come before the damage resolves without error.
func ResolvePaths(text string, paths []string) (map[string]*Node, error) {
	found := make(map[string]*Node, len(paths))
	var want, query []string
	for _, p := range paths {
		if _, ok := found[p]; ok || slices.Contains(want, p) {
			continue
		}
		keys, err := ParsePath(p)
		if err != nil {
			continue
		}
		if len(keys) == 0 {
			n, err := ParseJSON([]byte(text))
			if err != nil {
				return nil, fmt.Errorf("j18n: resolve paths: %w", err)
			}
			found[p] = n
			continue
		}
		want = append(want, p)
		query = append(query, gjsonPath(keys))
	}
	if len(query) == 0 {
		return found, nil
	}
	missing := false
	for i, res := range gjson.GetMany(text, query...) {
		if !res.Exists() {
			missing = true
			continue
		}
		n, err := ParseJSON([]byte(res.Raw))
		if err != nil {
			return nil, fmt.Errorf("j18n: resolve %q: %w", want[i], err)
		}
		found[want[i]] = n
	}
	if missing && !gjson.Valid(text) {
		return nil, fmt.Errorf("j18n: resolve paths: %w", errMalformedText)
	}
	return found, nil
}

// ResolvePath resolves a single path.
func ResolvePath(text, path string) (*Node, bool, error) {
	m, err := ResolvePaths(text, []string{path})
	if err != nil {
		return nil, false, err
	}
	n, ok := m[path]
	return n, ok, nil
}

// gjsonPath spells joint path keys in gjson syntax: "a.b[0]" becomes
// "a.b.0", and characters gjson treats as syntax are escaped.
func gjsonPath(keys []string) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('.')
		}
		if idx, ok := parseIndexKey(k); ok {
			b.WriteString(strconv.Itoa(idx))
			continue
		}
		for j := 0; j < len(k); j++ {
			if !plainPathByte(k[j]) {
				b.WriteByte('\\')
			}
			b.WriteByte(k[j])
		}
	}
	return b.String()
}

func plainPathByte(c byte) bool {
	return c <= ' ' || c > '~' || c == '_' || c == '-' || c == ':' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func childPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
