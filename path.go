package j18n

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePath splits a joint path into the keys it addresses. Object keys are
// separated by '.', array positions are written as "[i]" and are returned
// with their brackets so they match the keys of array children:
//
//	ParsePath("abc[0].hello") == []string{"abc", "[0]", "hello"}
//
// Empty segments (leading dots, ".[0]") are dropped. A '[' without a
// matching ']' is an error.
func ParsePath(path string) ([]string, error) {
	var keys []string
	i := 0
	for i < len(path) {
		open := strings.IndexByte(path[i:], '[')
		dot := strings.IndexByte(path[i:], '.')
		if open == -1 && dot == -1 {
			keys = appendKey(keys, path[i:])
			break
		}
		if open == -1 || (dot != -1 && dot < open) {
			keys = appendKey(keys, path[i:i+dot])
			i += dot + 1
			continue
		}
		end := strings.IndexByte(path[i+open:], ']')
		if end == -1 {
			return nil, fmt.Errorf("%w: missing ']' in %q", ErrInvalidPath, path)
		}
		keys = appendKey(keys, path[i:i+open])
		keys = appendKey(keys, path[i+open:i+open+end+1])
		i += open + end + 1
	}
	return keys, nil
}

func appendKey(keys []string, k string) []string {
	if strings.TrimSpace(k) == "" {
		return keys
	}
	return append(keys, k)
}

// IndexKey is the key an array child carries for position i.
func IndexKey(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// parseIndexKey reports the position encoded by an array key such as "[3]".
func parseIndexKey(k string) (int, bool) {
	if len(k) < 3 || k[0] != '[' || k[len(k)-1] != ']' {
		return 0, false
	}
	i, err := strconv.Atoi(k[1 : len(k)-1])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// trimRecordPath turns a "$"-rooted record path ("$.a.b") into the form used
// by joints and resolution ("a.b"). The root becomes "".
func trimRecordPath(p string) string {
	return strings.TrimLeft(strings.TrimPrefix(p, "$"), ".")
}

// propertyPath appends an object key to a trimmed path.
func propertyPath(base, name string) string {
	return strings.Trim(base+"."+name, ".")
}

// itemPath appends an array position to a trimmed path.
func itemPath(base string, i int) string {
	return strings.Trim(base+IndexKey(i), ".")
}

// recordPropertyPath and recordItemPath build "$"-rooted record paths.
func recordPropertyPath(base, name string) string {
	return base + "." + name
}

func recordItemPath(base string, i int) string {
	return base + IndexKey(i)
}

// pathToPointer converts a joint path into an RFC 6901 JSON Pointer.
func pathToPointer(p string) (string, error) {
	keys, err := ParsePath(p)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteByte('/')
		if i, ok := parseIndexKey(k); ok {
			b.WriteString(strconv.Itoa(i))
			continue
		}
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(k, "~", "~0"), "/", "~1"))
	}
	return b.String(), nil
}
