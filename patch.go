package j18n

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

type patchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
	From  string          `json:"from,omitempty"`
}

// ToPatch converts classified results into an RFC 6902 patch. Removed paths
// become "remove" operations, deepest parents first and, within an array,
// highest index first, so each one addresses the document as the earlier
// ones left it. Values of Object and Array results become "add" operations,
// in ascending index order within an array. Values of Value and Type
// results become "replace" operations.
func ToPatch(results []*DiffResult) (jsonpatch.Patch, error) {
	ops, err := patchOps(results)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return jsonpatch.Patch{}, nil
	}
	b, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("j18n: encode patch: %w", err)
	}
	p, err := jsonpatch.DecodePatch(b)
	if err != nil {
		return nil, fmt.Errorf("j18n: decode patch: %w", err)
	}
	return p, nil
}

func patchOps(results []*DiffResult) ([]patchOp, error) {
	var removes, updates []opAt
	seen := map[string]bool{}
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, p := range r.RemovedProperties {
			if seen[p] {
				continue
			}
			seen[p] = true
			at, err := newOpAt(p)
			if err != nil {
				return nil, err
			}
			at.op = "remove"
			removes = append(removes, at)
		}
		op := "add"
		if r.Type == KindValue || r.Type == KindType {
			op = "replace"
		}
		for p, v := range r.UpdatedProperties {
			if v == nil {
				continue
			}
			at, err := newOpAt(p)
			if err != nil {
				return nil, err
			}
			at.op = op
			at.value = json.RawMessage(v.Compact())
			updates = append(updates, at)
		}
	}
	slices.SortStableFunc(removes, func(a, b opAt) int {
		return cmp.Or(strings.Compare(b.parent, a.parent), cmp.Compare(b.index, a.index), strings.Compare(a.key, b.key))
	})
	slices.SortStableFunc(updates, func(a, b opAt) int {
		return cmp.Or(strings.Compare(a.parent, b.parent), cmp.Compare(a.index, b.index), strings.Compare(a.key, b.key))
	})
	ops := make([]patchOp, 0, len(removes)+len(updates))
	for _, at := range append(removes, updates...) {
		ops = append(ops, patchOp{Op: at.op, Path: at.pointer, Value: at.value})
	}
	return ops, nil
}

// opAt is a patch operation target split into the parent path and the last
// key, with index -1 for object keys.
type opAt struct {
	op      string
	pointer string
	parent  string
	key     string
	index   int
	value   json.RawMessage
}

func newOpAt(p string) (opAt, error) {
	ptr, err := pathToPointer(p)
	if err != nil {
		return opAt{}, err
	}
	at := opAt{pointer: ptr, index: -1}
	keys, _ := ParsePath(p)
	if len(keys) == 0 {
		return at, nil
	}
	at.key = keys[len(keys)-1]
	at.parent = strings.TrimSuffix(strings.TrimSuffix(p, at.key), ".")
	if i, ok := parseIndexKey(at.key); ok {
		at.index = i
	}
	return at, nil
}

// ApplyToText applies results to the JSON text old and returns the indented
// outcome. A result replacing the root value replaces the whole text.
func ApplyToText(old string, results []*DiffResult) (string, error) {
	for _, r := range results {
		if r == nil {
			continue
		}
		if v, ok := r.UpdatedProperties[""]; ok && v != nil {
			return v.Indent(), nil
		}
	}
	patch, err := ToPatch(results)
	if err != nil {
		return "", err
	}
	out := []byte(old)
	if len(patch) > 0 {
		out, err = patch.ApplyIndent(out, "  ")
		if err != nil {
			return "", fmt.Errorf("j18n: apply patch: %w", err)
		}
	}
	n, err := ParseJSON(out)
	if err != nil {
		return "", err
	}
	return n.Indent(), nil
}

// decodePatchOps reads an RFC 6902 patch document.
func decodePatchOps(b []byte) ([]patchOp, error) {
	var ops []patchOp
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ops); err != nil {
		return nil, fmt.Errorf("j18n: invalid JSON Patch: %w", err)
	}
	if len(ops) == 0 {
		return nil, errors.New("j18n: empty JSON Patch")
	}
	return ops, nil
}
