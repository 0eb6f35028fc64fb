package j18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyPatchBytes applies an RFC 6902 patch, given as raw JSON, to the tree
// under root. Paths are JSON Pointers relative to root. Containers on the
// way are materialized as needed; values written by add, replace, move and
// copy are materialized in full. Operations run in order and stop at the
// first failure, leaving the earlier ones applied.
func ApplyPatchBytes(ctx context.Context, root *Joint, patchJSON []byte) error {
	ops, err := decodePatchOps(patchJSON)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := applyOp(ctx, root, op); err != nil {
			return err
		}
	}
	return nil
}

// ApplyPatch applies a github.com/evanphx/json-patch/v5 Patch to the tree
// under root.
func ApplyPatch(ctx context.Context, root *Joint, patch jsonpatch.Patch) error {
	b, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("j18n: cannot marshal jsonpatch.Patch; pass bytes instead: %w", err)
	}
	return ApplyPatchBytes(ctx, root, b)
}

func applyOp(ctx context.Context, root *Joint, op patchOp) error {
	toks, err := parseJSONPointer(op.Path)
	if err != nil {
		return err
	}
	switch strings.ToLower(op.Op) {
	case "test":
		return opTest(root, toks, op.Value)
	case "add":
		v, err := ParseJSON(op.Value)
		if err != nil {
			return fmt.Errorf("j18n: add %s: %w", op.Path, err)
		}
		return opAdd(ctx, root, toks, v)
	case "remove":
		return opRemove(root, toks)
	case "replace":
		v, err := ParseJSON(op.Value)
		if err != nil {
			return fmt.Errorf("j18n: replace %s: %w", op.Path, err)
		}
		return opReplace(ctx, root, toks, v)
	case "move", "copy":
		from, err := parseJSONPointer(op.From)
		if err != nil {
			return err
		}
		src, err := lookupPointer(root, from)
		if err != nil {
			return fmt.Errorf("j18n: %s: %w", op.Op, err)
		}
		v, err := src.Value()
		if err != nil {
			return err
		}
		if strings.EqualFold(op.Op, "move") {
			if err := opRemove(root, from); err != nil {
				return err
			}
		}
		return opAdd(ctx, root, toks, v)
	}
	return fmt.Errorf("j18n: unsupported op %q", op.Op)
}

// ptrToken is one JSON Pointer segment: an object key, an array index or the
// array append marker "-".
type ptrToken struct {
	key    string
	index  int
	isIdx  bool
	append bool
}

func (t ptrToken) String() string {
	if t.append {
		return "-"
	}
	if t.isIdx {
		return strconv.Itoa(t.index)
	}
	return t.key
}

func parseJSONPointer(p string) ([]ptrToken, error) {
	if p == "" {
		return []ptrToken{}, nil
	}
	if !strings.HasPrefix(p, "/") {
		return nil, fmt.Errorf("j18n: JSON Pointer must start with '/': %q", p)
	}
	parts := strings.Split(p, "/")[1:]
	toks := make([]ptrToken, 0, len(parts))
	for _, s := range parts {
		seg := strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
		if seg == "-" {
			toks = append(toks, ptrToken{isIdx: true, append: true})
			continue
		}
		if i, err := strconv.Atoi(seg); err == nil && i >= 0 {
			toks = append(toks, ptrToken{key: seg, isIdx: true, index: i})
			continue
		}
		toks = append(toks, ptrToken{key: seg})
	}
	return toks, nil
}

// childFor finds the child a token names. Numeric tokens address array
// positions and, under objects, keys spelled as numbers.
func childFor(j *Joint, t ptrToken) (*Joint, error) {
	if err := materialize(j); err != nil {
		return nil, err
	}
	if j.typ == JointArray {
		if !t.isIdx || t.append {
			return nil, fmt.Errorf("j18n: %q is not an array index", t)
		}
		return j.Child(IndexKey(t.index)), nil
	}
	return j.Child(t.key), nil
}

// materialize expands an unexpanded container one level.
func materialize(j *Joint) error {
	if j.IsLeaf() || j.HasChildren() {
		return nil
	}
	if !j.HasRawText() {
		j.children = []*Joint{}
		return nil
	}
	return j.ParseRawText(false)
}

func lookupPointer(root *Joint, toks []ptrToken) (*Joint, error) {
	cur := root
	for _, t := range toks {
		if cur.IsLeaf() {
			return nil, fmt.Errorf("j18n: %q: parent is not a container", t)
		}
		next, err := childFor(cur, t)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, fmt.Errorf("j18n: %q not found", t)
		}
		cur = next
	}
	return cur, nil
}

// resolveParent returns the container holding the last token.
func resolveParent(root *Joint, toks []ptrToken) (*Joint, ptrToken, error) {
	parent, err := lookupPointer(root, toks[:len(toks)-1])
	if err != nil {
		return nil, ptrToken{}, err
	}
	if parent.IsLeaf() {
		return nil, ptrToken{}, errors.New("j18n: parent is not a container")
	}
	if err := materialize(parent); err != nil {
		return nil, ptrToken{}, err
	}
	return parent, toks[len(toks)-1], nil
}

func opTest(root *Joint, toks []ptrToken, expect json.RawMessage) error {
	target, err := lookupPointer(root, toks)
	if err != nil {
		return fmt.Errorf("j18n: test: %w", err)
	}
	got, err := target.Value()
	if err != nil {
		return err
	}
	if !jsonpatch.Equal([]byte(got.Compact()), expect) {
		return fmt.Errorf("j18n: test operation failed: expected %s, got %s", expect, got.Compact())
	}
	return nil
}

func opAdd(ctx context.Context, root *Joint, toks []ptrToken, v *Node) error {
	if len(toks) == 0 {
		return root.setValue(ctx, v)
	}
	parent, last, err := resolveParent(root, toks)
	if err != nil {
		return err
	}
	if parent.typ == JointArray {
		if !last.isIdx {
			return errors.New("j18n: add: parent is an array")
		}
		at := last.index
		if last.append {
			at = parent.Len()
		}
		if at > parent.Len() {
			return fmt.Errorf("j18n: add: index %d out of bounds", at)
		}
		return parent.insertItem(ctx, at, v)
	}
	if c := parent.Child(last.key); c != nil {
		return c.setValue(ctx, v)
	}
	c := newJoint(parent.Len(), last.key, "", v.JointType())
	if err := parent.AddChildren(ctx, c); err != nil {
		return err
	}
	return c.setValue(ctx, v)
}

func opRemove(root *Joint, toks []ptrToken) error {
	if len(toks) == 0 {
		return errors.New("j18n: remove: empty path not supported")
	}
	parent, last, err := resolveParent(root, toks)
	if err != nil {
		return err
	}
	target, err := childFor(parent, last)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("j18n: remove: %q not found", last)
	}
	parent.removeChildFunc(func(c *Joint) bool { return c == target })
	return nil
}

func opReplace(ctx context.Context, root *Joint, toks []ptrToken, v *Node) error {
	target, err := lookupPointer(root, toks)
	if err != nil {
		return fmt.Errorf("j18n: replace: %w", err)
	}
	return target.setValue(ctx, v)
}

// insertItem inserts v into an array joint at position at, shifting the
// items at and after it up by one.
func (j *Joint) insertItem(ctx context.Context, at int, v *Node) error {
	for i := len(j.children) - 1; i >= 0; i-- {
		c := j.children[i]
		if c.index >= at {
			c.index++
			c.key = IndexKey(c.index)
		}
	}
	c := newJoint(at, IndexKey(at), "", v.JointType())
	if err := j.AddChildren(ctx, c); err != nil {
		return err
	}
	return c.setValue(ctx, v)
}
