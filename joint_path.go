package j18n

import (
	"fmt"
	"strings"
)

// GetSubJointByPath walks from j along path, which must start with '.',
// matching one key per level. "." addresses j itself. A path that leaves the
// tree returns (nil, nil).
func (j *Joint) GetSubJointByPath(path string) (*Joint, error) {
	if !strings.HasPrefix(path, ".") {
		return nil, fmt.Errorf("%w: %q", ErrPathNoDot, path)
	}
	keys, err := ParsePath(strings.TrimLeft(path, "."))
	if err != nil {
		return nil, err
	}
	cur := j
	for _, k := range keys {
		cur = cur.Child(k)
		if cur == nil {
			return nil, nil
		}
	}
	return cur, nil
}

// RemoveSubJointByPath removes the joint at path, if any.
func (j *Joint) RemoveSubJointByPath(path string) *Joint {
	removed := j.RemoveSubJointsByPaths([]string{path})
	if len(removed) == 0 {
		return nil
	}
	return removed[0]
}

// RemoveSubJointsByPaths removes the joints at paths from their actual
// parents and returns them, detached. A missing leading '.' is added. Every
// path is resolved before anything is removed, so the paths all refer to
// the tree as it was on entry. Paths that do not resolve, or resolve to j
// itself, are skipped.
func (j *Joint) RemoveSubJointsByPaths(paths []string) []*Joint {
	targets, _, _ := j.resolveAll(paths)
	removed := make([]*Joint, 0, len(targets))
	for _, t := range targets {
		p := t.parent
		if p == nil {
			continue
		}
		if r, ok := p.removeChildFunc(func(c *Joint) bool { return c == t }); ok {
			removed = append(removed, r)
		}
	}
	return removed
}

// resolveAll resolves each path once. It returns the distinct joints found
// other than j, the paths that matched them, and the paths that did not
// resolve.
func (j *Joint) resolveAll(paths []string) (targets []*Joint, matched, missed []string) {
	seen := make(map[*Joint]bool, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		t, err := j.GetSubJointByPath(p)
		if err != nil || t == nil || t == j {
			missed = append(missed, strings.TrimPrefix(p, "."))
			continue
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		targets = append(targets, t)
		matched = append(matched, strings.TrimPrefix(p, "."))
	}
	return targets, matched, missed
}

// Walk visits j and its materialized descendants depth first, in index
// order. Returning false from fn skips the joint's children.
func (j *Joint) Walk(fn func(*Joint) bool) {
	if !fn(j) {
		return
	}
	for _, c := range j.children {
		c.Walk(fn)
	}
}

// Select returns every joint under j, j included, for which pred holds.
func (j *Joint) Select(pred func(*Joint) bool) []*Joint {
	var out []*Joint
	j.Walk(func(c *Joint) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}
