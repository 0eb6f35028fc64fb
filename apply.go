package j18n

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// ApplyReport lists what ApplyResults did, by path.
type ApplyReport struct {
	Removed  []string
	Updated  []string
	Inserted []string
	Skipped  []string
}

// ApplyOption configures ApplyResults.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	insert bool
}

// InsertMissing makes ApplyResults create joints for updated paths that do
// not resolve, when their parent exists and is an object, or is an array the
// path appends to. Without it such paths are skipped.
func InsertMissing() ApplyOption {
	return func(c *applyConfig) { c.insert = true }
}

// ApplyResults applies classified results to the tree under root. Removed
// paths of all results are deduplicated, resolved against the tree as it is
// on entry and removed. Each updated path is then resolved and the matched
// joint takes the new value: its type follows the value, its raw text
// becomes the value's text and containers are rematerialized in full.
// Paths that do not resolve are reported as skipped. Nil results are
// ignored.
//
// Paths are resolved through materialized joints only. On a lazily parsed
// tree every path below a container that has not been expanded is skipped,
// for removals and updates alike; InsertMissing expands the direct parent of
// a missing path but never an ancestor above it. Expand the tree with
// ParseRawText(true) first to apply results anywhere in it.
func ApplyResults(ctx context.Context, root *Joint, results []*DiffResult, opts ...ApplyOption) (ApplyReport, error) {
	var cfg applyConfig
	for _, o := range opts {
		o(&cfg)
	}
	var rep ApplyReport

	var removed []string
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, p := range r.RemovedProperties {
			if !slices.Contains(removed, p) {
				removed = append(removed, p)
			}
		}
	}
	targets, matched, missed := root.resolveAll(removed)
	rep.Skipped = append(rep.Skipped, missed...)
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if _, ok := t.parent.removeChildFunc(func(c *Joint) bool { return c == t }); ok {
			rep.Removed = append(rep.Removed, matched[i])
		}
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		for _, p := range r.UpdatedPaths() {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			v := r.UpdatedProperties[p]
			if v == nil {
				rep.Skipped = append(rep.Skipped, p)
				continue
			}
			j, err := root.GetSubJointByPath("." + p)
			if err != nil {
				return rep, err
			}
			if j == nil {
				inserted, err := root.insertAt(ctx, p, v, cfg.insert)
				if err != nil {
					return rep, err
				}
				if inserted {
					rep.Inserted = append(rep.Inserted, p)
				} else {
					rep.Skipped = append(rep.Skipped, p)
				}
				continue
			}
			if err := j.setValue(ctx, v); err != nil {
				return rep, fmt.Errorf("j18n: update %q: %w", p, err)
			}
			rep.Updated = append(rep.Updated, p)
		}
	}
	return rep, nil
}

// insertAt attaches a new joint holding v at path when enabled and the
// parent can take it.
func (j *Joint) insertAt(ctx context.Context, path string, v *Node, enabled bool) (bool, error) {
	if !enabled {
		return false, nil
	}
	keys, err := ParsePath(path)
	if err != nil || len(keys) == 0 {
		return false, err
	}
	last := keys[len(keys)-1]
	parent := j
	if len(keys) > 1 {
		parentPath := strings.TrimSuffix(path, last)
		parent, err = j.GetSubJointByPath("." + strings.TrimSuffix(parentPath, "."))
		if err != nil || parent == nil {
			return false, err
		}
	}
	if parent.IsLeaf() {
		return false, nil
	}
	if !parent.HasChildren() {
		if err := parent.ParseRawText(false); err != nil {
			return false, err
		}
		if c := parent.Child(last); c != nil {
			return true, c.setValue(ctx, v)
		}
	}
	index := parent.Len()
	if parent.typ == JointArray {
		i, ok := parseIndexKey(last)
		if !ok || i != parent.Len() {
			return false, nil
		}
	}
	c := newJoint(index, last, "", v.JointType())
	if err := parent.AddChildren(ctx, c); err != nil {
		return false, err
	}
	if err := c.setValue(ctx, v); err != nil {
		return false, err
	}
	return true, nil
}

// Diff classifies the differences between two JSON texts in one session
// over to.
func Diff(ctx context.Context, from, to string, opts ...SessionOption) ([]*DiffResult, error) {
	records, err := DiffJSON([]byte(from), []byte(to))
	if err != nil {
		return nil, err
	}
	s, err := NewSession(to, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Classify(ctx, records)
}

// SyncJoint brings the tree under root in line with to: the tree's current
// value is diffed against to and the results applied, inserting joints for
// new properties. Changes below unexpanded containers are skipped.
func SyncJoint(ctx context.Context, root *Joint, to string, opts ...SessionOption) (ApplyReport, error) {
	from, err := root.JSON()
	if err != nil {
		return ApplyReport{}, err
	}
	results, err := Diff(ctx, from, to, opts...)
	if err != nil {
		return ApplyReport{}, err
	}
	return ApplyResults(ctx, root, results, InsertMissing())
}
