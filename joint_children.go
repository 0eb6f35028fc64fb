package j18n

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
)

// UpdateMode selects how UpdateChildFunc copies the new state.
type UpdateMode int

const (
	// FullUpdate copies index, key, raw text, type, comment and description.
	FullUpdate UpdateMode = iota
	// PartialUpdate copies key, raw text, type, comment and description and
	// keeps the child's position.
	PartialUpdate
)

// AddChild attaches a single child.
func (j *Joint) AddChild(child *Joint) error {
	return j.AddChildren(context.Background(), child)
}

// AddChildren validates and attaches a batch of detached joints. Nothing is
// attached if any child has an empty key, a negative index or a parent, or
// if a key repeats inside the batch or collides with a stored child; the
// returned *DuplicateKeyError names every colliding key. Parent references
// are set on bounded workers, after which the children are merged and
// reindexed. If ctx is cancelled before the merge, every child of the batch
// is left detached.
//
// Under an Array parent keys are positional: the batch is not checked for
// key collisions and each child is renamed to IndexKey of its final index.
func (j *Joint) AddChildren(ctx context.Context, children ...*Joint) error {
	if len(children) == 0 {
		return nil
	}
	for _, c := range children {
		if c == nil {
			return fmt.Errorf("j18n: nil child added to %q", j.Path())
		}
		if strings.TrimSpace(c.key) == "" {
			return ErrEmptyKey
		}
		if c.index < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeIndex, c.index)
		}
		if c.parent != nil {
			return fmt.Errorf("%w: %q", ErrAlreadyAttached, c.Path())
		}
	}
	if j.typ != JointArray {
		if err := j.checkDuplicates(children, nil); err != nil {
			return err
		}
	}
	err := forEach(ctx, len(children), Workers(), func(i int) error {
		children[i].parent = j
		return nil
	})
	if err != nil {
		for _, c := range children {
			c.parent = nil
		}
		return err
	}
	if j.children == nil {
		j.children = make([]*Joint, 0, len(children))
	}
	j.children = append(j.children, children...)
	j.reindex()
	j.touch()
	return nil
}

// checkDuplicates reports keys repeated inside batch and keys of batch
// already used by stored children. Keys in ignore are exempt.
func (j *Joint) checkDuplicates(batch []*Joint, ignore []string) error {
	seen := make(map[string]int, len(batch))
	var inBatch, inStored []string
	for _, c := range batch {
		if slices.Contains(ignore, c.key) {
			continue
		}
		seen[c.key]++
		if seen[c.key] == 2 {
			inBatch = append(inBatch, c.key)
		}
		if j.Child(c.key) != nil && !slices.Contains(inStored, c.key) {
			inStored = append(inStored, c.key)
		}
	}
	if len(inBatch) == 0 && len(inStored) == 0 {
		return nil
	}
	return &DuplicateKeyError{Ignored: ignore, InBatch: inBatch, InStored: inStored}
}

// Child returns the child with key, or nil.
func (j *Joint) Child(key string) *Joint {
	return j.FindChild(func(c *Joint) bool { return c.key == key })
}

// ChildAt returns the child at index, or nil.
func (j *Joint) ChildAt(index int) *Joint {
	if index >= 0 && index < len(j.children) && j.children[index].index == index {
		return j.children[index]
	}
	return j.FindChild(func(c *Joint) bool { return c.index == index })
}

// FindChild returns the first child, in index order, matching pred.
func (j *Joint) FindChild(pred func(*Joint) bool) *Joint {
	for _, c := range j.children {
		if pred(c) {
			return c
		}
	}
	return nil
}

// UpdateChild replaces every field of the child sharing newChild's key.
// It returns a copy of the child's previous state.
func (j *Joint) UpdateChild(newChild *Joint) (*Joint, bool, error) {
	key := newChild.key
	return j.UpdateChildFunc(func(c *Joint) bool { return c.key == key }, newChild, FullUpdate)
}

// UpdateChildAt replaces every field of the child at index.
func (j *Joint) UpdateChildAt(index int, newChild *Joint) (*Joint, bool, error) {
	return j.UpdateChildFunc(func(c *Joint) bool { return c.index == index }, newChild, FullUpdate)
}

// PatchChild copies key, raw text, type, comment and description onto the
// child currently keyed key.
func (j *Joint) PatchChild(key, rawText string, typ JointType, opts ...JointOption) (*Joint, bool, error) {
	nc, err := NewJoint(key, rawText, typ, opts...)
	if err != nil {
		return nil, false, err
	}
	return j.UpdateChildFunc(func(c *Joint) bool { return c.key == key }, nc, PartialUpdate)
}

// PatchChildAt copies raw text, type, comment and description onto the
// child at index. The child keeps its key.
func (j *Joint) PatchChildAt(index int, rawText string, typ JointType, opts ...JointOption) (*Joint, bool, error) {
	old := j.ChildAt(index)
	if old == nil {
		return nil, false, nil
	}
	nc, err := NewJointWith(index, old.key, rawText, typ, opts...)
	if err != nil {
		return nil, false, err
	}
	return j.UpdateChildFunc(func(c *Joint) bool { return c == old }, nc, PartialUpdate)
}

// UpdateChildFunc locates a child with find and copies newChild's state
// onto it according to mode. The child keeps its identity, creation time,
// parent and children. If the index changes, the siblings are reindexed.
// Under an Array parent newChild's key is ignored and the child stays keyed
// by its index.
// The returned joint is a shallow copy of the previous state; ok is false
// when no child matched.
func (j *Joint) UpdateChildFunc(find func(*Joint) bool, newChild *Joint, mode UpdateMode) (old *Joint, ok bool, err error) {
	target := j.FindChild(find)
	if target == nil {
		return nil, false, nil
	}
	if strings.TrimSpace(newChild.key) == "" {
		return nil, false, ErrEmptyKey
	}
	if mode == FullUpdate && newChild.index < 0 {
		return nil, false, fmt.Errorf("%w: %d", ErrNegativeIndex, newChild.index)
	}
	isArray := j.typ == JointArray
	if !isArray {
		if err := j.checkDuplicates([]*Joint{newChild}, []string{target.key}); err != nil {
			return nil, false, err
		}
	}
	old = target.ShallowCopy()
	if mode == FullUpdate {
		target.index = newChild.index
	}
	target.key = newChild.key
	target.raw = newChild.raw
	target.scalar = newChild.scalar
	target.typ = newChild.typ
	target.comment = newChild.comment
	target.description = newChild.description
	if strings.TrimSpace(target.raw) == "" {
		target.clearChildren()
	}
	if isArray {
		target.key = IndexKey(target.index)
	}
	if target.index != old.index {
		j.reindex()
	}
	target.touch()
	return old, true, nil
}

// RemoveChild detaches the child with key.
func (j *Joint) RemoveChild(key string) (*Joint, bool) {
	return j.removeChildFunc(func(c *Joint) bool { return c.key == key })
}

// RemoveChildAt detaches the child at index.
func (j *Joint) RemoveChildAt(index int) (*Joint, bool) {
	return j.removeChildFunc(func(c *Joint) bool { return c.index == index })
}

// removeChildFunc detaches the first child matching find and shifts every
// later sibling down by one. Under an Array parent the shifted siblings are
// renamed by reindex so that key and index stay in lockstep.
func (j *Joint) removeChildFunc(find func(*Joint) bool) (*Joint, bool) {
	at := slices.IndexFunc(j.children, find)
	if at < 0 {
		return nil, false
	}
	removed := j.children[at]
	j.children = slices.Delete(j.children, at, at+1)
	removed.parent = nil

	for _, c := range j.children {
		if c.index > removed.index {
			c.index--
		}
	}
	j.reindex()
	j.touch()
	return removed, true
}

// RemoveAllChildren detaches every child. A materialized joint stays
// materialized with zero children.
func (j *Joint) RemoveAllChildren() {
	if j.children == nil {
		return
	}
	for _, c := range j.children {
		c.parent = nil
	}
	j.children = j.children[:0]
	j.touch()
}

// clearChildren detaches every child and marks the joint unmaterialized.
func (j *Joint) clearChildren() {
	for _, c := range j.children {
		c.parent = nil
	}
	j.children = nil
}

// Reindex restores contiguous child indices. It is run after every
// structural change and is exported for callers that edit indices in bulk.
func (j *Joint) Reindex() {
	j.reindex()
	j.touch()
}

// reindex sorts the children and assigns indices 0..n-1. Children sharing
// an index are ordered by creation time, then key, then raw text, then type.
// Array children are always renamed to match their index.
func (j *Joint) reindex() {
	if len(j.children) == 0 {
		return
	}
	slices.SortStableFunc(j.children, compareSiblings)
	for i, c := range j.children {
		c.index = i
		if j.typ == JointArray {
			c.key = IndexKey(i)
		}
	}
}

func compareSiblings(a, b *Joint) int {
	return cmp.Or(
		cmp.Compare(a.index, b.index),
		a.created.Compare(b.created),
		strings.Compare(a.key, b.key),
		strings.Compare(a.raw, b.raw),
		cmp.Compare(a.typ, b.typ),
	)
}
