package j18n

import "context"

// ShallowCopy duplicates the joint's fields and, recursively, its children.
// Uniqueness is not re-validated and the copied children are not re-parented:
// each one still reports the joint it was copied from as its parent, and the
// copy itself is detached. Use DeepCopy for a self-contained tree.
func (j *Joint) ShallowCopy() *Joint {
	return j.shallowCopy(nil)
}

func (j *Joint) shallowCopy(parent *Joint) *Joint {
	c := j.copyFields()
	c.parent = parent
	if j.children != nil {
		c.children = make([]*Joint, len(j.children))
		for i, ch := range j.children {
			c.children[i] = ch.shallowCopy(j)
		}
	}
	return c
}

// DeepCopy returns a detached copy of the subtree in which every copied
// descendant's parent is its copied parent. Children are copied on bounded
// workers; on cancellation the context error is returned and the partial
// copy is discarded.
func (j *Joint) DeepCopy(ctx context.Context) (*Joint, error) {
	return j.deepCopy(ctx, nil)
}

func (j *Joint) deepCopy(ctx context.Context, parent *Joint) (*Joint, error) {
	c := j.copyFields()
	c.parent = parent
	if j.children == nil {
		return c, nil
	}
	c.children = make([]*Joint, len(j.children))
	err := forEach(ctx, len(j.children), Workers(), func(i int) error {
		cc, err := j.children[i].deepCopy(ctx, c)
		if err != nil {
			return err
		}
		c.children[i] = cc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (j *Joint) copyFields() *Joint {
	return &Joint{
		key:         j.key,
		index:       j.index,
		typ:         j.typ,
		raw:         j.raw,
		scalar:      j.scalar,
		comment:     j.comment,
		description: j.description,
		created:     j.created,
		modified:    j.modified,
	}
}
