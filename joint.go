package j18n

import (
	"fmt"
	"strings"
	"time"
)

// JointType classifies a joint. Object and Array joints are containers,
// String joints are leaves holding any scalar.
type JointType int

const (
	JointObject JointType = iota
	JointArray
	JointString
)

func (t JointType) String() string {
	switch t {
	case JointObject:
		return "Object"
	case JointArray:
		return "Array"
	case JointString:
		return "String"
	}
	return fmt.Sprintf("JointType(%d)", int(t))
}

// ModificationWindow coalesces modification-time updates: a change within
// this window of the last recorded modification is not recorded again.
const ModificationWindow = 3 * time.Second

var now = func() time.Time { return time.Now().UTC() }

// Joint is a node of the editable document tree. A joint owns its children;
// a child keeps a non-owning reference to its parent, which is set and
// cleared only by AddChildren and the Remove* methods.
//
// Mutations on joints sharing a parent are not synchronized. Callers that
// edit one parent from several goroutines must serialize the calls.
type Joint struct {
	key         string
	index       int
	typ         JointType
	raw         string
	scalar      NodeKind
	comment     string
	description string
	created     time.Time
	modified    time.Time

	// children is nil until the joint is materialized.
	children []*Joint
	parent   *Joint
}

// JointOption configures a joint at construction.
type JointOption func(*Joint)

// WithComment sets the joint comment.
func WithComment(c string) JointOption {
	return func(j *Joint) { j.comment = c }
}

// WithDescription sets the joint description.
func WithDescription(d string) JointOption {
	return func(j *Joint) { j.description = d }
}

// NewJoint creates a detached joint identified by key, at index 0.
func NewJoint(key, rawText string, typ JointType, opts ...JointOption) (*Joint, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrEmptyKey
	}
	return newJoint(0, key, rawText, typ, opts...), nil
}

// NewJointAt creates a detached joint at index, keyed "[index]".
func NewJointAt(index int, rawText string, typ JointType, opts ...JointOption) (*Joint, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	}
	return newJoint(index, IndexKey(index), rawText, typ, opts...), nil
}

// NewJointWith creates a detached joint with both an index and a key.
func NewJointWith(index int, key, rawText string, typ JointType, opts ...JointOption) (*Joint, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	}
	if strings.TrimSpace(key) == "" {
		return nil, ErrEmptyKey
	}
	return newJoint(index, key, rawText, typ, opts...), nil
}

// NewRoot creates a tree root. The root has an empty key, so the paths of
// its descendants start directly with their own keys ("a.b[1]"). A root can
// not be attached to another joint until it is given a key.
func NewRoot(rawText string, typ JointType, opts ...JointOption) *Joint {
	return newJoint(0, "", rawText, typ, opts...)
}

func newJoint(index int, key, rawText string, typ JointType, opts ...JointOption) *Joint {
	t := now()
	j := &Joint{
		key:      key,
		index:    index,
		typ:      typ,
		raw:      rawText,
		scalar:   StringNode,
		created:  t,
		modified: t,
	}
	for _, o := range opts {
		o(j)
	}
	return j
}

func (j *Joint) Key() string                 { return j.key }
func (j *Joint) Index() int                  { return j.index }
func (j *Joint) Type() JointType             { return j.typ }
func (j *Joint) RawText() string             { return j.raw }
func (j *Joint) HasRawText() bool            { return strings.TrimSpace(j.raw) != "" }
func (j *Joint) Comment() string             { return j.comment }
func (j *Joint) Description() string         { return j.description }
func (j *Joint) CreationTime() time.Time     { return j.created }
func (j *Joint) ModificationTime() time.Time { return j.modified }
func (j *Joint) Parent() *Joint              { return j.parent }

// IsLeaf reports whether the joint is a String joint.
func (j *Joint) IsLeaf() bool { return j.typ == JointString }

// HasChildren reports whether the joint has been materialized. A
// materialized container may still have zero children.
func (j *Joint) HasChildren() bool { return j.children != nil }

// Children returns the children ordered by index, or nil if the joint has
// not been materialized.
func (j *Joint) Children() []*Joint {
	if j.children == nil {
		return nil
	}
	out := make([]*Joint, len(j.children))
	copy(out, j.children)
	return out
}

// Len is the number of children.
func (j *Joint) Len() int { return len(j.children) }

// Path is the address of the joint from the tree root: parent path and key
// joined with '.', or concatenated when the parent is an array.
func (j *Joint) Path() string {
	if j.parent == nil {
		return j.key
	}
	pp := j.parent.Path()
	if j.parent.typ == JointArray {
		return pp + j.key
	}
	if pp == "" {
		return j.key
	}
	return pp + "." + j.key
}

// Depth is the number of ancestors.
func (j *Joint) Depth() int {
	d := 0
	for p := j.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Root returns the topmost ancestor.
func (j *Joint) Root() *Joint {
	r := j
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Prev returns the sibling before j, or nil.
func (j *Joint) Prev() *Joint {
	if j.parent == nil || j.index == 0 {
		return nil
	}
	return j.parent.ChildAt(j.index - 1)
}

// Next returns the sibling after j, or nil.
func (j *Joint) Next() *Joint {
	if j.parent == nil {
		return nil
	}
	return j.parent.ChildAt(j.index + 1)
}

// SetKey renames the joint. The key must be non-empty and unused by the
// joint's siblings. A child of an array keeps the key IndexKey(index); any
// other key is rejected with ErrPositionalKey.
func (j *Joint) SetKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	if key == j.key {
		return nil
	}
	if j.parent != nil && j.parent.typ == JointArray {
		return fmt.Errorf("%w: %q", ErrPositionalKey, key)
	}
	if j.parent != nil && j.parent.Child(key) != nil {
		return &DuplicateKeyError{InStored: []string{key}}
	}
	j.key = key
	j.touch()
	return nil
}

// SetIndex moves the joint among its siblings. Colliding siblings are
// reordered by the reindexing tie-break.
func (j *Joint) SetIndex(index int) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	}
	if index == j.index {
		return nil
	}
	j.index = index
	if j.parent != nil {
		j.parent.reindex()
	}
	j.touch()
	return nil
}

// SetRawText replaces the raw text. Blank text drops all children.
func (j *Joint) SetRawText(text string) {
	if text == j.raw {
		return
	}
	j.raw = text
	if strings.TrimSpace(text) == "" {
		j.clearChildren()
	}
	j.touch()
}

// SetType changes the joint type. Becoming an array renames the children to
// their index keys.
func (j *Joint) SetType(t JointType) {
	if t == j.typ {
		return
	}
	j.typ = t
	if t == JointArray {
		j.reindex()
	}
	j.touch()
}

func (j *Joint) SetComment(c string) {
	if c == j.comment {
		return
	}
	j.comment = c
	j.touch()
}

func (j *Joint) SetDescription(d string) {
	if d == j.description {
		return
	}
	j.description = d
	j.touch()
}

// touch records a modification on j and all its ancestors, unless j was
// already modified within ModificationWindow.
func (j *Joint) touch() {
	t := now()
	if t.Sub(j.modified) <= ModificationWindow {
		return
	}
	for cur := j; cur != nil; cur = cur.parent {
		cur.modified = t
	}
}

func (j *Joint) String() string {
	return fmt.Sprintf("%s[%d] %s", j.Path(), j.index, j.typ)
}
