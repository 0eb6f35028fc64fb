package j18n

import (
	"context"
	"fmt"
	"strings"
)

// ParseDocument parses JSON text into a new root joint. With recursive the
// whole tree is materialized; otherwise only the root's direct children are,
// and deeper levels are expanded later with ParseRawText.
func ParseDocument(text string, recursive bool) (*Joint, error) {
	n, err := ParseJSON([]byte(text))
	if err != nil {
		return nil, err
	}
	root := NewRoot(text, n.JointType())
	if err := root.ParseOrUpdate(n, recursive, false); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseYAMLDocument is ParseDocument for YAML input. The root's raw text is
// the JSON form of the document. Head comments become joint comments and
// line comments become descriptions, for the joints materialized here.
func ParseYAMLDocument(data []byte, recursive bool) (*Joint, error) {
	n, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	notes, err := yamlNotes(data)
	if err != nil {
		return nil, err
	}
	root := NewRoot(n.Indent(), n.JointType())
	if err := root.ParseOrUpdate(n, recursive, false); err != nil {
		return nil, err
	}
	root.applyYAMLNotes(notes)
	return root, nil
}

// ParseRawText materializes the joint's children from its own raw text.
// Blank or malformed raw text leaves the children untouched and is not an
// error; callers must check HasChildren.
func (j *Joint) ParseRawText(recursive bool) error {
	if !j.HasRawText() {
		return nil
	}
	n, err := ParseJSON([]byte(j.raw))
	if err != nil {
		return nil
	}
	return j.ParseOrUpdate(n, recursive, false)
}

// UpdateRawTextAndChildren parses text, rebuilds the children from it and
// stores its indented form as the joint's raw text. Malformed text is a
// no-op.
func (j *Joint) UpdateRawTextAndChildren(text string, recursive bool) error {
	n, err := ParseJSON([]byte(text))
	if err != nil {
		return nil
	}
	return j.ParseOrUpdate(n, recursive, true)
}

// ParseOrUpdate replaces the joint's children with ones built from n:
//
//   - a scalar yields exactly one String child holding the value;
//   - an array yields one child per element keyed "[i]";
//   - an object yields one child per property keyed by the property name.
//
// With recursive, container children are materialized from their sub-nodes
// right away; otherwise they stay unexpanded until their own ParseRawText.
// With persistRawText the joint's raw text becomes n's indented form. A nil
// n is a no-op. Calling it again fully replaces the previous children.
func (j *Joint) ParseOrUpdate(n *Node, recursive, persistRawText bool) error {
	return j.parseOrUpdate(context.Background(), n, recursive, persistRawText)
}

func (j *Joint) parseOrUpdate(ctx context.Context, n *Node, recursive, persistRawText bool) error {
	if n == nil {
		return nil
	}
	kids, subs := j.childrenFrom(n)
	if recursive {
		for i, k := range kids {
			if !subs[i].IsContainer() {
				continue
			}
			if err := k.parseOrUpdate(ctx, subs[i], true, false); err != nil {
				return fmt.Errorf("j18n: materialize %q: %w", k.key, err)
			}
		}
	}
	j.clearChildren()
	j.children = make([]*Joint, 0, len(kids))
	if err := j.AddChildren(ctx, kids...); err != nil {
		return err
	}
	if persistRawText {
		j.SetRawText(n.Indent())
	}
	j.touch()
	return nil
}

// childrenFrom builds detached children for n along with the sub-node each
// child was built from.
func (j *Joint) childrenFrom(n *Node) ([]*Joint, []*Node) {
	switch n.Kind {
	case ArrayNode:
		kids := make([]*Joint, len(n.Values))
		for i, v := range n.Values {
			kids[i] = leafOrContainer(i, IndexKey(i), v)
		}
		return kids, n.Values
	case ObjectNode:
		kids := make([]*Joint, len(n.Fields))
		for i, f := range n.Fields {
			kids[i] = leafOrContainer(i, f, n.Values[i])
		}
		return kids, n.Values
	}
	key := j.key
	if j.typ == JointArray || strings.TrimSpace(key) == "" {
		key = IndexKey(0)
	}
	return []*Joint{leafOrContainer(0, key, n)}, []*Node{n}
}

func leafOrContainer(index int, key string, v *Node) *Joint {
	c := newJoint(index, key, v.LeafText(), v.JointType())
	if !v.IsContainer() {
		c.scalar = v.Kind
	}
	return c
}

// setValue makes the joint hold v: its type follows v, its raw text becomes
// v's leaf text, and containers are rematerialized in full while scalars
// leave the joint a leaf.
func (j *Joint) setValue(ctx context.Context, v *Node) error {
	j.SetType(v.JointType())
	if !v.IsContainer() {
		j.clearChildren()
		j.scalar = v.Kind
		j.SetRawText(v.LeafText())
		return nil
	}
	return j.parseOrUpdate(ctx, v, true, true)
}

// Value rebuilds the JSON value the joint stands for. Unexpanded containers
// are rebuilt from their raw text.
func (j *Joint) Value() (*Node, error) {
	switch {
	case j.typ == JointString:
		return scalarNode(j.scalar, j.raw), nil
	case j.children == nil:
		if !j.HasRawText() {
			if j.typ == JointArray {
				return &Node{Kind: ArrayNode, Values: []*Node{}}, nil
			}
			return &Node{Kind: ObjectNode, Fields: []string{}, Values: []*Node{}}, nil
		}
		n, err := ParseJSON([]byte(j.raw))
		if err != nil {
			return nil, fmt.Errorf("j18n: raw text of %q: %w", j.Path(), err)
		}
		return n, nil
	case j.typ == JointArray:
		n := &Node{Kind: ArrayNode, Values: make([]*Node, 0, len(j.children))}
		for _, c := range j.children {
			v, err := c.Value()
			if err != nil {
				return nil, err
			}
			n.Values = append(n.Values, v)
		}
		return n, nil
	}
	n := &Node{Kind: ObjectNode, Fields: make([]string, 0, len(j.children)), Values: make([]*Node, 0, len(j.children))}
	for _, c := range j.children {
		v, err := c.Value()
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, c.key)
		n.Values = append(n.Values, v)
	}
	return n, nil
}

// JSON renders the joint's value as indented JSON.
func (j *Joint) JSON() (string, error) {
	v, err := j.Value()
	if err != nil {
		return "", err
	}
	return v.Indent(), nil
}
