package j18n

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// nodeToYAML converts a JSON node into a yaml.v3 node, keeping field order.
func nodeToYAML(n *Node) *yaml.Node {
	switch n.Kind {
	case NullNode:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case BoolNode:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: n.Str}
	case NumberNode:
		if strings.ContainsAny(n.Str, ".eE") {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: n.Str}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: n.Str}
	case StringNode:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Str}
	case ArrayNode:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, v := range n.Values {
			seq.Content = append(seq.Content, nodeToYAML(v))
		}
		return seq
	}
	mp := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, f := range n.Fields {
		mp.Content = append(mp.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f},
			nodeToYAML(n.Values[i]),
		)
	}
	return mp
}

// ToYAMLNode converts the subtree into a yaml.v3 node. Containers become
// mappings or sequences in index order and leaves become scalars. A joint's
// comment is written as a head comment above it and its description as a
// line comment beside it. Unexpanded containers are converted from their
// raw text.
func (j *Joint) ToYAMLNode() (*yaml.Node, error) {
	var out *yaml.Node
	switch {
	case j.typ == JointString || j.children == nil:
		v, err := j.Value()
		if err != nil {
			return nil, err
		}
		out = nodeToYAML(v)
	case j.typ == JointArray:
		out = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, c := range j.children {
			cn, err := c.ToYAMLNode()
			if err != nil {
				return nil, err
			}
			c.annotate(cn, cn)
			out.Content = append(out.Content, cn)
		}
	default:
		out = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, c := range j.children {
			cn, err := c.ToYAMLNode()
			if err != nil {
				return nil, err
			}
			k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.key}
			line := cn
			if cn.Kind != yaml.ScalarNode {
				line = k
			}
			c.annotate(k, line)
			out.Content = append(out.Content, k, cn)
		}
	}
	if j.parent == nil {
		j.annotate(out, out)
	}
	return out, nil
}

func (j *Joint) annotate(head, line *yaml.Node) {
	if c := strings.TrimSpace(j.comment); c != "" {
		head.HeadComment = yamlComment(c)
	}
	if d := strings.TrimSpace(j.description); d != "" {
		line.LineComment = "# " + strings.Join(strings.Fields(d), " ")
	}
}

func yamlComment(c string) string {
	lines := strings.Split(c, "\n")
	for i, l := range lines {
		lines[i] = "# " + strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

// MarshalYAML implements yaml.Marshaler.
func (j *Joint) MarshalYAML() (interface{}, error) {
	return j.ToYAMLNode()
}

// YAML renders the subtree as a YAML document indented by two spaces.
func (j *Joint) YAML() ([]byte, error) {
	n, err := j.ToYAMLNode()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("j18n: encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("j18n: encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// yamlNote is the comment text found around one YAML entry.
type yamlNote struct {
	head, line string
}

// yamlNotes collects head and line comments by joint path. A mapping
// entry's head comment sits on its key; its line comment sits on the key
// for containers and on the value for scalars.
func yamlNotes(data []byte) (map[string]yamlNote, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("j18n: failed to parse YAML: %w", err)
	}
	notes := map[string]yamlNote{}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return notes, nil
	}
	root := doc.Content[0]
	if n := noteOf(doc.HeadComment, root.HeadComment, "", ""); n != (yamlNote{}) {
		notes[""] = n
	}
	collectNotes(notes, root, "")
	return notes, nil
}

func collectNotes(notes map[string]yamlNote, n *yaml.Node, path string) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			p := childPath(path, k.Value)
			if note := noteOf(k.HeadComment, "", k.LineComment, v.LineComment); note != (yamlNote{}) {
				notes[p] = note
			}
			collectNotes(notes, v, p)
		}
	case yaml.SequenceNode:
		for i, v := range n.Content {
			p := path + IndexKey(i)
			if note := noteOf(v.HeadComment, "", v.LineComment, ""); note != (yamlNote{}) {
				notes[p] = note
			}
			collectNotes(notes, v, p)
		}
	}
}

func noteOf(head1, head2, line1, line2 string) yamlNote {
	head := head1
	if head == "" {
		head = head2
	}
	line := line1
	if line == "" {
		line = line2
	}
	return yamlNote{head: uncomment(head), line: uncomment(line)}
}

// uncomment strips the '#' markers of a YAML comment block.
func uncomment(c string) string {
	if c == "" {
		return ""
	}
	lines := strings.Split(c, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "#"))
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// applyYAMLNotes sets the comment and description of every materialized
// joint that has a YAML comment.
func (j *Joint) applyYAMLNotes(notes map[string]yamlNote) {
	j.Walk(func(c *Joint) bool {
		if n, ok := notes[c.Path()]; ok {
			c.comment, c.description = n.head, n.line
		}
		return true
	})
}
