package j18n

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	gyaml "github.com/goccy/go-yaml"
)

// NodeKind is the JSON type of a Node.
type NodeKind int

const (
	NullNode NodeKind = iota
	BoolNode
	NumberNode
	StringNode
	ArrayNode
	ObjectNode
)

var nodeKindNames = [...]string{"null", "boolean", "number", "string", "array", "object"}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
	return nodeKindNames[k]
}

// Node is an ordered generic JSON parse tree. Objects keep their fields in
// document order; Fields and Values are parallel. Scalars keep their literal
// text in Str (the decoded string for strings, the number literal for
// numbers, "true"/"false" for booleans).
type Node struct {
	Kind   NodeKind
	Fields []string
	Values []*Node
	Str    string
}

// ParseJSON parses a single JSON value. Numbers keep their literal text.
// Repeated object keys keep the last value, as encoding/json does.
func ParseJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeNode(dec)
	if err != nil {
		return nil, fmt.Errorf("j18n: invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("j18n: invalid JSON: trailing data after top-level value")
	}
	return n, nil
}

// ParseYAML decodes a YAML document into a Node. Mapping order is
// preserved; non-string keys are used in their printed form.
func ParseYAML(data []byte) (*Node, error) {
	var v interface{}
	if err := gyaml.UnmarshalWithOptions(data, &v, gyaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("j18n: failed to parse YAML: %w", err)
	}
	return nodeFromOrdered(v), nil
}

func nodeFromOrdered(v interface{}) *Node {
	switch t := v.(type) {
	case nil:
		return &Node{Kind: NullNode}
	case bool:
		return &Node{Kind: BoolNode, Str: strconv.FormatBool(t)}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return &Node{Kind: NumberNode, Str: fmt.Sprint(t)}
	case float32:
		return floatNode(float64(t))
	case float64:
		return floatNode(t)
	case string:
		return &Node{Kind: StringNode, Str: t}
	case []interface{}:
		n := &Node{Kind: ArrayNode, Values: make([]*Node, 0, len(t))}
		for _, e := range t {
			n.Values = append(n.Values, nodeFromOrdered(e))
		}
		return n
	case gyaml.MapSlice:
		n := &Node{Kind: ObjectNode, Fields: []string{}, Values: []*Node{}}
		for _, it := range t {
			n.set(fmt.Sprint(it.Key), nodeFromOrdered(it.Value))
		}
		return n
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &Node{Kind: ObjectNode, Fields: []string{}, Values: []*Node{}}
		for _, k := range keys {
			n.set(k, nodeFromOrdered(t[k]))
		}
		return n
	}
	return &Node{Kind: StringNode, Str: fmt.Sprint(v)}
}

// floatNode keeps NaN and infinities, which JSON cannot carry, as strings.
func floatNode(f float64) *Node {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &Node{Kind: StringNode, Str: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return &Node{Kind: NumberNode, Str: strconv.FormatFloat(f, 'g', -1, 64)}
}

func decodeNode(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return nodeFromToken(dec, tok)
}

func nodeFromToken(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n := &Node{Kind: ObjectNode, Fields: []string{}, Values: []*Node{}}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			n := &Node{Kind: ArrayNode, Values: []*Node{}}
			for dec.More() {
				v, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				n.Values = append(n.Values, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	case string:
		return &Node{Kind: StringNode, Str: t}, nil
	case json.Number:
		return &Node{Kind: NumberNode, Str: t.String()}, nil
	case bool:
		if t {
			return &Node{Kind: BoolNode, Str: "true"}, nil
		}
		return &Node{Kind: BoolNode, Str: "false"}, nil
	case nil:
		return &Node{Kind: NullNode}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func (n *Node) set(key string, v *Node) {
	for i, f := range n.Fields {
		if f == key {
			n.Values[i] = v
			return
		}
	}
	n.Fields = append(n.Fields, key)
	n.Values = append(n.Values, v)
}

// Field returns the value of an object field, or nil.
func (n *Node) Field(name string) *Node {
	if n == nil || n.Kind != ObjectNode {
		return nil
	}
	for i, f := range n.Fields {
		if f == name {
			return n.Values[i]
		}
	}
	return nil
}

// IsContainer reports whether n is an object or an array.
func (n *Node) IsContainer() bool {
	return n != nil && (n.Kind == ObjectNode || n.Kind == ArrayNode)
}

// JointType maps a JSON kind onto the joint type space: scalars are leaves.
func (n *Node) JointType() JointType {
	switch n.Kind {
	case ObjectNode:
		return JointObject
	case ArrayNode:
		return JointArray
	}
	return JointString
}

// LeafText is the text a joint stores for n: strings unquoted, other scalars
// literally, containers as indented JSON.
func (n *Node) LeafText() string {
	switch n.Kind {
	case StringNode, NumberNode, BoolNode:
		return n.Str
	case NullNode:
		return "null"
	}
	return n.Indent()
}

// Indent serializes n as JSON indented by two spaces.
func (n *Node) Indent() string {
	var b strings.Builder
	n.write(&b, "  ", 0)
	return b.String()
}

// Compact serializes n as JSON without insignificant whitespace.
func (n *Node) Compact() string {
	var b strings.Builder
	n.write(&b, "", 0)
	return b.String()
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	return []byte(n.Compact()), nil
}

func (n *Node) write(b *strings.Builder, indent string, depth int) {
	newline := func(d int) {
		if indent == "" {
			return
		}
		b.WriteByte('\n')
		for i := 0; i < d; i++ {
			b.WriteString(indent)
		}
	}
	switch n.Kind {
	case ObjectNode:
		if len(n.Fields) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(depth + 1)
			b.WriteString(quoteJSON(f))
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			n.Values[i].write(b, indent, depth+1)
		}
		newline(depth)
		b.WriteByte('}')
	case ArrayNode:
		if len(n.Values) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, v := range n.Values {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(depth + 1)
			v.write(b, indent, depth+1)
		}
		newline(depth)
		b.WriteByte(']')
	case StringNode:
		b.WriteString(quoteJSON(n.Str))
	case NullNode:
		b.WriteString("null")
	default:
		b.WriteString(n.Str)
	}
}

// quoteJSON quotes s as a JSON string without escaping HTML characters,
// which show up often in translated text.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// scalarNode builds a node from stored leaf text and the JSON kind it came
// from.
func scalarNode(kind NodeKind, text string) *Node {
	switch kind {
	case NullNode:
		return &Node{Kind: NullNode}
	case BoolNode, NumberNode:
		return &Node{Kind: kind, Str: text}
	}
	return &Node{Kind: StringNode, Str: text}
}
