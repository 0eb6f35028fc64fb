package j18n

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RecordKind is the shape of a diff record and of the result classified
// from it.
type RecordKind int

const (
	KindObject RecordKind = iota
	KindArray
	KindValue
	KindType
)

func (k RecordKind) String() string {
	switch k {
	case KindObject:
		return "ObjectDiff"
	case KindArray:
		return "ArrayDiff"
	case KindValue:
		return "ValueDiff"
	case KindType:
		return "TypeDiff"
	}
	return fmt.Sprintf("RecordKind(%d)", int(k))
}

// Side tells which of the two documents a mismatch exists in.
type Side int

const (
	// LeftOnly marks a property or item present only in the old document.
	LeftOnly Side = iota
	// RightOnly marks a property or item present only in the new document.
	RightOnly
)

func (s Side) String() string {
	if s == LeftOnly {
		return "left-only"
	}
	return "right-only"
}

// Record is one structural difference between two JSON texts. Path is
// rooted at "$": "$", "$.a", "$.a[1].b".
type Record interface {
	Kind() RecordKind
	Path() string
}

// PropertyMismatch is a property present on one side only.
type PropertyMismatch struct {
	Side  Side
	Name  string
	Value json.RawMessage
}

// ItemMismatch is an array item present on one side only. Index is the
// item's position in its own document.
type ItemMismatch struct {
	Side  Side
	Index int
	Value json.RawMessage
}

// ObjectRecord reports properties added to or removed from the object at At.
type ObjectRecord struct {
	At         string
	Mismatches []PropertyMismatch
}

// ArrayRecord reports items added to or removed from the array at At.
type ArrayRecord struct {
	At         string
	Mismatches []ItemMismatch
}

// ValueRecord reports a scalar that changed at At.
type ValueRecord struct {
	At          string
	Left, Right json.RawMessage
}

// TypeRecord reports a value whose JSON type changed at At.
type TypeRecord struct {
	At          string
	Left, Right json.RawMessage
}

func (r *ObjectRecord) Kind() RecordKind { return KindObject }
func (r *ObjectRecord) Path() string     { return r.At }
func (r *ArrayRecord) Kind() RecordKind  { return KindArray }
func (r *ArrayRecord) Path() string      { return r.At }
func (r *ValueRecord) Kind() RecordKind  { return KindValue }
func (r *ValueRecord) Path() string      { return r.At }
func (r *TypeRecord) Kind() RecordKind   { return KindType }
func (r *TypeRecord) Path() string       { return r.At }

// DiffResult is the classified outcome of one record: the values now found
// at added or changed paths and the paths to delete. Paths use the joint
// form ("a.b[1]", root "").
type DiffResult struct {
	Type              RecordKind
	UpdatedProperties map[string]*Node
	RemovedProperties []string
}

// UpdatedPaths returns the keys of UpdatedProperties in sorted order.
func (r *DiffResult) UpdatedPaths() []string {
	paths := make([]string, 0, len(r.UpdatedProperties))
	for p := range r.UpdatedProperties {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (r *DiffResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Type)
	if r.UpdatedProperties != nil {
		b.WriteString("Updated Properties:\n")
		for i, p := range r.UpdatedPaths() {
			fmt.Fprintf(&b, "\t(%d). %s: %s\n", i, p, r.UpdatedProperties[p].Compact())
		}
	}
	if r.RemovedProperties != nil {
		b.WriteString("Removed Properties:\n")
		for i, p := range r.RemovedProperties {
			fmt.Fprintf(&b, "\t(%d). %s\n", i, p)
		}
	}
	return b.String()
}
