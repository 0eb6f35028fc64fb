package j18n

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffJSON compares two JSON texts and returns the structural differences
// between them, parents before children:
//
//   - a value whose JSON type changed yields a TypeRecord;
//   - a scalar whose value changed yields a ValueRecord;
//   - an object whose key set changed yields one ObjectRecord listing the
//     removed then the added properties, each in document order; common
//     properties are compared recursively;
//   - arrays of the same length are compared item by item; otherwise the
//     items are aligned on a longest common subsequence and the unmatched
//     ones are reported in one ArrayRecord with their own indices.
func DiffJSON(from, to []byte) ([]Record, error) {
	a, err := ParseJSON(from)
	if err != nil {
		return nil, err
	}
	b, err := ParseJSON(to)
	if err != nil {
		return nil, err
	}
	return DiffNodes(a, b), nil
}

// DiffNodes is DiffJSON over parsed documents.
func DiffNodes(a, b *Node) []Record {
	var d differ
	d.diff("$", a, b)
	return d.records
}

type differ struct {
	records []Record
}

func (d *differ) diff(at string, a, b *Node) {
	if a.Kind != b.Kind {
		d.records = append(d.records, &TypeRecord{At: at, Left: raw(a), Right: raw(b)})
		return
	}
	switch a.Kind {
	case ObjectNode:
		d.diffObject(at, a, b)
	case ArrayNode:
		d.diffArray(at, a, b)
	default:
		l, r := raw(a), raw(b)
		if !jsonpatch.Equal(l, r) {
			d.records = append(d.records, &ValueRecord{At: at, Left: l, Right: r})
		}
	}
}

func (d *differ) diffObject(at string, a, b *Node) {
	var mm []PropertyMismatch
	for i, f := range a.Fields {
		if b.Field(f) == nil {
			mm = append(mm, PropertyMismatch{Side: LeftOnly, Name: f, Value: raw(a.Values[i])})
		}
	}
	for i, f := range b.Fields {
		if a.Field(f) == nil {
			mm = append(mm, PropertyMismatch{Side: RightOnly, Name: f, Value: raw(b.Values[i])})
		}
	}
	if len(mm) > 0 {
		d.records = append(d.records, &ObjectRecord{At: at, Mismatches: mm})
	}
	for i, f := range a.Fields {
		if bv := b.Field(f); bv != nil {
			d.diff(recordPropertyPath(at, f), a.Values[i], bv)
		}
	}
}

func (d *differ) diffArray(at string, a, b *Node) {
	if len(a.Values) == len(b.Values) {
		for i := range a.Values {
			d.diff(recordItemPath(at, i), a.Values[i], b.Values[i])
		}
		return
	}
	textMap := map[string]rune{}
	from := mapItemsTo(textMap, a.Values)
	to := mapItemsTo(textMap, b.Values)
	diffs := diffpatch.New().DiffMainRunes(from, to, false)

	var mm []ItemMismatch
	fi, ti := 0, 0
	for i := range diffs {
		n := len([]rune(diffs[i].Text))
		switch diffs[i].Type {
		case diffpatch.DiffDelete:
			for k := 0; k < n; k++ {
				mm = append(mm, ItemMismatch{Side: LeftOnly, Index: fi, Value: raw(a.Values[fi])})
				fi++
			}
		case diffpatch.DiffEqual:
			fi += n
			ti += n
		case diffpatch.DiffInsert:
			for k := 0; k < n; k++ {
				mm = append(mm, ItemMismatch{Side: RightOnly, Index: ti, Value: raw(b.Values[ti])})
				ti++
			}
		}
	}
	if len(mm) > 0 {
		d.records = append(d.records, &ArrayRecord{At: at, Mismatches: mm})
	}
}

// mapItemsTo assigns one rune per distinct compact item text. Runes skip the
// surrogate range so they survive the string round trip inside diffpatch.
func mapItemsTo(m map[string]rune, items []*Node) []rune {
	rs := make([]rune, len(items))
	for i, v := range items {
		t := v.Compact()
		r, ok := m[t]
		if !ok {
			r = rune(len(m)) + 1
			if r >= 0xD800 {
				r += 0x800
			}
			m[t] = r
		}
		rs[i] = r
	}
	return rs
}

func raw(n *Node) json.RawMessage {
	return json.RawMessage(n.Compact())
}
