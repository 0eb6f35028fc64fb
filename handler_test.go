package j18n

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, current string) *Session {
	t.Helper()
	s, err := NewSession(current)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// links returns the head followed by its successors.
func links(h Handler) []Handler {
	var out []Handler
	for ; h != nil; h = h.Next() {
		out = append(out, h)
	}
	return out
}

func TestNewSessionRequiresText(t *testing.T) {
	_, err := NewSession("  \n")
	assert.ErrorIs(t, err, ErrNoCurrentText)
}

func TestChainLayout(t *testing.T) {
	s := newTestSession(t, zhCN)
	chain := links(s.Chain())
	require.Len(t, chain, 5)
	names := make([]string, len(chain))
	for i, h := range chain {
		names[i] = h.base().name
		assert.Equal(t, Unclaimed, h.State())
		assert.Nil(t, h.Result())
	}
	assert.Equal(t, []string{"head", "object", "array", "value", "type"}, names)
	assert.Nil(t, s.Handler(RecordKind(42)))
}

func TestObjectRecordIsClaimedOnce(t *testing.T) {
	s := newTestSession(t, zhCN)
	head := s.Chain()
	chain := links(head)
	rec := &ObjectRecord{At: "$", Mismatches: []PropertyMismatch{
		{Side: RightOnly, Name: "description"},
		{Side: LeftOnly, Name: "subtitle"},
	}}

	res, err := head.Handle(rec)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, KindObject, res.Type)
	assert.Equal(t, []string{"subtitle"}, res.RemovedProperties)
	require.Contains(t, res.UpdatedProperties, "description")
	assert.Equal(t, "这是一段随机生成的 JSON 数据。", res.UpdatedProperties["description"].Str)

	object := chain[1]
	assert.Same(t, res, object.Result())
	assert.Equal(t, Claimed, object.State())
	for i, h := range chain {
		want := 0
		if i == 1 {
			want = 1
		}
		assert.Equal(t, want, h.base().claims, h.base().name)
	}
	// the successors handed the result back and were reset
	for _, h := range chain[2:] {
		assert.Equal(t, Unclaimed, h.State(), h.base().name)
		assert.Nil(t, h.Result(), h.base().name)
	}
}

func TestClaimPropagatesByReference(t *testing.T) {
	s := newTestSession(t, zhCN)
	chain := links(s.Chain())
	res := &DiffResult{Type: KindArray}
	chain[2].base().claim(res)
	assert.Equal(t, Unclaimed, chain[0].State())
	assert.Equal(t, Unclaimed, chain[1].State())
	for _, h := range chain[2:] {
		assert.Equal(t, Claimed, h.State())
		assert.Same(t, res, h.Result())
	}
	res.RemovedProperties = []string{"x"}
	assert.Equal(t, []string{"x"}, chain[4].Result().RemovedProperties)

	chain[3].base().reset()
	assert.Equal(t, Claimed, chain[2].State())
	assert.Equal(t, Unclaimed, chain[3].State())
	assert.Equal(t, Unclaimed, chain[4].State())
}

func TestReusedChainReturnsStaleResult(t *testing.T) {
	s := newTestSession(t, zhCN)
	head := s.Chain()
	first, err := head.Handle(&ValueRecord{At: "$.title"})
	require.NoError(t, err)
	require.Equal(t, KindValue, first.Type)

	// the value handler is still claimed and hands back its old result
	second, err := head.Handle(&TypeRecord{At: "$.items"})
	require.NoError(t, err)
	assert.Same(t, first, second)

	third, err := head.Handle(&TypeRecord{At: "$.items"})
	require.NoError(t, err)
	assert.Equal(t, KindType, third.Type)
	assert.Equal(t, []string{"items"}, third.UpdatedPaths())
}

func TestUnclaimedRecordYieldsNil(t *testing.T) {
	s := newTestSession(t, zhCN)
	res, err := s.Handler(KindObject).Handle(&ValueRecord{At: "$.title"})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestStandaloneHandlers(t *testing.T) {
	s := newTestSession(t, zhCN)
	cases := []struct {
		kind    RecordKind
		rec     Record
		updated []string
		removed []string
	}{
		{KindValue, &ValueRecord{At: "$.nestedObject.name"}, []string{"nestedObject.name"}, nil},
		{KindType, &TypeRecord{At: "$.items"}, []string{"items"}, nil},
		{KindArray, &ArrayRecord{At: "$.menuItems", Mismatches: []ItemMismatch{{Side: RightOnly, Index: 0}, {Side: RightOnly, Index: 1}}},
			[]string{"menuItems[0]", "menuItems[1]"}, []string{}},
	}
	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			res, err := s.Handler(c.kind).Handle(c.rec)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, c.kind, res.Type)
			assert.Equal(t, c.updated, res.UpdatedPaths())
			assert.Equal(t, c.removed, res.RemovedProperties)
		})
	}
}

func TestArrayPathsAreOrdinal(t *testing.T) {
	s := newTestSession(t, `{"a":["p","q","r"]}`)
	rec := &ArrayRecord{At: "$.a", Mismatches: []ItemMismatch{
		{Side: LeftOnly, Index: 1},
		{Side: LeftOnly, Index: 3},
		{Side: RightOnly, Index: 2},
	}}
	res, err := s.Chain().Handle(rec)
	require.NoError(t, err)
	// positions within each side's list, not the recorded indices
	assert.Equal(t, []string{"a[0]", "a[1]"}, res.RemovedProperties)
	require.Equal(t, []string{"a[0]"}, res.UpdatedPaths())
	assert.Equal(t, "p", res.UpdatedProperties["a[0]"].Str)
}

func TestHandleErrors(t *testing.T) {
	s, err := NewSession(zhCN)
	require.NoError(t, err)

	_, err = s.Chain().Handle(nil)
	assert.ErrorIs(t, err, ErrNilRecord)

	require.NoError(t, s.Close())
	_, err = s.Chain().Handle(&ValueRecord{At: "$.title"})
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.Handler(KindValue).Handle(&ValueRecord{At: "$.title"})
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.Classify(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestClassifyKeepsRecordOrder(t *testing.T) {
	s := newTestSession(t, zhCN)
	recs := []Record{
		&TypeRecord{At: "$.items"},
		&ObjectRecord{At: "$.nestedObject", Mismatches: []PropertyMismatch{{Side: RightOnly, Name: "age"}}},
		&ValueRecord{At: "$.message"},
		&ArrayRecord{At: "$.menuItems", Mismatches: []ItemMismatch{{Side: LeftOnly, Index: 4}}},
	}
	// enough records to run on the worker pool
	for i := 0; i < 40; i++ {
		recs = append(recs, &ValueRecord{At: "$.title"})
	}
	res, err := s.Classify(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, res, len(recs))
	kinds := []RecordKind{res[0].Type, res[1].Type, res[2].Type, res[3].Type}
	assert.Equal(t, []RecordKind{KindType, KindObject, KindValue, KindArray}, kinds)
	assert.Equal(t, "25 岁", res[1].UpdatedProperties["nestedObject.age"].Str)
	assert.Equal(t, []string{"menuItems[0]"}, res[3].RemovedProperties)
	for _, r := range res[4:] {
		assert.Equal(t, "随机数据", r.UpdatedProperties["title"].Str)
	}
}

func TestClassifyWrapsRecordErrors(t *testing.T) {
	s := newTestSession(t, zhCN)
	_, err := s.Classify(context.Background(), []Record{&ValueRecord{At: "$.title"}, nil})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNilRecord))
	assert.Contains(t, err.Error(), "record 1")
}

func TestClassifyDiffRecords(t *testing.T) {
	from := `{"title":"a","tags":["x","y"],"meta":{"n":1}}`
	to := `{"title":"b","tags":["x","z","y"],"meta":"none","extra":true}`
	recs, err := DiffJSON([]byte(from), []byte(to))
	require.NoError(t, err)
	s := newTestSession(t, to)
	res, err := s.Classify(context.Background(), recs)
	require.NoError(t, err)

	got := map[RecordKind][]string{}
	for _, r := range res {
		got[r.Type] = append(got[r.Type], r.UpdatedPaths()...)
	}
	assert.Equal(t, []string{"extra"}, got[KindObject])
	assert.Equal(t, []string{"title"}, got[KindValue])
	assert.Equal(t, []string{"tags[0]"}, got[KindArray])
	assert.Equal(t, []string{"meta"}, got[KindType])

	for _, r := range res {
		if r.Type == KindType {
			b, err := json.Marshal(r.UpdatedProperties["meta"])
			require.NoError(t, err)
			assert.JSONEq(t, `"none"`, string(b))
		}
	}
}
