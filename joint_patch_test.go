package j18n

import (
	"context"
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatchBytesOps(t *testing.T) {
	ctx := context.Background()
	root, err := ParseDocument(`{"a":{"b":[1,2,3]},"c":"x"}`, false)
	require.NoError(t, err)

	patch := `[
		{"op":"test","path":"/c","value":"x"},
		{"op":"add","path":"/a/b/1","value":9},
		{"op":"add","path":"/a/b/-","value":{"k":"v"}},
		{"op":"remove","path":"/a/b/0"},
		{"op":"replace","path":"/c","value":[true]},
		{"op":"copy","from":"/a/b/0","path":"/d"},
		{"op":"move","from":"/c","path":"/a/m"}
	]`
	require.NoError(t, ApplyPatchBytes(ctx, root, []byte(patch)))
	assert.Equal(t, indented(t, `{"a":{"b":[9,2,3,{"k":"v"}],"m":[true]},"d":9}`), mustJSON(t, root))

	b, err := root.GetSubJointByPath(".a.b")
	require.NoError(t, err)
	for i, c := range b.Children() {
		assert.Equal(t, IndexKey(i), c.Key())
		assert.Equal(t, i, c.Index())
	}
	assert.Equal(t, JointObject, b.ChildAt(3).Type())
	assert.True(t, b.ChildAt(3).HasChildren())
}

func TestApplyPatchRootAndEscapes(t *testing.T) {
	ctx := context.Background()
	root, err := ParseDocument(`{"a/b":{"m~n":1}}`, true)
	require.NoError(t, err)
	require.NoError(t, ApplyPatchBytes(ctx, root, []byte(`[{"op":"replace","path":"/a~1b/m~0n","value":2}]`)))
	assert.JSONEq(t, `{"a/b":{"m~n":2}}`, mustJSON(t, root))

	require.NoError(t, ApplyPatchBytes(ctx, root, []byte(`[{"op":"add","path":"","value":["z"]}]`)))
	assert.Equal(t, JointArray, root.Type())
	assert.JSONEq(t, `["z"]`, mustJSON(t, root))
}

func TestApplyPatchFailures(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"test mismatch":   `[{"op":"test","path":"/c","value":"y"}]`,
		"missing remove":  `[{"op":"remove","path":"/nope"}]`,
		"out of bounds":   `[{"op":"add","path":"/l/5","value":1}]`,
		"key under array": `[{"op":"add","path":"/l/k","value":1}]`,
		"leaf parent":     `[{"op":"add","path":"/c/k","value":1}]`,
		"unsupported":     `[{"op":"bogus","path":"/c"}]`,
		"unknown field":   `[{"op":"add","path":"/c","value":1,"extra":true}]`,
		"empty":           `[]`,
		"bad pointer":     `[{"op":"replace","path":"c","value":1}]`,
		"missing replace": `[{"op":"replace","path":"/x/y","value":1}]`,
	}
	for name, patch := range cases {
		t.Run(name, func(t *testing.T) {
			root, err := ParseDocument(`{"c":"x","l":["a"]}`, false)
			require.NoError(t, err)
			assert.Error(t, ApplyPatchBytes(ctx, root, []byte(patch)))
		})
	}
}

func TestApplyPatchStopsAtFirstFailure(t *testing.T) {
	root, err := ParseDocument(`{"c":"x"}`, true)
	require.NoError(t, err)
	err = ApplyPatchBytes(context.Background(), root, []byte(`[
		{"op":"replace","path":"/c","value":"y"},
		{"op":"remove","path":"/zz"},
		{"op":"add","path":"/d","value":1}
	]`))
	require.Error(t, err)
	assert.JSONEq(t, `{"c":"y"}`, mustJSON(t, root))
}

func TestApplyPatchDecoded(t *testing.T) {
	patch, err := jsonpatch.DecodePatch([]byte(`[{"op":"add","path":"/items/0","value":"first"}]`))
	require.NoError(t, err)
	root, err := ParseDocument(`{"items":["second"]}`, false)
	require.NoError(t, err)
	require.NoError(t, ApplyPatch(context.Background(), root, patch))
	assert.JSONEq(t, `{"items":["first","second"]}`, mustJSON(t, root))
}
