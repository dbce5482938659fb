package hcl_adapter

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/botgrid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_LoadsBack(t *testing.T) {
	flow := &config.Flow{
		Name:  "patrol",
		Start: "go",
		Nodes: []*config.NodeSpec{
			{ID: "go", Kind: "start", Props: map[string]any{}},
			{ID: "cmd", Kind: "text_input", Title: "Say it", Props: map[string]any{"text": "left 2"}},
			{ID: "m", Kind: "movement", Props: map[string]any{
				"direction": "back",
				"value":     2.5,
				"armed":     true,
				"tags":      []any{"x", 1.0},
				"meta":      map[string]any{"color": "red"},
			}},
		},
		Connectors: []*config.ConnectorSpec{
			{ID: "c1", Start: "go", End: "cmd"},
			{ID: "half", End: "m"},
		},
	}

	src, err := Encode(flow)
	require.NoError(t, err)
	assert.Contains(t, string(src), `node "text_input" "cmd"`)

	got, err := NewLoader().LoadSource(context.Background(), src, "encoded.hcl")
	require.NoError(t, err)
	if diff := cmp.Diff(flow, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, src)
	}
}

func TestEncode_RejectsTitleProp(t *testing.T) {
	_, err := Encode(&config.Flow{Nodes: []*config.NodeSpec{{ID: "n", Kind: "text", Props: map[string]any{"title": "x"}}}})
	assert.Error(t, err)
}

func TestNativeToCty_Scalars(t *testing.T) {
	for _, v := range []any{"s", 1, int64(2), 3.5, true} {
		cv, err := nativeToCty(v)
		require.NoError(t, err, "%#v", v)
		back, err := ctyToNative(cv)
		require.NoError(t, err)
		assert.NotNil(t, back)
	}
	_, err := nativeToCty(make(chan int))
	assert.Error(t, err)
}
