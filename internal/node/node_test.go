package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want Kind
	}{
		{in: "start", want: KindStart},
		{in: "  Movement ", want: KindMovement},
		{in: "think", want: KindGeneration},
		{in: "llm", want: KindGeneration},
		{in: "decide", want: KindDecision},
		{in: "text_input", want: KindText},
		{in: "audio_input", want: KindAudioInput},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKind(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, err := ParseKind("teleport")
		require.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	m := New("m1", KindMovement)
	assert.Equal(t, "forward", m.Props.String("direction"))
	v, ok := m.Props.Float("value")
	require.True(t, ok)
	assert.Zero(t, v)

	s := New("s1", KindStatus)
	assert.Equal(t, "idle", s.Props.String("status"))

	g := New("g1", KindGeneration)
	assert.Contains(t, g.Props, "instruction")
	assert.Contains(t, g.Props, "response")
}

func TestNode_Text(t *testing.T) {
	t.Parallel()

	txt := New("t", KindText)
	txt.Props["text"] = "left"
	got, ok := txt.Text()
	require.True(t, ok)
	assert.Equal(t, "left", got)

	audio := New("a", KindAudioInput)
	audio.Props["command"] = "go forward"
	got, ok = audio.Text()
	require.True(t, ok)
	assert.Equal(t, "go forward", got)

	_, ok = New("g", KindGeneration).Text()
	assert.False(t, ok, "generation response is not a text signal")
}

func TestNode_CloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := New("n", KindText)
	orig.Props["nested"] = map[string]any{"a": []any{1, 2}}

	cp := orig.Clone()
	cp.Props["text"] = "changed"
	cp.Props["nested"].(map[string]any)["a"].([]any)[0] = 99

	assert.Equal(t, "", orig.Props.String("text"))
	assert.Equal(t, 1, orig.Props["nested"].(map[string]any)["a"].([]any)[0])
}

func TestToFloat(t *testing.T) {
	t.Parallel()

	for _, v := range []any{3, int64(3), float32(3), 3.0, "3", " 3 "} {
		f, ok := ToFloat(v)
		require.True(t, ok, "%#v", v)
		assert.Equal(t, 3.0, f)
	}
	_, ok := ToFloat("three")
	assert.False(t, ok)
	_, ok = ToFloat(nil)
	assert.False(t, ok)
}

func TestConnector_Edge(t *testing.T) {
	t.Parallel()

	from, to, ok := NewConnector("c", "a", "b").Edge()
	require.True(t, ok)
	assert.Equal(t, "a", from)
	assert.Equal(t, "b", to)

	_, _, ok = NewConnector("c", "a", "").Edge()
	assert.False(t, ok, "missing end binding is dangling")

	_, _, ok = NewConnector("c", "", "b").Edge()
	assert.False(t, ok, "missing start binding is dangling")

	self := NewConnector("c", "a", "a")
	from, to, ok = self.Edge()
	require.True(t, ok)
	assert.Equal(t, from, to)
}
