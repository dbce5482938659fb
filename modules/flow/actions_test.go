package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNode(t *testing.T, flow *testutil.FlowBuilder, id string) *node.Node {
	t.Helper()
	n, ok := flow.Topology.GetNode(context.Background(), id)
	require.True(t, ok)
	return n
}

func TestMovement_DefaultsWithoutUpstream(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).Node("m", node.KindMovement)
	mover := &testutil.FakeMover{}

	err := (&Movement{Mover: mover}).Execute(ctx, flow.Graph(), mustNode(t, flow, "m"))

	require.NoError(t, err)
	assert.Equal(t, []testutil.MoveCall{{Direction: "forward", Value: 0}}, mover.Calls)
}

func TestMovement_LastParseableUpstreamWins(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("a", node.KindText, "text", "left 5").
		Node("b", node.KindText, "text", "right 2").
		Node("c", node.KindText, "text", "nonsense").
		Node("m", node.KindMovement, "direction", "back", "value", 9).
		Connect("a", "m").
		Connect("b", "m").
		Connect("c", "m")
	mover := &testutil.FakeMover{}

	err := (&Movement{Mover: mover}).Execute(ctx, flow.Graph(), mustNode(t, flow, "m"))

	require.NoError(t, err)
	assert.Equal(t, []testutil.MoveCall{{Direction: "right", Value: 2}}, mover.Calls)
}

func TestMovement_OwnPropsWhenUpstreamUnparseable(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("a", node.KindText, "text", "started").
		Node("m", node.KindMovement, "direction", "back", "value", 9).
		Connect("a", "m")
	mover := &testutil.FakeMover{}

	require.NoError(t, (&Movement{Mover: mover}).Execute(ctx, flow.Graph(), mustNode(t, flow, "m")))
	assert.Equal(t, []testutil.MoveCall{{Direction: "back", Value: 9}}, mover.Calls)
}

func TestMovement_DispatchFailure(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).Node("m", node.KindMovement)
	boom := errors.New("robot offline")
	mover := &testutil.FakeMover{Err: boom}

	err := (&Movement{Mover: mover}).Execute(ctx, flow.Graph(), mustNode(t, flow, "m"))

	require.ErrorIs(t, err, boom)
	assert.Equal(t, "error", flow.Prop("m", "result"))
}

func TestSpeech_JoinsUpstreamTexts(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("a", node.KindText, "text", "a").
		Node("empty", node.KindText).
		Node("gen", node.KindGeneration, "response", "not a signal").
		Node("b", node.KindAudioInput, "command", "b").
		Node("say", node.KindSpeech).
		Connect("a", "say").
		Connect("empty", "say").
		Connect("gen", "say").
		Connect("b", "say")
	synth := &testutil.FakeSynthesizer{Audio: []byte{1, 2}}
	player := &testutil.FakePlayer{}

	err := (&Speech{Synthesizer: synth, Player: player}).Execute(ctx, flow.Graph(), mustNode(t, flow, "say"))

	require.NoError(t, err)
	assert.Equal(t, []string{"a\n\nb"}, synth.Texts, "empty producer keeps its line")
	assert.Equal(t, [][]byte{{1, 2}}, player.Played)
	assert.Equal(t, "a\n\nb", flow.Prop("say", "text"))
}

func TestSpeech_NothingToSay(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("a", node.KindText).
		Node("say", node.KindSpeech).
		Connect("a", "say")
	synth := &testutil.FakeSynthesizer{}

	err := (&Speech{Synthesizer: synth}).Execute(ctx, flow.Graph(), mustNode(t, flow, "say"))

	require.NoError(t, err)
	assert.Empty(t, synth.Texts, "no dispatch without text")
}

func TestSpeech_NoAudioSkipsPlayer(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("a", node.KindText, "text", "hi").
		Node("say", node.KindSpeech).
		Connect("a", "say")
	synth := &testutil.FakeSynthesizer{}
	player := &testutil.FakePlayer{}

	require.NoError(t, (&Speech{Synthesizer: synth, Player: player}).Execute(ctx, flow.Graph(), mustNode(t, flow, "say")))
	assert.Empty(t, player.Played)
}

func TestSpeech_PlaybackFailure(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("a", node.KindText, "text", "hi").
		Node("say", node.KindSpeech).
		Connect("a", "say")
	synth := &testutil.FakeSynthesizer{Audio: []byte{1}}
	player := &testutil.FakePlayer{Err: errors.New("no device")}

	err := (&Speech{Synthesizer: synth, Player: player}).Execute(ctx, flow.Graph(), mustNode(t, flow, "say"))
	require.ErrorContains(t, err, "no device")
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "do it", BuildPrompt("do it", nil))
	assert.Equal(t, "do it\n\nContext:\nx\n\nContext:\n\n\nContext:\ny", BuildPrompt("do it", []string{"x", "", "y"}))
	assert.Equal(t, "i\n\nContext:\n\n\nContext:\nc", BuildPrompt("i", []string{"", "c"}))
}

func TestGeneration_ForwardsOneHopToTextProducers(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("gen", node.KindGeneration, "instruction", "hi").
		Node("t1", node.KindText).
		Node("mic", node.KindAudioInput).
		Node("m", node.KindMovement).
		Node("t2", node.KindText).
		Connect("gen", "t1").
		Connect("gen", "mic").
		Connect("gen", "m").
		Connect("t1", "t2")
	gen := &testutil.FakeGenerator{Response: "forward 3"}

	require.NoError(t, (&Generation{Generator: gen}).Execute(ctx, flow.Graph(), mustNode(t, flow, "gen")))

	assert.Equal(t, "forward 3", flow.Prop("t1", "text"))
	assert.Equal(t, "forward 3", flow.Prop("mic", "command"))
	assert.Equal(t, "", flow.Prop("t2", "text"), "forwarding is one hop")
	_, hasText := mustNode(t, flow, "m").Props["text"]
	assert.False(t, hasText)
}

func TestGeneration_FailureWritesErrorText(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("gen", node.KindGeneration).
		Node("t1", node.KindText, "text", "keep").
		Connect("gen", "t1")
	boom := errors.New("timeout")

	err := (&Generation{Generator: &testutil.FakeGenerator{Err: boom}}).Execute(ctx, flow.Graph(), mustNode(t, flow, "gen"))

	require.NoError(t, err, "a failed generation completes")
	assert.Equal(t, GenerationErrorText, flow.Prop("gen", "response"))
	assert.Equal(t, "keep", flow.Prop("t1", "text"))
}

func TestGeneration_EmptyUpstreamKeepsContextBlock(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("a", node.KindText, "text", "near wall").
		Node("blank", node.KindText).
		Node("b", node.KindText, "text", "battery low").
		Node("gen", node.KindGeneration, "instruction", "Plan").
		Connect("a", "gen").
		Connect("blank", "gen").
		Connect("b", "gen")
	gen := &testutil.FakeGenerator{Response: "ok"}

	require.NoError(t, (&Generation{Generator: gen}).Execute(ctx, flow.Graph(), mustNode(t, flow, "gen")))

	want := "Plan\n\nContext:\nnear wall\n\nContext:\n\n\nContext:\nbattery low"
	assert.Equal(t, []string{want}, gen.Prompts)
}

func TestChoose(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "left", Choose([]string{"right", " LEFT "}))
	assert.Equal(t, "right", Choose([]string{"up", "Right"}))
	assert.Equal(t, "", Choose([]string{"up", ""}))
	assert.Equal(t, "", Choose(nil))
}

func TestDecision_MarksMatchingBranches(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("in1", node.KindText, "text", "right").
		Node("in2", node.KindAudioInput, "command", "left").
		Node("d", node.KindDecision).
		Node("l", node.KindText, "text", " Left").
		Node("r", node.KindText, "text", "right").
		Node("other", node.KindSpeech).
		Connect("in1", "d").
		Connect("in2", "d").
		Connect("d", "l").
		Connect("d", "r").
		Connect("d", "other")

	require.NoError(t, Decision{}.Execute(ctx, flow.Graph(), mustNode(t, flow, "d")))

	assert.Equal(t, "started", flow.Prop("l", "text"))
	assert.Equal(t, "right", flow.Prop("r", "text"))
}

func TestDecision_NoInputChangesNothing(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	flow := testutil.NewFlow(t).
		Node("in", node.KindText, "text", "maybe").
		Node("d", node.KindDecision).
		Node("l", node.KindText, "text", "left").
		Connect("in", "d").
		Connect("d", "l")
	g := flow.Graph()

	require.NoError(t, Decision{}.Execute(ctx, g, mustNode(t, flow, "d")))

	assert.Equal(t, "left", flow.Prop("l", "text"))
	assert.Empty(t, g.Drain())
}
