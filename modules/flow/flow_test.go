package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/botgrid/internal/localexecutor"
	"github.com/specialistvlad/botgrid/internal/localsession"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/registry"
	"github.com/specialistvlad/botgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_RegistersEveryKind(t *testing.T) {
	t.Parallel()
	reg := registry.New()
	New(testutil.NewDispatchers().Set()).Register(reg)
	require.NoError(t, reg.Validate(context.Background()))
}

// run executes a flow with the module's actions and fake dispatchers.
func run(t *testing.T, flow *testutil.FlowBuilder, d *testutil.Dispatchers, start string) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	reg := registry.New()
	New(d.Set()).Register(reg)
	localexecutor.New(localsession.NewFactory(flow.Topology, flow.States), reg).Run(ctx, start)
}

func TestFlow_VoiceCommandDrivesRobot(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	flow := testutil.NewFlow(t).
		Node("s", node.KindStart).
		Node("mic", node.KindAudioInput, "command", "please turn left").
		Node("m", node.KindMovement).
		Connect("s", "mic").
		Connect("mic", "m")
	d := testutil.NewDispatchers()

	// --- Act ---
	run(t, flow, d, "s")

	// --- Assert ---
	require.Len(t, d.Mover.Calls, 1)
	assert.Equal(t, testutil.MoveCall{Direction: "left"}, d.Mover.Calls[0])
	assert.Equal(t, "success", flow.Prop("m", "result"))
}

func TestFlow_DecisionThenMovementUsesDefaults(t *testing.T) {
	t.Parallel()
	flow := testutil.NewFlow(t).
		Node("s", node.KindStart).
		Node("in", node.KindText, "text", "Left").
		Node("d", node.KindDecision).
		Node("l", node.KindText, "text", "left").
		Node("r", node.KindText, "text", "right").
		Node("m", node.KindMovement).
		Connect("s", "in").
		Connect("in", "d").
		Connect("d", "l").
		Connect("d", "r").
		Connect("l", "m")
	d := testutil.NewDispatchers()

	run(t, flow, d, "s")

	assert.Equal(t, "started", flow.Prop("l", "text"))
	assert.Equal(t, "right", flow.Prop("r", "text"))
	require.Len(t, d.Mover.Calls, 1)
	assert.Equal(t, testutil.MoveCall{Direction: "forward", Value: 0}, d.Mover.Calls[0])
}

func TestFlow_GenerationFeedsSpeech(t *testing.T) {
	t.Parallel()
	flow := testutil.NewFlow(t).
		Node("s", node.KindStart).
		Node("q", node.KindText, "text", "What is ahead?").
		Node("gen", node.KindGeneration, "instruction", "Answer briefly.").
		Node("out", node.KindText).
		Node("say", node.KindSpeech).
		Connect("s", "q").
		Connect("q", "gen").
		Connect("gen", "out").
		Connect("out", "say")
	d := testutil.NewDispatchers()
	d.Generator.Response = "A wall."

	run(t, flow, d, "s")

	require.Len(t, d.Generator.Prompts, 1)
	assert.Equal(t, "Answer briefly.\n\nContext:\nWhat is ahead?", d.Generator.Prompts[0])
	assert.Equal(t, "A wall.", flow.Prop("gen", "response"))
	assert.Equal(t, "A wall.", flow.Prop("out", "text"))
	assert.Equal(t, []string{"A wall."}, d.Synthesizer.Texts)
	assert.Len(t, d.Player.Played, 1)
}

func TestFlow_FailedGenerationCompletesWithErrorText(t *testing.T) {
	t.Parallel()
	flow := testutil.NewFlow(t).
		Node("s", node.KindStart).
		Node("gen", node.KindGeneration, "instruction", "x").
		Node("out", node.KindText, "text", "before").
		Node("say", node.KindSpeech).
		Connect("s", "gen").
		Connect("gen", "out").
		Connect("out", "say")
	d := testutil.NewDispatchers()
	d.Generator.Err = errors.New("quota exceeded")

	run(t, flow, d, "s")

	assert.Equal(t, GenerationErrorText, flow.Prop("gen", "response"))
	assert.Equal(t, "before", flow.Prop("out", "text"), "failed response is not forwarded")
	assert.Equal(t, []string{"before"}, d.Synthesizer.Texts)
	assert.Equal(t, node.StatusSucceeded, flow.Graph().NodeStatus(context.Background(), "gen"))
	assert.NoError(t, flow.Graph().NodeError(context.Background(), "gen"))
}
