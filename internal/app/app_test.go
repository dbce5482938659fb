package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/botgrid/internal/hcl_adapter"
	"github.com/specialistvlad/botgrid/internal/inmemorystore"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/testutil"
	"github.com/specialistvlad/botgrid/internal/topologystore"
	"github.com/specialistvlad/botgrid/modules/backend"
	"github.com/specialistvlad/botgrid/modules/gemini"
	"github.com/specialistvlad/botgrid/modules/print"
	"github.com/specialistvlad/botgrid/modules/socketio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const drive = `
flow "drive" {
  start = "go"
}

node "start" "go" {}

node "text" "cmd" {
  text = "turn left"
}

node "movement" "wheels" {}

connector "c1" {
  start = "go"
  end   = "cmd"
}

connector "c2" {
  start = "cmd"
  end   = "wheels"
}
`

func writeFlow(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func newTestApp(t *testing.T, src string, cfg Config, opts ...Option) (*App, *testutil.Dispatchers, *bytes.Buffer) {
	t.Helper()
	cfg.FlowPath = writeFlow(t, src)
	appCfg, err := NewConfig(cfg)
	require.NoError(t, err)

	d := testutil.NewDispatchers()
	out := &bytes.Buffer{}
	opts = append([]Option{WithEnv(&Env{}), WithDispatchers(d.Set())}, opts...)
	a, err := NewApp(out, appCfg, hcl_adapter.NewLoader(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, d, out
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{FlowPath: "f.hcl"})
	require.NoError(t, err)
	assert.Equal(t, DispatchPrint, cfg.Dispatch)
	assert.Equal(t, StoreMemory, cfg.StatusStore)

	_, err = NewConfig(Config{})
	assert.Error(t, err)
	_, err = NewConfig(Config{FlowPath: "f.hcl", Dispatch: "carrier-pigeon"})
	assert.Error(t, err)
	_, err = NewConfig(Config{FlowPath: "f.hcl", StatusStore: "etcd"})
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("BOTGRID_ROBOT_AUTO_STOP", "250ms")

	env, err := LoadEnv()

	require.NoError(t, err)
	assert.Equal(t, "g-key", env.GeminiAPIKey)
	assert.Equal(t, "gemini-2.0-flash", env.GeminiModel)
	assert.Equal(t, "http://localhost:8000", env.BackendURL)
	assert.Equal(t, "250ms", env.RobotAutoStop.String())
}

func TestRun(t *testing.T) {
	a, d, out := newTestApp(t, drive, Config{})

	report, err := a.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"go", "cmd", "wheels"}, report.Visited)
	assert.Empty(t, report.Failed())
	assert.Equal(t, []testutil.MoveCall{{Direction: "left", Value: 0}}, d.Mover.Calls)
	assert.Contains(t, out.String(), "wheels")

	wheels, ok := a.Graph().Node(context.Background(), "wheels")
	require.True(t, ok)
	assert.Equal(t, "success", wheels.Props.String("result"), "run writes reach the live graph")
}

func TestRun_StartNodeOverride(t *testing.T) {
	a, d, _ := newTestApp(t, drive, Config{StartNode: "wheels"})

	report, err := a.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"wheels"}, report.Visited)
	assert.Equal(t, []testutil.MoveCall{{Direction: "left", Value: 0}}, d.Mover.Calls, "upstream text is read even when its node did not run")
}

func TestRun_UnknownStartNode(t *testing.T) {
	a, _, _ := newTestApp(t, drive, Config{StartNode: "ghost"})

	_, err := a.Run(context.Background())

	assert.ErrorIs(t, err, topologystore.ErrNodeNotFound)
}

func TestStartNode_Missing(t *testing.T) {
	a, _, _ := newTestApp(t, `node "start" "s" {}`, Config{})

	_, err := a.StartNode()

	assert.ErrorIs(t, err, ErrNoStartNode)
}

func TestNewApp_RejectsUnknownKind(t *testing.T) {
	cfg, err := NewConfig(Config{FlowPath: writeFlow(t, `node "teleport" "x" {}`)})
	require.NoError(t, err)

	_, err = NewApp(&bytes.Buffer{}, cfg, hcl_adapter.NewLoader(), WithEnv(&Env{}))

	assert.ErrorIs(t, err, node.ErrUnknownKind)
}

func TestNodesEndpoint(t *testing.T) {
	a, _, _ := newTestApp(t, drive, Config{})
	_, err := a.Run(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nodes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var states []NodeState
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &states))
	require.Len(t, states, 3)
	for _, st := range states {
		assert.Equal(t, node.StatusSucceeded, st.Status, st.ID)
		assert.False(t, st.Busy)
	}

	rec = httptest.NewRecorder()
	a.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestNewDispatchers(t *testing.T) {
	testCases := []struct {
		name      string
		dispatch  string
		env       Env
		assertSet func(t *testing.T, a *App)
	}{
		{
			name:     "print",
			dispatch: DispatchPrint,
			assertSet: func(t *testing.T, a *App) {
				set, err := a.newDispatchers(a.ctx, &bytes.Buffer{})
				require.NoError(t, err)
				assert.IsType(t, &print.Printer{}, set.Mover)
				assert.IsType(t, print.Discard{}, set.Player)
			},
		},
		{
			name:     "backend",
			dispatch: DispatchBackend,
			env:      Env{BackendURL: "http://robot:8000"},
			assertSet: func(t *testing.T, a *App) {
				set, err := a.newDispatchers(a.ctx, &bytes.Buffer{})
				require.NoError(t, err)
				assert.IsType(t, &backend.Client{}, set.Mover)
				assert.IsType(t, &backend.Client{}, set.Generator)
			},
		},
		{
			name:     "direct",
			dispatch: DispatchDirect,
			env:      Env{RobotURL: "http://robot:5000", GeminiAPIKey: "k"},
			assertSet: func(t *testing.T, a *App) {
				set, err := a.newDispatchers(a.ctx, &bytes.Buffer{})
				require.NoError(t, err)
				assert.IsType(t, &socketio.Mover{}, set.Mover)
				assert.IsType(t, &gemini.Client{}, set.Generator)
				assert.IsType(t, &backend.Client{}, set.Synthesizer, "no ElevenLabs key falls back to the backend")
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := tc.env
			a, _, _ := newTestApp(t, drive, Config{Dispatch: tc.dispatch}, WithEnv(&env))
			tc.assertSet(t, a)
		})
	}
}

func TestNewApp_AudioDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")
	a, _, _ := newTestApp(t, drive, Config{AudioDir: dir})

	player, err := a.newPlayer()

	require.NoError(t, err)
	assert.IsType(t, &print.FileSink{}, player)
	assert.DirExists(t, dir)
}

func TestNewApp_ClearsStaleBusyState(t *testing.T) {
	ctx := context.Background()
	states := inmemorystore.New()
	ok, err := states.Acquire(ctx, "wheels")
	require.NoError(t, err)
	require.True(t, ok, "left busy by an earlier process")

	a, d, _ := newTestApp(t, drive, Config{}, WithNodeStore(states))

	assert.False(t, a.Graph().Busy(ctx, "wheels"))
	report, err := a.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Failed())
	require.Len(t, d.Mover.Calls, 1)
	assert.Equal(t, node.StatusSucceeded, a.Graph().NodeStatus(ctx, "wheels"))
}
