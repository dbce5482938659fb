package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/botgrid/internal/app"
	"github.com/specialistvlad/botgrid/internal/executor"
	"github.com/specialistvlad/botgrid/internal/hcl_adapter"
	"github.com/specialistvlad/botgrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

// runHCL loads an HCL flow with fake dispatchers and runs it once.
func runHCL(t *testing.T, src string, d *testutil.Dispatchers) (*app.App, *executor.Report) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	cfg, err := app.NewConfig(app.Config{FlowPath: path, LogLevel: "debug"})
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	a, err := app.NewApp(logs, cfg, hcl_adapter.NewLoader(), app.WithEnv(&app.Env{}), app.WithDispatchers(d.Set()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = a.Close()
		if os.Getenv("BOTGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	return a, report
}

func prop(t *testing.T, a *app.App, id, key string) string {
	t.Helper()
	n, ok := a.Graph().Node(context.Background(), id)
	require.True(t, ok, "node %s", id)
	return n.Props.String(key)
}
