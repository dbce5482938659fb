package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/botgrid/internal/executor"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/stretchr/testify/require"
)

// AssertVisited checks that a run triggered exactly the given nodes, in order.
func AssertVisited(t *testing.T, report *executor.Report, want ...string) {
	t.Helper()
	require.NotNil(t, report)
	if want == nil {
		want = []string{}
	}
	got := report.Visited
	if got == nil {
		got = []string{}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
}

// AssertStatus checks the outcome status of a node in a report.
func AssertStatus(t *testing.T, report *executor.Report, id string, want node.Status) {
	t.Helper()
	outcome, ok := report.Outcomes[id]
	require.True(t, ok, "node %q was not triggered", id)
	require.Equal(t, want, outcome.Status, "node %q status (error: %v)", id, outcome.Err)
}
