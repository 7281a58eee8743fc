// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/clusterqc/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), DefaultDBName))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() (Run, []types.ClusterReport) {
	run := Run{
		StartedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		BaseDir:      "/data/seeds",
		Rcut:         6.0,
		MinNeighbors: 10,
		Analyzed:     2,
		Failed:       1,
		Anomalous:    1,
		Moved:        1,
	}
	reports := []types.ClusterReport{
		{ID: "cluster_1", NumAtoms: 120, NumXe: 1, Counts: []int{14}},
		{ID: "cluster_2", NumAtoms: 95, NumXe: 2, Counts: []int{12, 4}, Anomalous: true, Moved: true},
		{ID: "cluster_3", Error: "bad atom count line \"abc\""},
	}
	return run, reports
}

func TestRecordAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, reports := sampleRun()
	id, err := s.RecordRun(ctx, run, reports)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, run.StartedAt, got.StartedAt)
	assert.Equal(t, run.BaseDir, got.BaseDir)
	assert.Equal(t, run.Rcut, got.Rcut)
	assert.Equal(t, run.MinNeighbors, got.MinNeighbors)
	assert.Equal(t, run.Analyzed, got.Analyzed)
	assert.Equal(t, run.Failed, got.Failed)
	assert.Equal(t, run.Anomalous, got.Anomalous)
	assert.Equal(t, run.Moved, got.Moved)
}

func TestRunsNewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, reports := sampleRun()
	for i := 0; i < 3; i++ {
		_, err := s.RecordRun(ctx, run, reports)
		require.NoError(t, err)
	}

	runs, err := s.Runs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)
}

func TestRunClustersRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, reports := sampleRun()
	id, err := s.RecordRun(ctx, run, reports)
	require.NoError(t, err)

	got, err := s.RunClusters(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "cluster_1", got[0].ID)
	assert.Equal(t, []int{14}, got[0].Counts)
	assert.Equal(t, types.VerdictGood, got[0].Verdict())

	assert.Equal(t, []int{12, 4}, got[1].Counts)
	assert.True(t, got[1].Anomalous)
	assert.True(t, got[1].Moved)
	assert.Equal(t, types.VerdictAnomalous, got[1].Verdict())

	assert.True(t, got[2].Failed())
	assert.Equal(t, types.VerdictError, got[2].Verdict())
	assert.Empty(t, got[2].Counts)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", DefaultDBName)
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Runs(context.Background(), 5)
	assert.NoError(t, err)
}
