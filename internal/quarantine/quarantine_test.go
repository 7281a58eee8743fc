// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quarantine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/clusterqc/pkg/types"
)

func makeCluster(t *testing.T, base, id string, extraFiles ...string) types.ClusterFile {
	t.Helper()
	dir := filepath.Join(base, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "coord_1ClusterAroundXeNew.xyz")
	require.NoError(t, os.WriteFile(path, []byte("1\nseed\nXe 0 0 0\n"), 0o644))
	for _, name := range extraFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("aux"), 0o644))
	}
	return types.ClusterFile{ID: id, Dir: dir, Path: path}
}

func TestRelocateMovesWholeDirectory(t *testing.T) {
	base := t.TempDir()
	c := makeCluster(t, base, "cluster_3", "energies.dat", "notes.txt")
	mover := DirMover{BadSeedsDir: filepath.Join(base, "bad_seeds")}

	require.NoError(t, mover.Relocate(c))

	// Source is gone, target holds every file.
	_, err := os.Stat(c.Dir)
	assert.True(t, os.IsNotExist(err), "source directory should be removed")

	target := filepath.Join(base, "bad_seeds", "cluster_3")
	for _, name := range []string{"coord_1ClusterAroundXeNew.xyz", "energies.dat", "notes.txt"} {
		_, err := os.Stat(filepath.Join(target, name))
		assert.NoError(t, err, "file %s should be in bad_seeds", name)
	}
}

func TestRelocateReplacesExistingTarget(t *testing.T) {
	base := t.TempDir()
	c := makeCluster(t, base, "cluster_5")
	badSeeds := filepath.Join(base, "bad_seeds")

	// A stale copy from an earlier run sits in bad_seeds already.
	stale := filepath.Join(badSeeds, "cluster_5")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "stale.txt"), []byte("old"), 0o644))

	mover := DirMover{BadSeedsDir: badSeeds}
	require.NoError(t, mover.Relocate(c))

	_, err := os.Stat(filepath.Join(stale, "stale.txt"))
	assert.True(t, os.IsNotExist(err), "stale file should be replaced")
	_, err = os.Stat(filepath.Join(stale, "coord_1ClusterAroundXeNew.xyz"))
	assert.NoError(t, err)
}

func TestRelocateMissingSource(t *testing.T) {
	base := t.TempDir()
	mover := DirMover{BadSeedsDir: filepath.Join(base, "bad_seeds")}
	c := types.ClusterFile{ID: "cluster_9", Dir: filepath.Join(base, "cluster_9")}

	err := mover.Relocate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster_9")
}
