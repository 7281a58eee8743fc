// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover locates cluster geometry files under a base directory by
// the seeding pipeline's naming convention.
package discover

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/clusterqc/pkg/types"
)

// Pattern is the glob, relative to the base directory, that cluster geometry
// files are expected to match.
const Pattern = "cluster_*/coord_*ClusterAroundXeNew.xyz"

// ClusterFiles returns the cluster files under baseDir, sorted ascending by
// the integer in the cluster directory name so batch output is deterministic.
// Directory names that do not parse as cluster_<N> sort as index 0.
func ClusterFiles(baseDir string) ([]types.ClusterFile, error) {
	matches, err := filepath.Glob(filepath.Join(baseDir, Pattern))
	if err != nil {
		return nil, err
	}

	files := make([]types.ClusterFile, 0, len(matches))
	for _, path := range matches {
		dir := filepath.Dir(path)
		id := filepath.Base(dir)
		files = append(files, types.ClusterFile{
			ID:    id,
			Index: clusterIndex(id),
			Dir:   dir,
			Path:  path,
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Index < files[j].Index
	})
	return files, nil
}

// clusterIndex extracts N from a "cluster_N" directory name, 0 on failure.
func clusterIndex(name string) int {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) < 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return n
}
