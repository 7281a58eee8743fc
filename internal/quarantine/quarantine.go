// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quarantine relocates anomalous cluster directories into a holding
// directory so downstream pipeline stages never pick them up.
package quarantine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/clusterqc/pkg/types"
)

// Relocator moves an anomalous cluster out of the working set. The batch
// layer only depends on this interface, so analysis stays testable without a
// real file system move.
type Relocator interface {
	// Relocate moves the cluster's directory into the holding area.
	Relocate(c types.ClusterFile) error
}

// DirMover relocates cluster directories wholesale into BadSeedsDir,
// preserving every file in the directory.
type DirMover struct {
	// BadSeedsDir is the holding directory; created on first use.
	BadSeedsDir string
}

// Relocate moves c.Dir to BadSeedsDir/<cluster id>. A pre-existing target of
// the same name is removed first. Rename is tried first, with a copy-and-
// remove fallback so moves work across file systems.
func (m DirMover) Relocate(c types.ClusterFile) error {
	if err := os.MkdirAll(m.BadSeedsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", m.BadSeedsDir, err)
	}

	target := filepath.Join(m.BadSeedsDir, c.ID)
	if _, err := os.Stat(target); err == nil {
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("clearing existing %s: %w", target, err)
		}
	}

	if err := os.Rename(c.Dir, target); err == nil {
		return nil
	}
	if err := copyTree(c.Dir, target); err != nil {
		return fmt.Errorf("moving %s: %w", c.ID, err)
	}
	if err := os.RemoveAll(c.Dir); err != nil {
		return fmt.Errorf("removing source %s: %w", c.Dir, err)
	}
	return nil
}

// copyTree recursively copies the directory at src to dst.
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(out, info.Mode().Perm())
		}
		return copyFile(path, out, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
