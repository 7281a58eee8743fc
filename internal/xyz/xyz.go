// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xyz reads and writes cluster geometries in the plain XYZ text
// format: an atom-count line, a free-text comment line, then one
// "symbol x y z" record per atom. A trajectory file is the same blocks
// repeated back to back.
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/clusterqc/pkg/types"
)

// Read parses the XYZ file at path into a single Cluster. The cluster ID is
// left empty; callers fill it from the discovery layer.
func Read(path string) (types.Cluster, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Cluster{}, err
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return types.Cluster{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads one XYZ block from r. Anything after the declared atom records
// is ignored; use a frame reader for trajectories.
func Parse(r io.Reader) (types.Cluster, error) {
	sc := bufio.NewScanner(r)
	c, err := parseFrame(sc)
	if err == io.EOF {
		return types.Cluster{}, fmt.Errorf("empty XYZ file")
	}
	return c, err
}

// ReadFrames parses a multi-frame XYZ trajectory at path, returning the
// frames in file order. A truncated trailing frame is an error.
func ReadFrames(path string) ([]types.Cluster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	var frames []types.Cluster
	for {
		c, err := parseFrame(sc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: frame %d: %w", path, len(frames), err)
		}
		frames = append(frames, c)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s: empty trajectory", path)
	}
	return frames, nil
}

// parseFrame reads one count/comment/records block from the scanner. It
// returns io.EOF when no further frame starts (only blank lines remain).
func parseFrame(sc *bufio.Scanner) (types.Cluster, error) {
	countLine, ok := nextNonBlank(sc)
	if !ok {
		return types.Cluster{}, io.EOF
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil || natoms <= 0 {
		return types.Cluster{}, fmt.Errorf("bad atom count line %q", strings.TrimSpace(countLine))
	}

	if !sc.Scan() {
		return types.Cluster{}, fmt.Errorf("file ends before comment line")
	}
	c := types.Cluster{
		Comment: strings.TrimRight(sc.Text(), "\r\n"),
		Atoms:   make([]types.Atom, 0, natoms),
	}

	for i := 0; i < natoms; i++ {
		if !sc.Scan() {
			return types.Cluster{}, fmt.Errorf("declared %d atoms but file ends after %d records", natoms, i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			return types.Cluster{}, fmt.Errorf("atom record %d: want symbol and 3 coordinates, got %q", i+1, strings.TrimSpace(sc.Text()))
		}
		a := types.Atom{Symbol: fields[0]}
		for j := 0; j < 3; j++ {
			a.Position[j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return types.Cluster{}, fmt.Errorf("atom record %d: bad coordinate %q", i+1, fields[j+1])
			}
		}
		c.Atoms = append(c.Atoms, a)
	}
	if err := sc.Err(); err != nil {
		return types.Cluster{}, err
	}
	return c, nil
}

// nextNonBlank advances the scanner past blank lines and returns the first
// non-blank line, or ok=false at end of input.
func nextNonBlank(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			return sc.Text(), true
		}
	}
	return "", false
}

// Write serializes the cluster to w in XYZ format.
func Write(w io.Writer, c types.Cluster) error {
	if _, err := fmt.Fprintf(w, "%d\n%s\n", len(c.Atoms), c.Comment); err != nil {
		return err
	}
	for _, a := range c.Atoms {
		_, err := fmt.Fprintf(w, "%-2s  %12.6f %12.6f %12.6f\n",
			a.Symbol, a.Position[0], a.Position[1], a.Position[2])
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the cluster to path, overwriting any existing file.
func WriteFile(path string, c types.Cluster) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
