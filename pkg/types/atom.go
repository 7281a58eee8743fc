// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared domain and configuration structs for clusterqc.
package types

import "fmt"

// SymbolXenon is the element symbol the analyzer centers its neighbor search on.
const SymbolXenon = "Xe"

// Atom is one atomic record from a cluster geometry file: an element symbol
// and a Cartesian position in Angstroms. Atoms are immutable once parsed.
type Atom struct {
	// Symbol is the element symbol as written in the file (e.g. "Xe", "H").
	Symbol string `json:"symbol" yaml:"symbol"`

	// Position is the x, y, z coordinate in Angstroms.
	Position [3]float64 `json:"position" yaml:"position,flow"`
}

// Cluster is the ordered atom sequence read from one geometry file. It is
// loaded once per analysis pass and never mutated.
type Cluster struct {
	// ID identifies the cluster, normally the cluster directory name
	// (e.g. "cluster_42"), or a frame label in trajectory mode.
	ID string `json:"id" yaml:"id"`

	// Comment is the free-text second line of the XYZ file, preserved so a
	// re-serialized cluster round-trips.
	Comment string `json:"comment" yaml:"comment"`

	// Atoms lists the atoms in file order.
	Atoms []Atom `json:"atoms" yaml:"atoms"`
}

// NumAtoms returns the number of atoms in the cluster.
func (c Cluster) NumAtoms() int { return len(c.Atoms) }

// XenonIndices returns the positions of Xenon atoms in file order.
func (c Cluster) XenonIndices() []int {
	var idx []int
	for i, a := range c.Atoms {
		if a.Symbol == SymbolXenon {
			idx = append(idx, i)
		}
	}
	return idx
}

// ClusterFile locates one discovered cluster geometry file on disk.
type ClusterFile struct {
	// ID is the cluster directory name (e.g. "cluster_42").
	ID string `json:"id" yaml:"id"`

	// Index is the integer parsed from the directory name, used for stable
	// batch ordering. Directories that do not parse sort as 0.
	Index int `json:"index" yaml:"index"`

	// Dir is the cluster directory path; relocation moves this whole directory.
	Dir string `json:"dir" yaml:"dir"`

	// Path is the geometry file inside Dir.
	Path string `json:"path" yaml:"path"`
}

func (f ClusterFile) String() string {
	return fmt.Sprintf("%s (%s)", f.ID, f.Path)
}
