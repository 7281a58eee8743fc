// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coordination

import (
	"errors"
	"math"
	"testing"

	"github.com/pdiddy/clusterqc/pkg/types"
)

func cluster(atoms ...types.Atom) types.Cluster {
	return types.Cluster{ID: "test", Atoms: atoms}
}

func atom(symbol string, x, y, z float64) types.Atom {
	return types.Atom{Symbol: symbol, Position: [3]float64{x, y, z}}
}

func TestAnalyzeLinearChain(t *testing.T) {
	// Xe at the origin with H at 1.0, 2.0 and 10.0 A along x.
	c := cluster(
		atom("Xe", 0, 0, 0),
		atom("H", 1, 0, 0),
		atom("H", 2, 0, 0),
		atom("H", 10, 0, 0),
	)

	res, err := Analyze(c, 1.5, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := res.Counts(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("Counts = %v, want [1]", got)
	}
	if res.Anomalous {
		t.Error("threshold 1: cluster should be GOOD")
	}

	res, err = Analyze(c, 1.5, 2)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.Anomalous {
		t.Error("threshold 2: cluster should be ANOMALOUS")
	}
}

func TestAnalyzeCutoffInclusive(t *testing.T) {
	// Neighbor exactly at the cutoff radius counts.
	c := cluster(atom("Xe", 0, 0, 0), atom("O", 1.5, 0, 0))
	res, err := Analyze(c, 1.5, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Counts()[0] != 1 {
		t.Errorf("count = %d, want 1 (distance == rcut)", res.Counts()[0])
	}
}

func TestAnalyzeSelfExcludedByIndex(t *testing.T) {
	// Two Xe at identical coordinates: each sees the other (zero distance)
	// but never itself.
	c := cluster(atom("Xe", 0, 0, 0), atom("Xe", 0, 0, 0))
	res, err := Analyze(c, 1.0, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := res.Counts(); got[0] != 1 || got[1] != 1 {
		t.Errorf("Counts = %v, want [1 1]", got)
	}
}

func TestAnalyzeMonotonicInRcut(t *testing.T) {
	c := cluster(
		atom("Xe", 0, 0, 0),
		atom("H", 0.9, 0, 0),
		atom("O", 0, 2.5, 0),
		atom("H", 0, 0, 4.1),
		atom("C", 3, 3, 3),
	)
	prev := -1
	for _, rcut := range []float64{0, 1, 2, 3, 4, 5, 6, 10} {
		res, err := Analyze(c, rcut, 1)
		if err != nil {
			t.Fatalf("Analyze(rcut=%v): %v", rcut, err)
		}
		count := res.Counts()[0]
		if count < 0 {
			t.Fatalf("rcut=%v: negative count %d", rcut, count)
		}
		if count < prev {
			t.Errorf("rcut=%v: count %d decreased from %d", rcut, count, prev)
		}
		prev = count
	}
}

func TestAnalyzeTwoXenonAnyFailRule(t *testing.T) {
	// First Xe has two close neighbors, second Xe sits isolated: the cluster
	// is anomalous even though one site passes.
	c := cluster(
		atom("Xe", 0, 0, 0),
		atom("H", 1, 0, 0),
		atom("H", 0, 1, 0),
		atom("Xe", 50, 50, 50),
	)
	res, err := Analyze(c, 2.0, 2)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := res.Counts(); len(got) != 2 || got[0] != 2 || got[1] != 0 {
		t.Fatalf("Counts = %v, want [2 0]", got)
	}
	if !res.Anomalous {
		t.Error("cluster should be ANOMALOUS when any Xe fails")
	}
	if res.MinCount() != 0 {
		t.Errorf("MinCount = %d, want 0", res.MinCount())
	}
}

func TestAnalyzeNoXenon(t *testing.T) {
	c := cluster(atom("H", 0, 0, 0), atom("O", 1, 0, 0))
	_, err := Analyze(c, 6.0, 10)
	if !errors.Is(err, ErrNoXenon) {
		t.Fatalf("err = %v, want ErrNoXenon", err)
	}
}

func TestAnalyzeSiteDetails(t *testing.T) {
	c := cluster(
		atom("Xe", 0, 0, 0),
		atom("H", 1, 0, 0),
		atom("H", 3, 0, 0),
		atom("H", 9, 0, 0),
	)
	res, err := Analyze(c, 4.0, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	s := res.Sites[0]
	if s.AtomIndex != 0 {
		t.Errorf("AtomIndex = %d, want 0", s.AtomIndex)
	}
	if len(s.Neighbors) != 2 || s.Neighbors[0] != 1 || s.Neighbors[1] != 2 {
		t.Fatalf("Neighbors = %v, want [1 2]", s.Neighbors)
	}
	if math.Abs(s.MinDist-1.0) > 1e-12 || math.Abs(s.MaxDist-3.0) > 1e-12 {
		t.Errorf("MinDist, MaxDist = %v, %v, want 1, 3", s.MinDist, s.MaxDist)
	}
	if math.Abs(s.AvgDist-2.0) > 1e-12 {
		t.Errorf("AvgDist = %v, want 2", s.AvgDist)
	}
}

func TestAnalyzeCountsOrderFollowsFileOrder(t *testing.T) {
	c := cluster(
		atom("H", 1, 0, 0),
		atom("Xe", 0, 0, 0),
		atom("Xe", 100, 0, 0),
		atom("H", 101, 0, 0),
		atom("H", 102, 0, 0),
	)
	res, err := Analyze(c, 2.5, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := res.Counts(); got[0] != 1 || got[1] != 2 {
		t.Errorf("Counts = %v, want [1 2]", got)
	}
	if res.Sites[0].AtomIndex != 1 || res.Sites[1].AtomIndex != 2 {
		t.Errorf("site order = [%d %d], want [1 2]",
			res.Sites[0].AtomIndex, res.Sites[1].AtomIndex)
	}
}
