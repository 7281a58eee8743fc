// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Default analysis parameters, matching the historical tool defaults.
const (
	// DefaultRcut is the default neighbor-search cutoff radius in Angstroms.
	DefaultRcut = 6.0

	// DefaultMinNeighbors is the default minimum Xe coordination number for a
	// cluster to pass.
	DefaultMinNeighbors = 10

	// BadSeedsDirName is the holding directory, under the base directory, that
	// anomalous clusters are moved into.
	BadSeedsDirName = "bad_seeds"
)

// AnalysisConfig holds the two parameters the coordination analyzer consumes.
type AnalysisConfig struct {
	// Rcut is the cutoff radius for the neighbor search, in Angstroms.
	Rcut float64 `json:"rcut" yaml:"rcut"`

	// MinNeighbors is the minimum neighbor count every Xe atom must reach for
	// the cluster to be GOOD.
	MinNeighbors int `json:"min_neighbors" yaml:"min_neighbors"`
}

// CheckConfig holds settings for a batch sanity-check run.
type CheckConfig struct {
	AnalysisConfig `yaml:",inline"`

	// BaseDir is the directory containing cluster_* folders.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// SortAnomalies moves anomalous cluster directories into BaseDir/bad_seeds
	// after analysis completes.
	SortAnomalies bool `json:"sort_anomalies" yaml:"sort_anomalies"`

	// ReportPath, when non-empty, is where the YAML run report is written.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`

	// Progress enables the terminal progress bar on stderr.
	Progress bool `json:"progress" yaml:"progress"`
}

// TrajectoryConfig holds settings for multi-frame trajectory analysis.
type TrajectoryConfig struct {
	AnalysisConfig `yaml:",inline"`

	// Path is the multi-frame XYZ trajectory file.
	Path string `json:"path" yaml:"path"`

	// Progress enables the terminal progress bar on stderr.
	Progress bool `json:"progress" yaml:"progress"`
}

// HistoryConfig holds settings for the run-history database.
type HistoryConfig struct {
	// DBPath is the SQLite database file recording past runs.
	DBPath string `json:"db_path" yaml:"db_path"`
}
