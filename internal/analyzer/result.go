package analyzer

import (
	"github.com/repolens-dev/repolens/internal/ingest"
)

// EntryPoint is a file identified as a process or application start location.
type EntryPoint struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Endpoint is one extracted API route declaration. Route is normalized so the
// same route expressed through different idioms compares equal.
type Endpoint struct {
	Method    string `json:"method"`
	Route     string `json:"route"`
	File      string `json:"file"`
	Framework string `json:"framework"`
	Line      int    `json:"line"`
}

// DependencyEdges splits a file's import targets into snapshot-resolved
// paths and external (unresolved) targets. Nothing is dropped: the graph is
// a total function of the import statements found.
type DependencyEdges struct {
	Resolved []string `json:"resolved,omitempty"`
	External []string `json:"external,omitempty"`
}

// AnalysisResult is the structured architectural profile of one snapshot.
// It is a pure function of (snapshot contents, registry version, config):
// two runs over byte-identical trees are value-equal.
type AnalysisResult struct {
	SnapshotID      string                     `json:"snapshot_id,omitempty"`
	RegistryVersion string                     `json:"registry_version"`
	Frameworks      []string                   `json:"frameworks"`
	TechStack       []string                   `json:"tech_stack"`
	Architecture    string                     `json:"architecture_type"`
	TotalFiles      int                        `json:"total_files"`
	TotalLines      int                        `json:"total_lines"`
	Languages       map[string]int             `json:"languages"`
	Components      map[string][]string        `json:"components"`
	EntryPoints     []EntryPoint               `json:"entry_points"`
	APIEndpoints    []Endpoint                 `json:"api_endpoints"`
	DependencyGraph map[string]DependencyEdges `json:"dependency_graph"`
	Diagnostics     []ingest.Diagnostic        `json:"diagnostics,omitempty"`
	Incomplete      bool                       `json:"incomplete,omitempty"`
	UnscannedFiles  []string                   `json:"unscanned_files,omitempty"`
}
