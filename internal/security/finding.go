package security

import (
	"github.com/repolens-dev/repolens/internal/ingest"
)

// Status is the lifecycle state of a finding. `detected` is the initial
// state; every other state is terminal and only a remediation action issues
// the transition.
type Status string

const (
	StatusDetected Status = "detected"
	StatusRemoved  Status = "removed"
	StatusMasked   Status = "masked"
	StatusIgnored  Status = "ignored"
)

// Finding is one credential-like match. Fingerprint is its stable identity
// across rescans of byte-identical content.
type Finding struct {
	Type        string `json:"type"`
	PatternID   string `json:"pattern_id"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Severity    string `json:"severity"`
	Status      Status `json:"status"`
	Snippet     string `json:"snippet"`
	Fingerprint string `json:"fingerprint"`
}

// ScanResult is the ordered findings report of one scan, with aggregate
// counts. It is recomputed on every scan; ignored fingerprints carry their
// status forward instead of being re-flagged as new.
type ScanResult struct {
	SnapshotID      string              `json:"snapshot_id,omitempty"`
	RegistryVersion string              `json:"registry_version"`
	Findings        []Finding           `json:"findings"`
	Total           int                 `json:"total"`
	ByStatus        map[Status]int      `json:"by_status"`
	Diagnostics     []ingest.Diagnostic `json:"diagnostics,omitempty"`
	Incomplete      bool                `json:"incomplete,omitempty"`
	UnscannedFiles  []string            `json:"unscanned_files,omitempty"`
}

func (r *ScanResult) recount() {
	r.Total = len(r.Findings)
	r.ByStatus = make(map[Status]int)
	for _, f := range r.Findings {
		r.ByStatus[f.Status]++
	}
}

// severityRank orders findings for the report: critical first.
func severityRank(severity string) int {
	switch severity {
	case "critical":
		return 0
	case "high":
		return 1
	case "medium":
		return 2
	case "low":
		return 3
	default:
		return 4
	}
}
