package sarifreport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens-dev/repolens/internal/security"
)

func sampleResult() *security.ScanResult {
	result := &security.ScanResult{
		SnapshotID:      "snap-1",
		RegistryVersion: "builtin-v1",
		Findings: []security.Finding{
			{
				Type:        "aws_key",
				PatternID:   "aws-access-key-id",
				File:        "deploy/app.py",
				Line:        3,
				Severity:    "critical",
				Status:      security.StatusDetected,
				Snippet:     "KEY = \"AKIA****************\"",
				Fingerprint: "fp-aws",
			},
			{
				Type:        "password",
				PatternID:   "password-assignment",
				File:        "settings.py",
				Line:        7,
				Severity:    "high",
				Status:      security.StatusIgnored,
				Snippet:     "pass***************",
				Fingerprint: "fp-pwd",
			},
			{
				Type:        "api_key",
				PatternID:   "twilio-key",
				File:        "notify.py",
				Line:        2,
				Severity:    "medium",
				Status:      security.StatusDetected,
				Snippet:     "sid = SK32*****",
				Fingerprint: "fp-twilio",
			},
		},
	}
	return result
}

func TestFromScanResult(t *testing.T) {
	report, err := FromScanResult(sampleResult())
	require.NoError(t, err)

	require.Len(t, report.Runs, 1)
	run := report.Runs[0]

	assert.Equal(t, "repolens", run.Tool.Driver.Name)
	require.NotNil(t, run.Tool.Driver.SemanticVersion)
	assert.Equal(t, "builtin-v1", *run.Tool.Driver.SemanticVersion)

	require.Len(t, run.Tool.Driver.Rules, 3)
	require.Len(t, run.Results, 3)

	first := run.Results[0]
	require.NotNil(t, first.RuleID)
	assert.Equal(t, "aws-access-key-id", *first.RuleID)
	require.NotNil(t, first.Level)
	assert.Equal(t, "error", *first.Level)
	assert.Equal(t, "fp-aws", first.PartialFingerprints["fingerprint"])
	assert.Empty(t, first.Suppressions)

	location := first.Locations[0].PhysicalLocation
	require.NotNil(t, location)
	assert.Equal(t, "deploy/app.py", *location.ArtifactLocation.URI)
	assert.Equal(t, 3, *location.Region.StartLine)
}

func TestFromScanResultSuppressesIgnored(t *testing.T) {
	report, err := FromScanResult(sampleResult())
	require.NoError(t, err)

	run := report.Runs[0]
	for _, result := range run.Results {
		if result.Properties["status"] == string(security.StatusIgnored) {
			require.Len(t, result.Suppressions, 1)
			assert.Equal(t, "external", result.Suppressions[0].Kind)
		} else {
			assert.Empty(t, result.Suppressions)
		}
	}
}

func TestToSarifLevel(t *testing.T) {
	tests := []struct {
		severity string
		want     string
	}{
		{"critical", "error"},
		{"high", "error"},
		{"medium", "warning"},
		{"low", "note"},
		{"bogus", "none"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toSarifLevel(tt.severity))
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.sarif")
	require.NoError(t, WriteFile(sampleResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2.1.0", doc["version"])

	runs, ok := doc["runs"].([]interface{})
	require.True(t, ok)
	require.Len(t, runs, 1)
}
