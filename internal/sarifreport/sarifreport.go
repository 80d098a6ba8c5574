package sarifreport

import (
	"fmt"
	"os"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/repolens-dev/repolens/internal/security"
)

const (
	toolName = "repolens"
	toolURI  = "https://github.com/repolens-dev/repolens"
)

// FromScanResult converts a findings report into a SARIF 2.1.0 report.
// Pattern ids become rules; ignored findings are emitted as suppressed
// results so downstream viewers keep them out of the active queue.
func FromScanResult(result *security.ScanResult) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	if result.RegistryVersion != "" {
		run.Tool.Driver.SemanticVersion = &result.RegistryVersion
	}

	seenRules := make(map[string]bool)
	for _, finding := range result.Findings {
		if !seenRules[finding.PatternID] {
			seenRules[finding.PatternID] = true
			run.AddRule(finding.PatternID).
				WithDescription(ruleDescription(finding)).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{
					Level: toSarifLevel(finding.Severity),
				})
		}

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(finding.File)).
				WithRegion(sarif.NewRegion().WithStartLine(finding.Line)),
		)

		sarifResult := sarif.NewRuleResult(finding.PatternID).
			WithMessage(sarif.NewTextMessage(resultMessage(finding))).
			WithLevel(toSarifLevel(finding.Severity)).
			WithLocations([]*sarif.Location{location})
		sarifResult.PartialFingerprints = map[string]interface{}{
			"fingerprint": finding.Fingerprint,
		}
		sarifResult.Properties = map[string]interface{}{
			"status": string(finding.Status),
			"type":   finding.Type,
		}
		if finding.Status == security.StatusIgnored {
			sarifResult.Suppressions = []*sarif.Suppression{
				sarif.NewSuppression("external").WithJustifcation("fingerprint is on the ignore list"),
			}
		}
		run.AddResult(sarifResult)
	}
	report.AddRun(run)

	return report, nil
}

// WriteFile renders the scan result as pretty-printed SARIF at outputPath.
func WriteFile(result *security.ScanResult, outputPath string) error {
	report, err := FromScanResult(result)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("error writing SARIF report: %w", err)
	}
	defer func() { _ = file.Close() }()

	return report.PrettyWrite(file)
}

func ruleDescription(finding security.Finding) string {
	return fmt.Sprintf("Credential-like content of type %s", finding.Type)
}

func resultMessage(finding security.Finding) string {
	return fmt.Sprintf("%s severity %s finding: %s", finding.Severity, finding.Type, finding.Snippet)
}

func toSarifLevel(severity string) string {
	switch strings.ToLower(severity) {
	case "critical", "high":
		return "error"
	case "medium":
		return "warning"
	case "low":
		return "note"
	default:
		return "none"
	}
}
