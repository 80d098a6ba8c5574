package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/repolens-dev/repolens/internal/ingest"
)

// detectImportFrameworks matches import statements in one file against the
// registry's framework import patterns.
func (a *Analyzer) detectImportFrameworks(file ingest.SourceFile, text string) []string {
	var detected []string
	for _, pattern := range a.reg.FrameworkImports {
		if !containsString(pattern.Languages, file.Language) {
			continue
		}
		if pattern.Pattern.MatchString(text) {
			detected = append(detected, pattern.Framework)
		}
	}
	return detected
}

// detectTechKeywords returns every tech signal whose keyword occurs in the
// file's content. Signal order is preserved; the merge step dedupes.
func (a *Analyzer) detectTechKeywords(text string) []string {
	lower := strings.ToLower(text)
	var detected []string
	for _, signal := range a.reg.TechSignals {
		for _, kw := range signal.Keywords {
			if strings.Contains(lower, kw) {
				detected = append(detected, signal.Name)
				break
			}
		}
	}
	return detected
}

// detectEntryReasons evaluates per-language entry point idioms against file
// content. The canonical filename rule has precedence over content rules.
func (a *Analyzer) detectEntryReasons(file ingest.SourceFile, text string) []string {
	var reasons []string
	if reason, ok := a.entryFileName(file.Path); ok {
		reasons = append(reasons, reason)
	}
	for _, rule := range a.reg.EntryContentRules {
		if rule.Language != file.Language {
			continue
		}
		if rule.Pattern.MatchString(text) {
			reasons = append(reasons, rule.Reason)
		}
	}
	return reasons
}

// entryFileName checks a path against the canonical entry point file names.
func (a *Analyzer) entryFileName(path string) (string, bool) {
	base := filepath.Base(path)
	for _, name := range a.reg.EntryFileNames {
		if base == name {
			return "known entry point filename: " + base, true
		}
	}
	return "", false
}

// bucketComponent assigns a file to exactly one category: the first matching
// rule wins, in registry order, and unmatched files fall through to the
// fallback category.
func (a *Analyzer) bucketComponent(path string) string {
	lower := strings.ToLower(path)
	for _, rule := range a.reg.Components {
		if rule.Pattern.MatchString(lower) {
			return rule.Category
		}
	}
	return a.reg.ComponentFallback
}

// classifyArchitecture derives the architecture type through the fixed
// decision chain. The chain order is the contract: it is the one place where
// classification ambiguity is resolved by precedence instead of scoring.
func (a *Analyzer) classifyArchitecture(result *AnalysisResult, catalogue *ingest.Result) string {
	labels := a.reg.ArchitectureLabels
	hasEndpoints := len(result.APIEndpoints) > 0
	hasFrontend := a.hasFrontendFramework(result.Frameworks)

	switch {
	case hasEndpoints && hasFrontend:
		return labels.Fullstack
	case hasEndpoints:
		return labels.Backend
	case hasFrontend:
		return labels.Frontend
	case len(result.EntryPoints) == 0 && a.hasPackagingManifest(catalogue):
		return labels.Library
	default:
		return labels.Unknown
	}
}

func (a *Analyzer) hasFrontendFramework(frameworks []string) bool {
	for _, name := range frameworks {
		if a.reg.FrontendFrameworks[name] {
			return true
		}
	}
	return false
}

func (a *Analyzer) hasPackagingManifest(catalogue *ingest.Result) bool {
	basenames := catalogue.Basenames()
	for _, manifest := range a.reg.PackagingManifests {
		if strings.ContainsAny(manifest, "*?[") {
			for base := range basenames {
				if matched, _ := filepath.Match(manifest, base); matched {
					return true
				}
			}
			continue
		}
		if basenames[strings.ToLower(manifest)] {
			return true
		}
	}
	return false
}

func baseName(path string) string {
	return filepath.Base(path)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
