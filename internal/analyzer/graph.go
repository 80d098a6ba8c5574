package analyzer

import (
	"path"
	"strings"

	"github.com/repolens-dev/repolens/internal/ingest"
)

// candidate extensions tried during extension-insensitive resolution.
var resolveExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".py", ".rb", ".go", ".php"}

// extractImports collects import/include targets from one file using the
// registry patterns for its language. Order follows the file content.
func (a *Analyzer) extractImports(file ingest.SourceFile, text string) []string {
	var targets []string
	seen := make(map[string]bool)

	for _, pattern := range a.reg.Imports {
		if pattern.Language != file.Language {
			continue
		}
		for _, match := range pattern.Pattern.FindAllStringSubmatch(text, -1) {
			target := firstGroup(match)
			if target == "" || seen[target] {
				continue
			}
			seen[target] = true
			targets = append(targets, target)
		}
	}
	return targets
}

// resolveImports resolves each target against the snapshot's file set.
// Unresolvable targets are kept as external edges: the graph is a total
// function of the import statements found, never silently lossy.
func (a *Analyzer) resolveImports(fromPath string, targets []string, pathSet map[string]bool) DependencyEdges {
	var edges DependencyEdges
	fromDir := path.Dir(fromPath)

	for _, target := range targets {
		if resolved, ok := resolveTarget(fromDir, target, pathSet); ok {
			edges.Resolved = append(edges.Resolved, resolved)
		} else {
			edges.External = append(edges.External, target)
		}
	}
	return edges
}

// resolveTarget tries to map one import target to a catalogued file, first
// as a relative path, then as a root-relative module path (python-style
// dotted modules included). Matching is extension-insensitive.
func resolveTarget(fromDir, target string, pathSet map[string]bool) (string, bool) {
	if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") {
		return matchCandidate(path.Clean(path.Join(fromDir, target)), pathSet)
	}

	if strings.Contains(target, ".") && !strings.Contains(target, "/") {
		// python-style dotted module path
		slashed := strings.ReplaceAll(target, ".", "/")
		if resolved, ok := matchCandidate(slashed, pathSet); ok {
			return resolved, true
		}
	}

	if resolved, ok := matchCandidate(target, pathSet); ok {
		return resolved, true
	}
	if fromDir != "." {
		if resolved, ok := matchCandidate(path.Join(fromDir, target), pathSet); ok {
			return resolved, true
		}
	}
	return "", false
}

// matchCandidate checks a candidate path against the file set: exact match,
// extension-insensitive match, and directory index modules.
func matchCandidate(candidate string, pathSet map[string]bool) (string, bool) {
	if pathSet[candidate] {
		return candidate, true
	}
	for _, ext := range resolveExtensions {
		if pathSet[candidate+ext] {
			return candidate + ext, true
		}
	}
	for _, index := range []string{"/__init__.py", "/index.js", "/index.ts"} {
		if pathSet[candidate+index] {
			return candidate + index, true
		}
	}
	return "", false
}

func firstGroup(match []string) string {
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}
