package registry

import (
	"fmt"
	"os"
	"regexp"

	yaml "gopkg.in/yaml.v2"

	"github.com/repolens-dev/repolens/pkg/shared/errors"
)

// BuiltinVersion identifies the compiled-in pattern tables. Results are only
// comparable across runs that used the same registry version.
const BuiltinVersion = "builtin-v1"

// Registry is the immutable, versioned table of every detection rule the
// engine uses. It is loaded once and shared read-only by all scanners; rules
// are data, so supporting a new language or framework means appending rows.
type Registry struct {
	Version string

	// Language classification.
	Languages     map[string]string // extension (with dot) -> language
	TextLanguages map[string]bool   // languages included in text analysis
	Shebangs      []ShebangRule

	// Framework and tech stack detection.
	Frameworks         []FrameworkRule
	FrameworkImports   []FrameworkImportPattern
	FrontendFrameworks map[string]bool
	PackagingManifests []string
	TechSignals        []TechSignal

	// Component bucketing, ordered: first matching rule wins.
	Components         []ComponentRule
	ComponentFallback  string
	ArchitectureLabels ArchitectureLabels

	// Entry point heuristics.
	EntryFileNames    []string
	EntryContentRules []EntryContentRule

	// API endpoint extraction.
	Endpoints []EndpointPattern

	// Import statement scanning for the dependency graph.
	Imports []ImportPattern

	// Secret detection, ordered: first matching pattern per line wins.
	Secrets []SecretPattern
}

// ShebangRule maps an interpreter name in a #! line to a language.
type ShebangRule struct {
	Interpreter string
	Language    string
}

// FrameworkRule matches dependency manifests of one ecosystem: if any of the
// manifest files declares one of the keywords, the framework is detected.
type FrameworkRule struct {
	Ecosystem     string
	ManifestFiles []string
	Keywords      []FrameworkKeyword
}

// FrameworkKeyword maps a dependency name substring to a canonical framework name.
type FrameworkKeyword struct {
	Keyword   string
	Framework string
}

// FrameworkImportPattern detects a framework from import statements in source files.
type FrameworkImportPattern struct {
	Framework string
	Languages []string
	Pattern   *regexp.Regexp
}

// TechSignal detects a stack element either by the presence of a well-known
// file or by a keyword occurring in any text file.
type TechSignal struct {
	Name     string
	Files    []string
	Keywords []string
}

// ComponentRule assigns files to an architectural category by path pattern.
type ComponentRule struct {
	Category string
	Pattern  *regexp.Regexp
}

// ArchitectureLabels names the outcomes of the architecture decision chain.
type ArchitectureLabels struct {
	Fullstack string
	Backend   string
	Frontend  string
	Library   string
	Unknown   string
}

// EntryContentRule detects a process entry point from file content.
type EntryContentRule struct {
	Language string
	Pattern  *regexp.Regexp
	Reason   string
}

// EndpointPattern recognizes one route-declaration idiom of a web framework.
// MethodGroup and MethodsArgGroup may be 0 when the idiom does not carry an
// explicit method; DefaultMethod applies then.
type EndpointPattern struct {
	Framework       string
	Languages       []string
	Pattern         *regexp.Regexp
	MethodGroup     int
	RouteGroup      int
	MethodsArgGroup int
	DefaultMethod   string
}

// ImportPattern extracts import/include targets for one language. Group 1
// (or the first non-empty group) is the imported target.
type ImportPattern struct {
	Language string
	Pattern  *regexp.Regexp
}

// SecretPattern detects one class of leaked credential.
type SecretPattern struct {
	ID       string
	Type     string
	Severity string
	Pattern  *regexp.Regexp
}

// Load returns the registry for the given config: the built-in tables, plus
// overrides merged from overridePath when it is non-empty. A malformed
// override file is fatal and yields a RegistryLoadError.
func Load(overridePath string) (*Registry, error) {
	reg := Default()
	if overridePath == "" {
		return reg, nil
	}
	if err := reg.applyOverrides(overridePath); err != nil {
		return nil, errors.NewRegistryLoadError(overridePath, err)
	}
	return reg, nil
}

// overrideFile is the YAML shape of a registry override document.
type overrideFile struct {
	Version string `yaml:"version"`
	Secrets []struct {
		ID       string `yaml:"id"`
		Type     string `yaml:"type"`
		Severity string `yaml:"severity"`
		Pattern  string `yaml:"pattern"`
	} `yaml:"secrets"`
	TechSignals []struct {
		Name     string   `yaml:"name"`
		Files    []string `yaml:"files"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"tech_signals"`
}

func (r *Registry) applyOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read override file: %w", err)
	}

	var overrides overrideFile
	if err := yaml.UnmarshalStrict(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse override file: %w", err)
	}
	if overrides.Version == "" {
		return fmt.Errorf("override file is missing a version")
	}

	for _, s := range overrides.Secrets {
		if s.ID == "" || s.Pattern == "" {
			return fmt.Errorf("secret override needs both id and pattern")
		}
		compiled, err := regexp.Compile(s.Pattern)
		if err != nil {
			return fmt.Errorf("secret override %q has an invalid pattern: %w", s.ID, err)
		}
		r.Secrets = append(r.Secrets, SecretPattern{
			ID:       s.ID,
			Type:     s.Type,
			Severity: s.Severity,
			Pattern:  compiled,
		})
	}

	for _, t := range overrides.TechSignals {
		if t.Name == "" {
			return fmt.Errorf("tech signal override needs a name")
		}
		r.TechSignals = append(r.TechSignals, TechSignal{
			Name:     t.Name,
			Files:    t.Files,
			Keywords: t.Keywords,
		})
	}

	r.Version = r.Version + "+" + overrides.Version
	return nil
}
