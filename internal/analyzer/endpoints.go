package analyzer

import (
	"sort"
	"strings"

	"github.com/repolens-dev/repolens/internal/ingest"
	"github.com/repolens-dev/repolens/internal/registry"
)

// extractEndpoints runs every matching-language endpoint pattern over a file.
// A file may mix route idioms; all of them are extracted and the merge step
// collapses identical (method, route, file) triples.
func (a *Analyzer) extractEndpoints(file ingest.SourceFile, text string) []Endpoint {
	var endpoints []Endpoint

	for _, pattern := range a.reg.Endpoints {
		if !containsString(pattern.Languages, file.Language) {
			continue
		}
		for _, match := range pattern.Pattern.FindAllStringSubmatchIndex(text, -1) {
			route := groupText(text, match, pattern.RouteGroup)
			if route == "" {
				continue
			}
			line := 1 + strings.Count(text[:match[0]], "\n")

			for _, method := range endpointMethods(text, match, pattern) {
				endpoints = append(endpoints, Endpoint{
					Method:    method,
					Route:     NormalizeRoute(route),
					File:      file.Path,
					Framework: pattern.Framework,
					Line:      line,
				})
			}
		}
	}

	sort.SliceStable(endpoints, func(i, j int) bool {
		return endpoints[i].Line < endpoints[j].Line
	})
	return endpoints
}

// endpointMethods resolves the HTTP methods of one route match: an explicit
// method group wins, then a methods=[...] argument list, then the default.
func endpointMethods(text string, match []int, pattern registry.EndpointPattern) []string {
	if pattern.MethodGroup > 0 {
		if method := groupText(text, match, pattern.MethodGroup); method != "" {
			return []string{strings.ToUpper(method)}
		}
	}
	if pattern.MethodsArgGroup > 0 {
		if arg := groupText(text, match, pattern.MethodsArgGroup); arg != "" {
			var methods []string
			for _, token := range strings.Split(arg, ",") {
				token = strings.Trim(strings.TrimSpace(token), `'"`)
				if token != "" {
					methods = append(methods, strings.ToUpper(token))
				}
			}
			if len(methods) > 0 {
				return methods
			}
		}
	}
	return []string{pattern.DefaultMethod}
}

// groupText extracts one capture group from a FindAllStringSubmatchIndex match.
func groupText(text string, match []int, group int) string {
	start, end := match[2*group], match[2*group+1]
	if start < 0 || end < 0 {
		return ""
	}
	return text[start:end]
}

// NormalizeRoute rewrites parameter placeholders (`:id`, `{id}`, `<id>`) to
// one canonical token so identical routes compare equal across idioms.
func NormalizeRoute(route string) string {
	return registry.RouteParamPattern.ReplaceAllString(route, "{param}")
}

// dedupeEndpoints collapses identical (method, route, file) triples that
// several idiom patterns produced for the same declaration, then establishes
// the final ordering: file path first, line number second.
func dedupeEndpoints(endpoints []Endpoint) []Endpoint {
	type key struct{ method, route, file string }
	seen := make(map[key]bool, len(endpoints))
	deduped := endpoints[:0:0]
	for _, ep := range endpoints {
		k := key{ep.Method, ep.Route, ep.File}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, ep)
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].File != deduped[j].File {
			return deduped[i].File < deduped[j].File
		}
		return deduped[i].Line < deduped[j].Line
	})
	return deduped
}
