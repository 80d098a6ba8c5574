package registry

import "regexp"

// defaultEndpoints recognizes route-declaration idioms. A file may use
// several idioms; every pattern runs over every matching-language file.
var defaultEndpoints = []EndpointPattern{
	{
		Framework:       "Flask",
		Languages:       []string{"python"},
		Pattern:         regexp.MustCompile(`@\w+\.route\(\s*["']([^"']+)["'](?:[^)\n]*methods\s*=\s*\[([^\]]*)\])?`),
		RouteGroup:      1,
		MethodsArgGroup: 2,
		DefaultMethod:   "GET",
	},
	{
		Framework:     "FastAPI",
		Languages:     []string{"python"},
		Pattern:       regexp.MustCompile(`@\w+\.(get|post|put|delete|patch)\(\s*["']([^"']+)["']`),
		MethodGroup:   1,
		RouteGroup:    2,
		DefaultMethod: "GET",
	},
	{
		Framework:     "Django",
		Languages:     []string{"python"},
		Pattern:       regexp.MustCompile(`(?m)^\s*(?:re_)?path\(\s*["']([^"']+)["']`),
		RouteGroup:    1,
		DefaultMethod: "GET",
	},
	{
		Framework:     "Express",
		Languages:     []string{"javascript", "typescript"},
		Pattern:       regexp.MustCompile(`(?:app|router)\.(get|post|put|delete|patch)\(\s*["']([^"']+)["']`),
		MethodGroup:   1,
		RouteGroup:    2,
		DefaultMethod: "GET",
	},
	{
		Framework:     "Gin",
		Languages:     []string{"go"},
		Pattern:       regexp.MustCompile(`\.(GET|POST|PUT|DELETE|PATCH)\(\s*"([^"]+)"`),
		MethodGroup:   1,
		RouteGroup:    2,
		DefaultMethod: "GET",
	},
}

// routeParamPattern rewrites `:id`, `{id}` and `<id>` style placeholders to
// one canonical token so identical routes compare equal across idioms.
var RouteParamPattern = regexp.MustCompile(`:(\w+)|\{[^}]+\}|<[^>]+>`)

// defaultImports extracts import/include targets per language. The first
// non-empty capture group is the imported target.
var defaultImports = []ImportPattern{
	{Language: "python", Pattern: regexp.MustCompile(`(?m)^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`)},
	{Language: "javascript", Pattern: regexp.MustCompile(`(?:import\s+(?:[\w*{}\s,]+\s+from\s+)?|require\(\s*)["']([^"']+)["']`)},
	{Language: "typescript", Pattern: regexp.MustCompile(`(?:import\s+(?:[\w*{}\s,]+\s+from\s+)?|require\(\s*)["']([^"']+)["']`)},
	{Language: "java", Pattern: regexp.MustCompile(`(?m)^import\s+(?:static\s+)?([\w.]+);`)},
	{Language: "go", Pattern: regexp.MustCompile(`(?m)^\s*(?:import\s+)?(?:\w+\s+)?"([\w./\-]+)"`)},
	{Language: "ruby", Pattern: regexp.MustCompile(`(?m)^\s*require(?:_relative)?\s+["']([^"']+)["']`)},
	{Language: "php", Pattern: regexp.MustCompile(`(?m)^\s*use\s+([\w\\]+);`)},
	{Language: "rust", Pattern: regexp.MustCompile(`(?m)^\s*use\s+([\w:]+)`)},
}
