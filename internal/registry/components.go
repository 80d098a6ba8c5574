package registry

import "regexp"

// defaultComponents buckets files into architectural categories. Rules are
// evaluated in order against the lowercased relative path; the first match
// wins and unmatched files land in the fallback category.
var defaultComponents = []ComponentRule{
	{Category: "tests", Pattern: regexp.MustCompile(`(?:^|/)(?:tests?|spec|__tests__)(?:/|_|\.|$)|_test\.|\.test\.|\.spec\.`)},
	{Category: "routes", Pattern: regexp.MustCompile(`rout(?:e|er)|urls?\.py|(?:^|/)api/`)},
	{Category: "models", Pattern: regexp.MustCompile(`model|schema|entity|dto`)},
	{Category: "views", Pattern: regexp.MustCompile(`view|template|page|component`)},
	{Category: "controllers", Pattern: regexp.MustCompile(`controller|handler|endpoint|resource`)},
	{Category: "services", Pattern: regexp.MustCompile(`service|manager|helper|utils?(?:/|\.|$)`)},
	{Category: "config", Pattern: regexp.MustCompile(`config|settings|\.env|constant`)},
}

const defaultComponentFallback = "other"

// defaultArchitectureLabels names the outcomes of the fixed decision chain.
var defaultArchitectureLabels = ArchitectureLabels{
	Fullstack: "fullstack",
	Backend:   "backend/api",
	Frontend:  "frontend/spa",
	Library:   "library",
	Unknown:   "unknown",
}

// defaultEntryFileNames are canonical entry point file basenames.
var defaultEntryFileNames = []string{
	"main.py", "app.py", "run.py", "server.py", "wsgi.py", "asgi.py",
	"manage.py", "index.py",
	"index.js", "server.js", "app.js", "main.js",
	"index.ts", "server.ts", "app.ts", "main.ts",
	"index.tsx", "main.tsx", "App.tsx",
	"Main.java", "Application.java",
	"main.go",
}

// defaultEntryContentRules detect entry points from per-language idioms.
var defaultEntryContentRules = []EntryContentRule{
	{Language: "python", Pattern: regexp.MustCompile(`if\s+__name__\s*==\s*["']__main__["']`), Reason: "main guard"},
	{Language: "python", Pattern: regexp.MustCompile(`app\.run\(`), Reason: "Flask app.run()"},
	{Language: "python", Pattern: regexp.MustCompile(`uvicorn\.run\(`), Reason: "Uvicorn run"},
	{Language: "python", Pattern: regexp.MustCompile(`create_app\(`), Reason: "application factory"},
	{Language: "javascript", Pattern: regexp.MustCompile(`app\.listen\(`), Reason: "Express listen"},
	{Language: "javascript", Pattern: regexp.MustCompile(`createServer\(`), Reason: "HTTP server"},
	{Language: "javascript", Pattern: regexp.MustCompile(`ReactDOM\.render\(|createRoot\(`), Reason: "React entry"},
	{Language: "typescript", Pattern: regexp.MustCompile(`app\.listen\(`), Reason: "Express listen"},
	{Language: "typescript", Pattern: regexp.MustCompile(`bootstrap\(\)`), Reason: "NestJS bootstrap"},
	{Language: "go", Pattern: regexp.MustCompile(`(?m)^func main\(\)`), Reason: "Go main function"},
	{Language: "java", Pattern: regexp.MustCompile(`public\s+static\s+void\s+main\(`), Reason: "Java main method"},
}
