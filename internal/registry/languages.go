package registry

// defaultLanguages maps file extensions to language names.
var defaultLanguages = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".go":    "go",
	".rb":    "ruby",
	".php":   "php",
	".cs":    "csharp",
	".cpp":   "cpp",
	".cc":    "cpp",
	".c":     "c",
	".h":     "c",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".sql":   "sql",
	".sh":    "shell",
	".yml":   "yaml",
	".yaml":  "yaml",
	".json":  "json",
	".xml":   "xml",
	".md":    "markdown",
	".txt":   "text",
	".env":   "dotenv",
	".toml":  "toml",
}

// defaultTextLanguages lists the languages whose files go through text-based
// analysis. Data/markup formats are catalogued and line-counted but excluded
// from import/endpoint/secret scanning, except dotenv which secrets need.
var defaultTextLanguages = map[string]bool{
	"python":     true,
	"javascript": true,
	"typescript": true,
	"java":       true,
	"go":         true,
	"ruby":       true,
	"php":        true,
	"csharp":     true,
	"cpp":        true,
	"c":          true,
	"rust":       true,
	"swift":      true,
	"kotlin":     true,
	"html":       true,
	"css":        true,
	"scss":       true,
	"sql":        true,
	"shell":      true,
	"yaml":       true,
	"dotenv":     true,
	"toml":       true,
}

// defaultShebangs resolves languages for extensionless scripts.
var defaultShebangs = []ShebangRule{
	{Interpreter: "python", Language: "python"},
	{Interpreter: "node", Language: "javascript"},
	{Interpreter: "ruby", Language: "ruby"},
	{Interpreter: "bash", Language: "shell"},
	{Interpreter: "sh", Language: "shell"},
	{Interpreter: "php", Language: "php"},
}
