package registry

import "regexp"

// defaultFrameworks matches declared dependencies inside ecosystem manifests.
// Keyword order within a rule is part of the registry contract: detection
// output preserves it when several keywords hit the same manifest.
var defaultFrameworks = []FrameworkRule{
	{
		Ecosystem:     "python",
		ManifestFiles: []string{"requirements.txt", "Pipfile", "pyproject.toml", "setup.py"},
		Keywords: []FrameworkKeyword{
			{Keyword: "flask", Framework: "Flask"},
			{Keyword: "django", Framework: "Django"},
			{Keyword: "fastapi", Framework: "FastAPI"},
			{Keyword: "tornado", Framework: "Tornado"},
			{Keyword: "bottle", Framework: "Bottle"},
			{Keyword: "pyramid", Framework: "Pyramid"},
			{Keyword: "streamlit", Framework: "Streamlit"},
			{Keyword: "gradio", Framework: "Gradio"},
		},
	},
	{
		Ecosystem:     "javascript",
		ManifestFiles: []string{"package.json"},
		Keywords: []FrameworkKeyword{
			{Keyword: "react", Framework: "React"},
			{Keyword: "next", Framework: "Next.js"},
			{Keyword: "vue", Framework: "Vue.js"},
			{Keyword: "nuxt", Framework: "Nuxt.js"},
			{Keyword: "angular", Framework: "Angular"},
			{Keyword: "svelte", Framework: "Svelte"},
			{Keyword: "express", Framework: "Express.js"},
			{Keyword: "nestjs", Framework: "NestJS"},
			{Keyword: "koa", Framework: "Koa"},
			{Keyword: "fastify", Framework: "Fastify"},
			{Keyword: "gatsby", Framework: "Gatsby"},
			{Keyword: "remix", Framework: "Remix"},
			{Keyword: "electron", Framework: "Electron"},
		},
	},
	{
		Ecosystem:     "java",
		ManifestFiles: []string{"pom.xml", "build.gradle", "build.gradle.kts"},
		Keywords: []FrameworkKeyword{
			{Keyword: "spring", Framework: "Spring Boot"},
			{Keyword: "quarkus", Framework: "Quarkus"},
		},
	},
	{
		Ecosystem:     "ruby",
		ManifestFiles: []string{"Gemfile"},
		Keywords: []FrameworkKeyword{
			{Keyword: "rails", Framework: "Ruby on Rails"},
			{Keyword: "sinatra", Framework: "Sinatra"},
		},
	},
	{
		Ecosystem:     "go",
		ManifestFiles: []string{"go.mod"},
		Keywords: []FrameworkKeyword{
			{Keyword: "gin", Framework: "Gin"},
			{Keyword: "echo", Framework: "Echo"},
			{Keyword: "fiber", Framework: "Fiber"},
		},
	},
	{
		Ecosystem:     "php",
		ManifestFiles: []string{"composer.json"},
		Keywords: []FrameworkKeyword{
			{Keyword: "laravel", Framework: "Laravel"},
			{Keyword: "symfony", Framework: "Symfony"},
		},
	},
}

// buildFrameworkImports compiles import-statement detectors from the manifest
// keyword tables, so both signal sources stay in sync.
func buildFrameworkImports(frameworks []FrameworkRule) []FrameworkImportPattern {
	var patterns []FrameworkImportPattern
	for _, rule := range frameworks {
		switch rule.Ecosystem {
		case "python":
			for _, kw := range rule.Keywords {
				patterns = append(patterns, FrameworkImportPattern{
					Framework: kw.Framework,
					Languages: []string{"python"},
					Pattern:   regexp.MustCompile(`(?m)^\s*(?:import|from)\s+` + regexp.QuoteMeta(kw.Keyword)),
				})
			}
		case "javascript":
			for _, kw := range rule.Keywords {
				patterns = append(patterns, FrameworkImportPattern{
					Framework: kw.Framework,
					Languages: []string{"javascript", "typescript"},
					Pattern:   regexp.MustCompile(`require\(['"]` + regexp.QuoteMeta(kw.Keyword) + `|from\s+['"]` + regexp.QuoteMeta(kw.Keyword)),
				})
			}
		}
	}
	return patterns
}

// defaultFrontendFrameworks marks canonical names that indicate a front-end
// stack for the architecture decision chain.
var defaultFrontendFrameworks = map[string]bool{
	"React":    true,
	"Next.js":  true,
	"Vue.js":   true,
	"Nuxt.js":  true,
	"Angular":  true,
	"Svelte":   true,
	"Gatsby":   true,
	"Remix":    true,
	"Electron": true,
}

// defaultPackagingManifests are files whose presence marks a distributable
// library when no entry points exist.
var defaultPackagingManifests = []string{
	"setup.py", "pyproject.toml", "package.json", "Cargo.toml",
	"go.mod", "pom.xml", "build.gradle", "composer.json", "Gemfile",
	"setup.cfg", "*.gemspec", "*.csproj",
}

// defaultTechSignals detects stack elements beyond frameworks: databases,
// ORMs, auth, cloud, testing, CSS and build tooling.
var defaultTechSignals = []TechSignal{
	{Name: "mongodb", Keywords: []string{"pymongo", "mongoose", "mongodb", "mongoclient"}},
	{Name: "postgresql", Keywords: []string{"psycopg", "postgresql", "postgres"}},
	{Name: "mysql", Keywords: []string{"mysqlclient", "mysql2", "mysql"}},
	{Name: "sqlite", Keywords: []string{"sqlite3", "sqlite"}},
	{Name: "redis", Keywords: []string{"ioredis", "redis"}},
	{Name: "firebase", Keywords: []string{"firebase", "firestore"}},
	{Name: "supabase", Keywords: []string{"supabase"}},
	{Name: "sqlalchemy", Keywords: []string{"sqlalchemy"}},
	{Name: "prisma", Files: []string{"prisma/schema.prisma"}, Keywords: []string{"prisma"}},
	{Name: "sequelize", Keywords: []string{"sequelize"}},
	{Name: "typeorm", Keywords: []string{"typeorm"}},
	{Name: "jwt", Keywords: []string{"jsonwebtoken", "pyjwt", "jwt"}},
	{Name: "oauth", Keywords: []string{"oauth", "passport"}},
	{Name: "aws", Keywords: []string{"boto3", "aws-sdk", "@aws-sdk"}},
	{Name: "gcp", Keywords: []string{"google-cloud", "@google-cloud"}},
	{Name: "docker", Files: []string{"Dockerfile", "docker-compose.yml", "docker-compose.yaml"}},
	{Name: "pytest", Keywords: []string{"pytest"}},
	{Name: "jest", Keywords: []string{"jest"}},
	{Name: "mocha", Keywords: []string{"mocha"}},
	{Name: "tailwindcss", Files: []string{"tailwind.config.js", "tailwind.config.ts"}, Keywords: []string{"tailwindcss"}},
	{Name: "bootstrap", Keywords: []string{"bootstrap"}},
	{Name: "webpack", Files: []string{"webpack.config.js"}, Keywords: []string{"webpack"}},
	{Name: "vite", Files: []string{"vite.config.js", "vite.config.ts"}, Keywords: []string{"vite"}},
}
