package registry

// Default assembles the built-in registry. The returned value is treated as
// immutable by every consumer; components receive it explicitly and never
// reach for package-level state.
func Default() *Registry {
	return &Registry{
		Version:            BuiltinVersion,
		Languages:          defaultLanguages,
		TextLanguages:      defaultTextLanguages,
		Shebangs:           defaultShebangs,
		Frameworks:         defaultFrameworks,
		FrameworkImports:   buildFrameworkImports(defaultFrameworks),
		FrontendFrameworks: defaultFrontendFrameworks,
		PackagingManifests: defaultPackagingManifests,
		TechSignals:        defaultTechSignals,
		Components:         defaultComponents,
		ComponentFallback:  defaultComponentFallback,
		ArchitectureLabels: defaultArchitectureLabels,
		EntryFileNames:     defaultEntryFileNames,
		EntryContentRules:  defaultEntryContentRules,
		Endpoints:          defaultEndpoints,
		Imports:            defaultImports,
		Secrets:            defaultSecrets,
	}
}
