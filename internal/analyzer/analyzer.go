package analyzer

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/repolens-dev/repolens/internal/ingest"
	"github.com/repolens-dev/repolens/internal/registry"
	"github.com/repolens-dev/repolens/internal/snapshot"
	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/errors"
)

// Analyzer runs the full architectural analysis pipeline over a snapshot.
type Analyzer struct {
	cfg    config.Engine
	reg    *registry.Registry
	logger hclog.Logger
	runs   *snapshot.RunGroup
}

// New creates an Analyzer bound to one registry. The registry is shared
// read-only; the analyzer never mutates it.
func New(cfg config.Engine, reg *registry.Registry, logger hclog.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		reg:    reg,
		logger: logger,
		runs:   snapshot.NewRunGroup(),
	}
}

// fileScan is the per-file output of one worker. Workers only read; all
// merging happens on the collector side.
type fileScan struct {
	index        int
	path         string
	skipped      bool
	diagnostic   *ingest.Diagnostic
	frameworks   []string
	techs        []string
	endpoints    []Endpoint
	entryReasons []string
	imports      []string
}

// Run executes the analysis pipeline for the snapshot. Concurrent calls for
// the same snapshot id join the in-flight run instead of racing it.
func (a *Analyzer) Run(ctx context.Context, snap *snapshot.Snapshot) (*AnalysisResult, error) {
	value, joined, err := a.runs.Do(snap.ID, func() (interface{}, error) {
		return a.run(ctx, snap)
	})
	if joined {
		a.logger.Debug("joined in-flight analysis run", "snapshot", snap.ID)
	}
	if err != nil {
		return nil, err
	}
	return value.(*AnalysisResult), nil
}

func (a *Analyzer) run(ctx context.Context, snap *snapshot.Snapshot) (*AnalysisResult, error) {
	if a.cfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.ScanTimeout)
		defer cancel()
	}

	// Hold off in-place remediation for the whole read pass.
	tree := snapshot.TreeLock(snap.Root)
	tree.RLock()
	defer tree.RUnlock()

	catalogue, err := ingest.NewIngestor(a.cfg, a.reg, a.logger).Ingest(ctx, snap.Root)
	if err != nil {
		return nil, err
	}

	reader, err := snapshot.NewContentReader(snap.Root)
	if err != nil {
		return nil, err
	}

	textFiles := catalogue.TextFiles()
	scans := a.scanFiles(ctx, reader, textFiles)

	result := a.merge(snap, reader, catalogue, textFiles, scans)

	if result.Incomplete {
		a.logger.Warn("analysis run hit the deadline",
			"snapshot", snap.ID, "unscanned", len(result.UnscannedFiles))
	} else {
		a.logger.Info("analysis run completed",
			"snapshot", snap.ID,
			"frameworks", len(result.Frameworks),
			"endpoints", len(result.APIEndpoints),
			"architecture", result.Architecture)
	}
	return result, nil
}

// scanFiles fans the text files out to a bounded worker pool and drains the
// per-file results through a single collector goroutine. The collected slice
// is indexed by catalogue position so merging stays deterministic.
func (a *Analyzer) scanFiles(ctx context.Context, reader *snapshot.ContentReader, files []ingest.SourceFile) []fileScan {
	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	resultsChannel := make(chan fileScan, len(files))
	collected := make([]fileScan, len(files))
	var collector sync.WaitGroup
	collector.Add(1)
	go func() {
		defer collector.Done()
		for scan := range resultsChannel {
			collected[scan.index] = scan
		}
	}()

	guard := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range files {
		guard <- struct{}{}
		wg.Add(1)
		go func(i int, file ingest.SourceFile) {
			defer wg.Done()
			defer func() { <-guard }()

			if ctx.Err() != nil {
				resultsChannel <- fileScan{index: i, path: file.Path, skipped: true}
				return
			}
			scan := a.scanFile(reader, file)
			scan.index = i
			resultsChannel <- scan
		}(i, files[i])
	}
	wg.Wait()
	close(resultsChannel)
	collector.Wait()

	return collected
}

// scanFile runs every content-based detector over one file.
func (a *Analyzer) scanFile(reader *snapshot.ContentReader, file ingest.SourceFile) fileScan {
	scan := fileScan{path: file.Path}

	content, err := reader.Read(file.Path)
	if err != nil {
		scan.diagnostic = &ingest.Diagnostic{
			File:    file.Path,
			Stage:   "analyze",
			Message: errors.NewFileReadError(file.Path, err).Error(),
		}
		return scan
	}
	text := string(content.Data)

	scan.frameworks = a.detectImportFrameworks(file, text)
	scan.techs = a.detectTechKeywords(text)
	scan.endpoints = a.extractEndpoints(file, text)
	scan.entryReasons = a.detectEntryReasons(file, text)
	scan.imports = a.extractImports(file, text)
	return scan
}

// merge folds catalogue data and per-file scans into the final result, in
// catalogue order, so output ordering never depends on worker scheduling.
func (a *Analyzer) merge(snap *snapshot.Snapshot, reader *snapshot.ContentReader, catalogue *ingest.Result, textFiles []ingest.SourceFile, scans []fileScan) *AnalysisResult {
	result := &AnalysisResult{
		SnapshotID:      snap.ID,
		RegistryVersion: a.reg.Version,
		TotalFiles:      catalogue.TotalFiles,
		TotalLines:      catalogue.TotalLines,
		Languages:       make(map[string]int),
		Components:      make(map[string][]string),
		DependencyGraph: make(map[string]DependencyEdges),
		Diagnostics:     append([]ingest.Diagnostic{}, catalogue.Diagnostics...),
		Incomplete:      catalogue.Incomplete,
		Frameworks:      []string{},
		TechStack:       []string{},
		EntryPoints:     []EntryPoint{},
		APIEndpoints:    []Endpoint{},
	}

	for _, f := range catalogue.Files {
		if f.Text {
			result.Languages[f.Language] += f.Lines
		}
		category := a.bucketComponent(f.Path)
		result.Components[category] = append(result.Components[category], f.Path)
	}

	// Manifest-declared frameworks come first: the primary stack signal.
	frameworkSeen := make(map[string]bool)
	manifestFrameworks, manifestTechs := a.detectManifestSignals(reader, catalogue)
	for _, name := range manifestFrameworks {
		if !frameworkSeen[name] {
			frameworkSeen[name] = true
			result.Frameworks = append(result.Frameworks, name)
		}
	}

	techSeen := make(map[string]bool)
	for _, name := range manifestTechs {
		techSeen[name] = true
	}

	entrySeen := make(map[string]bool)
	pathSet := catalogue.PathSet()

	for i, file := range textFiles {
		scan := scans[i]
		if scan.skipped {
			result.Incomplete = true
			result.UnscannedFiles = append(result.UnscannedFiles, file.Path)
			continue
		}
		if scan.diagnostic != nil {
			result.Diagnostics = append(result.Diagnostics, *scan.diagnostic)
			continue
		}

		for _, name := range scan.frameworks {
			if !frameworkSeen[name] {
				frameworkSeen[name] = true
				result.Frameworks = append(result.Frameworks, name)
			}
		}
		for _, name := range scan.techs {
			techSeen[name] = true
		}

		if len(scan.entryReasons) > 0 && !entrySeen[file.Path] {
			entrySeen[file.Path] = true
			result.EntryPoints = append(result.EntryPoints, EntryPoint{File: file.Path, Reason: scan.entryReasons[0]})
		}

		result.APIEndpoints = append(result.APIEndpoints, scan.endpoints...)

		if len(scan.imports) > 0 {
			result.DependencyGraph[file.Path] = a.resolveImports(file.Path, scan.imports, pathSet)
		}
	}

	// Filename-based entry points for files the content rules never claimed.
	for _, f := range catalogue.Files {
		if entrySeen[f.Path] {
			continue
		}
		if reason, ok := a.entryFileName(f.Path); ok {
			entrySeen[f.Path] = true
			result.EntryPoints = append(result.EntryPoints, EntryPoint{File: f.Path, Reason: reason})
		}
	}
	sort.Slice(result.EntryPoints, func(i, j int) bool {
		return result.EntryPoints[i].File < result.EntryPoints[j].File
	})

	for name := range techSeen {
		result.TechStack = append(result.TechStack, name)
	}
	sort.Strings(result.TechStack)

	result.APIEndpoints = dedupeEndpoints(result.APIEndpoints)
	result.Architecture = a.classifyArchitecture(result, catalogue)

	if len(result.UnscannedFiles) > 0 {
		result.Diagnostics = append(result.Diagnostics, ingest.Diagnostic{
			Stage:   "analyze",
			Message: errors.NewTimeoutExceededError("analysis", len(result.UnscannedFiles)).Error(),
		})
	}

	return result
}

// detectManifestSignals scans dependency manifests for framework keywords and
// the catalogue for file-presence tech signals, in catalogue order.
func (a *Analyzer) detectManifestSignals(reader *snapshot.ContentReader, catalogue *ingest.Result) ([]string, []string) {
	var frameworks []string
	var techs []string

	for _, f := range catalogue.Files {
		if f.Binary {
			continue
		}
		base := baseName(f.Path)
		for _, rule := range a.reg.Frameworks {
			if !containsString(rule.ManifestFiles, base) {
				continue
			}
			content, err := reader.Read(f.Path)
			if err != nil {
				continue
			}
			lower := strings.ToLower(string(content.Data))
			for _, kw := range rule.Keywords {
				if strings.Contains(lower, kw.Keyword) {
					frameworks = append(frameworks, kw.Framework)
				}
			}
		}
		for _, signal := range a.reg.TechSignals {
			for _, sigFile := range signal.Files {
				if f.Path == sigFile || base == sigFile {
					techs = append(techs, signal.Name)
				}
			}
		}
	}
	return frameworks, techs
}
