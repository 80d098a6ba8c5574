package security

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

// snippetMaxLen bounds the reported line context around a masked match.
const snippetMaxLen = 160

// Scanner detects credential-like content in a snapshot and applies
// remediation actions to it. One Scanner owns one snapshot; the snapshot
// level mutex serializes scans against remediation passes, and the shared
// tree lock serializes this scanner's mutations against every other reader
// of the same root.
type Scanner struct {
	cfg     config.Engine
	reg     *registry.Registry
	logger  hclog.Logger
	snap    *snapshot.Snapshot
	reader  *snapshot.ContentReader
	ignores *IgnoreStore
	runs    *snapshot.RunGroup
	tree    *sync.RWMutex

	mu        sync.Mutex
	fileLocks sync.Map
	hashes    map[string]string
}

// NewScanner creates a Scanner for the snapshot. The ignore set at
// ignorePath is loaded up front so its fingerprints apply to the first scan.
func NewScanner(cfg config.Engine, reg *registry.Registry, logger hclog.Logger, snap *snapshot.Snapshot, ignorePath string) (*Scanner, error) {
	reader, err := snapshot.NewContentReader(snap.Root)
	if err != nil {
		return nil, err
	}
	ignores, err := OpenIgnoreStore(ignorePath)
	if err != nil {
		return nil, err
	}
	return &Scanner{
		cfg:     cfg,
		reg:     reg,
		logger:  logger,
		snap:    snap,
		reader:  reader,
		ignores: ignores,
		runs:    snapshot.NewRunGroup(),
		tree:    snapshot.TreeLock(snap.Root),
	}, nil
}

// Ignores exposes the scanner's persisted ignore set.
func (s *Scanner) Ignores() *IgnoreStore {
	return s.ignores
}

// fileFindings is the per-file output of one worker.
type fileFindings struct {
	index      int
	path       string
	skipped    bool
	diagnostic *ingest.Diagnostic
	hash       string
	findings   []Finding
}

// Scan runs a full detection pass over the snapshot. Concurrent calls for
// the same snapshot join the in-flight run. Scanning never mutates files.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	value, joined, err := s.runs.Do(s.snap.ID, func() (interface{}, error) {
		s.tree.RLock()
		defer s.tree.RUnlock()
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.scan(ctx)
	})
	if joined {
		s.logger.Debug("joined in-flight security scan", "snapshot", s.snap.ID)
	}
	if err != nil {
		return nil, err
	}
	return value.(*ScanResult), nil
}

// scan is the locked scan body. The caller holds s.mu.
func (s *Scanner) scan(ctx context.Context) (*ScanResult, error) {
	if s.cfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ScanTimeout)
		defer cancel()
	}

	catalogue, err := ingest.NewIngestor(s.cfg, s.reg, s.logger).Ingest(ctx, s.snap.Root)
	if err != nil {
		return nil, err
	}

	textFiles := catalogue.TextFiles()
	scanned := s.scanFiles(ctx, textFiles)

	result := &ScanResult{
		SnapshotID:      s.snap.ID,
		RegistryVersion: s.reg.Version,
		Findings:        []Finding{},
		Diagnostics:     append([]ingest.Diagnostic{}, catalogue.Diagnostics...),
		Incomplete:      catalogue.Incomplete,
	}

	s.hashes = make(map[string]string, len(textFiles))
	for i, file := range textFiles {
		fs := scanned[i]
		if fs.skipped {
			result.Incomplete = true
			result.UnscannedFiles = append(result.UnscannedFiles, file.Path)
			continue
		}
		if fs.diagnostic != nil {
			result.Diagnostics = append(result.Diagnostics, *fs.diagnostic)
			continue
		}
		s.hashes[file.Path] = fs.hash
		result.Findings = append(result.Findings, fs.findings...)
	}

	sortFindings(result.Findings)
	result.recount()

	if len(result.UnscannedFiles) > 0 {
		result.Diagnostics = append(result.Diagnostics, ingest.Diagnostic{
			Stage:   "scan",
			Message: errors.NewTimeoutExceededError("security scan", len(result.UnscannedFiles)).Error(),
		})
	}

	if result.Incomplete {
		s.logger.Warn("security scan hit the deadline",
			"snapshot", s.snap.ID, "unscanned", len(result.UnscannedFiles))
	} else {
		s.logger.Info("security scan completed",
			"snapshot", s.snap.ID, "findings", result.Total)
	}
	return result, nil
}

// scanFiles fans text files out to a bounded worker pool; a single collector
// goroutine fills the result slice by catalogue position.
func (s *Scanner) scanFiles(ctx context.Context, files []ingest.SourceFile) []fileFindings {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	resultsChannel := make(chan fileFindings, len(files))
	collected := make([]fileFindings, len(files))
	var collector sync.WaitGroup
	collector.Add(1)
	go func() {
		defer collector.Done()
		for fs := range resultsChannel {
			collected[fs.index] = fs
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
				resultsChannel <- fileFindings{index: i, path: file.Path, skipped: true}
				return
			}
			fs := s.scanFile(file)
			fs.index = i
			resultsChannel <- fs
		}(i, files[i])
	}
	wg.Wait()
	close(resultsChannel)
	collector.Wait()

	return collected
}

// scanFile matches every line of one file against the ordered pattern table.
// The first pattern matching a line claims it; a line yields at most one
// finding. Comment lines are scanned too, a pasted key in a comment is still
// a leaked key.
func (s *Scanner) scanFile(file ingest.SourceFile) fileFindings {
	fs := fileFindings{path: file.Path}

	content, err := s.reader.Read(file.Path)
	if err != nil {
		fs.diagnostic = &ingest.Diagnostic{
			File:    file.Path,
			Stage:   "scan",
			Message: errors.NewFileReadError(file.Path, err).Error(),
		}
		return fs
	}
	fs.hash = content.Hash

	lines := strings.Split(string(content.Data), "\n")
	for n, line := range lines {
		finding, ok := s.matchLine(file.Path, n+1, line)
		if !ok {
			continue
		}
		if s.ignores.Has(finding.Fingerprint) {
			finding.Status = StatusIgnored
		}
		fs.findings = append(fs.findings, finding)
	}
	return fs
}

// matchLine tries the secret patterns in registry order against one line.
func (s *Scanner) matchLine(path string, line int, text string) (Finding, bool) {
	for _, pattern := range s.reg.Secrets {
		loc := pattern.Pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		match := text[loc[0]:loc[1]]
		return Finding{
			Type:        pattern.Type,
			PatternID:   pattern.ID,
			File:        path,
			Line:        line,
			Severity:    pattern.Severity,
			Status:      StatusDetected,
			Snippet:     buildSnippet(text, loc, match),
			Fingerprint: Fingerprint(path, line, pattern.ID, match),
		}, true
	}
	return Finding{}, false
}

// buildSnippet renders the matched line with the credential blanked out.
func buildSnippet(line string, loc []int, match string) string {
	snippet := strings.TrimSpace(line[:loc[0]] + maskSecret(match) + line[loc[1]:])
	if len(snippet) > snippetMaxLen {
		snippet = snippet[:snippetMaxLen]
	}
	return snippet
}

// sortFindings establishes report order: severity first, then file and line.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if r1, r2 := severityRank(findings[i].Severity), severityRank(findings[j].Severity); r1 != r2 {
			return r1 < r2
		}
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		return findings[i].Line < findings[j].Line
	})
}
