package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/repolens-dev/repolens/internal/registry"
	"github.com/repolens-dev/repolens/pkg/shared/errors"
)

// Action is a remediation verb applied to detected findings.
type Action string

const (
	ActionAutoRemove Action = "auto_remove"
	ActionMask       Action = "mask"
	ActionIgnore     Action = "ignore"
)

// removedPlaceholder replaces the matched credential text on auto_remove.
const removedPlaceholder = "REMOVED_SECRET"

// pemWindowLines bounds how far below a BEGIN marker the matching END marker
// of a private key block is searched when removing the whole block.
const pemWindowLines = 64

// ParseAction validates a remediation verb from user input.
func ParseAction(value string) (Action, error) {
	switch Action(value) {
	case ActionAutoRemove, ActionMask, ActionIgnore:
		return Action(value), nil
	}
	return "", fmt.Errorf("unknown remediation action %q, expected auto_remove, mask or ignore", value)
}

// Apply runs a fresh scan, applies the action to the selected detected
// findings, and returns the post-remediation scan result with the acted-on
// findings carrying their new status. Selectors are fingerprints or 1-based
// report positions; an empty list selects every detected finding. The whole
// pass holds the tree write lock, so no reader of this root observes a
// half-mutated tree.
func (s *Scanner) Apply(ctx context.Context, action Action, selectors []string) (*ScanResult, error) {
	s.tree.Lock()
	defer s.tree.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	targets := selectTargets(before.Findings, selectors, s.logger.Warn)
	if len(targets) == 0 {
		s.logger.Info("no detected findings matched the remediation selection",
			"snapshot", s.snap.ID, "action", action)
		return before, nil
	}

	if action == ActionIgnore {
		for _, f := range targets {
			s.ignores.Add(f.Fingerprint)
		}
		if err := s.ignores.Save(); err != nil {
			return nil, err
		}
		// Rescan so the ignored status comes from the store, not a patch.
		return s.scan(ctx)
	}

	resolved, err := s.mutate(action, targets)
	if err != nil {
		return nil, err
	}

	after, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	after.Findings = append(after.Findings, resolved...)
	sortFindings(after.Findings)
	after.recount()

	s.logger.Info("remediation applied",
		"snapshot", s.snap.ID, "action", action, "findings", len(resolved))
	return after, nil
}

// selectTargets filters the scan's detected findings down to the requested
// selectors. A selector is either a fingerprint or a 1-based position in the
// report ordering. Selectors that match nothing detected are no-ops:
// re-applying an action to an already remediated finding must not fail.
func selectTargets(findings []Finding, selectors []string, warn func(string, ...interface{})) []Finding {
	detected := make(map[string]Finding, len(findings))
	for _, f := range findings {
		if f.Status == StatusDetected {
			detected[f.Fingerprint] = f
		}
	}

	if len(selectors) == 0 {
		targets := make([]Finding, 0, len(detected))
		for _, f := range findings {
			if f.Status == StatusDetected {
				targets = append(targets, f)
			}
		}
		return targets
	}

	var targets []Finding
	chosen := make(map[string]bool, len(selectors))
	for _, sel := range selectors {
		f, ok := detected[sel]
		if !ok {
			if index, err := strconv.Atoi(sel); err == nil && index >= 1 && index <= len(findings) {
				f, ok = findings[index-1], findings[index-1].Status == StatusDetected
			}
		}
		if !ok {
			warn("selector does not name a detected finding, skipping", "selector", sel)
			continue
		}
		if chosen[f.Fingerprint] {
			continue
		}
		chosen[f.Fingerprint] = true
		targets = append(targets, f)
	}
	return targets
}

// mutate groups the targets by file and rewrites each file under its lock.
func (s *Scanner) mutate(action Action, targets []Finding) ([]Finding, error) {
	byFile := make(map[string][]Finding)
	for _, f := range targets {
		byFile[f.File] = append(byFile[f.File], f)
	}

	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var resolved []Finding
	for _, path := range paths {
		done, err := s.mutateFile(path, action, byFile[path])
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, done...)
	}
	return resolved, nil
}

// mutateFile applies the action to every target finding in one file. Edits
// run in descending line order so earlier line numbers stay valid while the
// tail of the file shifts.
func (s *Scanner) mutateFile(path string, action Action, findings []Finding) ([]Finding, error) {
	lock := s.fileLock(path)
	lock.Lock()
	defer lock.Unlock()

	abs := filepath.Join(s.snap.Root, filepath.FromSlash(path))
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.NewFileReadError(path, err)
	}
	if hash := hashContent(data); hash != s.hashes[path] {
		return nil, errors.NewMutationConflictError(path, "content changed since the scan")
	}

	lines := strings.Split(string(data), "\n")

	ordered := append([]Finding{}, findings...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Line > ordered[j].Line
	})

	resolved := make([]Finding, 0, len(ordered))
	for _, f := range ordered {
		idx := f.Line - 1
		if idx < 0 || idx >= len(lines) {
			return nil, errors.NewMutationConflictError(path, fmt.Sprintf("line %d is gone", f.Line))
		}
		pattern, ok := s.patternByID(f.PatternID)
		if !ok {
			return nil, errors.NewMutationConflictError(path, "pattern "+f.PatternID+" is not in the registry")
		}
		loc := pattern.Pattern.FindStringIndex(lines[idx])
		if loc == nil {
			return nil, errors.NewMutationConflictError(path, fmt.Sprintf("finding no longer present at line %d", f.Line))
		}

		switch action {
		case ActionMask:
			if f.Type == "private_key_block" {
				maskPEMBlock(lines, idx, loc)
			} else {
				lines[idx] = lines[idx][:loc[0]] + maskSecret(lines[idx][loc[0]:loc[1]]) + lines[idx][loc[1]:]
			}
			f.Status = StatusMasked
		case ActionAutoRemove:
			if f.Type == "private_key_block" {
				lines = removePEMBlock(lines, idx)
			} else {
				lines[idx] = lines[idx][:loc[0]] + removedPlaceholder + lines[idx][loc[1]:]
			}
			f.Status = StatusRemoved
		default:
			return nil, fmt.Errorf("action %q does not mutate files", action)
		}
		resolved = append(resolved, f)
	}

	rewritten := []byte(strings.Join(lines, "\n"))
	if err := os.WriteFile(abs, rewritten, fileMode(abs)); err != nil {
		return nil, err
	}
	s.reader.Invalidate(path)
	s.hashes[path] = hashContent(rewritten)

	return resolved, nil
}

// removePEMBlock drops the lines from the BEGIN marker through the matching
// END marker.
func removePEMBlock(lines []string, begin int) []string {
	return append(lines[:begin], lines[pemBlockEnd(lines, begin)+1:]...)
}

// maskPEMBlock masks the BEGIN marker match and every line of the key body
// through the END marker, preserving the line count.
func maskPEMBlock(lines []string, begin int, loc []int) {
	end := pemBlockEnd(lines, begin)
	lines[begin] = lines[begin][:loc[0]] + maskSecret(lines[begin][loc[0]:loc[1]]) + lines[begin][loc[1]:]
	for i := begin + 1; i <= end; i++ {
		lines[i] = maskSecret(lines[i])
	}
}

// pemBlockEnd finds the END marker inside the bounded window below begin.
// Without an END marker only the BEGIN line counts as the block, the rest of
// the file is left untouched.
func pemBlockEnd(lines []string, begin int) int {
	limit := begin + pemWindowLines
	if limit >= len(lines) {
		limit = len(lines) - 1
	}
	for i := begin; i <= limit; i++ {
		if registry.PEMEndPattern.MatchString(lines[i]) {
			return i
		}
	}
	return begin
}

func (s *Scanner) patternByID(id string) (registry.SecretPattern, bool) {
	for _, pattern := range s.reg.Secrets {
		if pattern.ID == id {
			return pattern, true
		}
	}
	return registry.SecretPattern{}, false
}

func (s *Scanner) fileLock(path string) *sync.Mutex {
	lock, _ := s.fileLocks.LoadOrStore(path, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func fileMode(abs string) fs.FileMode {
	if info, err := os.Stat(abs); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
