package security

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ignoreFile is the persisted shape of an ignore set.
type ignoreFile struct {
	Version      int      `json:"version"`
	Fingerprints []string `json:"fingerprints"`
}

// IgnoreStore persists the set of fingerprints a user chose to ignore.
// Rescans consult it so an ignored finding keeps its status instead of
// resurfacing as newly detected.
type IgnoreStore struct {
	mu           sync.Mutex
	path         string
	fingerprints map[string]bool
}

// IgnoreStorePath derives the on-disk location of the ignore set for one
// source tree. The key is the tree's absolute path hashed, so the set
// survives process restarts and fresh snapshot identities.
func IgnoreStorePath(resultsHome, root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(resultsHome, hex.EncodeToString(sum[:8])+".ignored.json")
}

// OpenIgnoreStore loads the ignore set at path, starting empty when the file
// does not exist yet.
func OpenIgnoreStore(path string) (*IgnoreStore, error) {
	store := &IgnoreStore{path: path, fingerprints: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, err
	}

	var file ignoreFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	for _, fp := range file.Fingerprints {
		store.fingerprints[fp] = true
	}
	return store, nil
}

// Has reports whether the fingerprint is ignored.
func (s *IgnoreStore) Has(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fingerprints[fingerprint]
}

// Add marks fingerprints as ignored in memory. Save persists them.
func (s *IgnoreStore) Add(fingerprints ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fp := range fingerprints {
		s.fingerprints[fp] = true
	}
}

// List returns the ignored fingerprints in sorted order.
func (s *IgnoreStore) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]string, 0, len(s.fingerprints))
	for fp := range s.fingerprints {
		list = append(list, fp)
	}
	sort.Strings(list)
	return list
}

// Save writes the ignore set back to disk.
func (s *IgnoreStore) Save() error {
	file := ignoreFile{Version: 1, Fingerprints: s.List()}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
