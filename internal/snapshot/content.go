package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 256

// Content is a consistent read of one file: the bytes and their hash taken
// at the same moment, so a later mutation is detectable by comparing hashes
// instead of being silently observed half-written.
type Content struct {
	Data []byte
	Hash string
}

// ContentReader serves snapshot file contents with an LRU cache in front of
// the filesystem. Readers that need consistency across a remediation pass
// compare the hash they captured against a fresh HashFile call.
type ContentReader struct {
	root  string
	cache *lru.Cache[string, Content]
}

// NewContentReader creates a reader rooted at the snapshot tree.
func NewContentReader(root string) (*ContentReader, error) {
	cache, err := lru.New[string, Content](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &ContentReader{root: root, cache: cache}, nil
}

// Read returns the content of the file at the snapshot-relative path.
func (r *ContentReader) Read(rel string) (Content, error) {
	if cached, ok := r.cache.Get(rel); ok {
		return cached, nil
	}
	data, err := os.ReadFile(r.abs(rel))
	if err != nil {
		return Content{}, err
	}
	content := Content{Data: data, Hash: hashBytes(data)}
	r.cache.Add(rel, content)
	return content, nil
}

// HashFile hashes the file's current bytes, bypassing the cache.
func (r *ContentReader) HashFile(rel string) (string, error) {
	data, err := os.ReadFile(r.abs(rel))
	if err != nil {
		return "", err
	}
	return hashBytes(data), nil
}

// Invalidate drops a path from the cache after its bytes were rewritten.
func (r *ContentReader) Invalidate(rel string) {
	r.cache.Remove(rel)
}

func (r *ContentReader) abs(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
