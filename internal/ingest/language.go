package ingest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const sniffLen = 512

// classify infers a file's language. Extension lookup comes first; content
// sniffing (shebang line, null-byte probe) only runs when the extension is
// absent or unknown. An empty language means unknown.
func (ing *Ingestor) classify(path string) (language string, binary bool, err error) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".env") {
		return "dotenv", false, nil
	}

	ext := strings.ToLower(filepath.Ext(base))
	if lang, ok := ing.reg.Languages[ext]; ok {
		return lang, false, nil
	}

	head, err := readHead(path, sniffLen)
	if err != nil {
		return "", false, err
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return "", true, nil
	}
	if lang := ing.sniffShebang(head); lang != "" {
		return lang, false, nil
	}
	return "", false, nil
}

// sniffShebang resolves an interpreter from a leading #! line.
func (ing *Ingestor) sniffShebang(head []byte) string {
	if !bytes.HasPrefix(head, []byte("#!")) {
		return ""
	}
	line := head
	if idx := bytes.IndexByte(head, '\n'); idx >= 0 {
		line = head[:idx]
	}
	text := string(line)
	for _, rule := range ing.reg.Shebangs {
		if strings.Contains(text, rule.Interpreter) {
			return rule.Language
		}
	}
	return ""
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:read], nil
}

// countLines counts lines the way the rest of the engine does: newline count
// plus one, so a file without a trailing newline still counts its last line.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	return bytes.Count(data, []byte{'\n'}) + 1, nil
}
