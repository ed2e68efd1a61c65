package pack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// DefaultDir is the pack directory relative to the working directory.
var DefaultDir = filepath.Join("assets", "ota_packs")

// Indent pretty-prints a pack document with two-space indentation.
func Indent(data json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes every pack into dir, creating it first. Existing files are
// overwritten.
func Save(dir string, packs []Pack) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir pack dir: %w", err)
	}
	for _, p := range packs {
		data, err := Indent(p.Data)
		if err != nil {
			return fmt.Errorf("format %s pack: %w", p.Name, err)
		}
		path := filepath.Join(dir, p.Name.FileName())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s pack: %w", p.Name, err)
		}
		logrus.Debugf("wrote %s (%d bytes)", path, len(data))
	}
	return nil
}
