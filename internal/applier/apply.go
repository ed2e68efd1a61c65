package applier

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rorym/ota-apply/internal/config"
	"github.com/rorym/ota-apply/internal/pack"
	"github.com/sirupsen/logrus"
)

// SuccessMessage is printed once all packs are written.
const SuccessMessage = "Configuration applied successfully."

// Options controls a single apply run.
type Options struct {
	ConfigPath string
	// OutDir is the pack directory; relative paths resolve against the
	// working directory. Empty means pack.DefaultDir.
	OutDir     string
	// SchemaPath, if set, names a JSON Schema the document must satisfy.
	SchemaPath string
}

// Apply loads the configuration document, derives the packs and writes them.
// Nothing is written unless the document parses (and validates, when a
// schema is given).
func Apply(opts Options) ([]pack.Pack, error) {
	data, err := config.Read(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	doc, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	if opts.SchemaPath != "" {
		if err := pack.ValidateDocument(opts.SchemaPath, data); err != nil {
			return nil, err
		}
		logrus.Debugf("configuration matches schema %s", opts.SchemaPath)
	}

	packs, err := pack.Build(doc)
	if err != nil {
		return nil, err
	}

	dir, err := outDir(opts.OutDir)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("apply: config=%s packs=%s", opts.ConfigPath, dir)

	if err := pack.Save(dir, packs); err != nil {
		return nil, err
	}
	return packs, nil
}

func outDir(dir string) (string, error) {
	if dir == "" {
		dir = pack.DefaultDir
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(cwd, dir), nil
}
