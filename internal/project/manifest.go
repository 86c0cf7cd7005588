// Package project reads the dusk.toml project manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the project root is discovered by.
const ManifestName = "dusk.toml"

// Manifest describes a project's dusk.toml.
type Manifest struct {
	Package  PackageSection  `toml:"package"`
	Compiler CompilerSection `toml:"compiler"`

	// Dir is the directory the manifest was loaded from.
	Dir string `toml:"-"`
}

// PackageSection is the [package] table.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// CompilerSection is the [compiler] table.
type CompilerSection struct {
	// Stds overrides the standard prelude path.
	Stds string `toml:"stds"`
	// MaxDiagnostics holds the max-diagnostics value. No command reads
	// it, so it does not limit the rendered diagnostics.
	MaxDiagnostics int `toml:"max-diagnostics"`
}

// ErrPackageSectionMissing indicates that [package] is missing in a
// manifest.
var ErrPackageSectionMissing = errors.New("missing [package]")

// Load parses a dusk.toml file.
func Load(path string) (Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if strings.TrimSpace(m.Package.Name) == "" {
		return Manifest{}, fmt.Errorf("%s: [package].name is empty", path)
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Discover walks up from dir looking for a dusk.toml. Returns the
// loaded manifest and true when one was found.
func Discover(dir string) (Manifest, bool, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return Manifest{}, false, err
	}
	for {
		candidate := filepath.Join(current, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			m, err := Load(candidate)
			if err != nil {
				return Manifest{}, false, err
			}
			return m, true, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return Manifest{}, false, nil
		}
		current = parent
	}
}
