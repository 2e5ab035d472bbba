package manifest

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/matzehuels/pycompat/pkg/errors"
)

// PoetryLock reads poetry.lock files. Every locked package, direct or
// transitive, becomes a "name==version" entry.
type PoetryLock struct{}

func (p *PoetryLock) Type() string              { return "poetry.lock" }
func (p *PoetryLock) Supports(name string) bool { return name == "poetry.lock" }

func (p *PoetryLock) Read(fsys afero.Fs, path string) ([]Entry, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", path)
	}

	entries := make([]Entry, 0, len(lock.Packages))
	for i, pkg := range lock.Packages {
		if pkg.Name == "" {
			continue
		}
		entries = append(entries, Entry{Line: i + 1, Text: pkg.Name + "==" + pkg.Version})
	}
	return entries, nil
}

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}
