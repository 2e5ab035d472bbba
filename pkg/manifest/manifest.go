// Package manifest reads dependency manifests into raw requirement entries.
//
// A [Reader] turns one manifest format into a list of [Entry] values, each
// holding the text of one requirement declaration. Entries are not parsed;
// that is the job of the requirement package, so malformed lines surface as
// per-entry parse failures rather than as a failed read.
//
// Supported formats:
//
//   - requirements*.txt and any other text file: one entry per non-blank line
//   - poetry.lock: one synthesized "name==version" entry per locked package
//   - environment.yml / environment.yaml: the entries of the nested pip list
//
// All readers go through an [afero.Fs] so tests can use an in-memory
// filesystem.
package manifest

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/matzehuels/pycompat/pkg/errors"
)

// Entry is one raw requirement declaration from a manifest.
type Entry struct {
	Line int    // 1-based source line (or package position for lock files)
	Text string // Raw declaration, e.g. "requests==2.25.1"
}

// Reader reads one manifest format.
type Reader interface {
	// Read returns the entries of the manifest at path.
	Read(fsys afero.Fs, path string) ([]Entry, error)
	// Supports reports whether this reader handles the given base filename.
	Supports(filename string) bool
	// Type returns the manifest type identifier (e.g. "requirements.txt").
	Type() string
}

// Manifest is a read manifest.
type Manifest struct {
	Path    string
	Type    string
	Entries []Entry
}

// Readers returns the structured readers in detection order. The text
// reader is not included; [Detect] falls back to it.
func Readers() []Reader {
	return []Reader{&PoetryLock{}, &CondaEnv{}, &Requirements{}}
}

// Detect returns the first reader supporting the base name of path, falling
// back to a plain [Requirements] reader for unrecognised files.
func Detect(path string, readers ...Reader) Reader {
	name := filepath.Base(path)
	for _, r := range readers {
		if r.Supports(name) {
			return r
		}
	}
	return &Requirements{}
}

// Open detects the manifest type of path and reads it.
func Open(fsys afero.Fs, path string) (*Manifest, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	if !exists {
		return nil, errors.New(errors.ErrCodeFileNotFound, "following file path %q does not exist, please check again", path)
	}

	r := Detect(path, Readers()...)
	entries, err := r.Read(fsys, path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Type: r.Type(), Entries: entries}, nil
}
