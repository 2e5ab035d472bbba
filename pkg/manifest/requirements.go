package manifest

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/matzehuels/pycompat/pkg/errors"
)

// Requirements reads pip requirements files line by line.
//
// Only blank lines are dropped. Comments, options and editable installs are
// passed through unchanged. Lines have no length limit.
type Requirements struct{}

func (r *Requirements) Type() string { return "requirements.txt" }

func (r *Requirements) Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

func (r *Requirements) Read(fsys afero.Fs, path string) ([]Entry, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	var entries []Entry
	br := bufio.NewReader(f)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
		}
		text := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if strings.TrimSpace(text) != "" {
			entries = append(entries, Entry{Line: n, Text: text})
		}
		if err == io.EOF {
			break
		}
	}
	return entries, nil
}
