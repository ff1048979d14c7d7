package migration

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
)

var fileName = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// Entry describes one versioned migration
type Entry struct {
	Version uint
	Name    string
	HasDown bool
}

// List returns the migrations in src ordered by version. Every version must
// have an up file, and version numbers must be unique.
func List(src fs.FS) ([]Entry, error) {
	files, err := fs.Glob(src, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	byVersion := map[uint]*Entry{}
	ups := map[uint]bool{}
	for _, f := range files {
		match := fileName.FindStringSubmatch(f)
		if match == nil {
			return nil, fmt.Errorf("unexpected migration file name %q", f)
		}
		v, err := strconv.ParseUint(match[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad version in %q: %w", f, err)
		}
		version := uint(v)
		e, ok := byVersion[version]
		if !ok {
			e = &Entry{Version: version, Name: match[2]}
			byVersion[version] = e
		} else if e.Name != match[2] {
			return nil, fmt.Errorf("version %d used by %q and %q", version, e.Name, match[2])
		}
		if match[3] == "up" {
			ups[version] = true
		} else {
			e.HasDown = true
		}
	}

	out := make([]Entry, 0, len(byVersion))
	for v, e := range byVersion {
		if !ups[v] {
			return nil, fmt.Errorf("migration %d_%s has no up file", v, e.Name)
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
