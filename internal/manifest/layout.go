package manifest

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Path errors returned by NormalizePath.
var (
	ErrEmptyPath    = errors.New("empty path")
	ErrAbsolutePath = errors.New("path must be relative to the project root")
	ErrEscapesRoot  = errors.New("path escapes the project root")
)

// Structural errors returned by Check and CheckVersion.
var (
	ErrDuplicateGroup    = errors.New("duplicate group")
	ErrDuplicateFile     = errors.New("duplicate file")
	ErrKindConflict      = errors.New("path declared as both directory and file")
	ErrFileAncestor      = errors.New("file used as a directory")
	ErrInvalidVersion    = errors.New("invalid version")
	ErrUnsupportedSchema = errors.New("unsupported schema_version")
)

// NormalizePath converts p to the portable form used in manifests:
// forward slashes, no redundant elements, relative to the project root.
func NormalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrEmptyPath
	}
	p = strings.ReplaceAll(p, `\`, "/")
	if path.IsAbs(p) || hasVolume(p) {
		return "", fmt.Errorf("%w: %q", ErrAbsolutePath, p)
	}

	clean := path.Clean(p)
	if clean == "." {
		return "", fmt.Errorf("%w: %q", ErrEmptyPath, p)
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrEscapesRoot, p)
	}
	return clean, nil
}

// hasVolume reports a Windows drive prefix such as "C:".
func hasVolume(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Normalize rewrites every path in place to its normalized form.
func (m *Manifest) Normalize() error {
	for gi := range m.Groups {
		g := &m.Groups[gi]
		g.Name = strings.TrimSpace(g.Name)
		for i, d := range g.Dirs {
			n, err := NormalizePath(d)
			if err != nil {
				return fmt.Errorf("group %q: dir: %w", g.Name, err)
			}
			g.Dirs[i] = n
		}
		for i, f := range g.Files {
			n, err := NormalizePath(f.Path)
			if err != nil {
				return fmt.Errorf("group %q: file: %w", g.Name, err)
			}
			g.Files[i].Path = n
		}
	}
	return nil
}

// CheckVersion validates version and schema_version with semver.
func (m *Manifest) CheckVersion() error {
	if m.Version != "" {
		if _, err := semver.NewVersion(m.Version); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidVersion, m.Version, err)
		}
	}

	v, err := semver.NewVersion(m.SchemaVersion)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrUnsupportedSchema, m.SchemaVersion, err)
	}
	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedSchema, m.SchemaVersion, SupportedSchema)
	}
	return nil
}

// Check verifies that the normalized manifest describes a buildable tree.
// All problems are reported together.
func (m *Manifest) Check() error {
	var errs []error

	groups := make(map[string]bool, len(m.Groups))
	dirs := make(map[string]bool)
	files := make(map[string]string)

	for _, g := range m.Groups {
		if groups[g.Name] {
			errs = append(errs, fmt.Errorf("%w %q", ErrDuplicateGroup, g.Name))
		}
		groups[g.Name] = true

		for _, d := range g.Dirs {
			dirs[d] = true
		}
		for _, f := range g.Files {
			if prev, ok := files[f.Path]; ok {
				errs = append(errs, fmt.Errorf("%w %q (groups %q and %q)", ErrDuplicateFile, f.Path, prev, g.Name))
				continue
			}
			files[f.Path] = g.Name
		}
	}

	for _, p := range sortedKeys(files) {
		if dirs[p] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrKindConflict, p))
		}
	}

	// No file may appear as an ancestor of any other path.
	var all []string
	all = append(all, sortedKeys(dirs)...)
	all = append(all, sortedKeys(files)...)
	for _, p := range all {
		for _, a := range ancestors(p) {
			if _, ok := files[a]; ok {
				errs = append(errs, fmt.Errorf("%w: %q is a file but %q lives under it", ErrFileAncestor, a, p))
				break
			}
		}
	}

	return errors.Join(errs...)
}

// Ordered returns the groups in build order: canonical groups first in
// GroupOrder, then any other groups in declaration order.
func (m *Manifest) Ordered() []Group {
	out := make([]Group, 0, len(m.Groups))
	for _, name := range GroupOrder {
		for _, g := range m.Groups {
			if g.Name == name {
				out = append(out, g)
			}
		}
	}
	for _, g := range m.Groups {
		if !slices.Contains(GroupOrder, g.Name) {
			out = append(out, g)
		}
	}
	return out
}

// Plan normalizes and checks a copy of the manifest and flattens it into
// build steps: per group, every directory and then every file.
func (m *Manifest) Plan() ([]Entry, error) {
	c := m.clone()
	if err := c.Normalize(); err != nil {
		return nil, err
	}
	if err := c.Check(); err != nil {
		return nil, err
	}

	var plan []Entry
	for _, g := range c.Ordered() {
		for _, d := range g.Dirs {
			plan = append(plan, Entry{Group: g.Name, Kind: KindDir, Path: d})
		}
		for _, f := range g.Files {
			plan = append(plan, Entry{Group: g.Name, Kind: KindFile, Path: f.Path, Content: f.Content})
		}
	}
	return plan, nil
}

// Counts returns the number of directory and file entries.
func (m *Manifest) Counts() (dirs, files int) {
	for _, g := range m.Groups {
		dirs += len(g.Dirs)
		files += len(g.Files)
	}
	return dirs, files
}

func (m *Manifest) clone() *Manifest {
	c := *m
	c.Groups = make([]Group, len(m.Groups))
	for i, g := range m.Groups {
		c.Groups[i] = Group{
			Name:  g.Name,
			Dirs:  slices.Clone(g.Dirs),
			Files: slices.Clone(g.Files),
		}
	}
	return &c
}

// ancestors returns the parent directories of p, nearest first.
func ancestors(p string) []string {
	var out []string
	for d := path.Dir(p); d != "." && d != "/"; d = path.Dir(d) {
		out = append(out, d)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
