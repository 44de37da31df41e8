package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/skel-dev/skel/internal/manifest"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Permissions applied to created entries.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// Policy decides what happens to files that already exist.
type Policy string

const (
	// PolicyTruncate rewrites existing files with the manifest content.
	PolicyTruncate Policy = "truncate"
	// PolicySkip leaves existing files untouched.
	PolicySkip Policy = "skip"
)

// ParsePolicy converts a config or flag value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyTruncate, PolicySkip:
		return Policy(s), nil
	case "":
		return PolicyTruncate, nil
	default:
		return "", fmt.Errorf("unknown overwrite policy %q: must be %q or %q", s, PolicyTruncate, PolicySkip)
	}
}

// Result holds the outcome of a scaffold run. Paths are manifest-relative.
type Result struct {
	Root         string
	DirsCreated  []string
	DirsExisting []string
	FilesWritten []string
	FilesSkipped []string
	// FilesOverwritten lists written files that already existed and were truncated.
	FilesOverwritten []string
}

// Builder creates manifest entries under a root directory on an afero.Fs.
type Builder struct {
	fs       afero.Fs
	root     string
	policy   Policy
	progress io.Writer
	log      *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithPolicy sets the overwrite policy. The default is PolicyTruncate.
func WithPolicy(p Policy) Option {
	return func(b *Builder) { b.policy = p }
}

// WithProgress writes one "[ OK ]"/"[SKIP]" line per operation to w.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) { b.progress = w }
}

// WithLogger sets the logger used for per-operation debug records.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// New returns a Builder that creates entries under root on fsys.
func New(fsys afero.Fs, root string, opts ...Option) *Builder {
	b := &Builder{
		fs:       fsys,
		root:     root,
		policy:   PolicyTruncate,
		progress: io.Discard,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Root returns the directory entries are created under.
func (b *Builder) Root() string { return b.root }

// EnsureDirectory creates rel and every missing ancestor. It succeeds
// silently when rel already is a directory.
func (b *Builder) EnsureDirectory(rel string) error {
	p, err := manifest.NormalizePath(rel)
	if err != nil {
		return &FilesystemError{Op: "mkdir", Path: rel, Err: err}
	}
	return b.ensureDir(p, true, nil)
}

// CreateFile writes content to rel, creating its parent directories first.
// An existing file is truncated unless the policy is PolicySkip.
func (b *Builder) CreateFile(rel, content string) error {
	p, err := manifest.NormalizePath(rel)
	if err != nil {
		return &FilesystemError{Op: "write", Path: rel, Err: err}
	}
	return b.createFile(p, content, nil)
}

// Build creates every entry of m, group by group in build order: a group's
// directories first, then its files. The first failure stops the run and is
// returned together with the partial result; nothing is rolled back.
func (b *Builder) Build(m *manifest.Manifest) (*Result, error) {
	plan, err := m.Plan()
	if err != nil {
		return nil, fmt.Errorf("planning %s: %w", m.Name, err)
	}

	res := &Result{Root: b.root}
	b.log.Debug("starting build",
		zap.String("manifest", m.Name),
		zap.String("root", b.root),
		zap.String("policy", string(b.policy)),
		zap.Int("entries", len(plan)))

	for _, e := range plan {
		switch e.Kind {
		case manifest.KindDir:
			err = b.ensureDir(e.Path, true, res)
		case manifest.KindFile:
			err = b.createFile(e.Path, e.Content, res)
		}
		if err != nil {
			b.log.Debug("build aborted", zap.String("group", e.Group), zap.Error(err))
			return res, err
		}
	}
	return res, nil
}

// ensureDir creates rel unless it exists. Already-present directories are
// only reported when explicit is set, so implicit parent checks stay quiet.
func (b *Builder) ensureDir(rel string, explicit bool, res *Result) error {
	// Walk from the top so the first non-directory component is reported.
	chain := append(ancestors(rel), rel)
	for _, p := range chain {
		info, err := b.fs.Stat(b.abs(p))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				break
			}
			return &FilesystemError{Op: "stat", Path: p, Err: err}
		}
		if !info.IsDir() {
			return &FilesystemError{Op: "mkdir", Path: p, Err: ErrNotDirectory}
		}
		if p == rel {
			if explicit {
				b.log.Debug("directory exists", zap.String("op", "mkdir"), zap.String("path", rel))
				fmt.Fprintf(b.progress, "  [SKIP] %s already exists\n", rel)
				if res != nil {
					res.DirsExisting = append(res.DirsExisting, rel)
				}
			}
			return nil
		}
	}

	if err := b.fs.MkdirAll(b.abs(rel), DirPerm); err != nil {
		return &FilesystemError{Op: "mkdir", Path: rel, Err: err}
	}
	b.log.Debug("created directory", zap.String("op", "mkdir"), zap.String("path", rel))
	fmt.Fprintf(b.progress, "  [ OK ] Created %s/\n", rel)
	if res != nil {
		res.DirsCreated = append(res.DirsCreated, rel)
	}
	return nil
}

func (b *Builder) createFile(rel, content string, res *Result) error {
	dir := path.Dir(rel)
	if dir == "." {
		if err := b.ensureRoot(); err != nil {
			return err
		}
	} else if err := b.ensureDir(dir, false, res); err != nil {
		return err
	}

	abs := b.abs(rel)
	info, err := b.fs.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return &FilesystemError{Op: "write", Path: rel, Err: ErrIsDirectory}
	case err == nil && b.policy == PolicySkip:
		b.log.Debug("kept existing file", zap.String("op", "write"), zap.String("path", rel))
		fmt.Fprintf(b.progress, "  [SKIP] %s already exists\n", rel)
		if res != nil {
			res.FilesSkipped = append(res.FilesSkipped, rel)
		}
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return &FilesystemError{Op: "stat", Path: rel, Err: err}
	}

	existed := err == nil
	if err := afero.WriteFile(b.fs, abs, []byte(content), FilePerm); err != nil {
		return &FilesystemError{Op: "write", Path: rel, Err: err}
	}
	b.log.Debug("wrote file",
		zap.String("op", "write"),
		zap.String("path", rel),
		zap.Int("bytes", len(content)))
	fmt.Fprintf(b.progress, "  [ OK ] Wrote %s\n", rel)
	if res != nil {
		res.FilesWritten = append(res.FilesWritten, rel)
		if existed {
			res.FilesOverwritten = append(res.FilesOverwritten, rel)
		}
	}
	return nil
}

// ensureRoot creates the build root for files that live directly in it.
func (b *Builder) ensureRoot() error {
	info, err := b.fs.Stat(b.root)
	switch {
	case err == nil && !info.IsDir():
		return &FilesystemError{Op: "mkdir", Path: ".", Err: ErrNotDirectory}
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return &FilesystemError{Op: "stat", Path: ".", Err: err}
	}
	if err := b.fs.MkdirAll(b.root, DirPerm); err != nil {
		return &FilesystemError{Op: "mkdir", Path: ".", Err: err}
	}
	return nil
}

// abs maps a manifest-relative path onto the host filesystem under root.
func (b *Builder) abs(rel string) string {
	return filepath.Join(b.root, filepath.FromSlash(rel))
}

// ancestors returns the parent directories of rel, outermost first.
func ancestors(rel string) []string {
	var out []string
	for d := path.Dir(rel); d != "." && d != "/"; d = path.Dir(d) {
		out = append([]string{d}, out...)
	}
	return out
}
