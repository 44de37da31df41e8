package scaffold

import (
	"errors"
	"fmt"
)

// Path-type conflicts reported inside a FilesystemError.
var (
	ErrNotDirectory = errors.New("exists but is not a directory")
	ErrIsDirectory  = errors.New("exists but is a directory")
)

// FilesystemError is the single failure kind of a scaffold run. It covers
// permission denial, path-type conflicts, full disks, and invalid paths.
type FilesystemError struct {
	Op   string // "stat", "mkdir", "write"
	Path string // path relative to the build root
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// IsFilesystemError reports whether err wraps a *FilesystemError.
func IsFilesystemError(err error) bool {
	var fe *FilesystemError
	return errors.As(err, &fe)
}
