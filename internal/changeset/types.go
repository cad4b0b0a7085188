// Package changeset implements the change provider contract: given a git
// event and repository state, produce the ordered, de-duplicated set of
// repository-relative changed paths the rest of the pipeline operates on.
package changeset

import "fmt"

// NotARepositoryError reports that the invocation directory is not inside
// a git working tree.
type NotARepositoryError struct {
	Dir string
	Err error
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("%s: not a git repository: %v", e.Dir, e.Err)
}

func (e *NotARepositoryError) Unwrap() error { return e.Err }

// GitCommandFailedError reports a failed shelled-out git invocation.
type GitCommandFailedError struct {
	Err error
}

func (e *GitCommandFailedError) Error() string { return e.Err.Error() }
func (e *GitCommandFailedError) Unwrap() error { return e.Err }

// IoError reports a non-git filesystem failure (used by lint mode, which
// walks the filesystem directly rather than shelling out to git).
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// WorktreeInfo describes the current worktree relative to the repository.
type WorktreeInfo struct {
	IsWorktree bool
	Name       string
	CommonDir  string
}
