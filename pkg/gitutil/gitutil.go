// Package gitutil shells out to the git binary for the operations the
// change provider needs: locating the repository root, listing staged and
// unstaged paths, diffing between two refs, and resolving commit-ish values.
// It intentionally does not link a git implementation in process; every
// example repo in this codebase's lineage drives git the same way, via
// exec.Command against the user's installed git.
package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hooktree/hooktree/pkg/logger"
)

var gitLog = logger.New("gitutil")

// NotARepositoryError is returned when a directory is not inside a git
// working tree (or the git binary itself cannot be found).
type NotARepositoryError struct {
	Dir string
	Err error
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("%s: not a git repository: %v", e.Dir, e.Err)
}

func (e *NotARepositoryError) Unwrap() error { return e.Err }

// CommandError wraps a failed git invocation with its arguments and captured
// stderr, so callers and diagnostics can show exactly what was run.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.Args, " "), e.Err, stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Repo is a git working tree rooted at Root, used as the working directory
// for every subsequent command issued against it.
type Repo struct {
	Root string
}

// DiscoverRepo walks up from dir looking for a git working tree, the same
// way git itself resolves the repository for the current directory.
func DiscoverRepo(ctx context.Context, dir string) (*Repo, error) {
	out, err := run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, &NotARepositoryError{Dir: dir, Err: err}
	}
	root := strings.TrimSpace(out)
	gitLog.Printf("discovered repository root: %s", root)
	return &Repo{Root: root}, nil
}

// CurrentRef returns the short name of the currently checked out branch, or
// "" in a detached-HEAD state.
func (r *Repo) CurrentRef(ctx context.Context) (string, error) {
	out, err := run(ctx, r.Root, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ResolveCommit resolves a ref-ish (branch, tag, SHA, HEAD~1, ...) to its
// full commit SHA.
func (r *Repo) ResolveCommit(ctx context.Context, ref string) (string, error) {
	out, err := run(ctx, r.Root, "rev-parse", "--verify", ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CommonDir returns the shared git directory across worktrees (the main
// .git directory, even when called from a linked worktree).
func (r *Repo) CommonDir(ctx context.Context) (string, error) {
	out, err := run(ctx, r.Root, "rev-parse", "--git-common-dir")
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(out)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.Root, dir)
	}
	return dir, nil
}

// GitDir returns the per-worktree git directory, which differs from
// CommonDir only when the repo is a linked worktree.
func (r *Repo) GitDir(ctx context.Context) (string, error) {
	out, err := run(ctx, r.Root, "rev-parse", "--git-dir")
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(out)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.Root, dir)
	}
	return dir, nil
}

// WorktreeName returns the linked worktree's directory name, or "" if the
// repository is the main worktree (GitDir == CommonDir).
func (r *Repo) WorktreeName(ctx context.Context) (string, error) {
	gitDir, err := r.GitDir(ctx)
	if err != nil {
		return "", err
	}
	commonDir, err := r.CommonDir(ctx)
	if err != nil {
		return "", err
	}
	if gitDir == commonDir {
		return "", nil
	}
	// Linked worktree git dirs live at <common-dir>/worktrees/<name>.
	return filepath.Base(gitDir), nil
}

// StagedFiles lists paths with staged changes (the git index versus HEAD),
// the change set a pre-commit hook should see.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	return r.nameOnlyLines(ctx, "diff", "--cached", "--name-only", "--diff-filter=ACMR")
}

// UnstagedFiles lists tracked paths with modifications not yet staged.
func (r *Repo) UnstagedFiles(ctx context.Context) ([]string, error) {
	return r.nameOnlyLines(ctx, "diff", "--name-only", "--diff-filter=ACMR")
}

// UntrackedFiles lists paths git does not yet track, excluding anything
// matched by .gitignore.
func (r *Repo) UntrackedFiles(ctx context.Context) ([]string, error) {
	return r.nameOnlyLines(ctx, "ls-files", "--others", "--exclude-standard")
}

// WorkingTreeChanges returns the union of staged, unstaged, and untracked
// paths, deduplicated, in staged/unstaged/untracked order (each group
// in git's output order). This is the change set fed to
// working-tree-mode hooks such as pre-commit.
func (r *Repo) WorkingTreeChanges(ctx context.Context) ([]string, error) {
	staged, err := r.StagedFiles(ctx)
	if err != nil {
		return nil, err
	}
	unstaged, err := r.UnstagedFiles(ctx)
	if err != nil {
		return nil, err
	}
	untracked, err := r.UntrackedFiles(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(staged)+len(unstaged)+len(untracked))
	var out []string
	for _, group := range [][]string{staged, unstaged, untracked} {
		for _, f := range group {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// RangeChanges returns the paths that differ between two commit-ish values,
// the change set a pre-push hook sees between the local and remote tip.
func (r *Repo) RangeChanges(ctx context.Context, from, to string) ([]string, error) {
	return r.nameOnlyLines(ctx, "diff", "--name-only", "--diff-filter=ACMR", from+".."+to)
}

// TrackedFiles lists every path git tracks in the working tree, the
// candidate set for lint-mode invocations.
func (r *Repo) TrackedFiles(ctx context.Context) ([]string, error) {
	return r.nameOnlyLines(ctx, "ls-files")
}

func (r *Repo) nameOnlyLines(ctx context.Context, args ...string) ([]string, error) {
	out, err := run(ctx, r.Root, args...)
	if err != nil {
		return nil, err
	}
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil, nil
	}
	lines := strings.Split(out, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, filepath.ToSlash(line))
		}
	}
	return result, nil
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	gitLog.Printf("git %s (dir=%s)", strings.Join(args, " "), dir)
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}
