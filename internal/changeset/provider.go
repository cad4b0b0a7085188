package changeset

import (
	"context"

	"github.com/hooktree/hooktree/pkg/gitutil"
	"github.com/hooktree/hooktree/pkg/logger"
)

var changesetLog = logger.New("changeset:git")

// Provider produces change sets for a single repository across the three
// modes the specification requires: working-tree, range, and lint.
type Provider struct {
	repo *gitutil.Repo
}

// New discovers the git repository containing dir and returns a Provider
// for it.
func New(ctx context.Context, dir string) (*Provider, error) {
	repo, err := gitutil.DiscoverRepo(ctx, dir)
	if err != nil {
		return nil, &NotARepositoryError{Dir: dir, Err: err}
	}
	return &Provider{repo: repo}, nil
}

// Root returns the canonical repository root.
func (p *Provider) Root() string { return p.repo.Root }

// WorkingTree returns staged, unstaged, and untracked paths (deletions
// excluded, since they cannot be globbed or argv-passed), de-duplicated
// and in a stable order.
func (p *Provider) WorkingTree(ctx context.Context) ([]string, error) {
	changesetLog.Print("collecting working-tree changes")
	paths, err := p.repo.WorkingTreeChanges(ctx)
	if err != nil {
		return nil, &GitCommandFailedError{Err: err}
	}
	return paths, nil
}

// Range returns paths that differ between two commit-ish refs. When the
// remote ref cannot be resolved, Range yields an empty set rather than an
// error; the caller decides policy.
func (p *Provider) Range(ctx context.Context, localRef, remoteRef string) ([]string, error) {
	changesetLog.Printf("collecting range changes: %s..%s", remoteRef, localRef)
	if _, err := p.repo.ResolveCommit(ctx, remoteRef); err != nil {
		changesetLog.Printf("remote ref %q unresolvable, yielding empty set", remoteRef)
		return nil, nil
	}
	paths, err := p.repo.RangeChanges(ctx, remoteRef, localRef)
	if err != nil {
		return nil, &GitCommandFailedError{Err: err}
	}
	return paths, nil
}

// WorktreeInfo reports whether the repository is a linked worktree, its
// name, and the shared git directory across worktrees.
func (p *Provider) WorktreeInfo(ctx context.Context) (WorktreeInfo, error) {
	name, err := p.repo.WorktreeName(ctx)
	if err != nil {
		return WorktreeInfo{}, &GitCommandFailedError{Err: err}
	}
	commonDir, err := p.repo.CommonDir(ctx)
	if err != nil {
		return WorktreeInfo{}, &GitCommandFailedError{Err: err}
	}
	return WorktreeInfo{IsWorktree: name != "", Name: name, CommonDir: commonDir}, nil
}
