// Package resolver walks from each changed path up to the nearest
// hooks.toml defining the requested event, and groups paths by the
// config that will run hooks for them.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hooktree/hooktree/internal/config"
	"github.com/hooktree/hooktree/pkg/logger"
)

var resolverLog = logger.New("resolver")

const configFileName = "hooks.toml"

// NameNotFoundError reports that Resolve-by-name found no hooks.toml
// defining name between the invocation directory and the repository
// root.
type NameNotFoundError struct {
	Name string
	From string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("no hooks.toml between %s and the repository root defines %q", e.From, e.Name)
}

// Group pairs an EffectiveConfig with the changed paths that resolved to
// it for a given event.
type Group struct {
	Config *config.EffectiveConfig
	Paths  []string
}

// Resolver locates the nearest hooks.toml defining a name, walking from a
// path's directory up to the repository root.
type Resolver struct {
	Loader   *config.Loader
	RepoRoot string
}

// New creates a Resolver backed by loader, rooted at repoRoot.
func New(loader *config.Loader, repoRoot string) *Resolver {
	return &Resolver{Loader: loader, RepoRoot: repoRoot}
}

// ResolveForEvent groups changeSet (repository-relative paths) by the
// nearest EffectiveConfig that defines event, walking each path's
// directory upward. Paths whose walk reaches the repository root without
// finding event contribute no hooks and are silently dropped. Groups are
// returned in deterministic lexicographic order of their config's root
// path; within a group, paths retain change-set order.
func (r *Resolver) ResolveForEvent(event string, changeSet []string) ([]Group, error) {
	byConfig := map[string]*config.EffectiveConfig{}
	pathsByConfig := map[string][]string{}

	for _, p := range changeSet {
		startDir := filepath.Join(r.RepoRoot, filepath.FromSlash(filepath.Dir(p)))
		eff, err := r.nearest(startDir, func(e *config.EffectiveConfig) bool { return e.Defines(event) })
		if err != nil {
			return nil, err
		}
		if eff == nil {
			resolverLog.Printf("%s: no config defines %q up to repository root", p, event)
			continue
		}
		byConfig[eff.RootPath] = eff
		pathsByConfig[eff.RootPath] = append(pathsByConfig[eff.RootPath], p)
	}

	keys := make([]string, 0, len(byConfig))
	for k := range byConfig {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, Group{Config: byConfig[k], Paths: pathsByConfig[k]})
	}
	return groups, nil
}

// ResolveByName finds the nearest hooks.toml to invocationDir (walking up
// to the repository root, inclusive) that defines name as either a hook
// or a group.
func (r *Resolver) ResolveByName(invocationDir, name string) (*config.EffectiveConfig, error) {
	eff, err := r.nearest(invocationDir, func(e *config.EffectiveConfig) bool { return e.Defines(name) })
	if err != nil {
		return nil, err
	}
	if eff == nil {
		return nil, &NameNotFoundError{Name: name, From: invocationDir}
	}
	return eff, nil
}

// nearest walks from startDir up to the repository root (inclusive),
// loading each ancestor's hooks.toml (if present) and returning the first
// one satisfying defines. It returns (nil, nil) if none match.
func (r *Resolver) nearest(startDir string, defines func(*config.EffectiveConfig) bool) (*config.EffectiveConfig, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			eff, err := r.Loader.Load(candidate)
			if err != nil {
				return nil, err
			}
			if defines(eff) {
				return eff, nil
			}
		}
		if dir == r.RepoRoot {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, nil
}
