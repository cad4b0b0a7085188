package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hooktree/hooktree/pkg/logger"
)

var importsLog = logger.New("config:imports")

// Loader resolves a hooks.toml file, including its transitive imports,
// into an EffectiveConfig. It caches by canonical root path for the
// lifetime of one invocation.
type Loader struct {
	RepoRoot  string
	AllowList string // optional directory outside RepoRoot that absolute imports may escape into

	cache map[string]*EffectiveConfig
}

// NewLoader creates a Loader rooted at repoRoot. allowList may be empty.
func NewLoader(repoRoot, allowList string) *Loader {
	return &Loader{RepoRoot: repoRoot, AllowList: allowList, cache: map[string]*EffectiveConfig{}}
}

// Load resolves path into an EffectiveConfig, expanding imports
// transitively. Results are cached by canonical path.
func (l *Loader) Load(path string) (*EffectiveConfig, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return nil, &ImportFileMissingError{ImportPath: path, Resolved: path}
	}
	if cached, ok := l.cache[canon]; ok {
		return cached, nil
	}

	visiting := map[string]bool{}
	eff, err := l.load(canon, visiting)
	if err != nil {
		return nil, err
	}
	l.cache[canon] = eff
	return eff, nil
}

func (l *Loader) load(canon string, visiting map[string]bool) (*EffectiveConfig, error) {
	if visiting[canon] {
		// Cycle: caller already recorded the diagnostic via the import loop below.
		return &EffectiveConfig{RootPath: canon, Hooks: map[string]*HookDefinition{}, Groups: map[string]*GroupDefinition{}}, nil
	}
	visiting[canon] = true
	defer delete(visiting, canon)

	cfg, diags, err := ParseFile(canon)
	if err != nil {
		return nil, err
	}

	acc := &EffectiveConfig{RootPath: canon, Hooks: map[string]*HookDefinition{}, Groups: map[string]*GroupDefinition{}}
	acc.Diagnostics = append(acc.Diagnostics, diags...)

	var contributions []importContribution

	dir := filepath.Dir(canon)
	for _, imp := range cfg.Imports {
		resolved, err := l.resolveImportPath(dir, imp)
		if err != nil {
			return nil, err
		}
		if _, statErr := os.Stat(resolved); statErr != nil {
			return nil, &ImportFileMissingError{ImportingFile: canon, ImportPath: imp, Resolved: resolved}
		}
		importCanon, err := canonicalize(resolved)
		if err != nil {
			return nil, &ImportFileMissingError{ImportingFile: canon, ImportPath: imp, Resolved: resolved}
		}

		if visiting[importCanon] {
			importsLog.Printf("cycle detected: %s -> %s", canon, importCanon)
			acc.Diagnostics = append(acc.Diagnostics, Diagnostic{
				Severity: SeverityInfo, File: canon,
				Message: fmt.Sprintf("import cycle: %s already being resolved, skipping repeated edge from %s", importCanon, imp),
			})
			continue
		}

		imported, err := l.load(importCanon, visiting)
		if err != nil {
			return nil, err
		}
		contributions = append(contributions, importContribution{
			path:   imp,
			hooks:  imported.Hooks,
			groups: imported.Groups,
		})
		acc = mergeInto(acc, imported, canon)
	}

	// Local definitions always win over everything accumulated from imports.
	local := &EffectiveConfig{RootPath: canon, Hooks: map[string]*HookDefinition{}, Groups: map[string]*GroupDefinition{}}
	for name, h := range cfg.Hooks {
		local.Hooks[name] = h
	}
	for name, g := range cfg.Groups {
		local.Groups[name] = g
	}
	acc = mergeInto(acc, local, canon)

	acc.Diagnostics = append(acc.Diagnostics, unusedImportDiagnostics(canon, contributions, acc)...)

	return acc, nil
}

// importContribution records what one import directly contributed (by
// pointer identity, not just name), so an override of its names by a
// later import or local definition can be told apart from the name
// simply not existing.
type importContribution struct {
	path   string
	hooks  map[string]*HookDefinition
	groups map[string]*GroupDefinition
}

// unusedImportDiagnostics reports, in --trace-imports output, an import
// whose hooks and groups were every one of them overridden by a later
// import or by the importing file's own local definitions, or which
// defined nothing at all: either way the import had no effect on final
// resolves to.
func unusedImportDiagnostics(canon string, contributions []importContribution, final *EffectiveConfig) []Diagnostic {
	var diags []Diagnostic
	for _, c := range contributions {
		if len(c.hooks) == 0 && len(c.groups) == 0 {
			diags = append(diags, Diagnostic{
				Severity: SeverityInfo, File: canon,
				Message: fmt.Sprintf("import %q defines no hooks or groups", c.path),
			})
			continue
		}
		used := false
		for name, h := range c.hooks {
			if final.Hooks[name] == h {
				used = true
				break
			}
		}
		if !used {
			for name, g := range c.groups {
				if final.Groups[name] == g {
					used = true
					break
				}
			}
		}
		if !used {
			diags = append(diags, Diagnostic{
				Severity: SeverityInfo, File: canon,
				Message: fmt.Sprintf("import %q: unused, every hook/group it defines was overridden", c.path),
			})
		}
	}
	return diags
}

// mergeInto returns an EffectiveConfig whose hook/group maps are base
// overlaid by overlay; overlay wins on name collision. overriddenBy
// names the file whose definitions are doing the overriding, used to
// emit an override diagnostic.
func mergeInto(base, overlay *EffectiveConfig, overriddenBy string) *EffectiveConfig {
	result := &EffectiveConfig{
		RootPath:    base.RootPath,
		Hooks:       map[string]*HookDefinition{},
		Groups:      map[string]*GroupDefinition{},
		Diagnostics: append(append([]Diagnostic{}, base.Diagnostics...), overlay.Diagnostics...),
	}
	for name, h := range base.Hooks {
		result.Hooks[name] = h
	}
	for name, g := range base.Groups {
		result.Groups[name] = g
	}
	for name, h := range overlay.Hooks {
		if prior, ok := result.Hooks[name]; ok && prior.SourceFile != h.SourceFile {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning, File: overriddenBy,
				Message: fmt.Sprintf("hook %q from %s overridden by %s", name, prior.SourceFile, h.SourceFile),
			})
		}
		result.Hooks[name] = h
	}
	for name, g := range overlay.Groups {
		if prior, ok := result.Groups[name]; ok && prior.SourceFile != g.SourceFile {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning, File: overriddenBy,
				Message: fmt.Sprintf("group %q from %s overridden by %s", name, prior.SourceFile, g.SourceFile),
			})
		}
		result.Groups[name] = g
	}
	return result
}

// resolveImportPath resolves an import entry relative to the importing
// file's directory (or as-is if absolute), then enforces the
// repository-root / allow-list containment rule.
func (l *Loader) resolveImportPath(importingDir, raw string) (string, error) {
	var candidate string
	if filepath.IsAbs(raw) {
		candidate = raw
	} else {
		candidate = filepath.Join(importingDir, raw)
	}

	resolved, err := canonicalizeBestEffort(candidate)
	if err != nil {
		return "", &ImportFileMissingError{ImportingFile: filepath.Join(importingDir, "hooks.toml"), ImportPath: raw, Resolved: candidate}
	}

	repoRoot, err := canonicalize(l.RepoRoot)
	if err == nil && isWithin(repoRoot, resolved) {
		return resolved, nil
	}
	if l.AllowList != "" {
		if allow, err := canonicalize(l.AllowList); err == nil && isWithin(allow, resolved) {
			return resolved, nil
		}
	}
	return "", &ImportPathRejectedError{
		ImportingFile: filepath.Join(importingDir, "hooks.toml"),
		ImportPath:    raw,
		Resolved:      resolved,
	}
}

func isWithin(root, candidate string) bool {
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}

// canonicalize resolves symlinks and makes path absolute; it requires the
// path to exist.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// canonicalizeBestEffort resolves as much of path as exists, falling back
// to the absolute (non-symlink-resolved) path for the part that doesn't
// exist yet; used so a missing-import diagnostic still reports a sensible
// resolved path.
func canonicalizeBestEffort(path string) (string, error) {
	if resolved, err := canonicalize(path); err == nil {
		return resolved, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(abs)
	if resolvedDir, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(resolvedDir, filepath.Base(abs)), nil
	}
	return abs, nil
}

// sortedKeys returns the keys of a string-keyed map in lexicographic
// order; used wherever map iteration order must be made deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
