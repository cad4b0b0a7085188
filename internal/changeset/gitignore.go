package changeset

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/hooktree/hooktree/pkg/logger"
)

var lintLog = logger.New("changeset:gitignore")

type ignoreLevel struct {
	dir     string
	matcher *ignore.GitIgnore
}

// Lint enumerates every non-ignored file under startDir, honoring
// .gitignore files hierarchically from the repository root down to
// startDir and at every directory visited below it. Returned paths are
// repository-relative and POSIX-separated.
func (p *Provider) Lint(startDir string) ([]string, error) {
	lintLog.Printf("enumerating non-ignored files under %s", startDir)

	var stack []ignoreLevel
	for _, dir := range properAncestors(p.repo.Root, startDir) {
		if level, ok := loadGitignore(dir); ok {
			stack = append(stack, level)
		}
	}
	baseDepth := len(stack)

	var out []string
	err := filepath.WalkDir(startDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &IoError{Path: path, Err: err}
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			for len(stack) > baseDepth && !isAncestorDir(stack[len(stack)-1].dir, path) {
				stack = stack[:len(stack)-1]
			}
			if level, ok := loadGitignore(path); ok {
				stack = append(stack, level)
			}
			if ignored(stack, path, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignored(stack, path, false) {
			return nil
		}
		rel, err := filepath.Rel(p.repo.Root, path)
		if err != nil {
			return &IoError{Path: path, Err: err}
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if ioErr, ok := err.(*IoError); ok {
			return nil, ioErr
		}
		return nil, &IoError{Path: startDir, Err: err}
	}
	return out, nil
}

// properAncestors returns the list of directories from root up to but
// excluding dir, in root-to-leaf order. dir itself is handled by the
// WalkDir callback.
func properAncestors(root, dir string) []string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return []string{root}[:0]
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	chain := make([]string, 0, len(parts)+1)
	chain = append(chain, root)
	cur := root
	for _, part := range parts[:len(parts)-1] {
		cur = filepath.Join(cur, part)
		chain = append(chain, cur)
	}
	return chain
}

func isAncestorDir(ancestor, path string) bool {
	if ancestor == path {
		return true
	}
	rel, err := filepath.Rel(ancestor, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func loadGitignore(dir string) (ignoreLevel, bool) {
	path := filepath.Join(dir, ".gitignore")
	content, err := os.ReadFile(path)
	if err != nil {
		return ignoreLevel{}, false
	}
	matcher := ignore.CompileIgnoreLines(strings.Split(string(content), "\n")...)
	return ignoreLevel{dir: dir, matcher: matcher}, true
}

func ignored(stack []ignoreLevel, path string, isDir bool) bool {
	for _, level := range stack {
		rel, err := filepath.Rel(level.dir, path)
		if err != nil || rel == "." {
			continue
		}
		rel = filepath.ToSlash(rel)
		if isDir {
			rel += "/"
		}
		if level.matcher.MatchesPath(rel) {
			return true
		}
	}
	return false
}
