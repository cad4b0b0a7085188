// Package template expands {NAME} placeholders in hook commands,
// workdirs, and environment values against a closed, fixed variable set.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hooktree/hooktree/pkg/logger"
)

var templateLog = logger.New("template")

var placeholder = regexp.MustCompile(`\{([A-Z_]+)\}`)

// UnknownVariableError reports a {NAME} placeholder outside the fixed
// recognized set.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown template variable %q", e.Name)
}

// Vars holds the values behind every recognized placeholder for one hook
// invocation.
type Vars struct {
	HookDir      string
	WorkingDir   string
	RepoRoot     string
	HomeDir      string
	PathEnv      string
	IsWorktree   bool
	WorktreeName string
	CommonDir    string
	MatchedPaths []string
}

// Engine expands placeholders for a single hook invocation and owns the
// lifetime of any CHANGED_FILES_FILE temp file it creates.
type Engine struct {
	vars    Vars
	tmpFile string
}

// New creates an Engine bound to vars.
func New(vars Vars) *Engine {
	return &Engine{vars: vars}
}

// Expand replaces every recognized {NAME} placeholder in s. Expansion is
// single-pass: text produced by a substitution is never rescanned, so
// nested placeholders are left literal.
func (e *Engine) Expand(s string) (string, error) {
	var firstErr error
	result := placeholder.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1 : len(match)-1]
		value, err := e.lookup(name)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// ExpandArgv expands every element of argv.
func (e *Engine) ExpandArgv(argv []string) ([]string, error) {
	out := make([]string, len(argv))
	for i, arg := range argv {
		expanded, err := e.Expand(arg)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

// ExpandEnv expands every value in env, leaving keys untouched.
func (e *Engine) ExpandEnv(env map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(env))
	for k, v := range env {
		expanded, err := e.Expand(v)
		if err != nil {
			return nil, err
		}
		out[k] = expanded
	}
	return out, nil
}

func (e *Engine) lookup(name string) (string, error) {
	switch name {
	case "HOOK_DIR":
		return e.vars.HookDir, nil
	case "WORKING_DIR":
		return e.vars.WorkingDir, nil
	case "REPO_ROOT":
		return e.vars.RepoRoot, nil
	case "HOOK_DIR_REL":
		return relTo(e.vars.RepoRoot, e.vars.HookDir), nil
	case "WORKING_DIR_REL":
		return relTo(e.vars.RepoRoot, e.vars.WorkingDir), nil
	case "PROJECT_NAME":
		return filepath.Base(e.vars.HookDir), nil
	case "HOME_DIR":
		return e.vars.HomeDir, nil
	case "PATH":
		return e.vars.PathEnv, nil
	case "IS_WORKTREE":
		if e.vars.IsWorktree {
			return "true", nil
		}
		return "false", nil
	case "WORKTREE_NAME":
		return e.vars.WorktreeName, nil
	case "COMMON_DIR":
		return e.vars.CommonDir, nil
	case "CHANGED_FILES":
		return strings.Join(e.vars.MatchedPaths, " "), nil
	case "CHANGED_FILES_LIST":
		return strings.Join(e.vars.MatchedPaths, "\n"), nil
	case "CHANGED_FILES_FILE":
		return e.changedFilesFile()
	default:
		return "", &UnknownVariableError{Name: name}
	}
}

// changedFilesFile lazily creates the temp file backing
// CHANGED_FILES_FILE, reusing it across repeated expansions within the
// same hook invocation.
func (e *Engine) changedFilesFile() (string, error) {
	if e.tmpFile != "" {
		return e.tmpFile, nil
	}
	f, err := os.CreateTemp("", "hooktree-changed-files-*")
	if err != nil {
		return "", fmt.Errorf("creating CHANGED_FILES_FILE: %w", err)
	}
	defer f.Close()

	content := strings.Join(e.vars.MatchedPaths, "\n")
	if _, err := f.WriteString(content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing CHANGED_FILES_FILE: %w", err)
	}
	e.tmpFile = f.Name()
	templateLog.Printf("created CHANGED_FILES_FILE at %s", e.tmpFile)
	return e.tmpFile, nil
}

// SetWorkingDir updates WORKING_DIR/WORKING_DIR_REL after workdir
// resolution, so a hook's command, env, and further expansions see the
// child process's actual working directory rather than the hook's
// source directory, which is only the working directory by default.
func (e *Engine) SetWorkingDir(dir string) {
	e.vars.WorkingDir = dir
}

// Cleanup removes any temp file this Engine created. It is safe to call
// even if no CHANGED_FILES_FILE was ever referenced.
func (e *Engine) Cleanup() {
	if e.tmpFile == "" {
		return
	}
	if err := os.Remove(e.tmpFile); err != nil && !os.IsNotExist(err) {
		templateLog.Printf("failed to remove %s: %v", e.tmpFile, err)
	}
	e.tmpFile = ""
}

func relTo(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
