// Package config loads hooks.toml files into an EffectiveConfig: parsing,
// import resolution, and validation.
package config

import "fmt"

// ExecutionType controls how matched files are surfaced to a hook's command.
type ExecutionType string

const (
	ExecutionPerFile ExecutionType = "per-file"
	ExecutionInPlace ExecutionType = "in-place"
	ExecutionOther   ExecutionType = "other"
)

// GroupExecution controls how a group's members are scheduled.
type GroupExecution string

const (
	ExecutionSequential    GroupExecution = "sequential"
	ExecutionParallel      GroupExecution = "parallel"
	ExecutionForceParallel GroupExecution = "force-parallel"
)

// Command is a hook's command, given in TOML as either a single shell
// string or an argv list. Exactly one of Raw/Argv is populated.
type Command struct {
	Raw  string
	Argv []string
}

// IsShell reports whether the command was given as a single string meant
// for sh -c, as opposed to an argv list executed directly.
func (c Command) IsShell() bool {
	return c.Argv == nil
}

// Empty reports whether no command was configured at all.
func (c Command) Empty() bool {
	return c.Raw == "" && len(c.Argv) == 0
}

// UnmarshalTOML implements toml.Unmarshaler, accepting either a string or
// an array of strings.
func (c *Command) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		c.Raw = v
		c.Argv = nil
		return nil
	case []interface{}:
		argv := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("command argv element must be a string, got %T", item)
			}
			argv = append(argv, s)
		}
		c.Argv = argv
		c.Raw = ""
		return nil
	default:
		return fmt.Errorf("command must be a string or a list of strings, got %T", data)
	}
}

// HookDefinition is a named unit of execution.
type HookDefinition struct {
	Name                string            `toml:"-"`
	Command             Command           `toml:"command"`
	Description         string            `toml:"description"`
	ModifiesRepository  *bool             `toml:"modifies_repository"`
	ExecutionType       ExecutionType     `toml:"execution_type"`
	Workdir             string            `toml:"workdir"`
	RunAtRoot           bool              `toml:"run_at_root"`
	Env                 map[string]string `toml:"env"`
	Files               []string          `toml:"files"`
	DependsOn           []string          `toml:"depends_on"`
	RunAlways           bool              `toml:"run_always"`
	SourceFile          string            `toml:"-"`
	UnknownKeys         []string          `toml:"-"`
}

// Modifies reports the hook's modifies_repository value, defaulting to
// false when unset.
func (h *HookDefinition) Modifies() bool {
	return h.ModifiesRepository != nil && *h.ModifiesRepository
}

// Type returns the hook's execution type, defaulting to per-file.
func (h *HookDefinition) Type() ExecutionType {
	if h.ExecutionType == "" {
		return ExecutionPerFile
	}
	return h.ExecutionType
}

// GroupDefinition is a named composition of hooks and other groups.
type GroupDefinition struct {
	Name        string         `toml:"-"`
	Includes    []string       `toml:"includes"`
	Execution   GroupExecution `toml:"execution"`
	Parallel    bool           `toml:"parallel"` // deprecated, honored as ExecutionParallel when true
	SourceFile  string         `toml:"-"`
	UnknownKeys []string       `toml:"-"`
}

// Mode returns the group's resolved execution mode, applying the
// deprecated Parallel boolean and defaulting to sequential.
func (g *GroupDefinition) Mode() GroupExecution {
	if g.Execution != "" {
		return g.Execution
	}
	if g.Parallel {
		return ExecutionParallel
	}
	return ExecutionSequential
}

// ConfigFile is the raw parse of a single hooks.toml document.
type ConfigFile struct {
	Imports []string                    `toml:"imports"`
	Hooks   map[string]*HookDefinition  `toml:"hooks"`
	Groups  map[string]*GroupDefinition `toml:"groups"`

	// Path is the canonical path this file was parsed from.
	Path string `toml:"-"`
}

// EffectiveConfig is the merge of a root ConfigFile with its transitively
// imported files: local definitions win, then later imports, then earlier
// imports.
type EffectiveConfig struct {
	// RootPath is the canonical path of the file this config was resolved
	// from; it is the cache key and the directory hooks resolve relative to.
	RootPath string
	Hooks    map[string]*HookDefinition
	Groups   map[string]*GroupDefinition

	// Diagnostics accumulated while building this config (cycles, overrides,
	// unused imports).
	Diagnostics []Diagnostic
}

// Defines reports whether name is defined as either a hook or a group.
func (e *EffectiveConfig) Defines(name string) bool {
	if e == nil {
		return false
	}
	if _, ok := e.Hooks[name]; ok {
		return true
	}
	if _, ok := e.Groups[name]; ok {
		return true
	}
	return false
}

// DiagnosticSeverity classifies a Diagnostic.
type DiagnosticSeverity int

const (
	SeverityInfo DiagnosticSeverity = iota
	SeverityWarning
	SeverityError
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Diagnostic is a single loader-emitted note: a rejected path, a cycle, an
// override, an unused import, or a missing-semantics warning.
type Diagnostic struct {
	Severity DiagnosticSeverity
	File     string
	Message  string
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.File, d.Message)
}
