package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/hooktree/hooktree/pkg/logger"
	"github.com/hooktree/hooktree/pkg/stringutil"
)

var parseLog = logger.New("config:loader")

// topLevelKeys are the only keys ParseFile permits at the root of a
// hooks.toml document; anything else is a hard error.
var topLevelKeys = map[string]bool{
	"imports": true,
	"hooks":   true,
	"groups":  true,
}

// knownHookKeys and knownGroupKeys back the "unknown keys inside a hook or
// group table are a warning, not an error" rule from the config format.
var knownHookKeys = map[string]bool{
	"command": true, "description": true, "modifies_repository": true,
	"execution_type": true, "workdir": true, "run_at_root": true,
	"env": true, "files": true, "depends_on": true, "run_always": true,
}

var knownGroupKeys = map[string]bool{
	"includes": true, "execution": true, "parallel": true,
}

// ParseFile reads and parses a single hooks.toml document. It does not
// resolve imports; see Load for that.
func ParseFile(path string) (*ConfigFile, []Diagnostic, error) {
	parseLog.Printf("parsing %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &ParseError{File: path, Err: err}
	}

	var cfg ConfigFile
	meta, err := toml.Decode(string(raw), &cfg)
	if err != nil {
		if perr, ok := err.(toml.ParseError); ok {
			return nil, nil, &ParseError{File: path, Line: perr.Position.Line, Column: perr.Position.Col, Err: err}
		}
		return nil, nil, &ParseError{File: path, Err: err}
	}
	cfg.Path = path

	var diags []Diagnostic
	for _, key := range meta.Undecoded() {
		k := key.String()
		top := key[0]
		switch {
		case !topLevelKeys[top]:
			return nil, nil, &ParseError{File: path, Err: fmt.Errorf("unknown top-level key %q", top)}
		case top == "hooks" && len(key) > 1 && !knownHookKeys[key[len(key)-1]]:
			diags = append(diags, Diagnostic{Severity: SeverityWarning, File: path, Message: fmt.Sprintf("unknown key %q in hooks table", k)})
		case top == "groups" && len(key) > 1 && !knownGroupKeys[key[len(key)-1]]:
			diags = append(diags, Diagnostic{Severity: SeverityWarning, File: path, Message: fmt.Sprintf("unknown key %q in groups table", k)})
		}
	}

	for name, h := range cfg.Hooks {
		if !stringutil.ValidIdentifier(name) {
			return nil, nil, &ParseError{File: path, Err: fmt.Errorf("hook name %q contains whitespace or a path separator", name)}
		}
		if h.Command.Empty() {
			return nil, nil, &ParseError{File: path, Err: fmt.Errorf("hook %q: command must be a non-empty string or argv list", name)}
		}
		h.Name = name
		h.SourceFile = path
		if h.ModifiesRepository == nil {
			diags = append(diags, Diagnostic{Severity: SeverityWarning, File: path, Message: fmt.Sprintf("hook %q: modifies_repository not set, defaulting to false", name)})
		}
	}

	for name, g := range cfg.Groups {
		if !stringutil.ValidIdentifier(name) {
			return nil, nil, &ParseError{File: path, Err: fmt.Errorf("group name %q contains whitespace or a path separator", name)}
		}
		if _, clash := cfg.Hooks[name]; clash {
			return nil, nil, &ParseError{File: path, Err: fmt.Errorf("name %q is used as both a hook and a group", name)}
		}
		g.Name = name
		g.SourceFile = path
	}

	return &cfg, diags, nil
}
