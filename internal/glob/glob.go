// Package glob matches repository-relative POSIX paths against the
// planner's file-targeting patterns, built on doublestar for ** support.
package glob

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Patterns is an ordered list of glob patterns, where a leading "!" marks
// a pattern as a negative filter that subtracts matches from the
// positive set.
type Patterns struct {
	positive []string
	negative []string
}

// Compile splits raw patterns into positive and negative groups. Patterns
// are not pre-compiled beyond that: doublestar.Match operates directly on
// the pattern string, so there is nothing further to build.
func Compile(raw []string) Patterns {
	p := Patterns{}
	for _, pattern := range raw {
		if strings.HasPrefix(pattern, "!") {
			p.negative = append(p.negative, strings.TrimPrefix(pattern, "!"))
		} else {
			p.positive = append(p.positive, pattern)
		}
	}
	return p
}

// Empty reports whether no patterns (positive or negative) were given.
func (p Patterns) Empty() bool {
	return len(p.positive) == 0 && len(p.negative) == 0
}

// Match reports whether path matches p: at least one positive pattern
// matches, and no negative pattern matches.
func (p Patterns) Match(path string) bool {
	matched := false
	for _, pattern := range p.positive {
		if ok, _ := doublestar.Match(pattern, path); ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, pattern := range p.negative {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return false
		}
	}
	return true
}

// Filter returns the subset of paths matching p, preserving order.
func (p Patterns) Filter(paths []string) []string {
	var out []string
	for _, path := range paths {
		if p.Match(path) {
			out = append(out, path)
		}
	}
	return out
}
