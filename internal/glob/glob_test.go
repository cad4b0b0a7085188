package glob

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchBasic(t *testing.T) {
	p := Compile([]string{"**/*.rs"})
	require.True(t, p.Match("src/lib.rs"))
	require.True(t, p.Match("lib.rs"))
	require.False(t, p.Match("src/lib.go"))
}

func TestMatchSingleStarDoesNotCrossSegments(t *testing.T) {
	p := Compile([]string{"src/*.go"})
	require.True(t, p.Match("src/main.go"))
	require.False(t, p.Match("src/nested/main.go"))
}

func TestMatchQuestionMark(t *testing.T) {
	p := Compile([]string{"src/?.go"})
	require.True(t, p.Match("src/a.go"))
	require.False(t, p.Match("src/ab.go"))
}

func TestNegativePatternSubtracts(t *testing.T) {
	p := Compile([]string{"**/*.go", "!**/*_test.go"})
	require.True(t, p.Match("pkg/foo.go"))
	require.False(t, p.Match("pkg/foo_test.go"))
}

func TestEmptyPatternsNeverMatch(t *testing.T) {
	p := Compile(nil)
	require.True(t, p.Empty())
	require.False(t, p.Match("anything.go"))
}

func TestFilterPreservesOrder(t *testing.T) {
	p := Compile([]string{"**/*.rs"})
	got := p.Filter([]string{"b.rs", "a.go", "a.rs"})
	require.Equal(t, []string{"b.rs", "a.rs"}, got)
}
