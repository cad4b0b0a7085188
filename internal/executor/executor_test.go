package executor

import (
	"context"
	"testing"

	"github.com/hooktree/hooktree/internal/config"
	"github.com/hooktree/hooktree/internal/planner"
	"github.com/hooktree/hooktree/internal/template"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func shellHook(name, shellCmd string, dependsOn ...string) *config.HookDefinition {
	return &config.HookDefinition{
		Name:               name,
		Command:            config.Command{Raw: shellCmd},
		ModifiesRepository: boolPtr(false),
		DependsOn:          dependsOn,
	}
}

func factoryFor(t *testing.T) InvocationFactory {
	t.Helper()
	dir := t.TempDir()
	return func(sh planner.ScheduledHook) (Invocation, error) {
		engine := template.New(template.Vars{
			HookDir:      dir,
			RepoRoot:     dir,
			MatchedPaths: sh.MatchedPaths,
		})
		return BuildInvocation(sh, engine, dir, nil)
	}
}

// TestDependencyFailureCascade reproduces scenario S4.
func TestDependencyFailureCascade(t *testing.T) {
	plan := &planner.Plan{
		Phases: []planner.Phase{
			{Kind: planner.Sequential, Hooks: []planner.ScheduledHook{{Hook: shellHook("a", "false")}}},
			{Kind: planner.Sequential, Hooks: []planner.ScheduledHook{{Hook: shellHook("b", "true", "a")}}},
		},
	}

	report := RunPlan(context.Background(), plan, factoryFor(t), false)
	require.Len(t, report.Outcomes, 2)

	require.Equal(t, "a", report.Outcomes[0].HookName)
	require.False(t, report.Outcomes[0].Succeeded())

	require.Equal(t, "b", report.Outcomes[1].HookName)
	require.True(t, report.Outcomes[1].Skipped)
	require.Equal(t, "dependency failed", report.Outcomes[1].SkipReason)

	require.Equal(t, 1, report.ExitCode())
}

func TestParallelPhaseRunsAllHooks(t *testing.T) {
	plan := &planner.Plan{
		Phases: []planner.Phase{
			{Kind: planner.Parallel, Hooks: []planner.ScheduledHook{
				{Hook: shellHook("one", "true")},
				{Hook: shellHook("two", "true")},
				{Hook: shellHook("three", "exit 1")},
			}},
		},
	}

	report := RunPlan(context.Background(), plan, factoryFor(t), false)
	require.Len(t, report.Outcomes, 3)
	require.Equal(t, 1, report.ExitCode())
	require.Len(t, report.Failed(), 1)
}

// TestArgvConstructionPerFile reproduces scenario S5.
func TestArgvConstructionPerFile(t *testing.T) {
	hook := &config.HookDefinition{
		Name:               "check",
		Command:            config.Command{Argv: []string{"ruff", "{HOOK_DIR_REL}"}},
		ModifiesRepository: boolPtr(false),
		ExecutionType:      config.ExecutionPerFile,
	}
	sh := planner.ScheduledHook{Hook: hook, MatchedPaths: []string{"src/x.py", "src/y.py"}}

	engine := template.New(template.Vars{
		HookDir:      "/repo/src",
		RepoRoot:     "/repo",
		MatchedPaths: sh.MatchedPaths,
	})

	inv, err := BuildInvocation(sh, engine, "/repo", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"ruff", "src", "src/x.py", "src/y.py"}, inv.Argv)

	var changedFiles string
	for _, kv := range inv.Env {
		if k, v, ok := splitEnv(kv); ok && k == "CHANGED_FILES" {
			changedFiles = v
		}
	}
	require.Equal(t, "src/x.py src/y.py", changedFiles)
}

func TestShellHookReceivesGitArgsAsPositionalParams(t *testing.T) {
	plan := &planner.Plan{
		Phases: []planner.Phase{
			{Kind: planner.Sequential, Hooks: []planner.ScheduledHook{{Hook: shellHook("commit-msg", `echo "$1"`)}}},
		},
	}

	dir := t.TempDir()
	factory := func(sh planner.ScheduledHook) (Invocation, error) {
		engine := template.New(template.Vars{HookDir: dir, RepoRoot: dir})
		return BuildInvocation(sh, engine, dir, []string{"/tmp/COMMIT_EDITMSG"})
	}

	report := RunPlan(context.Background(), plan, factory, false)
	require.Len(t, report.Outcomes, 1)
	require.Equal(t, 0, report.Outcomes[0].ExitCode)
	require.Equal(t, "/tmp/COMMIT_EDITMSG\n", report.Outcomes[0].Stdout)
}

func TestInPlaceDoesNotAppendPaths(t *testing.T) {
	hook := &config.HookDefinition{
		Name:               "format",
		Command:            config.Command{Argv: []string{"gofmt", "-w", "."}},
		ModifiesRepository: boolPtr(true),
		ExecutionType:      config.ExecutionInPlace,
	}
	sh := planner.ScheduledHook{Hook: hook, MatchedPaths: []string{"a.go", "b.go"}}
	engine := template.New(template.Vars{HookDir: "/repo", RepoRoot: "/repo", MatchedPaths: sh.MatchedPaths})

	inv, err := BuildInvocation(sh, engine, "/repo", []string{"--amend"})
	require.NoError(t, err)
	require.Equal(t, []string{"gofmt", "-w", ".", "--amend"}, inv.Argv)
}

func TestWorkdirResolutionFeedsBackIntoWorkingDirVars(t *testing.T) {
	hook := &config.HookDefinition{
		Name:               "build",
		Command:            config.Command{Argv: []string{"make"}},
		ModifiesRepository: boolPtr(false),
		ExecutionType:      config.ExecutionOther,
		Workdir:            "{REPO_ROOT}/build",
		Env:                map[string]string{"BUILD_DIR": "{WORKING_DIR}", "BUILD_DIR_REL": "{WORKING_DIR_REL}"},
	}
	sh := planner.ScheduledHook{Hook: hook}
	engine := template.New(template.Vars{HookDir: "/repo/src", RepoRoot: "/repo"})

	inv, err := BuildInvocation(sh, engine, "/repo", nil)
	require.NoError(t, err)
	require.Equal(t, "/repo/build", inv.Workdir)

	var buildDir, buildDirRel string
	for _, kv := range inv.Env {
		if k, v, ok := splitEnv(kv); ok {
			switch k {
			case "BUILD_DIR":
				buildDir = v
			case "BUILD_DIR_REL":
				buildDirRel = v
			}
		}
	}
	require.Equal(t, "/repo/build", buildDir)
	require.Equal(t, "build", buildDirRel)
}

func TestDryRunDoesNotSpawn(t *testing.T) {
	plan := &planner.Plan{
		Phases: []planner.Phase{
			{Kind: planner.Sequential, Hooks: []planner.ScheduledHook{{Hook: shellHook("noop", "exit 7")}}},
		},
	}
	report := RunPlan(context.Background(), plan, factoryFor(t), true)
	require.Len(t, report.Outcomes, 1)
	require.True(t, report.Outcomes[0].DryRun)
	require.NotNil(t, report.Outcomes[0].Preview)
	require.Equal(t, 0, report.ExitCode())
}

func splitEnv(kv string) (string, string, bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}
