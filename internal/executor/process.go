package executor

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/hooktree/hooktree/pkg/logger"
	"github.com/hooktree/hooktree/pkg/stringutil"
	"github.com/sourcegraph/conc/pool"
)

var execLog = logger.New("executor")

// shellName is sh on POSIX; Windows carries no teacher precedent in this
// codebase and is out of scope.
const shellName = "sh"

// run spawns inv's process under ctx. stdout and stderr are drained by a
// small conc pool so neither pipe can block the other, then buffered
// in-memory and returned as a single block so concurrent siblings never
// interleave output on the terminal.
func run(ctx context.Context, inv Invocation) (stdout, stderr string, exitCode int, err error) {
	var cmd *exec.Cmd
	if inv.Shell != "" {
		// sh -c script $0 $1 $2 ...: the extra args after the script string
		// become the script's positional parameters, so gitArgs reach a
		// shell hook through "$@" the same way they reach an argv hook as
		// trailing elements.
		args := append([]string{"-c", inv.Shell, shellName}, inv.ShellArgs...)
		cmd = exec.CommandContext(ctx, shellName, args...)
		execLog.Printf("spawning hook %q via shell in %s", inv.HookName, inv.Workdir)
	} else {
		if len(inv.Argv) == 0 {
			return "", "", -1, &EmptyCommandError{HookName: inv.HookName}
		}
		cmd = exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
		execLog.Printf("spawning hook %q: %s in %s", inv.HookName, strings.Join(inv.Argv, " "), inv.Workdir)
	}
	cmd.Dir = inv.Workdir
	cmd.Env = append(cmd.Environ(), inv.Env...)

	stdoutPipe, perr := cmd.StdoutPipe()
	if perr != nil {
		return "", "", -1, perr
	}
	stderrPipe, perr := cmd.StderrPipe()
	if perr != nil {
		return "", "", -1, perr
	}

	if startErr := cmd.Start(); startErr != nil {
		return "", "", -1, startErr
	}

	var outBuf, errBuf bytes.Buffer
	drain := pool.New().WithErrors()
	drain.Go(func() error { _, e := io.Copy(&outBuf, stdoutPipe); return e })
	drain.Go(func() error { _, e := io.Copy(&errBuf, stderrPipe); return e })
	drainErr := drain.Wait()

	runErr := cmd.Wait()
	exitCode = exitCodeOf(runErr)
	execLog.Printf("hook %q exited %d", inv.HookName, exitCode)

	if runErr != nil {
		if _, ok := runErr.(*exec.ExitError); !ok {
			return outBuf.String(), errBuf.String(), exitCode, runErr
		}
	}
	if drainErr != nil {
		return outBuf.String(), errBuf.String(), exitCode, drainErr
	}
	return outBuf.String(), errBuf.String(), exitCode, nil
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// RedactedEnv formats inv's environment overlay for verbose/dry-run
// display, masking secret-shaped values.
func RedactedEnv(inv Invocation) []string {
	out := make([]string, 0, len(inv.Env))
	for _, kv := range inv.Env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			out = append(out, kv)
			continue
		}
		out = append(out, k+"="+stringutil.RedactSecretEnvValue(k, v))
	}
	return out
}

// EmptyCommandError reports a hook whose expanded argv has zero elements.
type EmptyCommandError struct {
	HookName string
}

func (e *EmptyCommandError) Error() string {
	return "hook " + e.HookName + ": command expands to an empty argv"
}

// workerLimit bounds how many hooks run concurrently within one Parallel
// phase.
func workerLimit(phaseSize int) int {
	n := runtime.NumCPU()
	if phaseSize < n {
		return phaseSize
	}
	return n
}
