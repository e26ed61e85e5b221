// Package childproc manages the optional trailing subcommand (spec.md §6
// "Trailing -- <prog> <args>...", §5 "Child subprocess"): launching it with
// the in-display substituted for the out-display in its environment, and
// reaping it without blocking the multiplexer's event loop.
package childproc

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/yawning/x11trace/internal/seccomp"
)

// outDisplayEnvVar is the environment variable a freshly exec'd X11 client
// reads to find its server; the proxy rewrites it to point back at itself
// before the child inherits the environment.
const outDisplayEnvVar = "DISPLAY"

// Child wraps a running subcommand (spec.md §5 "at most one").
type Child struct {
	cmd        *exec.Cmd
	reaped     bool
	exitStatus int
}

// Start launches argv[0] with argv[1:], after splicing proxyDisplay into
// the DISPLAY environment variable the child process sees. A nil Child and
// nil error means no subcommand was requested. When applySeccomp is set
// (--seccompchild), the process is launched via x11trace's own
// seccomp.ReexecArg hand-off instead of execing argv[0] directly, so the
// seccomp-bpf filter is installed before the real command replaces it.
func Start(argv []string, proxyDisplay string, applySeccomp bool) (*Child, error) {
	if len(argv) == 0 {
		return nil, nil
	}

	name, args := argv[0], argv[1:]
	if applySeccomp {
		self, err := os.Executable()
		if err != nil {
			return nil, err
		}
		name, args = self, append([]string{seccomp.ReexecArg}, argv...)
	}

	cmd := exec.Command(name, args...)
	cmd.Env = spliceDisplay(os.Environ(), proxyDisplay)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &Child{cmd: cmd}, nil
}

// spliceDisplay returns env with DISPLAY set to proxyDisplay, appending the
// variable if absent.
func spliceDisplay(env []string, proxyDisplay string) []string {
	prefix := outDisplayEnvVar + "="
	out := make([]string, 0, len(env)+1)
	replaced := false
	for _, kv := range env {
		if len(kv) >= len(prefix) && kv[:len(prefix)] == prefix {
			out = append(out, prefix+proxyDisplay)
			replaced = true
			continue
		}
		out = append(out, kv)
	}
	if !replaced {
		out = append(out, prefix+proxyDisplay)
	}
	return out
}

// Poll performs a non-blocking reap (spec.md §4.F step 3, "waitpid(...,
// WNOHANG)"; spec.md §5 "reaping is idempotent"). exited reports whether
// the child has terminated; status is its exit code, or 128+signal if it
// died by signal. Calling Poll again after exited is true is safe and
// returns the same result.
func (c *Child) Poll() (exited bool, status int) {
	if c == nil {
		return false, 0
	}
	if c.reaped {
		return true, c.exitStatus
	}
	pid := c.cmd.Process.Pid
	var ws syscall.WaitStatus
	wpid, err := syscall.Wait4(pid, &ws, syscall.WNOHANG, nil)
	if err != nil || wpid != pid {
		return false, 0
	}
	c.reaped = true
	switch {
	case ws.Exited():
		c.exitStatus = ws.ExitStatus()
	case ws.Signaled():
		c.exitStatus = 128 + int(ws.Signal())
	default:
		c.exitStatus = 1
	}
	return true, c.exitStatus
}

// Exited reports whether a prior Poll call already observed this child's
// termination.
func (c *Child) Exited() bool {
	return c == nil || c.reaped
}
