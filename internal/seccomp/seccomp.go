// Package seccomp installs an optional seccomp-bpf filter around the
// trailing "-- prog args..." subcommand (spec.md §6, §5 "Child
// subprocess"), ported from the sandbox package's installTorBrowserSeccompProfile/
// installSeccomp. The original writes compiled BPF to a pipe that
// bubblewrap reads and installs on the sandboxed process's behalf; this
// proxy doesn't bring in a container launcher, so the filter is installed
// directly by re-executing the x11trace binary itself: childproc.Start
// execs "x11trace ReexecArg <real argv>" instead of the real argv
// directly, and that re-exec'd process calls InstallAndExec, which
// installs the filter in its own process image (inherited across exec(2))
// and then replaces itself with the real target via syscall.Exec.
package seccomp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"unsafe"

	"github.com/twtiger/gosecco"
	"github.com/twtiger/gosecco/parser"
	"golang.org/x/sys/unix"
)

// ReexecArg is childproc's marker argv[1]: when x11trace is invoked with
// this as its first argument, main() hands off to InstallAndExec instead
// of parsing flags normally.
const ReexecArg = "--x11trace-install-seccomp"

// rules is a generic allowlist covering the syscalls an ordinary
// dynamically-linked X11 client needs to start up, read its environment,
// open its connection to DISPLAY, and run: it is not tailored to any
// particular browser or daemon the way the sandbox package's per-profile
// assets are, since this proxy has no equivalent bundled asset set to
// adapt. Anything outside this list earns ENOSYS rather than a kill, so
// an unexpectedly-needed syscall fails loudly in the child's own error
// handling instead of taking the process down.
const rules = `
read: 1
write: 1
open: 1
openat: 1
close: 1
stat: 1
fstat: 1
lstat: 1
poll: 1
lseek: 1
mmap: 1
mprotect: 1
munmap: 1
brk: 1
rt_sigaction: 1
rt_sigprocmask: 1
rt_sigreturn: 1
ioctl: 1
access: 1
pipe: 1
pipe2: 1
socket: 1
connect: 1
sendto: 1
recvfrom: 1
sendmsg: 1
recvmsg: 1
bind: 1
getsockname: 1
getpeername: 1
setsockopt: 1
getsockopt: 1
execve: 1
exit: 1
exit_group: 1
uname: 1
fcntl: 1
getdents: 1
getdents64: 1
getcwd: 1
readlink: 1
gettimeofday: 1
clock_gettime: 1
futex: 1
sched_yield: 1
madvise: 1
set_tid_address: 1
set_robust_list: 1
rseq: 1
prlimit64: 1
getrandom: 1
arch_prctl: 1
`

func settings() gosecco.SeccompSettings {
	return gosecco.SeccompSettings{
		DefaultPositiveAction: "allow",
		DefaultNegativeAction: "ENOSYS",
		DefaultPolicyAction:   "ENOSYS",
		ActionOnX32:           "kill",
		ActionOnAuditFailure:  "kill",
	}
}

// compile turns rules into a kernel-ready BPF program, following
// installSeccomp's own combine-then-prepare shape.
func compile() ([]byte, error) {
	source := &parser.StringSource{Name: "x11trace-child.seccomp", Content: rules}
	combined := parser.CombineSources(source)

	bpf, err := gosecco.PrepareSource(combined, settings())
	if err != nil {
		return nil, fmt.Errorf("seccomp: compiling rules: %w", err)
	}

	var buf bytes.Buffer
	for _, rule := range bpf {
		if err := binary.Write(&buf, binary.LittleEndian, rule); err != nil {
			return nil, fmt.Errorf("seccomp: encoding filter: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// install compiles and applies the filter to the calling process. It must
// be called before the final exec, and from a single-threaded process:
// SECCOMP_SET_MODE_FILTER is per-thread, but threads created later and the
// image left behind by a subsequent exec(2) both inherit it.
func install() error {
	raw, err := compile()
	if err != nil {
		return err
	}
	if len(raw)%8 != 0 {
		return fmt.Errorf("seccomp: filter program is not a whole number of instructions (%d bytes)", len(raw))
	}

	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("seccomp: PR_SET_NO_NEW_PRIVS: %w", err)
	}

	prog := unix.SockFprog{
		Len:    uint16(len(raw) / 8),
		Filter: (*unix.SockFilter)(unsafe.Pointer(&raw[0])),
	}
	if err := unix.Prctl(unix.PR_SET_SECCOMP, unix.SECCOMP_MODE_FILTER, uintptr(unsafe.Pointer(&prog)), 0, 0); err != nil {
		return fmt.Errorf("seccomp: PR_SET_SECCOMP: %w", err)
	}
	return nil
}

func lowerRlimit(resource int, newHard uint64) error {
	var lim syscall.Rlimit
	if err := syscall.Getrlimit(resource, &lim); err != nil {
		return err
	}

	needsSet := false
	if newHard < lim.Max {
		lim.Max = newHard
		needsSet = true
	}
	if newHard < lim.Cur {
		lim.Cur = newHard
		needsSet = true
	}
	if !needsSet {
		return nil
	}
	return syscall.Setrlimit(resource, &lim)
}

// applyRlimits conservatively lowers a handful of rlimits the filter above
// already disallows the syscalls for (RLIMIT_MSGQUEUE) or that have no
// business being large for an arbitrary trailing subcommand.
func applyRlimits() error {
	const (
		limStack      = 8 * 1024 * 1024
		limNofile     = 1024
		limMlock      = 0
		limLocks      = 32
		limSigpending = 64
		limMsgqueue   = 0
		limNice       = 0
		limRtprio     = 0
		limRttime     = 0

		// Not exposed by the syscall package.
		rlimitMlock      = 8
		rlimitLocks      = 10
		rlimitSigpending = 11
		rlimitMsgqueue   = 12
		rlimitNice       = 13
		rlimitRtprio     = 14
		rlimitRttime     = 15
	)

	for _, r := range []struct {
		resource int
		limit    uint64
	}{
		{syscall.RLIMIT_STACK, limStack},
		{syscall.RLIMIT_NOFILE, limNofile},
		{rlimitMlock, limMlock},
		{rlimitLocks, limLocks},
		{rlimitSigpending, limSigpending},
		{rlimitMsgqueue, limMsgqueue},
		{rlimitNice, limNice},
		{rlimitRtprio, limRtprio},
		{rlimitRttime, limRttime},
	} {
		if err := lowerRlimit(r.resource, r.limit); err != nil {
			return fmt.Errorf("seccomp: lowering rlimit %d: %w", r.resource, err)
		}
	}
	return nil
}

// InstallAndExec installs the filter and rlimits, then replaces the
// calling process with argv[0] (searched on $PATH), argv[1:] as its
// arguments. It only returns on error; success means the process image is
// gone.
func InstallAndExec(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("seccomp: no target command to exec")
	}
	if err := applyRlimits(); err != nil {
		return err
	}
	if err := install(); err != nil {
		return err
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("seccomp: resolving %q: %w", argv[0], err)
	}
	return syscall.Exec(path, argv, os.Environ())
}
