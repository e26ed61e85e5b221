// main.go - x11trace
// Copyright (C) 2016  Yawning Angel.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/yawning/x11trace/internal/atomtable"
	"github.com/yawning/x11trace/internal/bootstrap"
	"github.com/yawning/x11trace/internal/childproc"
	"github.com/yawning/x11trace/internal/decoder"
	"github.com/yawning/x11trace/internal/display"
	"github.com/yawning/x11trace/internal/mux"
	"github.com/yawning/x11trace/internal/proto"
	"github.com/yawning/x11trace/internal/seccomp"
	"github.com/yawning/x11trace/internal/settings"
	"github.com/yawning/x11trace/internal/xauth"
	"github.com/yawning/x11trace/internal/xlog"
)

func main() {
	// childproc hands off here instead of execing the trailing subcommand
	// directly when --seccompchild is set, so the filter installs in this
	// process's image before it replaces itself with the real target.
	if len(os.Args) > 1 && os.Args[1] == seccomp.ReexecArg {
		if err := seccomp.InstallAndExec(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	cmd := settings.New(run)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(s *settings.Settings) error {
	// exitStatus is set once the main loop returns. This defer is registered
	// first, so it exits only after every other deferred cleanup has run.
	exitStatus := -1
	defer func() {
		if exitStatus >= 0 {
			os.Exit(exitStatus)
		}
	}()

	in, err := display.Parse(s.ProxyDisplay)
	if err != nil {
		return fmt.Errorf("parsing --proxydisplay %q: %w", s.ProxyDisplay, err)
	}
	out, err := display.Parse(s.Display)
	if err != nil {
		return fmt.Errorf("parsing --display %q: %w", s.Display, err)
	}

	logger, closer, err := xlog.New(os.Stdout, s.Verbose, s.LogCompress)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closer.Close()

	restoreCursor := installTerminatingSignalHandler()
	defer restoreCursor()

	if s.CopyAuth {
		restore, err := copyAuthCookie(in, out)
		if err != nil {
			logger.Warnf("--copyauth: %v", err)
		} else {
			defer restore()
		}
	}

	authName, authData := lookupBootstrapAuth(out)

	atoms := atomtable.New()
	if s.PrefetchAtoms {
		names, err := bootstrap.PrefetchAtoms(out, authName, authData)
		if err != nil {
			logger.Warnf("--prefetchatoms: %v, reverting to default atom lookup", err)
		} else {
			for id, name := range names {
				atoms.Intern(id, name)
			}
		}
	}

	opts := &proto.RenderOpts{
		Verbose:          s.Verbose,
		Multiline:        s.Multiline,
		MaxListLength:    s.MaxListLength,
		SystemTimeFormat: s.SystemTimeFormat,
	}
	if s.SystemTimeFormat {
		ts, observedAt, err := bootstrap.FetchReferenceTime(out, authName, authData)
		if err != nil {
			logger.Warnf("--systemtimeformat: %v, TIMESTAMPs will render as raw values", err)
		} else {
			opts.RefTimestamp = ts
			opts.RefUnixTimeSec = observedAt.Unix()
		}
	}

	dec := decoder.New(atoms, opts)
	m := mux.New(in, out, dec, logger, s.ReadWriteDebug, s.StopIfNoActiveConn, s.WaitForClient)
	if err := m.Listen(); err != nil {
		return fmt.Errorf("listening on %s: %w", s.ProxyDisplay, err)
	}
	defer m.Close()

	if len(s.Command) > 0 {
		child, err := childproc.Start(s.Command, s.ProxyDisplay, s.SeccompChild)
		if err != nil {
			return fmt.Errorf("starting %v: %w", s.Command, err)
		}
		m.SetChild(child)
	}

	status, err := m.Run()
	if err != nil {
		return err
	}
	exitStatus = status
	return nil
}

// lookupBootstrapAuth finds the MIT-MAGIC-COOKIE-1 entry for the real
// display so internal/bootstrap's one-off connections can authenticate the
// same way a normal client would. Only AF_UNIX out-displays are looked up:
// that is the case craftAuthority/CloneForProxy target, and the common one
// for a locally-sandboxed client; a missing or unreadable Xauthority file
// just means the bootstrap connections try with no authentication, which
// most local test servers accept anyway.
func lookupBootstrapAuth(out *display.Endpoint) (name string, data []byte) {
	if out.Family != unix.AF_UNIX {
		return "", nil
	}
	path, err := xauth.ResolvePath()
	if err != nil {
		return "", nil
	}
	hostname, err := os.Hostname()
	if err != nil {
		return "", nil
	}
	rec, err := xauth.Find(path, xauth.FamilyLocal, hostname, strconv.Itoa(out.Display))
	if err != nil {
		return "", nil
	}
	return string(rec.AuthMethod), rec.AuthData
}

// copyAuthCookie implements --copyauth: clone the real display's cookie
// under the proxy display's name so a client that only knows about the
// proxy can still authenticate against it.
func copyAuthCookie(in, out *display.Endpoint) (restore func() error, err error) {
	if out.Family != unix.AF_UNIX {
		return nil, fmt.Errorf("only unix-domain out displays have an Xauthority entry to clone")
	}
	path, err := xauth.ResolvePath()
	if err != nil {
		return nil, err
	}
	hostname, err := os.Hostname()
	if err != nil {
		return nil, err
	}
	restore, _, err = xauth.InstallProxyCookie(path, hostname, strconv.Itoa(out.Display), strconv.Itoa(in.Display))
	if err != nil {
		return nil, err
	}
	return restore, nil
}

// installTerminatingSignalHandler mirrors handleTerminatingSignal: restore
// the terminal cursor and exit with 128+signal on SIGINT/SIGTERM/SIGABRT/
// SIGSEGV, the same four signals the bootstrap phase's progress counter
// traps on its own. Installed for the whole run, not just bootstrap, since
// the multiplexer's poll loop can run indefinitely and a user killing the
// proxy deserves the same clean exit code.
func installTerminatingSignalHandler() func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT, syscall.SIGSEGV)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprint(os.Stderr, "\x1b[?25h")
			os.Exit(128 + int(sig.(syscall.Signal)))
		case <-done:
		}
	}()
	return func() {
		close(done)
		signal.Stop(sigCh)
	}
}
