// Package bootstrap implements the two one-off, pre-queue connections the
// proxy makes to the real X server before it starts accepting clients
// (spec.md §4.F "Bootstrap"): fetching a TIMESTAMP/wall-clock reference pair
// for --systemtimeformat, and pre-fetching the server's interned atom table
// for --prefetchatoms. Both are grounded on
// ProxyX11Server_prequeue_clients.cpp and
// ProxyX11Server__fetchCurrentServerTime.cpp: each opens its own short-lived
// connection, speaks just enough of the protocol by hand, then closes.
//
// internal/proto's Request/Reply/Event tables are decode-only (they render
// bytes already on the wire; they have no encode side), so this package
// constructs its handful of outgoing requests directly from the core
// protocol's fixed byte layout instead of going through internal/proto.
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/yawning/x11trace/internal/display"
	"github.com/yawning/x11trace/internal/wire"
)

// pollTimeoutMillis bounds every blocking read/write this package performs;
// a bootstrap connection that stalls this long is assumed wedged rather
// than merely slow (_pollSingleSocket used the same fixed timeout).
const pollTimeoutMillis = 3000

// Core request opcodes this package speaks by hand.
const (
	opChangeWindowAttributes = 2
	opGetAtomName            = 17
	opChangeProperty         = 18
)

// Atom ids and event/error codes fixed by the core protocol.
const (
	atomWMName          = 0x27
	atomString          = 0x1f
	eventPropertyNotify = 28
	errorAtom           = 5

	cwEventMask             = 1 << 11
	eventMaskPropertyChange = 1 << 22
	propModeAppend          = 2
)

// FetchReferenceTime dials ep, authenticates, and triggers a single
// PropertyNotify on the first screen's root window (an empty ChangeProperty
// append is a documented ICCCM no-op that X servers still report) purely to
// read back a TIMESTAMP alongside the wall-clock time it was observed at.
// The pair lets the decoder render later TIMESTAMP fields as real time
// (spec.md's --systemtimeformat).
func FetchReferenceTime(ep *display.Endpoint, authName string, authData []byte) (serverTime uint32, observedAt time.Time, err error) {
	fd, o, root, err := connectAndAuthenticate(ep, authName, authData)
	if err != nil {
		return 0, time.Time{}, err
	}
	defer unix.Close(fd)

	if err := writeAll(fd, buildChangeWindowAttributes(o, root)); err != nil {
		return 0, time.Time{}, fmt.Errorf("bootstrap: sending ChangeWindowAttributes: %w", err)
	}
	if err := writeAll(fd, buildChangePropertyNoop(o, root)); err != nil {
		return 0, time.Time{}, fmt.Errorf("bootstrap: sending ChangeProperty: %w", err)
	}

	ev, err := readFull(fd, 32)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("bootstrap: reading PropertyNotify: %w", err)
	}
	observedAt = time.Now()

	code := ev[0] &^ 0x80
	if code != eventPropertyNotify {
		return 0, time.Time{}, fmt.Errorf("bootstrap: expected PropertyNotify, got event code %d", code)
	}
	window := o.Uint32(ev[4:8])
	atom := o.Uint32(ev[8:12])
	if window != root || atom != atomWMName {
		return 0, time.Time{}, fmt.Errorf("bootstrap: unexpected PropertyNotify (window=%#x atom=%#x)", window, atom)
	}
	serverTime = o.Uint32(ev[12:16])
	return serverTime, observedAt, nil
}

// PrefetchAtoms dials ep, authenticates, and walks GetAtomName(1),
// GetAtomName(2), ... until the server reports an Atom error, returning the
// names it resolved along the way keyed by atom id. The caller (typically
// cmd/x11trace at startup) seeds an atomtable.Table from the result via
// repeated Intern calls.
//
// While the loop runs it hides the terminal cursor and prints one dot per
// atom resolved to stderr (handleTerminatingSignal's progress counter);
// SIGINT/SIGTERM/SIGABRT/SIGSEGV caught during that window restore the
// cursor and re-exit with 128+signal instead of leaving the terminal
// cursor hidden.
func PrefetchAtoms(ep *display.Endpoint, authName string, authData []byte) (map[uint32]string, error) {
	fd, o, _, err := connectAndAuthenticate(ep, authName, authData)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	restore := hideCursorUntilDone()
	defer restore()

	names := make(map[uint32]string)
	for atom := uint32(1); ; atom++ {
		if err := writeAll(fd, buildGetAtomName(o, atom)); err != nil {
			return nil, fmt.Errorf("bootstrap: sending GetAtomName(%d): %w", atom, err)
		}
		header, err := readFull(fd, 8)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: reading GetAtomName(%d) reply header: %w", atom, err)
		}
		switch header[0] {
		case 0: // Error
			if header[1] != errorAtom {
				return nil, fmt.Errorf("bootstrap: GetAtomName(%d): unexpected error code %d, reverting to default atom lookup", atom, header[1])
			}
			if _, err := readFull(fd, 24); err != nil {
				return nil, fmt.Errorf("bootstrap: draining error reply: %w", err)
			}
			return names, nil
		case 1: // Reply
			replyLen := o.Uint32(header[4:8])
			rest, err := readFull(fd, 24+int(replyLen)*4)
			if err != nil {
				return nil, fmt.Errorf("bootstrap: reading GetAtomName(%d) reply body: %w", atom, err)
			}
			nameLen := int(o.Uint16(rest[0:2]))
			if 24+nameLen > len(rest) {
				return nil, fmt.Errorf("bootstrap: GetAtomName(%d): truncated name", atom)
			}
			names[atom] = string(rest[24 : 24+nameLen])
			fmt.Fprint(os.Stderr, ".")
		default:
			return nil, fmt.Errorf("bootstrap: GetAtomName(%d): unexpected reply kind %d", atom, header[0])
		}
	}
}

const showCursor = "\x1b[?25h"
const hideCursor = "\x1b[?25l"

// signalExitOffset mirrors SIGNAL_RETVAL_OFFSET: a caught terminating
// signal exits with this plus the signal number, distinguishing it from a
// normal nonzero exit status.
const signalExitOffset = 128

// hideCursorUntilDone hides the terminal cursor and installs handlers for
// the four signals the reference traps around its atom-prefetch progress
// counter; the returned func restores the cursor and removes the
// handlers, and must be called exactly once.
func hideCursorUntilDone() func() {
	fmt.Fprint(os.Stderr, hideCursor)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT, syscall.SIGSEGV)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprint(os.Stderr, showCursor)
			os.Exit(signalExitOffset + int(sig.(syscall.Signal)))
		case <-done:
		}
	}()

	return func() {
		close(done)
		signal.Stop(sigCh)
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, showCursor)
	}
}

// connectAndAuthenticate opens a connection to ep and performs the
// Initiation handshake (_authenticateServerConnection), returning the
// negotiated byte Order and the first screen's root window id.
func connectAndAuthenticate(ep *display.Endpoint, authName string, authData []byte) (fd int, o wire.Order, screen0Root uint32, err error) {
	fd, err = ep.Dial()
	if err != nil {
		return -1, wire.Order{}, 0, err
	}
	o = wire.NewOrder(false)

	if err := writeAll(fd, buildInitiation(o, authName, authData)); err != nil {
		unix.Close(fd)
		return -1, o, 0, fmt.Errorf("bootstrap: writing initiation: %w", err)
	}

	header, err := readFull(fd, 8)
	if err != nil {
		unix.Close(fd)
		return -1, o, 0, fmt.Errorf("bootstrap: reading response header: %w", err)
	}
	status := header[0]
	units := int(o.Uint16(header[6:8]))
	rest, err := readFull(fd, units*4)
	if err != nil {
		unix.Close(fd)
		return -1, o, 0, fmt.Errorf("bootstrap: reading response body: %w", err)
	}
	raw := append(header, rest...)

	if status != 1 {
		unix.Close(fd)
		reasonLen := int(raw[1])
		reason := ""
		if status == 0 && 8+reasonLen <= len(raw) {
			reason = string(raw[8 : 8+reasonLen])
		}
		return -1, o, 0, fmt.Errorf("bootstrap: server handshake failed (status=%d): %s", status, reason)
	}
	screen0Root, err = parseScreen0Root(o, raw)
	if err != nil {
		unix.Close(fd)
		return -1, o, 0, err
	}
	return fd, o, screen0Root, nil
}

// parseScreen0Root extracts the first SCREEN's root WINDOW id out of a
// Success response: skip the fixed Success header (40 bytes), the padded
// vendor string, and one 8-byte pixmap FORMAT record per numFormats, then
// read the root field that leads the first SCREEN record.
func parseScreen0Root(o wire.Order, raw []byte) (uint32, error) {
	if len(raw) < 40 {
		return 0, fmt.Errorf("bootstrap: truncated Success response")
	}
	vendorLen := int(o.Uint16(raw[24:26]))
	numFormats := int(raw[29])
	screensOff := wire.Pad(40+vendorLen) + numFormats*8
	if screensOff+4 > len(raw) {
		return 0, fmt.Errorf("bootstrap: truncated screen list")
	}
	return o.Uint32(raw[screensOff : screensOff+4]), nil
}

func buildInitiation(o wire.Order, authName string, authData []byte) []byte {
	nameLen, dataLen := len(authName), len(authData)
	buf := make([]byte, 12+wire.Pad(nameLen)+wire.Pad(dataLen))
	if wire.HostIsLittleEndian() {
		buf[0] = 0x6c // 'l'
	} else {
		buf[0] = 0x42 // 'B'
	}
	o.PutUint16(buf[2:4], 11)
	o.PutUint16(buf[4:6], 0)
	o.PutUint16(buf[6:8], uint16(nameLen))
	o.PutUint16(buf[8:10], uint16(dataLen))
	copy(buf[12:12+nameLen], authName)
	copy(buf[12+wire.Pad(nameLen):], authData)
	return buf
}

// buildChangeWindowAttributes enables PropertyChange notification on window,
// the only attribute this package ever needs to set.
func buildChangeWindowAttributes(o wire.Order, window uint32) []byte {
	buf := make([]byte, 16)
	buf[0] = opChangeWindowAttributes
	o.PutUint16(buf[2:4], 4) // length in 4-byte units
	o.PutUint32(buf[4:8], window)
	o.PutUint32(buf[8:12], cwEventMask)
	o.PutUint32(buf[12:16], eventMaskPropertyChange)
	return buf
}

// buildChangePropertyNoop appends zero bytes to WM_NAME: a documented
// ICCCM no-op that still makes the server emit a PropertyNotify.
func buildChangePropertyNoop(o wire.Order, window uint32) []byte {
	buf := make([]byte, 24)
	buf[0] = opChangeProperty
	buf[1] = propModeAppend
	o.PutUint16(buf[2:4], 6) // length in 4-byte units
	o.PutUint32(buf[4:8], window)
	o.PutUint32(buf[8:12], atomWMName)
	o.PutUint32(buf[12:16], atomString)
	buf[16] = 8 // format
	o.PutUint32(buf[20:24], 0) // data-len
	return buf
}

func buildGetAtomName(o wire.Order, atom uint32) []byte {
	buf := make([]byte, 8)
	buf[0] = opGetAtomName
	o.PutUint16(buf[2:4], 2)
	o.PutUint32(buf[4:8], atom)
	return buf
}

func pollFD(fd int, events int16) error {
	pfds := []unix.PollFd{{Fd: int32(fd), Events: events}}
	n, err := unix.Poll(pfds, pollTimeoutMillis)
	if err != nil {
		return fmt.Errorf("poll: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("timed out after %dms", pollTimeoutMillis)
	}
	if pfds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
		return fmt.Errorf("poll reported failure (revents=%#x)", pfds[0].Revents)
	}
	return nil
}

func writeAll(fd int, buf []byte) error {
	for len(buf) > 0 {
		if err := pollFD(fd, unix.POLLOUT); err != nil {
			return err
		}
		n, err := syscall.Write(fd, buf)
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
				continue
			}
			return err
		}
		buf = buf[n:]
	}
	return nil
}

func readFull(fd int, n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		if err := pollFD(fd, unix.POLLIN); err != nil {
			return nil, err
		}
		m, err := syscall.Read(fd, buf[got:])
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
				continue
			}
			return nil, err
		}
		if m == 0 {
			return nil, fmt.Errorf("unexpected EOF after %d of %d bytes", got, n)
		}
		got += m
	}
	return buf, nil
}
