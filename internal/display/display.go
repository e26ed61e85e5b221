// Package display resolves X11 display name strings ("hostname:0.1",
// "unix:/tmp/.X11-unix/X0", ":9") into endpoint descriptors usable with
// net.Dial / net.Listen. It is built by hand rather than with regexp to
// match the rest of this tree's style of explicit byte/field scanning
// (see internal/xauth's ReadAll for the same approach applied to
// Xauthority records).
package display

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Direction distinguishes the proxy's listening endpoint (in) from the
// real server it connects out to (out); DisplayInfo in the reference
// implementation took the same parameter to decide AI_PASSIVE.
type Direction int

const (
	In Direction = iota
	Out
)

// x11BasePort is the TCP port of display 0, per the X11 connection setup
// documentation.
const x11BasePort = 6000

// unixSocketDir is where the Xorg socket for display N lives.
const unixSocketDir = "/tmp/.X11-unix"

// Endpoint is a resolved display name: enough to dial or listen on.
type Endpoint struct {
	Name     string // original, unparsed display name
	Protocol string // token as written ("tcp", "inet6", "unix", ""...)
	Family   int    // unix.AF_UNIX / unix.AF_INET / unix.AF_INET6
	Hostname string // default-grammar only
	Display  int    // default-grammar only; -1 for bare unix paths
	Screen   int    // -1 if absent
	Path     string // AF_UNIX only
}

// Network and Address return the (network, address) pair net.Dial or
// net.Listen expects for this endpoint.
func (e *Endpoint) Network() string {
	switch e.Family {
	case unix.AF_UNIX:
		return "unix"
	case unix.AF_INET:
		return "tcp4"
	default:
		return "tcp6"
	}
}

// Port returns the TCP port this endpoint's display number maps to
// (x11BasePort + display); internal/mux uses it directly when building raw
// unix.Sockaddr values instead of net.Dial/net.Listen.
func (e *Endpoint) Port() int { return x11BasePort + e.Display }

func (e *Endpoint) Address(dir Direction) string {
	if e.Family == unix.AF_UNIX {
		return e.Path
	}
	port := x11BasePort + e.Display
	host := e.Hostname
	if dir == In {
		// Listen on all interfaces for the given family regardless of
		// whatever hostname happened to appear in the proxy's own
		// display name.
		host = ""
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// Parse parses an X11 display name per spec.md §6:
//
//	default: [ [<proto>/] <host> ] : <display> [ . <screen> ]
//	unix:    [unix:] <socket-path> [ . <screen> ]
func Parse(name string) (*Endpoint, error) {
	if name == "" {
		return nil, fmt.Errorf("display: empty display name")
	}

	if ep, ok := parseDefault(name); ok {
		return finishFamily(ep)
	}
	if ep, ok := parseUnix(name); ok {
		return finishFamily(ep)
	}
	return nil, fmt.Errorf("display: could not parse display name %q as "+
		"[unix:]<socket-path>[.<screen>] or [[<proto>/]<host>]:<display>[.<screen>]", name)
}

// parseDefault recognizes "[[proto/]host]:display[.screen]". It requires a
// ':' whose suffix is entirely digits (optionally with a ".digits" screen
// suffix); anything else is left for parseUnix.
func parseDefault(name string) (*Endpoint, bool) {
	colon := strings.LastIndexByte(name, ':')
	if colon < 0 {
		return nil, false
	}
	head, tail := name[:colon], name[colon+1:]

	displayStr, screenStr := tail, ""
	if dot := strings.IndexByte(tail, '.'); dot >= 0 {
		displayStr, screenStr = tail[:dot], tail[dot+1:]
	}
	if displayStr == "" || !allDigits(displayStr) {
		return nil, false
	}
	display, err := strconv.Atoi(displayStr)
	if err != nil {
		return nil, false
	}
	screen := -1
	if screenStr != "" {
		if !allDigits(screenStr) {
			return nil, false
		}
		if screen, err = strconv.Atoi(screenStr); err != nil {
			return nil, false
		}
	}

	protocol, hostname := "", head
	if slash := strings.IndexByte(head, '/'); slash >= 0 {
		protocol, hostname = strings.ToLower(head[:slash]), head[slash+1:]
	}

	return &Endpoint{
		Name:     name,
		Protocol: protocol,
		Hostname: hostname,
		Display:  display,
		Screen:   screen,
	}, true
}

// parseUnix recognizes "[unix:]socket-path[.screen]".
func parseUnix(name string) (*Endpoint, bool) {
	rest := name
	protocol := ""
	if strings.HasPrefix(rest, "unix:") {
		protocol = "unix"
		rest = rest[len("unix:"):]
	}

	path := rest
	screen := -1
	if dot := strings.LastIndexByte(rest, '.'); dot >= 0 {
		maybeScreen := rest[dot+1:]
		if maybeScreen != "" && allDigits(maybeScreen) {
			if n, err := strconv.Atoi(maybeScreen); err == nil {
				path, screen = rest[:dot], n
			}
		}
	}
	if path == "" {
		return nil, false
	}

	return &Endpoint{
		Name:     name,
		Protocol: protocol,
		Display:  -1,
		Screen:   screen,
		Path:     path,
	}, true
}

// finishFamily applies spec.md §6's protocol-token-to-family table and
// fills in defaults (socket path, port) that depend on the family.
func finishFamily(ep *Endpoint) (*Endpoint, error) {
	if ep.Path != "" {
		ep.Family = unix.AF_UNIX
		return ep, nil
	}

	switch ep.Protocol {
	case "inet6", "tcp":
		ep.Family = unix.AF_INET6
	case "inet":
		ep.Family = unix.AF_INET
	case "unix", "local":
		ep.Family = unix.AF_UNIX
	case "":
		if ep.Hostname == "" {
			ep.Family = unix.AF_UNIX
		} else {
			ep.Family = unix.AF_INET6
		}
	default:
		return nil, fmt.Errorf("display: unrecognized protocol %q in display name %q", ep.Protocol, ep.Name)
	}

	if ep.Family == unix.AF_UNIX {
		ep.Path = unixSocketDir + "/X" + strconv.Itoa(ep.Display)
	}
	return ep, nil
}

// Dial opens a blocking connect(2) to this endpoint (_connectToServer in
// ProxyX11Server.cpp); the caller owns the returned fd and decides whether
// to switch it to non-blocking. Shared by internal/mux (per-client forward
// connections) and internal/bootstrap (the one-off reference-time and
// atom-prefetch connections).
func (e *Endpoint) Dial() (int, error) {
	fd, err := unix.Socket(e.Family, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("display: socket: %w", err)
	}
	sa, err := e.sockaddr()
	if err != nil {
		unix.Close(fd)
		return -1, err
	}
	if err := unix.Connect(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("display: connect: %w", err)
	}
	return fd, nil
}

// sockaddr builds the unix.Sockaddr Dial connects to.
func (e *Endpoint) sockaddr() (unix.Sockaddr, error) {
	switch e.Family {
	case unix.AF_UNIX:
		return &unix.SockaddrUnix{Name: e.Path}, nil
	case unix.AF_INET:
		addr, err := resolveIPv4(e.Hostname)
		if err != nil {
			return nil, err
		}
		return &unix.SockaddrInet4{Port: e.Port(), Addr: addr}, nil
	default:
		addr, err := resolveIPv6(e.Hostname)
		if err != nil {
			return nil, err
		}
		return &unix.SockaddrInet6{Port: e.Port(), Addr: addr}, nil
	}
}

func resolveIPv4(host string) ([4]byte, error) {
	if host == "" {
		host = "127.0.0.1"
	}
	var out [4]byte
	addr, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		return out, fmt.Errorf("display: resolving %q: %w", host, err)
	}
	ip4 := addr.IP.To4()
	if ip4 == nil {
		return out, fmt.Errorf("display: %q did not resolve to an IPv4 address", host)
	}
	copy(out[:], ip4)
	return out, nil
}

func resolveIPv6(host string) ([16]byte, error) {
	if host == "" {
		host = "::1"
	}
	var out [16]byte
	addr, err := net.ResolveIPAddr("ip6", host)
	if err != nil {
		return out, fmt.Errorf("display: resolving %q: %w", host, err)
	}
	copy(out[:], addr.IP.To16())
	return out, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
