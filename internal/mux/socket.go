package mux

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"

	"github.com/yawning/x11trace/internal/display"
)

// listenSockaddr builds the unix.Sockaddr _listenForClients binds to: a
// wildcard-address socket for AF_INET/AF_INET6, or the endpoint's path for
// AF_UNIX (after unlinking any stale socket file left by a prior run).
func listenSockaddr(ep *display.Endpoint) (unix.Sockaddr, error) {
	switch ep.Family {
	case unix.AF_UNIX:
		_ = os.Remove(ep.Path)
		return &unix.SockaddrUnix{Name: ep.Path}, nil
	case unix.AF_INET:
		return &unix.SockaddrInet4{Port: ep.Port()}, nil
	default:
		return &unix.SockaddrInet6{Port: ep.Port()}, nil
	}
}

// peerDesc formats a connected socket's peer address the way
// _acceptClient's client_desc did: "ip:port" for AF_INET/AF_INET6, the bound
// path for a named AF_UNIX peer, or "unknown(local)" when the peer is an
// anonymous local socket (the common case for AF_UNIX clients).
func peerDesc(fd int) string {
	sa, err := unix.Getpeername(fd)
	if err != nil {
		return "unknown(local)"
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return fmt.Sprintf("%d.%d.%d.%d:%d", a.Addr[0], a.Addr[1], a.Addr[2], a.Addr[3], a.Port)
	case *unix.SockaddrInet6:
		return fmt.Sprintf("[%s]:%d", net.IP(a.Addr[:]).String(), a.Port)
	case *unix.SockaddrUnix:
		if a.Name == "" {
			return "unknown(local)"
		}
		return a.Name
	default:
		return "unknown(local)"
	}
}
