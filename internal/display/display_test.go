package display

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestParseBareDisplayNumber(t *testing.T) {
	ep, err := Parse(":9")
	require.NoError(t, err)
	require.Equal(t, unix.AF_UNIX, ep.Family)
	require.Equal(t, 9, ep.Display)
	require.Equal(t, -1, ep.Screen)
	require.Equal(t, "/tmp/.X11-unix/X9", ep.Path)
}

func TestParseDisplayWithScreen(t *testing.T) {
	ep, err := Parse(":0.1")
	require.NoError(t, err)
	require.Equal(t, 0, ep.Display)
	require.Equal(t, 1, ep.Screen)
}

func TestParseHostnameDefaultsToInet6(t *testing.T) {
	ep, err := Parse("example.org:0")
	require.NoError(t, err)
	require.Equal(t, unix.AF_INET6, ep.Family)
	require.Equal(t, "example.org", ep.Hostname)
}

func TestParseExplicitTCPProtocol(t *testing.T) {
	ep, err := Parse("tcp/example.org:0")
	require.NoError(t, err)
	require.Equal(t, unix.AF_INET6, ep.Family)
	require.Equal(t, "tcp", ep.Protocol)
}

func TestParseExplicitInetProtocol(t *testing.T) {
	ep, err := Parse("inet/127.0.0.1:0")
	require.NoError(t, err)
	require.Equal(t, unix.AF_INET, ep.Family)
}

func TestParseExplicitUnixProtocolWithHost(t *testing.T) {
	ep, err := Parse("unix/somehost:0")
	require.NoError(t, err)
	require.Equal(t, unix.AF_UNIX, ep.Family)
}

func TestParseUnixSocketPath(t *testing.T) {
	ep, err := Parse("unix:/tmp/.X11-unix/X0")
	require.NoError(t, err)
	require.Equal(t, unix.AF_UNIX, ep.Family)
	require.Equal(t, "/tmp/.X11-unix/X0", ep.Path)
	require.Equal(t, -1, ep.Screen)
}

func TestParseUnixSocketPathWithScreen(t *testing.T) {
	ep, err := Parse("unix:/tmp/.X11-unix/X0.2")
	require.NoError(t, err)
	require.Equal(t, "/tmp/.X11-unix/X0", ep.Path)
	require.Equal(t, 2, ep.Screen)
}

func TestParseBareSocketPathWithoutUnixPrefix(t *testing.T) {
	ep, err := Parse("/tmp/.X11-unix/X0")
	require.NoError(t, err)
	require.Equal(t, unix.AF_UNIX, ep.Family)
	require.Equal(t, "/tmp/.X11-unix/X0", ep.Path)
}

func TestParseUnrecognizedProtocol(t *testing.T) {
	_, err := Parse("bogus/host:0")
	require.Error(t, err)
}

func TestParseEmptyName(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
}

func TestAddressUnix(t *testing.T) {
	ep, err := Parse(":7")
	require.NoError(t, err)
	require.Equal(t, "unix", ep.Network())
	require.Equal(t, "/tmp/.X11-unix/X7", ep.Address(Out))
}

func TestAddressTCPPortOffset(t *testing.T) {
	ep, err := Parse("inet/203.0.113.5:3")
	require.NoError(t, err)
	require.Equal(t, "tcp4", ep.Network())
	require.Equal(t, "203.0.113.5:6003", ep.Address(Out))
}

func TestAddressInListensOnAllInterfaces(t *testing.T) {
	ep, err := Parse("inet/203.0.113.5:3")
	require.NoError(t, err)
	require.Equal(t, ":6003", ep.Address(In))
}

func TestPortAddsBasePort(t *testing.T) {
	ep := &Endpoint{Display: 7}
	require.Equal(t, 6007, ep.Port())
}

func TestSockaddrUnix(t *testing.T) {
	ep := &Endpoint{Family: unix.AF_UNIX, Path: "/tmp/.X11-unix/X0"}
	sa, err := ep.sockaddr()
	require.NoError(t, err)
	u, ok := sa.(*unix.SockaddrUnix)
	require.True(t, ok)
	require.Equal(t, "/tmp/.X11-unix/X0", u.Name)
}

func TestSockaddrInet4WithHostname(t *testing.T) {
	ep := &Endpoint{Family: unix.AF_INET, Display: 0, Hostname: "127.0.0.1"}
	sa, err := ep.sockaddr()
	require.NoError(t, err)
	in4, ok := sa.(*unix.SockaddrInet4)
	require.True(t, ok)
	require.Equal(t, 6000, in4.Port)
	require.Equal(t, [4]byte{127, 0, 0, 1}, in4.Addr)
}

func TestSockaddrInet6DefaultsToLoopback(t *testing.T) {
	ep := &Endpoint{Family: unix.AF_INET6, Display: 2}
	sa, err := ep.sockaddr()
	require.NoError(t, err)
	in6, ok := sa.(*unix.SockaddrInet6)
	require.True(t, ok)
	require.Equal(t, 6002, in6.Port)
	require.Equal(t, [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, in6.Addr)
}
