package mux

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/yawning/x11trace/internal/conn"
	"github.com/yawning/x11trace/internal/display"
)

func TestWantEvents(t *testing.T) {
	cases := []struct {
		read, write bool
		want        int16
	}{
		{false, false, unix.POLLPRI},
		{true, false, unix.POLLPRI | unix.POLLIN},
		{false, true, unix.POLLPRI | unix.POLLOUT},
		{true, true, unix.POLLPRI | unix.POLLIN | unix.POLLOUT},
	}
	for _, c := range cases {
		require.Equal(t, c.want, wantEvents(c.read, c.write))
	}
}

func TestShouldShutdown(t *testing.T) {
	require.True(t, shouldShutdown(0, true, true))
	require.False(t, shouldShutdown(1, true, true))
	require.False(t, shouldShutdown(0, false, true))
	require.False(t, shouldShutdown(0, true, false))
}

func TestListenSockaddrUnix(t *testing.T) {
	path := "/tmp/x11trace-mux-test-socket"
	ep := &display.Endpoint{Family: unix.AF_UNIX, Path: path}
	sa, err := listenSockaddr(ep)
	require.NoError(t, err)
	u, ok := sa.(*unix.SockaddrUnix)
	require.True(t, ok)
	require.Equal(t, path, u.Name)
}

func TestListenSockaddrInet4IsWildcard(t *testing.T) {
	ep := &display.Endpoint{Family: unix.AF_INET, Display: 5}
	sa, err := listenSockaddr(ep)
	require.NoError(t, err)
	in4, ok := sa.(*unix.SockaddrInet4)
	require.True(t, ok)
	require.Equal(t, 6005, in4.Port)
	require.Equal(t, [4]byte{}, in4.Addr)
}

func pipeFD(t *testing.T) (int, func()) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	return int(r.Fd()), func() { r.Close(); w.Close() }
}

func TestReapClosedRemovesDeadConnections(t *testing.T) {
	m := New(nil, nil, nil, nil, false, true, false)
	alive := conn.New(1, 3, 4, "")
	dead := conn.New(2, -1, -1, "")
	m.conns[alive.ID] = alive
	m.conns[dead.ID] = dead

	m.reapClosed()
	require.Contains(t, m.conns, 1)
	require.NotContains(t, m.conns, 2)
}

func TestBuildPollSetClosesHalfOpenClientSide(t *testing.T) {
	listenFD, cleanupListen := pipeFD(t)
	defer cleanupListen()
	clientFD, cleanupClient := pipeFD(t)
	defer cleanupClient()

	m := New(nil, nil, nil, nil, false, true, false)
	m.listenFD = listenFD

	c := conn.New(1, clientFD, -1, "")
	m.conns[1] = c

	pfds, info := m.buildPollSet()
	require.True(t, c.ClientClosed())
	require.Len(t, pfds, 1) // only the listener remains
	require.Contains(t, info, int32(listenFD))
}

func TestBuildPollSetWatchesOpenConnection(t *testing.T) {
	listenFD, cleanupListen := pipeFD(t)
	defer cleanupListen()
	clientFD, cleanupClient := pipeFD(t)
	defer cleanupClient()
	serverFD, cleanupServer := pipeFD(t)
	defer cleanupServer()

	m := New(nil, nil, nil, nil, false, true, false)
	m.listenFD = listenFD

	c := conn.New(1, clientFD, serverFD, "")
	m.conns[1] = c

	pfds, info := m.buildPollSet()
	require.Len(t, pfds, 3)
	require.Contains(t, info, int32(clientFD))
	require.Contains(t, info, int32(serverFD))

	for _, pfd := range pfds {
		if pfd.Fd == int32(clientFD) {
			require.Equal(t, unix.POLLPRI|unix.POLLIN, pfd.Events)
		}
	}
}

func TestLogDiscardsDrainsBuffersOfClosedSides(t *testing.T) {
	clientFD, cleanupClient := pipeFD(t)
	defer cleanupClient()

	m := New(nil, nil, nil, nil, false, true, false)
	c := conn.New(1, clientFD, -1, "")
	m.conns[1] = c

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	go func() { w.Write([]byte("hello")); w.Close() }()
	for c.ServerBuffer.Size() < 5 {
		c.ServerBuffer.ReadFrom(int(r.Fd()))
	}
	require.False(t, c.ServerBuffer.Empty())

	c.CloseClient()
	require.NotPanics(t, m.logDiscards)
	require.True(t, c.ServerBuffer.Empty())
}
