// Package mux implements the single-threaded, poll(2)-driven connection
// multiplexer (spec.md §4.F "Multiplexer", §5 "Concurrency model"): the
// proxy's only event loop, grounded directly on the reference
// implementation's select(2) loop in ProxyX11Server.cpp
// (_prepareSocketFlagging / _processFlaggedSockets / _processClientQueue).
//
// Go has no portable way to have a blocking syscall interrupted by SIGCHLD
// the way the reference's select(2) is, so a child subcommand's exit is
// instead observed by bounding the poll(2) wait (see childPollIntervalMillis)
// rather than relying on EINTR; see DESIGN.md.
package mux

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/yawning/x11trace/internal/buffer"
	"github.com/yawning/x11trace/internal/childproc"
	"github.com/yawning/x11trace/internal/conn"
	"github.com/yawning/x11trace/internal/decoder"
	"github.com/yawning/x11trace/internal/display"
)

// maxPendingConnections is the listen(2) backlog.
const maxPendingConnections = 128

// childPollIntervalMillis bounds how long a poll(2) wait can run while a child
// subcommand is still registered, so its exit is noticed promptly without a
// real SIGCHLD-interrupts-poll mechanism.
const childPollIntervalMillis = 250

type fdRole int

const (
	roleListener fdRole = iota
	roleClient
	roleServer
)

type fdInfo struct {
	role   fdRole
	connID int
}

// Mux owns the listening socket, every open Connection, and the optional
// child subcommand; Run is the proxy's entire main loop.
type Mux struct {
	in  *display.Endpoint
	out *display.Endpoint

	dec    *decoder.Decoder
	logger *logrus.Logger

	readWriteDebug     bool
	stopIfNoActiveConn bool
	waitForClient      bool

	listenFD int
	conns    map[int]*conn.Connection
	nextID   int

	child *childproc.Child
}

// New builds a Mux; call Listen before Run.
func New(in, out *display.Endpoint, dec *decoder.Decoder, logger *logrus.Logger, readWriteDebug, stopIfNoActiveConn, waitForClient bool) *Mux {
	return &Mux{
		in:                 in,
		out:                out,
		dec:                dec,
		logger:             logger,
		readWriteDebug:     readWriteDebug,
		stopIfNoActiveConn: stopIfNoActiveConn,
		waitForClient:      waitForClient,
		listenFD:           -1,
		conns:              make(map[int]*conn.Connection),
	}
}

// SetChild registers the child subcommand (if any) so Run's shutdown
// condition and bounded-wait logic can observe it.
func (m *Mux) SetChild(c *childproc.Child) { m.child = c }

// Listen opens, binds, and listens on the in-display's socket
// (_listenForClients).
func (m *Mux) Listen() error {
	fd, err := unix.Socket(m.in.Family, unix.SOCK_STREAM, 0)
	if err != nil {
		return fmt.Errorf("mux: socket: %w", err)
	}
	if m.in.Family == unix.AF_INET || m.in.Family == unix.AF_INET6 {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); err != nil {
			unix.Close(fd)
			return fmt.Errorf("mux: setsockopt(SO_KEEPALIVE): %w", err)
		}
	}
	sa, err := listenSockaddr(m.in)
	if err != nil {
		unix.Close(fd)
		return err
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return fmt.Errorf("mux: bind: %w", err)
	}
	if err := unix.Listen(fd, maxPendingConnections); err != nil {
		unix.Close(fd)
		return fmt.Errorf("mux: listen: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return fmt.Errorf("mux: setnonblock: %w", err)
	}
	m.listenFD = fd
	return nil
}

// Close releases the listening socket (and, for AF_UNIX, its socket file).
func (m *Mux) Close() {
	if m.listenFD >= 0 {
		unix.Close(m.listenFD)
		m.listenFD = -1
		if m.in.Family == unix.AF_UNIX {
			_ = unix.Unlink(m.in.Path)
		}
	}
}

// Run is the proxy's entire event loop (spec.md §4.F steps 1-6). It returns
// the process exit status to use.
func (m *Mux) Run() (int, error) {
	for {
		m.reapClosed()
		pfds, info := m.buildPollSet()
		m.reapClosed()

		if shouldShutdown(len(m.conns), m.stopIfNoActiveConn, m.child.Exited()) {
			return 0, nil
		}

		timeout := -1
		if m.child != nil && !m.child.Exited() {
			timeout = childPollIntervalMillis
		}

		n, err := unix.Poll(pfds, timeout)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 1, fmt.Errorf("mux: poll: %w", err)
		}

		if exited, status := m.child.Poll(); exited {
			if len(m.conns) == 0 && !m.waitForClient {
				return status, nil
			}
		}

		if n > 0 {
			m.dispatch(pfds, info)
		}
		m.logDiscards()
		m.reapClosed()
	}
}

// shouldShutdown is spec.md §4.F step 6's shutdown condition, split out as
// a pure function so it can be tested without real sockets.
func shouldShutdown(connCount int, stopIfNoActiveConn, childExited bool) bool {
	return connCount == 0 && stopIfNoActiveConn && childExited
}

// wantEvents builds the poll(2) interest mask for one direction of one
// connection's socket: always watch for an exceptional condition, watch for
// readability only while there's room to receive more, and for writability
// only while there's something queued to send.
func wantEvents(readReady, writeReady bool) int16 {
	ev := int16(unix.POLLPRI)
	if readReady {
		ev |= unix.POLLIN
	}
	if writeReady {
		ev |= unix.POLLOUT
	}
	return ev
}

// buildPollSet mirrors _prepareSocketFlagging: it closes any half-open
// connection side whose peer is already gone and has nothing left queued
// for it, then returns the poll(2) set for everything still open.
func (m *Mux) buildPollSet() ([]unix.PollFd, map[int32]fdInfo) {
	pfds := make([]unix.PollFd, 0, 1+2*len(m.conns))
	info := make(map[int32]fdInfo, 1+2*len(m.conns))

	pfds = append(pfds, unix.PollFd{Fd: int32(m.listenFD), Events: unix.POLLIN})
	info[int32(m.listenFD)] = fdInfo{role: roleListener}

	for id, c := range m.conns {
		if !c.ClientClosed() {
			if c.ServerClosed() && c.ServerBuffer.Empty() {
				m.closeClient(c, "sent EOF")
			} else {
				ev := wantEvents(c.ClientBuffer.Empty(), !c.ServerBuffer.Empty())
				pfds = append(pfds, unix.PollFd{Fd: int32(c.ClientFD), Events: ev})
				info[int32(c.ClientFD)] = fdInfo{role: roleClient, connID: id}
			}
		}
		if !c.ServerClosed() {
			if c.ClientClosed() && c.ClientBuffer.Empty() {
				m.closeServer(c, "sent EOF")
			} else {
				ev := wantEvents(c.ServerBuffer.Empty(), !c.ClientBuffer.Empty())
				pfds = append(pfds, unix.PollFd{Fd: int32(c.ServerFD), Events: ev})
				info[int32(c.ServerFD)] = fdInfo{role: roleServer, connID: id}
			}
		}
	}
	return pfds, info
}

// dispatch mirrors _processFlaggedSockets: it handles every fd poll(2)
// reported as ready, plus a new accept(2) on the listener.
func (m *Mux) dispatch(pfds []unix.PollFd, info map[int32]fdInfo) {
	for _, pfd := range pfds {
		if pfd.Revents == 0 {
			continue
		}
		fi, ok := info[pfd.Fd]
		if !ok {
			continue
		}
		switch fi.role {
		case roleListener:
			if pfd.Revents&unix.POLLIN != 0 {
				m.acceptConnection()
			}
		case roleClient:
			if c, ok := m.conns[fi.connID]; ok {
				m.handleClientFD(c, pfd.Revents)
			}
		case roleServer:
			if c, ok := m.conns[fi.connID]; ok {
				m.handleServerFD(c, pfd.Revents)
			}
		}
	}
}

const exceptionalMask = unix.POLLERR | unix.POLLHUP | unix.POLLNVAL | unix.POLLPRI

func (m *Mux) handleClientFD(c *conn.Connection, revents int16) {
	if revents&exceptionalMask != 0 {
		m.logf("%03d: exceptional condition in communication with client", c.ID)
		c.CloseClient()
		return
	}
	if revents&unix.POLLOUT != 0 {
		res := c.ServerBuffer.WriteTo(c.ClientFD, 0)
		switch res.Kind {
		case buffer.WouldBlock:
		case buffer.OK:
			if m.readWriteDebug {
				m.logf("%03d:>:wrote    %4d bytes", c.ID, res.N)
			}
		default:
			if m.readWriteDebug {
				m.logf("%03d:>:error writing to client: %v", c.ID, res.Err)
			}
			c.CloseClient()
			return
		}
	}
	if revents&unix.POLLIN != 0 {
		res := c.ClientBuffer.ReadFrom(c.ClientFD)
		switch res.Kind {
		case buffer.WouldBlock:
		case buffer.EOF:
			if m.readWriteDebug {
				m.logf("%03d:<:got EOF", c.ID)
			}
			c.CloseClient()
		case buffer.OK:
			if m.readWriteDebug {
				m.logf("%03d:<:received %4d bytes", c.ID, res.N)
			}
			m.logRecords(m.dec.DecodeClientBytes(c))
		default:
			if m.readWriteDebug {
				m.logf("%03d:<:error reading from client buffer: %v", c.ID, res.Err)
			}
			c.CloseClient()
		}
	}
}

func (m *Mux) handleServerFD(c *conn.Connection, revents int16) {
	if revents&exceptionalMask != 0 {
		m.logf("%03d: exceptional condition in communication with server", c.ID)
		c.CloseServer()
		return
	}
	if revents&unix.POLLOUT != 0 {
		res := c.ClientBuffer.WriteTo(c.ServerFD, 0)
		switch res.Kind {
		case buffer.WouldBlock:
		case buffer.OK:
			if m.readWriteDebug {
				m.logf("%03d:<:wrote    %4d bytes", c.ID, res.N)
			}
		default:
			if m.readWriteDebug {
				m.logf("%03d:<:error writing to server: %v", c.ID, res.Err)
			}
			c.CloseServer()
			return
		}
	}
	if revents&unix.POLLIN != 0 {
		res := c.ServerBuffer.ReadFrom(c.ServerFD)
		switch res.Kind {
		case buffer.WouldBlock:
		case buffer.EOF:
			if m.readWriteDebug {
				m.logf("%03d:>:got EOF", c.ID)
			}
			c.CloseServer()
		case buffer.OK:
			if m.readWriteDebug {
				m.logf("%03d:>:received %4d bytes", c.ID, res.N)
			}
			m.logRecords(m.dec.DecodeServerBytes(c))
		default:
			if m.readWriteDebug {
				m.logf("%03d:>:error reading from server buffer: %v", c.ID, res.Err)
			}
			c.CloseServer()
		}
	}
}

// acceptConnection mirrors _acceptConnection: accept the pending client,
// dial out to the real server, and register the new Connection.
func (m *Mux) acceptConnection() {
	nfd, _, err := unix.Accept4(m.listenFD, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return
		}
		m.logf("mux: accept: %v", err)
		return
	}
	desc := peerDesc(nfd)

	sfd, err := m.connectToServer()
	if err != nil {
		m.logf("mux: failure to connect to X server for display %s: %v", m.out.Name, err)
		unix.Close(nfd)
		return
	}

	id := m.nextID
	m.nextID++
	m.conns[id] = conn.New(id, nfd, sfd, desc)
	m.logf("Connected to client: %s", desc)
}

// connectToServer mirrors _connectToServer: a blocking connect(2) to the
// out-display, switched to non-blocking only once established.
func (m *Mux) connectToServer() (int, error) {
	fd, err := m.out.Dial()
	if err != nil {
		return -1, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("setnonblock: %w", err)
	}
	return fd, nil
}

func (m *Mux) closeClient(c *conn.Connection, reason string) {
	c.CloseClient()
	if m.readWriteDebug {
		m.logf("%03d:>:%s", c.ID, reason)
	}
}

func (m *Mux) closeServer(c *conn.Connection, reason string) {
	c.CloseServer()
	if m.readWriteDebug {
		m.logf("%03d:<:%s", c.ID, reason)
	}
}

// logDiscards logs (once, then drops) any bytes left in a buffer whose
// destination socket is already closed and will never be written to again.
func (m *Mux) logDiscards() {
	for _, c := range m.conns {
		if c.ClientClosed() && !c.ServerBuffer.Empty() {
			m.logf("%03d:>: discarded %d bytes sent from server to client", c.ID, c.ServerBuffer.Size())
			c.ServerBuffer.Consume(c.ServerBuffer.Size())
		}
		if c.ServerClosed() && !c.ClientBuffer.Empty() {
			m.logf("%03d:<: discarded %d bytes sent from client to server", c.ID, c.ClientBuffer.Size())
			c.ClientBuffer.Consume(c.ClientBuffer.Size())
		}
	}
}

// reapClosed removes every Connection whose both fds are closed (spec.md
// §4.F step 5).
func (m *Mux) reapClosed() {
	for id, c := range m.conns {
		if c.Dead() {
			delete(m.conns, id)
		}
	}
}

func (m *Mux) logf(format string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Infof(format, args...)
	}
}

func (m *Mux) logRecords(recs []decoder.Record) {
	for _, r := range recs {
		m.logf("%s", r.Line)
	}
}
