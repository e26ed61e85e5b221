// Package conn implements the Connection record (spec.md §3 "Connection",
// §4.D "lifecycle"): the mutable per-client state the multiplexer and
// decoder share — file descriptors, FIFOs, byte-order, and the sequence
// number bookkeeping used to pair replies and errors back to requests.
package conn

import (
	"syscall"

	"github.com/yawning/x11trace/internal/buffer"
	"github.com/yawning/x11trace/internal/wire"
)

// Status governs which decoder entrypoint runs on a Connection's next
// arriving bytes (spec.md §3 "status").
type Status int

const (
	AwaitingInitiation Status = iota
	AwaitingResponse
	Open
	Failed
	Authentication
)

// closedFD marks a direction's descriptor as closed; spec.md §3 allows at
// most one of client_fd/server_fd to be -1 at a time while the connection
// exists.
const closedFD = -1

// Connection is the central mutable entity described in spec.md §3.
type Connection struct {
	ID int

	ClientFD int
	ServerFD int

	ClientDesc string

	ClientBuffer *buffer.Buffer // bytes read from client, destined for server
	ServerBuffer *buffer.Buffer // bytes read from server, destined for client

	Byteswap bool
	Status   Status

	sequence uint16

	// PendingOpcodes maps a request's sequence number to its opcode, so a
	// later reply/error can be routed back to the request that caused it
	// (spec.md §3 "pending_opcodes").
	PendingOpcodes map[uint16]byte
}

// New builds a Connection immediately after accept()/connect() (spec.md
// §4.D transition 1): both fds open, buffers empty, awaiting the client's
// Initiation.
func New(id, clientFD, serverFD int, clientDesc string) *Connection {
	return &Connection{
		ID:             id,
		ClientFD:       clientFD,
		ServerFD:       serverFD,
		ClientDesc:     clientDesc,
		ClientBuffer:   buffer.New(),
		ServerBuffer:   buffer.New(),
		Status:         AwaitingInitiation,
		PendingOpcodes: make(map[uint16]byte, 64),
	}
}

// Order returns the wire.Order matching this connection's established
// byte-swap state (spec.md §4.A).
func (c *Connection) Order() wire.Order { return wire.NewOrder(c.Byteswap) }

// NextSequence increments and returns the connection's request sequence
// counter, matching X11 semantics where the handshake itself occupies
// sequence 0 and the first real request is sequence 1 (spec.md §3
// "sequence").
func (c *Connection) NextSequence() uint16 {
	c.sequence++
	return c.sequence
}

// Sequence returns the most recently assigned sequence number without
// advancing it.
func (c *Connection) Sequence() uint16 { return c.sequence }

// ClientClosed reports whether the client-facing descriptor has been
// closed.
func (c *Connection) ClientClosed() bool { return c.ClientFD == closedFD }

// ServerClosed reports whether the server-facing descriptor has been
// closed.
func (c *Connection) ServerClosed() bool { return c.ServerFD == closedFD }

// Dead reports whether both descriptors are closed; spec.md §4.D
// transition 5 says the Connection is removed once this holds.
func (c *Connection) Dead() bool { return c.ClientClosed() && c.ServerClosed() }

// CloseClient closes the client-facing descriptor, if still open. It is
// idempotent.
func (c *Connection) CloseClient() {
	if c.ClientClosed() {
		return
	}
	syscall.Close(c.ClientFD)
	c.ClientFD = closedFD
}

// CloseServer closes the server-facing descriptor, if still open. It is
// idempotent.
func (c *Connection) CloseServer() {
	if c.ServerClosed() {
		return
	}
	syscall.Close(c.ServerFD)
	c.ServerFD = closedFD
}
