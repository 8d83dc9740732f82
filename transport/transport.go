package transport

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/oomph-ac/charsim/oerror"
	"github.com/oomph-ac/charsim/packet"
	"github.com/sandertv/go-raknet"
)

// Listener accepts RakNet connections that exchange packet frames.
type Listener struct {
	l *raknet.Listener
}

// Listen starts listening for connections on the UDP address passed. The logger may be nil.
func Listen(addr string, log *slog.Logger) (*Listener, error) {
	l, err := raknet.ListenConfig{ErrorLog: log}.Listen(addr)
	if err != nil {
		return nil, err
	}
	return &Listener{l: l}, nil
}

// Accept blocks until a new connection is established or the listener is closed.
func (l *Listener) Accept() (*Conn, error) {
	c, err := l.l.Accept()
	if err != nil {
		return nil, err
	}
	rc, ok := c.(*raknet.Conn)
	if !ok {
		_ = c.Close()
		return nil, oerror.New("unexpected connection type %T", c)
	}
	return newConn(rc), nil
}

// Addr ...
func (l *Listener) Addr() net.Addr {
	return l.l.Addr()
}

// Close stops the listener. Connections already accepted stay open.
func (l *Listener) Close() error {
	return l.l.Close()
}

// Dial connects to the listener at the address passed. The logger may be nil.
func Dial(ctx context.Context, addr string, log *slog.Logger) (*Conn, error) {
	c, err := raknet.Dialer{ErrorLog: log}.DialContext(ctx, addr)
	if err != nil {
		return nil, err
	}
	return newConn(c), nil
}

// Conn is a RakNet connection carrying one packet frame per datagram. Packets may be
// written from multiple goroutines, but only one goroutine may read.
type Conn struct {
	conn *raknet.Conn
	wMu  sync.Mutex
}

func newConn(c *raknet.Conn) *Conn {
	return &Conn{conn: c}
}

// WritePacket encodes the packet passed and sends it to the other end.
func (c *Conn) WritePacket(pk packet.Packet) error {
	b := packet.Encode(pk)

	c.wMu.Lock()
	defer c.wMu.Unlock()

	if _, err := c.conn.Write(b); err != nil {
		return oerror.New("error writing packet %T: %v", pk, err)
	}
	return nil
}

// ReadPacket blocks until the next packet arrives and decodes it.
func (c *Conn) ReadPacket() (packet.Packet, error) {
	b, err := c.conn.ReadPacket()
	if err != nil {
		return nil, err
	}
	return packet.Decode(b)
}

// Latency returns the round-trip time measured by RakNet.
func (c *Conn) Latency() time.Duration {
	return c.conn.Latency()
}

// RemoteAddr ...
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Close ...
func (c *Conn) Close() error {
	return c.conn.Close()
}
