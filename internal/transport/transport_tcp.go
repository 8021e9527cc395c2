package transport

import (
	"bufio"
	"errors"
	"log"
	"net"
	"sync"
)

type TCPPeer struct {
	net.Conn
}

func (t *TCPPeer) Close() error {
	if t.Conn != nil {
		return t.Conn.Close()
	}
	return nil
}

func (t *TCPPeer) Send(b []byte) error {
	_, err := t.Conn.Write(b)
	return err
}

// TCPTransport implements Transport
type TCPTransport struct {
	listener     net.Listener
	listenerAddr string
	consumeCh    chan Message
	closeCh      chan struct{}
	closeOnce    sync.Once

	// Split frames the connection's byte stream into messages.
	Split     bufio.SplitFunc
	Handshake HandshakeFunc
}

func NewTCPTransport(addr string) *TCPTransport {
	return &TCPTransport{
		listenerAddr: addr,
		consumeCh:    make(chan Message),
		closeCh:      make(chan struct{}),
		Split:        bufio.ScanLines,
		Handshake:    NoOpHandshake,
	}
}

// Addr returns the bound address once listening, the configured one before.
func (t *TCPTransport) Addr() string {
	if t.listener != nil {
		return t.listener.Addr().String()
	}
	return t.listenerAddr
}

func (t *TCPTransport) Consume() <-chan Message {
	return t.consumeCh
}

func (t *TCPTransport) Listen() error {
	var err error
	t.listener, err = net.Listen("tcp", t.listenerAddr)
	if err != nil {
		return err
	}

	go t.startListening()
	return nil
}

func (t *TCPTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closeCh)
		if t.listener != nil {
			err = t.listener.Close()
		}
	})
	return err
}

func (t *TCPTransport) startListening() {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("tcp: accept error. %s", err)
			continue
		}

		go t.handleConnection(conn)
	}
}

func (t *TCPTransport) handleConnection(c net.Conn) {
	peer := TCPPeer{Conn: c}
	defer peer.Close()

	if err := t.Handshake(&peer); err != nil {
		peer.Send([]byte(err.Error()))
		return
	}

	// One scanner per connection, so bytes buffered past a message are kept
	// for the next one.
	scanner := bufio.NewScanner(c)
	scanner.Split(t.Split)
	for scanner.Scan() {
		msg := Message{
			Peer:    &peer,
			Payload: append([]byte(nil), scanner.Bytes()...),
		}
		select {
		case t.consumeCh <- msg:
		case <-t.closeCh:
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Printf("tcp: read error. %s", err)
	}
}
